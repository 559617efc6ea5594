package service

import (
	"context"
	"testing"
	"time"

	"weddinglead_backend/internal/messaging/domain"
	"weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeStore struct {
	messages map[string]*repository.Message
	updates  []domain.Status
}

func newFakeStore() *fakeStore {
	return &fakeStore{messages: make(map[string]*repository.Message)}
}

func (f *fakeStore) add(providerID string, status domain.Status) *repository.Message {
	msg := &repository.Message{
		ID:                uuid.New(),
		LeadID:            uuid.New(),
		Status:            status,
		ProviderMessageID: &providerID,
	}
	f.messages[providerID] = msg
	return msg
}

func (f *fakeStore) GetByProviderMessageID(_ context.Context, providerID string) (repository.Message, error) {
	msg, ok := f.messages[providerID]
	if !ok {
		return repository.Message{}, repository.ErrNotFound
	}
	return *msg, nil
}

func (f *fakeStore) UpdateDeliveryStatus(_ context.Context, id uuid.UUID, status domain.Status, deliveredAt time.Time) error {
	for _, msg := range f.messages {
		if msg.ID != id {
			continue
		}
		if status == domain.StatusDelivered && msg.Status != domain.StatusDelivered {
			at := deliveredAt
			msg.SentAt = &at
		}
		msg.Status = status
		f.updates = append(f.updates, status)
		return nil
	}
	return repository.ErrNotFound
}

func newReconciler(store MessageStore) *Reconciler {
	return NewReconciler(store, logger.New("development"))
}

func TestProcessStatusMapping(t *testing.T) {
	cases := []struct {
		code string
		want domain.Status
	}{
		{"2000", domain.StatusDelivered},
		{"3000", domain.StatusSent},
		{"3999", domain.StatusSent},
		{"4000", domain.StatusFailed},
		{"4500", domain.StatusFailed},
		{"", domain.StatusPending},
		{"weird", domain.StatusSent},
		{"1000", domain.StatusSent},
	}

	for _, tc := range cases {
		store := newFakeStore()
		msg := store.add("pm-1", domain.StatusSent)

		result := newReconciler(store).Process(context.Background(), []Callback{
			{ProviderMessageID: "pm-1", StatusCode: tc.code},
		})

		if result.Updated != 1 {
			t.Fatalf("code %q: updated = %d, want 1", tc.code, result.Updated)
		}
		if msg.Status != tc.want {
			t.Fatalf("code %q: status = %s, want %s", tc.code, msg.Status, tc.want)
		}
	}
}

func TestProcessSentAtOnlyOnDeliveredTransition(t *testing.T) {
	store := newFakeStore()
	msg := store.add("pm-1", domain.StatusSent)

	rec := newReconciler(store)
	rec.Process(context.Background(), []Callback{{ProviderMessageID: "pm-1", StatusCode: "2000"}})

	if msg.SentAt == nil {
		t.Fatal("sent_at not set on delivered transition")
	}
	first := *msg.SentAt

	// duplicate callback must not move the timestamp
	rec.now = func() time.Time { return first.Add(time.Hour) }
	rec.Process(context.Background(), []Callback{{ProviderMessageID: "pm-1", StatusCode: "2000"}})

	if !msg.SentAt.Equal(first) {
		t.Fatalf("sent_at moved on duplicate callback: %v -> %v", first, *msg.SentAt)
	}
	if msg.Status != domain.StatusDelivered {
		t.Fatalf("status = %s, want delivered", msg.Status)
	}
}

func TestProcessCountsNotFoundAndErrors(t *testing.T) {
	store := newFakeStore()
	store.add("pm-known", domain.StatusSent)

	result := newReconciler(store).Process(context.Background(), []Callback{
		{ProviderMessageID: "pm-known", StatusCode: "2000"},
		{ProviderMessageID: "pm-unknown", StatusCode: "2000"},
		{ProviderMessageID: "", StatusCode: "2000"},
	})

	if result.Updated != 1 {
		t.Fatalf("updated = %d, want 1", result.Updated)
	}
	if result.NotFound != 1 {
		t.Fatalf("notFound = %d, want 1", result.NotFound)
	}
	if len(result.Errors) != 1 {
		t.Fatalf("errors = %v, want one entry", result.Errors)
	}
}

func TestProcessEmptyBatch(t *testing.T) {
	result := newReconciler(newFakeStore()).Process(context.Background(), nil)
	if result.Updated != 0 || result.NotFound != 0 || len(result.Errors) != 0 {
		t.Fatalf("unexpected result for empty batch: %+v", result)
	}
}
