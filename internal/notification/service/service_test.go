package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"weddinglead_backend/internal/events"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	vendorsrepo "weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeVendorStore struct {
	vendor vendorsrepo.Vendor
}

func (f *fakeVendorStore) GetByID(_ context.Context, _ uuid.UUID) (vendorsrepo.Vendor, error) {
	return f.vendor, nil
}

type fakeActivityWriter struct {
	appended []leadsrepo.AppendActivityParams
}

func (f *fakeActivityWriter) AppendActivity(_ context.Context, params leadsrepo.AppendActivityParams) error {
	f.appended = append(f.appended, params)
	return nil
}

type fakeSender struct {
	urls  []string
	texts []string
	err   error
}

func (f *fakeSender) Send(_ context.Context, url, text string) error {
	f.urls = append(f.urls, url)
	f.texts = append(f.texts, text)
	return f.err
}

type staticConfig struct{}

func (staticConfig) GetAppBaseURL() string { return "https://app.example.com" }

func newLeadEvent() events.LeadCreated {
	date := time.Date(2026, 10, 24, 0, 0, 0, 0, time.UTC)
	guests := 150
	return events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      uuid.New(),
		VendorID:    uuid.New(),
		Name:        "김민지",
		Phone:       "01012345678",
		DesiredDate: &date,
		GuestCount:  &guests,
		Source:      "website",
	}
}

func TestNotifyNewLeadMasksCustomerDetails(t *testing.T) {
	url := "https://hooks.example.com/T000/B000"
	vendors := &fakeVendorStore{vendor: vendorsrepo.Vendor{SlackWebhookURL: &url}}
	activities := &fakeActivityWriter{}
	sender := &fakeSender{}

	svc := New(vendors, activities, sender, staticConfig{}, logger.New("development"))
	if err := svc.NotifyNewLead(context.Background(), newLeadEvent()); err != nil {
		t.Fatalf("NotifyNewLead: %v", err)
	}

	if len(sender.texts) != 1 {
		t.Fatalf("sends = %d, want 1", len(sender.texts))
	}
	text := sender.texts[0]
	if strings.Contains(text, "김민지") {
		t.Fatal("full name leaked into notification")
	}
	if strings.Contains(text, "01012345678") {
		t.Fatal("full phone number leaked into notification")
	}
	if !strings.Contains(text, "김*지") {
		t.Fatalf("masked name missing: %q", text)
	}
	if !strings.Contains(text, "010-****-5678") {
		t.Fatalf("masked phone missing: %q", text)
	}
	if !strings.Contains(text, "10월 24일") {
		t.Fatalf("desired date missing: %q", text)
	}

	if len(activities.appended) != 1 {
		t.Fatalf("activities = %d, want 1", len(activities.appended))
	}
	if success, ok := activities.appended[0].Metadata["success"].(bool); !ok || !success {
		t.Fatalf("activity metadata = %v, want success=true", activities.appended[0].Metadata)
	}
}

func TestNotifyNewLeadRecordsFailedDelivery(t *testing.T) {
	url := "https://hooks.example.com/T000/B000"
	vendors := &fakeVendorStore{vendor: vendorsrepo.Vendor{SlackWebhookURL: &url}}
	activities := &fakeActivityWriter{}
	sender := &fakeSender{err: errors.New("webhook returned 500")}

	svc := New(vendors, activities, sender, staticConfig{}, logger.New("development"))
	if err := svc.NotifyNewLead(context.Background(), newLeadEvent()); err == nil {
		t.Fatal("expected error from failed delivery")
	}

	if len(activities.appended) != 1 {
		t.Fatalf("activities = %d, want 1 for the failed attempt", len(activities.appended))
	}
	entry := activities.appended[0]
	if success, ok := entry.Metadata["success"].(bool); !ok || success {
		t.Fatalf("activity metadata = %v, want success=false", entry.Metadata)
	}
	if !strings.Contains(entry.Content, "실패") {
		t.Fatalf("activity content = %q, want failure text", entry.Content)
	}
}

func TestNotifyNewLeadSkipsVendorWithoutWebhook(t *testing.T) {
	vendors := &fakeVendorStore{vendor: vendorsrepo.Vendor{}}
	sender := &fakeSender{}

	svc := New(vendors, &fakeActivityWriter{}, sender, staticConfig{}, logger.New("development"))
	if err := svc.NotifyNewLead(context.Background(), newLeadEvent()); err != nil {
		t.Fatalf("NotifyNewLead: %v", err)
	}
	if len(sender.urls) != 0 {
		t.Fatal("notification sent despite missing webhook")
	}
}

func TestMaskName(t *testing.T) {
	cases := []struct{ in, want string }{
		{"김민지", "김*지"},
		{"이서", "이*"},
		{"박", "박"},
		{"", ""},
		{"김수한무거", "김***거"},
	}
	for _, tc := range cases {
		if got := MaskName(tc.in); got != tc.want {
			t.Fatalf("MaskName(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
