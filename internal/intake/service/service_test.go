package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"weddinglead_backend/internal/events"
	fudomain "weddinglead_backend/internal/followup/domain"
	furepo "weddinglead_backend/internal/followup/repository"
	"weddinglead_backend/internal/intake/transport"
	leadsdomain "weddinglead_backend/internal/leads/domain"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/messaging/dispatch"
	msgdomain "weddinglead_backend/internal/messaging/domain"
	msgrepo "weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/internal/parse"
	vendorsrepo "weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/platform/apperr"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeVendorStore struct {
	vendor vendorsrepo.Vendor
	err    error
}

func (f *fakeVendorStore) GetByID(_ context.Context, _ uuid.UUID) (vendorsrepo.Vendor, error) {
	if f.err != nil {
		return vendorsrepo.Vendor{}, f.err
	}
	return f.vendor, nil
}

type fakeLeadStore struct {
	created    []leadsrepo.CreateLeadParams
	activities []leadsrepo.AppendActivityParams
	activated  []time.Time
	createErr  error
}

func (f *fakeLeadStore) Create(_ context.Context, params leadsrepo.CreateLeadParams) (leadsrepo.Lead, error) {
	if f.createErr != nil {
		return leadsrepo.Lead{}, f.createErr
	}
	f.created = append(f.created, params)
	return leadsrepo.Lead{
		ID:          uuid.New(),
		VendorID:    params.VendorID,
		Name:        params.Name,
		Phone:       params.Phone,
		Source:      params.Source,
		DesiredDate: params.DesiredDate,
		GuestCount:  params.GuestCount,
		Status:      leadsdomain.StatusNew,
		Priority:    params.Priority,
	}, nil
}

func (f *fakeLeadStore) AppendActivity(_ context.Context, params leadsrepo.AppendActivityParams) error {
	f.activities = append(f.activities, params)
	return nil
}

func (f *fakeLeadStore) ActivateAutomation(_ context.Context, _ uuid.UUID, nextFollowupAt time.Time) error {
	f.activated = append(f.activated, nextFollowupAt)
	return nil
}

type fakeFollowupStore struct {
	template    *furepo.Template
	sequence    *furepo.Sequence
	templateErr error
}

func (f *fakeFollowupStore) GetActiveTemplate(_ context.Context, _ uuid.UUID, _ fudomain.Trigger) (furepo.Template, error) {
	if f.templateErr != nil {
		return furepo.Template{}, f.templateErr
	}
	if f.template == nil {
		return furepo.Template{}, furepo.ErrTemplateNotFound
	}
	return *f.template, nil
}

func (f *fakeFollowupStore) GetActiveSequence(_ context.Context, _ uuid.UUID) (furepo.Sequence, error) {
	if f.sequence == nil {
		return furepo.Sequence{}, furepo.ErrSequenceNotFound
	}
	return *f.sequence, nil
}

type fakeMessageStore struct {
	created []msgrepo.CreatePendingParams
	marked  []msgrepo.MarkResultParams
}

func (f *fakeMessageStore) CreatePending(_ context.Context, params msgrepo.CreatePendingParams) (msgrepo.Message, error) {
	f.created = append(f.created, params)
	return msgrepo.Message{ID: uuid.New(), LeadID: params.LeadID}, nil
}

func (f *fakeMessageStore) MarkResult(_ context.Context, _ uuid.UUID, params msgrepo.MarkResultParams) error {
	f.marked = append(f.marked, params)
	return nil
}

type fakeDispatcher struct {
	result dispatch.Result
	sent   int
}

func (f *fakeDispatcher) Send(_ context.Context, _ dispatch.Params) dispatch.Result {
	f.sent++
	return f.result
}

type failingParser struct{}

func (failingParser) Parse(_ context.Context, _ string) (parse.Parsed, error) {
	return parse.Parsed{}, errors.New("model unavailable")
}

type urgentParser struct{}

func (urgentParser) Parse(_ context.Context, _ string) (parse.Parsed, error) {
	summary := "10월 예식 문의"
	return parse.Parsed{Summary: summary, Urgency: "HIGH"}, nil
}

func validRequest(vendorID uuid.UUID) transport.InquiryRequest {
	return transport.InquiryRequest{
		VendorID: vendorID.String(),
		Name:     "김민지",
		Phone:    "010-1234-5678",
		Source:   "website",
		Message:  "10월 예식 문의드립니다. 150명 정도 생각하고 있어요.",
	}
}

func newService(vendors *fakeVendorStore, leads *fakeLeadStore, followups *fakeFollowupStore,
	messages *fakeMessageStore, parser parse.Parser, d dispatch.Dispatcher) *Service {
	log := logger.New("development")
	return New(vendors, leads, followups, messages, parser, d, events.NewInMemoryBus(log), log)
}

func TestProcessFullPipeline(t *testing.T) {
	vendorID := uuid.New()
	vendors := &fakeVendorStore{vendor: vendorsrepo.Vendor{ID: vendorID, Name: "그랜드웨딩홀"}}
	leads := &fakeLeadStore{}
	ref := "KA01TP777"
	followups := &fakeFollowupStore{
		template: &furepo.Template{
			ID:                 uuid.New(),
			Trigger:            fudomain.TriggerAutoReply,
			Content:            "{{name}}님, {{business_name}} 문의 감사합니다.",
			ProviderTemplateID: &ref,
		},
		sequence: &furepo.Sequence{
			Steps: []fudomain.Step{{DelayDays: 3, TemplateTrigger: fudomain.TriggerFollowupD3}},
		},
	}
	messages := &fakeMessageStore{}
	d := &fakeDispatcher{result: dispatch.Result{Success: true, ProviderMessageID: "pm-1", Method: msgdomain.ChannelAlimtalk}}

	svc := newService(vendors, leads, followups, messages, urgentParser{}, d)
	resp, err := svc.Process(context.Background(), validRequest(vendorID))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !resp.Success || resp.LeadID == uuid.Nil {
		t.Fatalf("response = %+v", resp)
	}

	if len(leads.created) != 1 {
		t.Fatalf("leads created = %d, want 1", len(leads.created))
	}
	created := leads.created[0]
	if created.Phone != "01012345678" {
		t.Fatalf("phone not normalized: %q", created.Phone)
	}
	if created.Priority != leadsdomain.PriorityHigh {
		t.Fatalf("priority = %s, want high", created.Priority)
	}
	if created.ParsedSummary == nil || *created.ParsedSummary != "10월 예식 문의" {
		t.Fatalf("parsed summary = %v", created.ParsedSummary)
	}

	if len(messages.created) != 1 {
		t.Fatalf("auto-reply messages = %d, want 1", len(messages.created))
	}
	if got := messages.created[0].Content; got != "김민지님, 그랜드웨딩홀 문의 감사합니다." {
		t.Fatalf("rendered auto-reply = %q", got)
	}
	if d.sent != 1 {
		t.Fatalf("dispatches = %d, want 1", d.sent)
	}

	if len(leads.activated) != 1 {
		t.Fatalf("automation seeds = %d, want 1", len(leads.activated))
	}

	types := make(map[leadsdomain.ActivityType]bool)
	for _, a := range leads.activities {
		types[a.Type] = true
	}
	if !types[leadsdomain.ActivityInquiryReceived] || !types[leadsdomain.ActivityAutoReplySent] {
		t.Fatalf("activity types = %v", types)
	}
}

func TestProcessUnknownVendor(t *testing.T) {
	vendors := &fakeVendorStore{err: vendorsrepo.ErrNotFound}
	svc := newService(vendors, &fakeLeadStore{}, &fakeFollowupStore{}, &fakeMessageStore{}, urgentParser{}, &fakeDispatcher{})

	_, err := svc.Process(context.Background(), validRequest(uuid.New()))
	if apperr.GetKind(err) != apperr.KindNotFound {
		t.Fatalf("err = %v, want not-found", err)
	}
}

func TestProcessSurvivesDownstreamFailures(t *testing.T) {
	// parser down, no templates, no sequence, dispatcher failing: the
	// lead must still be created and the call must still succeed.
	vendorID := uuid.New()
	vendors := &fakeVendorStore{vendor: vendorsrepo.Vendor{ID: vendorID, Name: "그랜드웨딩홀"}}
	leads := &fakeLeadStore{}
	d := &fakeDispatcher{result: dispatch.Result{Error: "provider down", Method: msgdomain.ChannelSMS}}

	svc := newService(vendors, leads, &fakeFollowupStore{}, &fakeMessageStore{}, failingParser{}, d)
	resp, err := svc.Process(context.Background(), validRequest(vendorID))
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if !resp.Success {
		t.Fatalf("response = %+v", resp)
	}

	if len(leads.created) != 1 {
		t.Fatalf("leads created = %d, want 1", len(leads.created))
	}
	if leads.created[0].Priority != leadsdomain.PriorityMedium {
		t.Fatalf("fallback priority = %s, want medium", leads.created[0].Priority)
	}
	if len(leads.activated) != 0 {
		t.Fatal("automation seeded without an active sequence")
	}
}

func TestProcessLeadCreationFailureFailsRequest(t *testing.T) {
	vendorID := uuid.New()
	vendors := &fakeVendorStore{vendor: vendorsrepo.Vendor{ID: vendorID}}
	leads := &fakeLeadStore{createErr: errors.New("connection refused")}

	svc := newService(vendors, leads, &fakeFollowupStore{}, &fakeMessageStore{}, urgentParser{}, &fakeDispatcher{})
	_, err := svc.Process(context.Background(), validRequest(vendorID))
	if err == nil {
		t.Fatal("expected error when lead persistence fails")
	}
}

func TestProcessFailedAutoReplyRecordsFailureActivity(t *testing.T) {
	vendorID := uuid.New()
	vendors := &fakeVendorStore{vendor: vendorsrepo.Vendor{ID: vendorID, Name: "그랜드웨딩홀"}}
	leads := &fakeLeadStore{}
	followups := &fakeFollowupStore{
		template: &furepo.Template{ID: uuid.New(), Trigger: fudomain.TriggerAutoReply, Content: "안녕하세요"},
	}
	messages := &fakeMessageStore{}
	d := &fakeDispatcher{result: dispatch.Result{Error: "rejected", Method: msgdomain.ChannelSMS}}

	svc := newService(vendors, leads, followups, messages, urgentParser{}, d)
	if _, err := svc.Process(context.Background(), validRequest(vendorID)); err != nil {
		t.Fatalf("Process: %v", err)
	}

	if len(messages.marked) != 1 || messages.marked[0].Status != msgdomain.StatusFailed {
		t.Fatalf("marked = %+v, want one failed result", messages.marked)
	}

	// the failed attempt still lands on the timeline, flagged as such
	var found *leadsrepo.AppendActivityParams
	for i, a := range leads.activities {
		if a.Type == leadsdomain.ActivityAutoReplySent {
			found = &leads.activities[i]
		}
	}
	if found == nil {
		t.Fatal("no auto_reply_sent activity recorded for the failed dispatch")
	}
	if success, ok := found.Metadata["success"].(bool); !ok || success {
		t.Fatalf("activity metadata = %v, want success=false", found.Metadata)
	}
	if !strings.Contains(found.Content, "실패") || !strings.Contains(found.Content, "rejected") {
		t.Fatalf("activity content = %q, want failure text with provider error", found.Content)
	}
}
