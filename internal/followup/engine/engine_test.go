package engine

import (
	"context"
	"strings"
	"testing"
	"time"

	fudomain "weddinglead_backend/internal/followup/domain"
	furepo "weddinglead_backend/internal/followup/repository"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/messaging/dispatch"
	msgdomain "weddinglead_backend/internal/messaging/domain"
	msgrepo "weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

type fakeLeadState struct {
	lead      leadsrepo.DueLead
	claimedAt *time.Time
	advanced  []int
	nextDue   *time.Time
	active    bool
	finalStep *int
	activity  []leadsrepo.AppendActivityParams
}

type fakeLeadStore struct {
	leads       map[uuid.UUID]*fakeLeadState
	claimDenied map[uuid.UUID]bool
}

func newFakeLeadStore() *fakeLeadStore {
	return &fakeLeadStore{
		leads:       make(map[uuid.UUID]*fakeLeadState),
		claimDenied: make(map[uuid.UUID]bool),
	}
}

func (f *fakeLeadStore) addDue(vendorID uuid.UUID, step int) *fakeLeadState {
	state := &fakeLeadState{
		lead: leadsrepo.DueLead{
			Lead: leadsrepo.Lead{
				ID:                  uuid.New(),
				VendorID:            vendorID,
				Name:                "김민지",
				Phone:               "01012345678",
				SequenceActive:      true,
				CurrentSequenceStep: step,
			},
			VendorName: "그랜드웨딩홀",
		},
		active: true,
	}
	f.leads[state.lead.ID] = state
	return state
}

func (f *fakeLeadStore) ListDue(_ context.Context, _ time.Time) ([]leadsrepo.DueLead, error) {
	due := make([]leadsrepo.DueLead, 0, len(f.leads))
	for _, state := range f.leads {
		if state.active {
			due = append(due, state.lead)
		}
	}
	return due, nil
}

func (f *fakeLeadStore) ClaimDue(_ context.Context, id uuid.UUID, now, staleBefore time.Time) (bool, error) {
	state, ok := f.leads[id]
	if !ok || !state.active || f.claimDenied[id] {
		return false, nil
	}
	if state.claimedAt != nil && !state.claimedAt.Before(staleBefore) {
		return false, nil
	}
	at := now
	state.claimedAt = &at
	return true, nil
}

func (f *fakeLeadStore) AdvanceAutomation(_ context.Context, id uuid.UUID, step int, nextFollowupAt time.Time) error {
	state := f.leads[id]
	state.lead.CurrentSequenceStep = step
	state.advanced = append(state.advanced, step)
	state.nextDue = &nextFollowupAt
	return nil
}

func (f *fakeLeadStore) DeactivateAutomation(_ context.Context, id uuid.UUID, finalStep *int) error {
	state := f.leads[id]
	state.active = false
	state.nextDue = nil
	state.finalStep = finalStep
	return nil
}

func (f *fakeLeadStore) AppendActivity(_ context.Context, params leadsrepo.AppendActivityParams) error {
	f.leads[params.LeadID].activity = append(f.leads[params.LeadID].activity, params)
	return nil
}

type fakeSequenceStore struct {
	sequences map[uuid.UUID]furepo.Sequence
	templates map[fudomain.Trigger]furepo.Template
}

func newFakeSequenceStore() *fakeSequenceStore {
	return &fakeSequenceStore{
		sequences: make(map[uuid.UUID]furepo.Sequence),
		templates: make(map[fudomain.Trigger]furepo.Template),
	}
}

func (f *fakeSequenceStore) GetActiveSequence(_ context.Context, vendorID uuid.UUID) (furepo.Sequence, error) {
	seq, ok := f.sequences[vendorID]
	if !ok {
		return furepo.Sequence{}, furepo.ErrSequenceNotFound
	}
	return seq, nil
}

func (f *fakeSequenceStore) GetActiveTemplate(_ context.Context, _ uuid.UUID, trigger fudomain.Trigger) (furepo.Template, error) {
	tpl, ok := f.templates[trigger]
	if !ok {
		return furepo.Template{}, furepo.ErrTemplateNotFound
	}
	return tpl, nil
}

type fakeMessageStore struct {
	created []msgrepo.CreatePendingParams
	marked  map[uuid.UUID]msgrepo.MarkResultParams
}

func newFakeMessageStore() *fakeMessageStore {
	return &fakeMessageStore{marked: make(map[uuid.UUID]msgrepo.MarkResultParams)}
}

func (f *fakeMessageStore) CreatePending(_ context.Context, params msgrepo.CreatePendingParams) (msgrepo.Message, error) {
	f.created = append(f.created, params)
	return msgrepo.Message{ID: uuid.New(), LeadID: params.LeadID, Status: msgdomain.StatusPending}, nil
}

func (f *fakeMessageStore) MarkResult(_ context.Context, id uuid.UUID, params msgrepo.MarkResultParams) error {
	f.marked[id] = params
	return nil
}

type fakeDispatcher struct {
	result dispatch.Result
	sent   []dispatch.Params
}

func (f *fakeDispatcher) Send(_ context.Context, params dispatch.Params) dispatch.Result {
	f.sent = append(f.sent, params)
	return f.result
}

func okDispatcher() *fakeDispatcher {
	return &fakeDispatcher{result: dispatch.Result{
		Success:           true,
		ProviderMessageID: "pm-1",
		Method:            msgdomain.ChannelAlimtalk,
	}}
}

func twoStepSequence(vendorID uuid.UUID, seqs *fakeSequenceStore) {
	seqs.sequences[vendorID] = furepo.Sequence{
		ID:       uuid.New(),
		VendorID: vendorID,
		IsActive: true,
		Steps: []fudomain.Step{
			{DelayDays: 3, TemplateTrigger: fudomain.TriggerFollowupD3},
			{DelayDays: 7, TemplateTrigger: fudomain.TriggerFollowupD7},
		},
	}
}

func newEngine(leads *fakeLeadStore, seqs *fakeSequenceStore, msgs *fakeMessageStore, d dispatch.Dispatcher) *Engine {
	return New(leads, seqs, msgs, d, logger.New("development"))
}

func TestRunSendsStepAndAdvances(t *testing.T) {
	vendorID := uuid.New()
	leads := newFakeLeadStore()
	state := leads.addDue(vendorID, 0)

	seqs := newFakeSequenceStore()
	twoStepSequence(vendorID, seqs)
	ref := "KA01TP001"
	seqs.templates[fudomain.TriggerFollowupD3] = furepo.Template{
		ID:                 uuid.New(),
		Content:            "{{name}}님, {{business_name}}입니다.",
		ProviderTemplateID: &ref,
		IsActive:           true,
	}

	msgs := newFakeMessageStore()
	d := okDispatcher()

	summary, err := newEngine(leads, seqs, msgs, d).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 1 || summary.Succeeded != 1 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	if len(msgs.created) != 1 {
		t.Fatalf("messages created = %d, want 1", len(msgs.created))
	}
	if got := msgs.created[0].Content; got != "김민지님, 그랜드웨딩홀입니다." {
		t.Fatalf("rendered content = %q", got)
	}
	if len(d.sent) != 1 || d.sent[0].TemplateRef != ref {
		t.Fatalf("dispatch params = %+v", d.sent)
	}

	for _, mark := range msgs.marked {
		if mark.Status != msgdomain.StatusSent {
			t.Fatalf("message status = %s, want sent", mark.Status)
		}
		if mark.SentAt == nil {
			t.Fatal("sent_at not recorded")
		}
	}

	if state.lead.CurrentSequenceStep != 1 {
		t.Fatalf("step = %d, want 1", state.lead.CurrentSequenceStep)
	}
	if !state.active || state.nextDue == nil {
		t.Fatal("automation should remain active with a due time")
	}
	if len(state.activity) != 1 || !strings.Contains(state.activity[0].Content, "1/2") {
		t.Fatalf("activity = %+v", state.activity)
	}
}

func TestRunDeactivatesAfterLastStep(t *testing.T) {
	vendorID := uuid.New()
	leads := newFakeLeadStore()
	state := leads.addDue(vendorID, 1)

	seqs := newFakeSequenceStore()
	twoStepSequence(vendorID, seqs)
	seqs.templates[fudomain.TriggerFollowupD7] = furepo.Template{ID: uuid.New(), Content: "안녕하세요", IsActive: true}

	summary, err := newEngine(leads, seqs, newFakeMessageStore(), okDispatcher()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Succeeded != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if state.active {
		t.Fatal("automation still active after final step")
	}
	if state.finalStep == nil || *state.finalStep != 2 {
		t.Fatalf("finalStep = %v, want 2", state.finalStep)
	}
	if state.nextDue != nil {
		t.Fatal("next due time should be cleared on deactivation")
	}
}

func TestRunNoActiveSequenceDeactivates(t *testing.T) {
	leads := newFakeLeadStore()
	state := leads.addDue(uuid.New(), 0)

	msgs := newFakeMessageStore()
	summary, err := newEngine(leads, newFakeSequenceStore(), msgs, okDispatcher()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 1 || summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if state.active {
		t.Fatal("automation should be deactivated when no sequence exists")
	}
	if len(msgs.created) != 0 {
		t.Fatal("no message should be created")
	}
}

func TestRunMissingTemplateAdvancesAsFailed(t *testing.T) {
	vendorID := uuid.New()
	leads := newFakeLeadStore()
	state := leads.addDue(vendorID, 0)

	seqs := newFakeSequenceStore()
	twoStepSequence(vendorID, seqs)
	// no template registered for followup_d3

	msgs := newFakeMessageStore()
	summary, err := newEngine(leads, seqs, msgs, okDispatcher()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 || summary.Succeeded != 0 {
		t.Fatalf("summary = %+v", summary)
	}
	if len(msgs.created) != 0 {
		t.Fatal("no message should be created for a missing template")
	}
	if state.lead.CurrentSequenceStep != 1 || !state.active {
		t.Fatalf("sequence should advance past the skipped step, state = %+v", state.lead)
	}
}

func TestRunOutOfRangeStepDeactivates(t *testing.T) {
	vendorID := uuid.New()
	leads := newFakeLeadStore()
	state := leads.addDue(vendorID, 5)

	seqs := newFakeSequenceStore()
	twoStepSequence(vendorID, seqs)

	summary, err := newEngine(leads, seqs, newFakeMessageStore(), okDispatcher()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}
	if state.active {
		t.Fatal("automation should be deactivated on an out-of-range step")
	}
}

func TestRunSkipsClaimedLead(t *testing.T) {
	vendorID := uuid.New()
	leads := newFakeLeadStore()
	state := leads.addDue(vendorID, 0)
	leads.claimDenied[state.lead.ID] = true

	seqs := newFakeSequenceStore()
	twoStepSequence(vendorID, seqs)

	msgs := newFakeMessageStore()
	summary, err := newEngine(leads, seqs, msgs, okDispatcher()).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Processed != 0 {
		t.Fatalf("claimed lead was processed: %+v", summary)
	}
	if len(msgs.created) != 0 {
		t.Fatal("no message should be created for a lead claimed elsewhere")
	}
}

func TestRunDispatchFailureRecordsFailedMessage(t *testing.T) {
	vendorID := uuid.New()
	leads := newFakeLeadStore()
	state := leads.addDue(vendorID, 0)

	seqs := newFakeSequenceStore()
	twoStepSequence(vendorID, seqs)
	seqs.templates[fudomain.TriggerFollowupD3] = furepo.Template{ID: uuid.New(), Content: "안녕하세요", IsActive: true}

	msgs := newFakeMessageStore()
	d := &fakeDispatcher{result: dispatch.Result{Error: "provider unavailable", Method: msgdomain.ChannelSMS}}

	summary, err := newEngine(leads, seqs, msgs, d).Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Failed != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	for _, mark := range msgs.marked {
		if mark.Status != msgdomain.StatusFailed {
			t.Fatalf("message status = %s, want failed", mark.Status)
		}
		if mark.SentAt != nil {
			t.Fatal("sent_at should not be set on failure")
		}
	}
	// the sequence still advances so the lead does not wedge on one step
	if state.lead.CurrentSequenceStep != 1 {
		t.Fatalf("step = %d, want 1", state.lead.CurrentSequenceStep)
	}
}
