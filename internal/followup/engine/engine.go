// Package engine runs the scheduled follow-up batch: it selects due
// leads, sends the next sequence step for each and advances or halts the
// lead's automation state.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	fudomain "weddinglead_backend/internal/followup/domain"
	furepo "weddinglead_backend/internal/followup/repository"
	leadsdomain "weddinglead_backend/internal/leads/domain"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/messaging/dispatch"
	msgdomain "weddinglead_backend/internal/messaging/domain"
	msgrepo "weddinglead_backend/internal/messaging/repository"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

// claimStaleWindow bounds how long a claim blocks other runs. A run that
// died mid-lead releases the lead to the next run after this window.
const claimStaleWindow = 10 * time.Minute

// LeadStore is the lead-side persistence surface the engine needs.
type LeadStore interface {
	ListDue(ctx context.Context, now time.Time) ([]leadsrepo.DueLead, error)
	ClaimDue(ctx context.Context, id uuid.UUID, now, staleBefore time.Time) (bool, error)
	AdvanceAutomation(ctx context.Context, id uuid.UUID, step int, nextFollowupAt time.Time) error
	DeactivateAutomation(ctx context.Context, id uuid.UUID, finalStep *int) error
	AppendActivity(ctx context.Context, params leadsrepo.AppendActivityParams) error
}

// SequenceStore resolves the active sequence and templates per vendor.
type SequenceStore interface {
	GetActiveSequence(ctx context.Context, vendorID uuid.UUID) (furepo.Sequence, error)
	GetActiveTemplate(ctx context.Context, vendorID uuid.UUID, trigger fudomain.Trigger) (furepo.Template, error)
}

// MessageStore records outbound messages.
type MessageStore interface {
	CreatePending(ctx context.Context, params msgrepo.CreatePendingParams) (msgrepo.Message, error)
	MarkResult(ctx context.Context, id uuid.UUID, params msgrepo.MarkResultParams) error
}

// Summary is the outcome of one engine run.
type Summary struct {
	Processed int      `json:"processed"`
	Succeeded int      `json:"succeeded"`
	Failed    int      `json:"failed"`
	Errors    []string `json:"errors"`
}

type Engine struct {
	leads      LeadStore
	sequences  SequenceStore
	messages   MessageStore
	dispatcher dispatch.Dispatcher
	log        *logger.Logger
	now        func() time.Time
}

func New(leads LeadStore, sequences SequenceStore, messages MessageStore, dispatcher dispatch.Dispatcher, log *logger.Logger) *Engine {
	return &Engine{
		leads:      leads,
		sequences:  sequences,
		messages:   messages,
		dispatcher: dispatcher,
		log:        log,
		now:        time.Now,
	}
}

// Run processes every due lead once. Per-lead failures are isolated and
// recorded; only a failure of the due-lead selection itself aborts the
// run, returning the partial summary alongside the error.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Errors: []string{}}
	now := e.now()

	due, err := e.leads.ListDue(ctx, now)
	if err != nil {
		return summary, fmt.Errorf("list due leads: %w", err)
	}

	for _, lead := range due {
		claimed, err := e.leads.ClaimDue(ctx, lead.ID, now, now.Add(-claimStaleWindow))
		if err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("lead %s: claim: %v", lead.ID, err))
			continue
		}
		if !claimed {
			// another run owns this lead
			continue
		}

		summary.Processed++
		if err := e.processLead(ctx, lead, now); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, fmt.Sprintf("lead %s: %v", lead.ID, err))
			continue
		}
		summary.Succeeded++
	}

	e.log.CronRun("followup", summary.Processed, summary.Succeeded, summary.Failed)
	return summary, nil
}

func (e *Engine) processLead(ctx context.Context, lead leadsrepo.DueLead, now time.Time) error {
	seq, err := e.sequences.GetActiveSequence(ctx, lead.VendorID)
	if errors.Is(err, furepo.ErrSequenceNotFound) {
		if derr := e.leads.DeactivateAutomation(ctx, lead.ID, nil); derr != nil {
			return fmt.Errorf("deactivate after missing sequence: %w", derr)
		}
		return fmt.Errorf("no active sequence for vendor %s", lead.VendorID)
	}
	if err != nil {
		return fmt.Errorf("load active sequence: %w", err)
	}

	stepIndex := lead.CurrentSequenceStep
	if stepIndex < 0 || stepIndex >= len(seq.Steps) {
		final := len(seq.Steps)
		if derr := e.leads.DeactivateAutomation(ctx, lead.ID, &final); derr != nil {
			return fmt.Errorf("deactivate after out-of-range step: %w", derr)
		}
		return fmt.Errorf("step index %d out of range for %d-step sequence", stepIndex, len(seq.Steps))
	}
	step := seq.Steps[stepIndex]

	tpl, err := e.sequences.GetActiveTemplate(ctx, lead.VendorID, step.TemplateTrigger)
	if errors.Is(err, furepo.ErrTemplateNotFound) {
		// skip the step but keep the sequence moving
		if aerr := e.advance(ctx, lead.ID, stepIndex, seq.Steps, now); aerr != nil {
			return fmt.Errorf("advance past missing template: %w", aerr)
		}
		return fmt.Errorf("no active template for trigger %s", step.TemplateTrigger)
	}
	if err != nil {
		return fmt.Errorf("load template: %w", err)
	}

	vars := fudomain.BuildVariables(lead.Name, lead.DesiredDate, lead.GuestCount, lead.VendorName)
	content := fudomain.Render(tpl.Content, vars)

	msg, err := e.messages.CreatePending(ctx, msgrepo.CreatePendingParams{
		LeadID:     lead.ID,
		TemplateID: &tpl.ID,
		Channel:    msgdomain.ChannelAlimtalk,
		Content:    content,
	})
	if err != nil {
		return fmt.Errorf("create message: %w", err)
	}

	templateRef := ""
	if tpl.ProviderTemplateID != nil {
		templateRef = *tpl.ProviderTemplateID
	}
	result := e.dispatcher.Send(ctx, dispatch.Params{
		To:           lead.Phone,
		TemplateRef:  templateRef,
		Variables:    vars,
		FallbackText: content,
	})
	e.log.DispatchResult(lead.ID.String(), string(result.Method), result.Success, result.Error)

	mark := msgrepo.MarkResultParams{Channel: result.Method}
	if result.Success {
		mark.Status = msgdomain.StatusSent
		sentAt := now
		mark.SentAt = &sentAt
		if result.ProviderMessageID != "" {
			id := result.ProviderMessageID
			mark.ProviderMessageID = &id
		}
	} else {
		mark.Status = msgdomain.StatusFailed
	}
	if err := e.messages.MarkResult(ctx, msg.ID, mark); err != nil {
		return fmt.Errorf("record send result: %w", err)
	}

	if aerr := e.leads.AppendActivity(ctx, leadsrepo.AppendActivityParams{
		LeadID:  lead.ID,
		Type:    leadsdomain.ActivityFollowupSent,
		Content: fmt.Sprintf("후속 메시지 발송 (단계 %d/%d)", stepIndex+1, len(seq.Steps)),
		Metadata: map[string]any{
			"step":    stepIndex + 1,
			"trigger": string(step.TemplateTrigger),
			"method":  string(result.Method),
			"success": result.Success,
		},
	}); aerr != nil {
		e.log.DatabaseError("append_activity", aerr)
	}

	if aerr := e.advance(ctx, lead.ID, stepIndex, seq.Steps, now); aerr != nil {
		return fmt.Errorf("advance: %w", aerr)
	}

	if !result.Success {
		return fmt.Errorf("dispatch failed: %s", result.Error)
	}
	return nil
}

// advance moves the lead past stepIndex: schedules the next step's due
// time or deactivates the automation when the sequence is exhausted.
func (e *Engine) advance(ctx context.Context, leadID uuid.UUID, stepIndex int, steps []fudomain.Step, now time.Time) error {
	next := stepIndex + 1
	if next >= len(steps) {
		return e.leads.DeactivateAutomation(ctx, leadID, &next)
	}
	due := now.AddDate(0, 0, steps[next].DelayDays)
	return e.leads.AdvanceAutomation(ctx, leadID, next, due)
}
