// Package service implements the inquiry intake pipeline. Persisting
// the lead is the only step that can fail the request; the auto-reply,
// staff alert and automation seeding degrade to log entries so a
// provider or webhook outage never loses an inquiry.
package service

import (
	"context"
	"errors"
	"fmt"
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
	"weddinglead_backend/platform/phone"

	"github.com/google/uuid"
)

// VendorStore validates the inquiry's target vendor.
type VendorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (vendorsrepo.Vendor, error)
}

// LeadStore persists the lead, its timeline and its automation state.
type LeadStore interface {
	Create(ctx context.Context, params leadsrepo.CreateLeadParams) (leadsrepo.Lead, error)
	AppendActivity(ctx context.Context, params leadsrepo.AppendActivityParams) error
	ActivateAutomation(ctx context.Context, id uuid.UUID, nextFollowupAt time.Time) error
}

// FollowupStore resolves the auto-reply template and the active sequence.
type FollowupStore interface {
	GetActiveTemplate(ctx context.Context, vendorID uuid.UUID, trigger fudomain.Trigger) (furepo.Template, error)
	GetActiveSequence(ctx context.Context, vendorID uuid.UUID) (furepo.Sequence, error)
}

// MessageStore records the auto-reply message.
type MessageStore interface {
	CreatePending(ctx context.Context, params msgrepo.CreatePendingParams) (msgrepo.Message, error)
	MarkResult(ctx context.Context, id uuid.UUID, params msgrepo.MarkResultParams) error
}

type Service struct {
	vendors    VendorStore
	leads      LeadStore
	followups  FollowupStore
	messages   MessageStore
	parser     parse.Parser
	dispatcher dispatch.Dispatcher
	bus        events.Bus
	log        *logger.Logger
	now        func() time.Time
}

func New(vendors VendorStore, leads LeadStore, followups FollowupStore, messages MessageStore,
	parser parse.Parser, dispatcher dispatch.Dispatcher, bus events.Bus, log *logger.Logger) *Service {
	return &Service{
		vendors:    vendors,
		leads:      leads,
		followups:  followups,
		messages:   messages,
		parser:     parser,
		dispatcher: dispatcher,
		bus:        bus,
		log:        log,
		now:        time.Now,
	}
}

// Process runs the intake pipeline for one inquiry.
func (s *Service) Process(ctx context.Context, req transport.InquiryRequest) (transport.InquiryResponse, error) {
	vendorID, err := uuid.Parse(req.VendorID)
	if err != nil {
		return transport.InquiryResponse{}, apperr.Validation("invalid vendorId")
	}

	vendor, err := s.vendors.GetByID(ctx, vendorID)
	if errors.Is(err, vendorsrepo.ErrNotFound) {
		return transport.InquiryResponse{}, apperr.NotFound("vendor not found")
	}
	if err != nil {
		return transport.InquiryResponse{}, apperr.Wrap(apperr.KindInternal, "failed to load vendor", err)
	}

	lead, err := s.createLead(ctx, vendor, req)
	if err != nil {
		return transport.InquiryResponse{}, apperr.Wrap(apperr.KindInternal, "failed to create lead", err)
	}

	if aerr := s.leads.AppendActivity(ctx, leadsrepo.AppendActivityParams{
		LeadID:  lead.ID,
		Type:    leadsdomain.ActivityInquiryReceived,
		Content: "문의가 접수되었습니다",
		Metadata: map[string]any{
			"source": string(lead.Source),
		},
	}); aerr != nil {
		s.log.DatabaseError("append_activity", aerr)
	}

	s.sendAutoReply(ctx, vendor, lead)
	s.notifyStaff(ctx, lead)
	s.seedAutomation(ctx, lead)

	return transport.InquiryResponse{Success: true, LeadID: lead.ID}, nil
}

// createLead enriches the inquiry through the parser and persists it.
// Parser failure falls back to the raw request fields.
func (s *Service) createLead(ctx context.Context, vendor vendorsrepo.Vendor, req transport.InquiryRequest) (leadsrepo.Lead, error) {
	params := leadsrepo.CreateLeadParams{
		VendorID:    vendor.ID,
		Name:        req.Name,
		Phone:       phone.NormalizeLocal(req.Phone),
		Email:       req.Email,
		Source:      sourceOrDefault(req.Source),
		DesiredDate: req.ParsedDesiredDate(),
		GuestCount:  req.GuestCount,
		BudgetRange: req.BudgetRange,
		RawInquiry:  req.Message,
		Priority:    leadsdomain.PriorityMedium,
	}

	parsed, err := s.parser.Parse(ctx, req.Message)
	if err != nil {
		s.log.Warn("inquiry parse failed, using raw fields", "error", err.Error())
	} else {
		if parsed.Summary != "" {
			params.ParsedSummary = &parsed.Summary
		}
		if parsed.InquiryType != "" {
			params.InquiryType = &parsed.InquiryType
		}
		if params.DesiredDate == nil {
			params.DesiredDate = parsed.DesiredDate
		}
		if params.GuestCount == nil {
			params.GuestCount = parsed.GuestCount
		}
		if params.BudgetRange == nil {
			params.BudgetRange = parsed.BudgetRange
		}
		params.Priority = leadsdomain.PriorityFromUrgency(parsed.Urgency)
	}

	return s.leads.Create(ctx, params)
}

func (s *Service) sendAutoReply(ctx context.Context, vendor vendorsrepo.Vendor, lead leadsrepo.Lead) {
	tpl, err := s.followups.GetActiveTemplate(ctx, vendor.ID, fudomain.TriggerAutoReply)
	if errors.Is(err, furepo.ErrTemplateNotFound) {
		s.log.Info("no auto-reply template configured", "vendor_id", vendor.ID.String())
		return
	}
	if err != nil {
		s.log.DatabaseError("get_auto_reply_template", err)
		return
	}

	vars := fudomain.BuildVariables(lead.Name, lead.DesiredDate, lead.GuestCount, vendor.Name)
	content := fudomain.Render(tpl.Content, vars)

	msg, err := s.messages.CreatePending(ctx, msgrepo.CreatePendingParams{
		LeadID:     lead.ID,
		TemplateID: &tpl.ID,
		Channel:    msgdomain.ChannelAlimtalk,
		Content:    content,
	})
	if err != nil {
		s.log.DatabaseError("create_auto_reply_message", err)
		return
	}

	templateRef := ""
	if tpl.ProviderTemplateID != nil {
		templateRef = *tpl.ProviderTemplateID
	}
	result := s.dispatcher.Send(ctx, dispatch.Params{
		To:           lead.Phone,
		TemplateRef:  templateRef,
		Variables:    vars,
		FallbackText: content,
	})
	s.log.DispatchResult(lead.ID.String(), string(result.Method), result.Success, result.Error)

	mark := msgrepo.MarkResultParams{Channel: result.Method}
	if result.Success {
		mark.Status = msgdomain.StatusSent
		sentAt := s.now()
		mark.SentAt = &sentAt
		if result.ProviderMessageID != "" {
			id := result.ProviderMessageID
			mark.ProviderMessageID = &id
		}
	} else {
		mark.Status = msgdomain.StatusFailed
	}
	if err := s.messages.MarkResult(ctx, msg.ID, mark); err != nil {
		s.log.DatabaseError("mark_auto_reply_result", err)
	}

	// the timeline records the attempt either way; failures carry the
	// provider error so staff can follow up manually
	activityContent := "자동 응답 메시지를 발송했습니다"
	if !result.Success {
		activityContent = fmt.Sprintf("자동 응답 발송에 실패했습니다: %s", result.Error)
	}
	if aerr := s.leads.AppendActivity(ctx, leadsrepo.AppendActivityParams{
		LeadID:  lead.ID,
		Type:    leadsdomain.ActivityAutoReplySent,
		Content: activityContent,
		Metadata: map[string]any{
			"method":    string(result.Method),
			"messageId": msg.ID.String(),
			"success":   result.Success,
		},
	}); aerr != nil {
		s.log.DatabaseError("append_activity", aerr)
	}
}

func (s *Service) notifyStaff(ctx context.Context, lead leadsrepo.Lead) {
	err := s.bus.PublishSync(ctx, events.LeadCreated{
		BaseEvent:   events.NewBaseEvent(),
		LeadID:      lead.ID,
		VendorID:    lead.VendorID,
		Name:        lead.Name,
		Phone:       lead.Phone,
		DesiredDate: lead.DesiredDate,
		GuestCount:  lead.GuestCount,
		Source:      string(lead.Source),
	})
	if err != nil {
		s.log.Warn("staff notification failed", "lead_id", lead.ID.String(), "error", err.Error())
	}
}

func (s *Service) seedAutomation(ctx context.Context, lead leadsrepo.Lead) {
	seq, err := s.followups.GetActiveSequence(ctx, lead.VendorID)
	if errors.Is(err, furepo.ErrSequenceNotFound) {
		return
	}
	if err != nil {
		s.log.DatabaseError("get_active_sequence", err)
		return
	}
	if len(seq.Steps) == 0 {
		return
	}

	firstDue := s.now().AddDate(0, 0, seq.Steps[0].DelayDays)
	if err := s.leads.ActivateAutomation(ctx, lead.ID, firstDue); err != nil {
		s.log.DatabaseError("activate_automation", err)
	}
}

func sourceOrDefault(raw string) leadsdomain.Source {
	source := leadsdomain.Source(raw)
	if !source.Valid() {
		return leadsdomain.SourceWebsite
	}
	return source
}
