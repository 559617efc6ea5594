// Package service builds and delivers staff notifications. Customer
// identifiers are masked before they leave the system.
package service

import (
	"context"
	"fmt"
	"strings"

	"weddinglead_backend/internal/events"
	fudomain "weddinglead_backend/internal/followup/domain"
	leadsdomain "weddinglead_backend/internal/leads/domain"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/notification/chatops"
	vendorsrepo "weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"
	"weddinglead_backend/platform/phone"

	"github.com/google/uuid"
)

// VendorStore resolves the vendor's webhook settings.
type VendorStore interface {
	GetByID(ctx context.Context, id uuid.UUID) (vendorsrepo.Vendor, error)
}

// ActivityWriter records the staff_notified timeline entry.
type ActivityWriter interface {
	AppendActivity(ctx context.Context, params leadsrepo.AppendActivityParams) error
}

type Service struct {
	vendors    VendorStore
	activities ActivityWriter
	sender     chatops.Sender
	appBaseURL string
	log        *logger.Logger
}

func New(vendors VendorStore, activities ActivityWriter, sender chatops.Sender, cfg config.NotificationConfig, log *logger.Logger) *Service {
	return &Service{
		vendors:    vendors,
		activities: activities,
		sender:     sender,
		appBaseURL: cfg.GetAppBaseURL(),
		log:        log,
	}
}

// NotifyNewLead alerts staff about a fresh inquiry over the vendor's
// chat-ops webhook. A vendor without a webhook is skipped silently.
func (s *Service) NotifyNewLead(ctx context.Context, event events.LeadCreated) error {
	vendor, err := s.vendors.GetByID(ctx, event.VendorID)
	if err != nil {
		return fmt.Errorf("load vendor: %w", err)
	}
	if vendor.SlackWebhookURL == nil || *vendor.SlackWebhookURL == "" {
		return nil
	}

	if err := s.sender.Send(ctx, *vendor.SlackWebhookURL, s.newLeadText(event)); err != nil {
		s.recordNotified(ctx, event.LeadID, false)
		return fmt.Errorf("send webhook: %w", err)
	}

	s.recordNotified(ctx, event.LeadID, true)
	return nil
}

// recordNotified writes the staff_notified timeline entry. Failed
// deliveries are recorded too so the timeline shows the gap.
func (s *Service) recordNotified(ctx context.Context, leadID uuid.UUID, success bool) {
	content := "담당자 알림을 발송했습니다"
	if !success {
		content = "담당자 알림 발송에 실패했습니다"
	}
	if err := s.activities.AppendActivity(ctx, leadsrepo.AppendActivityParams{
		LeadID:  leadID,
		Type:    leadsdomain.ActivityStaffNotified,
		Content: content,
		Metadata: map[string]any{
			"channel": "slack",
			"success": success,
		},
	}); err != nil {
		s.log.DatabaseError("append_activity", err)
	}
}

func (s *Service) newLeadText(event events.LeadCreated) string {
	var b strings.Builder
	b.WriteString(":bell: 새 문의가 접수되었습니다\n")
	b.WriteString(fmt.Sprintf("고객: %s (%s)\n", MaskName(event.Name), phone.Mask(event.Phone)))
	if event.DesiredDate != nil {
		b.WriteString(fmt.Sprintf("희망일: %s\n", fudomain.FormatKoreanDate(*event.DesiredDate)))
	}
	if event.GuestCount != nil {
		b.WriteString(fmt.Sprintf("예상 인원: %d명\n", *event.GuestCount))
	}
	if event.Source != "" {
		b.WriteString(fmt.Sprintf("유입 경로: %s\n", event.Source))
	}
	b.WriteString(fmt.Sprintf("%s/leads/%s", s.appBaseURL, event.LeadID))
	return b.String()
}

// MaskName keeps the first and last characters of a name and masks the
// rest.
func MaskName(name string) string {
	runes := []rune(strings.TrimSpace(name))
	switch {
	case len(runes) <= 1:
		return string(runes)
	case len(runes) == 2:
		return string(runes[0]) + "*"
	}
	return string(runes[0]) + strings.Repeat("*", len(runes)-2) + string(runes[len(runes)-1])
}
