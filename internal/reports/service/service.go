// Package service generates the weekly KPI report per vendor and picks
// the delivery channel: email when the vendor has an address, the
// chat-ops webhook otherwise.
package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"weddinglead_backend/internal/email"
	leadsrepo "weddinglead_backend/internal/leads/repository"
	"weddinglead_backend/internal/notification/chatops"
	vendorsrepo "weddinglead_backend/internal/vendors/repository"
	"weddinglead_backend/platform/logger"

	"github.com/google/uuid"
)

const reportWindow = 7 * 24 * time.Hour

// VendorStore lists every vendor for the batch run.
type VendorStore interface {
	List(ctx context.Context) ([]vendorsrepo.Vendor, error)
}

// StatsStore aggregates the pipeline numbers per vendor.
type StatsStore interface {
	AggregateWeeklyStats(ctx context.Context, vendorID uuid.UUID, from, to time.Time) (leadsrepo.WeeklyStats, error)
	CountActiveFollowups(ctx context.Context, vendorID uuid.UUID) (int, error)
}

// Summary is the outcome of one report run.
type Summary struct {
	BusinessesProcessed int      `json:"businessesProcessed"`
	NotificationsSent   int      `json:"notificationsSent"`
	Errors              []string `json:"errors"`
}

type Service struct {
	vendors VendorStore
	stats   StatsStore
	email   email.Sender
	chatops chatops.Sender
	log     *logger.Logger
	now     func() time.Time
}

func New(vendors VendorStore, stats StatsStore, emailSender email.Sender, chatopsSender chatops.Sender, log *logger.Logger) *Service {
	return &Service{
		vendors: vendors,
		stats:   stats,
		email:   emailSender,
		chatops: chatopsSender,
		log:     log,
		now:     time.Now,
	}
}

// Run builds and delivers the trailing-week report for every vendor.
// Vendors with no pipeline movement are skipped. Per-vendor failures
// are isolated in the summary.
func (s *Service) Run(ctx context.Context) (Summary, error) {
	summary := Summary{Errors: []string{}}
	to := s.now()
	from := to.Add(-reportWindow)

	vendors, err := s.vendors.List(ctx)
	if err != nil {
		return summary, fmt.Errorf("list vendors: %w", err)
	}

	for _, vendor := range vendors {
		stats, err := s.stats.AggregateWeeklyStats(ctx, vendor.ID, from, to)
		if err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("vendor %s: stats: %v", vendor.ID, err))
			continue
		}
		if !stats.HasActivity() {
			continue
		}
		summary.BusinessesProcessed++

		activeFollowups, err := s.stats.CountActiveFollowups(ctx, vendor.ID)
		if err != nil {
			s.log.DatabaseError("count_active_followups", err)
			activeFollowups = 0
		}

		if err := s.deliver(ctx, vendor, stats, activeFollowups, from, to); err != nil {
			summary.Errors = append(summary.Errors, fmt.Sprintf("vendor %s: %v", vendor.ID, err))
			continue
		}
		summary.NotificationsSent++
	}

	s.log.CronRun("weekly_report", summary.BusinessesProcessed, summary.NotificationsSent, len(summary.Errors))
	return summary, nil
}

func (s *Service) deliver(ctx context.Context, vendor vendorsrepo.Vendor, stats leadsrepo.WeeklyStats, activeFollowups int, from, to time.Time) error {
	if vendor.Email != nil && *vendor.Email != "" {
		subject := fmt.Sprintf("[%s] 주간 리드 리포트 (%s ~ %s)",
			vendor.Name, from.Format("1월 2일"), to.Format("1월 2일"))
		return s.email.Send(ctx, *vendor.Email, subject, htmlReport(vendor.Name, stats, activeFollowups))
	}
	if vendor.SlackWebhookURL != nil && *vendor.SlackWebhookURL != "" {
		return s.chatops.Send(ctx, *vendor.SlackWebhookURL, textReport(vendor.Name, stats, activeFollowups))
	}
	return fmt.Errorf("no delivery channel configured")
}

func conversionRate(stats leadsrepo.WeeklyStats) float64 {
	if stats.NewLeads == 0 {
		return 0
	}
	return float64(stats.Contracted) / float64(stats.NewLeads) * 100
}

func textReport(vendorName string, stats leadsrepo.WeeklyStats, activeFollowups int) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf(":bar_chart: %s 주간 리드 리포트\n", vendorName))
	b.WriteString(fmt.Sprintf("신규 문의: %d건\n", stats.NewLeads))
	b.WriteString(fmt.Sprintf("연락 완료: %d건 / 견적 발송: %d건\n", stats.Contacted, stats.QuoteSent))
	b.WriteString(fmt.Sprintf("계약: %d건 / 이탈: %d건\n", stats.Contracted, stats.Lost))
	b.WriteString(fmt.Sprintf("진행 중인 자동 후속: %d건\n", activeFollowups))
	b.WriteString(fmt.Sprintf("전환율: %.1f%%", conversionRate(stats)))
	return b.String()
}

func htmlReport(vendorName string, stats leadsrepo.WeeklyStats, activeFollowups int) string {
	rows := [][2]string{
		{"신규 문의", fmt.Sprintf("%d건", stats.NewLeads)},
		{"연락 완료", fmt.Sprintf("%d건", stats.Contacted)},
		{"견적 발송", fmt.Sprintf("%d건", stats.QuoteSent)},
		{"계약", fmt.Sprintf("%d건", stats.Contracted)},
		{"이탈", fmt.Sprintf("%d건", stats.Lost)},
		{"진행 중인 자동 후속", fmt.Sprintf("%d건", activeFollowups)},
		{"전환율", fmt.Sprintf("%.1f%%", conversionRate(stats))},
	}

	var b strings.Builder
	b.WriteString(fmt.Sprintf("<h2>%s 주간 리드 리포트</h2><table>", vendorName))
	for _, row := range rows {
		b.WriteString(fmt.Sprintf("<tr><td>%s</td><td>%s</td></tr>", row[0], row[1]))
	}
	b.WriteString("</table>")
	return b.String()
}
