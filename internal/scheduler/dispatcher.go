package scheduler

import (
	"context"
	"fmt"
	"time"

	"weddinglead_backend/platform/config"
	"weddinglead_backend/platform/logger"
)

const reportHourKST = 9

// Dispatcher periodically enqueues batch tasks. The worker may run with
// several replicas; uniqueness windows on the client keep each tick to a
// single task.
type Dispatcher struct {
	client   *Client
	interval time.Duration
	log      *logger.Logger
	now      func() time.Time
	loc      *time.Location
}

func NewDispatcher(client *Client, cfg config.SchedulerConfig, log *logger.Logger) *Dispatcher {
	interval := cfg.GetFollowupInterval()
	if interval <= 0 {
		interval = 30 * time.Minute
	}

	loc, err := time.LoadLocation("Asia/Seoul")
	if err != nil {
		loc = time.FixedZone("KST", 9*60*60)
	}

	return &Dispatcher{
		client:   client,
		interval: interval,
		log:      log,
		now:      time.Now,
		loc:      loc,
	}
}

// Run blocks, enqueueing a follow-up batch every interval and a weekly
// report once every Monday morning, until ctx is cancelled.
func (d *Dispatcher) Run(ctx context.Context) error {
	d.log.Info("scheduler: dispatcher started", "interval", d.interval.String())

	ticker := time.NewTicker(d.interval)
	defer ticker.Stop()

	d.tick(ctx)
	for {
		select {
		case <-ctx.Done():
			d.log.Info("scheduler: dispatcher stopping")
			return ctx.Err()
		case <-ticker.C:
			d.tick(ctx)
		}
	}
}

func (d *Dispatcher) tick(ctx context.Context) {
	now := d.now()

	// every tick inside one interval maps to the same window start, so
	// the payload stays identical and asynq drops the duplicates
	windowStart := now.UTC().Truncate(d.interval)
	if err := d.client.EnqueueFollowupRun(ctx, windowStart, d.interval); err != nil {
		d.log.Error("scheduler: enqueue followup run failed", "error", err.Error())
	}

	if d.reportDue(now) {
		// keyed by ISO week with a unique window spanning the rest of
		// the week, so repeated Monday ticks collapse into one run
		if err := d.client.EnqueueWeeklyReport(ctx, isoWeek(now.In(d.loc)), 6*24*time.Hour); err != nil {
			d.log.Error("scheduler: enqueue weekly report failed", "error", err.Error())
		}
	}
}

func (d *Dispatcher) reportDue(now time.Time) bool {
	local := now.In(d.loc)
	return local.Weekday() == time.Monday && local.Hour() >= reportHourKST
}

func isoWeek(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("%d-W%02d", year, week)
}
