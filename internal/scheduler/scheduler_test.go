package scheduler

import (
	"context"
	"testing"
	"time"

	"weddinglead_backend/platform/logger"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
)

type testConfig struct {
	redisURL string
	queue    string
	interval time.Duration
}

func (c testConfig) GetRedisURL() string                { return c.redisURL }
func (c testConfig) GetRedisTLSInsecure() bool          { return false }
func (c testConfig) GetAsynqQueueName() string          { return c.queue }
func (c testConfig) GetAsynqConcurrency() int           { return 1 }
func (c testConfig) GetFollowupInterval() time.Duration { return c.interval }

func newTestClient(t *testing.T) (*Client, *asynq.Inspector, string) {
	t.Helper()

	mr := miniredis.RunT(t)
	cfg := testConfig{redisURL: "redis://" + mr.Addr(), queue: "batches", interval: 30 * time.Minute}

	client, err := NewClient(cfg)
	if err != nil {
		t.Fatalf("NewClient: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: mr.Addr()})
	t.Cleanup(func() { inspector.Close() })

	return client, inspector, cfg.queue
}

func newTestDispatcher(t *testing.T) (*Dispatcher, *asynq.Inspector, string) {
	t.Helper()

	client, inspector, queue := newTestClient(t)
	cfg := testConfig{queue: queue, interval: 30 * time.Minute}
	return NewDispatcher(client, cfg, logger.New("development")), inspector, queue
}

func countPending(t *testing.T, inspector *asynq.Inspector, queue, taskType string) int {
	t.Helper()

	pending, err := inspector.ListPendingTasks(queue)
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	n := 0
	for _, task := range pending {
		if task.Type == taskType {
			n++
		}
	}
	return n
}

func TestEnqueueFollowupRun(t *testing.T) {
	client, inspector, queue := newTestClient(t)

	windowStart := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)
	if err := client.EnqueueFollowupRun(context.Background(), windowStart, time.Hour); err != nil {
		t.Fatalf("EnqueueFollowupRun: %v", err)
	}

	pending, err := inspector.ListPendingTasks(queue)
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("pending tasks = %d, want 1", len(pending))
	}
	if pending[0].Type != TaskFollowupRun {
		t.Fatalf("task type = %q, want %q", pending[0].Type, TaskFollowupRun)
	}
}

func TestTickEnqueuesWeeklyReportOncePerMonday(t *testing.T) {
	d, inspector, queue := newTestDispatcher(t)

	// Monday 10:00 KST; a second tick half an hour later must not
	// produce a second report for the same week
	first := time.Date(2026, 8, 24, 1, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return first }
	d.tick(context.Background())

	d.now = func() time.Time { return first.Add(30 * time.Minute) }
	d.tick(context.Background())

	if got := countPending(t, inspector, queue, TaskWeeklyReport); got != 1 {
		t.Fatalf("pending weekly report tasks = %d, want 1", got)
	}
}

func TestTickCollapsesFollowupRunsWithinWindow(t *testing.T) {
	d, inspector, queue := newTestDispatcher(t)

	// Tuesday, so only follow-up tasks land in the queue
	first := time.Date(2026, 8, 25, 1, 0, 0, 0, time.UTC)
	d.now = func() time.Time { return first }
	d.tick(context.Background())

	d.now = func() time.Time { return first.Add(10 * time.Minute) }
	d.tick(context.Background())

	if got := countPending(t, inspector, queue, TaskFollowupRun); got != 1 {
		t.Fatalf("pending follow-up tasks = %d, want 1 within one window", got)
	}

	d.now = func() time.Time { return first.Add(30 * time.Minute) }
	d.tick(context.Background())

	if got := countPending(t, inspector, queue, TaskFollowupRun); got != 2 {
		t.Fatalf("pending follow-up tasks = %d, want 2 across two windows", got)
	}
}

func TestEnqueueWeeklyReport(t *testing.T) {
	client, inspector, queue := newTestClient(t)

	if err := client.EnqueueWeeklyReport(context.Background(), "2026-W35", 6*24*time.Hour); err != nil {
		t.Fatalf("EnqueueWeeklyReport: %v", err)
	}

	pending, err := inspector.ListPendingTasks(queue)
	if err != nil {
		t.Fatalf("ListPendingTasks: %v", err)
	}
	if len(pending) != 1 || pending[0].Type != TaskWeeklyReport {
		t.Fatalf("pending = %+v, want one weekly report task", pending)
	}
}

func TestPayloadRoundTrip(t *testing.T) {
	windowStart := time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC)

	task, err := NewFollowupRunTask(FollowupRunPayload{WindowStart: windowStart})
	if err != nil {
		t.Fatalf("NewFollowupRunTask: %v", err)
	}
	payload, err := ParseFollowupRunPayload(task)
	if err != nil {
		t.Fatalf("ParseFollowupRunPayload: %v", err)
	}
	if !payload.WindowStart.Equal(windowStart) {
		t.Fatalf("windowStart = %v, want %v", payload.WindowStart, windowStart)
	}
}

func TestIsoWeek(t *testing.T) {
	kst := time.FixedZone("KST", 9*60*60)

	if got := isoWeek(time.Date(2026, 8, 24, 10, 0, 0, 0, kst)); got != "2026-W35" {
		t.Fatalf("isoWeek = %q, want 2026-W35", got)
	}
	// January 1st 2027 falls in the last ISO week of 2026
	if got := isoWeek(time.Date(2027, 1, 1, 10, 0, 0, 0, kst)); got != "2026-W53" {
		t.Fatalf("isoWeek = %q, want 2026-W53", got)
	}
}

func TestReportDue(t *testing.T) {
	d := &Dispatcher{loc: time.FixedZone("KST", 9*60*60)}

	cases := []struct {
		name string
		at   time.Time
		want bool
	}{
		{"monday morning KST", time.Date(2026, 8, 24, 0, 30, 0, 0, time.UTC), true},  // 09:30 KST
		{"monday before nine", time.Date(2026, 8, 23, 22, 0, 0, 0, time.UTC), false}, // Mon 07:00 KST
		{"sunday evening UTC is monday KST", time.Date(2026, 8, 23, 23, 0, 0, 0, time.UTC), false},
		{"tuesday", time.Date(2026, 8, 25, 3, 0, 0, 0, time.UTC), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := d.reportDue(tc.at); got != tc.want {
				t.Fatalf("reportDue(%v) = %v, want %v", tc.at, got, tc.want)
			}
		})
	}
}
