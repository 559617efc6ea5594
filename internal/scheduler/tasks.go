// Package scheduler drives the background batches over asynq: a ticker
// dispatcher enqueues runs and a worker executes them.
//
// Task payloads identify the schedule window, never the enqueue moment:
// asynq keys uniqueness on (type, payload, queue), so every enqueue
// inside one window must be byte-identical for duplicates to collapse.
package scheduler

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

const TaskFollowupRun = "followup.run"

const TaskWeeklyReport = "reports.weekly"

type FollowupRunPayload struct {
	// WindowStart is the tick window truncated to the dispatch interval.
	WindowStart time.Time `json:"windowStart"`
}

type WeeklyReportPayload struct {
	// Week is the ISO week label, e.g. "2026-W35".
	Week string `json:"week"`
}

func NewFollowupRunTask(payload FollowupRunPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskFollowupRun, data), nil
}

func ParseFollowupRunPayload(task *asynq.Task) (FollowupRunPayload, error) {
	var payload FollowupRunPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return FollowupRunPayload{}, err
	}
	return payload, nil
}

func NewWeeklyReportTask(payload WeeklyReportPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskWeeklyReport, data), nil
}

func ParseWeeklyReportPayload(task *asynq.Task) (WeeklyReportPayload, error) {
	var payload WeeklyReportPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		return WeeklyReportPayload{}, err
	}
	return payload, nil
}
