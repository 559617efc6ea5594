// Package domain defines the follow-up sequence vocabulary: template
// triggers, sequence steps and the placeholder renderer.
package domain

import (
	"fmt"
)

// Trigger identifies which message template a step (or an immediate send)
// should use.
type Trigger string

const (
	TriggerAutoReply       Trigger = "auto_reply"
	TriggerQuoteSent       Trigger = "quote_sent"
	TriggerFollowupD3      Trigger = "followup_d3"
	TriggerFollowupD7      Trigger = "followup_d7"
	TriggerFollowupD14     Trigger = "followup_d14"
	TriggerContractCongrat Trigger = "contract_congrats"
	TriggerReviewRequest   Trigger = "review_request"
	TriggerCustom          Trigger = "custom"
)

// Valid reports whether the trigger is part of the known enum.
func (t Trigger) Valid() bool {
	switch t {
	case TriggerAutoReply, TriggerQuoteSent, TriggerFollowupD3, TriggerFollowupD7,
		TriggerFollowupD14, TriggerContractCongrat, TriggerReviewRequest, TriggerCustom:
		return true
	}
	return false
}

// Step is one entry in a follow-up sequence: wait delayDays after the
// previous step, then send the template bound to templateTrigger.
type Step struct {
	DelayDays       int     `json:"delayDays"`
	TemplateTrigger Trigger `json:"templateTrigger"`
}

// ValidateSteps checks a step list at write time. The scheduler assumes
// every persisted step has a positive delay and a known trigger.
func ValidateSteps(steps []Step) error {
	if len(steps) == 0 {
		return fmt.Errorf("sequence needs at least one step")
	}
	for i, step := range steps {
		if step.DelayDays <= 0 {
			return fmt.Errorf("step %d: delayDays must be positive, got %d", i+1, step.DelayDays)
		}
		if !step.TemplateTrigger.Valid() {
			return fmt.Errorf("step %d: unknown template trigger %q", i+1, step.TemplateTrigger)
		}
	}
	return nil
}
