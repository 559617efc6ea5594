package domain

import (
	"strings"
	"testing"
)

func TestValidateSteps(t *testing.T) {
	cases := []struct {
		name    string
		steps   []Step
		wantErr string
	}{
		{
			name:    "empty list",
			steps:   nil,
			wantErr: "at least one step",
		},
		{
			name: "valid multi-step",
			steps: []Step{
				{DelayDays: 3, TemplateTrigger: TriggerFollowupD3},
				{DelayDays: 4, TemplateTrigger: TriggerFollowupD7},
				{DelayDays: 7, TemplateTrigger: TriggerFollowupD14},
			},
		},
		{
			name:    "zero delay",
			steps:   []Step{{DelayDays: 0, TemplateTrigger: TriggerFollowupD3}},
			wantErr: "delayDays must be positive",
		},
		{
			name:    "negative delay",
			steps:   []Step{{DelayDays: -2, TemplateTrigger: TriggerFollowupD3}},
			wantErr: "delayDays must be positive",
		},
		{
			name: "unknown trigger",
			steps: []Step{
				{DelayDays: 3, TemplateTrigger: TriggerFollowupD3},
				{DelayDays: 5, TemplateTrigger: Trigger("followup_d30")},
			},
			wantErr: `unknown template trigger "followup_d30"`,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateSteps(tc.steps)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateSteps: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error = %v, want containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestTriggerValid(t *testing.T) {
	for _, trigger := range []Trigger{
		TriggerAutoReply, TriggerQuoteSent, TriggerFollowupD3, TriggerFollowupD7,
		TriggerFollowupD14, TriggerContractCongrat, TriggerReviewRequest, TriggerCustom,
	} {
		if !trigger.Valid() {
			t.Fatalf("trigger %q should be valid", trigger)
		}
	}
	if Trigger("").Valid() || Trigger("followup").Valid() {
		t.Fatal("unknown triggers accepted")
	}
}
