// Package domain holds the lead pipeline vocabulary shared by the
// repositories and services.
package domain

// Status is the sales pipeline state of a lead.
type Status string

const (
	StatusNew            Status = "new"
	StatusContacted      Status = "contacted"
	StatusQuoteSent      Status = "quote_sent"
	StatusVisitScheduled Status = "visit_scheduled"
	StatusContracted     Status = "contracted"
	StatusLost           Status = "lost"
	StatusOnHold         Status = "on_hold"
)

// Valid reports whether the status is a known pipeline state.
func (s Status) Valid() bool {
	switch s {
	case StatusNew, StatusContacted, StatusQuoteSent, StatusVisitScheduled,
		StatusContracted, StatusLost, StatusOnHold:
		return true
	}
	return false
}

// Priority is the urgency tier assigned to a lead.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
	PriorityUrgent Priority = "urgent"
)

// Valid reports whether the priority is a known tier.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// PriorityFromUrgency maps the parser's urgency label onto a priority tier.
// Unknown labels fall back to medium.
func PriorityFromUrgency(urgency string) Priority {
	switch urgency {
	case "LOW":
		return PriorityLow
	case "MEDIUM":
		return PriorityMedium
	case "HIGH":
		return PriorityHigh
	}
	return PriorityMedium
}

// Source identifies the channel an inquiry arrived through.
type Source string

const (
	SourceWebsite     Source = "website"
	SourceInstagramDM Source = "instagram_dm"
	SourceKakao       Source = "kakao"
	SourceNaverForm   Source = "naver_form"
	SourcePhone       Source = "phone"
	SourceOther       Source = "other"
)

// Valid reports whether the source is a known channel.
func (s Source) Valid() bool {
	switch s {
	case SourceWebsite, SourceInstagramDM, SourceKakao, SourceNaverForm,
		SourcePhone, SourceOther:
		return true
	}
	return false
}

// ActivityType classifies an entry on a lead's timeline.
type ActivityType string

const (
	ActivityInquiryReceived ActivityType = "inquiry_received"
	ActivityAutoReplySent   ActivityType = "auto_reply_sent"
	ActivityStaffNotified   ActivityType = "staff_notified"
	ActivityCallMade        ActivityType = "call_made"
	ActivityQuoteSent       ActivityType = "quote_sent"
	ActivityFollowupSent    ActivityType = "followup_sent"
	ActivityVisitScheduled  ActivityType = "visit_scheduled"
	ActivityStatusChanged   ActivityType = "status_changed"
	ActivityNoteAdded       ActivityType = "note_added"
)
