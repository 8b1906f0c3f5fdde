package tracker

import "strings"

// Status is the pipeline stage of an application.
type Status string

const (
	StatusApplied   Status = "Applied"
	StatusInterview Status = "Interview"
	StatusOffer     Status = "Offer"
	StatusRejected  Status = "Rejected"
	StatusOnHold    Status = "OnHold"
)

// Statuses lists every status in canonical order. Analytics and exports
// iterate this slice so output ordering is stable.
var Statuses = []Status{
	StatusApplied,
	StatusInterview,
	StatusOffer,
	StatusRejected,
	StatusOnHold,
}

// Valid reports whether s is one of the five known statuses.
func (s Status) Valid() bool {
	for _, known := range Statuses {
		if s == known {
			return true
		}
	}
	return false
}

// Label returns the human-readable form of the status.
func (s Status) Label() string {
	if s == StatusOnHold {
		return "On Hold"
	}
	return string(s)
}

// ParseStatus converts user input into a Status. Matching ignores case and
// accepts the "On Hold" label as well as "OnHold".
func ParseStatus(raw string) (Status, error) {
	normalized := strings.ReplaceAll(strings.TrimSpace(raw), " ", "")
	for _, s := range Statuses {
		if strings.EqualFold(normalized, string(s)) {
			return s, nil
		}
	}
	return "", &ValidationError{Field: "status", Message: "invalid status value: " + raw}
}

// NoteType categorizes a note.
type NoteType string

const (
	NoteGeneral   NoteType = "general"
	NoteInterview NoteType = "interview"
	NoteFollowUp  NoteType = "followup"
)

// Label returns the display name used in activity descriptions.
func (t NoteType) Label() string {
	switch t {
	case NoteInterview:
		return "Interview Note"
	case NoteFollowUp:
		return "Follow-up"
	default:
		return "General Note"
	}
}

// ParseNoteType converts user input into a NoteType. Empty input yields
// NoteGeneral.
func ParseNoteType(raw string) (NoteType, error) {
	switch NoteType(strings.ToLower(strings.TrimSpace(raw))) {
	case "", NoteGeneral:
		return NoteGeneral, nil
	case NoteInterview:
		return NoteInterview, nil
	case NoteFollowUp, "follow-up":
		return NoteFollowUp, nil
	}
	return "", &ValidationError{Field: "type", Message: "invalid note type: " + raw}
}

// ActivityType identifies what an Activity records.
type ActivityType string

const (
	ActivityApplicationCreated ActivityType = "application_created"
	ActivityStatusChange       ActivityType = "status_change"
	ActivityNoteAdded          ActivityType = "note_added"
	ActivityInterviewScheduled ActivityType = "interview_scheduled"
)
