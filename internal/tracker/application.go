package tracker

import (
	"maps"
	"slices"
	"time"
)

// StatusHistoryEntry records when an application entered a status.
type StatusHistoryEntry struct {
	Status    Status    `json:"status" yaml:"status"`
	ChangedAt time.Time `json:"changedAt" yaml:"changedAt"`
}

// Note is a piece of free text attached to an application. Notes are never
// edited after creation.
type Note struct {
	ID        string    `json:"id" yaml:"id"`
	Content   string    `json:"content" yaml:"content"`
	Type      NoteType  `json:"type" yaml:"type"`
	CreatedAt time.Time `json:"createdAt" yaml:"createdAt"`
}

// Activity is an entry in an application's audit log.
type Activity struct {
	ID          string            `json:"id" yaml:"id"`
	Type        ActivityType      `json:"type" yaml:"type"`
	Timestamp   time.Time         `json:"timestamp" yaml:"timestamp"`
	Description string            `json:"description" yaml:"description"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Application is the root aggregate: a single tracked job application with
// its status history, notes and activity timeline.
type Application struct {
	ID              string               `json:"id" yaml:"id"`
	OwnerID         string               `json:"ownerId" yaml:"ownerId"`
	Company         string               `json:"company" yaml:"company"`
	Role            string               `json:"role" yaml:"role"`
	Notes           string               `json:"notes" yaml:"notes"`
	Status          Status               `json:"status" yaml:"status"`
	ApplicationDate time.Time            `json:"applicationDate" yaml:"applicationDate"`
	LastUpdated     time.Time            `json:"lastUpdated" yaml:"lastUpdated"`
	InterviewDate   *time.Time           `json:"interviewDate,omitempty" yaml:"interviewDate,omitempty"`
	Salary          string               `json:"salary,omitempty" yaml:"salary,omitempty"`
	JobURL          string               `json:"jobUrl,omitempty" yaml:"jobUrl,omitempty"`
	StatusHistory   []StatusHistoryEntry `json:"statusHistory" yaml:"statusHistory"`
	NotesList       []Note               `json:"notesList" yaml:"notesList"`
	Activities      []Activity           `json:"activities" yaml:"activities"`
}

// Clone returns a deep copy of the application. Mutations on the copy never
// reach the original's slices, maps or interview date.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	c := *a
	if a.InterviewDate != nil {
		d := *a.InterviewDate
		c.InterviewDate = &d
	}
	c.StatusHistory = slices.Clone(a.StatusHistory)
	c.NotesList = slices.Clone(a.NotesList)
	c.Activities = make([]Activity, len(a.Activities))
	for i, act := range a.Activities {
		act.Metadata = maps.Clone(act.Metadata)
		c.Activities[i] = act
	}
	return &c
}

// HasInterview reports whether an interview date is set.
func (a *Application) HasInterview() bool {
	return a.InterviewDate != nil
}

// ApplicationInput carries user-supplied fields for creating an application.
type ApplicationInput struct {
	Company         string
	Role            string
	Notes           string
	Status          Status
	ApplicationDate time.Time // zero means "now"
	InterviewDate   *time.Time
	Salary          string
	JobURL          string
}

// ApplicationPatch is a partial update of descriptive fields. Nil fields are
// left untouched.
type ApplicationPatch struct {
	Company         *string
	Role            *string
	Notes           *string
	Status          *Status
	ApplicationDate *time.Time
	Salary          *string
	JobURL          *string
}
