package tracker

import (
	"time"
)

// Recorder applies lifecycle mutations to applications. It performs no I/O:
// every method works on a clone of its input and returns the new state, so
// the caller's copy is untouched until the result has been persisted.
type Recorder struct {
	idgen IDGenerator
}

// NewRecorder creates a Recorder that draws note and activity ids from idgen.
func NewRecorder(idgen IDGenerator) *Recorder {
	return &Recorder{idgen: idgen}
}

// effectiveTime keeps history monotonic when the supplied clock lags behind
// the application's last recorded mutation.
func effectiveTime(app *Application, now time.Time) time.Time {
	if now.Before(app.LastUpdated) {
		return app.LastUpdated
	}
	return now
}

func (r *Recorder) newActivity(typ ActivityType, at time.Time, description string, metadata map[string]string) Activity {
	return Activity{
		ID:          r.idgen.New(),
		Type:        typ,
		Timestamp:   at,
		Description: description,
		Metadata:    metadata,
	}
}

// CreateApplication builds a new application for ownerID from validated
// input. The status history is seeded with the initial status and the
// activity log with a single application_created entry.
func (r *Recorder) CreateApplication(ownerID string, in ApplicationInput, now time.Time) (*Application, error) {
	in, err := normalizeInput(in, now)
	if err != nil {
		return nil, err
	}

	app := &Application{
		ID:              r.idgen.New(),
		OwnerID:         ownerID,
		Company:         in.Company,
		Role:            in.Role,
		Notes:           in.Notes,
		Status:          in.Status,
		ApplicationDate: in.ApplicationDate,
		LastUpdated:     now,
		Salary:          in.Salary,
		JobURL:          in.JobURL,
		StatusHistory:   []StatusHistoryEntry{{Status: in.Status, ChangedAt: now}},
		NotesList:       []Note{},
	}
	app.Activities = []Activity{
		r.newActivity(ActivityApplicationCreated, now, "Application submitted", nil),
	}

	if in.InterviewDate != nil {
		d := *in.InterviewDate
		app.InterviewDate = &d
		app.Activities = append(app.Activities, r.interviewActivity(d, now))
	}

	return app, nil
}

// ApplyStatusChange moves app to newStatus. When newStatus equals the
// current status, app itself is returned and nothing is recorded. Any status
// may follow any other.
func (r *Recorder) ApplyStatusChange(app *Application, newStatus Status, now time.Time) (*Application, error) {
	if app == nil {
		return nil, &NotFoundError{}
	}
	if !newStatus.Valid() {
		return nil, &ValidationError{Field: "status", Message: "invalid status value: " + string(newStatus)}
	}
	if newStatus == app.Status {
		return app, nil
	}

	next := app.Clone()
	at := effectiveTime(next, now)
	from := next.Status

	next.StatusHistory = append(next.StatusHistory, StatusHistoryEntry{Status: newStatus, ChangedAt: at})
	next.Activities = append(next.Activities, r.newActivity(
		ActivityStatusChange,
		at,
		"Status changed to "+string(newStatus),
		map[string]string{"from": string(from), "to": string(newStatus)},
	))
	next.Status = newStatus
	next.LastUpdated = at
	return next, nil
}

// AddNote appends a note of the given type to app. Content is sanitized
// first and must not be empty afterwards.
func (r *Recorder) AddNote(app *Application, content string, typ NoteType, now time.Time) (*Application, error) {
	if app == nil {
		return nil, &NotFoundError{}
	}
	content = Sanitize(content)
	if err := checkLength("content", content, 1, MaxNoteContentChars); err != nil {
		return nil, err
	}
	typ, err := ParseNoteType(string(typ))
	if err != nil {
		return nil, err
	}

	next := app.Clone()
	at := effectiveTime(next, now)

	next.NotesList = append(next.NotesList, Note{
		ID:        r.idgen.New(),
		Content:   content,
		Type:      typ,
		CreatedAt: at,
	})
	next.Activities = append(next.Activities, r.newActivity(ActivityNoteAdded, at, typ.Label()+" added", nil))
	next.LastUpdated = at
	return next, nil
}

// ScheduleInterview sets the interview date and records an
// interview_scheduled activity.
func (r *Recorder) ScheduleInterview(app *Application, interviewAt, now time.Time) (*Application, error) {
	if app == nil {
		return nil, &NotFoundError{}
	}
	if interviewAt.IsZero() {
		return nil, &ValidationError{Field: "interviewDate", Message: "is required"}
	}

	next := app.Clone()
	at := effectiveTime(next, now)
	d := interviewAt
	next.InterviewDate = &d
	next.Activities = append(next.Activities, r.interviewActivity(d, at))
	next.LastUpdated = at
	return next, nil
}

func (r *Recorder) interviewActivity(interviewAt, at time.Time) Activity {
	day := interviewAt.Format("2006-01-02")
	return r.newActivity(
		ActivityInterviewScheduled,
		at,
		"Interview scheduled for "+day,
		map[string]string{"date": day},
	)
}

// ApplyPatch updates descriptive fields. A status in the patch is routed
// through ApplyStatusChange so history and activities stay consistent. If
// nothing changes, app is returned as is.
func (r *Recorder) ApplyPatch(app *Application, patch ApplicationPatch, now time.Time) (*Application, error) {
	if app == nil {
		return nil, &NotFoundError{}
	}

	in := ApplicationInput{
		Company:         app.Company,
		Role:            app.Role,
		Notes:           app.Notes,
		Status:          app.Status,
		ApplicationDate: app.ApplicationDate,
		Salary:          app.Salary,
		JobURL:          app.JobURL,
	}
	if patch.Company != nil {
		in.Company = *patch.Company
	}
	if patch.Role != nil {
		in.Role = *patch.Role
	}
	if patch.Notes != nil {
		in.Notes = *patch.Notes
	}
	if patch.Salary != nil {
		in.Salary = *patch.Salary
	}
	if patch.JobURL != nil {
		in.JobURL = *patch.JobURL
	}
	if patch.ApplicationDate != nil {
		in.ApplicationDate = *patch.ApplicationDate
	}
	if patch.Status != nil {
		in.Status = *patch.Status
	}

	in, err := normalizeInput(in, now)
	if err != nil {
		return nil, err
	}

	detailsChanged := in.Company != app.Company ||
		in.Role != app.Role ||
		in.Notes != app.Notes ||
		in.Salary != app.Salary ||
		in.JobURL != app.JobURL ||
		!in.ApplicationDate.Equal(app.ApplicationDate)

	next, err := r.ApplyStatusChange(app, in.Status, now)
	if err != nil {
		return nil, err
	}
	if !detailsChanged {
		return next, nil
	}
	if next == app {
		next = app.Clone()
	}

	next.Company = in.Company
	next.Role = in.Role
	next.Notes = in.Notes
	next.Salary = in.Salary
	next.JobURL = in.JobURL
	next.ApplicationDate = in.ApplicationDate
	next.LastUpdated = effectiveTime(next, now)
	return next, nil
}
