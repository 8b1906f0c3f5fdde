package tracker

import (
	"context"
	"time"
)

// Service is the orchestration layer between callers and the Store. It
// loads the owner's collection, runs the Recorder and persists the result.
// A mutation becomes visible only once SaveApplication has succeeded.
type Service struct {
	store    Store
	recorder *Recorder
	ownerID  string
	logger   Logger
	clock    Clock
}

// NewService creates a Service scoped to a single owner.
func NewService(store Store, ownerID string, logger Logger, clock Clock, idgen IDGenerator) *Service {
	return &Service{
		store:    store,
		recorder: NewRecorder(idgen),
		ownerID:  ownerID,
		logger:   logger,
		clock:    clock,
	}
}

// OwnerID returns the owner the service is scoped to.
func (s *Service) OwnerID() string { return s.ownerID }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.clock.Now() }

// ListApplications returns the owner's full collection.
func (s *Service) ListApplications(ctx context.Context) ([]*Application, error) {
	apps, err := s.store.LoadApplications(ctx, s.ownerID)
	if err != nil {
		return nil, &StorageError{Op: "load", Err: err}
	}
	return apps, nil
}

// GetApplication returns the application with the given id.
func (s *Service) GetApplication(ctx context.Context, id string) (*Application, error) {
	apps, err := s.ListApplications(ctx)
	if err != nil {
		return nil, err
	}
	for _, app := range apps {
		if app.ID == id {
			return app, nil
		}
	}
	return nil, &NotFoundError{ID: id}
}

// CreateApplication validates input and stores a new application.
func (s *Service) CreateApplication(ctx context.Context, in ApplicationInput) (*Application, error) {
	app, err := s.recorder.CreateApplication(s.ownerID, in, s.clock.Now())
	if err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, app)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application created", "id", saved.ID, "company", saved.Company, "status", string(saved.Status))
	return saved, nil
}

// ChangeStatus moves an application to a new status. Setting the current
// status again is a no-op and performs no write.
func (s *Service) ChangeStatus(ctx context.Context, id string, status Status) (*Application, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.recorder.ApplyStatusChange(app, status, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if next == app {
		return app, nil
	}
	saved, err := s.save(ctx, next)
	if err != nil {
		return nil, err
	}
	s.logger.Info("status changed", "id", id, "from", string(app.Status), "to", string(status))
	return saved, nil
}

// AddNote attaches a note to an application.
func (s *Service) AddNote(ctx context.Context, id, content string, typ NoteType) (*Application, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.recorder.AddNote(app, content, typ, s.clock.Now())
	if err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, next)
	if err != nil {
		return nil, err
	}
	s.logger.Info("note added", "id", id, "type", string(typ))
	return saved, nil
}

// ScheduleInterview sets the interview date of an application.
func (s *Service) ScheduleInterview(ctx context.Context, id string, at time.Time) (*Application, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.recorder.ScheduleInterview(app, at, s.clock.Now())
	if err != nil {
		return nil, err
	}
	saved, err := s.save(ctx, next)
	if err != nil {
		return nil, err
	}
	s.logger.Info("interview scheduled", "id", id, "date", at.Format("2006-01-02"))
	return saved, nil
}

// UpdateDetails applies a partial update to an application.
func (s *Service) UpdateDetails(ctx context.Context, id string, patch ApplicationPatch) (*Application, error) {
	app, err := s.GetApplication(ctx, id)
	if err != nil {
		return nil, err
	}
	next, err := s.recorder.ApplyPatch(app, patch, s.clock.Now())
	if err != nil {
		return nil, err
	}
	if next == app {
		return app, nil
	}
	saved, err := s.save(ctx, next)
	if err != nil {
		return nil, err
	}
	s.logger.Info("application updated", "id", id)
	return saved, nil
}

// DeleteApplication removes an application from the owner's collection.
func (s *Service) DeleteApplication(ctx context.Context, id string) error {
	if _, err := s.GetApplication(ctx, id); err != nil {
		return err
	}
	deleted, err := s.store.DeleteApplication(ctx, id)
	if err != nil {
		return &StorageError{Op: "delete", Err: err}
	}
	if !deleted {
		return &NotFoundError{ID: id}
	}
	s.logger.Info("application deleted", "id", id)
	return nil
}

func (s *Service) save(ctx context.Context, app *Application) (*Application, error) {
	saved, err := s.store.SaveApplication(ctx, app)
	if err != nil {
		s.logger.Error("saving application failed", "id", app.ID, "error", err)
		return nil, &StorageError{Op: "save", Err: err}
	}
	return saved, nil
}
