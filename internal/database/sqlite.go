package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"jobtrack/internal/database/migrations"
	"jobtrack/internal/database/sqlc"
	"jobtrack/internal/tracker"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteDatabase implements the tracker.Database interface using SQLite.
type SQLiteDatabase struct {
	db      *sql.DB
	queries *sqlc.Queries
	path    string
}

// NewSQLiteDatabase creates a new SQLite database connection.
// path can be a file path or ":memory:" for in-memory database.
func NewSQLiteDatabase(path string) (*SQLiteDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}

	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    path,
	}, nil
}

// NewSQLiteDatabaseFromDB wraps an existing database connection.
// The caller is responsible for ensuring the connection is properly configured.
func NewSQLiteDatabaseFromDB(db *sql.DB) *SQLiteDatabase {
	return &SQLiteDatabase{
		db:      db,
		queries: sqlc.New(db),
		path:    "",
	}
}

// OpenConnection opens and configures a SQLite database connection with appropriate PRAGMAs.
// This is exported for use in tools and tests that need a properly configured SQLite connection.
// path can be a file path or ":memory:" for in-memory database.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// A single connection keeps PRAGMAs applied and ":memory:" databases shared.
	db.SetMaxOpenConns(1)

	// Enable foreign key constraints (SQLite default is OFF for backward compatibility)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// Application operations

// LoadApplications reads the owner's applications and their child rows in a
// single transaction so the result is a consistent snapshot.
func (s *SQLiteDatabase) LoadApplications(ctx context.Context, ownerID string) ([]*tracker.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	rows, err := qtx.ListApplicationsByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing applications: %w", err)
	}
	history, err := qtx.ListStatusHistoryByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing status history: %w", err)
	}
	notes, err := qtx.ListNotesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing notes: %w", err)
	}
	activities, err := qtx.ListActivitiesByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("listing activities: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	apps := make([]*tracker.Application, len(rows))
	byID := make(map[string]*tracker.Application, len(rows))
	for i, row := range rows {
		app := applicationFromRow(row)
		apps[i] = app
		byID[row.ID] = app
	}

	for _, h := range history {
		if app, ok := byID[h.ApplicationID]; ok {
			app.StatusHistory = append(app.StatusHistory, tracker.StatusHistoryEntry{
				Status:    tracker.Status(h.Status),
				ChangedAt: h.ChangedAt,
			})
		}
	}
	for _, n := range notes {
		if app, ok := byID[n.ApplicationID]; ok {
			app.NotesList = append(app.NotesList, tracker.Note{
				ID:        n.ID,
				Content:   n.Content,
				Type:      tracker.NoteType(n.NoteType),
				CreatedAt: n.CreatedAt,
			})
		}
	}
	for _, a := range activities {
		app, ok := byID[a.ApplicationID]
		if !ok {
			continue
		}
		act, err := activityFromRow(a)
		if err != nil {
			return nil, err
		}
		app.Activities = append(app.Activities, act)
	}

	return apps, nil
}

// SaveApplication upserts the application row and appends any history,
// note and activity entries not yet stored. Existing child rows are left
// untouched. Everything happens in one transaction.
func (s *SQLiteDatabase) SaveApplication(ctx context.Context, app *tracker.Application) (*tracker.Application, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	qtx := s.queries.WithTx(tx)

	owner, err := qtx.GetApplicationOwner(ctx, app.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		// new application
	case err != nil:
		return nil, fmt.Errorf("checking application owner: %w", err)
	case owner != app.OwnerID:
		return nil, fmt.Errorf("application %s belongs to a different owner", app.ID)
	}

	var interview sql.NullTime
	if app.InterviewDate != nil {
		interview = sql.NullTime{Time: app.InterviewDate.UTC(), Valid: true}
	}

	err = qtx.UpsertApplication(ctx, sqlc.UpsertApplicationParams{
		ID:              app.ID,
		OwnerID:         app.OwnerID,
		Company:         app.Company,
		Role:            app.Role,
		Notes:           app.Notes,
		Status:          string(app.Status),
		ApplicationDate: app.ApplicationDate.UTC(),
		LastUpdated:     app.LastUpdated.UTC(),
		InterviewDate:   interview,
		Salary:          app.Salary,
		JobUrl:          app.JobURL,
	})
	if err != nil {
		return nil, fmt.Errorf("upserting application: %w", err)
	}

	for i, h := range app.StatusHistory {
		err := qtx.InsertStatusHistory(ctx, sqlc.InsertStatusHistoryParams{
			ApplicationID: app.ID,
			Seq:           int64(i),
			Status:        string(h.Status),
			ChangedAt:     h.ChangedAt.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("inserting status history: %w", err)
		}
	}

	for i, n := range app.NotesList {
		err := qtx.InsertNote(ctx, sqlc.InsertNoteParams{
			ID:            n.ID,
			ApplicationID: app.ID,
			Seq:           int64(i),
			Content:       n.Content,
			NoteType:      string(n.Type),
			CreatedAt:     n.CreatedAt.UTC(),
		})
		if err != nil {
			return nil, fmt.Errorf("inserting note: %w", err)
		}
	}

	for i, a := range app.Activities {
		var metadata sql.NullString
		if len(a.Metadata) > 0 {
			data, err := json.Marshal(a.Metadata)
			if err != nil {
				return nil, fmt.Errorf("encoding activity metadata: %w", err)
			}
			metadata = sql.NullString{String: string(data), Valid: true}
		}
		err := qtx.InsertActivity(ctx, sqlc.InsertActivityParams{
			ID:            a.ID,
			ApplicationID: app.ID,
			Seq:           int64(i),
			ActivityType:  string(a.Type),
			OccurredAt:    a.Timestamp.UTC(),
			Description:   a.Description,
			Metadata:      metadata,
		})
		if err != nil {
			return nil, fmt.Errorf("inserting activity: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing transaction: %w", err)
	}

	return app.Clone(), nil
}

// DeleteApplication removes an application; child rows go with it through
// ON DELETE CASCADE.
func (s *SQLiteDatabase) DeleteApplication(ctx context.Context, id string) (bool, error) {
	n, err := s.queries.DeleteApplication(ctx, id)
	if err != nil {
		return false, fmt.Errorf("deleting application: %w", err)
	}
	return n > 0, nil
}

func applicationFromRow(row sqlc.Application) *tracker.Application {
	app := &tracker.Application{
		ID:              row.ID,
		OwnerID:         row.OwnerID,
		Company:         row.Company,
		Role:            row.Role,
		Notes:           row.Notes,
		Status:          tracker.Status(row.Status),
		ApplicationDate: row.ApplicationDate,
		LastUpdated:     row.LastUpdated,
		Salary:          row.Salary,
		JobURL:          row.JobUrl,
		StatusHistory:   []tracker.StatusHistoryEntry{},
		NotesList:       []tracker.Note{},
		Activities:      []tracker.Activity{},
	}
	if row.InterviewDate.Valid {
		d := row.InterviewDate.Time
		app.InterviewDate = &d
	}
	return app
}

func activityFromRow(row sqlc.Activity) (tracker.Activity, error) {
	act := tracker.Activity{
		ID:          row.ID,
		Type:        tracker.ActivityType(row.ActivityType),
		Timestamp:   row.OccurredAt,
		Description: row.Description,
	}
	if row.Metadata.Valid {
		if err := json.Unmarshal([]byte(row.Metadata.String), &act.Metadata); err != nil {
			return act, fmt.Errorf("decoding metadata for activity %s: %w", row.ID, err)
		}
	}
	return act, nil
}

// Operation tracking

func (s *SQLiteDatabase) CreateOperation(operation string, parameters string) (*sqlc.Operation, error) {
	op, err := s.queries.InsertOperation(context.Background(), sqlc.InsertOperationParams{
		StartedAt:  time.Now().UTC(),
		Operation:  operation,
		Parameters: parameters,
	})
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return &op, nil
}

func (s *SQLiteDatabase) FinishOperation(id int64, status string) error {
	err := s.queries.UpdateOperationFinished(context.Background(), sqlc.UpdateOperationFinishedParams{
		FinishedAt: sql.NullTime{Time: time.Now().UTC(), Valid: true},
		Status:     status,
		ID:         id,
	})
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

func (s *SQLiteDatabase) ListOperations(limit int) ([]*sqlc.Operation, error) {
	ops, err := s.queries.GetOperations(context.Background(), int64(limit))
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}

	result := make([]*sqlc.Operation, len(ops))
	for i := range ops {
		result[i] = &ops[i]
	}
	return result, nil
}

func (s *SQLiteDatabase) MaxOperationID() (int64, error) {
	id, err := s.queries.GetMaxOperationID(context.Background())
	if err != nil {
		return 0, fmt.Errorf("getting max operation ID: %w", err)
	}
	return id, nil
}

// Path returns the database file path (or ":memory:" for in-memory databases).
func (s *SQLiteDatabase) Path() string {
	return s.path
}

// CheckMigrations verifies the database schema is up-to-date.
func (s *SQLiteDatabase) CheckMigrations() error {
	return migrations.CheckDBMigrationStatus(s.db)
}

// Migrate applies any pending migrations.
func (s *SQLiteDatabase) Migrate() error {
	return migrations.MigrateUp(s.db)
}

// BackupTo creates a complete copy of the database at destPath using VACUUM INTO.
func (s *SQLiteDatabase) BackupTo(destPath string) error {
	_, err := s.db.Exec("VACUUM INTO ?", destPath)
	if err != nil {
		return fmt.Errorf("backing up database: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteDatabase) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// Compile-time check that SQLiteDatabase implements tracker.Database interface
var _ tracker.Database = (*SQLiteDatabase)(nil)
