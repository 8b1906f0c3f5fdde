package tracker

import (
	"context"

	"jobtrack/internal/database/sqlc"
)

// Store is the persistence collaborator. Each method is an atomic
// single-document operation: a failed SaveApplication leaves the stored
// application exactly as it was.
type Store interface {
	// LoadApplications returns every application owned by ownerID in
	// creation order.
	LoadApplications(ctx context.Context, ownerID string) ([]*Application, error)

	// SaveApplication inserts or replaces app. Status history, notes and
	// activities are append-only: entries already stored are never
	// rewritten.
	SaveApplication(ctx context.Context, app *Application) (*Application, error)

	// DeleteApplication removes the application and everything it owns.
	// It returns false if no application had that id.
	DeleteApplication(ctx context.Context, id string) (bool, error)
}

// Database is the local store plus the bookkeeping the app layer needs to
// track mutating commands and archive snapshots.
type Database interface {
	Store

	// CreateOperation records the start of a mutating command.
	CreateOperation(operation string, parameters string) (*sqlc.Operation, error)

	// FinishOperation marks an operation as finished with the given status.
	FinishOperation(id int64, status string) error

	// ListOperations returns the most recent operations, newest first.
	ListOperations(limit int) ([]*sqlc.Operation, error)

	// MaxOperationID returns the highest operation id, or 0 if none exist.
	MaxOperationID() (int64, error)

	// CheckMigrations verifies the schema is at the latest version.
	CheckMigrations() error

	// BackupTo writes a consistent copy of the database to destPath.
	BackupTo(destPath string) error

	// Close closes the database connection.
	Close() error
}
