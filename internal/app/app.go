package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"jobtrack/internal/analytics"
	"jobtrack/internal/config"
	"jobtrack/internal/database"
	"jobtrack/internal/database/sqlc"
	"jobtrack/internal/encryption"
	"jobtrack/internal/export"
	"jobtrack/internal/query"
	"jobtrack/internal/tracker"
	"jobtrack/internal/vault"
)

// snapshotName is the vault object holding the owner's database.
const snapshotName = "db"

// TrackerApp is the application layer between the CLI and tracker.Service.
// It constructs all dependencies from config, exposes high-level operations
// that accept raw user input, and manages the DB lifecycle on Close.
type TrackerApp struct {
	cfg       *config.Config
	db        tracker.Database
	vault     tracker.Vault     // nil when no vault is configured
	encryptor tracker.Encryptor // nil when snapshots are stored in plaintext
	service   *tracker.Service
	clock     tracker.Clock
	logger    *slog.Logger
	op        *Operation
	logFile   *os.File
}

// NewTrackerApp creates a fully wired TrackerApp from the given config.
// operation identifies the CLI command being run (e.g. "CreateApplication").
// The caller must call Close when done.
func NewTrackerApp(cfg *config.Config, operation string) (*TrackerApp, error) {
	if cfg.OwnerID == "" {
		return nil, fmt.Errorf("owner_id is not set")
	}

	var v tracker.Vault
	if len(cfg.Vaults) > 0 {
		var err error
		v, err = vault.NewVaultFromConfig(cfg.Vaults[0])
		if err != nil {
			return nil, fmt.Errorf("creating vault: %w", err)
		}
	}

	enc, err := encryption.NewEncryptorFromConfig(cfg.Encryption)
	if err != nil {
		return nil, fmt.Errorf("creating encryptor: %w", err)
	}

	db, err := database.NewDatabaseFromConfig(cfg.Database, cfg.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("creating database: %w", err)
	}

	if err := db.CheckMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("database schema out of date: %w", err)
	}

	opID := time.Now().UTC().Format("20060102T150405Z")
	logger, logFile, err := newLogger(cfg.LogDir, opID, cfg.LogLevel, os.Stderr)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	a, err := newTrackerApp(cfg, db, v, enc, logger, tracker.RealClock{}, tracker.UUIDGenerator{}, operation)
	if err != nil {
		db.Close()
		logFile.Close()
		return nil, err
	}
	a.logFile = logFile
	return a, nil
}

// newTrackerApp wires an app from already-built dependencies and refuses to
// run against a local database that is older than the vault's snapshot.
func newTrackerApp(cfg *config.Config, db tracker.Database, v tracker.Vault, enc tracker.Encryptor,
	logger *slog.Logger, clock tracker.Clock, idgen tracker.IDGenerator, operation string) (*TrackerApp, error) {
	if v != nil {
		remoteVersion, err := v.GetSnapshotVersion(cfg.OwnerID, snapshotName)
		if err != nil {
			return nil, fmt.Errorf("checking remote snapshot version: %w", err)
		}

		localMax, err := db.MaxOperationID()
		if err != nil {
			return nil, fmt.Errorf("checking local database version: %w", err)
		}

		if remoteVersion > localMax {
			return nil, fmt.Errorf("local database is behind remote (local=%d, remote=%d): run `jt snapshot pull` first", localMax, remoteVersion)
		}
	}

	return &TrackerApp{
		cfg:       cfg,
		db:        db,
		vault:     v,
		encryptor: enc,
		service:   tracker.NewService(db, cfg.OwnerID, &slogAdapter{l: logger}, clock, idgen),
		clock:     clock,
		logger:    logger,
		op:        NewOperation(operation, ""),
	}, nil
}

// Service exposes the underlying service for the HTTP server.
func (a *TrackerApp) Service() *tracker.Service {
	return a.service
}

// persistOperation saves the operation to the database, giving it an auto-increment ID.
// This should only be called for DB-mutating commands.
func (a *TrackerApp) persistOperation(parameters string) error {
	if a.op.Persisted() {
		return nil
	}
	a.op.Parameters = parameters
	dbOp, err := a.db.CreateOperation(a.op.Operation, a.op.Parameters)
	if err != nil {
		return fmt.Errorf("persisting operation: %w", err)
	}
	a.op.ID = dbOp.ID
	return nil
}

// track marks the operation failed when err is non-nil and returns err.
func (a *TrackerApp) track(err error) error {
	if err != nil {
		a.op.Fail()
	}
	return err
}

// CreateApplication stores a new application.
func (a *TrackerApp) CreateApplication(ctx context.Context, in tracker.ApplicationInput) (*tracker.Application, error) {
	if err := a.persistOperation("company=" + in.Company); err != nil {
		return nil, err
	}
	app, err := a.service.CreateApplication(ctx, in)
	return app, a.track(err)
}

// ChangeStatus parses rawStatus and moves the application to it.
func (a *TrackerApp) ChangeStatus(ctx context.Context, id, rawStatus string) (*tracker.Application, error) {
	status, err := tracker.ParseStatus(rawStatus)
	if err != nil {
		return nil, err
	}
	if err := a.persistOperation(fmt.Sprintf("id=%s status=%s", id, status)); err != nil {
		return nil, err
	}
	app, err := a.service.ChangeStatus(ctx, id, status)
	return app, a.track(err)
}

// AddNote attaches a note. An empty rawType means a general note.
func (a *TrackerApp) AddNote(ctx context.Context, id, content, rawType string) (*tracker.Application, error) {
	typ, err := tracker.ParseNoteType(rawType)
	if err != nil {
		return nil, err
	}
	if err := a.persistOperation(fmt.Sprintf("id=%s type=%s", id, typ)); err != nil {
		return nil, err
	}
	app, err := a.service.AddNote(ctx, id, content, typ)
	return app, a.track(err)
}

// ScheduleInterview parses rawDate (YYYY-MM-DD or RFC 3339) and sets it as
// the interview date.
func (a *TrackerApp) ScheduleInterview(ctx context.Context, id, rawDate string) (*tracker.Application, error) {
	at, err := query.ParseDate("interviewDate", rawDate)
	if err != nil {
		return nil, err
	}
	if err := a.persistOperation(fmt.Sprintf("id=%s date=%s", id, at.Format(time.DateOnly))); err != nil {
		return nil, err
	}
	app, err := a.service.ScheduleInterview(ctx, id, at)
	return app, a.track(err)
}

// UpdateApplication applies a partial update.
func (a *TrackerApp) UpdateApplication(ctx context.Context, id string, patch tracker.ApplicationPatch) (*tracker.Application, error) {
	if err := a.persistOperation("id=" + id); err != nil {
		return nil, err
	}
	app, err := a.service.UpdateDetails(ctx, id, patch)
	return app, a.track(err)
}

// DeleteApplication removes an application and everything it owns.
func (a *TrackerApp) DeleteApplication(ctx context.Context, id string) error {
	if err := a.persistOperation("id=" + id); err != nil {
		return err
	}
	return a.track(a.service.DeleteApplication(ctx, id))
}

// GetApplication returns a single application.
func (a *TrackerApp) GetApplication(ctx context.Context, id string) (*tracker.Application, error) {
	return a.service.GetApplication(ctx, id)
}

// ListApplications runs req over the owner's collection.
func (a *TrackerApp) ListApplications(ctx context.Context, req query.Request) (query.Page, error) {
	if err := req.Validate(); err != nil {
		return query.Page{}, err
	}
	apps, err := a.service.ListApplications(ctx)
	if err != nil {
		return query.Page{}, err
	}
	return query.Apply(apps, req), nil
}

// Analytics computes summary statistics over the owner's collection.
func (a *TrackerApp) Analytics(ctx context.Context) (analytics.Stats, error) {
	apps, err := a.service.ListApplications(ctx)
	if err != nil {
		return analytics.Stats{}, err
	}
	return analytics.Compute(apps, a.clock.Now()), nil
}

// Export writes every application in the requested format, newest first.
func (a *TrackerApp) Export(ctx context.Context, format export.Format, w io.Writer) error {
	apps, err := a.service.ListApplications(ctx)
	if err != nil {
		return err
	}
	query.SortApplications(apps, query.SortDateDesc)
	return export.Write(w, format, apps, a.clock.Now())
}

// Report writes the plain-text report for one application.
func (a *TrackerApp) Report(ctx context.Context, id string, w io.Writer) error {
	app, err := a.service.GetApplication(ctx, id)
	if err != nil {
		return err
	}
	return export.WriteApplicationReport(w, app)
}

// GetHistory returns the most recent mutating operations.
func (a *TrackerApp) GetHistory(limit int) ([]*sqlc.Operation, error) {
	return a.db.ListOperations(limit)
}

// Close finalizes the operation and closes all resources.
// For persisted operations: finishes the operation record, snapshots the DB,
// and uploads it to the vault if one is configured.
// For non-persisted operations: just closes the database.
func (a *TrackerApp) Close() error {
	var firstErr error
	setErr := func(err error) {
		if firstErr == nil {
			firstErr = err
		}
	}

	if a.op.Persisted() {
		if err := a.db.FinishOperation(a.op.ID, a.op.Status); err != nil {
			setErr(fmt.Errorf("finishing operation: %w", err))
		}
	}

	var tmpPath string
	if a.op.Persisted() && a.vault != nil {
		p, err := a.snapshotDatabase()
		if err != nil {
			setErr(err)
		} else {
			tmpPath = p
			defer os.Remove(tmpPath)
		}
	}

	if err := a.db.Close(); err != nil {
		setErr(fmt.Errorf("closing database: %w", err))
	}

	// Upload DB snapshot to vault with version = operation ID
	if tmpPath != "" {
		if err := a.uploadSnapshot(tmpPath, a.op.ID); err != nil {
			setErr(err)
		} else {
			a.logger.Info("snapshot uploaded", "version", a.op.ID)
		}
	}

	if a.logFile != nil {
		a.logFile.Close()
	}

	return firstErr
}

// snapshotDatabase writes a consistent copy of the database to a temp file.
func (a *TrackerApp) snapshotDatabase() (string, error) {
	tmpFile, err := os.CreateTemp("", "jt-db-snapshot-*.db")
	if err != nil {
		return "", fmt.Errorf("creating temp file for db snapshot: %w", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()

	if err := a.db.BackupTo(tmpPath); err != nil {
		os.Remove(tmpPath)
		return "", fmt.Errorf("backing up database: %w", err)
	}
	return tmpPath, nil
}

// uploadSnapshot encrypts the snapshot when an encryptor is configured and
// uploads it to the vault.
func (a *TrackerApp) uploadSnapshot(path string, version int64) error {
	if a.encryptor != nil {
		encPath, err := encryptFile(a.encryptor, path)
		if err != nil {
			return err
		}
		defer os.Remove(encPath)
		path = encPath
	}

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening db snapshot for upload: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat db snapshot: %w", err)
	}

	if err := a.vault.PutSnapshot(a.cfg.OwnerID, snapshotName, f, info.Size(), version); err != nil {
		return fmt.Errorf("uploading snapshot to vault: %w", err)
	}
	return nil
}

func encryptFile(enc tracker.Encryptor, src string) (string, error) {
	in, err := os.Open(src)
	if err != nil {
		return "", fmt.Errorf("opening snapshot for encryption: %w", err)
	}
	defer in.Close()

	out, err := os.CreateTemp("", "jt-db-snapshot-*.age")
	if err != nil {
		return "", fmt.Errorf("creating temp file for encrypted snapshot: %w", err)
	}
	if err := enc.Encrypt(in, out); err != nil {
		out.Close()
		os.Remove(out.Name())
		return "", fmt.Errorf("encrypting snapshot: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(out.Name())
		return "", fmt.Errorf("closing encrypted snapshot: %w", err)
	}
	return out.Name(), nil
}
