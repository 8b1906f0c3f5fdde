package database

import (
	"fmt"
	"os"
	"path/filepath"

	"jobtrack/internal/config"
	"jobtrack/internal/tracker"
)

// Path returns the on-disk location of the owner's database for a sqlite
// config, or "" for other types.
func Path(cfg config.DatabaseConfig, ownerID string) string {
	if cfg.Type != "sqlite" || cfg.DataDir == "" {
		return ""
	}
	return filepath.Join(cfg.DataDir, ownerID+".db")
}

// NewDatabaseFromConfig creates a Database implementation based on the database config type.
// The schema is migrated to the latest version before it is returned.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, ownerID string) (tracker.Database, error) {
	var (
		db  *SQLiteDatabase
		err error
	)
	switch cfg.Type {
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("data_dir required for sqlite database")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		db, err = NewSQLiteDatabase(Path(cfg, ownerID))
	case "memory":
		db, err = NewSQLiteDatabase(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return db, nil
}
