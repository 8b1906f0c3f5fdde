// generate_schema migrates a scratch database and dumps the resulting DDL to
// internal/database/sqlc/schema.sql, which sqlc and the tests consume.
package main

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"jobtrack/internal/database"
	"jobtrack/internal/database/migrations"
)

const outFile = "internal/database/sqlc/schema.sql"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "generate schema: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("wrote %s\n", outFile)
}

func run() error {
	db, err := database.OpenConnection(":memory:")
	if err != nil {
		return err
	}
	defer db.Close()

	if err := migrations.MigrateUp(db); err != nil {
		return err
	}
	version, err := migrations.SchemaVersion(db)
	if err != nil {
		return err
	}

	ddl, err := dumpDDL(db)
	if err != nil {
		return err
	}

	var b strings.Builder
	b.WriteString("-- Generated from internal/database/migrations/files. Do not edit.\n")
	fmt.Fprintf(&b, "-- Schema version %d. Regenerate with: go generate ./internal/database\n\n", version)
	b.WriteString(ddl)

	return os.WriteFile(filepath.FromSlash(outFile), []byte(b.String()), 0644)
}

// dumpDDL returns the CREATE statements for every user table and index,
// tables first, skipping golang-migrate's bookkeeping table.
func dumpDDL(db *sql.DB) (string, error) {
	rows, err := db.Query(`
		SELECT sql || ';'
		FROM sqlite_master
		WHERE type IN ('table', 'index')
		  AND sql IS NOT NULL
		  AND name NOT LIKE 'sqlite_%'
		  AND tbl_name != 'schema_migrations'
		ORDER BY CASE type WHEN 'table' THEN 0 ELSE 1 END, name`)
	if err != nil {
		return "", fmt.Errorf("querying sqlite_master: %w", err)
	}
	defer rows.Close()

	var stmts []string
	for rows.Next() {
		var stmt string
		if err := rows.Scan(&stmt); err != nil {
			return "", fmt.Errorf("scanning ddl: %w", err)
		}
		stmts = append(stmts, stmt)
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("reading ddl: %w", err)
	}
	return strings.Join(stmts, "\n\n") + "\n", nil
}
