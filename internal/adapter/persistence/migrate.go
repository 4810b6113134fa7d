package persistence

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"sort"
	"strconv"
	"strings"
	"time"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// MigrationFile is one versioned schema script
type MigrationFile struct {
	Version int
	Name    string
	Path    string
	Kind    string // up or down
}

// LoadMigrations lists the embedded migration scripts ordered by version
func LoadMigrations() ([]MigrationFile, error) {
	return loadMigrationFiles(migrationFS, "migrations")
}

func loadMigrationFiles(fsys fs.FS, dir string) ([]MigrationFile, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}

	var files []MigrationFile
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		lower := strings.ToLower(name)
		if !strings.HasSuffix(lower, ".sql") {
			continue
		}

		kind := "up"
		if strings.HasSuffix(lower, ".down.sql") {
			kind = "down"
		}

		ver, migName, err := parseVersionAndName(name)
		if err != nil {
			continue
		}

		files = append(files, MigrationFile{
			Version: ver,
			Name:    migName,
			Path:    dir + "/" + name,
			Kind:    kind,
		})
	}

	sort.Slice(files, func(i, j int) bool { return files[i].Version < files[j].Version })
	return files, nil
}

// parseVersionAndName splits 001_create_system_logs.up.sql into 1 and
// create_system_logs
func parseVersionAndName(filename string) (int, string, error) {
	parts := strings.SplitN(filename, "_", 2)
	if len(parts) < 2 {
		return 0, "", errors.New("invalid filename")
	}
	ver, err := strconv.Atoi(parts[0])
	if err != nil || ver < 0 {
		return 0, "", errors.New("invalid version")
	}

	name := parts[1]
	for _, suffix := range []string{".up.sql", ".down.sql", ".sql"} {
		if strings.HasSuffix(strings.ToLower(name), suffix) {
			name = name[:len(name)-len(suffix)]
			break
		}
	}
	return ver, name, nil
}

// MigrateUp applies every pending up script
func MigrateUp(ctx context.Context, db *sql.DB) ([]MigrationFile, error) {
	files, err := LoadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}

	var applied []MigrationFile
	for _, f := range files {
		if f.Kind != "up" {
			continue
		}
		done, err := alreadyApplied(ctx, db, f.Version)
		if err != nil {
			return applied, err
		}
		if done {
			continue
		}

		if err := execScript(ctx, db, f.Path); err != nil {
			return applied, fmt.Errorf("failed applying %s: %w", f.Path, err)
		}
		if _, err := db.ExecContext(ctx,
			"INSERT INTO schema_migrations(version, name, applied_at) VALUES($1, $2, $3)",
			f.Version, f.Name, time.Now()); err != nil {
			return applied, err
		}
		applied = append(applied, f)
	}
	return applied, nil
}

// MigrateDown reverts every applied migration, newest first
func MigrateDown(ctx context.Context, db *sql.DB) ([]MigrationFile, error) {
	files, err := LoadMigrations()
	if err != nil {
		return nil, fmt.Errorf("failed to load migrations: %w", err)
	}
	if err := ensureSchemaMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("failed to ensure schema_migrations: %w", err)
	}

	var downs []MigrationFile
	for _, f := range files {
		if f.Kind == "down" {
			downs = append(downs, f)
		}
	}
	sort.Slice(downs, func(i, j int) bool { return downs[i].Version > downs[j].Version })

	var reverted []MigrationFile
	for _, f := range downs {
		done, err := alreadyApplied(ctx, db, f.Version)
		if err != nil {
			return reverted, err
		}
		if !done {
			continue
		}

		if err := execScript(ctx, db, f.Path); err != nil {
			return reverted, fmt.Errorf("failed reverting %s: %w", f.Path, err)
		}
		if _, err := db.ExecContext(ctx, "DELETE FROM schema_migrations WHERE version=$1", f.Version); err != nil {
			return reverted, err
		}
		reverted = append(reverted, f)
	}
	return reverted, nil
}

func ensureSchemaMigrations(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	return err
}

func alreadyApplied(ctx context.Context, db *sql.DB, version int) (bool, error) {
	var exists bool
	err := db.QueryRowContext(ctx, "SELECT EXISTS(SELECT 1 FROM schema_migrations WHERE version=$1)", version).Scan(&exists)
	return exists, err
}

func execScript(ctx context.Context, db *sql.DB, path string) error {
	script, err := fs.ReadFile(migrationFS, path)
	if err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, string(script))
	return err
}
