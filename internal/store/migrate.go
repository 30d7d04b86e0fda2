package store

import (
	"context"
	"embed"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

//go:embed migrations/*.sql
var migrationFS embed.FS

// migrationsDir is the fixed directory migrations are read from.
const migrationsDir = "migrations"

// bookkeepingSchema is the dedicated schema holding migration state. The
// reset tool drops it wholesale to force a clean re-migration.
const bookkeepingSchema = "mojo_migrations"

// Migration is one versioned schema change, read from an embedded
// NNNN_name.sql file.
type Migration struct {
	Version int
	Name    string
	SQL     string
}

// LoadMigrations reads the embedded migration files and returns them
// ordered by version. File names must look like 0001_create_users.sql.
func LoadMigrations() ([]Migration, error) {
	entries, err := migrationFS.ReadDir(migrationsDir)
	if err != nil {
		return nil, fmt.Errorf("reading migrations directory: %w", err)
	}

	var out []Migration
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasSuffix(name, ".sql") {
			continue
		}
		m, err := parseMigrationName(name)
		if err != nil {
			return nil, err
		}
		data, err := migrationFS.ReadFile(migrationsDir + "/" + name)
		if err != nil {
			return nil, fmt.Errorf("reading migration %s: %w", name, err)
		}
		m.SQL = string(data)
		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })

	for i := 1; i < len(out); i++ {
		if out[i].Version == out[i-1].Version {
			return nil, fmt.Errorf("duplicate migration version %d", out[i].Version)
		}
	}
	return out, nil
}

func parseMigrationName(file string) (Migration, error) {
	base := strings.TrimSuffix(file, ".sql")
	prefix, rest, ok := strings.Cut(base, "_")
	if !ok {
		return Migration{}, fmt.Errorf("migration %s: expected NNNN_name.sql", file)
	}
	version, err := strconv.Atoi(prefix)
	if err != nil {
		return Migration{}, fmt.Errorf("migration %s: bad version prefix: %w", file, err)
	}
	return Migration{Version: version, Name: rest}, nil
}

// Migrate applies all not-yet-applied migrations in order, each inside
// its own transaction, and returns how many were applied. A re-run
// against an up-to-date schema applies zero and is a no-op.
func (c *Conn) Migrate(ctx context.Context) (int, error) {
	migrations, err := LoadMigrations()
	if err != nil {
		return 0, err
	}

	if _, err := c.pg.Exec(ctx,
		fmt.Sprintf(`CREATE SCHEMA IF NOT EXISTS %s`, bookkeepingSchema),
	); err != nil {
		return 0, fmt.Errorf("creating bookkeeping schema: %w", err)
	}
	if _, err := c.pg.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s.applied (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, bookkeepingSchema),
	); err != nil {
		return 0, fmt.Errorf("creating bookkeeping table: %w", err)
	}

	applied := 0
	for _, m := range migrations {
		var count int
		if err := c.pg.QueryRow(ctx,
			fmt.Sprintf(`SELECT COUNT(*) FROM %s.applied WHERE version = $1`, bookkeepingSchema),
			m.Version,
		).Scan(&count); err != nil {
			return applied, fmt.Errorf("checking migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		c.log.Info().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")

		tx, err := c.pg.Begin(ctx)
		if err != nil {
			return applied, fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(ctx, m.SQL); err != nil {
			tx.Rollback(ctx)
			return applied, fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec(ctx,
			fmt.Sprintf(`INSERT INTO %s.applied (version, name) VALUES ($1, $2)`, bookkeepingSchema),
			m.Version, m.Name,
		); err != nil {
			tx.Rollback(ctx)
			return applied, fmt.Errorf("recording migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(ctx); err != nil {
			return applied, fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
		applied++
	}

	return applied, nil
}
