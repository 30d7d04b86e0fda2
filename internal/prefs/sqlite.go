package prefs

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver

	"github.com/mojocode/mojocode/internal/domain"
	"github.com/mojocode/mojocode/internal/logging"
)

// Well-known preference keys. Per-agent model keys use modelKey().
const (
	keyLastAgent  = "lastAgent"
	keyRunOptions = "runOptions"
)

func modelKey(agent string) string {
	return "lastModel." + agent
}

// SQLite is a Store backed by a local SQLite database.
type SQLite struct {
	sql *sql.DB
	log *logging.Logger
}

// OpenSQLite opens (or creates) the preference database at the given
// path and runs migrations. Use ":memory:" for tests.
func OpenSQLite(path string, log *logging.Logger) (*SQLite, error) {
	if path != ":memory:" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return nil, fmt.Errorf("creating prefs directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite: %w", err)
	}

	// WAL mode for better concurrent read performance
	if _, err := sqlDB.Exec("PRAGMA journal_mode=WAL"); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("setting WAL mode: %w", err)
	}

	s := &SQLite{sql: sqlDB, log: log.Sub("prefs")}

	if err := s.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	s.log.Info().Str("path", path).Msg("preference store opened")
	return s, nil
}

// Close closes the database connection.
func (s *SQLite) Close() error {
	s.log.Info().Msg("closing preference store")
	return s.sql.Close()
}

// migrate runs all pending migrations.
func (s *SQLite) migrate() error {
	if _, err := s.sql.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at TEXT NOT NULL DEFAULT (datetime('now'))
		)
	`); err != nil {
		return fmt.Errorf("creating migrations table: %w", err)
	}

	for _, m := range migrations {
		var count int
		if err := s.sql.QueryRow(
			"SELECT COUNT(*) FROM schema_migrations WHERE version = ?", m.Version,
		).Scan(&count); err != nil {
			return fmt.Errorf("checking migration %d: %w", m.Version, err)
		}
		if count > 0 {
			continue
		}

		s.log.Info().Int("version", m.Version).Str("name", m.Name).Msg("applying migration")

		tx, err := s.sql.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %d: %w", m.Version, err)
		}
		if _, err := tx.Exec(m.SQL); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d (%s): %w", m.Version, m.Name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", m.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %d: %w", m.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %d: %w", m.Version, err)
		}
	}

	return nil
}

func (s *SQLite) get(key string) (string, bool) {
	var value string
	err := s.sql.QueryRow("SELECT value FROM preferences WHERE key = ?", key).Scan(&value)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			s.log.Error().Err(err).Str("key", key).Msg("preference read failed")
		}
		return "", false
	}
	return value, true
}

func (s *SQLite) set(key, value string) error {
	_, err := s.sql.Exec(
		`INSERT INTO preferences (key, value, updated_at)
		 VALUES (?, ?, datetime('now'))
		 ON CONFLICT(key) DO UPDATE SET
		   value = excluded.value,
		   updated_at = excluded.updated_at`,
		key, value,
	)
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}

func (s *SQLite) LastAgent() (string, bool) {
	return s.get(keyLastAgent)
}

func (s *SQLite) SetLastAgent(agent string) error {
	return s.set(keyLastAgent, agent)
}

func (s *SQLite) LastModel(agent string) (string, bool) {
	return s.get(modelKey(agent))
}

func (s *SQLite) SetLastModel(agent, model string) error {
	return s.set(modelKey(agent), model)
}

func (s *SQLite) Options() (domain.RunOptions, bool) {
	raw, ok := s.get(keyRunOptions)
	if !ok {
		return domain.RunOptions{}, false
	}
	var opts domain.RunOptions
	if err := json.Unmarshal([]byte(raw), &opts); err != nil {
		s.log.Error().Err(err).Msg("corrupt run options preference")
		return domain.RunOptions{}, false
	}
	return opts, true
}

func (s *SQLite) SetOptions(opts domain.RunOptions) error {
	data, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("encoding run options: %w", err)
	}
	return s.set(keyRunOptions, string(data))
}
