package prefs

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojocode/mojocode/internal/domain"
	"github.com/mojocode/mojocode/internal/logging"
)

func openTestStore(t *testing.T) *SQLite {
	t.Helper()
	s, err := OpenSQLite(":memory:", logging.New(nil, "silent"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

// stores runs the same subtest against both Store implementations.
func stores(t *testing.T, fn func(t *testing.T, s Store)) {
	t.Run("memory", func(t *testing.T) { fn(t, NewMemory()) })
	t.Run("sqlite", func(t *testing.T) { fn(t, openTestStore(t)) })
}

func TestStore_EmptyReads(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		_, ok := s.LastAgent()
		assert.False(t, ok)

		_, ok = s.LastModel("codex")
		assert.False(t, ok)

		_, ok = s.Options()
		assert.False(t, ok)
	})
}

func TestStore_LastAgentRoundTrip(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		require.NoError(t, s.SetLastAgent("claude"))
		require.NoError(t, s.SetLastAgent("opencode"))

		agent, ok := s.LastAgent()
		require.True(t, ok)
		assert.Equal(t, "opencode", agent)
	})
}

func TestStore_ModelsAreScopedPerAgent(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		require.NoError(t, s.SetLastModel("codex", "gpt-5.1"))
		require.NoError(t, s.SetLastModel("claude", "claude-opus-4-5"))

		model, ok := s.LastModel("codex")
		require.True(t, ok)
		assert.Equal(t, "gpt-5.1", model)

		model, ok = s.LastModel("claude")
		require.True(t, ok)
		assert.Equal(t, "claude-opus-4-5", model)

		_, ok = s.LastModel("opencode")
		assert.False(t, ok)
	})
}

func TestStore_OptionsRoundTrip(t *testing.T) {
	stores(t, func(t *testing.T, s Store) {
		want := domain.RunOptions{InstallDependencies: true, MaxDurationMinutes: 90, KeepAlive: true}
		require.NoError(t, s.SetOptions(want))

		got, ok := s.Options()
		require.True(t, ok)
		assert.Equal(t, want, got)
	})
}

func TestOpenSQLite_CreatesParentDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.db")

	s, err := OpenSQLite(path, logging.New(nil, "silent"))
	require.NoError(t, err)
	defer s.Close()

	require.NoError(t, s.SetLastAgent("codex"))
	agent, ok := s.LastAgent()
	require.True(t, ok)
	assert.Equal(t, "codex", agent)
}

func TestOpenSQLite_ReopenPreservesData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.db")
	log := logging.New(nil, "silent")

	s, err := OpenSQLite(path, log)
	require.NoError(t, err)
	require.NoError(t, s.SetLastModel("opencode", "gemini-3-pro"))
	require.NoError(t, s.Close())

	// Reopening re-runs migrate; already-applied versions are skipped.
	s, err = OpenSQLite(path, log)
	require.NoError(t, err)
	defer s.Close()

	model, ok := s.LastModel("opencode")
	require.True(t, ok)
	assert.Equal(t, "gemini-3-pro", model)
}

func TestSQLite_CorruptOptionsTreatedAsUnset(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.set(keyRunOptions, "{not json"))

	_, ok := s.Options()
	assert.False(t, ok)
}
