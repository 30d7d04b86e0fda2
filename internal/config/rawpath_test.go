package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseConfigPath(t *testing.T) {
	parts, err := ParseConfigPath("server.customBindHost")
	require.NoError(t, err)
	assert.Equal(t, []string{"server", "customBindHost"}, parts)

	_, err = ParseConfigPath("")
	assert.Error(t, err)

	_, err = ParseConfigPath("server..port")
	assert.Error(t, err)

	for _, blocked := range []string{"__proto__", "prototype", "constructor"} {
		_, err = ParseConfigPath("server." + blocked)
		assert.Error(t, err, blocked)
	}
}

func TestGetSetUnsetValueAtPath(t *testing.T) {
	root := map[string]any{}

	SetValueAtPath(root, []string{"server", "port"}, 9000)
	SetValueAtPath(root, []string{"server", "bind"}, "lan")

	v, ok := GetValueAtPath(root, []string{"server", "port"})
	require.True(t, ok)
	assert.Equal(t, 9000, v)

	_, ok = GetValueAtPath(root, []string{"server", "missing"})
	assert.False(t, ok)

	// Traversing through a scalar fails rather than panicking.
	_, ok = GetValueAtPath(root, []string{"server", "port", "nested"})
	assert.False(t, ok)

	assert.True(t, UnsetValueAtPath(root, []string{"server", "port"}))
	assert.False(t, UnsetValueAtPath(root, []string{"server", "port"}))

	_, ok = GetValueAtPath(root, []string{"server", "port"})
	assert.False(t, ok)
}

func TestSetValueAtPath_ReplacesScalarWithMap(t *testing.T) {
	root := map[string]any{"server": "oops"}

	SetValueAtPath(root, []string{"server", "port"}, 8080)

	v, ok := GetValueAtPath(root, []string{"server", "port"})
	require.True(t, ok)
	assert.Equal(t, 8080, v)
}

func TestLoadSaveRaw(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	// Missing file reads as an empty map.
	raw, err := LoadRaw(path)
	require.NoError(t, err)
	assert.Empty(t, raw)

	SetValueAtPath(raw, []string{"logging", "level"}, "debug")
	require.NoError(t, err)
	require.NoError(t, SaveRaw(path, raw))

	reread, err := LoadRaw(path)
	require.NoError(t, err)
	v, ok := GetValueAtPath(reread, []string{"logging", "level"})
	require.True(t, ok)
	assert.Equal(t, "debug", v)
}

func TestLoadRaw_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("{broken"), 0o600))

	_, err := LoadRaw(path)
	assert.Error(t, err)
}
