package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequireDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	_, err := requireDatabaseURL()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")

	t.Setenv("DATABASE_URL", "postgres://localhost:5432/mojocode")
	url, err := requireDatabaseURL()
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost:5432/mojocode", url)
}

func TestParseValue(t *testing.T) {
	tests := []struct {
		input    string
		expected any
	}{
		{"true", true},
		{"False", false},
		{"42", 42},
		{"-7", -7},
		{"3.5", 3.5},
		{"loopback", "loopback"},
		{"42abc", "42abc"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseValue(tt.input))
		})
	}
}

func TestRootCommand_Subcommands(t *testing.T) {
	root := newRootCmd()

	var names []string
	for _, sub := range root.Commands() {
		names = append(names, sub.Name())
	}

	for _, want := range []string{"serve", "migrate", "reset", "config", "version"} {
		assert.Contains(t, names, want)
	}
}
