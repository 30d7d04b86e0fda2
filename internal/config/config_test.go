package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, 18790, cfg.Server.Port)
	assert.Equal(t, "loopback", cfg.Server.Bind)
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
	assert.Equal(t, 30, cfg.Sandbox.MaxDurationMinutes)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "pretty", cfg.Logging.ConsoleStyle)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
  bind: lan
logging:
  level: debug
  consoleStyle: json
sandbox:
  installDependencies: true
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Server.Port)
	assert.Equal(t, "lan", cfg.Server.Bind)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.ConsoleStyle)
	assert.True(t, cfg.Sandbox.InstallDependencies)
	// Untouched fields keep their defaults.
	assert.Equal(t, "https://api.github.com", cfg.GitHub.BaseURL)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := writeConfig(t, "server: [not a mapping")

	_, err := Load(path)
	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MOJOCODE_SERVER_PORT", "7777")
	t.Setenv("MOJOCODE_LOG_LEVEL", "WARN")
	t.Setenv("DATABASE_URL", "postgres://localhost/mojocode")

	path := writeConfig(t, "server:\n  port: 9000\n")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 7777, cfg.Server.Port)
	assert.Equal(t, "warn", cfg.Logging.Level)
	assert.Equal(t, "postgres://localhost/mojocode", cfg.Database.URL)
}

func TestLoad_ExpandsSensitiveFields(t *testing.T) {
	t.Setenv("GH_PAT", "ghp_secret")

	path := writeConfig(t, `
github:
  token: ${GH_PAT}
keys:
  anthropic: ${UNSET_KEY_VAR}
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "ghp_secret", cfg.GitHub.Token)
	// Unset variables are left as-is rather than blanked.
	assert.Equal(t, "${UNSET_KEY_VAR}", cfg.Keys.Anthropic)
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("FOO", "bar")

	assert.Equal(t, "bar", expandEnvVars("${FOO}"))
	assert.Equal(t, "a-bar-b", expandEnvVars("a-${FOO}-b"))
	assert.Equal(t, "$FOO", expandEnvVars("$FOO"))
	assert.Equal(t, "${ UNPARSED }", expandEnvVars("${ UNPARSED }"))
}

func TestValidate_Defaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, Validate(&cfg))
}

func TestValidate_Issues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		path   string
	}{
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }, "server.port"},
		{"unknown bind mode", func(c *Config) { c.Server.Bind = "всюду" }, "server.bind"},
		{"custom bind without host", func(c *Config) { c.Server.Bind = "custom" }, "server.customBindHost"},
		{"unknown log level", func(c *Config) { c.Logging.Level = "verbose" }, "logging.level"},
		{"unknown console style", func(c *Config) { c.Logging.ConsoleStyle = "fancy" }, "logging.consoleStyle"},
		{"unknown fallback provider", func(c *Config) { c.Agents.FallbackProviders = []string{"openrouter"} }, "agents.fallbackProviders"},
		{"negative max duration", func(c *Config) { c.Sandbox.MaxDurationMinutes = -1 }, "sandbox.maxDurationMinutes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.mutate(&cfg)

			issues := Validate(&cfg)
			require.Len(t, issues, 1)
			assert.Equal(t, tt.path, issues[0].Path)
		})
	}
}
