// Package config loads and validates the MojoCode configuration file.
package config

import "fmt"

// ConfigError represents a configuration error.
type ConfigError struct {
	Message string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config: %s", e.Message)
}

// Defaults returns a Config with sensible defaults applied.
func Defaults() Config {
	return Config{
		Server: ServerConfig{
			Port: 18790,
			Bind: "loopback",
		},
		GitHub: GitHubConfig{
			BaseURL: "https://api.github.com",
		},
		Sandbox: SandboxConfig{
			InstallDependencies: true,
			MaxDurationMinutes:  30,
		},
		Logging: LoggingConfig{
			Level:        "info",
			ConsoleStyle: "pretty",
		},
	}
}
