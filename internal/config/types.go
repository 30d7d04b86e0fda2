package config

// Config is the root configuration for MojoCode.
type Config struct {
	Server   ServerConfig   `yaml:"server,omitempty"`
	Database DatabaseConfig `yaml:"database,omitempty"`
	GitHub   GitHubConfig   `yaml:"github,omitempty"`
	Agents   AgentsConfig   `yaml:"agents,omitempty"`
	Keys     KeysConfig     `yaml:"keys,omitempty"`
	Sandbox  SandboxConfig  `yaml:"sandbox,omitempty"`
	Logging  LoggingConfig  `yaml:"logging,omitempty"`
}

// ServerConfig controls the HTTP API server.
type ServerConfig struct {
	Port           int      `yaml:"port,omitempty"`
	Bind           string   `yaml:"bind,omitempty"` // "loopback" | "lan" | "custom"
	CustomBindHost string   `yaml:"customBindHost,omitempty"`
	AllowedOrigins []string `yaml:"allowedOrigins,omitempty"`
}

// DatabaseConfig points at the Postgres instance used for tasks.
// URL may be set here or via the DATABASE_URL environment variable;
// the environment wins.
type DatabaseConfig struct {
	URL string `yaml:"url,omitempty"`
}

// GitHubConfig configures the upstream GitHub API proxy.
type GitHubConfig struct {
	Token   string `yaml:"token,omitempty"` // supports ${VAR} expansion
	BaseURL string `yaml:"baseUrl,omitempty"`
}

// AgentsConfig carries catalog policy knobs.
type AgentsConfig struct {
	// FallbackProviders is used when an opencode model matches no known
	// provider pattern. Defaults to [aigateway, anthropic].
	FallbackProviders []string `yaml:"fallbackProviders,omitempty"`
}

// KeysConfig holds provider API keys consulted by the key-check
// endpoint. Values support ${VAR} expansion.
type KeysConfig struct {
	Anthropic string `yaml:"anthropic,omitempty"`
	AIGateway string `yaml:"aigateway,omitempty"`
	Gemini    string `yaml:"gemini,omitempty"`
}

// SandboxConfig provides the initial run-option values for new forms.
type SandboxConfig struct {
	InstallDependencies bool `yaml:"installDependencies,omitempty"`
	MaxDurationMinutes  int  `yaml:"maxDurationMinutes,omitempty"`
	KeepAlive           bool `yaml:"keepAlive,omitempty"`
}

// LoggingConfig controls logging behavior.
type LoggingConfig struct {
	Level        string `yaml:"level,omitempty"`        // "silent" | "fatal" | "error" | "warn" | "info" | "debug" | "trace"
	ConsoleStyle string `yaml:"consoleStyle,omitempty"` // "pretty" | "json"
}
