// Package agents defines the static catalog of coding agents a task can
// run under, the models each agent supports, and the API-key providers
// a given agent/model pair requires.
package agents

// Agent identifiers.
const (
	AgentCodex    = "codex"
	AgentClaude   = "claude"
	AgentOpencode = "opencode"
)

// DefaultAgent is used when neither a URL parameter nor a persisted
// preference names a known agent.
const DefaultAgent = AgentCodex

// Definition describes one agent in the catalog.
type Definition struct {
	ID           string   `json:"id"`
	Label        string   `json:"label"`
	Icon         string   `json:"icon"`
	Models       []string `json:"models"`
	DefaultModel string   `json:"defaultModel"`
}

// catalog is defined at process start and never mutated.
var catalog = []Definition{
	{
		ID:           AgentCodex,
		Label:        "Codex",
		Icon:         "openai",
		Models:       []string{"gpt-5.1-codex", "gpt-5.1-codex-mini", "gpt-5.1"},
		DefaultModel: "gpt-5.1-codex",
	},
	{
		ID:           AgentClaude,
		Label:        "Claude Code",
		Icon:         "anthropic",
		Models:       []string{"claude-sonnet-4-5", "claude-opus-4-5", "claude-haiku-4-5"},
		DefaultModel: "claude-sonnet-4-5",
	},
	{
		ID:           AgentOpencode,
		Label:        "opencode",
		Icon:         "opencode",
		Models:       []string{"claude-sonnet-4-5", "gpt-5.1", "gemini-3-pro", "big-pickle"},
		DefaultModel: "claude-sonnet-4-5",
	},
}

// All returns every agent definition in catalog order.
func All() []Definition {
	out := make([]Definition, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the definition for an agent ID.
func Lookup(id string) (Definition, bool) {
	for _, def := range catalog {
		if def.ID == id {
			return def, true
		}
	}
	return Definition{}, false
}

// IsKnown reports whether the ID names a catalog agent.
func IsKnown(id string) bool {
	_, ok := Lookup(id)
	return ok
}

// ValidModel reports whether model is in the agent's model set.
func ValidModel(agent, model string) bool {
	def, ok := Lookup(agent)
	if !ok {
		return false
	}
	for _, m := range def.Models {
		if m == model {
			return true
		}
	}
	return false
}

// DefaultModel returns the agent's default model, or "" for an unknown
// agent.
func DefaultModel(agent string) string {
	def, ok := Lookup(agent)
	if !ok {
		return ""
	}
	return def.DefaultModel
}

// ResolveModel applies the model-selection precedence for an agent:
// candidate if valid, else persisted if still valid, else the agent's
// default model.
func ResolveModel(agent, candidate, persisted string) string {
	if ValidModel(agent, candidate) {
		return candidate
	}
	if ValidModel(agent, persisted) {
		return persisted
	}
	return DefaultModel(agent)
}
