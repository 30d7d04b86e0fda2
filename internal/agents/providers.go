package agents

import "strings"

// Provider identifiers for API-key checks.
const (
	ProviderAnthropic = "anthropic"
	ProviderAIGateway = "aigateway"
	ProviderGemini    = "gemini"
)

// DefaultFallbackProviders is the policy applied when an opencode model
// matches none of the known provider patterns. Both keys are treated as
// required. Overridable via config (agents.fallbackProviders).
var DefaultFallbackProviders = []string{ProviderAIGateway, ProviderAnthropic}

// RequiredProviders returns the API-key providers required to run the
// given agent/model pair, in resolution order.
//
// claude always needs the anthropic key and codex the aigateway key.
// opencode routes by model name: gemini models need the gemini key,
// Claude-family models the anthropic key, GPT models the aigateway key.
// Anything else falls back to the supplied policy (or
// DefaultFallbackProviders when fallback is empty).
func RequiredProviders(agent, model string, fallback []string) []string {
	switch agent {
	case AgentClaude:
		return []string{ProviderAnthropic}
	case AgentCodex:
		return []string{ProviderAIGateway}
	case AgentOpencode:
		m := strings.ToLower(model)
		switch {
		case strings.Contains(m, "gemini"):
			return []string{ProviderGemini}
		case strings.Contains(m, "claude"), strings.Contains(m, "sonnet"), strings.Contains(m, "opus"):
			return []string{ProviderAnthropic}
		case strings.Contains(m, "gpt"):
			return []string{ProviderAIGateway}
		default:
			if len(fallback) > 0 {
				out := make([]string, len(fallback))
				copy(out, fallback)
				return out
			}
			return append([]string(nil), DefaultFallbackProviders...)
		}
	}
	return nil
}
