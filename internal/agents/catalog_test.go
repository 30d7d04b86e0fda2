package agents

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLookup(t *testing.T) {
	def, ok := Lookup(AgentClaude)
	require.True(t, ok)
	assert.Equal(t, "Claude Code", def.Label)
	assert.Contains(t, def.Models, def.DefaultModel)

	_, ok = Lookup("cursor")
	assert.False(t, ok)
}

func TestAll_ReturnsCopy(t *testing.T) {
	first := All()
	first[0].ID = "mutated"

	assert.Equal(t, AgentCodex, All()[0].ID)
}

func TestCatalog_DefaultsAreValid(t *testing.T) {
	for _, def := range All() {
		assert.True(t, ValidModel(def.ID, def.DefaultModel), "agent %s", def.ID)
		assert.NotEmpty(t, def.Label, "agent %s", def.ID)
		assert.NotEmpty(t, def.Models, "agent %s", def.ID)
	}
}

func TestValidModel(t *testing.T) {
	assert.True(t, ValidModel(AgentCodex, "gpt-5.1-codex-mini"))
	assert.False(t, ValidModel(AgentCodex, "claude-opus-4-5"))
	assert.False(t, ValidModel("cursor", "gpt-5.1"))
	assert.False(t, ValidModel(AgentCodex, ""))
}

func TestDefaultModel(t *testing.T) {
	assert.Equal(t, "gpt-5.1-codex", DefaultModel(AgentCodex))
	assert.Equal(t, "claude-sonnet-4-5", DefaultModel(AgentClaude))
	assert.Equal(t, "claude-sonnet-4-5", DefaultModel(AgentOpencode))
	assert.Equal(t, "", DefaultModel("cursor"))
}

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name      string
		agent     string
		candidate string
		persisted string
		expected  string
	}{
		{"candidate wins when valid", AgentCodex, "gpt-5.1", "gpt-5.1-codex-mini", "gpt-5.1"},
		{"invalid candidate falls to persisted", AgentCodex, "claude-opus-4-5", "gpt-5.1-codex-mini", "gpt-5.1-codex-mini"},
		{"invalid persisted falls to default", AgentCodex, "", "davinci-003", "gpt-5.1-codex"},
		{"empty everything yields default", AgentClaude, "", "", "claude-sonnet-4-5"},
		{"model valid for other agent rejected", AgentClaude, "gpt-5.1", "", "claude-sonnet-4-5"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveModel(tt.agent, tt.candidate, tt.persisted))
		})
	}
}
