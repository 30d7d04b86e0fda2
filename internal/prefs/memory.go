package prefs

import (
	"sync"

	"github.com/mojocode/mojocode/internal/domain"
)

// Memory is an in-memory Store for tests and ephemeral sessions.
type Memory struct {
	mu        sync.Mutex
	agent     string
	hasAgent  bool
	models    map[string]string
	opts      domain.RunOptions
	hasOpts   bool
}

// NewMemory creates an empty in-memory preference store.
func NewMemory() *Memory {
	return &Memory{models: make(map[string]string)}
}

func (m *Memory) LastAgent() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.agent, m.hasAgent
}

func (m *Memory) SetLastAgent(agent string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.agent = agent
	m.hasAgent = true
	return nil
}

func (m *Memory) LastModel(agent string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	model, ok := m.models[agent]
	return model, ok
}

func (m *Memory) SetLastModel(agent, model string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.models[agent] = model
	return nil
}

func (m *Memory) Options() (domain.RunOptions, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.opts, m.hasOpts
}

func (m *Memory) SetOptions(opts domain.RunOptions) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.opts = opts
	m.hasOpts = true
	return nil
}
