// Package prefs persists user preferences across sessions: the last
// selected agent, the last selected model per agent, and the sandbox run
// options. The store is injected into the form so tests can run against
// the in-memory implementation.
package prefs

import "github.com/mojocode/mojocode/internal/domain"

// Store is the preference persistence interface. Every setter is applied
// immediately; there is no batching.
type Store interface {
	// LastAgent returns the last selected agent, if any was persisted.
	LastAgent() (string, bool)
	SetLastAgent(agent string) error

	// LastModel returns the last selected model for the given agent.
	LastModel(agent string) (string, bool)
	SetLastModel(agent, model string) error

	// Options returns the persisted sandbox run options.
	Options() (domain.RunOptions, bool)
	SetOptions(opts domain.RunOptions) error
}
