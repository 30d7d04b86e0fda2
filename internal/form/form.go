// Package form implements the client-side state machine behind the task
// submission form: agent/model selection with persistence, repository
// list caching, pre-submit API-key validation, and payload assembly.
package form

import (
	"context"
	"fmt"
	"strings"

	"github.com/mojocode/mojocode/internal/agents"
	"github.com/mojocode/mojocode/internal/domain"
	"github.com/mojocode/mojocode/internal/logging"
	"github.com/mojocode/mojocode/internal/prefs"
)

// State is the form lifecycle state.
type State int

const (
	// StateIdle means the form is editable.
	StateIdle State = iota
	// StateValidating means the pre-submit API-key check is in flight.
	StateValidating
	// StateSubmitted is terminal for this form instance; control has
	// returned to the caller.
	StateSubmitted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateValidating:
		return "validating"
	case StateSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// RepoLister fetches the repository list for an owner.
type RepoLister interface {
	ListRepos(ctx context.Context, owner string) ([]domain.RepoReference, error)
}

// KeyChecker checks whether the API key required for an agent/model pair
// is available.
type KeyChecker interface {
	Check(ctx context.Context, agent, model string) (domain.KeyCheck, error)
}

// MissingKeyError blocks submission when the required provider key is
// absent. Provider is the human-readable provider name to surface.
type MissingKeyError struct {
	Provider string
	Agent    string
}

func (e *MissingKeyError) Error() string {
	return fmt.Sprintf("no %s API key configured for agent %s", e.Provider, e.Agent)
}

// Deps are the collaborators injected into a form instance.
type Deps struct {
	Prefs prefs.Store
	Repos RepoLister
	Keys  KeyChecker
	// OnSubmit receives the normalized payload exactly once, at
	// successful submission.
	OnSubmit func(domain.SubmitPayload)
	Log      *logging.Logger
}

// Params are the URL query parameters the form honours at mount.
type Params struct {
	Agent string
	Model string
}

// Form owns the task submission state for one mount. Handlers are
// event-driven and never run concurrently against one instance, so the
// form carries no locking.
type Form struct {
	deps  Deps
	state State
	draft domain.TaskDraft

	owner     string
	repoName  string
	repoCache map[string][]domain.RepoReference

	log *logging.Logger
}

// New creates a form, resolving the initial agent and model selection.
//
// Agent precedence: URL parameter (if it names a known agent), then the
// persisted last-selected agent, then the fixed default. Model
// precedence: URL parameter if valid for the resolved agent, then the
// persisted last-selected model for that agent if still valid, then the
// agent's default model. Run options are seeded from the caller-supplied
// initial values.
func New(deps Deps, params Params, initial domain.RunOptions) *Form {
	log := deps.Log
	if log == nil {
		log = logging.New(nil, "silent")
	}

	agent := agents.DefaultAgent
	if agents.IsKnown(params.Agent) {
		agent = params.Agent
	} else if persisted, ok := deps.Prefs.LastAgent(); ok && agents.IsKnown(persisted) {
		agent = persisted
	}

	persistedModel, _ := deps.Prefs.LastModel(agent)
	model := agents.ResolveModel(agent, params.Model, persistedModel)

	return &Form{
		deps:  deps,
		state: StateIdle,
		draft: domain.TaskDraft{
			SelectedAgent: agent,
			SelectedModel: model,
			Options:       initial,
		},
		repoCache: make(map[string][]domain.RepoReference),
		log:       log.Sub("form"),
	}
}

// State returns the current lifecycle state.
func (f *Form) State() State { return f.state }

// Draft returns a snapshot of the current draft.
func (f *Form) Draft() domain.TaskDraft { return f.draft }

// SetPrompt updates the prompt text. Not persisted.
func (f *Form) SetPrompt(text string) {
	f.draft.PromptText = text
}

// SelectAgent switches the selected agent and re-resolves the model:
// the agent's persisted model if still valid, else its default. The new
// agent selection is persisted immediately. Unknown agents are ignored.
func (f *Form) SelectAgent(id string) {
	if !agents.IsKnown(id) {
		f.log.Warn().Str("agent", id).Msg("ignoring unknown agent")
		return
	}
	f.draft.SelectedAgent = id

	persisted, _ := f.deps.Prefs.LastModel(id)
	f.draft.SelectedModel = agents.ResolveModel(id, "", persisted)

	if err := f.deps.Prefs.SetLastAgent(id); err != nil {
		f.log.Error().Err(err).Msg("persisting agent selection")
	}
}

// SelectModel switches the selected model and persists it as the last
// selection for the current agent. Models outside the agent's set are
// ignored.
func (f *Form) SelectModel(model string) {
	if !agents.ValidModel(f.draft.SelectedAgent, model) {
		f.log.Warn().
			Str("agent", f.draft.SelectedAgent).
			Str("model", model).
			Msg("ignoring model outside agent's set")
		return
	}
	f.draft.SelectedModel = model
	if err := f.deps.Prefs.SetLastModel(f.draft.SelectedAgent, model); err != nil {
		f.log.Error().Err(err).Msg("persisting model selection")
	}
}

// SetInstallDependencies updates and persists the install-dependencies
// option.
func (f *Form) SetInstallDependencies(v bool) {
	f.draft.Options.InstallDependencies = v
	f.persistOptions()
}

// SetMaxDuration updates and persists the max-duration option.
func (f *Form) SetMaxDuration(minutes int) {
	f.draft.Options.MaxDurationMinutes = minutes
	f.persistOptions()
}

// SetKeepAlive updates and persists the keep-alive option.
func (f *Form) SetKeepAlive(v bool) {
	f.draft.Options.KeepAlive = v
	f.persistOptions()
}

func (f *Form) persistOptions() {
	if err := f.deps.Prefs.SetOptions(f.draft.Options); err != nil {
		f.log.Error().Err(err).Msg("persisting run options")
	}
}

// SetOwner reacts to a change of the selected repository owner. An empty
// owner clears the visible list. A non-empty cached list for the owner
// suppresses the fetch. Otherwise one request is issued; failures are
// logged and leave the previous cache in place. A response arriving
// after the owner changed again is discarded.
func (f *Form) SetOwner(ctx context.Context, owner string) {
	f.owner = owner
	f.repoName = ""
	if owner == "" {
		return
	}
	if len(f.repoCache[owner]) > 0 {
		return
	}

	list, err := f.deps.Repos.ListRepos(ctx, owner)
	if err != nil {
		f.log.Warn().Err(err).Str("owner", owner).Msg("repository list fetch failed")
		return
	}
	if f.owner != owner {
		f.log.Debug().Str("owner", owner).Msg("discarding stale repository list")
		return
	}
	f.repoCache[owner] = list
}

// SelectRepo records the chosen repository name for the current owner.
func (f *Form) SelectRepo(name string) {
	f.repoName = name
}

// Repos returns the cached repository list for the current owner.
func (f *Form) Repos() []domain.RepoReference {
	if f.owner == "" {
		return nil
	}
	return f.repoCache[f.owner]
}

// EnterSubmits reports whether an Enter keypress in the prompt field
// should submit the form. Shift+Enter always inserts a newline, and so
// does plain Enter on narrow (touch) viewports.
func EnterSubmits(shift, narrowViewport bool) bool {
	return !shift && !narrowViewport
}

// Submit runs the submission sequence. An empty prompt (after trimming)
// is a silent no-op. With no owner or repository selected the payload is
// forwarded with an empty clone URL so the caller can branch into its
// sign-in flow. Otherwise the chosen repository's clone URL is looked up
// from the cache and the API-key check runs first: a definitive "no key"
// answer aborts with *MissingKeyError, while a failed check request is
// treated as unauthenticated and submission proceeds.
func (f *Form) Submit(ctx context.Context) error {
	if f.state != StateIdle {
		f.log.Debug().Stringer("state", f.state).Msg("ignoring submit outside idle state")
		return nil
	}

	prompt := strings.TrimSpace(f.draft.PromptText)
	if prompt == "" {
		return nil
	}

	cloneURL := ""
	if f.owner != "" && f.repoName != "" {
		for _, repo := range f.repoCache[f.owner] {
			if repo.Name == f.repoName {
				cloneURL = repo.CloneURL
				break
			}
		}
	}

	if cloneURL != "" {
		f.state = StateValidating
		check, err := f.deps.Keys.Check(ctx, f.draft.SelectedAgent, f.draft.SelectedModel)
		switch {
		case err != nil:
			// Fail open: an unreachable check endpoint means an
			// unauthenticated state for the parent to handle, not a
			// hard failure.
			f.log.Warn().Err(err).Msg("api key check failed, proceeding")
		case !check.HasKey:
			f.state = StateIdle
			return &MissingKeyError{Provider: check.Provider, Agent: f.draft.SelectedAgent}
		}
	}

	payload := domain.SubmitPayload{
		Prompt:              prompt,
		RepoURL:             cloneURL,
		SelectedAgent:       f.draft.SelectedAgent,
		SelectedModel:       f.draft.SelectedModel,
		InstallDependencies: f.draft.Options.InstallDependencies,
		MaxDuration:         f.draft.Options.MaxDurationMinutes,
		KeepAlive:           f.draft.Options.KeepAlive,
	}

	f.state = StateSubmitted
	if f.deps.OnSubmit != nil {
		f.deps.OnSubmit(payload)
	}
	return nil
}
