package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mojocode/mojocode/internal/agents"
	"github.com/mojocode/mojocode/internal/domain"
)

// registerRoutes sets up all HTTP routes on the server mux.
func (s *Server) registerRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/github/repos", s.handleListRepos)
	mux.HandleFunc("GET /api/api-keys/check", s.handleKeyCheck)
	mux.HandleFunc("POST /api/tasks", s.handleSubmitTask)
	mux.HandleFunc("GET /api/tasks", s.handleListTasks)
	mux.HandleFunc("GET /api/agents", s.handleListAgents)
	mux.HandleFunc("GET /ws", s.hub.HandleWebSocket)

	// Catch-all for unknown routes
	mux.HandleFunc("/", handleNotFound)
}

// HealthResponse is returned by the health endpoint.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Uptime  string `json:"uptime,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Version: s.version}
	if !s.startedAt.IsZero() {
		resp.Uptime = time.Since(s.startedAt).Round(time.Second).String()
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleListRepos serves the per-owner repository list, cached for the
// process lifetime. Fetch failures fall back to the previous cache when
// one exists.
func (s *Server) handleListRepos(w http.ResponseWriter, r *http.Request) {
	owner := r.URL.Query().Get("owner")
	if owner == "" {
		writeError(w, http.StatusBadRequest, "owner is required")
		return
	}
	if s.repos == nil {
		writeError(w, http.StatusServiceUnavailable, "repository listing is not configured")
		return
	}

	s.repoMu.RLock()
	cached, ok := s.repoCache[owner]
	s.repoMu.RUnlock()
	if ok && len(cached) > 0 {
		writeJSON(w, http.StatusOK, cached)
		return
	}

	repos, err := s.repos.ListRepos(r.Context(), owner)
	if err != nil {
		s.log.Warn().Err(err).Str("owner", owner).Msg("repository fetch failed")
		if ok {
			writeJSON(w, http.StatusOK, cached)
			return
		}
		writeError(w, http.StatusBadGateway, "failed to list repositories")
		return
	}

	s.repoMu.Lock()
	s.repoCache[owner] = repos
	s.repoMu.Unlock()

	writeJSON(w, http.StatusOK, repos)
}

// handleKeyCheck reports whether the API key(s) required for the given
// agent/model pair are configured. When any is missing, hasKey is false
// and provider names the first missing one.
func (s *Server) handleKeyCheck(w http.ResponseWriter, r *http.Request) {
	agent := r.URL.Query().Get("agent")
	model := r.URL.Query().Get("model")

	def, ok := agents.Lookup(agent)
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown agent: "+agent)
		return
	}

	required := agents.RequiredProviders(agent, model, s.cfg.Agents.FallbackProviders)

	check := domain.KeyCheck{HasKey: true, AgentName: def.Label}
	if len(required) > 0 {
		check.Provider = required[0]
	}
	for _, provider := range required {
		if !s.hasProviderKey(provider) {
			check.HasKey = false
			check.Provider = provider
			break
		}
	}

	writeJSON(w, http.StatusOK, check)
}

func (s *Server) hasProviderKey(provider string) bool {
	switch provider {
	case agents.ProviderAnthropic:
		return s.cfg.Keys.Anthropic != ""
	case agents.ProviderAIGateway:
		return s.cfg.Keys.AIGateway != ""
	case agents.ProviderGemini:
		return s.cfg.Keys.Gemini != ""
	}
	return false
}

// handleSubmitTask validates a submission payload, persists it when a
// store is configured, and broadcasts a task event.
func (s *Server) handleSubmitTask(w http.ResponseWriter, r *http.Request) {
	var payload domain.SubmitPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	payload.Prompt = strings.TrimSpace(payload.Prompt)
	if payload.Prompt == "" {
		writeError(w, http.StatusBadRequest, "prompt is required")
		return
	}
	if !agents.IsKnown(payload.SelectedAgent) {
		writeError(w, http.StatusBadRequest, "unknown agent: "+payload.SelectedAgent)
		return
	}
	if !agents.ValidModel(payload.SelectedAgent, payload.SelectedModel) {
		writeError(w, http.StatusBadRequest, "model not valid for agent: "+payload.SelectedModel)
		return
	}

	var task domain.Task
	if s.pool != nil {
		created, err := s.pool.CreateTask(r.Context(), payload)
		if err != nil {
			s.log.Error().Err(err).Msg("persisting task")
			writeError(w, http.StatusInternalServerError, "failed to store task")
			return
		}
		task = created
	} else {
		now := time.Now().UTC()
		task = domain.Task{
			ID:            uuid.New().String(),
			Prompt:        payload.Prompt,
			RepoURL:       payload.RepoURL,
			SelectedAgent: payload.SelectedAgent,
			SelectedModel: payload.SelectedModel,
			Options: domain.RunOptions{
				InstallDependencies: payload.InstallDependencies,
				MaxDurationMinutes:  payload.MaxDuration,
				KeepAlive:           payload.KeepAlive,
			},
			Status:    domain.TaskStatusQueued,
			CreatedAt: now,
			UpdatedAt: now,
		}
		s.log.Info().Str("task", task.ID).Msg("task accepted without store")
	}

	s.hub.Broadcast(TaskEvent{Type: "task.updated", Task: task})
	writeJSON(w, http.StatusCreated, task)
}

func (s *Server) handleListTasks(w http.ResponseWriter, r *http.Request) {
	if s.pool == nil {
		writeJSON(w, http.StatusOK, []domain.Task{})
		return
	}
	tasks, err := s.pool.ListTasks(r.Context(), 50)
	if err != nil {
		s.log.Error().Err(err).Msg("listing tasks")
		writeError(w, http.StatusInternalServerError, "failed to list tasks")
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	writeJSON(w, http.StatusOK, tasks)
}

func (s *Server) handleListAgents(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, agents.All())
}

// handleNotFound returns a 404 for unknown routes.
func handleNotFound(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	json.NewEncoder(w).Encode(map[string]string{
		"error": "not found",
		"path":  r.URL.Path,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
