package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojocode/mojocode/internal/domain"
)

func TestListRepos(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/github/repos", r.URL.Path)
		assert.Equal(t, "octo cat", r.URL.Query().Get("owner"))
		json.NewEncoder(w).Encode([]domain.RepoReference{{Name: "webapp", FullName: "octocat/webapp"}})
	}))
	defer ts.Close()

	repos, err := NewClient(ts.URL).ListRepos(context.Background(), "octo cat")
	require.NoError(t, err)
	require.Len(t, repos, 1)
	assert.Equal(t, "octocat/webapp", repos[0].FullName)
}

func TestListRepos_ServerError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"boom"}`, http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).ListRepos(context.Background(), "octocat")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestCheck(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/api-keys/check", r.URL.Path)
		assert.Equal(t, "opencode", r.URL.Query().Get("agent"))
		assert.Equal(t, "gemini-3-pro", r.URL.Query().Get("model"))
		json.NewEncoder(w).Encode(domain.KeyCheck{HasKey: false, Provider: "gemini", AgentName: "opencode"})
	}))
	defer ts.Close()

	check, err := NewClient(ts.URL).Check(context.Background(), "opencode", "gemini-3-pro")
	require.NoError(t, err)
	assert.False(t, check.HasKey)
	assert.Equal(t, "gemini", check.Provider)
}

func TestCheck_Unreachable(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	ts.Close()

	_, err := NewClient(ts.URL).Check(context.Background(), "codex", "gpt-5.1-codex")
	assert.Error(t, err)
}

func TestSubmitTask(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/tasks", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var payload domain.SubmitPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		assert.Equal(t, "fix login", payload.Prompt)

		w.WriteHeader(http.StatusCreated)
		json.NewEncoder(w).Encode(domain.Task{ID: "t-1", Prompt: payload.Prompt, Status: domain.TaskStatusQueued})
	}))
	defer ts.Close()

	task, err := NewClient(ts.URL).SubmitTask(context.Background(), domain.SubmitPayload{
		Prompt:        "fix login",
		SelectedAgent: "codex",
		SelectedModel: "gpt-5.1-codex",
	})
	require.NoError(t, err)
	assert.Equal(t, "t-1", task.ID)
	assert.Equal(t, domain.TaskStatusQueued, task.Status)
}

func TestSubmitTask_RejectedPayload(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"prompt is required"}`, http.StatusBadRequest)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL).SubmitTask(context.Background(), domain.SubmitPayload{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "prompt is required")
}

func TestNewClient_TrimsTrailingSlash(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/github/repos", r.URL.Path)
		json.NewEncoder(w).Encode([]domain.RepoReference{})
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL + "/").ListRepos(context.Background(), "octocat")
	assert.NoError(t, err)
}
