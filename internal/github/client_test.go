package github

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mojocode/mojocode/internal/logging"
)

func testLog() *logging.Logger {
	return logging.New(nil, "silent")
}

func TestListRepos_MapsFields(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/users/octocat/repos", r.URL.Path)
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))
		assert.Equal(t, "updated", r.URL.Query().Get("sort"))
		assert.Equal(t, "application/vnd.github+json", r.Header.Get("Accept"))

		w.Write([]byte(`[
			{
				"name": "webapp",
				"full_name": "octocat/webapp",
				"description": "the web app",
				"private": true,
				"clone_url": "https://github.com/octocat/webapp.git",
				"language": "TypeScript"
			}
		]`))
	}))
	defer ts.Close()

	repos, err := NewClient(ts.URL, "", testLog()).ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
	require.Len(t, repos, 1)

	repo := repos[0]
	assert.Equal(t, "webapp", repo.Name)
	assert.Equal(t, "octocat/webapp", repo.FullName)
	assert.Equal(t, "the web app", repo.Description)
	assert.True(t, repo.Private)
	assert.Equal(t, "https://github.com/octocat/webapp.git", repo.CloneURL)
	assert.Equal(t, "TypeScript", repo.PrimaryLanguage)
}

func TestListRepos_SendsToken(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer ghp_test", r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "ghp_test", testLog()).ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestListRepos_NoTokenNoAuthHeader(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		w.Write([]byte(`[]`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "", testLog()).ListRepos(context.Background(), "octocat")
	require.NoError(t, err)
}

func TestListRepos_EmptyOwner(t *testing.T) {
	_, err := NewClient("https://api.github.com", "", testLog()).ListRepos(context.Background(), "")
	assert.Error(t, err)
}

func TestListRepos_UpstreamError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"Not Found"}`, http.StatusNotFound)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "", testLog()).ListRepos(context.Background(), "ghost")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "404")
}

func TestListRepos_MalformedResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, "", testLog()).ListRepos(context.Background(), "octocat")
	assert.Error(t, err)
}
