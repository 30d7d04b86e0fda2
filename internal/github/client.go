// Package github lists repositories for an owner via the GitHub REST
// API. Used by the server to back the /api/github/repos endpoint.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	"github.com/mojocode/mojocode/internal/domain"
	"github.com/mojocode/mojocode/internal/logging"
)

// Client fetches repository lists from the GitHub REST API.
type Client struct {
	baseURL string
	client  *http.Client
	log     *logging.Logger
}

// NewClient creates a GitHub client. When token is non-empty, requests
// are authenticated via an oauth2 static token source, which also lets
// the listing include private repositories.
func NewClient(baseURL, token string, log *logging.Logger) *Client {
	httpClient := &http.Client{Timeout: 30 * time.Second}
	if token != "" {
		src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		httpClient = oauth2.NewClient(context.Background(), src)
		httpClient.Timeout = 30 * time.Second
	}
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  httpClient,
		log:     log.Sub("github"),
	}
}

// ghRepo is the subset of the GitHub repository object we map.
type ghRepo struct {
	Name        string `json:"name"`
	FullName    string `json:"full_name"`
	Description string `json:"description"`
	Private     bool   `json:"private"`
	CloneURL    string `json:"clone_url"`
	Language    string `json:"language"`
}

// ListRepos returns the owner's repositories, most recently updated
// first.
func (c *Client) ListRepos(ctx context.Context, owner string) ([]domain.RepoReference, error) {
	if owner == "" {
		return nil, fmt.Errorf("owner is required")
	}

	endpoint := fmt.Sprintf("%s/users/%s/repos?per_page=100&sort=updated",
		c.baseURL, url.PathEscape(owner))

	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github API error (%d): %s", resp.StatusCode, string(body))
	}

	var raw []ghRepo
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	repos := make([]domain.RepoReference, 0, len(raw))
	for _, r := range raw {
		repos = append(repos, domain.RepoReference{
			Name:            r.Name,
			FullName:        r.FullName,
			Description:     r.Description,
			Private:         r.Private,
			CloneURL:        r.CloneURL,
			PrimaryLanguage: r.Language,
		})
	}

	c.log.Debug().Str("owner", owner).Int("count", len(repos)).Msg("listed repositories")
	return repos, nil
}
