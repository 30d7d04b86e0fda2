// Package api is the typed HTTP client for the MojoCode backend
// endpoints the task submission form consumes.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mojocode/mojocode/internal/domain"
)

// Client talks to a MojoCode API server.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a client for the given base URL, e.g.
// "http://127.0.0.1:18790".
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

// ListRepos fetches the repository list for an owner via
// GET /api/github/repos?owner=<owner>.
func (c *Client) ListRepos(ctx context.Context, owner string) ([]domain.RepoReference, error) {
	endpoint := fmt.Sprintf("%s/api/github/repos?owner=%s", c.baseURL, url.QueryEscape(owner))

	var repos []domain.RepoReference
	if err := c.getJSON(ctx, endpoint, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

// Check queries GET /api/api-keys/check?agent=&model= for the
// agent/model pair.
func (c *Client) Check(ctx context.Context, agent, model string) (domain.KeyCheck, error) {
	endpoint := fmt.Sprintf("%s/api/api-keys/check?agent=%s&model=%s",
		c.baseURL, url.QueryEscape(agent), url.QueryEscape(model))

	var check domain.KeyCheck
	if err := c.getJSON(ctx, endpoint, &check); err != nil {
		return domain.KeyCheck{}, err
	}
	return check, nil
}

// SubmitTask posts a submission payload to POST /api/tasks and returns
// the created task.
func (c *Client) SubmitTask(ctx context.Context, payload domain.SubmitPayload) (domain.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/api/tasks", strings.NewReader(string(body)))
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return domain.Task{}, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.Task{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		return domain.Task{}, fmt.Errorf("API error (%d): %s", resp.StatusCode, string(respBody))
	}

	var task domain.Task
	if err := json.Unmarshal(respBody, &task); err != nil {
		return domain.Task{}, fmt.Errorf("failed to parse response: %w", err)
	}
	return task, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, target any) error {
	req, err := http.NewRequestWithContext(ctx, "GET", endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("API error (%d): %s", resp.StatusCode, string(body))
	}

	if err := json.Unmarshal(body, target); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
