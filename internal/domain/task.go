// Package domain defines the core value types shared across MojoCode.
package domain

import "time"

// RunOptions are the sandbox options attached to a task submission.
type RunOptions struct {
	InstallDependencies bool `json:"installDependencies"`
	MaxDurationMinutes  int  `json:"maxDuration"`
	KeepAlive           bool `json:"keepAlive"`
}

// TaskDraft is the in-progress form state for a task submission.
// It lives only for the lifetime of one form instance and is consumed
// exactly once at submit time.
type TaskDraft struct {
	PromptText    string
	SelectedAgent string
	SelectedModel string
	Options       RunOptions
}

// SubmitPayload is the normalized submission handed to the form's caller.
type SubmitPayload struct {
	Prompt              string `json:"prompt"`
	RepoURL             string `json:"repoUrl"`
	SelectedAgent       string `json:"selectedAgent"`
	SelectedModel       string `json:"selectedModel"`
	InstallDependencies bool   `json:"installDependencies"`
	MaxDuration         int    `json:"maxDuration"`
	KeepAlive           bool   `json:"keepAlive"`
}

// Task statuses as persisted by the server.
const (
	TaskStatusQueued  = "queued"
	TaskStatusRunning = "running"
	TaskStatusDone    = "done"
	TaskStatusFailed  = "failed"
)

// Task is a persisted task submission awaiting (or undergoing) execution
// in the sandbox backend.
type Task struct {
	ID            string     `json:"id"`
	Prompt        string     `json:"prompt"`
	RepoURL       string     `json:"repoUrl"`
	SelectedAgent string     `json:"selectedAgent"`
	SelectedModel string     `json:"selectedModel"`
	Options       RunOptions `json:"options"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}
