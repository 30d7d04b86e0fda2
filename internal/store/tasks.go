package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/mojocode/mojocode/internal/domain"
)

// ErrTaskNotFound is returned when a task ID does not exist.
var ErrTaskNotFound = errors.New("task not found")

// CreateTask persists a submission payload as a queued task and returns
// the stored task.
func (p *Pool) CreateTask(ctx context.Context, payload domain.SubmitPayload) (domain.Task, error) {
	now := time.Now().UTC()
	task := domain.Task{
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

	_, err := p.pg.Exec(ctx, `
		INSERT INTO tasks (id, prompt, repo_url, selected_agent, selected_model,
			install_deps, max_duration, keep_alive, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		task.ID, task.Prompt, task.RepoURL, task.SelectedAgent, task.SelectedModel,
		task.Options.InstallDependencies, task.Options.MaxDurationMinutes,
		task.Options.KeepAlive, task.Status, task.CreatedAt, task.UpdatedAt,
	)
	if err != nil {
		return domain.Task{}, fmt.Errorf("inserting task: %w", err)
	}

	p.log.Info().
		Str("task", task.ID).
		Str("agent", task.SelectedAgent).
		Str("model", task.SelectedModel).
		Msg("task queued")
	return task, nil
}

// GetTask returns a task by ID.
func (p *Pool) GetTask(ctx context.Context, id string) (domain.Task, error) {
	var task domain.Task
	err := p.pg.QueryRow(ctx, `
		SELECT id, prompt, repo_url, selected_agent, selected_model,
			install_deps, max_duration, keep_alive, status, created_at, updated_at
		FROM tasks WHERE id = $1`, id,
	).Scan(
		&task.ID, &task.Prompt, &task.RepoURL, &task.SelectedAgent, &task.SelectedModel,
		&task.Options.InstallDependencies, &task.Options.MaxDurationMinutes,
		&task.Options.KeepAlive, &task.Status, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Task{}, ErrTaskNotFound
		}
		return domain.Task{}, fmt.Errorf("querying task: %w", err)
	}
	return task, nil
}

// ListTasks returns the most recent tasks, newest first.
func (p *Pool) ListTasks(ctx context.Context, limit int) ([]domain.Task, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := p.pg.Query(ctx, `
		SELECT id, prompt, repo_url, selected_agent, selected_model,
			install_deps, max_duration, keep_alive, status, created_at, updated_at
		FROM tasks ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying tasks: %w", err)
	}
	defer rows.Close()

	var tasks []domain.Task
	for rows.Next() {
		var task domain.Task
		if err := rows.Scan(
			&task.ID, &task.Prompt, &task.RepoURL, &task.SelectedAgent, &task.SelectedModel,
			&task.Options.InstallDependencies, &task.Options.MaxDurationMinutes,
			&task.Options.KeepAlive, &task.Status, &task.CreatedAt, &task.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning task: %w", err)
		}
		tasks = append(tasks, task)
	}
	return tasks, rows.Err()
}

// UpdateTaskStatus transitions a task to the given status.
func (p *Pool) UpdateTaskStatus(ctx context.Context, id, status string) error {
	tag, err := p.pg.Exec(ctx,
		`UPDATE tasks SET status = $1, updated_at = now() WHERE id = $2`,
		status, id,
	)
	if err != nil {
		return fmt.Errorf("updating task status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrTaskNotFound
	}
	return nil
}
