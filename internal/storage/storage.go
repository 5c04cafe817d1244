// Package storage defines the persistence interface and its implementations.
package storage

import (
	"context"
	"errors"
	"time"

	"social_analytics/internal/model"
)

// ErrTaskNotFound is returned when a referenced task does not exist.
var ErrTaskNotFound = errors.New("task not found")

// Storage is the interface for all persistence operations.
type Storage interface {
	CreateTask(ctx context.Context, task *model.Task) error
	GetTask(ctx context.Context, id int64) (*model.Task, error)
	ListTasks(ctx context.Context) ([]model.Task, error)
	UpdateTaskStatus(ctx context.Context, id int64, status model.TaskStatus, completedAt *time.Time) error

	CreatePost(ctx context.Context, post *model.Post) error
	ListPosts(ctx context.Context, taskID int64) ([]model.Post, error)

	Close() error
}
