package repository

import (
	"context"

	"taskhub/internal/domain/entity"
	"taskhub/internal/errors"
)

// ErrTaskNotFound is returned when no task matches the addressed id.
var ErrTaskNotFound = errors.New("task not found")

// TaskRepository is the task store contract. Ownership is not interpreted
// here; the use case layer checks it after fetching.
type TaskRepository interface {
	// Create persists a new task and fills in the generated id.
	Create(ctx context.Context, task *entity.Task) error

	// FindByID retrieves a task by id regardless of owner.
	// Returns ErrTaskNotFound when the id is unknown.
	FindByID(ctx context.Context, id int64) (*entity.Task, error)

	// FindByOwner lists all tasks owned by the given principal.
	FindByOwner(ctx context.Context, owner string) ([]*entity.Task, error)

	// Update persists changes to an existing task.
	Update(ctx context.Context, task *entity.Task) error

	// Delete removes a task by id.
	// Returns ErrTaskNotFound when the id is unknown.
	Delete(ctx context.Context, id int64) error
}
