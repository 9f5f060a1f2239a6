package usecase

import "context"

// CreateTaskInput defines the data required to create a task. The owner is
// never taken from the client; it is stamped from the authenticated principal.
type CreateTaskInput struct {
	Title string
}

// UpdateTaskInput defines the full replacement state for a task.
type UpdateTaskInput struct {
	Title     string
	Completed bool
}

// TaskOutput is the external representation of a task.
type TaskOutput struct {
	ID        int64
	Title     string
	Completed bool
	Owner     string
}

// TaskUsecase defines owner-scoped task operations. Every method takes the
// authenticated principal; the id-addressed ones enforce ownership after
// confirming existence, so a non-owner gets Forbidden rather than NotFound.
type TaskUsecase interface {
	Create(ctx context.Context, principal string, input *CreateTaskInput) (*TaskOutput, error)
	List(ctx context.Context, principal string) ([]*TaskOutput, error)
	Get(ctx context.Context, principal string, id int64) (*TaskOutput, error)
	Update(ctx context.Context, principal string, id int64, input *UpdateTaskInput) (*TaskOutput, error)
	Delete(ctx context.Context, principal string, id int64) error
}
