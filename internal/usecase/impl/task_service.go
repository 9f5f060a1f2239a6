package impl

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"taskhub/internal/domain/entity"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
	"taskhub/internal/errors"
	"taskhub/internal/usecase"
)

// taskService implements the TaskUsecase interface. It is the ownership
// guard: every id-addressed operation resolves the task first, then compares
// the owner against the caller before touching anything.
type taskService struct {
	taskRepo repository.TaskRepository
	logger   *slog.Logger
}

// TaskServiceParams holds dependencies for taskService, injected by Fx.
type TaskServiceParams struct {
	fx.In

	TaskRepo repository.TaskRepository
	Logger   *slog.Logger
}

// NewTaskService is the constructor for taskService.
func NewTaskService(params TaskServiceParams) usecase.TaskUsecase {
	return &taskService{
		taskRepo: params.TaskRepo,
		logger:   params.Logger,
	}
}

// Create stamps the authenticated principal as owner, ignoring anything the
// client may have supplied, and stores the task as not completed.
func (srv *taskService) Create(ctx context.Context, principal string, input *usecase.CreateTaskInput) (*usecase.TaskOutput, error) {
	task := &entity.Task{
		Title:     input.Title,
		Completed: false,
		Owner:     principal,
	}

	if err := srv.taskRepo.Create(ctx, task); err != nil {
		return nil, errors.Wrap(err, "failed to create task")
	}

	srv.logger.Debug("Task created", slog.Int64("taskID", task.ID), slog.String("owner", principal))

	return toTaskOutput(task), nil
}

// List returns only the caller's own tasks.
func (srv *taskService) List(ctx context.Context, principal string) ([]*usecase.TaskOutput, error) {
	tasks, err := srv.taskRepo.FindByOwner(ctx, principal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list tasks")
	}

	out := make([]*usecase.TaskOutput, 0, len(tasks))
	for _, task := range tasks {
		out = append(out, toTaskOutput(task))
	}

	return out, nil
}

// Get returns the addressed task after the ownership check.
func (srv *taskService) Get(ctx context.Context, principal string, id int64) (*usecase.TaskOutput, error) {
	task, err := srv.findOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	return toTaskOutput(task), nil
}

// Update replaces title and completed of an owned task.
func (srv *taskService) Update(ctx context.Context, principal string, id int64, input *usecase.UpdateTaskInput) (*usecase.TaskOutput, error) {
	task, err := srv.findOwned(ctx, principal, id)
	if err != nil {
		return nil, err
	}

	task.Title = input.Title
	task.Completed = input.Completed

	if err := srv.taskRepo.Update(ctx, task); err != nil {
		return nil, errors.Wrap(err, "failed to update task")
	}

	return toTaskOutput(task), nil
}

// Delete removes an owned task.
func (srv *taskService) Delete(ctx context.Context, principal string, id int64) error {
	if _, err := srv.findOwned(ctx, principal, id); err != nil {
		return err
	}

	if err := srv.taskRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrTaskNotFound) {
			return errors.WithStack(domainerrors.ErrTaskNotFound)
		}

		return errors.Wrap(err, "failed to delete task")
	}

	srv.logger.Debug("Task deleted", slog.Int64("taskID", id), slog.String("owner", principal))

	return nil
}

// findOwned resolves the task and enforces ownership. Existence is checked
// first, ownership second: a non-owner gets Forbidden, not NotFound.
func (srv *taskService) findOwned(ctx context.Context, principal string, id int64) (*entity.Task, error) {
	task, err := srv.taskRepo.FindByID(ctx, id)
	if errors.Is(err, repository.ErrTaskNotFound) {
		return nil, errors.WithStack(domainerrors.ErrTaskNotFound)
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to fetch task")
	}

	if task.Owner != principal {
		srv.logger.Warn("Ownership check failed",
			slog.Int64("taskID", id),
			slog.String("principal", principal),
		)

		return nil, errors.WithStack(domainerrors.ErrTaskForbidden)
	}

	return task, nil
}

func toTaskOutput(task *entity.Task) *usecase.TaskOutput {
	return &usecase.TaskOutput{
		ID:        task.ID,
		Title:     task.Title,
		Completed: task.Completed,
		Owner:     task.Owner,
	}
}
