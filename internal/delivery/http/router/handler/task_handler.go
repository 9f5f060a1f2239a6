package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	deliverycontext "taskhub/internal/delivery/context"
	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/usecase"
)

// TaskHandler holds dependencies for the task CRUD handlers. All of them run
// behind the auth middleware, so the principal is always on the context.
type TaskHandler struct {
	uc     usecase.TaskUsecase
	logger *slog.Logger
}

// NewTaskHandler is the constructor for TaskHandler, injected by Fx.
func NewTaskHandler(uc usecase.TaskUsecase, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		uc:     uc,
		logger: logger,
	}
}

// createTaskRequest is the JSON body of POST /tasks. Any owner field a client
// sends is ignored; ownership always comes from the token.
type createTaskRequest struct {
	Title string `json:"title" validate:"required"`
}

// updateTaskRequest is the JSON body of PUT /tasks/:id.
type updateTaskRequest struct {
	Title     string `json:"title" validate:"required"`
	Completed bool   `json:"completed"`
}

// Create handles POST /tasks.
func (h *TaskHandler) Create(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	var req createTaskRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Create(c.Request().Context(), principal, &usecase.CreateTaskInput{Title: req.Title})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusCreated, toTaskOut(output))
}

// List handles GET /tasks, scoped to the caller's own tasks.
func (h *TaskHandler) List(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	outputs, err := h.uc.List(c.Request().Context(), principal)
	if err != nil {
		return errors.WithStack(err)
	}

	tasks := make([]response.TaskOut, 0, len(outputs))
	for _, output := range outputs {
		tasks = append(tasks, toTaskOut(output))
	}

	return c.JSON(http.StatusOK, tasks)
}

// Get handles GET /tasks/:id.
func (h *TaskHandler) Get(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	id, err := taskID(c)
	if err != nil {
		return err
	}

	output, err := h.uc.Get(c.Request().Context(), principal, id)
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, toTaskOut(output))
}

// Update handles PUT /tasks/:id.
func (h *TaskHandler) Update(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	id, err := taskID(c)
	if err != nil {
		return err
	}

	var req updateTaskRequest
	if err := c.Bind(&req); err != nil {
		return errors.WithStack(err)
	}
	if err := c.Validate(&req); err != nil {
		return errors.WithStack(err)
	}

	output, err := h.uc.Update(c.Request().Context(), principal, id, &usecase.UpdateTaskInput{
		Title:     req.Title,
		Completed: req.Completed,
	})
	if err != nil {
		return errors.WithStack(err)
	}

	return c.JSON(http.StatusOK, toTaskOut(output))
}

// Delete handles DELETE /tasks/:id.
func (h *TaskHandler) Delete(c echo.Context) error {
	principal, err := requirePrincipal(c)
	if err != nil {
		return err
	}

	id, err := taskID(c)
	if err != nil {
		return err
	}

	if err := h.uc.Delete(c.Request().Context(), principal, id); err != nil {
		return errors.WithStack(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func requirePrincipal(c echo.Context) (string, error) {
	principal, ok := deliverycontext.GetPrincipal(c)
	if !ok {
		return "", domainerrors.ErrUnauthenticated.WithDetails("principal missing from request context")
	}

	return principal, nil
}

// taskID parses the :id path parameter. An unparseable id addresses nothing,
// so it reads as not found rather than a bad request.
func taskID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return 0, domainerrors.ErrTaskNotFound.WithDetails("task id is not an integer")
	}

	return id, nil
}

func toTaskOut(output *usecase.TaskOutput) response.TaskOut {
	return response.TaskOut{
		ID:        output.ID,
		Title:     output.Title,
		Completed: output.Completed,
		Owner:     output.Owner,
	}
}
