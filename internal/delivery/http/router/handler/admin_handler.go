package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"taskhub/internal/delivery/http/response"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/repository"
)

// AdminHandler exposes operational endpoints that talk to the store
// lifecycle rather than to a usecase.
type AdminHandler struct {
	store  repository.Store
	logger *slog.Logger
}

// NewAdminHandler is the constructor for AdminHandler, injected by Fx.
func NewAdminHandler(store repository.Store, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		store:  store,
		logger: logger,
	}
}

// InitDB re-attempts the store connection and re-applies the idempotent
// schema migration. Deployments hit this after the database finally comes up
// when the startup retry budget was exhausted.
func (h *AdminHandler) InitDB(c echo.Context) error {
	if err := h.store.Initialize(c.Request().Context()); err != nil {
		h.logger.Error("init-db failed", slog.Any("error", err))

		return domainerrors.ErrStoreUnavailable.WithDetails("database initialization failed")
	}

	return c.JSON(http.StatusOK, response.InitDBOut{
		Status:  "success",
		Message: "Tables created",
	})
}

// HealthCheck reports liveness. It deliberately touches nothing: the process
// is healthy even while the store is down.
func HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, response.HealthOut{Status: "healthy"})
}
