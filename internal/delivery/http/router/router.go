// Package router contains routing setup for the two HTTP services.
package router

import (
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"

	"taskhub/internal/delivery/http/middleware"
	"taskhub/internal/delivery/http/router/handler"
)

// Router registers a service's routes on an echo instance. Each binary
// provides exactly one implementation to the shared HTTP server.
type Router interface {
	RegisterRoutes(e *echo.Echo)
}

// AuthRouterParams holds the handlers of the credential-issuing service.
type AuthRouterParams struct {
	fx.In

	AuthHandler  *handler.AuthHandler
	AdminHandler *handler.AdminHandler
}

type authRouter struct {
	authHandler  *handler.AuthHandler
	adminHandler *handler.AdminHandler
}

// NewAuthRouter is the constructor for the auth service router.
func NewAuthRouter(params AuthRouterParams) Router {
	return &authRouter{
		authHandler:  params.AuthHandler,
		adminHandler: params.AdminHandler,
	}
}

// RegisterRoutes sets up the auth service's API routes.
func (r *authRouter) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)
	e.POST("/register", r.authHandler.Register)
	e.POST("/login", r.authHandler.Login)
	e.POST("/init-db", r.adminHandler.InitDB)
}

// TasksRouterParams holds the handlers and middleware of the task service.
type TasksRouterParams struct {
	fx.In

	TaskHandler    *handler.TaskHandler
	AuthMiddleware *middleware.AuthMiddleware
}

type tasksRouter struct {
	taskHandler    *handler.TaskHandler
	authMiddleware *middleware.AuthMiddleware
}

// NewTasksRouter is the constructor for the task service router.
func NewTasksRouter(params TasksRouterParams) Router {
	return &tasksRouter{
		taskHandler:    params.TaskHandler,
		authMiddleware: params.AuthMiddleware,
	}
}

// RegisterRoutes sets up the task service's API routes. Everything under
// /tasks requires a valid bearer token.
func (r *tasksRouter) RegisterRoutes(e *echo.Echo) {
	e.GET("/health", handler.HealthCheck)

	taskGroup := e.Group("/tasks")
	taskGroup.Use(r.authMiddleware.Authenticate)
	{
		taskGroup.POST("", r.taskHandler.Create)
		taskGroup.GET("", r.taskHandler.List)
		taskGroup.GET("/:id", r.taskHandler.Get)
		taskGroup.PUT("/:id", r.taskHandler.Update)
		taskGroup.DELETE("/:id", r.taskHandler.Delete)
	}
}
