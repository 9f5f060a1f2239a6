package middleware

import (
	"log/slog"
	"strings"

	"github.com/labstack/echo/v4"

	deliverycontext "taskhub/internal/delivery/context"
	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/domain/service"
)

// AuthMiddleware validates the bearer token on protected routes and places
// the resulting principal on the request context. It performs steps 1-2 of
// the authorization guard; the ownership check lives in the task usecase.
type AuthMiddleware struct {
	tokenSvc service.TokenService
	logger   *slog.Logger
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService, logger *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc, logger: logger}
}

// Authenticate is the core middleware function that validates the bearer token.
// Every failure mode (missing header, wrong scheme, malformed, expired,
// forged) collapses into the same unauthenticated error; the specific cause
// is only logged.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return domainerrors.ErrUnauthenticated.WithDetails("authorization header missing")
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return domainerrors.ErrUnauthenticated.WithDetails("authorization header is not a bearer token")
		}

		principal, err := m.tokenSvc.Verify(tokenString)
		if err != nil {
			m.logger.Warn("Token verification failed",
				slog.String("path", c.Request().URL.Path),
				slog.Any("error", err),
			)

			return domainerrors.ErrUnauthenticated.WithDetails("invalid or expired token")
		}

		deliverycontext.SetPrincipal(c, principal)

		return next(c)
	}
}
