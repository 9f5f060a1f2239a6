// Package repository defines the persistence interfaces of the domain layer,
// keeping use cases independent of the database driver.
package repository

import (
	"context"

	"taskhub/internal/domain/entity"
	"taskhub/internal/errors"
)

// ErrUserNotFound is returned when no user matches the lookup.
var ErrUserNotFound = errors.New("user not found")

// UserRepository is the credential store contract. Username uniqueness is
// enforced by the store itself; Create surfaces a violation as a domain error.
type UserRepository interface {
	// FindByUsername retrieves a single user by username.
	// Returns ErrUserNotFound when the username is not registered.
	FindByUsername(ctx context.Context, username string) (*entity.User, error)

	// Create persists a new user. The store's unique constraint on username
	// is the last line of defense against duplicate registration.
	Create(ctx context.Context, user *entity.User) error
}
