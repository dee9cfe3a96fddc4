package store

import (
	"context"

	"certledger/internal/auth/models"
)

// UserStore persists registered accounts. Usernames are unique; lookups are
// by exact username.
type UserStore interface {
	// Create inserts a new user. Returns sentinel.ErrConflict when the
	// username is already taken.
	Create(ctx context.Context, user models.User) error

	// FindByUsername returns the user with the exact given username, or
	// sentinel.ErrNotFound.
	FindByUsername(ctx context.Context, username string) (*models.User, error)

	// UpdatePassword replaces the stored password hash for username.
	// Returns sentinel.ErrNotFound when no such user exists.
	UpdatePassword(ctx context.Context, username, passwordHash string) error
}
