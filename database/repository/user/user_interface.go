package userRepo

import (
	"context"
	"errors"

	"sitetrack/models"
)

// ErrUserNotFound is returned by writes that target a missing user.
var ErrUserNotFound = errors.New("user not found")

// UserRepository defines methods for user data access.
type UserRepository interface {
	// GetByID retrieves a user by its unique ID. It returns nil, nil when no user matches.
	GetByID(ctx context.Context, id string) (*models.User, error)
	// GetByRole retrieves every user holding the given role.
	GetByRole(ctx context.Context, role models.Role) ([]models.User, error)
	// UpdatePushToken sets, or clears when empty, the user's push address.
	UpdatePushToken(ctx context.Context, id, token string) error
}
