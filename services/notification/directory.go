package notification

import (
	"context"
	"strings"

	userRepo "sitetrack/database/repository/user"
	"sitetrack/models"

	"go.uber.org/zap"
)

// Directory is the read side of the user store the resolver needs.
type Directory interface {
	PushCapableUsersByRole(ctx context.Context, role models.Role) ([]models.User, error)
	PushCapableUserByID(ctx context.Context, id string) (*models.User, error)
}

// UserDirectory answers role and id lookups against the user repository.
type UserDirectory struct {
	repo   userRepo.UserRepository
	logger *zap.Logger
}

func NewUserDirectory(repo userRepo.UserRepository, logger *zap.Logger) *UserDirectory {
	if logger == nil {
		logger = zap.L()
	}
	return &UserDirectory{repo: repo, logger: logger}
}

// UsersByRole returns every user with role. No match is an empty slice, not an error.
func (d *UserDirectory) UsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	users, err := d.repo.GetByRole(ctx, role)
	if err != nil {
		return nil, &StoreError{Op: "users by role " + string(role), Err: err}
	}
	if users == nil {
		users = []models.User{}
	}
	for _, u := range users {
		d.warnUnknownRole(u)
	}
	return users, nil
}

// UserByID returns the user or nil when no such user exists.
func (d *UserDirectory) UserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := d.repo.GetByID(ctx, id)
	if err != nil {
		return nil, &StoreError{Op: "user by id " + id, Err: err}
	}
	if u != nil {
		d.warnUnknownRole(*u)
	}
	return u, nil
}

// warnUnknownRole flags stored users whose role is outside the closed set. They still
// receive notifications, with the generic content.
func (d *UserDirectory) warnUnknownRole(u models.User) {
	if !u.Role.IsValid() {
		d.logger.Warn("user has unknown role", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	}
}

func (d *UserDirectory) PushCapableUsersByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	users, err := d.UsersByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	capable := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.HasPushToken() {
			capable = append(capable, u)
		}
	}
	return capable, nil
}

func (d *UserDirectory) PushCapableUserByID(ctx context.Context, id string) (*models.User, error) {
	u, err := d.UserByID(ctx, id)
	if err != nil || u == nil {
		return nil, err
	}
	if !u.HasPushToken() {
		d.logger.Warn("user has no push token", zap.String("user_id", id))
		return nil, nil
	}
	return u, nil
}

// RegisterPushToken stores token as the user's push address. An empty token clears it.
// Missing users surface as userRepo.ErrUserNotFound through the returned StoreError.
func (d *UserDirectory) RegisterPushToken(ctx context.Context, id, token string) error {
	token = strings.TrimSpace(token)
	if err := d.repo.UpdatePushToken(ctx, id, token); err != nil {
		return &StoreError{Op: "update push token " + id, Err: err}
	}
	d.logger.Info("push token updated", zap.String("user_id", id), zap.Bool("cleared", token == ""))
	return nil
}
