package services

import (
	"context"
	"errors"
	"strings"

	"venture-chat/internal/apperrors"
	"venture-chat/internal/models"
	"venture-chat/internal/repositories"
)

// IdentityResolver maps an authenticated external principal to the internal
// user record.
type IdentityResolver struct {
	users repositories.UserRepository
}

func NewIdentityResolver(users repositories.UserRepository) *IdentityResolver {
	return &IdentityResolver{users: users}
}

// Resolve fails with NotAuthenticated when there is no principal and with
// UserNotFound when the principal has no internal record.
func (r *IdentityResolver) Resolve(ctx context.Context, externalID string) (models.User, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return models.User{}, apperrors.NotAuthenticated("no authenticated principal")
	}
	user, err := r.users.GetByExternalID(ctx, externalID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, apperrors.UserNotFound("no user is provisioned for this identity")
	}
	if err != nil {
		return models.User{}, apperrors.Internal(err)
	}
	return user, nil
}

// Me returns the user by internal id together with its role profile.
func (r *IdentityResolver) Me(ctx context.Context, userID int) (models.User, models.Profile, error) {
	user, err := r.users.GetByID(ctx, userID)
	if errors.Is(err, repositories.ErrUserNotFound) {
		return models.User{}, nil, apperrors.UserNotFound("user not found")
	}
	if err != nil {
		return models.User{}, nil, apperrors.Internal(err)
	}
	profile, err := r.users.GetProfile(ctx, user)
	if err != nil {
		return models.User{}, nil, apperrors.Internal(err)
	}
	return user, profile, nil
}
