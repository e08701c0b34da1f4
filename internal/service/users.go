package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/repository"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// Client facing messages shared by several operations.
const (
	msgUserNotFound        = "User not found."
	msgApplicationNotFound = "Application not found."
	msgComplaintNotFound   = "Complaint not found."
)

// resolveUser looks up the acting user by the client supplied username.
func resolveUser(ctx context.Context, users repository.UserRepository, username string) (*domain.User, error) {
	user, err := users.GetByUsername(ctx, username)
	if err != nil {
		return nil, notFoundOr(err, msgUserNotFound)
	}
	return user, nil
}

// notFoundOr turns a missing row or a vanished foreign key target into a NOT_FOUND
// error with message and wraps anything else as internal.
func notFoundOr(err error, message string) error {
	if errors.Is(err, pgx.ErrNoRows) || errors.Is(err, repository.ErrMissingReference) {
		return apperrors.NewNotFound(message)
	}
	return apperrors.NewInternalError(err)
}
