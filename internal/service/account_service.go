package service

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/jackc/pgx/v5"

	"github.com/waterworks/water-service/internal/auth"
	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/repository"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

const (
	msgUsernameTaken      = "Username already taken."
	msgEmailTaken         = "Email already in use."
	msgInvalidCredentials = "Invalid username or password."
)

// SignupInput carries the registration payload.
type SignupInput struct {
	Username string
	Email    string
	Password string
}

// AccountService coordinates signup and login flows.
type AccountService struct {
	users      repository.UserRepository
	bcryptCost int
}

// NewAccountService builds the service.
func NewAccountService(users repository.UserRepository, bcryptCost int) *AccountService {
	return &AccountService{users: users, bcryptCost: bcryptCost}
}

// Signup creates a new account. The existence checks only produce friendlier
// messages; the unique indexes decide races.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (*domain.User, error) {
	if utf8.RuneCountInString(input.Username) > domain.MaxUsernameLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Username must be at most %d characters.", domain.MaxUsernameLength))
	}
	if utf8.RuneCountInString(input.Email) > domain.MaxEmailLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Email must be at most %d characters.", domain.MaxEmailLength))
	}

	taken, err := s.users.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if taken {
		return nil, apperrors.NewConflict(msgUsernameTaken)
	}

	taken, err = s.users.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	if taken {
		return nil, apperrors.NewConflict(msgEmailTaken)
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	user := &domain.User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		switch {
		case errors.Is(err, repository.ErrUsernameTaken):
			return nil, apperrors.NewConflict(msgUsernameTaken)
		case errors.Is(err, repository.ErrEmailTaken):
			return nil, apperrors.NewConflict(msgEmailTaken)
		}
		return nil, apperrors.NewInternalError(err)
	}
	return user, nil
}

// Login verifies credentials. Unknown usernames and wrong passwords yield the same error.
func (s *AccountService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewInternalError(err)
		}
		auth.BurnComparison(password)
		return nil, apperrors.NewValidationError(msgInvalidCredentials)
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, apperrors.NewValidationError(msgInvalidCredentials)
	}
	return user, nil
}
