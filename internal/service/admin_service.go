package service

import (
	"context"
	"crypto/subtle"
	"time"

	"github.com/google/uuid"

	"github.com/waterworks/water-service/internal/auth"
	"github.com/waterworks/water-service/internal/config"
	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/repository"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// AdminService backs the operator console: operator login and account browsing.
// Application and complaint editing go through their own services.
type AdminService struct {
	users        repository.UserRepository
	tokenMgr     *auth.TokenManager
	username     string
	passwordHash string
}

// NewAdminService hashes the configured operator password once at startup. When no
// credentials are configured every console login fails.
func NewAdminService(cfg config.AdminConfig, bcryptCost int, users repository.UserRepository) (*AdminService, error) {
	secret := cfg.JWTSecret
	if !cfg.Enabled() {
		// Nobody can log in, so no token should verify either.
		secret = uuid.NewString()
	}
	svc := &AdminService{
		users:    users,
		tokenMgr: auth.NewTokenManager(secret, cfg.TokenTTLMinutes),
		username: cfg.Username,
	}
	if !cfg.Enabled() {
		return svc, nil
	}
	hash, err := auth.HashPassword(cfg.Password, bcryptCost)
	if err != nil {
		return nil, err
	}
	svc.passwordHash = hash
	return svc, nil
}

// Login checks operator credentials and issues a console token.
func (s *AdminService) Login(_ context.Context, username, password string) (string, time.Time, error) {
	if s.passwordHash == "" {
		return "", time.Time{}, apperrors.NewUnauthorized("admin console disabled")
	}
	nameOK := subtle.ConstantTimeCompare([]byte(username), []byte(s.username)) == 1
	if err := auth.ComparePassword(s.passwordHash, password); err != nil || !nameOK {
		return "", time.Time{}, apperrors.NewUnauthorized(msgInvalidCredentials)
	}
	token, exp, err := s.tokenMgr.GenerateToken(s.username, domain.SubjectTypeAdmin)
	if err != nil {
		return "", time.Time{}, apperrors.NewInternalError(err)
	}
	return token, exp, nil
}

// ListUsers returns every account ordered by id.
func (s *AdminService) ListUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return users, nil
}

// GetUser fetches one account.
func (s *AdminService) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgUserNotFound)
	}
	return user, nil
}

// DeleteUser removes an account together with its applications and complaints.
func (s *AdminService) DeleteUser(ctx context.Context, id int64) error {
	if err := s.users.Delete(ctx, id); err != nil {
		return notFoundOr(err, msgUserNotFound)
	}
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AdminService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
