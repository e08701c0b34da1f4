package service

import (
	"context"
	"fmt"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/events"
	"github.com/waterworks/water-service/internal/repository"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// ApplicationService coordinates installation request workflows.
type ApplicationService struct {
	users        repository.UserRepository
	applications repository.ApplicationRepository
	events       publisher
}

// ApplicationDependencies bundles collaborators for the application service.
type ApplicationDependencies struct {
	UserRepo        repository.UserRepository
	ApplicationRepo repository.ApplicationRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// SubmitApplicationInput describes a new request.
type SubmitApplicationInput struct {
	Username    string
	PhoneNumber string
	Description string
}

// NewApplicationService constructs the service.
func NewApplicationService(deps ApplicationDependencies) *ApplicationService {
	return &ApplicationService{
		users:        deps.UserRepo,
		applications: deps.ApplicationRepo,
		events:       newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// Submit files a new application in Pending state for the named user.
func (s *ApplicationService) Submit(ctx context.Context, input SubmitApplicationInput) (*domain.Application, error) {
	user, err := resolveUser(ctx, s.users, input.Username)
	if err != nil {
		return nil, err
	}
	if utf8.RuneCountInString(input.PhoneNumber) > domain.MaxPhoneNumberLength {
		return nil, apperrors.NewValidationError(fmt.Sprintf("Phone number must be at most %d characters.", domain.MaxPhoneNumberLength))
	}

	app := &domain.Application{
		UserID:      user.ID,
		Username:    user.Username,
		PhoneNumber: input.PhoneNumber,
		Description: input.Description,
		Status:      domain.ApplicationStatusPending,
	}
	if err := s.applications.Create(ctx, app); err != nil {
		return nil, notFoundOr(err, msgUserNotFound)
	}

	s.events.publish(ctx, events.Event{
		Type:          events.EventApplicationSubmitted,
		ApplicationID: app.ID,
		Actor:         applicantActor(user.Username),
		Payload:       events.ApplicationSubmittedPayload{PhoneNumber: app.PhoneNumber},
	})
	return app, nil
}

// ListForUser returns the user's applications, newest first.
func (s *ApplicationService) ListForUser(ctx context.Context, username string) ([]domain.Application, error) {
	user, err := resolveUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	apps, err := s.applications.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return apps, nil
}

// CountByStatus counts the user's applications in the given status.
func (s *ApplicationService) CountByStatus(ctx context.Context, username string, status domain.ApplicationStatus) (int64, error) {
	if !status.Valid() {
		return 0, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", status))
	}
	user, err := resolveUser(ctx, s.users, username)
	if err != nil {
		return 0, err
	}
	count, err := s.applications.CountByStatus(ctx, user.ID, status)
	if err != nil {
		return 0, apperrors.NewInternalError(err)
	}
	return count, nil
}

// List returns applications across all users for the console.
func (s *ApplicationService) List(ctx context.Context, filter repository.ApplicationFilter) ([]domain.Application, error) {
	if filter.Status != nil && !filter.Status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("unknown status %q", *filter.Status))
	}
	apps, err := s.applications.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return apps, nil
}

// Get fetches one application.
func (s *ApplicationService) Get(ctx context.Context, id int64) (*domain.Application, error) {
	app, err := s.applications.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgApplicationNotFound)
	}
	return app, nil
}

// ChangeStatus moves an application to status. Any of the three statuses may follow
// any other; re-applying the current status is a no-op.
func (s *ApplicationService) ChangeStatus(ctx context.Context, operator string, id int64, status domain.ApplicationStatus) (*domain.Application, error) {
	if !status.Valid() {
		return nil, apperrors.NewValidationError(fmt.Sprintf("status must be one of %q", domain.ApplicationStatuses()))
	}
	app, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if app.Status == status {
		return app, nil
	}

	old := app.Status
	if err := s.applications.UpdateStatus(ctx, id, status); err != nil {
		return nil, notFoundOr(err, msgApplicationNotFound)
	}
	app.Status = status

	s.events.publish(ctx, events.Event{
		Type:          events.EventApplicationStatusChanged,
		ApplicationID: app.ID,
		Actor:         adminActor(operator),
		Payload:       events.ApplicationStatusChangedPayload{OldStatus: old, NewStatus: status},
	})
	return app, nil
}

// Delete removes an application and its complaints.
func (s *ApplicationService) Delete(ctx context.Context, id int64) error {
	if err := s.applications.Delete(ctx, id); err != nil {
		return notFoundOr(err, msgApplicationNotFound)
	}
	return nil
}
