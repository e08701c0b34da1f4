package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/events"
	"github.com/waterworks/water-service/internal/repository"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

const previewLength = 120

// ComplaintService coordinates complaint filing and answering.
type ComplaintService struct {
	users        repository.UserRepository
	applications repository.ApplicationRepository
	complaints   repository.ComplaintRepository
	events       publisher
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	UserRepo        repository.UserRepository
	ApplicationRepo repository.ApplicationRepository
	ComplaintRepo   repository.ComplaintRepository
	Dispatcher      events.Dispatcher
	Logger          *zap.Logger
}

// FileComplaintInput describes a new complaint.
type FileComplaintInput struct {
	Username      string
	ApplicationID int64
	Message       string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		users:        deps.UserRepo,
		applications: deps.ApplicationRepo,
		complaints:   deps.ComplaintRepo,
		events:       newPublisher(deps.Dispatcher, deps.Logger),
	}
}

// File records a complaint. The filer does not have to own the application.
func (s *ComplaintService) File(ctx context.Context, input FileComplaintInput) (*domain.Complaint, error) {
	user, err := resolveUser(ctx, s.users, input.Username)
	if err != nil {
		return nil, err
	}
	app, err := s.applications.GetByID(ctx, input.ApplicationID)
	if err != nil {
		return nil, notFoundOr(err, msgApplicationNotFound)
	}

	complaint := &domain.Complaint{
		UserID:            user.ID,
		ApplicationID:     app.ID,
		Message:           input.Message,
		ApplicationStatus: app.Status,
	}
	if err := s.complaints.Create(ctx, complaint); err != nil {
		if errors.Is(err, repository.ErrMissingReference) {
			return nil, apperrors.NewNotFound(msgApplicationNotFound)
		}
		return nil, apperrors.NewInternalError(err)
	}

	s.events.publish(ctx, events.Event{
		Type:          events.EventComplaintFiled,
		ApplicationID: app.ID,
		Actor:         applicantActor(user.Username),
		Payload: events.ComplaintFiledPayload{
			ComplaintID:    complaint.ID,
			MessagePreview: preview(complaint.Message),
		},
	})
	return complaint, nil
}

// ListForUser returns complaints filed by the user, newest first.
func (s *ComplaintService) ListForUser(ctx context.Context, username string) ([]domain.Complaint, error) {
	user, err := resolveUser(ctx, s.users, username)
	if err != nil {
		return nil, err
	}
	complaints, err := s.complaints.ListByUser(ctx, user.ID)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return complaints, nil
}

// List returns complaints across all users for the console.
func (s *ComplaintService) List(ctx context.Context, filter repository.ComplaintFilter) ([]domain.Complaint, error) {
	complaints, err := s.complaints.ListWithFilter(ctx, filter)
	if err != nil {
		return nil, apperrors.NewInternalError(err)
	}
	return complaints, nil
}

// Get fetches one complaint.
func (s *ComplaintService) Get(ctx context.Context, id int64) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, msgComplaintNotFound)
	}
	return complaint, nil
}

// Respond answers a complaint, stamping responded_at together with the response.
// Answering again replaces the previous response.
func (s *ComplaintService) Respond(ctx context.Context, operator string, id int64, response string) (*domain.Complaint, error) {
	if strings.TrimSpace(response) == "" {
		return nil, apperrors.NewValidationError("response required")
	}
	complaint, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.complaints.Respond(ctx, complaint, response); err != nil {
		return nil, notFoundOr(err, msgComplaintNotFound)
	}

	payload := events.ComplaintRespondedPayload{ComplaintID: complaint.ID}
	if complaint.RespondedAt != nil {
		payload.RespondedAt = *complaint.RespondedAt
	}
	s.events.publish(ctx, events.Event{
		Type:          events.EventComplaintResponded,
		ApplicationID: complaint.ApplicationID,
		Actor:         adminActor(operator),
		Payload:       payload,
	})
	return complaint, nil
}

// Delete removes a complaint.
func (s *ComplaintService) Delete(ctx context.Context, id int64) error {
	if err := s.complaints.Delete(ctx, id); err != nil {
		return notFoundOr(err, msgComplaintNotFound)
	}
	return nil
}

func preview(message string) string {
	runes := []rune(message)
	if len(runes) <= previewLength {
		return message
	}
	return string(runes[:previewLength]) + "…"
}
