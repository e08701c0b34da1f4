package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waterworks/water-service/internal/api/dto"
	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/service"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// ApplicationsHandler manages applicant-facing application endpoints.
type ApplicationsHandler struct {
	service *service.ApplicationService
}

// NewApplicationsHandler constructs handler.
func NewApplicationsHandler(applicationService *service.ApplicationService) *ApplicationsHandler {
	return &ApplicationsHandler{service: applicationService}
}

// ListApplications GET /applications/.
func (h *ApplicationsHandler) ListApplications(c *fiber.Ctx) error {
	username, err := usernameQuery(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListForUser(c.UserContext(), username)
	if err != nil {
		return err
	}
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, applicationResponse(&apps[i]))
	}
	return c.JSON(items)
}

// CreateApplication POST /applications/.
func (h *ApplicationsHandler) CreateApplication(c *fiber.Ctx) error {
	var req dto.CreateApplicationRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.Username == "" {
		return apperrors.NewValidationError(msgMissingUsername)
	}

	app, err := h.service.Submit(c.UserContext(), service.SubmitApplicationInput{
		Username:    req.Username,
		PhoneNumber: req.PhoneNumber,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreatedResponse{
		Message: "Application submitted successfully",
		ID:      app.ID,
	})
}

// CountByStatus returns a handler answering {key: N} for the caller's applications
// in status. It backs the pending, in-progress and completed counter routes.
func (h *ApplicationsHandler) CountByStatus(status domain.ApplicationStatus, key string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		username, err := usernameQuery(c)
		if err != nil {
			return err
		}
		count, err := h.service.CountByStatus(c.UserContext(), username, status)
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{key: count})
	}
}

func applicationResponse(app *domain.Application) dto.ApplicationResponse {
	return dto.ApplicationResponse{
		ID:              app.ID,
		User:            app.Username,
		PhoneNumber:     app.PhoneNumber,
		Description:     app.Description,
		ApplicationDate: app.ApplicationDate,
		Status:          app.Status,
	}
}
