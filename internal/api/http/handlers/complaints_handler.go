package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waterworks/water-service/internal/api/dto"
	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/service"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// ComplaintsHandler manages applicant-facing complaint endpoints.
type ComplaintsHandler struct {
	service *service.ComplaintService
}

// NewComplaintsHandler constructs handler.
func NewComplaintsHandler(complaintService *service.ComplaintService) *ComplaintsHandler {
	return &ComplaintsHandler{service: complaintService}
}

// ListComplaints GET /complaints/.
func (h *ComplaintsHandler) ListComplaints(c *fiber.Ctx) error {
	username, err := usernameQuery(c)
	if err != nil {
		return err
	}
	complaints, err := h.service.ListForUser(c.UserContext(), username)
	if err != nil {
		return err
	}
	items := make([]dto.ComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, complaintResponse(&complaints[i]))
	}
	return c.JSON(items)
}

// CreateComplaint POST /complaints/.
func (h *ComplaintsHandler) CreateComplaint(c *fiber.Ctx) error {
	var req dto.CreateComplaintRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.Username == "" || !req.ApplicationID.Set {
		return apperrors.NewValidationError("Missing username or application ID.")
	}

	complaint, err := h.service.File(c.UserContext(), service.FileComplaintInput{
		Username:      req.Username,
		ApplicationID: req.ApplicationID.Value,
		Message:       req.Message,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.CreatedResponse{
		Message: "Complaint submitted successfully",
		ID:      complaint.ID,
	})
}

func complaintResponse(complaint *domain.Complaint) dto.ComplaintResponse {
	return dto.ComplaintResponse{
		ID:            complaint.ID,
		ApplicationID: complaint.ApplicationID,
		Message:       complaint.Message,
		Response:      complaint.Response,
		SubmittedAt:   complaint.SubmittedAt,
		RespondedAt:   complaint.RespondedAt,
		Status:        complaint.ApplicationStatus,
	}
}
