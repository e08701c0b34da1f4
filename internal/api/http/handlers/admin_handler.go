package handlers

import (
	"net/http"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/waterworks/water-service/internal/api/dto"
	"github.com/waterworks/water-service/internal/auth"
	"github.com/waterworks/water-service/internal/domain"
	"github.com/waterworks/water-service/internal/repository"
	"github.com/waterworks/water-service/internal/service"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// AdminHandler exposes the operator console.
type AdminHandler struct {
	admin        *service.AdminService
	applications *service.ApplicationService
	complaints   *service.ComplaintService
}

// NewAdminHandler constructs handler.
func NewAdminHandler(admin *service.AdminService, applications *service.ApplicationService, complaints *service.ComplaintService) *AdminHandler {
	return &AdminHandler{admin: admin, applications: applications, complaints: complaints}
}

// Login handles POST /admin/login.
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("Missing username or password.")
	}

	token, exp, err := h.admin.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.AuthResponse{Token: token, ExpiresAt: exp})
}

// ListUsers GET /admin/users.
func (h *AdminHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.admin.ListUsers(c.UserContext())
	if err != nil {
		return err
	}
	items := make([]dto.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, userResponse(&users[i]))
	}
	return c.JSON(items)
}

// GetUser GET /admin/users/:id.
func (h *AdminHandler) GetUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	user, err := h.admin.GetUser(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(userResponse(user))
}

// DeleteUser DELETE /admin/users/:id.
func (h *AdminHandler) DeleteUser(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.admin.DeleteUser(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListApplications GET /admin/applications.
func (h *AdminHandler) ListApplications(c *fiber.Ctx) error {
	var filter repository.ApplicationFilter
	if raw := c.Query("status"); raw != "" {
		status := domain.ApplicationStatus(raw)
		filter.Status = &status
	}
	userID, err := optionalIDQuery(c, "user_id")
	if err != nil {
		return err
	}
	filter.UserID = userID

	apps, err := h.applications.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.ApplicationResponse, 0, len(apps))
	for i := range apps {
		items = append(items, applicationResponse(&apps[i]))
	}
	return c.JSON(items)
}

// GetApplication GET /admin/applications/:id.
func (h *AdminHandler) GetApplication(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	app, err := h.applications.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(applicationResponse(app))
}

// UpdateApplicationStatus PATCH /admin/applications/:id/status.
func (h *AdminHandler) UpdateApplicationStatus(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.UpdateStatusRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	app, err := h.applications.ChangeStatus(c.UserContext(), operator(c), id, req.Status)
	if err != nil {
		return err
	}
	return c.JSON(applicationResponse(app))
}

// DeleteApplication DELETE /admin/applications/:id.
func (h *AdminHandler) DeleteApplication(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.applications.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListComplaints GET /admin/complaints.
func (h *AdminHandler) ListComplaints(c *fiber.Ctx) error {
	var filter repository.ComplaintFilter
	if raw := c.Query("answered"); raw != "" {
		answered, err := strconv.ParseBool(raw)
		if err != nil {
			return apperrors.NewValidationError("answered must be true or false")
		}
		filter.Answered = &answered
	}
	var err error
	if filter.UserID, err = optionalIDQuery(c, "user_id"); err != nil {
		return err
	}
	if filter.ApplicationID, err = optionalIDQuery(c, "application_id"); err != nil {
		return err
	}

	complaints, err := h.complaints.List(c.UserContext(), filter)
	if err != nil {
		return err
	}
	items := make([]dto.AdminComplaintResponse, 0, len(complaints))
	for i := range complaints {
		items = append(items, adminComplaintResponse(&complaints[i]))
	}
	return c.JSON(items)
}

// GetComplaint GET /admin/complaints/:id.
func (h *AdminHandler) GetComplaint(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	complaint, err := h.complaints.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(adminComplaintResponse(complaint))
}

// RespondComplaint PATCH /admin/complaints/:id/response.
func (h *AdminHandler) RespondComplaint(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	var req dto.RespondComplaintRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}

	complaint, err := h.complaints.Respond(c.UserContext(), operator(c), id, req.Response)
	if err != nil {
		return err
	}
	return c.JSON(adminComplaintResponse(complaint))
}

// DeleteComplaint DELETE /admin/complaints/:id.
func (h *AdminHandler) DeleteComplaint(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	if err := h.complaints.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func operator(c *fiber.Ctx) string {
	if principal, ok := auth.PrincipalFromContext(c); ok {
		return principal.Username
	}
	return ""
}

func optionalIDQuery(c *fiber.Ctx, key string) (*int64, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return nil, apperrors.NewValidationError(key + " must be an integer")
	}
	return &id, nil
}

func userResponse(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

func adminComplaintResponse(complaint *domain.Complaint) dto.AdminComplaintResponse {
	return dto.AdminComplaintResponse{
		ComplaintResponse: complaintResponse(complaint),
		UserID:            complaint.UserID,
	}
}
