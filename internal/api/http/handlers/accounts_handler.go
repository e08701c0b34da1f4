package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/waterworks/water-service/internal/api/dto"
	"github.com/waterworks/water-service/internal/service"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// AccountsHandler exposes signup and login.
type AccountsHandler struct {
	accounts *service.AccountService
}

// NewAccountsHandler constructs handler.
func NewAccountsHandler(accounts *service.AccountService) *AccountsHandler {
	return &AccountsHandler{accounts: accounts}
}

// Signup handles POST /signup/.
func (h *AccountsHandler) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return apperrors.NewValidationError("Missing required fields.")
	}

	_, err := h.accounts.Signup(c.UserContext(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.MessageResponse{Message: "User created successfully!"})
}

// Login handles POST /login/.
func (h *AccountsHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := decodeJSON(c, &req); err != nil {
		return err
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("Missing username or password.")
	}

	user, err := h.accounts.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return err
	}
	return c.JSON(dto.LoginResponse{
		Message: "Login successful",
		User:    dto.LoginUser{Username: user.Username},
	})
}
