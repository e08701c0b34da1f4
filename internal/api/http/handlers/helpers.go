package handlers

import (
	"errors"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/waterworks/water-service/internal/api/dto"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

const msgMissingUsername = "Missing username"

// decodeJSON reads the body as JSON whatever the Content-Type header says; browsers
// and scripts calling these endpoints often omit it.
func decodeJSON(c *fiber.Ctx, out any) error {
	body := c.Body()
	if len(strings.TrimSpace(string(body))) == 0 {
		return apperrors.NewValidationError("invalid payload")
	}
	if err := c.App().Config().JSONDecoder(body, out); err != nil {
		if errors.Is(err, dto.ErrInvalidID) {
			return apperrors.NewValidationError("application_id must be an integer")
		}
		return apperrors.NewValidationError("invalid payload")
	}
	return nil
}

func usernameQuery(c *fiber.Ctx) (string, error) {
	username := c.Query("username")
	if username == "" {
		return "", apperrors.NewValidationError(msgMissingUsername)
	}
	return username, nil
}

func pathID(c *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("id must be a positive integer")
	}
	return id, nil
}
