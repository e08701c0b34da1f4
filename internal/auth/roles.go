package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/waterworks/water-service/internal/domain"
	apperrors "github.com/waterworks/water-service/pkg/util/errorutil"
)

// RequireAdmin ensures the caller holds a console token.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if principal.SubjectType != domain.SubjectTypeAdmin {
			return apperrors.NewForbidden("admin role required")
		}
		return c.Next()
	}
}
