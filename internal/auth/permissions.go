package auth

import (
	"github.com/gofiber/fiber/v2"

	apperrors "github.com/spec-kit/helpdesk-service/pkg/util/errorutil"
)

// Permission names stored in the permissions table.
const (
	PermissionTechnician = "tecnico"
)

// RequirePermission ensures the authenticated employee carries the permission.
func RequirePermission(name string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if !principal.HasPermission(name) {
			return apperrors.NewForbidden("insufficient permissions", "")
		}
		return c.Next()
	}
}
