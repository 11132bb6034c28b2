// file: internals/middlewares/auth/role_check.go
package authMiddleware

import (
	"github.com/gofiber/fiber/v2"

	helperAuth "acainfo_backend/internals/helpers/auth"
)

// RequireRoles gates a group to the given roles. Must run after AuthJWT.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *fiber.Ctx) error {
		role := helperAuth.GetRoleFromToken(c)
		if _, ok := allowed[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}
