// file: internals/middlewares/auth/jwt_auth.go
package authMiddleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	helperAuth "acainfo_backend/internals/helpers/auth"
)

type AuthJWTOpts struct {
	Secret              string
	AllowCookieFallback bool // read cookie access_token when there is no Bearer header
}

func AuthJWT(o AuthJWTOpts) fiber.Handler {
	secret := strings.TrimSpace(o.Secret)
	if secret == "" {
		panic("AuthJWT: Secret is required")
	}

	return func(c *fiber.Ctx) error {
		// 1) Token from Authorization: Bearer xxx (or cookie when allowed)
		raw := ""
		if authz := strings.TrimSpace(c.Get(fiber.HeaderAuthorization)); strings.HasPrefix(strings.ToLower(authz), "bearer ") {
			raw = strings.TrimSpace(authz[7:])
		} else if o.AllowCookieFallback {
			raw = strings.TrimSpace(c.Cookies("access_token"))
		}
		if raw == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
		}

		// 2) Parse + verify algorithm
		claims, err := helperAuth.ParseToken(secret, raw)
		if err != nil {
			return err
		}
		c.Locals("jwt_claims", claims)

		// 3) Hydrate the locals the helpers expect
		if s := strClaim(claims, "id"); s != "" {
			if _, perr := uuid.Parse(s); perr != nil {
				return fiber.NewError(fiber.StatusUnauthorized, "user id in token is not a UUID")
			}
			c.Locals(helperAuth.LocUserID, s)
		}
		if s := strClaim(claims, "role"); s != "" {
			c.Locals(helperAuth.LocRole, s)
		}
		if s := strClaim(claims, "email"); s != "" {
			c.Locals(helperAuth.LocEmail, s)
		}

		return c.Next()
	}
}

func strClaim(claims jwt.MapClaims, key string) string {
	if v, ok := claims[key]; ok {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}
