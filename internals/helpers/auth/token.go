// file: internals/helpers/auth/token.go
package helperAuth

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"

	"acainfo_backend/internals/constants"
)

/* =========================
   Locals keys (hydrated by AuthJWT middleware)
========================= */

const (
	LocUserID = "user_id"
	LocRole   = "role"
	LocEmail  = "email"
)

/* =========================
   Claim getters
========================= */

// GetUserIDFromToken reads the authenticated user id hydrated into locals.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user id missing from token")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user id in token is not a UUID")
	}
	return id, nil
}

func GetRoleFromToken(c *fiber.Ctx) string {
	if s, ok := c.Locals(LocRole).(string); ok {
		return s
	}
	return ""
}

func IsAdmin(c *fiber.Ctx) bool   { return GetRoleFromToken(c) == constants.RoleAdmin }
func IsTeacher(c *fiber.Ctx) bool { return GetRoleFromToken(c) == constants.RoleTeacher }
func IsStudent(c *fiber.Ctx) bool { return GetRoleFromToken(c) == constants.RoleStudent }

// IsTeacherOrAdmin covers the common staff-only gate.
func IsTeacherOrAdmin(c *fiber.Ctx) bool {
	r := GetRoleFromToken(c)
	return r == constants.RoleTeacher || r == constants.RoleAdmin
}

/* =========================
   Token issuing
========================= */

type TokenClaims struct {
	UserID uuid.UUID
	Email  string
	Role   string
}

// SignToken issues an HMAC token for the given claims and TTL.
func SignToken(secret string, tc TokenClaims, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"id":    tc.UserID.String(),
		"email": tc.Email,
		"role":  tc.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ParseToken verifies an HMAC token and returns its claims.
func ParseToken(secret, raw string) (jwt.MapClaims, error) {
	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid signing method")
		}
		return []byte(secret), nil
	})
	if err != nil || !tok.Valid {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fiber.NewError(fiber.StatusUnauthorized, "invalid token claims")
	}
	return claims, nil
}
