package middleware

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/auth"
)

// ClaimsLocalKey is the locals key holding the verified token claims.
const ClaimsLocalKey = "auth_claims"

// TokenVerifier validates an access token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// RequireAuth verifies the Bearer token and stores the claims in locals.
// Responses use fiber errors so the app error handler shapes the envelope.
func RequireAuth(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing authorization header")
		}

		scheme, token, found := strings.Cut(header, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(token) == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authorization header must be 'Bearer <token>'")
		}

		claims, err := verifier.Verify(strings.TrimSpace(token))
		if err != nil {
			if errors.Is(err, auth.ErrExpiredToken) {
				return fiber.NewError(fiber.StatusUnauthorized, "token expired")
			}
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}

		c.Locals(ClaimsLocalKey, claims)
		return c.Next()
	}
}

// RequireRoles allows only the listed roles past. It must run after
// RequireAuth.
func RequireRoles(roles ...string) fiber.Handler {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}

	return func(c *fiber.Ctx) error {
		claims := ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}
		if !allowed[claims.Role] {
			return fiber.NewError(fiber.StatusForbidden, "insufficient role")
		}
		return c.Next()
	}
}

// ClaimsFrom returns the claims stored by RequireAuth, nil when absent.
func ClaimsFrom(c *fiber.Ctx) *auth.Claims {
	claims, _ := c.Locals(ClaimsLocalKey).(*auth.Claims)
	return claims
}
