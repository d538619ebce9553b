package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/auth"
	"agroapi/internal/http/middleware"
	"agroapi/internal/service"
)

// loginRequest is the login body. There is no password: field staff carry
// printed ID cards and authenticate by staff ID alone.
type loginRequest struct {
	StaffID string `json:"staff_id" validate:"required,min=3,max=50"`
}

// Login issues an access token for a known staff ID.
//
// @Summary Login with a staff ID
// @Tags auth
// @Accept json
// @Produce json
// @Param body body loginRequest true "staff ID"
// @Success 200 {object} service.LoginResult
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 429 {object} map[string]interface{}
// @Router /api/auth/login [post]
func Login(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req loginRequest
		if !parseAndValidate(c, &req) {
			return nil
		}

		mobile := middleware.ClientClassFrom(c) == "mobile"
		res, err := svc.Login(c.UserContext(), req.StaffID, mobile)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrStaffIDRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field staff_id is required")
			case errors.Is(err, service.ErrPersonNotFound), errors.Is(err, service.ErrPersonInactive):
				// One message for both: login errors must not reveal
				// which staff IDs exist.
				return writeError(c, fiber.StatusUnauthorized, "INVALID_CREDENTIALS", "invalid staff id")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(res)
	}
}

// Me returns the authenticated caller's person record and role.
//
// @Summary Current user
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.Identity
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/me [get]
func Me(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		id, err := svc.Me(c.UserContext(), claims.Subject)
		if err != nil {
			if errors.Is(err, service.ErrPersonNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(id)
	}
}

// Logout acknowledges a logout. Tokens are stateless, so the client simply
// discards its copy; the endpoint exists so apps have a call to make.
func Logout() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "logged out"})
	}
}

type verifyTokenRequest struct {
	Token string `json:"token"`
}

// VerifyToken validates a token and reports its claims. Invalid tokens get a
// 200 with valid=false: this is a diagnostic endpoint, clients probe it to
// find out whether a stored token is still usable.
//
// @Summary Inspect an access token
// @Tags auth
// @Accept json
// @Produce json
// @Param body body verifyTokenRequest false "token to inspect; falls back to the Authorization header"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/verify-token [post]
func VerifyToken(svc service.AuthService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req verifyTokenRequest
		if len(c.Body()) > 0 {
			if err := c.BodyParser(&req); err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
			}
		}
		token := strings.TrimSpace(req.Token)
		if token == "" {
			token = bearerToken(c)
		}
		if token == "" {
			return writeError(c, fiber.StatusBadRequest, "TOKEN_REQUIRED", "provide a token in the body or an Authorization header")
		}

		claims, err := svc.VerifyToken(c.UserContext(), token)
		if err != nil {
			reason := "invalid token"
			if errors.Is(err, auth.ErrExpiredToken) {
				reason = "token expired"
			}
			return c.JSON(fiber.Map{"valid": false, "reason": reason})
		}

		return c.JSON(fiber.Map{
			"valid":      true,
			"staff_id":   claims.Subject,
			"role":       claims.Role,
			"mobile":     claims.Mobile,
			"expires_at": claims.ExpiresAt,
		})
	}
}

// AuthHealth is the auth-scoped health probe mobile apps poll after login
// failures to separate "auth broken" from "network broken".
func AuthHealth() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":    "ok",
			"service":   "auth",
			"client":    middleware.ClientClassFrom(c),
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// AuthNetworkTest reports whether the auth surface is reachable and whether
// the request carried a bearer header, without requiring one.
func AuthNetworkTest() fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":            "reachable",
			"message":           "auth service reachable",
			"has_authorization": c.Get(fiber.HeaderAuthorization) != "",
			"client":            middleware.ClientClassFrom(c),
			"timestamp":         time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// DebugHeaders echoes the request headers back. Mobile browsers and webviews
// rewrite or drop headers in ways that are otherwise invisible server-side.
func DebugHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		headers := make(map[string]string)
		for k, vals := range c.GetReqHeaders() {
			headers[k] = strings.Join(vals, ", ")
		}
		return c.JSON(fiber.Map{
			"headers":   headers,
			"remote_ip": c.IP(),
			"method":    c.Method(),
			"path":      c.Path(),
		})
	}
}

func bearerToken(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	const prefix = "Bearer "
	if len(h) > len(prefix) && strings.EqualFold(h[:len(prefix)], prefix) {
		return strings.TrimSpace(h[len(prefix):])
	}
	return ""
}
