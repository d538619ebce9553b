package handler

import (
	"github.com/gofiber/fiber/v2"

	"agroapi/internal/http/middleware"
)

// errorPayload defines the standardized error response body.
type errorPayload struct {
	RequestID string        `json:"request_id"`
	Error     errorEnvelope `json:"error"`
	Endpoints []string      `json:"available_endpoints,omitempty"`
	Hint      string        `json:"hint,omitempty"`
}

type errorEnvelope struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiEndpoints is the route summary returned on 404s. Phone browsers hitting
// a mistyped path get something to navigate by instead of a bare error.
var apiEndpoints = []string{
	"GET  /",
	"GET  /health",
	"GET  /network-test",
	"GET  /api/cors-test",
	"POST /api/auth/login",
	"GET  /api/workers",
	"POST /api/attendance/check-in",
	"GET  /api/job-types",
	"GET  /api/lots",
	"GET  /docs",
}

// requestIDFromCtx extracts request_id previously stored by middleware.RequestID.
func requestIDFromCtx(c *fiber.Ctx) string {
	if v := c.Locals(middleware.RequestIDLocalKey); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// writeError writes a standardized JSON error response without leaking internal errors.
//
// Parameters:
// - status: HTTP status code to return
// - code: machine-readable short error code (e.g., "INVALID_ID", "NOT_FOUND", "INTERNAL_ERROR")
// - message: human-readable safe message (no internal details)
func writeError(c *fiber.Ctx, status int, code, message string) error {
	res := errorPayload{
		RequestID: requestIDFromCtx(c),
		Error: errorEnvelope{
			Code:    code,
			Message: message,
		},
	}
	return c.Status(status).JSON(res)
}

// ErrorHandler returns a Fiber global error handler that standardizes error
// responses. Messages carried by fiber.Error are preserved; anything else is
// reduced to a safe generic message.
func ErrorHandler() fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		status := fiber.StatusInternalServerError
		message := ""
		if e, ok := err.(*fiber.Error); ok {
			status = e.Code
			message = e.Message
		}

		switch status {
		case fiber.StatusBadRequest:
			if message == "" || message == "Bad Request" {
				message = "bad request"
			}
			return writeError(c, status, "BAD_REQUEST", message)
		case fiber.StatusUnauthorized:
			if message == "" || message == "Unauthorized" {
				message = "authentication required"
			}
			return writeError(c, status, "UNAUTHORIZED", message)
		case fiber.StatusForbidden:
			if message == "" || message == "Forbidden" {
				message = "insufficient role"
			}
			return writeError(c, status, "FORBIDDEN", message)
		case fiber.StatusNotFound:
			res := errorPayload{
				RequestID: requestIDFromCtx(c),
				Error:     errorEnvelope{Code: "NOT_FOUND", Message: "resource not found"},
				Endpoints: apiEndpoints,
				Hint:      "see /docs for the full API reference",
			}
			return c.Status(status).JSON(res)
		case fiber.StatusMethodNotAllowed:
			return writeError(c, status, "METHOD_NOT_ALLOWED", "method not allowed")
		case fiber.StatusTooManyRequests:
			if message == "" || message == "Too Many Requests" {
				message = "rate limit exceeded"
			}
			return writeError(c, status, "TOO_MANY_REQUESTS", message)
		default:
			return writeError(c, status, "INTERNAL_ERROR", "internal server error")
		}
	}
}
