package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/http/middleware"
	"agroapi/internal/service"
)

// ListNotifications returns the caller's notifications, newest first.
// `?unread=true` narrows to unread ones.
func ListNotifications(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		res, err := svc.List(c.UserContext(),
			claims.Subject,
			c.QueryBool("unread", false),
			c.QueryInt("limit", 20),
			c.QueryInt("offset", 0),
		)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// MarkNotificationRead flags one of the caller's notifications as read.
func MarkNotificationRead(svc service.NotificationService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims := middleware.ClaimsFrom(c)
		if claims == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		if err := svc.MarkRead(c.UserContext(), c.Params("id"), claims.Subject); err != nil {
			switch {
			case errors.Is(err, service.ErrIDRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "id is required")
			case errors.Is(err, service.ErrNotificationNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "notification not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(fiber.Map{"message": "marked read"})
	}
}
