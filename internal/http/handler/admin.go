package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/service"
)

// AdminStats serves the operational dashboard snapshot.
func AdminStats(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(stats)
	}
}

// AdminRoles serves the role catalog with staff ID prefixes.
func AdminRoles(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"roles": svc.Roles()})
	}
}

// AdminSystemHealth pings every backing dependency and reports per-component
// status.
func AdminSystemHealth(svc service.AdminService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		health := svc.SystemHealth(c.UserContext())
		status := fiber.StatusOK
		if health.Status != "healthy" {
			status = fiber.StatusServiceUnavailable
		}
		return c.Status(status).JSON(health)
	}
}

// CreateUser registers a person with a generated staff ID.
func CreateUser(svc service.WorkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.RegisterPersonInput
		if !parseAndValidate(c, &in) {
			return nil
		}

		person, err := svc.Register(c.UserContext(), in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNameRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field first_name is required")
			case errors.Is(err, service.ErrUnknownRole):
				return writeError(c, fiber.StatusBadRequest, "UNKNOWN_ROLE", "unknown role")
			case errors.Is(err, service.ErrInvalidPersonType):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "invalid person_type")
			case errors.Is(err, service.ErrStaffIDExhausted):
				return writeError(c, fiber.StatusConflict, "STAFF_ID_EXHAUSTED", "could not derive a free staff id")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(person)
	}
}

// GetUser returns one person by primary key.
func GetUser(svc service.WorkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		person, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			if errors.Is(err, service.ErrPersonNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(person)
	}
}

// UpdateUser patches a person's profile fields.
func UpdateUser(svc service.WorkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.UpdatePersonInput
		if err := c.BodyParser(&in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		}

		person, err := svc.Update(c.UserContext(), c.Params("id"), in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrPersonNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			case errors.Is(err, service.ErrNameRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "first name cannot be cleared")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(person)
	}
}

// DeleteUser deactivates a person. Rows are kept for attendance history;
// `?hard=true` removes the row permanently.
func DeleteUser(svc service.WorkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		if c.QueryBool("hard", false) {
			if err := svc.Delete(c.UserContext(), id); err != nil {
				if errors.Is(err, service.ErrPersonNotFound) {
					return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
				}
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
			return c.SendStatus(fiber.StatusNoContent)
		}

		person, err := svc.Deactivate(c.UserContext(), id)
		if err != nil {
			if errors.Is(err, service.ErrPersonNotFound) {
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(person)
	}
}
