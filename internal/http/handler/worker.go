package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/service"
)

// ListWorkers returns the person directory filtered by query parameters.
func ListWorkers(svc service.WorkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.ListPersonsInput{
			Role:       c.Query("role"),
			Search:     c.Query("search"),
			Status:     c.Query("status"),
			PersonType: c.Query("person_type"),
			Limit:      c.QueryInt("limit", 50),
			Offset:     c.QueryInt("offset", 0),
		}

		res, err := svc.List(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, service.ErrUnknownRole) {
				return writeError(c, fiber.StatusBadRequest, "UNKNOWN_ROLE", "unknown role filter")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// GetWorker returns one person by staff ID.
func GetWorker(svc service.WorkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		person, err := svc.GetByStaffID(c.UserContext(), c.Params("staff_id"))
		if err != nil {
			switch {
			case errors.Is(err, service.ErrStaffIDRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "staff_id is required")
			case errors.Is(err, service.ErrPersonNotFound):
				return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.JSON(person)
	}
}

// ListWorkersByRole returns active persons holding one role.
func ListWorkersByRole(svc service.WorkerService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.ListPersonsInput{
			Role:   c.Params("role"),
			Limit:  c.QueryInt("limit", 100),
			Offset: c.QueryInt("offset", 0),
		}

		res, err := svc.List(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, service.ErrUnknownRole) {
				return writeError(c, fiber.StatusBadRequest, "UNKNOWN_ROLE", "unknown role")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}
