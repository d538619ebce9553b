package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/service"
)

// ListJobTypes serves the daily job catalog. Reads come through the cached
// repository when Redis is wired in.
func ListJobTypes(svc service.JobTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		types, err := svc.List(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"job_types": types, "count": len(types)})
	}
}

// CreateJobType adds a job type to the catalog.
func CreateJobType(svc service.JobTypeService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateJobTypeInput
		if !parseAndValidate(c, &in) {
			return nil
		}

		jt, err := svc.Create(c.UserContext(), in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrJobNameRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field job_name is required")
			case errors.Is(err, service.ErrNegativeOutput):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "expected output cannot be negative")
			case errors.Is(err, service.ErrDuplicateJobName):
				return writeError(c, fiber.StatusConflict, "DUPLICATE_JOB_NAME", "a job type with this name already exists")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(jt)
	}
}
