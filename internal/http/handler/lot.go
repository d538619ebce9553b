package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/http/middleware"
	"agroapi/internal/repository"
	"agroapi/internal/service"
)

// lotFilterFromQuery builds the shared lot/yield filter from query params.
func lotFilterFromQuery(c *fiber.Ctx) (repository.LotFilter, error) {
	f := repository.LotFilter{LotID: c.Query("lot_id")}

	if raw := c.Query("start_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, errors.New("start_date must be YYYY-MM-DD")
		}
		f.From = parsed
	}
	if raw := c.Query("end_date"); raw != "" {
		parsed, err := time.Parse("2006-01-02", raw)
		if err != nil {
			return f, errors.New("end_date must be YYYY-MM-DD")
		}
		f.To = parsed.AddDate(0, 0, 1)
	}
	return f, nil
}

// ListLots returns lots matching the date range and lot filters.
func ListLots(svc service.LotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := lotFilterFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", err.Error())
		}

		lots, listErr := svc.List(c.UserContext(), f)
		if listErr != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"lots": lots, "count": len(lots)})
	}
}

// GetLot returns one lot by its lot ID.
func GetLot(svc service.LotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lot, err := svc.Get(c.UserContext(), c.Params("lot_id"))
		if err != nil {
			return lotError(c, err)
		}
		return c.JSON(lot)
	}
}

// CreateLot weighs in a new harvest lot and assigns a generated lot ID.
func CreateLot(svc service.LotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateLotInput
		if !parseAndValidate(c, &in) {
			return nil
		}
		if claims := middleware.ClaimsFrom(c); claims != nil {
			in.CreatedBy = claims.Subject
		}

		lot, err := svc.Create(c.UserContext(), in)
		if err != nil {
			return lotError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(lot)
	}
}

// RecordThreshing stores the threshed weight for a lot and derives the yield.
func RecordThreshing(svc service.LotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ThreshingInput
		if !parseAndValidate(c, &in) {
			return nil
		}

		lot, err := svc.RecordThreshing(c.UserContext(), c.Params("lot_id"), in)
		if err != nil {
			return lotError(c, err)
		}
		return c.JSON(lot)
	}
}

// Yields builds the weight and yield report over the filtered lots.
func Yields(svc service.LotService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := lotFilterFromQuery(c)
		if err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", err.Error())
		}

		report, yErr := svc.Yields(c.UserContext(), f)
		if yErr != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(report)
	}
}

func lotError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "lot_id is required")
	case errors.Is(err, service.ErrLotNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "lot not found")
	case errors.Is(err, service.ErrCropRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field crop is required")
	case errors.Is(err, service.ErrInvalidWeight):
		return writeError(c, fiber.StatusBadRequest, "INVALID_WEIGHT", "weight must be greater than zero")
	case errors.Is(err, service.ErrThreshedExceedsRaw):
		return writeError(c, fiber.StatusBadRequest, "INVALID_WEIGHT", "threshed weight cannot exceed raw weight")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
