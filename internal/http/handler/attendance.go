package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/http/middleware"
	"agroapi/internal/model"
	"agroapi/internal/service"
)

// CheckIn opens today's attendance log for a staff member.
func CheckIn(svc service.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CheckInInput
		if !parseAndValidate(c, &in) {
			return nil
		}
		if claims := middleware.ClaimsFrom(c); claims != nil && in.RecordedBy == "" {
			in.RecordedBy = claims.Subject
		}

		log, err := svc.CheckIn(c.UserContext(), in)
		if err != nil {
			return attendanceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(log)
	}
}

type checkOutRequest struct {
	StaffID string `json:"staff_id" validate:"required,min=3,max=50"`
}

// CheckOut closes today's open attendance log and reports hours worked.
func CheckOut(svc service.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req checkOutRequest
		if !parseAndValidate(c, &req) {
			return nil
		}

		log, err := svc.CheckOut(c.UserContext(), req.StaffID, time.Time{})
		if err != nil {
			return attendanceError(c, err)
		}
		return c.JSON(fiber.Map{
			"log":            log,
			"duration_hours": log.DurationHours(),
		})
	}
}

// DailySummary reports one calendar day of attendance; `date` defaults to
// today.
func DailySummary(svc service.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		date := time.Now().UTC()
		if raw := c.Query("date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "date must be YYYY-MM-DD")
			}
			date = parsed
		}

		summary, err := svc.Day(c.UserContext(), date)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(summary)
	}
}

// PersonHistory returns one person's attendance in a date range, defaulting
// to the last 30 days.
func PersonHistory(svc service.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		to := time.Now().UTC()
		from := to.AddDate(0, 0, -30)

		if raw := c.Query("start_date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "start_date must be YYYY-MM-DD")
			}
			from = parsed
		}
		if raw := c.Query("end_date"); raw != "" {
			parsed, err := time.Parse("2006-01-02", raw)
			if err != nil {
				return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "end_date must be YYYY-MM-DD")
			}
			// Inclusive end date: extend to the end of that day.
			to = parsed.AddDate(0, 0, 1)
		}
		if !from.Before(to) {
			return writeError(c, fiber.StatusBadRequest, "INVALID_DATE", "start_date must be before end_date")
		}

		logs, err := svc.History(c.UserContext(), c.Params("staff_id"), from, to)
		if err != nil {
			return attendanceError(c, err)
		}

		var totalHours float64
		for i := range logs {
			totalHours += logs[i].DurationHours()
		}
		return c.JSON(fiber.Map{
			"logs":        logs,
			"count":       len(logs),
			"total_hours": totalHours,
		})
	}
}

// RecentBadgeScans returns the latest badge-method logs, for the gate
// display.
func RecentBadgeScans(svc service.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hours := c.QueryInt("hours", 8)
		limit := c.QueryInt("limit", 50)

		logs, err := svc.RecentScans(c.UserContext(), model.MethodBadge, hours, limit)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"scans": logs, "count": len(logs)})
	}
}

type syncBatchRequest struct {
	Entries []service.SyncEntry `json:"entries" validate:"required,min=1,dive"`
}

// SyncAttendance ingests a batch of offline-captured logs. Duplicates are
// skipped so devices can re-send whole batches after connectivity gaps.
func SyncAttendance(svc service.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req syncBatchRequest
		if !parseAndValidate(c, &req) {
			return nil
		}

		res, err := svc.Sync(c.UserContext(), req.Entries)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(res)
	}
}

// attendanceError maps attendance service errors onto HTTP statuses.
func attendanceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStaffIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "staff_id is required")
	case errors.Is(err, service.ErrPersonNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
	case errors.Is(err, service.ErrPersonInactive):
		return writeError(c, fiber.StatusBadRequest, "PERSON_INACTIVE", "person is inactive")
	case errors.Is(err, service.ErrInvalidMethod):
		return writeError(c, fiber.StatusBadRequest, "INVALID_METHOD", "method must be badge, face or manual")
	case errors.Is(err, service.ErrAlreadyCheckedIn):
		return writeError(c, fiber.StatusConflict, "ALREADY_CHECKED_IN", "already checked in today")
	case errors.Is(err, service.ErrNotCheckedIn):
		return writeError(c, fiber.StatusNotFound, "NOT_CHECKED_IN", "no open check-in today")
	case errors.Is(err, service.ErrCheckOutBeforeIn):
		return writeError(c, fiber.StatusBadRequest, "INVALID_TIME", "check-out before check-in")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
