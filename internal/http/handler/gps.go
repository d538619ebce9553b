package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/auth"
	"agroapi/internal/http/middleware"
	"agroapi/internal/service"
)

// CreateDispatch registers a vehicle trip from the estate to the plant.
func CreateDispatch(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateDispatchInput
		if !parseAndValidate(c, &in) {
			return nil
		}

		d, err := svc.CreateDispatch(c.UserContext(), in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrVehicleRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field vehicle_no is required")
			case errors.Is(err, service.ErrDriverRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field driver_id is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(d)
	}
}

// GetDispatch returns one dispatch by ID.
func GetDispatch(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.GetDispatch(c.UserContext(), c.Params("dispatch_id"))
		if err != nil {
			return gpsError(c, err)
		}
		return c.JSON(d)
	}
}

// ActiveDispatches returns trips currently being tracked.
func ActiveDispatches(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		list, err := svc.ActiveDispatches(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"dispatches": list, "count": len(list)})
	}
}

// callerDriverID returns the caller's staff ID when they hold the driver
// role. Managers get an empty ID, which skips the trip-ownership check.
func callerDriverID(c *fiber.Ctx) string {
	claims := middleware.ClaimsFrom(c)
	if claims != nil && claims.Role == auth.RoleDriver {
		return claims.Subject
	}
	return ""
}

// StartTracking begins location capture for a trip.
func StartTracking(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.StartTracking(c.UserContext(), c.Params("dispatch_id"), callerDriverID(c))
		if err != nil {
			return gpsError(c, err)
		}
		return c.JSON(fiber.Map{"message": "tracking started", "dispatch": d})
	}
}

// StopTracking pauses location capture without completing the trip.
func StopTracking(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.StopTracking(c.UserContext(), c.Params("dispatch_id"), callerDriverID(c))
		if err != nil {
			return gpsError(c, err)
		}
		return c.JSON(fiber.Map{"message": "tracking stopped", "dispatch": d})
	}
}

// CompleteTrip marks the dispatch delivered and stops tracking.
func CompleteTrip(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		d, err := svc.CompleteTrip(c.UserContext(), c.Params("dispatch_id"), callerDriverID(c))
		if err != nil {
			return gpsError(c, err)
		}
		return c.JSON(fiber.Map{"message": "trip completed", "dispatch": d})
	}
}

// LogLocation ingests one GPS sample and reports the geofence evaluation.
func LogLocation(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.LogLocationInput
		if !parseAndValidate(c, &in) {
			return nil
		}
		in.DriverID = callerDriverID(c)

		res, err := svc.LogLocation(c.UserContext(), in)
		if err != nil {
			return gpsError(c, err)
		}
		return c.JSON(res)
	}
}

type syncLocationsRequest struct {
	Points []service.LogLocationInput `json:"points" validate:"required,min=1,dive"`
}

// SyncLocations ingests a batch of offline-captured samples. Each point is
// deduplicated individually, so re-sent batches only add the missing ones.
func SyncLocations(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req syncLocationsRequest
		if !parseAndValidate(c, &req) {
			return nil
		}
		driverID := callerDriverID(c)

		synced, skipped, failed := 0, 0, 0
		var errMsgs []string
		for i := range req.Points {
			req.Points[i].DriverID = driverID
			res, err := svc.LogLocation(c.UserContext(), req.Points[i])
			switch {
			case err != nil:
				failed++
				if len(errMsgs) < 10 {
					errMsgs = append(errMsgs, err.Error())
				}
			case res.Created:
				synced++
			default:
				skipped++
			}
		}

		return c.JSON(fiber.Map{
			"synced":  synced,
			"skipped": skipped,
			"failed":  failed,
			"errors":  errMsgs,
		})
	}
}

// TrackDispatch returns the newest samples for a dispatch, capped at 100.
func TrackDispatch(svc service.GPSService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := c.QueryInt("limit", 100)
		if limit > 100 {
			limit = 100
		}

		logs, err := svc.Track(c.UserContext(), c.Params("dispatch_id"), limit)
		if err != nil {
			return gpsError(c, err)
		}
		return c.JSON(fiber.Map{"points": logs, "count": len(logs)})
	}
}

func gpsError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "dispatch id is required")
	case errors.Is(err, service.ErrDispatchNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "dispatch not found")
	case errors.Is(err, service.ErrNotTripDriver):
		return writeError(c, fiber.StatusForbidden, "NOT_TRIP_DRIVER", "dispatch belongs to another driver")
	case errors.Is(err, service.ErrTripCompleted):
		return writeError(c, fiber.StatusConflict, "TRIP_COMPLETED", "trip already completed")
	case errors.Is(err, service.ErrTrackingInactive):
		return writeError(c, fiber.StatusConflict, "TRACKING_INACTIVE", "tracking is not active for this dispatch")
	case errors.Is(err, service.ErrInvalidCoordinates):
		return writeError(c, fiber.StatusBadRequest, "INVALID_COORDINATES", "latitude or longitude out of range")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
