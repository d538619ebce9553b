package handler

import (
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/http/middleware"
	"agroapi/internal/model"
	"agroapi/internal/service"
)

// SubmitOnboarding accepts a field registration: form fields plus optional
// face photo and ID document uploads.
func SubmitOnboarding(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		in := service.SubmitOnboardingInput{
			FirstName:  c.FormValue("first_name"),
			LastName:   c.FormValue("last_name"),
			Mobile:     c.FormValue("mobile"),
			Address:    c.FormValue("address"),
			Role:       c.FormValue("role"),
			IDNumber:   c.FormValue("id_number"),
			EntityType: c.FormValue("entity_type"),
		}
		if err := validate.Struct(in); err != nil {
			return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "first_name and role are required")
		}

		var open []multipart.File
		defer func() {
			for _, f := range open {
				f.Close()
			}
		}()

		if fh, err := c.FormFile("face_photo"); err == nil {
			f, openErr := fh.Open()
			if openErr != nil {
				return writeError(c, fiber.StatusBadRequest, "UPLOAD_ERROR", "cannot open face photo")
			}
			open = append(open, f)
			in.FacePhoto = f
			in.FaceContentType = fh.Header.Get("Content-Type")
		}
		if fh, err := c.FormFile("document"); err == nil {
			f, openErr := fh.Open()
			if openErr != nil {
				return writeError(c, fiber.StatusBadRequest, "UPLOAD_ERROR", "cannot open document")
			}
			open = append(open, f)
			in.Document = f
			in.DocumentContentType = fh.Header.Get("Content-Type")
		}

		req, err := svc.Submit(c.UserContext(), in)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrNameRequired):
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field first_name is required")
			case errors.Is(err, service.ErrUnknownRole):
				return writeError(c, fiber.StatusBadRequest, "UNKNOWN_ROLE", "field role is required")
			default:
				return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
			}
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

// PendingOnboarding lists requests awaiting review.
func PendingOnboarding(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := c.Query("status", model.OnboardingPending)
		reqs, err := svc.List(c.UserContext(), status)
		if err != nil {
			if errors.Is(err, service.ErrInvalidStatusFilter) {
				return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status filter")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"requests": reqs, "count": len(reqs)})
	}
}

// GetOnboarding returns one request by ID.
func GetOnboarding(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return onboardingError(c, err)
		}
		return c.JSON(req)
	}
}

type reviewNoteRequest struct {
	Note string `json:"note" validate:"max=512"`
}

// ApproveOnboarding creates the person record for a pending request.
func ApproveOnboarding(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req reviewNoteRequest
		if len(c.Body()) > 0 && !parseAndValidate(c, &req) {
			return nil
		}

		in := service.ReviewOnboardingInput{Approve: true, Note: req.Note}
		if claims := middleware.ClaimsFrom(c); claims != nil {
			in.ReviewedBy = claims.Subject
		}

		res, err := svc.Review(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return onboardingError(c, err)
		}
		return c.JSON(res)
	}
}

// RejectOnboarding closes a pending request without creating a person.
func RejectOnboarding(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req reviewNoteRequest
		if len(c.Body()) > 0 && !parseAndValidate(c, &req) {
			return nil
		}

		in := service.ReviewOnboardingInput{Approve: false, Note: req.Note}
		if claims := middleware.ClaimsFrom(c); claims != nil {
			in.ReviewedBy = claims.Subject
		}

		res, err := svc.Review(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return onboardingError(c, err)
		}
		return c.JSON(res)
	}
}

// OnboardingStats reports request counts per status.
func OnboardingStats(svc service.OnboardingService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		stats, err := svc.Stats(c.UserContext())
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"by_status": stats})
	}
}

func onboardingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "id is required")
	case errors.Is(err, service.ErrOnboardingNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "onboarding request not found")
	case errors.Is(err, service.ErrAlreadyReviewed):
		return writeError(c, fiber.StatusConflict, "ALREADY_REVIEWED", "request was already reviewed")
	case errors.Is(err, service.ErrUnknownRole):
		return writeError(c, fiber.StatusBadRequest, "UNKNOWN_ROLE", "request carries an unknown role")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
