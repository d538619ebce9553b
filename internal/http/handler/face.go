package handler

import (
	"errors"
	"image"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/face"
	"agroapi/internal/http/middleware"
	"agroapi/internal/model"
	"agroapi/internal/service"
)

// faceUpload pulls the person_id field and image file out of a multipart
// form. The file handle must be closed by the caller.
func faceUpload(c *fiber.Ctx) (string, multipart.File, string, error) {
	personID := c.FormValue("person_id")
	if personID == "" {
		return "", nil, "", writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field person_id is required")
	}

	fh, err := c.FormFile("image")
	if err != nil {
		return "", nil, "", writeError(c, fiber.StatusBadRequest, "IMAGE_REQUIRED", "image file is required")
	}
	f, err := fh.Open()
	if err != nil {
		return "", nil, "", writeError(c, fiber.StatusBadRequest, "IMAGE_REQUIRED", "cannot open uploaded image")
	}
	return personID, f, fh.Header.Get("Content-Type"), nil
}

// RegisterFace enrolls a staff member's face from a multipart capture.
func RegisterFace(svc service.FaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		personID, f, contentType, err := faceUpload(c)
		if err != nil || f == nil {
			return err
		}
		defer f.Close()

		res, enrollErr := svc.Enroll(c.UserContext(), personID, f, contentType)
		if enrollErr != nil {
			return faceError(c, enrollErr)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	}
}

// VerifyFace compares a probe image against the enrolled embedding.
func VerifyFace(svc service.FaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		personID, f, _, err := faceUpload(c)
		if err != nil || f == nil {
			return err
		}
		defer f.Close()

		res, verifyErr := svc.Verify(c.UserContext(), personID, f)
		if verifyErr != nil {
			return faceError(c, verifyErr)
		}
		return c.JSON(res)
	}
}

// FaceStatus reports enrollment state for a staff member.
func FaceStatus(svc service.FaceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		res, err := svc.Status(c.UserContext(), c.Params("staff_id"))
		if err != nil {
			return faceError(c, err)
		}
		return c.JSON(res)
	}
}

// FaceCheckIn verifies a face and, on a match, opens today's attendance log
// with the similarity recorded as confidence.
func FaceCheckIn(faces service.FaceService, attendance service.AttendanceService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		personID, f, _, err := faceUpload(c)
		if err != nil || f == nil {
			return err
		}
		defer f.Close()

		res, verifyErr := faces.Verify(c.UserContext(), personID, f)
		if verifyErr != nil {
			return faceError(c, verifyErr)
		}
		if !res.Match {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"request_id": requestIDFromCtx(c),
				"error": errorEnvelope{
					Code:    "FACE_MISMATCH",
					Message: "face similarity below threshold",
				},
				"similarity": res.Similarity,
				"threshold":  res.Threshold,
			})
		}

		in := service.CheckInInput{
			StaffID:    res.StaffID,
			Method:     model.MethodFace,
			Location:   c.FormValue("location"),
			Confidence: &res.Similarity,
			DeviceID:   c.FormValue("device_id"),
		}
		if claims := middleware.ClaimsFrom(c); claims != nil {
			in.RecordedBy = claims.Subject
		}

		log, checkInErr := attendance.CheckIn(c.UserContext(), in)
		if checkInErr != nil {
			return attendanceError(c, checkInErr)
		}
		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"log":        log,
			"similarity": res.Similarity,
			"threshold":  res.Threshold,
		})
	}
}

func faceError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrStaffIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "person_id is required")
	case errors.Is(err, service.ErrPersonNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "person not found")
	case errors.Is(err, service.ErrPersonInactive):
		return writeError(c, fiber.StatusBadRequest, "PERSON_INACTIVE", "person is inactive")
	case errors.Is(err, service.ErrNotEnrolled):
		return writeError(c, fiber.StatusNotFound, "NOT_ENROLLED", "no face enrolled for this person")
	case errors.Is(err, service.ErrFaceImageRequired):
		return writeError(c, fiber.StatusBadRequest, "IMAGE_REQUIRED", "face image is required")
	case errors.Is(err, service.ErrImageTooLarge):
		return writeError(c, fiber.StatusRequestEntityTooLarge, "IMAGE_TOO_LARGE", "face image exceeds size limit")
	case errors.Is(err, image.ErrFormat), errors.Is(err, face.ErrEmptyImage):
		return writeError(c, fiber.StatusBadRequest, "INVALID_IMAGE", "image must be a valid JPEG or PNG")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
