package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"agroapi/internal/auth"
	"agroapi/internal/http/middleware"
	"agroapi/internal/model"
	"agroapi/internal/service"
)

// CreateProvision raises a supply request in pending status.
func CreateProvision(svc service.ProvisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.CreateProvisionInput
		if !parseAndValidate(c, &in) {
			return nil
		}
		if claims := middleware.ClaimsFrom(c); claims != nil {
			in.RequestedBy = claims.Subject
		}

		req, err := svc.Create(c.UserContext(), in)
		if err != nil {
			if errors.Is(err, service.ErrItemTypeRequired) {
				return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "field item_type is required")
			}
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.Status(fiber.StatusCreated).JSON(req)
	}
}

// PendingProvisions returns the caller's work queue: plant managers see
// unreviewed requests, admins see reviewed ones awaiting final approval.
func PendingProvisions(svc service.ProvisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := model.ProvisionPending
		if claims := middleware.ClaimsFrom(c); claims != nil && claims.Role == auth.RoleAdmin {
			status = model.ProvisionReviewed
		}

		reqs, err := svc.List(c.UserContext(), status)
		if err != nil {
			return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		}
		return c.JSON(fiber.Map{"requests": reqs, "count": len(reqs), "stage": status})
	}
}

// GetProvision returns one request by ID.
func GetProvision(svc service.ProvisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req, err := svc.Get(c.UserContext(), c.Params("id"))
		if err != nil {
			return provisionError(c, err)
		}
		return c.JSON(req)
	}
}

// ReviewProvision records the plant manager's decision on a pending request.
func ReviewProvision(svc service.ProvisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ReviewProvisionInput
		if !parseAndValidate(c, &in) {
			return nil
		}
		if claims := middleware.ClaimsFrom(c); claims != nil {
			in.ReviewedBy = claims.Subject
		}

		req, err := svc.Review(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return provisionError(c, err)
		}
		return c.JSON(req)
	}
}

// ApproveProvision records the admin's final decision and optional vendor
// assignment on a reviewed request.
func ApproveProvision(svc service.ProvisionService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var in service.ApproveProvisionInput
		if !parseAndValidate(c, &in) {
			return nil
		}
		if claims := middleware.ClaimsFrom(c); claims != nil {
			in.ApprovedBy = claims.Subject
		}

		req, err := svc.Approve(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return provisionError(c, err)
		}
		return c.JSON(req)
	}
}

func provisionError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, service.ErrIDRequired):
		return writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "id is required")
	case errors.Is(err, service.ErrProvisionNotFound):
		return writeError(c, fiber.StatusNotFound, "NOT_FOUND", "provision request not found")
	case errors.Is(err, service.ErrInvalidTransition):
		return writeError(c, fiber.StatusConflict, "INVALID_TRANSITION", "request is not in the right stage for this action")
	case errors.Is(err, service.ErrInvalidStatusFilter):
		return writeError(c, fiber.StatusBadRequest, "INVALID_STATUS", "invalid status filter")
	default:
		return writeError(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
