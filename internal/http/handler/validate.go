package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// Shared validator instance; validator.Validate caches struct metadata and
// is safe for concurrent use.
var validate = validator.New()

// validationMessage flattens validator field errors into one readable line,
// e.g. "field StaffID is required, field Mobile is invalid".
func validationMessage(errs validator.ValidationErrors) string {
	var msgs []string
	for _, e := range errs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", e.Field()))
		case "min":
			msgs = append(msgs, fmt.Sprintf("field %s is too short (min %s)", e.Field(), e.Param()))
		case "max":
			msgs = append(msgs, fmt.Sprintf("field %s is too long (max %s)", e.Field(), e.Param()))
		case "gt", "gte":
			msgs = append(msgs, fmt.Sprintf("field %s is out of range", e.Field()))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", e.Field()))
		}
	}
	return strings.Join(msgs, ", ")
}

// parseAndValidate decodes the JSON body into out and runs struct validation.
// On failure it writes the 400 response and returns false; handlers just
// return nil in that case.
func parseAndValidate(c *fiber.Ctx, out any) bool {
	if err := c.BodyParser(out); err != nil {
		writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "request body must be valid JSON")
		return false
	}
	if err := validate.Struct(out); err != nil {
		var fieldErrs validator.ValidationErrors
		if errors.As(err, &fieldErrs) {
			writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", validationMessage(fieldErrs))
		} else {
			writeError(c, fiber.StatusBadRequest, "VALIDATION_ERROR", "request body failed validation")
		}
		return false
	}
	return true
}
