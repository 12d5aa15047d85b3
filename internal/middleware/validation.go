package middleware

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Use JSON tag names for field names in errors
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

type ValidationDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ParseAndValidate decodes the JSON body into out and validates its struct tags.
// On failure it writes a 400 response and returns ok=false; the handler should return the error.
func ParseAndValidate(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if details := ValidateStruct(out); len(details) > 0 {
		return false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Request validation failed",
			"details": details,
		})
	}
	return true, nil
}

// ValidateStruct returns one detail per failed constraint, or nil.
func ValidateStruct(s interface{}) []ValidationDetail {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []ValidationDetail{{Message: err.Error()}}
	}

	details := make([]ValidationDetail, 0, len(validationErrors))
	for _, e := range validationErrors {
		details = append(details, ValidationDetail{
			Field:   e.Field(),
			Message: getValidationMessage(e),
		})
	}
	return details
}

// getValidationMessage returns a human-readable validation message
func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Must be at least " + e.Param() + " characters"
	case "max":
		return "Must be at most " + e.Param() + " characters"
	case "excludesall":
		return "Must not contain any of: " + e.Param()
	default:
		return "Invalid value"
	}
}
