package httpapi

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator instance shared by all outgoing payload checks
var validate = validator.New()

// FieldError describes one failed field check, suitable for inline display.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError blocks a request before it reaches the network. It is a
// local validation failure, never a remote error.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// IsValidation reports whether err is a local validation failure.
func IsValidation(err error) bool {
	_, ok := err.(*ValidationError)
	return ok
}

// checkPayload validates a request payload against its struct tags and
// converts validator output into field/message pairs.
func checkPayload(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("payload validation failed: %w", err)
	}

	fields := make([]FieldError, 0, len(validationErrors))
	for _, e := range validationErrors {
		fields = append(fields, FieldError{
			Field:   e.Field(),
			Message: fieldMessage(e),
		})
	}
	return &ValidationError{Fields: fields}
}

func fieldMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "This field is required"
	case "email":
		return "Invalid email format"
	case "min":
		return "Value is too short"
	case "max":
		return "Value is too long"
	case "gte":
		return "Value must be greater than or equal to " + e.Param()
	case "lte":
		return "Value must be less than or equal to " + e.Param()
	case "numeric":
		return "Value must be numeric"
	default:
		return "Invalid value"
	}
}
