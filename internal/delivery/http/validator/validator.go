// Package validator adapts go-playground/validator to echo's Validator interface.
package validator

import (
	"fmt"
	"strings"

	domainerrors "taskhub/internal/domain/errors"
	"taskhub/internal/errors"

	"github.com/go-playground/validator/v10"
)

type echoValidator struct {
	validate *validator.Validate
}

// New returns a validator ready to be assigned to echo.Echo.Validator.
func New() *echoValidator {
	return &echoValidator{validate: validator.New()}
}

// Validate satisfies the echo.Validator interface. Violations come back as
// an AppError so the central error handler renders them as a 400.
func (ev *echoValidator) Validate(i any) error {
	if err := ev.validate.Struct(i); err != nil {
		var violations validator.ValidationErrors
		if errors.As(err, &violations) {
			msgs := make([]string, 0, len(violations))
			for _, fieldErr := range violations {
				msgs = append(msgs, fieldError(fieldErr))
			}

			return domainerrors.ErrValidationFailed.WithDetails(strings.Join(msgs, "; "))
		}

		return errors.Wrap(err, "failed to validate request")
	}

	return nil
}

// fieldError converts a single ValidationError into a human-readable message.
func fieldError(fieldErr validator.FieldError) string {
	field := strings.ToLower(fieldErr.Field())
	switch fieldErr.Tag() {
	case "required":
		return field + " is required"
	case "email":
		return field + " must be a valid email"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fieldErr.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fieldErr.Param())
	default:
		return fmt.Sprintf("%s failed validation (%s)", field, fieldErr.Tag())
	}
}
