package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is a singleton validator instance
var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct checks the `validate` tags on v.
func Struct(v any) error {
	if err := validateStruct(v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

func validateStruct(v any) error {
	if v == nil {
		return errors.New("value cannot be nil")
	}
	return formatValidationError(validate.Struct(v))
}

// formatValidationError converts validator errors to a more user-friendly format
func formatValidationError(err error) error {
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) {
		return err
	}

	msgs := make([]string, 0, len(validationErrs))
	for _, e := range validationErrs {
		field := e.Namespace()
		param := e.Param()

		switch e.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s: field is required", field))
		case "min", "gte":
			msgs = append(msgs, fmt.Sprintf("%s: must be at least %s, got %v", field, param, e.Value()))
		case "max", "lte":
			msgs = append(msgs, fmt.Sprintf("%s: must not exceed %s, got %v", field, param, e.Value()))
		case "gt":
			msgs = append(msgs, fmt.Sprintf("%s: must be greater than %s, got %v", field, param, e.Value()))
		case "dive":
			msgs = append(msgs, fmt.Sprintf("%s: invalid element in array", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s: validation failed (%s)", field, e.Tag()))
		}
	}
	return errors.New(strings.Join(msgs, "; "))
}
