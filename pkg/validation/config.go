package validation

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is wrapped by every error this package returns, so callers can
// tell configuration failures apart from runtime ones with errors.Is.
var ErrInvalidConfig = errors.New("invalid configuration")

// ConfigValidator provides a fluent interface for validating configuration values.
// It collects all validation errors rather than failing on the first one.
type ConfigValidator struct {
	errors []error
	name   string // config struct name for error messages
}

// NewConfigValidator creates a new config validator with the given config name.
func NewConfigValidator(configName string) *ConfigValidator {
	return &ConfigValidator{
		name:   configName,
		errors: make([]error, 0),
	}
}

func (cv *ConfigValidator) addf(format string, args ...any) {
	cv.errors = append(cv.errors, fmt.Errorf(format, args...))
}

// Required validates that a string field is not empty.
func (cv *ConfigValidator) Required(field, value string) *ConfigValidator {
	if value == "" {
		cv.addf("%s.%s: required field is empty", cv.name, field)
	}
	return cv
}

// MinInt validates that an int field is at least the minimum value.
func (cv *ConfigValidator) MinInt(field string, value, min int) *ConfigValidator {
	if value < min {
		cv.addf("%s.%s: value %d is below minimum %d", cv.name, field, value, min)
	}
	return cv
}

// MaxInt validates that an int field does not exceed the maximum value.
func (cv *ConfigValidator) MaxInt(field string, value, max int) *ConfigValidator {
	if value > max {
		cv.addf("%s.%s: value %d exceeds maximum %d", cv.name, field, value, max)
	}
	return cv
}

// Positive validates that an int field is positive (> 0).
func (cv *ConfigValidator) Positive(field string, value int) *ConfigValidator {
	if value <= 0 {
		cv.addf("%s.%s: value %d must be positive", cv.name, field, value)
	}
	return cv
}

// NonNegative validates that an int field is non-negative (>= 0).
func (cv *ConfigValidator) NonNegative(field string, value int) *ConfigValidator {
	if value < 0 {
		cv.addf("%s.%s: value %d must be non-negative", cv.name, field, value)
	}
	return cv
}

// PositiveFloat validates that a float field is positive (> 0).
func (cv *ConfigValidator) PositiveFloat(field string, value float64) *ConfigValidator {
	if !(value > 0) || math.IsInf(value, 0) {
		cv.addf("%s.%s: value %g must be positive and finite", cv.name, field, value)
	}
	return cv
}

// NonNegativeFloat validates that a float field is non-negative (>= 0).
func (cv *ConfigValidator) NonNegativeFloat(field string, value float64) *ConfigValidator {
	if !(value >= 0) || math.IsInf(value, 0) {
		cv.addf("%s.%s: value %g must be non-negative and finite", cv.name, field, value)
	}
	return cv
}

// RangeFloat validates that a float field is within [min, max]. NaN always fails.
func (cv *ConfigValidator) RangeFloat(field string, value, min, max float64) *ConfigValidator {
	if !(value >= min && value <= max) {
		cv.addf("%s.%s: value %g is outside range [%g, %g]", cv.name, field, value, min, max)
	}
	return cv
}

// Probability validates that a float field is a probability in [0, 1].
func (cv *ConfigValidator) Probability(field string, value float64) *ConfigValidator {
	return cv.RangeFloat(field, value, 0, 1)
}

// LessOrEqualFloat validates that one float field does not exceed another.
func (cv *ConfigValidator) LessOrEqualFloat(lowField string, low float64, highField string, high float64) *ConfigValidator {
	if low > high {
		cv.addf("%s.%s: value %g exceeds %s (%g)", cv.name, lowField, low, highField, high)
	}
	return cv
}

// OneOf validates that a string field is one of the allowed values.
func (cv *ConfigValidator) OneOf(field, value string, allowed []string) *ConfigValidator {
	for _, a := range allowed {
		if value == a {
			return cv
		}
	}
	cv.addf("%s.%s: value %q must be one of %v", cv.name, field, value, allowed)
	return cv
}

// Custom applies a custom validation function.
func (cv *ConfigValidator) Custom(field string, fn func() error) *ConfigValidator {
	if err := fn(); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s.%s: %w", cv.name, field, err))
	}
	return cv
}

// Struct runs the struct-tag rules on v and records any failures.
func (cv *ConfigValidator) Struct(v any) *ConfigValidator {
	if err := validateStruct(v); err != nil {
		cv.errors = append(cv.errors, fmt.Errorf("%s: %w", cv.name, err))
	}
	return cv
}

// When conditionally applies validations if the condition is true.
func (cv *ConfigValidator) When(condition bool, validations func(*ConfigValidator)) *ConfigValidator {
	if condition {
		validations(cv)
	}
	return cv
}

// HasErrors returns true if any validation errors occurred.
func (cv *ConfigValidator) HasErrors() bool {
	return len(cv.errors) > 0
}

// Errors returns all validation errors.
func (cv *ConfigValidator) Errors() []error {
	return cv.errors
}

// Validate returns every collected error joined together and wrapped with
// ErrInvalidConfig, or nil.
func (cv *ConfigValidator) Validate() error {
	if len(cv.errors) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(cv.errors...))
}

// Validatable is an interface for types that can validate themselves.
type Validatable interface {
	Validate() error
}

// DefaultOr returns the value if it's non-zero, otherwise returns the default.
func DefaultOr[T comparable](value, defaultValue T) T {
	var zero T
	if value == zero {
		return defaultValue
	}
	return value
}

// DefaultOrInt returns the value if it's positive, otherwise returns the default.
func DefaultOrInt(value, defaultValue int) int {
	if value <= 0 {
		return defaultValue
	}
	return value
}
