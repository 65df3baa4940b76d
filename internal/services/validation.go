package services

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ErrValidation matches every *ValidationError with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a missing, malformed or out of range field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...interface{}) error {
	return &ValidationError{Field: field, Message: fmt.Sprintf(format, args...)}
}

var fieldValidator = validator.New(validator.WithRequiredStructEnabled())

// requiredText trims value and checks it is present and at most max runes long.
func requiredText(field, value string, max int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", invalid(field, "%s is required", field)
	}
	return value, maxText(field, value, max)
}

func maxText(field, value string, max int) error {
	if utf8.RuneCountInString(value) > max {
		return invalid(field, "%s must be at most %d characters", field, max)
	}
	return nil
}

func validateEmail(email string) error {
	if err := fieldValidator.Var(email, "required,email,max=255"); err != nil {
		return invalid("email", "email must be a valid email address")
	}
	return nil
}
