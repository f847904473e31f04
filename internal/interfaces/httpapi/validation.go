package httpapi

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/match-center/internal/usecase"
)

type fieldViolation struct {
	Field   string
	Message string
}

// requestValidationError carries one message per rejected field and unwraps
// to usecase.ErrInvalidInput.
type requestValidationError struct {
	violations []fieldViolation
}

func (e *requestValidationError) Error() string {
	parts := make([]string, 0, len(e.violations))
	for _, v := range e.violations {
		parts = append(parts, v.Message)
	}
	return fmt.Sprintf("%s: validation failed: %s", usecase.ErrInvalidInput, strings.Join(parts, "; "))
}

func (e *requestValidationError) Unwrap() error {
	return usecase.ErrInvalidInput
}

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

func newRequestValidationError(errs validator.ValidationErrors) *requestValidationError {
	out := &requestValidationError{violations: make([]fieldViolation, 0, len(errs))}
	for _, fe := range errs {
		out.violations = append(out.violations, fieldViolation{
			Field:   fe.Field(),
			Message: violationMessage(fe),
		})
	}
	return out
}

func invalidField(field, message string) *requestValidationError {
	return &requestValidationError{violations: []fieldViolation{{Field: field, Message: field + " " + message}}}
}

func violationMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min":
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "datetime":
		return field + " must be an RFC3339 timestamp"
	case "url":
		return field + " must be a valid URL"
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
