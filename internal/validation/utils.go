package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/deppfellow/meetapp/internal/errs"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// MessageValidationFails is the single, detail-free message clients get for
// any malformed or schema-invalid payload.
const MessageValidationFails = "Validation fails"

// Validatable is implemented by request payload types that know how to validate themselves.
//
// Typical pattern:
// - Define a request struct with validator tags (`validate:"required,email"`)
// - Implement Validate() error that runs validation.Struct(req)
// - Append CustomValidationErrors for rules that tags cannot express
type Validatable interface {
	Validate() error
}

// CustomValidationError represents a single validation issue for a specific field.
// This is used for validation errors that cannot be expressed via validator tags.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors is a slice of custom validation errors that satisfies error.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

var validate = newValidator()

// newValidator builds the shared validator. Field names in errors follow the
// JSON tag so they match what the client actually sent.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates s against its `validate` tags.
// It is safe for concurrent use.
func Struct(s any) error {
	return validate.Struct(s)
}

// Bind populates payload from the request path params, query (GET/DELETE) and body.
//
// Binding failures (malformed JSON, a date that does not parse, a non-numeric id)
// are reported as a 400 with the generic validation message; the underlying
// reason is returned to the caller's logger through the wrapped error chain only.
func Bind(c echo.Context, payload any) error {
	if err := c.Bind(payload); err != nil {
		return fmt.Errorf("%w: %v", errs.NewBadRequestError(MessageValidationFails, true, nil, nil, nil), err)
	}
	return nil
}

// Validate runs v.Validate() and returns its field errors, or nil when v is valid.
func Validate(v Validatable) []errs.FieldError {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return nil
}

func extractValidationError(err error) []errs.FieldError {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
	}

	var validationErrors validator.ValidationErrors
	errors.As(err, &validationErrors)

	for _, err := range validationErrors {
		field := err.Field()
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "min":
			// min is a length for strings and a value for numbers.
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "email":
			msg = "must be a valid email address"

		case "eqfield":
			msg = fmt.Sprintf("must match %s", strings.ToLower(err.Param()))

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s:%s", field, err.Tag(), err.Param())
			} else {
				msg = fmt.Sprintf("%s: %s", field, err.Tag())
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: field,
			Error: msg,
		})
	}

	// Not a validator error at all: still a failure, just without field detail.
	if len(fieldErrors) == 0 {
		fieldErrors = append(fieldErrors, errs.FieldError{Field: "", Error: err.Error()})
	}

	return fieldErrors
}
