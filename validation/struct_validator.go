package validation

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/kbukum/voicedoc/errors"
)

var (
	validate *validator.Validate
	once     sync.Once
)

// FieldError represents a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report json names so messages match the wire format.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// Validate validates request input. Failures are INVALID_INPUT errors.
func Validate(s any) error {
	return check(s, errors.ErrCodeInvalidInput)
}

// ValidateConfig validates user configuration. Failures are
// CONFIG_VALIDATION errors.
func ValidateConfig(s any) error {
	return check(s, errors.ErrCodeConfigValidation)
}

// Var validates a single value against a tag such as "required,email".
func Var(field string, value any, tag string) error {
	err := getValidator().Var(value, tag)
	if err == nil {
		return nil
	}
	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) || len(ve) == 0 {
		return errors.InvalidInput(field, "is invalid")
	}
	return errors.InvalidInput(field, field+" "+formatValidationError(ve[0]))
}

func check(s any, code errors.ErrorCode) error {
	err := getValidator().Struct(s)
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if !stderrors.As(err, &ve) || len(ve) == 0 {
		return errors.InvalidInput("", "validation failed")
	}

	fields := make([]FieldError, 0, len(ve))
	messages := make([]string, 0, len(ve))
	for _, e := range ve {
		fe := FieldError{Field: e.Field(), Message: formatValidationError(e)}
		fields = append(fields, fe)
		messages = append(messages, fe.Field+" "+fe.Message)
	}

	var appErr *errors.AppError
	msg := strings.Join(messages, "; ")
	if code == errors.ErrCodeConfigValidation {
		appErr = errors.ConfigValidation(fields[0].Field, msg)
	} else {
		appErr = errors.InvalidInput(fields[0].Field, msg)
	}
	return appErr.WithDetail("fields", fields)
}

// Fields returns the per-field failures carried by a validation error.
func Fields(err error) []FieldError {
	appErr, ok := errors.AsAppError(err)
	if !ok {
		return nil
	}
	fields, _ := appErr.Details["fields"].([]FieldError)
	return fields
}

func formatValidationError(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + e.Param() + " characters"
	case "max":
		return "must be at most " + e.Param() + " characters"
	case "url":
		return "must be a valid URL"
	case "startswith":
		return "must start with " + e.Param()
	case "oneof":
		return "must be one of: " + e.Param()
	default:
		return "is invalid"
	}
}
