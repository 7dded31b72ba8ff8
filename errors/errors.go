package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// AppError is the unified application error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if a manual re-attempt can succeed.
	Retryable bool `json:"retryable"`
	// HTTPStatus is the status the console answers with for this error.
	HTTPStatus int `json:"-"`
	// Details contains additional context for the error.
	Details map[string]any `json:"details,omitempty"`
	// Cause is the underlying error that caused this error.
	Cause error `json:"-"`
}

// Error returns the string representation of the error.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause of the error.
func (e *AppError) Unwrap() error { return e.Cause }

// Is matches another *AppError by code, so errors.Is(err, &AppError{Code: ...})
// works without comparing messages.
func (e *AppError) Is(target error) bool {
	var t *AppError
	if !stderrors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetail sets a single detail key-value pair and returns the receiver.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// New creates a new AppError with automatic retryable detection.
func New(code ErrorCode, message string, httpStatus int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: httpStatus,
		Retryable:  IsRetryableCode(code),
	}
}

// --- Constructors ---

// ConfigValidation reports a rejected configuration field.
func ConfigValidation(field, reason string) *AppError {
	return &AppError{
		Code: ErrCodeConfigValidation, Message: reason,
		HTTPStatus: http.StatusUnprocessableEntity,
		Details:    map[string]any{"field": field},
	}
}

// ConfigMissing reports that the pipeline cannot run before setup.
func ConfigMissing() *AppError {
	return &AppError{
		Code: ErrCodeConfigValidation, Message: "Configuration has not been saved yet.",
		HTTPStatus: http.StatusPreconditionFailed,
	}
}

// PermissionDenied reports that microphone access was refused.
func PermissionDenied(cause error) *AppError {
	return &AppError{
		Code: ErrCodePermissionDenied, Message: "Microphone access was denied.",
		HTTPStatus: http.StatusForbidden, Cause: cause,
	}
}

// DeviceUnavailable reports that no capture device could be opened.
func DeviceUnavailable(cause error) *AppError {
	return &AppError{
		Code: ErrCodeDeviceUnavailable, Message: "No microphone is available.",
		HTTPStatus: http.StatusServiceUnavailable, Retryable: true, Cause: cause,
	}
}

// AuthFailed reports an upstream credential rejection.
func AuthFailed(service string, status int) *AppError {
	return &AppError{
		Code: ErrCodeAuth, Message: fmt.Sprintf("The %s service rejected the configured API key.", service),
		HTTPStatus: http.StatusBadGateway,
		Details:    map[string]any{"service": service, "status": status},
	}
}

// Upstream reports a non-success status or transport failure from service.
// A zero status means the request never got a response.
func Upstream(service string, status int, cause error) *AppError {
	details := map[string]any{"service": service}
	if status != 0 {
		details["status"] = status
	}
	return &AppError{
		Code: ErrCodeUpstream, Message: fmt.Sprintf("The %s service request failed.", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: details, Cause: cause,
	}
}

// EmptyResult reports a response without usable text.
func EmptyResult(service string) *AppError {
	return &AppError{
		Code: ErrCodeEmptyResult, Message: fmt.Sprintf("The %s service returned no text.", service),
		HTTPStatus: http.StatusBadGateway, Retryable: true,
		Details: map[string]any{"service": service},
	}
}

// InvalidState reports a transition request the state machine does not allow.
func InvalidState(action, state string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidState, Message: fmt.Sprintf("Cannot %s while %s.", action, state),
		HTTPStatus: http.StatusConflict,
		Details:    map[string]any{"action": action, "state": state},
	}
}

// NotFound creates a new AppError for a resource that was not found.
func NotFound(resource, id string) *AppError {
	details := map[string]any{"resource": resource}
	if id != "" {
		details["id"] = id
	}
	return &AppError{
		Code: ErrCodeNotFound, Message: fmt.Sprintf("The requested %s was not found.", resource),
		HTTPStatus: http.StatusNotFound, Details: details,
	}
}

// AlreadyExists creates a new AppError for a resource that already exists.
func AlreadyExists(message string) *AppError {
	return &AppError{
		Code: ErrCodeAlreadyExists, Message: message,
		HTTPStatus: http.StatusConflict,
	}
}

// InvalidInput creates a new AppError for invalid input.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		HTTPStatus: http.StatusBadRequest, Details: details,
	}
}

// Unauthorized creates a new AppError for unauthorized access.
func Unauthorized(reason string) *AppError {
	if reason == "" {
		reason = "Authentication required."
	}
	return &AppError{
		Code: ErrCodeUnauthorized, Message: reason,
		HTTPStatus: http.StatusUnauthorized,
	}
}

// RateLimited creates a new AppError for a client over its request budget.
func RateLimited() *AppError {
	return &AppError{
		Code: ErrCodeRateLimited, Message: "Too many requests, try again later.",
		Retryable: true, HTTPStatus: http.StatusTooManyRequests,
	}
}

// Internal creates a new AppError for an internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		HTTPStatus: http.StatusInternalServerError, Cause: cause,
	}
}

// HasCode reports whether err is an AppError carrying code.
func HasCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}
