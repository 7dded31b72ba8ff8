package httpclient

import (
	"errors"
	"fmt"
)

// ErrorCode classifies HTTP client errors.
type ErrorCode int

const (
	// ErrCodeTimeout indicates a request or connection timeout.
	ErrCodeTimeout ErrorCode = iota
	// ErrCodeConnection indicates a connection failure (refused, DNS, etc).
	ErrCodeConnection
	// ErrCodeAuth indicates an authentication/authorization failure (401/403).
	ErrCodeAuth
	// ErrCodeClient indicates any other 4xx status.
	ErrCodeClient
	// ErrCodeServer indicates a 5xx or unexpected status.
	ErrCodeServer
	// ErrCodeRequest indicates the request could not be built.
	ErrCodeRequest
)

func (c ErrorCode) String() string {
	switch c {
	case ErrCodeTimeout:
		return "timeout"
	case ErrCodeConnection:
		return "connection"
	case ErrCodeAuth:
		return "auth"
	case ErrCodeClient:
		return "client"
	case ErrCodeServer:
		return "server"
	case ErrCodeRequest:
		return "request"
	default:
		return "unknown"
	}
}

// Error is a classified HTTP client error.
type Error struct {
	// StatusCode is the HTTP status code, 0 for transport-level errors.
	StatusCode int
	Code       ErrorCode
	Message    string
	// Body is the response body, if any.
	Body []byte
	Err  error
}

func (e *Error) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("httpclient: %s (HTTP %d): %s", e.Code, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("httpclient: %s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewTimeoutError creates a timeout error.
func NewTimeoutError(err error) *Error {
	return &Error{Code: ErrCodeTimeout, Message: err.Error(), Err: err}
}

// NewConnectionError creates a connection error.
func NewConnectionError(err error) *Error {
	return &Error{Code: ErrCodeConnection, Message: err.Error(), Err: err}
}

// NewRequestError creates an error for a request that could not be built.
func NewRequestError(err error) *Error {
	return &Error{Code: ErrCodeRequest, Message: err.Error(), Err: err}
}

// ClassifyStatusCode converts an HTTP status into a typed error. It returns
// nil for 2xx.
func ClassifyStatusCode(statusCode int, body []byte) *Error {
	e := &Error{StatusCode: statusCode, Message: fmt.Sprintf("HTTP %d", statusCode), Body: body}
	switch {
	case statusCode >= 200 && statusCode < 300:
		return nil
	case statusCode == 401 || statusCode == 403:
		e.Code = ErrCodeAuth
	case statusCode >= 400 && statusCode < 500:
		e.Code = ErrCodeClient
	default:
		e.Code = ErrCodeServer
	}
	return e
}

// IsAuth checks if err is a 401/403 error.
func IsAuth(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeAuth
}

// IsTimeout checks if err is a timeout error.
func IsTimeout(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Code == ErrCodeTimeout
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
