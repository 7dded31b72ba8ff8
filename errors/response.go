package errors

import stderrors "errors"

// ErrorResponse is the body of every console error:
//
//	{"error": {"code": "CONFIG_VALIDATION", "message": "...", "retryable": false}}
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// ErrorBody is the client-visible part of an AppError. Causes stay
// server-side.
type ErrorBody struct {
	Code      ErrorCode      `json:"code"`
	Message   string         `json:"message"`
	Retryable bool           `json:"retryable"`
	Details   map[string]any `json:"details,omitempty"`
}

// ToResponse builds the response body for e.
func (e *AppError) ToResponse() ErrorResponse {
	return ErrorResponse{Error: ErrorBody{
		Code:      e.Code,
		Message:   e.Message,
		Retryable: e.Retryable,
		Details:   e.Details,
	}}
}

// AsAppError finds the first *AppError in err's chain.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	ok := stderrors.As(err, &appErr)
	return appErr, ok
}

// From returns the *AppError in err's chain, or wraps err as INTERNAL_ERROR.
func From(err error) *AppError {
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
