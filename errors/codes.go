package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Setup and input errors
const (
	// ErrCodeConfigValidation indicates a missing or malformed configuration value.
	ErrCodeConfigValidation ErrorCode = "CONFIG_VALIDATION"
	// ErrCodeInvalidInput indicates the request input is invalid.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeNotFound indicates the requested resource was not found.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeAlreadyExists indicates the resource already exists.
	ErrCodeAlreadyExists ErrorCode = "ALREADY_EXISTS"
)

// Microphone errors
const (
	// ErrCodePermissionDenied indicates the platform refused microphone access.
	ErrCodePermissionDenied ErrorCode = "PERMISSION_DENIED"
	// ErrCodeDeviceUnavailable indicates no usable capture device exists.
	ErrCodeDeviceUnavailable ErrorCode = "DEVICE_UNAVAILABLE"
)

// Upstream service errors
const (
	// ErrCodeAuth indicates the upstream rejected the configured credential.
	ErrCodeAuth ErrorCode = "AUTH_ERROR"
	// ErrCodeUpstream indicates a non-success status or transport failure.
	ErrCodeUpstream ErrorCode = "UPSTREAM_ERROR"
	// ErrCodeEmptyResult indicates a well-formed response that carried no text.
	ErrCodeEmptyResult ErrorCode = "EMPTY_RESULT"
)

// Pipeline and identity errors
const (
	// ErrCodeInvalidState indicates a transition not allowed from the current state.
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"
	// ErrCodeUnauthorized indicates missing or bad credentials.
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	// ErrCodeRateLimited indicates too many requests from one client.
	ErrCodeRateLimited ErrorCode = "RATE_LIMITED"
	// ErrCodeInternal indicates an internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Nothing is retried automatically. The flag tells a human whether trying
// again by hand can help.
var retryableCodes = map[ErrorCode]bool{
	ErrCodeUpstream:          true,
	ErrCodeEmptyResult:       true,
	ErrCodeDeviceUnavailable: true,
	ErrCodeRateLimited:       true,
}

// IsRetryableCode returns true if repeating the operation manually may succeed.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
