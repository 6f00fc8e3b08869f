package models

// Error codes
const (
	// General errors
	ErrCodeInvalidRequest     = "INVALID_REQUEST"
	ErrCodeForbidden          = "FORBIDDEN"
	ErrCodeInternalError      = "INTERNAL_ERROR"
	ErrCodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	ErrCodeRateLimitExceeded  = "RATE_LIMIT_EXCEEDED"
	ErrCodeInvalidHost        = "INVALID_HOST"

	// Authentication errors. Bad logins and every token verification
	// failure share one code so callers cannot probe for causes.
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"
	ErrCodeAccountLocked      = "ACCOUNT_LOCKED"

	// Delegation errors
	ErrCodeUpstreamError = "UPSTREAM_ERROR"
	ErrCodeQueueFull     = "QUEUE_FULL"
	ErrCodeTaskTimeout   = "TASK_TIMEOUT"
)
