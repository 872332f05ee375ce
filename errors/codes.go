package errors

// ErrorCode represents a machine-readable error code.
type ErrorCode string

// Stream errors
const (
	// ErrCodeBufferOverflow indicates a buffer with the Error overflow strategy exceeded its capacity.
	ErrCodeBufferOverflow ErrorCode = "BUFFER_OVERFLOW"
	// ErrCodeProtocolViolation indicates a stage or boundary broke the push/pull protocol.
	ErrCodeProtocolViolation ErrorCode = "PROTOCOL_VIOLATION"
	// ErrCodeStagePanic indicates a stage handler panicked with a non-error value.
	ErrCodeStagePanic ErrorCode = "STAGE_PANIC"
	// ErrCodeStalled indicates the pipeline can make no further progress.
	ErrCodeStalled ErrorCode = "STALLED"
	// ErrCodeCancelled indicates the pipeline was cancelled before completion.
	ErrCodeCancelled ErrorCode = "CANCELLED"
)

// Validation errors
const (
	// ErrCodeInvalidInput indicates an invalid constructor argument.
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	// ErrCodeInvalidConfig indicates the loaded configuration failed validation.
	ErrCodeInvalidConfig ErrorCode = "INVALID_CONFIG"
)

// Internal errors
const (
	// ErrCodeInternal indicates an unexpected internal error.
	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

var retryableCodes = map[ErrorCode]bool{
	ErrCodeBufferOverflow: true,
	ErrCodeCancelled:      true,
}

// IsRetryableCode returns true if rerunning the pipeline may succeed.
func IsRetryableCode(code ErrorCode) bool {
	return retryableCodes[code]
}
