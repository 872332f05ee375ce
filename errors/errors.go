package errors

import (
	stderrors "errors"
	"fmt"
)

// AppError is the unified library error type.
type AppError struct {
	// Code is a machine-readable error code.
	Code ErrorCode `json:"code"`
	// Message is a human-readable error message.
	Message string `json:"message"`
	// Retryable indicates if rerunning the pipeline may succeed.
	Retryable bool `json:"retryable"`
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

// WithCause sets the underlying cause of the error and returns the receiver.
func (e *AppError) WithCause(cause error) *AppError {
	e.Cause = cause
	return e
}

// WithDetails merges the provided details into the error and returns the receiver.
func (e *AppError) WithDetails(details map[string]any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	for k, v := range details {
		e.Details[k] = v
	}
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
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Retryable: IsRetryableCode(code),
	}
}

// --- Stream error constructors ---

// BufferOverflow creates the error a Buffer stage with the Error strategy fails with.
func BufferOverflow(capacity int) *AppError {
	return &AppError{
		Code: ErrCodeBufferOverflow, Message: fmt.Sprintf("Buffer overflow (max capacity was: %d)", capacity),
		Retryable: true,
		Details:   map[string]any{"capacity": capacity},
	}
}

// ProtocolViolation creates an error for a stage or boundary that broke the push/pull protocol.
func ProtocolViolation(stage, reason string) *AppError {
	return &AppError{
		Code: ErrCodeProtocolViolation, Message: fmt.Sprintf("stage %s violated the stream protocol: %s", stage, reason),
		Details: map[string]any{"stage": stage},
	}
}

// StagePanic creates an error for a handler that panicked with a non-error value.
func StagePanic(stage string, value any) *AppError {
	return &AppError{
		Code: ErrCodeStagePanic, Message: fmt.Sprintf("stage %s panicked: %v", stage, value),
		Details: map[string]any{"stage": stage},
	}
}

// Stalled creates an error for a pipeline that is waiting on demand nobody will issue.
func Stalled(stage string) *AppError {
	return &AppError{
		Code: ErrCodeStalled, Message: fmt.Sprintf("pipeline stalled: stage %s holds with no outstanding upstream demand", stage),
		Details: map[string]any{"stage": stage},
	}
}

// Cancelled creates an error for a pipeline stopped by its context.
func Cancelled(cause error) *AppError {
	return &AppError{
		Code: ErrCodeCancelled, Message: "pipeline cancelled",
		Retryable: true, Cause: cause,
	}
}

// InvalidInput creates a new AppError for an invalid constructor argument.
func InvalidInput(field, reason string) *AppError {
	details := make(map[string]any)
	if field != "" {
		details["field"] = field
	}
	return &AppError{
		Code: ErrCodeInvalidInput, Message: fmt.Sprintf("Invalid input: %s", reason),
		Details: details,
	}
}

// InvalidConfig creates a new AppError for configuration that failed validation.
func InvalidConfig(message string) *AppError {
	return &AppError{
		Code: ErrCodeInvalidConfig, Message: message,
	}
}

// Internal creates a new AppError for an unexpected internal error.
func Internal(cause error) *AppError {
	return &AppError{
		Code: ErrCodeInternal, Message: "An unexpected error occurred.",
		Cause: cause,
	}
}

// --- Inspection helpers ---

// IsAppError checks if an error is an AppError.
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible.
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsCode reports whether err is, or wraps, an AppError with the given code.
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.Code == code
}

// Wrap converts any error to an AppError. AppErrors (wrapped or not) are
// returned unchanged; other errors become INTERNAL_ERROR with the original as cause.
func Wrap(err error) *AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := AsAppError(err); ok {
		return appErr
	}
	return Internal(err)
}
