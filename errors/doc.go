// Package errors provides the structured error type used across fusekit.
//
// Every failure the library itself raises is an *AppError carrying a
// machine-readable code (BUFFER_OVERFLOW, PROTOCOL_VIOLATION, ...). Errors
// returned or panicked by user-supplied stage functions are never wrapped;
// they reach the pipeline's consumer exactly as produced.
package errors
