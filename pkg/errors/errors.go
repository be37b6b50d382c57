// Package errors provides structured error types for netgraph.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and live server
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Error codes follow a hierarchical naming convention:
//   - INVALID_*: Input validation failures (malformed data, bad options)
//   - NOT_FOUND: Unknown node key in selection, search or focus
//   - NO_SURFACE: Rendering target unavailable at construction
//   - INTERNAL_*: Unexpected internal errors
//
// # Usage
//
//	err := errors.New(errors.ErrCodeNotFound, "unknown node %q", key)
//	if errors.Is(err, errors.ErrCodeNotFound) {
//	    // Surface to the caller, state is unchanged
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInvalidConfig, origErr, "load %s", path)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Input validation errors
	ErrCodeInvalidData   Code = "INVALID_DATA"
	ErrCodeInvalidKey    Code = "INVALID_KEY"
	ErrCodeInvalidConfig Code = "INVALID_CONFIG"
	ErrCodeInvalidFormat Code = "INVALID_FORMAT"

	// Resource not found errors
	ErrCodeNotFound     Code = "NOT_FOUND"
	ErrCodeFileNotFound Code = "FILE_NOT_FOUND"

	// Rendering errors
	ErrCodeNoSurface Code = "NO_SURFACE"

	// Internal errors
	ErrCodeInternal    Code = "INTERNAL_ERROR"
	ErrCodeUnsupported Code = "UNSUPPORTED"
)

// Error is a structured error with a code and optional cause.
type Error struct {
	Code    Code   // Machine-readable error code
	Message string // Human-readable message
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// New creates a new Error with the given code and formatted message.
func New(code Code, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(code Code, cause error, format string, args ...any) *Error {
	return &Error{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// NotFound is shorthand for an ErrCodeNotFound error about a node key.
func NotFound(key string) *Error {
	return New(ErrCodeNotFound, "unknown node %q", key)
}

// Is reports whether err has the given error code.
// It unwraps the error chain looking for an *Error with a matching code.
func Is(err error, code Code) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Code == code
	}
	return false
}

// GetCode extracts the error code from an error, if available.
// Returns empty string if the error is not an *Error.
func GetCode(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message without the code prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Message
	}
	return err.Error()
}

// DataError reports input records that were dropped during ingestion or
// filtering. It is recoverable: the graph that produced it is still usable.
type DataError struct {
	DroppedEdges   int // Edges whose endpoints were unknown
	DuplicateNodes int // Nodes whose key was already taken
	InvalidNodes   int // Nodes with an empty or malformed key
}

// Error implements the error interface.
func (e *DataError) Error() string {
	return fmt.Sprintf("%s: dropped %d edges, %d duplicate nodes, %d invalid nodes",
		ErrCodeInvalidData, e.DroppedEdges, e.DuplicateNodes, e.InvalidNodes)
}

// Code returns the error code for this error type.
func (e *DataError) Code() Code {
	return ErrCodeInvalidData
}

// Empty reports whether nothing was dropped.
func (e *DataError) Empty() bool {
	return e.DroppedEdges == 0 && e.DuplicateNodes == 0 && e.InvalidNodes == 0
}
