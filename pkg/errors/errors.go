// Package errors provides structured error types for slotcraft.
//
// This package defines error codes and types that enable:
//   - Consistent error handling across the engine, CLI and HTTP API
//   - Machine-readable error codes for programmatic handling
//   - User-friendly error messages
//   - Error wrapping with context preservation
//
// # Error Codes
//
// Template validation codes (DUPLICATE_SLOT_ID, EMPTY_SLOT_SET, OUT_OF_BOUNDS_GEOMETRY,
// EMPTY_ACCEPTED_TYPES, INVALID_OPACITY) are reported in lists and never abort
// a computation. Matching and lookup codes (NO_ELIGIBLE_SLOT, *_NOT_FOUND) are
// returned as single errors. INVALID_* codes reject malformed input.
//
// # Usage
//
//	err := errors.New(errors.ErrCodeTemplateNotFound, "template %q not found", id)
//	if errors.Is(err, errors.ErrCodeTemplateNotFound) {
//	    // Handle lookup miss
//	}
//
//	// Wrap existing errors
//	err := errors.Wrap(errors.ErrCodeInternal, origErr, "save design %s", id)
package errors

import (
	"errors"
	"fmt"
)

// Code represents a machine-readable error code.
type Code string

// Error codes for different error categories.
const (
	// Template validation
	ErrCodeDuplicateSlotID    Code = "DUPLICATE_SLOT_ID"
	ErrCodeEmptySlotSet       Code = "EMPTY_SLOT_SET"
	ErrCodeOutOfBounds        Code = "OUT_OF_BOUNDS_GEOMETRY"
	ErrCodeEmptyAcceptedTypes Code = "EMPTY_ACCEPTED_TYPES"
	ErrCodeInvalidOpacity     Code = "INVALID_OPACITY"
	ErrCodeInvalidTemplate    Code = "INVALID_TEMPLATE"

	// Matching
	ErrCodeNoEligibleSlot Code = "NO_ELIGIBLE_SLOT"

	// Input validation errors
	ErrCodeInvalidInput Code = "INVALID_INPUT"
	ErrCodeInvalidEnum  Code = "INVALID_ENUM"
	ErrCodeInvalidID    Code = "INVALID_ID"
	ErrCodeInvalidPath  Code = "INVALID_PATH"

	// Resource not found errors
	ErrCodeNotFound         Code = "NOT_FOUND"
	ErrCodeTemplateNotFound Code = "TEMPLATE_NOT_FOUND"
	ErrCodeAssetNotFound    Code = "ASSET_NOT_FOUND"
	ErrCodeDesignNotFound   Code = "DESIGN_NOT_FOUND"
	ErrCodeFileNotFound     Code = "FILE_NOT_FOUND"

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

// IsNotFound reports whether err carries any of the not-found codes.
func IsNotFound(err error) bool {
	switch GetCode(err) {
	case ErrCodeNotFound, ErrCodeTemplateNotFound, ErrCodeAssetNotFound,
		ErrCodeDesignNotFound, ErrCodeFileNotFound:
		return true
	}
	return false
}

// IsValidation reports whether err is a template validation or input error.
func IsValidation(err error) bool {
	switch GetCode(err) {
	case ErrCodeDuplicateSlotID, ErrCodeEmptySlotSet, ErrCodeOutOfBounds,
		ErrCodeEmptyAcceptedTypes, ErrCodeInvalidOpacity, ErrCodeInvalidTemplate,
		ErrCodeInvalidInput, ErrCodeInvalidEnum, ErrCodeInvalidID, ErrCodeInvalidPath:
		return true
	}
	return false
}
