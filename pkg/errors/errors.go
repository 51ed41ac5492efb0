// Package errors provides structured error types for iconsprite.
//
// Every failure the sprite builder can observe belongs to one closed set of
// kinds. Per-file and per-icon failures are carried to the reporter as
// *Error values with the offending path or icon name attached, so operator
// output can be rendered uniformly. Only a handful of kinds are fatal.
//
// # Kinds
//
//   - PARSE_FAILURE: a source file could not be read or parsed during scanning
//   - ICON_READ_FAILURE: an icon file could not be read or processed
//   - SOURCE_RESOLUTION_FAILURE: the installed icon set could not be located (fatal)
//   - INVALID_ICON_NAME: a discovered name is not a safe file stem
//   - INVALID_CONFIG: the configuration file or environment is invalid (fatal)
//   - WRITE_FAILURE: the sprite could not be persisted (fatal)
//
// # Usage
//
//	err := errors.New(errors.KindInvalidConfig, "precision out of range: %d", p)
//	if errors.Is(err, errors.KindInvalidConfig) {
//	    // Handle configuration error
//	}
//
//	// Wrap existing errors and attach context
//	err := errors.Wrap(errors.KindIconRead, origErr, "failed to read icon").WithIcon("home")
package errors

import (
	"errors"
	"fmt"
)

// Kind identifies the category of a failure.
type Kind string

const (
	KindParse            Kind = "PARSE_FAILURE"
	KindIconRead         Kind = "ICON_READ_FAILURE"
	KindSourceResolution Kind = "SOURCE_RESOLUTION_FAILURE"
	KindInvalidIconName  Kind = "INVALID_ICON_NAME"
	KindInvalidConfig    Kind = "INVALID_CONFIG"
	KindWrite            Kind = "WRITE_FAILURE"
)

// Error is a structured error with a kind, optional context and cause.
type Error struct {
	Kind    Kind   // Failure category
	Message string // Human-readable message
	Path    string // File the failure relates to (optional)
	Icon    string // Icon name the failure relates to (optional)
	Cause   error  // Underlying error (optional)
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying cause for errors.Is/As compatibility.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithPath attaches a file path and returns e.
func (e *Error) WithPath(path string) *Error {
	e.Path = path
	return e
}

// WithIcon attaches an icon name and returns e.
func (e *Error) WithIcon(name string) *Error {
	e.Icon = name
	return e
}

// New creates a new Error with the given kind and formatted message.
func New(kind Kind, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
	}
}

// Wrap creates a new Error wrapping an existing error.
func Wrap(kind Kind, cause error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Message: fmt.Sprintf(format, args...),
		Cause:   cause,
	}
}

// Is reports whether err has the given kind.
// It unwraps the error chain looking for an *Error with a matching kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// KindOf extracts the kind from an error, if available.
// Returns empty string if the error is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// UserMessage returns a user-friendly message for the error.
// For *Error types, returns the message and cause without the kind prefix.
// For other errors, returns the error string as-is.
func UserMessage(err error) string {
	var e *Error
	if errors.As(err, &e) {
		if e.Cause != nil {
			return fmt.Sprintf("%s: %v", e.Message, e.Cause)
		}
		return e.Message
	}
	return err.Error()
}
