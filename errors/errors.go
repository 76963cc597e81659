// Package errors provides error handling for qualify.
//
// This package re-exports github.com/cockroachdb/errors so every layer
// wraps with stack traces and attaches user hints the same way:
//
//	if err := doc.Text(ctx); err != nil {
//	    return errors.Wrap(err, "read document")
//	}
//
//	return errors.WithHint(err, "reopen the file in the editor")
//
// Completion failures are classified by three sentinels. Only
// ErrMalformedItem escalates to the host; ErrUnresolvableSpan is absorbed
// by falling back to the verbatim edit and ErrStalePosition abandons the
// edit without touching the buffer.
//
// For full documentation see: https://pkg.go.dev/github.com/cockroachdb/errors
package errors

import (
	crdb "github.com/cockroachdb/errors"
)

// Core error creation and wrapping
var (
	New          = crdb.New
	Newf         = crdb.Newf
	Wrap         = crdb.Wrap
	Wrapf        = crdb.Wrapf
	WithStack    = crdb.WithStack
	WithMessage  = crdb.WithMessage
	WithMessagef = crdb.WithMessagef
	Mark         = crdb.Mark
)

// User-facing messages and details
var (
	WithHint    = crdb.WithHint
	WithHintf   = crdb.WithHintf
	WithDetail  = crdb.WithDetail
	WithDetailf = crdb.WithDetailf
)

// Error inspection
var (
	Is            = crdb.Is
	IsAny         = crdb.IsAny
	As            = crdb.As
	Unwrap        = crdb.Unwrap
	UnwrapAll     = crdb.UnwrapAll
	GetAllHints   = crdb.GetAllHints
	GetAllDetails = crdb.GetAllDetails
	FlattenHints  = crdb.FlattenHints
)

// AssertionFailedf reports a broken internal invariant.
var AssertionFailedf = crdb.AssertionFailedf

// Completion error classes.
var (
	// ErrMalformedItem means a pending completion item is missing a
	// property or carries one that cannot be decoded. Never recovered.
	ErrMalformedItem = New("malformed completion item")

	// ErrUnresolvableSpan means no syntax node covers the inserted text, or
	// the tracking marker could not be located after simplification.
	ErrUnresolvableSpan = New("unresolvable span")

	// ErrStalePosition means the document changed so the recorded span no
	// longer lies inside it.
	ErrStalePosition = New("stale position")
)

// General purpose sentinels.
var (
	// ErrNotFound indicates the requested resource does not exist
	ErrNotFound = New("not found")

	// ErrInvalidRequest indicates the request was malformed or invalid
	ErrInvalidRequest = New("invalid request")
)

// IsMalformedItem checks if an error is or wraps ErrMalformedItem
func IsMalformedItem(err error) bool {
	return err != nil && Is(err, ErrMalformedItem)
}

// IsUnresolvableSpan checks if an error is or wraps ErrUnresolvableSpan
func IsUnresolvableSpan(err error) bool {
	return err != nil && Is(err, ErrUnresolvableSpan)
}

// IsStalePosition checks if an error is or wraps ErrStalePosition
func IsStalePosition(err error) bool {
	return err != nil && Is(err, ErrStalePosition)
}

// IsRecoverable reports whether a completion error is handled without
// surfacing to the host error channel.
func IsRecoverable(err error) bool {
	return IsAny(err, ErrUnresolvableSpan, ErrStalePosition)
}

// IsNotFoundError checks if an error is or wraps ErrNotFound
func IsNotFoundError(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// IsInvalidRequestError checks if an error is or wraps ErrInvalidRequest
func IsInvalidRequestError(err error) bool {
	return err != nil && Is(err, ErrInvalidRequest)
}

// NewMalformedItemError creates a malformed-item error with a formatted message
func NewMalformedItemError(format string, args ...interface{}) error {
	return Wrapf(ErrMalformedItem, format, args...)
}

// NewStalePositionError creates a stale-position error with a formatted message
func NewStalePositionError(format string, args ...interface{}) error {
	return Wrapf(ErrStalePosition, format, args...)
}

// NewUnresolvableSpanError creates an unresolvable-span error with a formatted message
func NewUnresolvableSpanError(format string, args ...interface{}) error {
	return Wrapf(ErrUnresolvableSpan, format, args...)
}

// NewNotFoundError creates a not-found error with a formatted message
func NewNotFoundError(format string, args ...interface{}) error {
	return Wrapf(ErrNotFound, format, args...)
}

// NewInvalidRequestError creates an invalid-request error with a formatted message
func NewInvalidRequestError(format string, args ...interface{}) error {
	return Wrapf(ErrInvalidRequest, format, args...)
}
