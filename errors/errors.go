// Package errors provides error handling for VACAI.
//
// This package re-exports github.com/cockroachdb/errors, providing:
//   - Stack traces for debugging
//   - Error wrapping and context
//   - PII-safe error formatting
//
// Usage:
//
//	// Create new error
//	err := errors.New("something went wrong")
//
//	// Wrap with context
//	if err := doSomething(); err != nil {
//	    return errors.Wrap(err, "failed to do something")
//	}
//
//	// Check errors
//	if errors.Is(err, errors.ErrTransient) {
//	    // retry
//	}
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
	Is     = crdb.Is
	IsAny  = crdb.IsAny
	As     = crdb.As
	Unwrap = crdb.Unwrap
)

// Failure taxonomy for the posting pipeline.
// Use these with errors.Is() for type-safe error checking.
// Wrap these with errors.Wrap() to add context while preserving the type.
var (
	// ErrNotFound indicates the requested record does not exist
	ErrNotFound = New("not found")

	// ErrDuplicate indicates an already-ingested posting URL.
	// Not a failure: duplicate insertion is the steady-state outcome of
	// incremental scanning.
	ErrDuplicate = New("duplicate posting")

	// ErrValidation indicates a malformed input posting or a malformed
	// scoring response. The item is skipped and the batch continues.
	ErrValidation = New("validation failure")

	// ErrTransient indicates a network or rate-limit failure from an
	// external collaborator, retryable per the orchestrator's policy.
	ErrTransient = New("transient failure")

	// ErrCapacityReached indicates the per-run job budget was hit.
	// Not a failure: a normal early stop reported in the run summary.
	ErrCapacityReached = New("capacity reached")

	// ErrStoreUnavailable indicates the persistence layer is unreachable
	// or a transaction cannot commit. Fatal to the current invocation.
	ErrStoreUnavailable = New("store unavailable")

	// ErrLockHeld indicates another invocation holds the pipeline lock
	ErrLockHeld = New("pipeline lock held")
)

// IsDuplicate checks if an error is or wraps ErrDuplicate
func IsDuplicate(err error) bool {
	return err != nil && Is(err, ErrDuplicate)
}

// IsValidation checks if an error is or wraps ErrValidation
func IsValidation(err error) bool {
	return err != nil && Is(err, ErrValidation)
}

// IsTransient checks if an error is or wraps ErrTransient
func IsTransient(err error) bool {
	return err != nil && Is(err, ErrTransient)
}

// IsStoreUnavailable checks if an error is or wraps ErrStoreUnavailable
func IsStoreUnavailable(err error) bool {
	return err != nil && Is(err, ErrStoreUnavailable)
}

// IsNotFound checks if an error is or wraps ErrNotFound
func IsNotFound(err error) bool {
	return err != nil && Is(err, ErrNotFound)
}

// NewValidationError creates a validation error with a formatted message
func NewValidationError(format string, args ...interface{}) error {
	return Wrap(ErrValidation, Newf(format, args...).Error())
}

// NewTransientError creates a transient error with a formatted message
func NewTransientError(format string, args ...interface{}) error {
	return Wrap(ErrTransient, Newf(format, args...).Error())
}

// WrapTransient wraps an error as a transient failure with context
func WrapTransient(err error, context string) error {
	return Wrap(Wrap(ErrTransient, err.Error()), context)
}

// WrapStoreUnavailable wraps an error as a fatal store failure with context
func WrapStoreUnavailable(err error, context string) error {
	return Wrap(Wrap(ErrStoreUnavailable, err.Error()), context)
}
