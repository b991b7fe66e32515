// Package domainerrors provides coded errors raised by domain services.
//
// Stores return infrastructure sentinels (pkg/platform/sentinel); services
// translate those into coded errors so transports can map them to status
// codes without string matching.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error. Codes are stable API surface; transports
// and clients branch on them.
type Code string

const (
	// Lifecycle precondition violations.
	CodeInvalidCoordinates     Code = "invalid_coordinates"
	CodeNotTokenOwner          Code = "not_token_owner"
	CodeAlreadyUnlocked        Code = "already_unlocked"
	CodeLocationMismatch       Code = "location_mismatch"
	CodeNotFound               Code = "not_found"
	CodeNotEligibleForTransfer Code = "not_eligible_for_transfer"

	// Reserved: present in the error space but raised by no current
	// operation. Kept for forward compatibility with admin actions and
	// duplicate-registration checks.
	CodeOwnerOnly     Code = "owner_only"
	CodeAlreadyExists Code = "already_exists"

	// General input and infrastructure failures.
	CodeInvalidInput Code = "invalid_input"
	CodeUnauthorized Code = "unauthorized"
	CodeTimeout      Code = "timeout"
	CodeInternal     Code = "internal"
)

// Error is a coded domain error. It optionally wraps an underlying cause.
type Error struct {
	ErrCode Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.ErrCode, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.ErrCode, e.Message)
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a coded error with no underlying cause.
func New(code Code, message string) error {
	return &Error{ErrCode: code, Message: message}
}

// Newf creates a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{ErrCode: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error. The cause remains
// reachable via errors.Is / errors.As.
func Wrap(err error, code Code, message string) error {
	if err == nil {
		return nil
	}
	return &Error{ErrCode: code, Message: message, cause: err}
}

// Is reports whether err carries the given code anywhere in its chain.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.ErrCode == code
	}
	return false
}

// CodeOf extracts the code from err, or CodeInternal when err is not a coded
// domain error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.ErrCode
	}
	return CodeInternal
}
