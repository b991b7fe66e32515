package domain

import (
	"strconv"

	dErrors "geostake/pkg/domain-errors"
)

// TokenID identifies a staked token. IDs are allocated by the counter store,
// start at 1, and are never reused, including after a burn.
//
// Invariant: a TokenID of 0 is never a live token; treat it as "unset".
type TokenID uint64

// ParseTokenID constructs a TokenID from external input (path params, queries).
//
// Errors: returns CodeInvalidInput when the value is empty, non-numeric, or
// zero; no other errors are expected.
func ParseTokenID(s string) (TokenID, error) {
	if s == "" {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id cannot be empty")
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id must be a positive integer")
	}
	if n == 0 {
		return 0, dErrors.New(dErrors.CodeInvalidInput, "token id must be greater than zero")
	}
	return TokenID(n), nil
}

func (t TokenID) String() string {
	return strconv.FormatUint(uint64(t), 10)
}

// IsZero reports whether the id is unset.
func (t TokenID) IsZero() bool {
	return t == 0
}

// Identity is the opaque, comparable caller/owner identity supplied by the
// execution context. The registry never inspects its contents; equality is
// the only operation the domain performs on it.
type Identity string

// ParseIdentity constructs an Identity from external input.
//
// Errors: returns CodeInvalidInput when the value is empty.
func ParseIdentity(s string) (Identity, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "identity cannot be empty")
	}
	return Identity(s), nil
}

func (i Identity) String() string {
	return string(i)
}

// IsZero reports whether the identity is unset.
func (i Identity) IsZero() bool {
	return i == ""
}
