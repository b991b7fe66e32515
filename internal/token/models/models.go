package models

import (
	"unicode/utf8"

	id "geostake/pkg/domain"
	dErrors "geostake/pkg/domain-errors"
)

// Metadata bounds for minted tokens.
const (
	MaxNameBytes        = 50
	MaxDescriptionRunes = 256
)

// AssetRecord is one live token: a unique id permanently bound to a staked
// coordinate. Locked tokens require proximity verification before transfer.
type AssetRecord struct {
	ID          id.TokenID
	Latitude    id.Coordinate
	Longitude   id.Coordinate
	Name        string
	Description string
	Locked      bool
	// StakeSequence is the execution-context sequence number (block height
	// stand-in) recorded at mint or last restake time.
	StakeSequence uint64
}

// UnlockRecord is a permanent audit marker: identity X has at some point
// passed proximity verification for token Y. Never deleted, even after burn.
type UnlockRecord struct {
	Identity id.Identity
	TokenID  id.TokenID
}

// ValidateName enforces the name bound: ASCII, at most MaxNameBytes bytes.
//
// Errors: returns CodeInvalidInput on violation.
func ValidateName(name string) error {
	if len(name) > MaxNameBytes {
		return dErrors.Newf(dErrors.CodeInvalidInput, "name exceeds %d bytes", MaxNameBytes)
	}
	for i := 0; i < len(name); i++ {
		if name[i] > 0x7f {
			return dErrors.New(dErrors.CodeInvalidInput, "name must be ASCII")
		}
	}
	return nil
}

// ValidateDescription enforces the description bound: valid UTF-8, at most
// MaxDescriptionRunes code points.
//
// Errors: returns CodeInvalidInput on violation.
func ValidateDescription(description string) error {
	if !utf8.ValidString(description) {
		return dErrors.New(dErrors.CodeInvalidInput, "description must be valid UTF-8")
	}
	if utf8.RuneCountInString(description) > MaxDescriptionRunes {
		return dErrors.Newf(dErrors.CodeInvalidInput, "description exceeds %d code points", MaxDescriptionRunes)
	}
	return nil
}
