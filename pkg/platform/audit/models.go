package audit

import (
	"time"

	"github.com/google/uuid"

	id "geostake/pkg/domain"
)

// EventCategory classifies audit events by their primary purpose. This
// enables different retention policies, storage backends, and routing.
type EventCategory string

const (
	// CategoryCompliance covers events with legal significance: ownership
	// changes and destruction. These require long retention.
	CategoryCompliance EventCategory = "compliance"

	// CategoryOperations covers events useful for debugging and operational
	// visibility: mints, unlocks, restakes. These can be sampled.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from domain logic to capture key lifecycle actions. Keep
// it transport-agnostic so stores and sinks can fan out.
type Event struct {
	ID        uuid.UUID
	Category  EventCategory
	Timestamp time.Time
	// Identity is the caller that performed the action.
	Identity id.Identity
	TokenID  id.TokenID
	Action   Action
	// Recipient is set on transfers only.
	Recipient id.Identity
	// Sequence is the execution-context sequence recorded with the action.
	Sequence  uint64
	RequestID string
}

// Lifecycle actions recorded in the audit trail.
type Action string

const (
	EventTokenMinted      Action = "token_minted"
	EventTokenUnlocked    Action = "token_unlocked"
	EventTokenTransferred Action = "token_transferred"
	EventTokenRestaked    Action = "token_restaked"
	EventTokenBurned      Action = "token_burned"
)

// CategoryFor maps an action to its event category.
func CategoryFor(action Action) EventCategory {
	switch action {
	case EventTokenTransferred, EventTokenBurned:
		return CategoryCompliance
	default:
		return CategoryOperations
	}
}
