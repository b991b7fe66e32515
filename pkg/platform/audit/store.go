package audit

import (
	"context"

	id "geostake/pkg/domain"
)

// Store is an append-only sink for audit events. Implementations must never
// mutate or delete accepted events.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByIdentity(ctx context.Context, identity id.Identity) ([]Event, error)
}
