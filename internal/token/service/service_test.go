package service

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/suite"

	"geostake/internal/token/store/asset"
	"geostake/internal/token/store/counter"
	"geostake/internal/token/store/ownership"
	"geostake/internal/token/store/unlockhistory"
	id "geostake/pkg/domain"
	dErrors "geostake/pkg/domain-errors"
	audit "geostake/pkg/platform/audit"
	"geostake/pkg/platform/audit/publisher"
	auditmem "geostake/pkg/platform/audit/store/memory"
	"geostake/pkg/requestcontext"
)

// =============================================================================
// Lifecycle Service Test Suite
// =============================================================================
// Justification for unit tests: the lifecycle service carries every invariant
// of the registry (paired record/ownership writes, lock-flag transitions,
// permanent unlock history, allocator monotonicity). These are much easier to
// exercise precisely here than through HTTP tests.

const (
	stakedLat id.Coordinate = 40748817
	stakedLon id.Coordinate = -73985428
)

type LifecycleSuite struct {
	suite.Suite
	assets   *asset.InMemoryStore
	owners   *ownership.InMemoryStore
	history  *unlockhistory.InMemoryStore
	counter  *counter.InMemoryStore
	auditlog *auditmem.InMemoryStore
	service  *Service
}

func TestLifecycleSuite(t *testing.T) {
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) SetupTest() {
	s.assets = asset.NewInMemoryStore()
	s.owners = ownership.NewInMemoryStore()
	s.history = unlockhistory.NewInMemoryStore()
	s.counter = counter.NewInMemoryStore()
	s.auditlog = auditmem.NewInMemoryStore()

	var err error
	s.service, err = New(
		s.assets, s.owners, s.history, s.counter,
		NewShardedTx(),
		slog.Default(),
		WithAuditPublisher(publisher.NewPublisher(s.auditlog)),
	)
	s.Require().NoError(err)
}

// as returns a context carrying the caller identity and sequence number the
// execution context would supply.
func (s *LifecycleSuite) as(caller string, seq uint64) context.Context {
	ctx := requestcontext.WithCaller(context.Background(), id.Identity(caller))
	return requestcontext.WithSequence(ctx, seq)
}

func (s *LifecycleSuite) mintAs(caller string, seq uint64) id.TokenID {
	tokenID, err := s.service.Mint(s.as(caller, seq), stakedLat, stakedLon, "Empire State Marker", "observation deck")
	s.Require().NoError(err)
	return tokenID
}

// =============================================================================
// Constructor Tests (Invariant Enforcement)
// =============================================================================

func (s *LifecycleSuite) TestNew() {
	s.Run("nil asset store returns error", func() {
		_, err := New(nil, s.owners, s.history, s.counter, NewShardedTx(), slog.Default())
		s.Error(err)
		s.Contains(err.Error(), "asset store is required")
	})

	s.Run("nil transaction runner returns error", func() {
		_, err := New(s.assets, s.owners, s.history, s.counter, nil, slog.Default())
		s.Error(err)
		s.Contains(err.Error(), "transaction runner is required")
	})

	s.Run("full wiring returns configured service", func() {
		svc, err := New(s.assets, s.owners, s.history, s.counter, NewShardedTx(), slog.Default())
		s.NoError(err)
		s.NotNil(svc)
	})
}

// =============================================================================
// Mint Tests
// =============================================================================

func (s *LifecycleSuite) TestMint() {
	s.Run("ids are contiguous from 1 regardless of caller", func() {
		s.Equal(id.TokenID(1), s.mintAs("alice", 10))
		s.Equal(id.TokenID(2), s.mintAs("bob", 10))
		s.Equal(id.TokenID(3), s.mintAs("alice", 11))

		last, err := s.service.LastTokenID(context.Background())
		s.NoError(err)
		s.Equal(id.TokenID(3), last)
	})

	s.Run("new token is locked and owned by the minter", func() {
		tokenID := s.mintAs("alice", 42)

		unlocked, err := s.service.IsUnlocked(context.Background(), tokenID)
		s.NoError(err)
		s.False(unlocked)

		owner, err := s.service.Owner(context.Background(), tokenID)
		s.NoError(err)
		s.Equal(id.Identity("alice"), owner)
	})

	s.Run("stake sequence records the execution sequence", func() {
		tokenID := s.mintAs("alice", 777)
		record, err := s.service.Location(context.Background(), tokenID)
		s.NoError(err)
		s.Equal(uint64(777), record.StakeSequence)
	})

	s.Run("boundary coordinates are inclusive", func() {
		_, err := s.service.Mint(s.as("alice", 1), 90_000_000, 180_000_000, "pole", "")
		s.NoError(err)
	})

	s.Run("latitude out of range fails invalid coordinates", func() {
		_, err := s.service.Mint(s.as("alice", 1), 90_000_001, 0, "too far north", "")
		s.True(dErrors.Is(err, dErrors.CodeInvalidCoordinates))
	})

	s.Run("longitude out of range fails invalid coordinates", func() {
		_, err := s.service.Mint(s.as("alice", 1), 0, 180_000_001, "too far east", "")
		s.True(dErrors.Is(err, dErrors.CodeInvalidCoordinates))
	})

	s.Run("failed mint does not consume an id", func() {
		before, err := s.service.LastTokenID(context.Background())
		s.Require().NoError(err)

		_, err = s.service.Mint(s.as("alice", 1), 90_000_001, 0, "bad", "")
		s.Error(err)

		after, err := s.service.LastTokenID(context.Background())
		s.NoError(err)
		s.Equal(before, after)
	})

	s.Run("name over 50 bytes is rejected", func() {
		long := make([]byte, 51)
		for i := range long {
			long[i] = 'a'
		}
		_, err := s.service.Mint(s.as("alice", 1), 0, 0, string(long), "")
		s.True(dErrors.Is(err, dErrors.CodeInvalidInput))
	})

	s.Run("missing caller identity is rejected", func() {
		_, err := s.service.Mint(context.Background(), 0, 0, "orphan", "")
		s.True(dErrors.Is(err, dErrors.CodeUnauthorized))
	})

	s.Run("mint emits an audit event", func() {
		s.mintAs("carol", 5)
		events, err := s.auditlog.ListByIdentity(context.Background(), "carol")
		s.NoError(err)
		s.Require().Len(events, 1)
		s.Equal(audit.EventTokenMinted, events[0].Action)
	})
}

// =============================================================================
// Unlock Tests
// =============================================================================

func (s *LifecycleSuite) TestUnlock() {
	s.Run("succeeds when deltas are strictly under tolerance", func() {
		tokenID := s.mintAs("alice", 1)
		// Deltas (33, 28).
		err := s.service.Unlock(s.as("alice", 2), tokenID, 40748850, -73985400)
		s.NoError(err)

		unlocked, err := s.service.IsUnlocked(context.Background(), tokenID)
		s.NoError(err)
		s.True(unlocked)
	})

	s.Run("delta exactly at tolerance fails location mismatch", func() {
		tokenID := s.mintAs("alice", 1)
		// Latitude delta of exactly 100.
		err := s.service.Unlock(s.as("alice", 2), tokenID, 40748917, -73985428)
		s.True(dErrors.Is(err, dErrors.CodeLocationMismatch))

		unlocked, err := s.service.IsUnlocked(context.Background(), tokenID)
		s.NoError(err)
		s.False(unlocked)
	})

	s.Run("unknown token fails not found", func() {
		err := s.service.Unlock(s.as("alice", 2), 99, stakedLat, stakedLon)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("non-owner fails not token owner", func() {
		tokenID := s.mintAs("alice", 1)
		err := s.service.Unlock(s.as("bob", 2), tokenID, stakedLat, stakedLon)
		s.True(dErrors.Is(err, dErrors.CodeNotTokenOwner))
	})

	s.Run("second unlock fails already unlocked", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Unlock(s.as("alice", 2), tokenID, stakedLat, stakedLon))

		err := s.service.Unlock(s.as("alice", 3), tokenID, stakedLat, stakedLon)
		s.True(dErrors.Is(err, dErrors.CodeAlreadyUnlocked))
	})

	s.Run("successful unlock marks history", func() {
		tokenID := s.mintAs("alice", 1)

		has, err := s.service.HasUnlocked(context.Background(), "alice", tokenID)
		s.NoError(err)
		s.False(has)

		s.Require().NoError(s.service.Unlock(s.as("alice", 2), tokenID, stakedLat, stakedLon))

		has, err = s.service.HasUnlocked(context.Background(), "alice", tokenID)
		s.NoError(err)
		s.True(has)
	})

	s.Run("failed unlock leaves no history", func() {
		tokenID := s.mintAs("alice", 1)
		err := s.service.Unlock(s.as("alice", 2), tokenID, 40748917, -73985428)
		s.Error(err)

		has, err := s.service.HasUnlocked(context.Background(), "alice", tokenID)
		s.NoError(err)
		s.False(has)
	})

	s.Run("unlock preserves coordinates and stake sequence", func() {
		tokenID := s.mintAs("alice", 41)
		s.Require().NoError(s.service.Unlock(s.as("alice", 52), tokenID, stakedLat, stakedLon))

		record, err := s.service.Location(context.Background(), tokenID)
		s.NoError(err)
		s.Equal(stakedLat, record.Latitude)
		s.Equal(stakedLon, record.Longitude)
		s.Equal(uint64(41), record.StakeSequence)
	})
}

// =============================================================================
// Transfer Tests
// =============================================================================

func (s *LifecycleSuite) TestTransfer() {
	s.Run("fails while locked", func() {
		tokenID := s.mintAs("alice", 1)
		err := s.service.Transfer(s.as("alice", 2), tokenID, "alice", "bob")
		s.True(dErrors.Is(err, dErrors.CodeNotEligibleForTransfer))

		owner, err := s.service.Owner(context.Background(), tokenID)
		s.NoError(err)
		s.Equal(id.Identity("alice"), owner)
	})

	s.Run("succeeds once unlocked and leaves locked unchanged", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Unlock(s.as("alice", 2), tokenID, stakedLat, stakedLon))

		err := s.service.Transfer(s.as("alice", 3), tokenID, "alice", "bob")
		s.NoError(err)

		owner, err := s.service.Owner(context.Background(), tokenID)
		s.NoError(err)
		s.Equal(id.Identity("bob"), owner)

		unlocked, err := s.service.IsUnlocked(context.Background(), tokenID)
		s.NoError(err)
		s.True(unlocked)
	})

	s.Run("caller must match sender", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Unlock(s.as("alice", 2), tokenID, stakedLat, stakedLon))

		err := s.service.Transfer(s.as("bob", 3), tokenID, "alice", "bob")
		s.True(dErrors.Is(err, dErrors.CodeNotTokenOwner))
	})

	s.Run("unknown token fails not found", func() {
		err := s.service.Transfer(s.as("alice", 1), 42, "alice", "bob")
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("transfer preserves unlock history of previous owner", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Unlock(s.as("alice", 2), tokenID, stakedLat, stakedLon))
		s.Require().NoError(s.service.Transfer(s.as("alice", 3), tokenID, "alice", "bob"))

		has, err := s.service.HasUnlocked(context.Background(), "alice", tokenID)
		s.NoError(err)
		s.True(has)

		has, err = s.service.HasUnlocked(context.Background(), "bob", tokenID)
		s.NoError(err)
		s.False(has)
	})

	s.Run("new owner must unlock again after a restake to transfer on", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Unlock(s.as("alice", 2), tokenID, stakedLat, stakedLon))
		s.Require().NoError(s.service.Transfer(s.as("alice", 3), tokenID, "alice", "bob"))
		s.Require().NoError(s.service.Restake(s.as("bob", 4), tokenID, 1000, 2000))

		err := s.service.Transfer(s.as("bob", 5), tokenID, "bob", "carol")
		s.True(dErrors.Is(err, dErrors.CodeNotEligibleForTransfer))
	})
}

// =============================================================================
// Restake Tests
// =============================================================================

func (s *LifecycleSuite) TestRestake() {
	s.Run("re-locks an unlocked token and overwrites coordinates", func() {
		tokenID := s.mintAs("alice", 10)
		s.Require().NoError(s.service.Unlock(s.as("alice", 11), tokenID, stakedLat, stakedLon))

		err := s.service.Restake(s.as("alice", 12), tokenID, 48858370, 2294481)
		s.NoError(err)

		record, err := s.service.Location(context.Background(), tokenID)
		s.NoError(err)
		s.Equal(id.Coordinate(48858370), record.Latitude)
		s.Equal(id.Coordinate(2294481), record.Longitude)
		s.True(record.Locked)
		s.Equal(uint64(12), record.StakeSequence)
	})

	s.Run("permitted while still locked", func() {
		tokenID := s.mintAs("alice", 1)
		err := s.service.Restake(s.as("alice", 2), tokenID, 0, 0)
		s.NoError(err)

		unlocked, err := s.service.IsUnlocked(context.Background(), tokenID)
		s.NoError(err)
		s.False(unlocked)
	})

	s.Run("invalid new coordinates fail and change nothing", func() {
		tokenID := s.mintAs("alice", 7)
		err := s.service.Restake(s.as("alice", 8), tokenID, -90_000_001, 0)
		s.True(dErrors.Is(err, dErrors.CodeInvalidCoordinates))

		record, err := s.service.Location(context.Background(), tokenID)
		s.NoError(err)
		s.Equal(stakedLat, record.Latitude)
		s.Equal(uint64(7), record.StakeSequence)
	})

	s.Run("non-owner fails not token owner", func() {
		tokenID := s.mintAs("alice", 1)
		err := s.service.Restake(s.as("bob", 2), tokenID, 0, 0)
		s.True(dErrors.Is(err, dErrors.CodeNotTokenOwner))
	})

	s.Run("unknown token fails not found", func() {
		err := s.service.Restake(s.as("alice", 1), 42, 0, 0)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("proximity is verified against the new location afterwards", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Restake(s.as("alice", 2), tokenID, 48858370, 2294481))

		err := s.service.Unlock(s.as("alice", 3), tokenID, stakedLat, stakedLon)
		s.True(dErrors.Is(err, dErrors.CodeLocationMismatch))

		s.NoError(s.service.Unlock(s.as("alice", 4), tokenID, 48858400, 2294500))
	})
}

// =============================================================================
// Burn Tests
// =============================================================================

func (s *LifecycleSuite) TestBurn() {
	s.Run("removes record and ownership together", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Burn(s.as("alice", 2), tokenID))

		_, err := s.service.Location(context.Background(), tokenID)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))

		_, err = s.service.Owner(context.Background(), tokenID)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("unlock history survives the burn", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Unlock(s.as("alice", 2), tokenID, stakedLat, stakedLon))
		s.Require().NoError(s.service.Burn(s.as("alice", 3), tokenID))

		has, err := s.service.HasUnlocked(context.Background(), "alice", tokenID)
		s.NoError(err)
		s.True(has)
	})

	s.Run("non-owner fails not token owner", func() {
		tokenID := s.mintAs("alice", 1)
		err := s.service.Burn(s.as("bob", 2), tokenID)
		s.True(dErrors.Is(err, dErrors.CodeNotTokenOwner))
	})

	s.Run("unknown token fails not found", func() {
		err := s.service.Burn(s.as("alice", 1), 42)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("burned ids are never reused", func() {
		first := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Burn(s.as("alice", 2), first))

		second := s.mintAs("alice", 3)
		s.Equal(first+1, second)
	})

	s.Run("repeated burn yields the same not found failure", func() {
		tokenID := s.mintAs("alice", 1)
		s.Require().NoError(s.service.Burn(s.as("alice", 2), tokenID))

		err := s.service.Burn(s.as("alice", 3), tokenID)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
		err = s.service.Burn(s.as("alice", 4), tokenID)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}

// =============================================================================
// Query Tests
// =============================================================================

func (s *LifecycleSuite) TestQueries() {
	s.Run("last token id starts at zero", func() {
		last, err := s.service.LastTokenID(context.Background())
		s.NoError(err)
		s.Equal(id.TokenID(0), last)
	})

	s.Run("token uri returns the name", func() {
		tokenID := s.mintAs("alice", 1)
		uri, err := s.service.TokenURI(context.Background(), tokenID)
		s.NoError(err)
		s.Equal("Empire State Marker", uri)
	})

	s.Run("token uri for unknown token fails not found", func() {
		_, err := s.service.TokenURI(context.Background(), 42)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})

	s.Run("has unlocked never fails for unknown tokens", func() {
		has, err := s.service.HasUnlocked(context.Background(), "nobody", 42)
		s.NoError(err)
		s.False(has)
	})

	s.Run("is unlocked for unknown token fails not found", func() {
		_, err := s.service.IsUnlocked(context.Background(), 42)
		s.True(dErrors.Is(err, dErrors.CodeNotFound))
	})
}
