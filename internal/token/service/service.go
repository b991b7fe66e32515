// Package service implements the token lifecycle: mint, unlock, transfer,
// restake, burn, and the read-only query surface. All precondition
// enforcement lives here; stores persist exactly what they are told, and a
// failed precondition mutates nothing.
package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"geostake/internal/geo"
	"geostake/internal/token/metrics"
	"geostake/internal/token/models"
	id "geostake/pkg/domain"
	dErrors "geostake/pkg/domain-errors"
	audit "geostake/pkg/platform/audit"
	"geostake/pkg/platform/sentinel"
	"geostake/pkg/requestcontext"
)

// Store interfaces are declared where they are consumed so the service owns
// its persistence contract and tests can swap implementations freely.

type AssetStore interface {
	Save(ctx context.Context, record *models.AssetRecord) error
	FindByID(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error)
	Delete(ctx context.Context, tokenID id.TokenID) error
}

type OwnershipStore interface {
	Create(ctx context.Context, tokenID id.TokenID, owner id.Identity) error
	Reassign(ctx context.Context, tokenID id.TokenID, owner id.Identity) error
	FindByID(ctx context.Context, tokenID id.TokenID) (id.Identity, error)
	Delete(ctx context.Context, tokenID id.TokenID) error
}

type UnlockHistoryStore interface {
	Mark(ctx context.Context, identity id.Identity, tokenID id.TokenID) error
	Has(ctx context.Context, identity id.Identity, tokenID id.TokenID) (bool, error)
}

type CounterStore interface {
	Next(ctx context.Context) (id.TokenID, error)
	Last(ctx context.Context) (id.TokenID, error)
}

// RecordCache fronts asset-record reads. Optional; a nil cache disables it.
type RecordCache interface {
	Find(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error)
	Save(ctx context.Context, record *models.AssetRecord) error
	Invalidate(ctx context.Context, tokenID id.TokenID) error
}

type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates the token lifecycle across the asset, ownership,
// unlock-history, and counter stores.
type Service struct {
	assets  AssetStore
	owners  OwnershipStore
	history UnlockHistoryStore
	counter CounterStore
	cache   RecordCache
	txs     TxRunner
	auditor AuditPublisher
	metrics *metrics.Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures optional collaborators.
type Option func(*Service)

// WithRecordCache enables the read-through record cache.
func WithRecordCache(cache RecordCache) Option {
	return func(s *Service) { s.cache = cache }
}

// WithMetrics attaches lifecycle metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

// WithAuditPublisher attaches the audit event publisher.
func WithAuditPublisher(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

// New constructs the lifecycle service. All four stores and the transaction
// runner are required.
func New(
	assets AssetStore,
	owners OwnershipStore,
	history UnlockHistoryStore,
	counter CounterStore,
	txs TxRunner,
	logger *slog.Logger,
	opts ...Option,
) (*Service, error) {
	if assets == nil {
		return nil, errors.New("asset store is required")
	}
	if owners == nil {
		return nil, errors.New("ownership store is required")
	}
	if history == nil {
		return nil, errors.New("unlock history store is required")
	}
	if counter == nil {
		return nil, errors.New("counter store is required")
	}
	if txs == nil {
		return nil, errors.New("transaction runner is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	s := &Service{
		assets:  assets,
		owners:  owners,
		history: history,
		counter: counter,
		txs:     txs,
		logger:  logger,
		tracer:  otel.Tracer("geostake/internal/token/service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// -----------------------------------------------------------------------------
// Lifecycle operations
// -----------------------------------------------------------------------------

// Mint registers a new token staked at the given coordinate, owned by the
// caller identity from the context. The allocator is the only source of ids,
// so mint never fails on a duplicate.
func (s *Service) Mint(ctx context.Context, lat, lon id.Coordinate, name, description string) (id.TokenID, error) {
	ctx, span := s.tracer.Start(ctx, "token.Mint")
	defer span.End()
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return 0, s.fail("mint", dErrors.New(dErrors.CodeUnauthorized, "caller identity is required"))
	}
	if err := geo.Validate(lat, lon); err != nil {
		return 0, s.fail("mint", err)
	}
	if err := models.ValidateName(name); err != nil {
		return 0, s.fail("mint", err)
	}
	if err := models.ValidateDescription(description); err != nil {
		return 0, s.fail("mint", err)
	}

	var tokenID id.TokenID
	err := s.txs.RunInTx(ctx, func(ctx context.Context) error {
		var err error
		tokenID, err = s.counter.Next(ctx)
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "allocate token id")
		}
		record := &models.AssetRecord{
			ID:            tokenID,
			Latitude:      lat,
			Longitude:     lon,
			Name:          name,
			Description:   description,
			Locked:        true,
			StakeSequence: requestcontext.Sequence(ctx),
		}
		if err := s.assets.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "save asset record")
		}
		if err := s.owners.Create(ctx, tokenID, caller); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "create ownership entry")
		}
		return nil
	})
	if err != nil {
		return 0, s.fail("mint", err)
	}

	span.SetAttributes(attribute.Int64("token.id", int64(tokenID)))
	s.metrics.RecordOperation("mint", time.Since(start).Seconds())
	s.emit(ctx, audit.EventTokenMinted, caller, tokenID, "")
	return tokenID, nil
}

// Unlock verifies the caller's proximity to the staked coordinate and clears
// the lock flag, recording the permanent unlock-history marker.
func (s *Service) Unlock(ctx context.Context, tokenID id.TokenID, lat, lon id.Coordinate) error {
	ctx, span := s.tracer.Start(ctx, "token.Unlock",
		trace.WithAttributes(attribute.Int64("token.id", int64(tokenID))))
	defer span.End()
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return s.fail("unlock", dErrors.New(dErrors.CodeUnauthorized, "caller identity is required"))
	}

	err := s.txs.RunInTx(withTxToken(ctx, uint64(tokenID)), func(ctx context.Context) error {
		record, owner, err := s.loadToken(ctx, tokenID)
		if err != nil {
			return err
		}
		if caller != owner {
			return dErrors.New(dErrors.CodeNotTokenOwner, "caller does not own this token")
		}
		if !record.Locked {
			return dErrors.New(dErrors.CodeAlreadyUnlocked, "token is already unlocked")
		}
		matched := geo.Near(record.Latitude, record.Longitude, lat, lon, geo.ProximityTolerance)
		s.metrics.RecordProximityCheck(matched)
		if !matched {
			return dErrors.New(dErrors.CodeLocationMismatch, "submitted location does not match the staked location")
		}
		record.Locked = false
		if err := s.assets.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "save asset record")
		}
		if err := s.history.Mark(ctx, caller, tokenID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "mark unlock history")
		}
		return nil
	})
	if err != nil {
		return s.fail("unlock", err)
	}

	s.invalidate(ctx, tokenID)
	s.metrics.RecordOperation("unlock", time.Since(start).Seconds())
	s.emit(ctx, audit.EventTokenUnlocked, caller, tokenID, "")
	return nil
}

// Transfer reassigns ownership to the recipient. Only permitted while the
// token is unlocked; the lock flag, coordinates, and unlock history are left
// untouched.
func (s *Service) Transfer(ctx context.Context, tokenID id.TokenID, sender, recipient id.Identity) error {
	ctx, span := s.tracer.Start(ctx, "token.Transfer",
		trace.WithAttributes(attribute.Int64("token.id", int64(tokenID))))
	defer span.End()
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return s.fail("transfer", dErrors.New(dErrors.CodeUnauthorized, "caller identity is required"))
	}
	if recipient.IsZero() {
		return s.fail("transfer", dErrors.New(dErrors.CodeInvalidInput, "recipient is required"))
	}

	err := s.txs.RunInTx(withTxToken(ctx, uint64(tokenID)), func(ctx context.Context) error {
		record, owner, err := s.loadToken(ctx, tokenID)
		if err != nil {
			return err
		}
		if caller != sender || owner != sender {
			return dErrors.New(dErrors.CodeNotTokenOwner, "sender does not own this token")
		}
		if record.Locked {
			return dErrors.New(dErrors.CodeNotEligibleForTransfer, "token must be unlocked before transfer")
		}
		if err := s.owners.Reassign(ctx, tokenID, recipient); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "reassign ownership entry")
		}
		return nil
	})
	if err != nil {
		return s.fail("transfer", err)
	}

	s.metrics.RecordOperation("transfer", time.Since(start).Seconds())
	s.emitTransfer(ctx, sender, recipient, tokenID)
	return nil
}

// Restake rebinds the token to a new coordinate and re-locks it. Permitted
// whether the token is currently locked or unlocked.
func (s *Service) Restake(ctx context.Context, tokenID id.TokenID, lat, lon id.Coordinate) error {
	ctx, span := s.tracer.Start(ctx, "token.Restake",
		trace.WithAttributes(attribute.Int64("token.id", int64(tokenID))))
	defer span.End()
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return s.fail("restake", dErrors.New(dErrors.CodeUnauthorized, "caller identity is required"))
	}

	err := s.txs.RunInTx(withTxToken(ctx, uint64(tokenID)), func(ctx context.Context) error {
		record, owner, err := s.loadToken(ctx, tokenID)
		if err != nil {
			return err
		}
		if caller != owner {
			return dErrors.New(dErrors.CodeNotTokenOwner, "caller does not own this token")
		}
		if err := geo.Validate(lat, lon); err != nil {
			return err
		}
		record.Latitude = lat
		record.Longitude = lon
		record.Locked = true
		record.StakeSequence = requestcontext.Sequence(ctx)
		if err := s.assets.Save(ctx, record); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "save asset record")
		}
		return nil
	})
	if err != nil {
		return s.fail("restake", err)
	}

	s.invalidate(ctx, tokenID)
	s.metrics.RecordOperation("restake", time.Since(start).Seconds())
	s.emit(ctx, audit.EventTokenRestaked, caller, tokenID, "")
	return nil
}

// Burn destroys the token: the asset record and ownership entry go together,
// atomically. Unlock-history markers are intentionally retained.
func (s *Service) Burn(ctx context.Context, tokenID id.TokenID) error {
	ctx, span := s.tracer.Start(ctx, "token.Burn",
		trace.WithAttributes(attribute.Int64("token.id", int64(tokenID))))
	defer span.End()
	start := time.Now()

	caller := requestcontext.Caller(ctx)
	if caller.IsZero() {
		return s.fail("burn", dErrors.New(dErrors.CodeUnauthorized, "caller identity is required"))
	}

	err := s.txs.RunInTx(withTxToken(ctx, uint64(tokenID)), func(ctx context.Context) error {
		owner, err := s.owners.FindByID(ctx, tokenID)
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "token not found")
		}
		if err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "find ownership entry")
		}
		if caller != owner {
			return dErrors.New(dErrors.CodeNotTokenOwner, "caller does not own this token")
		}
		if err := s.assets.Delete(ctx, tokenID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "delete asset record")
		}
		if err := s.owners.Delete(ctx, tokenID); err != nil {
			return dErrors.Wrap(err, dErrors.CodeInternal, "delete ownership entry")
		}
		return nil
	})
	if err != nil {
		return s.fail("burn", err)
	}

	s.invalidate(ctx, tokenID)
	s.metrics.RecordOperation("burn", time.Since(start).Seconds())
	s.emit(ctx, audit.EventTokenBurned, caller, tokenID, "")
	return nil
}

// -----------------------------------------------------------------------------
// Read-only queries
// -----------------------------------------------------------------------------

// Location returns the asset record for a token.
func (s *Service) Location(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error) {
	return s.findRecord(ctx, tokenID)
}

// Owner returns the current owner of a token.
func (s *Service) Owner(ctx context.Context, tokenID id.TokenID) (id.Identity, error) {
	owner, err := s.owners.FindByID(ctx, tokenID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return "", dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "find ownership entry")
	}
	return owner, nil
}

// IsUnlocked reports whether the token is currently transferable.
func (s *Service) IsUnlocked(ctx context.Context, tokenID id.TokenID) (bool, error) {
	record, err := s.findRecord(ctx, tokenID)
	if err != nil {
		return false, err
	}
	return !record.Locked, nil
}

// LastTokenID returns the most recently allocated token id; 0 before the
// first mint. Always succeeds.
func (s *Service) LastTokenID(ctx context.Context) (id.TokenID, error) {
	last, err := s.counter.Last(ctx)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeInternal, "read token counter")
	}
	return last, nil
}

// HasUnlocked reports whether the identity has ever unlocked the token.
// Defaults to false and never fails on missing tokens, including burned ones.
func (s *Service) HasUnlocked(ctx context.Context, identity id.Identity, tokenID id.TokenID) (bool, error) {
	has, err := s.history.Has(ctx, identity, tokenID)
	if err != nil {
		return false, dErrors.Wrap(err, dErrors.CodeInternal, "check unlock history")
	}
	return has, nil
}

// TokenURI returns the token's name as its metadata value.
func (s *Service) TokenURI(ctx context.Context, tokenID id.TokenID) (string, error) {
	record, err := s.findRecord(ctx, tokenID)
	if err != nil {
		return "", err
	}
	return record.Name, nil
}

// -----------------------------------------------------------------------------
// Internals
// -----------------------------------------------------------------------------

// loadToken reads the record and owner together; a missing entry in either
// table is reported as not found.
func (s *Service) loadToken(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, id.Identity, error) {
	record, err := s.assets.FindByID(ctx, tokenID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, "", dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "find asset record")
	}
	owner, err := s.owners.FindByID(ctx, tokenID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, "", dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	if err != nil {
		return nil, "", dErrors.Wrap(err, dErrors.CodeInternal, "find ownership entry")
	}
	return record, owner, nil
}

// findRecord is the read path, going through the cache when configured.
func (s *Service) findRecord(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error) {
	if s.cache != nil {
		if record, err := s.cache.Find(ctx, tokenID); err == nil {
			return record, nil
		}
	}
	record, err := s.assets.FindByID(ctx, tokenID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return nil, dErrors.New(dErrors.CodeNotFound, "token not found")
	}
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "find asset record")
	}
	if s.cache != nil {
		if err := s.cache.Save(ctx, record); err != nil {
			s.logger.WarnContext(ctx, "record cache save failed",
				"token_id", tokenID.String(), "error", err)
		}
	}
	return record, nil
}

// invalidate drops the cached record after a mutation. Best effort; the
// authoritative store has already committed.
func (s *Service) invalidate(ctx context.Context, tokenID id.TokenID) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, tokenID); err != nil {
		s.logger.WarnContext(ctx, "record cache invalidation failed",
			"token_id", tokenID.String(), "error", err)
	}
}

// fail records a failed operation and passes the error through.
func (s *Service) fail(operation string, err error) error {
	s.metrics.RecordFailure(operation, string(dErrors.CodeOf(err)))
	return err
}

func (s *Service) emit(ctx context.Context, action audit.Action, caller id.Identity, tokenID id.TokenID, recipient id.Identity) {
	if s.auditor == nil {
		return
	}
	event := audit.Event{
		Identity:  caller,
		TokenID:   tokenID,
		Action:    action,
		Recipient: recipient,
		Sequence:  requestcontext.Sequence(ctx),
		RequestID: requestcontext.RequestID(ctx),
	}
	if err := s.auditor.Emit(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "audit emit failed",
			"action", string(action), "token_id", tokenID.String(), "error", err)
	}
}

func (s *Service) emitTransfer(ctx context.Context, sender, recipient id.Identity, tokenID id.TokenID) {
	s.emit(ctx, audit.EventTokenTransferred, sender, tokenID, recipient)
}
