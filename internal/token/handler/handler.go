// Package handler exposes the token lifecycle over HTTP. It decodes
// requests, leans on the service for every rule, and translates coded
// errors into status codes via the shared responder.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"geostake/internal/platform/middleware"
	"geostake/internal/token/models"
	"geostake/internal/transport/http/shared"
	id "geostake/pkg/domain"
	dErrors "geostake/pkg/domain-errors"
	"geostake/pkg/requestcontext"
)

// Service defines the lifecycle operations the handler fronts.
type Service interface {
	Mint(ctx context.Context, lat, lon id.Coordinate, name, description string) (id.TokenID, error)
	Unlock(ctx context.Context, tokenID id.TokenID, lat, lon id.Coordinate) error
	Transfer(ctx context.Context, tokenID id.TokenID, sender, recipient id.Identity) error
	Restake(ctx context.Context, tokenID id.TokenID, lat, lon id.Coordinate) error
	Burn(ctx context.Context, tokenID id.TokenID) error

	Location(ctx context.Context, tokenID id.TokenID) (*models.AssetRecord, error)
	Owner(ctx context.Context, tokenID id.TokenID) (id.Identity, error)
	IsUnlocked(ctx context.Context, tokenID id.TokenID) (bool, error)
	LastTokenID(ctx context.Context) (id.TokenID, error)
	HasUnlocked(ctx context.Context, identity id.Identity, tokenID id.TokenID) (bool, error)
	TokenURI(ctx context.Context, tokenID id.TokenID) (string, error)
}

// Handler handles token lifecycle endpoints.
type Handler struct {
	logger         *slog.Logger
	tokens         Service
	validator      middleware.TokenValidator
	requestTimeout time.Duration
}

// New creates a new token Handler.
func New(tokens Service, validator middleware.TokenValidator, logger *slog.Logger, requestTimeout time.Duration) *Handler {
	if requestTimeout <= 0 {
		requestTimeout = 30 * time.Second
	}
	return &Handler{
		logger:         logger,
		tokens:         tokens,
		validator:      validator,
		requestTimeout: requestTimeout,
	}
}

// Register registers the token routes with the chi router.
func (h *Handler) Register(r chi.Router) {
	tokenRouter := chi.NewRouter()
	tokenRouter.Use(middleware.Recovery(h.logger))
	tokenRouter.Use(middleware.RequestMetadata)
	tokenRouter.Use(middleware.Logger(h.logger))
	tokenRouter.Use(middleware.Timeout(h.requestTimeout))
	tokenRouter.Use(middleware.RequireAuth(h.validator, h.logger))

	tokenRouter.Post("/tokens", h.handleMint)
	tokenRouter.Get("/tokens/last-id", h.handleLastTokenID)
	tokenRouter.Get("/tokens/{tokenID}", h.handleLocation)
	tokenRouter.Delete("/tokens/{tokenID}", h.handleBurn)
	tokenRouter.Post("/tokens/{tokenID}/unlock", h.handleUnlock)
	tokenRouter.Post("/tokens/{tokenID}/transfer", h.handleTransfer)
	tokenRouter.Post("/tokens/{tokenID}/restake", h.handleRestake)
	tokenRouter.Get("/tokens/{tokenID}/owner", h.handleOwner)
	tokenRouter.Get("/tokens/{tokenID}/unlocked", h.handleIsUnlocked)
	tokenRouter.Get("/tokens/{tokenID}/uri", h.handleTokenURI)
	tokenRouter.Get("/tokens/{tokenID}/unlocks/{identity}", h.handleHasUnlocked)

	r.Mount("/", tokenRouter)
}

func (h *Handler) handleMint(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req MintRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid mint request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	tokenID, err := h.tokens.Mint(ctx, id.Coordinate(req.Latitude), id.Coordinate(req.Longitude), req.Name, req.Description)
	if err != nil {
		h.fail(ctx, w, "mint failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusCreated, MintResponse{TokenID: uint64(tokenID)})
}

func (h *Handler) handleUnlock(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req UnlockRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid unlock request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	if err := h.tokens.Unlock(ctx, tokenID, id.Coordinate(req.Latitude), id.Coordinate(req.Longitude)); err != nil {
		h.fail(ctx, w, "unlock failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTransfer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req TransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid transfer request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	sender := requestcontext.Caller(ctx)
	if err := h.tokens.Transfer(ctx, tokenID, sender, id.Identity(req.Recipient)); err != nil {
		h.fail(ctx, w, "transfer failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleRestake(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	var req RestakeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.warn(ctx, "invalid restake request", err)
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "invalid request body"))
		return
	}

	if err := h.tokens.Restake(ctx, tokenID, id.Coordinate(req.Latitude), id.Coordinate(req.Longitude)); err != nil {
		h.fail(ctx, w, "restake failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleBurn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	if err := h.tokens.Burn(ctx, tokenID); err != nil {
		h.fail(ctx, w, "burn failed", err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	record, err := h.tokens.Location(ctx, tokenID)
	if err != nil {
		h.fail(ctx, w, "location lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, TokenResponse{
		TokenID:       uint64(record.ID),
		Latitude:      int64(record.Latitude),
		Longitude:     int64(record.Longitude),
		Name:          record.Name,
		Description:   record.Description,
		Locked:        record.Locked,
		StakeSequence: record.StakeSequence,
	})
}

func (h *Handler) handleOwner(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	owner, err := h.tokens.Owner(ctx, tokenID)
	if err != nil {
		h.fail(ctx, w, "owner lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, OwnerResponse{TokenID: uint64(tokenID), Owner: owner.String()})
}

func (h *Handler) handleIsUnlocked(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	unlocked, err := h.tokens.IsUnlocked(ctx, tokenID)
	if err != nil {
		h.fail(ctx, w, "lock state lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, UnlockedResponse{TokenID: uint64(tokenID), Unlocked: unlocked})
}

func (h *Handler) handleHasUnlocked(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}
	identity := id.Identity(chi.URLParam(r, "identity"))
	if identity.IsZero() {
		shared.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "identity is required"))
		return
	}

	unlocked, err := h.tokens.HasUnlocked(ctx, identity, tokenID)
	if err != nil {
		h.fail(ctx, w, "unlock history lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, HasUnlockedResponse{
		TokenID:  uint64(tokenID),
		Identity: identity.String(),
		Unlocked: unlocked,
	})
}

func (h *Handler) handleLastTokenID(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	last, err := h.tokens.LastTokenID(ctx)
	if err != nil {
		h.fail(ctx, w, "last token id lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, LastTokenIDResponse{LastTokenID: uint64(last)})
}

func (h *Handler) handleTokenURI(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	tokenID, ok := h.tokenID(w, r)
	if !ok {
		return
	}

	uri, err := h.tokens.TokenURI(ctx, tokenID)
	if err != nil {
		h.fail(ctx, w, "token uri lookup failed", err)
		return
	}

	shared.WriteJSON(w, http.StatusOK, TokenURIResponse{TokenID: uint64(tokenID), URI: uri})
}

// tokenID parses the {tokenID} route parameter, writing the error response
// itself when the value is unusable.
func (h *Handler) tokenID(w http.ResponseWriter, r *http.Request) (id.TokenID, bool) {
	tokenID, err := id.ParseTokenID(chi.URLParam(r, "tokenID"))
	if err != nil {
		shared.WriteError(w, err)
		return 0, false
	}
	return tokenID, true
}

func (h *Handler) warn(ctx context.Context, msg string, err error) {
	h.logger.WarnContext(ctx, msg,
		"request_id", requestcontext.RequestID(ctx),
		"error", err.Error(),
	)
}

// fail logs at a severity matching the error class and writes the response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, msg string, err error) {
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, msg,
			"request_id", requestcontext.RequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.warn(ctx, msg, err)
	}
	shared.WriteError(w, err)
}
