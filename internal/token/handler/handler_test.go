package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"geostake/internal/token/handler/mocks"
	"geostake/internal/token/models"
	id "geostake/pkg/domain"
	dErrors "geostake/pkg/domain-errors"
	"geostake/pkg/requestcontext"
)

//go:generate mockgen -source=handler.go -destination=mocks/token-mocks.go -package=mocks Service
type TokenHandlerSuite struct {
	suite.Suite
	ctx context.Context
}

func (s *TokenHandlerSuite) SetupSuite() {
	s.ctx = context.Background()
}

func TestTokenHandlerSuite(t *testing.T) {
	suite.Run(t, new(TokenHandlerSuite))
}

func newTestHandler(t *testing.T) (*Handler, *mocks.MockService) {
	t.Helper()
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)
	mockService := mocks.NewMockService(ctrl)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := New(mockService, nil, logger, 30*time.Second)
	return handler, mockService
}

// newRequest builds a request with the caller identity set and the given
// chi route parameters, mirroring what the middleware chain produces.
func newRequest(method, target string, body []byte, caller id.Identity, params map[string]string) *http.Request {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)

	ctx := req.Context()
	if !caller.IsZero() {
		ctx = requestcontext.WithCaller(ctx, caller)
	}
	if len(params) > 0 {
		routeCtx := chi.NewRouteContext()
		for key, value := range params {
			routeCtx.URLParams.Add(key, value)
		}
		ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	}
	return req.WithContext(ctx)
}

func (s *TokenHandlerSuite) TestHandleMint() {
	s.Run("returns the new token id", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Mint(
			gomock.Any(),
			id.Coordinate(40_748_817),
			id.Coordinate(-73_985_428),
			"Empire State",
			"Observation deck",
		).Return(id.TokenID(1), nil)

		body, err := json.Marshal(MintRequest{
			Latitude:    40_748_817,
			Longitude:   -73_985_428,
			Name:        "Empire State",
			Description: "Observation deck",
		})
		require.NoError(s.T(), err)

		req := newRequest(http.MethodPost, "/tokens", body, id.Identity("alice"), nil)
		w := httptest.NewRecorder()
		handler.handleMint(w, req)

		assert.Equal(s.T(), http.StatusCreated, w.Code)
		var resp MintResponse
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(s.T(), uint64(1), resp.TokenID)
	})

	s.Run("rejects a malformed body without calling the service", func() {
		handler, _ := newTestHandler(s.T())

		req := newRequest(http.MethodPost, "/tokens", []byte("{not json"), id.Identity("alice"), nil)
		w := httptest.NewRecorder()
		handler.handleMint(w, req)

		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})

	s.Run("maps out-of-range coordinates to 400", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Mint(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
			Return(id.TokenID(0), dErrors.New(dErrors.CodeInvalidCoordinates, "latitude out of range"))

		body, err := json.Marshal(MintRequest{Latitude: 90_000_001, Longitude: 0, Name: "x"})
		require.NoError(s.T(), err)

		req := newRequest(http.MethodPost, "/tokens", body, id.Identity("alice"), nil)
		w := httptest.NewRecorder()
		handler.handleMint(w, req)

		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
		assert.Contains(s.T(), w.Body.String(), "invalid_coordinates")
	})
}

func (s *TokenHandlerSuite) TestHandleUnlock() {
	s.Run("succeeds with 204", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Unlock(gomock.Any(), id.TokenID(7), id.Coordinate(100), id.Coordinate(200)).
			Return(nil)

		body, err := json.Marshal(UnlockRequest{Latitude: 100, Longitude: 200})
		require.NoError(s.T(), err)

		req := newRequest(http.MethodPost, "/tokens/7/unlock", body, id.Identity("alice"), map[string]string{"tokenID": "7"})
		w := httptest.NewRecorder()
		handler.handleUnlock(w, req)

		assert.Equal(s.T(), http.StatusNoContent, w.Code)
	})

	s.Run("maps a failed proximity check to 422", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Unlock(gomock.Any(), id.TokenID(7), gomock.Any(), gomock.Any()).
			Return(dErrors.New(dErrors.CodeLocationMismatch, "caller is not at the staked location"))

		body, err := json.Marshal(UnlockRequest{Latitude: 0, Longitude: 0})
		require.NoError(s.T(), err)

		req := newRequest(http.MethodPost, "/tokens/7/unlock", body, id.Identity("alice"), map[string]string{"tokenID": "7"})
		w := httptest.NewRecorder()
		handler.handleUnlock(w, req)

		assert.Equal(s.T(), http.StatusUnprocessableEntity, w.Code)
		assert.Contains(s.T(), w.Body.String(), "location_mismatch")
	})

	s.Run("rejects a non-numeric token id", func() {
		handler, _ := newTestHandler(s.T())

		req := newRequest(http.MethodPost, "/tokens/abc/unlock", nil, id.Identity("alice"), map[string]string{"tokenID": "abc"})
		w := httptest.NewRecorder()
		handler.handleUnlock(w, req)

		assert.Equal(s.T(), http.StatusBadRequest, w.Code)
	})
}

func (s *TokenHandlerSuite) TestHandleTransfer() {
	s.Run("passes the caller as sender", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Transfer(gomock.Any(), id.TokenID(3), id.Identity("alice"), id.Identity("bob")).
			Return(nil)

		body, err := json.Marshal(TransferRequest{Recipient: "bob"})
		require.NoError(s.T(), err)

		req := newRequest(http.MethodPost, "/tokens/3/transfer", body, id.Identity("alice"), map[string]string{"tokenID": "3"})
		w := httptest.NewRecorder()
		handler.handleTransfer(w, req)

		assert.Equal(s.T(), http.StatusNoContent, w.Code)
	})

	s.Run("maps a locked token to 409", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Transfer(gomock.Any(), id.TokenID(3), id.Identity("alice"), id.Identity("bob")).
			Return(dErrors.New(dErrors.CodeNotEligibleForTransfer, "token is locked"))

		body, err := json.Marshal(TransferRequest{Recipient: "bob"})
		require.NoError(s.T(), err)

		req := newRequest(http.MethodPost, "/tokens/3/transfer", body, id.Identity("alice"), map[string]string{"tokenID": "3"})
		w := httptest.NewRecorder()
		handler.handleTransfer(w, req)

		assert.Equal(s.T(), http.StatusConflict, w.Code)
		assert.Contains(s.T(), w.Body.String(), "not_eligible_for_transfer")
	})
}

func (s *TokenHandlerSuite) TestHandleBurn() {
	s.Run("maps a foreign token to 403", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Burn(gomock.Any(), id.TokenID(5)).
			Return(dErrors.New(dErrors.CodeNotTokenOwner, "caller does not own this token"))

		req := newRequest(http.MethodDelete, "/tokens/5", nil, id.Identity("mallory"), map[string]string{"tokenID": "5"})
		w := httptest.NewRecorder()
		handler.handleBurn(w, req)

		assert.Equal(s.T(), http.StatusForbidden, w.Code)
	})

	s.Run("succeeds with 204", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Burn(gomock.Any(), id.TokenID(5)).Return(nil)

		req := newRequest(http.MethodDelete, "/tokens/5", nil, id.Identity("alice"), map[string]string{"tokenID": "5"})
		w := httptest.NewRecorder()
		handler.handleBurn(w, req)

		assert.Equal(s.T(), http.StatusNoContent, w.Code)
	})
}

func (s *TokenHandlerSuite) TestHandleQueries() {
	s.Run("location returns the full record", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Location(gomock.Any(), id.TokenID(2)).Return(&models.AssetRecord{
			ID:            2,
			Latitude:      40_748_817,
			Longitude:     -73_985_428,
			Name:          "Empire State",
			Description:   "Observation deck",
			Locked:        true,
			StakeSequence: 12,
		}, nil)

		req := newRequest(http.MethodGet, "/tokens/2", nil, id.Identity("alice"), map[string]string{"tokenID": "2"})
		w := httptest.NewRecorder()
		handler.handleLocation(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
		var resp TokenResponse
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(s.T(), int64(40_748_817), resp.Latitude)
		assert.Equal(s.T(), int64(-73_985_428), resp.Longitude)
		assert.True(s.T(), resp.Locked)
		assert.Equal(s.T(), uint64(12), resp.StakeSequence)
	})

	s.Run("owner lookup maps missing tokens to 404", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().Owner(gomock.Any(), id.TokenID(99)).
			Return(id.Identity(""), dErrors.New(dErrors.CodeNotFound, "token not found"))

		req := newRequest(http.MethodGet, "/tokens/99/owner", nil, id.Identity("alice"), map[string]string{"tokenID": "99"})
		w := httptest.NewRecorder()
		handler.handleOwner(w, req)

		assert.Equal(s.T(), http.StatusNotFound, w.Code)
	})

	s.Run("last token id is zero before any mint", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().LastTokenID(gomock.Any()).Return(id.TokenID(0), nil)

		req := newRequest(http.MethodGet, "/tokens/last-id", nil, id.Identity("alice"), nil)
		w := httptest.NewRecorder()
		handler.handleLastTokenID(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
		var resp LastTokenIDResponse
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(s.T(), uint64(0), resp.LastTokenID)
	})

	s.Run("unlock history lookup", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().HasUnlocked(gomock.Any(), id.Identity("bob"), id.TokenID(4)).Return(true, nil)

		req := newRequest(http.MethodGet, "/tokens/4/unlocks/bob", nil, id.Identity("alice"),
			map[string]string{"tokenID": "4", "identity": "bob"})
		w := httptest.NewRecorder()
		handler.handleHasUnlocked(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
		var resp HasUnlockedResponse
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
		assert.True(s.T(), resp.Unlocked)
		assert.Equal(s.T(), "bob", resp.Identity)
	})

	s.Run("token uri", func() {
		handler, mockService := newTestHandler(s.T())
		mockService.EXPECT().TokenURI(gomock.Any(), id.TokenID(2)).Return("Empire State", nil)

		req := newRequest(http.MethodGet, "/tokens/2/uri", nil, id.Identity("alice"), map[string]string{"tokenID": "2"})
		w := httptest.NewRecorder()
		handler.handleTokenURI(w, req)

		assert.Equal(s.T(), http.StatusOK, w.Code)
		var resp TokenURIResponse
		require.NoError(s.T(), json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(s.T(), "Empire State", resp.URI)
	})
}
