// Package httptransport assembles the public HTTP surface: the versioned
// token API, health and metrics endpoints, and the operator-only admin group.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"geostake/internal/platform/middleware"
	"geostake/internal/token/handler"
	"geostake/internal/transport/http/shared"
	id "geostake/pkg/domain"
)

// RouterConfig carries everything the router mounts.
type RouterConfig struct {
	Tokens *handler.Handler
	Logger *slog.Logger

	// AdminKeyHash guards the /admin group; empty disables it.
	AdminKeyHash string

	// Health reports backend connectivity for /healthz. Nil means no
	// backends to check.
	Health func(ctx context.Context) error

	// LastTokenID feeds the allocator diagnostics endpoint.
	LastTokenID func(ctx context.Context) (id.TokenID, error)
}

// NewRouter wires all public endpoints.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", handleHealth(cfg.Health))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	v1 := chi.NewRouter()
	cfg.Tokens.Register(v1)
	r.Mount("/v1", v1)

	r.Route("/admin", func(ar chi.Router) {
		ar.Use(middleware.Recovery(cfg.Logger))
		ar.Use(middleware.RequestMetadata)
		ar.Use(middleware.Logger(cfg.Logger))
		ar.Use(middleware.RequireAdmin(cfg.AdminKeyHash, cfg.Logger))
		ar.Get("/allocator", handleAllocator(cfg.LastTokenID))
	})

	return r
}

func handleHealth(health func(ctx context.Context) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if health != nil {
			if err := health(r.Context()); err != nil {
				shared.WriteJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "degraded",
				})
				return
			}
		}
		shared.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}

// handleAllocator reports the id allocator's high-water mark so operators can
// confirm ids stay contiguous across restarts.
func handleAllocator(lastTokenID func(ctx context.Context) (id.TokenID, error)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if lastTokenID == nil {
			http.NotFound(w, r)
			return
		}
		last, err := lastTokenID(r.Context())
		if err != nil {
			shared.WriteError(w, err)
			return
		}
		shared.WriteJSON(w, http.StatusOK, map[string]uint64{
			"last_token_id": uint64(last),
			"next_token_id": uint64(last) + 1,
		})
	}
}
