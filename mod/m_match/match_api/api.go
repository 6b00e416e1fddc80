// Package match_api exposes a match_bus.Broker over HTTP for inspection and
// administration.
package match_api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/rskv-p/busmatch/mod/m_match/match_bus"
)

// Server serves the admin API.
type Server struct {
	broker *match_bus.Broker
	secret []byte
	log    zerolog.Logger
}

// New creates an API for broker. A non-empty secret protects /api with
// HS256 bearer tokens.
func New(broker *match_bus.Broker, secret string, log zerolog.Logger) *Server {
	s := &Server{broker: broker, log: log}
	if secret != "" {
		s.secret = []byte(secret)
	}
	return s
}

// Router builds the HTTP routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestLogger)

	// Public endpoints
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", metricsHandler(s.broker))

	r.Group(func(r chi.Router) {
		if s.secret != nil {
			r.Use(JWTMiddleware(s.secret))
		}

		r.Route("/api", func(r chi.Router) {
			r.Get("/stats", s.handleStats)                // Broker counters
			r.Get("/peers", s.handlePeers)                // List peers, ?match=<glob>
			r.Post("/peers/{id}", s.handleAddPeer)        // Register a peer
			r.Delete("/peers/{id}", s.handleRemovePeer)   // Drop a peer and its rules
			r.Get("/peers/{id}/matches", s.handleMatches) // List a peer's rules
			r.Post("/peers/{id}/matches", s.handleAddMatch)
			r.Delete("/peers/{id}/matches", s.handleRemoveMatch)
			r.Post("/dispatch", s.handleDispatch) // Resolve a filter to peers
		})
	})

	return r
}

// ListenAndServe serves the API on addr until ctx is done.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("admin API listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}

// requestLogger logs each request with zerolog.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("took", time.Since(start)).
			Msg("http request")
	})
}
