// Package inspect serves the decision and event logs over a read-only HTTP
// API, so players and tools can see why actors did what they did.
package inspect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joeycumines/lifesim/internal/archive"
	"github.com/joeycumines/lifesim/internal/decision"
	"github.com/joeycumines/lifesim/internal/event"
)

// Defaults for Options.
const (
	DefaultRate  = 20.0
	DefaultLimit = 50
)

// Options configures a Server. Archive is optional and enables /api/runs.
type Options struct {
	Rate    float64
	Burst   int
	Archive *archive.Archive
	Logger  *slog.Logger
}

// Server is an http.Handler over a decision log and an event log.
type Server struct {
	router    chi.Router
	decisions *decision.Log
	events    *event.Log
	archive   *archive.Archive
	logger    *slog.Logger
}

func New(decisions *decision.Log, events *event.Log, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		router:    chi.NewRouter(),
		decisions: decisions,
		events:    events,
		archive:   opts.Archive,
		logger:    logger,
	}
	s.routes(newRateLimiter(opts.Rate, opts.Burst))
	return s
}

func (s *Server) routes(rl *rateLimiter) {
	r := s.router
	r.Use(middleware.RequestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))
	r.Use(rl.middleware)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/decisions", s.recentDecisions)
		r.Get("/decisions/stats", s.decisionStats)
		r.Get("/decisions/{id}", s.getDecision)
		r.Get("/actors/{id}/decisions", s.actorDecisions)
		r.Get("/days/{day}/decisions", s.dayDecisions)
		r.Get("/actions/{action}/decisions", s.actionDecisions)

		r.Get("/events", s.recentEvents)
		r.Get("/events/stats", s.eventStats)
		r.Get("/actors/{id}/events", s.actorEvents)
		r.Get("/days/{day}/events", s.dayEvents)
		r.Get("/types/{type}/events", s.typeEvents)

		r.Get("/runs", s.runs)
	})
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) { s.router.ServeHTTP(w, r) }

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("inspect request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// Serve listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	s.logger.Info("inspect server listening", "addr", addr)

	select {
	case err := <-errCh:
		return fmt.Errorf("inspect: serve: %w", err)
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("inspect: shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("inspect: serve: %w", err)
	}
	return nil
}

// Response is the envelope of every reply.
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Success: status < 400, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	if status >= 500 {
		message = "internal server error"
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(Response{Error: message})
}

// limitParam reads ?limit, defaulting to DefaultLimit.
func limitParam(r *http.Request) (int, error) {
	v := r.URL.Query().Get("limit")
	if v == "" {
		return DefaultLimit, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid limit %q", v)
	}
	return n, nil
}

func intParam(r *http.Request, name string) (int, error) {
	v := chi.URLParam(r, name)
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, v)
	}
	return n, nil
}
