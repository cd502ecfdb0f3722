// Package api exposes the two scraping operations over a thin HTTP JSON
// surface.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/types"
)

// Scraper is the interface the API uses to run operations.
type Scraper interface {
	Search(ctx context.Context, q types.SearchQuery) ([]types.ListingSummary, error)
	GetDetail(ctx context.Context, listingID string) (*types.ListingDetail, error)
}

// Server serves search and detail lookups as JSON endpoints.
type Server struct {
	mux    *http.ServeMux
	addr   string
	logger *slog.Logger
	svc    Scraper
	httpd  *http.Server
}

// NewServer creates an API server bound to the configured address.
func NewServer(cfg *config.ServerConfig, svc Scraper, logger *slog.Logger) *Server {
	s := &Server{
		mux:    http.NewServeMux(),
		addr:   cfg.Addr(),
		logger: logger.With("component", "api_server"),
		svc:    svc,
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/listings/{id}", s.handleDetail)
}

// Handler returns the route handler, primarily for tests.
func (s *Server) Handler() http.Handler { return s.mux }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpd = &http.Server{
		Addr:    s.addr,
		Handler: s.mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("API server starting", "addr", s.addr)
		if err := s.httpd.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.httpd.Shutdown(shutdownCtx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": config.Version,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	q := types.SearchQuery{
		Term:       r.URL.Query().Get("q"),
		LocationID: r.URL.Query().Get("location"),
		Cursor:     r.URL.Query().Get("cursor"),
	}

	if days := r.URL.Query().Get("days"); days != "" {
		n, err := strconv.Atoi(days)
		if err != nil || n < 1 {
			s.jsonError(w, http.StatusBadRequest, "days must be a positive integer")
			return
		}
		q.MaxAgeDays = n
	}

	listings, err := s.svc.Search(r.Context(), q)
	if err != nil {
		s.errorResponse(w, err)
		return
	}

	// Zero results is a valid outcome: 200 with an empty array.
	if listings == nil {
		listings = []types.ListingSummary{}
	}
	s.jsonResponse(w, http.StatusOK, listings)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.GetDetail(r.Context(), r.PathValue("id"))
	if err != nil {
		s.errorResponse(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, detail)
}

// errorResponse maps the error taxonomy onto HTTP statuses.
func (s *Server) errorResponse(w http.ResponseWriter, err error) {
	var navErr *types.NavigationError
	var sessErr *types.SessionError

	switch {
	case errors.Is(err, types.ErrInvalidInput):
		s.jsonError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, types.ErrNotFound):
		s.jsonError(w, http.StatusNotFound, err.Error())
	case errors.As(err, &navErr):
		s.jsonError(w, http.StatusBadGateway, err.Error())
	case errors.As(err, &sessErr):
		s.jsonError(w, http.StatusServiceUnavailable, err.Error())
	default:
		s.logger.Error("operation failed", "error", err)
		s.jsonError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) jsonError(w http.ResponseWriter, status int, msg string) {
	s.jsonResponse(w, status, map[string]string{"error": msg})
}

func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}
