// Package scraper orchestrates the scraping pipeline: query building, page
// fetching, extraction, and recency filtering. One navigation per call, no
// internal retries; the caller's context is the only cancellation.
package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/extract"
	"github.com/martscout/martscout/internal/fetcher"
	"github.com/martscout/martscout/internal/query"
	"github.com/martscout/martscout/internal/recency"
	"github.com/martscout/martscout/internal/types"
)

// Service exposes the two scraping operations over a shared fetcher.
type Service struct {
	cfg     *config.Config
	logger  *slog.Logger
	fetcher fetcher.Fetcher
}

// New creates a scraping service. The fetcher is owned by the caller's
// process lifetime; Close releases it.
func New(cfg *config.Config, logger *slog.Logger, f fetcher.Fetcher) *Service {
	return &Service{
		cfg:     cfg,
		logger:  logger.With("component", "scraper"),
		fetcher: f,
	}
}

// Search scrapes marketplace search results for q. Zero results is a valid
// outcome, not an error.
func (s *Service) Search(ctx context.Context, q types.SearchQuery) ([]types.ListingSummary, error) {
	target, err := query.SearchURL(&s.cfg.Search, q)
	if err != nil {
		return nil, err
	}

	req := &fetcher.PageRequest{
		URL:          target,
		WaitSelector: extract.CardSelector,
		Scrolls:      s.cfg.Browser.ScrollCount,
	}
	if s.cfg.Debug.Enabled {
		req.Screenshot = filepath.Join(s.cfg.Debug.ArtifactDir, "search_debug.png")
	}

	markup, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	listings, err := extract.Listings(markup, s.cfg.Search.BaseURL)
	if err != nil {
		return nil, err
	}

	// The search URL already asks the site to pre-filter by age, but the
	// local pass is the contract.
	if q.MaxAgeDays > 0 {
		listings = recency.Filter(listings, q.MaxAgeDays, func(l types.ListingSummary) string {
			return l.ListedText
		})
	}

	s.logger.Info("search complete", "term", q.Term, "results", len(listings))
	return listings, nil
}

// GetDetail scrapes the full record for one listing id.
func (s *Service) GetDetail(ctx context.Context, listingID string) (*types.ListingDetail, error) {
	listingID = strings.TrimSpace(listingID)
	if listingID == "" {
		return nil, fmt.Errorf("%w: empty listing id", types.ErrInvalidInput)
	}

	target := query.DetailURL(&s.cfg.Search, listingID)

	req := &fetcher.PageRequest{
		URL:          target,
		WaitSelector: "body",
	}
	if s.cfg.Debug.Enabled {
		req.Screenshot = filepath.Join(s.cfg.Debug.ArtifactDir, "detail_debug.png")
	}

	markup, err := s.fetcher.Fetch(ctx, req)
	if err != nil {
		return nil, err
	}

	detail, err := extract.Detail(markup, listingID, target)
	if err != nil {
		return nil, err
	}

	s.logger.Info("detail complete", "listing_id", listingID, "title", detail.Title)
	return detail, nil
}

// Close releases the underlying browser session.
func (s *Service) Close() error {
	return s.fetcher.Close()
}
