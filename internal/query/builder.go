// Package query constructs target marketplace URLs from search terms,
// location identifiers, and pagination cursors.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/types"
)

// SearchURL builds the search-results URL for q. The search term is
// URL-encoded; the location id is passed through verbatim. A term that is
// empty after trimming is rejected with ErrInvalidInput.
func SearchURL(cfg *config.SearchConfig, q types.SearchQuery) (string, error) {
	term := strings.TrimSpace(q.Term)
	if term == "" {
		return "", fmt.Errorf("%w: empty search term", types.ErrInvalidInput)
	}

	location := q.LocationID
	if location == "" {
		location = cfg.DefaultLocationID
	}

	params := url.Values{}
	params.Set("query", term)
	params.Set("locale", cfg.Locale)
	if q.MaxAgeDays > 0 {
		params.Set("daysSinceListed", strconv.Itoa(q.MaxAgeDays))
	}
	if q.Cursor != "" {
		params.Set("cursor", q.Cursor)
	}

	return fmt.Sprintf("%s/marketplace/%s/search?%s",
		strings.TrimRight(cfg.BaseURL, "/"), location, params.Encode()), nil
}

// DetailURL builds the canonical detail-page URL for a listing id.
func DetailURL(cfg *config.SearchConfig, listingID string) string {
	return fmt.Sprintf("%s/marketplace/item/%s",
		strings.TrimRight(cfg.BaseURL, "/"), listingID)
}
