package query

import (
	"errors"
	"strings"
	"testing"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/types"
)

func testSearchConfig() *config.SearchConfig {
	cfg := config.DefaultConfig()
	return &cfg.Search
}

func TestSearchURL(t *testing.T) {
	url, err := SearchURL(testSearchConfig(), types.SearchQuery{Term: "bike"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "https://www.facebook.com/marketplace/108339199186201/search?locale=en_GB&query=bike"
	if url != want {
		t.Errorf("got %q, want %q", url, want)
	}
}

func TestSearchURLEncodesTerm(t *testing.T) {
	url, err := SearchURL(testSearchConfig(), types.SearchQuery{Term: "brewing fermenter & kit"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(url, "query=brewing+fermenter+%26+kit") {
		t.Errorf("term not URL-encoded: %q", url)
	}
}

func TestSearchURLEmptyTerm(t *testing.T) {
	for _, term := range []string{"", "   ", "\t\n"} {
		_, err := SearchURL(testSearchConfig(), types.SearchQuery{Term: term})
		if !errors.Is(err, types.ErrInvalidInput) {
			t.Errorf("term %q: got err %v, want ErrInvalidInput", term, err)
		}
	}
}

func TestSearchURLDaysParam(t *testing.T) {
	url, err := SearchURL(testSearchConfig(), types.SearchQuery{Term: "bike", MaxAgeDays: 7})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(url, "daysSinceListed=7") {
		t.Errorf("missing daysSinceListed param: %q", url)
	}

	url, _ = SearchURL(testSearchConfig(), types.SearchQuery{Term: "bike"})
	if strings.Contains(url, "daysSinceListed") {
		t.Errorf("daysSinceListed must be absent without a filter: %q", url)
	}
}

func TestSearchURLLocationOverride(t *testing.T) {
	url, err := SearchURL(testSearchConfig(), types.SearchQuery{Term: "bike", LocationID: "london"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(url, "/marketplace/london/search") {
		t.Errorf("location id not passed through verbatim: %q", url)
	}
}

func TestSearchURLCursor(t *testing.T) {
	url, err := SearchURL(testSearchConfig(), types.SearchQuery{Term: "bike", Cursor: "abc=="})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(url, "cursor=abc%3D%3D") {
		t.Errorf("cursor not carried: %q", url)
	}
}

func TestDetailURL(t *testing.T) {
	url := DetailURL(testSearchConfig(), "123456789")
	want := "https://www.facebook.com/marketplace/item/123456789"
	if url != want {
		t.Errorf("got %q, want %q", url, want)
	}
}
