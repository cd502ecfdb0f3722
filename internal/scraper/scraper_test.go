package scraper

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"reflect"
	"strings"
	"testing"

	"github.com/martscout/martscout/internal/config"
	"github.com/martscout/martscout/internal/fetcher"
	"github.com/martscout/martscout/internal/types"
)

var testLogger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

const searchHTML = `<!DOCTYPE html>
<html>
<body>
  <a href="/marketplace/item/111222333/?ref=search">
    <span>£50</span>
    <span>Brewing fermenter 30L</span>
    <span>Sheffield</span>
  </a>
  <a href="/marketplace/item/444555666/?ref=search">
    <span>£30</span>
    <span>Plastic barrel 200L</span>
    <span>Leeds</span>
    <span>Listed 3 days ago</span>
  </a>
</body>
</html>`

const detailHTML = `<!DOCTYPE html>
<html>
<body>
  <div><span>£50</span></div>
  <div><span>Details</span></div>
  <div><span>Condition</span></div>
  <div><span>Used - good</span></div>
  <div><span>Brewing fermenter 30L</span></div>
  <div><span>Message</span></div>
</body>
</html>`

// fakeFetcher serves canned markup and records the last request.
type fakeFetcher struct {
	markup  string
	err     error
	lastReq *fetcher.PageRequest
	calls   int
	closed  bool
}

func (f *fakeFetcher) Fetch(ctx context.Context, req *fetcher.PageRequest) (string, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return "", f.err
	}
	return f.markup, nil
}

func (f *fakeFetcher) Close() error {
	f.closed = true
	return nil
}

func newTestService(f fetcher.Fetcher) *Service {
	cfg := config.DefaultConfig()
	return New(cfg, testLogger, f)
}

func TestSearch(t *testing.T) {
	fake := &fakeFetcher{markup: searchHTML}
	svc := newTestService(fake)

	listings, err := svc.Search(context.Background(), types.SearchQuery{Term: "fermenter"})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if len(listings) != 2 {
		t.Fatalf("expected 2 listings, got %d", len(listings))
	}

	if !strings.Contains(fake.lastReq.URL, "query=fermenter") {
		t.Errorf("fetch URL missing encoded term: %q", fake.lastReq.URL)
	}
	if fake.lastReq.WaitSelector == "" {
		t.Errorf("search fetch must wait for the results signal")
	}
	if fake.lastReq.Scrolls != 3 {
		t.Errorf("scrolls = %d, want configured default 3", fake.lastReq.Scrolls)
	}
	if fake.lastReq.Screenshot != "" {
		t.Errorf("screenshot requested without debug mode: %q", fake.lastReq.Screenshot)
	}
}

func TestSearchAppliesRecencyFilter(t *testing.T) {
	fake := &fakeFetcher{markup: searchHTML}
	svc := newTestService(fake)

	listings, err := svc.Search(context.Background(), types.SearchQuery{Term: "fermenter", MaxAgeDays: 1})
	if err != nil {
		t.Fatalf("search error: %v", err)
	}

	// The second card is annotated "Listed 3 days ago" and must fall to a
	// one-day threshold; the first has no annotation and must be kept.
	if len(listings) != 1 || listings[0].ListingID != "111222333" {
		t.Fatalf("filtered results = %v, want only 111222333", listings)
	}
	if !strings.Contains(fake.lastReq.URL, "daysSinceListed=1") {
		t.Errorf("filter not forwarded to the search URL: %q", fake.lastReq.URL)
	}
}

func TestSearchEmptyTerm(t *testing.T) {
	fake := &fakeFetcher{markup: searchHTML}
	svc := newTestService(fake)

	_, err := svc.Search(context.Background(), types.SearchQuery{Term: "   "})
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("got err %v, want ErrInvalidInput", err)
	}
	if fake.calls != 0 {
		t.Errorf("no navigation on invalid input, got %d fetches", fake.calls)
	}
}

func TestSearchPropagatesNavigationError(t *testing.T) {
	navErr := &types.NavigationError{URL: "x", Err: errors.New("timeout")}
	fake := &fakeFetcher{err: navErr}
	svc := newTestService(fake)

	_, err := svc.Search(context.Background(), types.SearchQuery{Term: "fermenter"})
	var got *types.NavigationError
	if !errors.As(err, &got) {
		t.Fatalf("got err %v, want NavigationError", err)
	}
	if fake.calls != 1 {
		t.Errorf("fetch attempted %d times, want exactly 1 (no retries)", fake.calls)
	}
}

func TestSearchIdempotent(t *testing.T) {
	fake := &fakeFetcher{markup: searchHTML}
	svc := newTestService(fake)

	q := types.SearchQuery{Term: "fermenter"}
	a, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	b, err := svc.Search(context.Background(), q)
	if err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !reflect.DeepEqual(a, b) {
		t.Errorf("identical inputs produced different output:\n%v\n%v", a, b)
	}
}

func TestSearchDebugScreenshot(t *testing.T) {
	fake := &fakeFetcher{markup: searchHTML}
	cfg := config.DefaultConfig()
	cfg.Debug.Enabled = true
	cfg.Debug.ArtifactDir = "/tmp/martscout-test"
	svc := New(cfg, testLogger, fake)

	if _, err := svc.Search(context.Background(), types.SearchQuery{Term: "fermenter"}); err != nil {
		t.Fatalf("search error: %v", err)
	}
	if !strings.HasPrefix(fake.lastReq.Screenshot, "/tmp/martscout-test") {
		t.Errorf("debug screenshot path = %q", fake.lastReq.Screenshot)
	}
}

func TestGetDetail(t *testing.T) {
	fake := &fakeFetcher{markup: detailHTML}
	svc := newTestService(fake)

	d, err := svc.GetDetail(context.Background(), " 111222333 ")
	if err != nil {
		t.Fatalf("detail error: %v", err)
	}
	if d.ListingID != "111222333" {
		t.Errorf("id = %q", d.ListingID)
	}
	if d.Condition != "Used - good" {
		t.Errorf("condition = %q", d.Condition)
	}
	if !strings.Contains(fake.lastReq.URL, "/marketplace/item/111222333") {
		t.Errorf("detail fetch URL = %q", fake.lastReq.URL)
	}
	if fake.lastReq.Scrolls != 0 {
		t.Errorf("detail lookups must not scroll, got %d", fake.lastReq.Scrolls)
	}
}

func TestGetDetailEmptyID(t *testing.T) {
	fake := &fakeFetcher{markup: detailHTML}
	svc := newTestService(fake)

	_, err := svc.GetDetail(context.Background(), "  ")
	if !errors.Is(err, types.ErrInvalidInput) {
		t.Fatalf("got err %v, want ErrInvalidInput", err)
	}
	if fake.calls != 0 {
		t.Errorf("no navigation on invalid input, got %d fetches", fake.calls)
	}
}

func TestCloseReleasesFetcher(t *testing.T) {
	fake := &fakeFetcher{markup: searchHTML}
	svc := newTestService(fake)

	if err := svc.Close(); err != nil {
		t.Fatalf("close error: %v", err)
	}
	if !fake.closed {
		t.Errorf("underlying fetcher not released")
	}
}
