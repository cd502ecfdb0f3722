package recency

import (
	"math"
	"testing"

	"github.com/martscout/martscout/internal/types"
)

func TestAge(t *testing.T) {
	tests := []struct {
		text string
		days float64
		ok   bool
	}{
		{"Listed 3 days ago", 3, true},
		{"Listed 1 day ago", 1, true},
		{"Listed 2 hours ago", 2.0 / 24, true},
		{"45 minutes ago", 45.0 / (24 * 60), true},
		{"Listed 2 weeks ago", 14, true},
		{"Listed 1 month ago", 30, true},
		{"LISTED 5 DAYS AGO", 5, true},
		{"Listed recently", 0, false},
		{"Listed yesterday", 0, false},
		{"Listed days ago", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		days, ok := Age(tt.text)
		if ok != tt.ok {
			t.Errorf("Age(%q) ok = %v, want %v", tt.text, ok, tt.ok)
			continue
		}
		if ok && math.Abs(days-tt.days) > 1e-9 {
			t.Errorf("Age(%q) = %v days, want %v", tt.text, days, tt.days)
		}
	}
}

func TestFilterThreshold(t *testing.T) {
	listings := []types.ListingSummary{
		{ListingID: "1", ListedText: "Listed 3 days ago"},
		{ListingID: "2", ListedText: "Listed 2 weeks ago"},
	}
	dateOf := func(l types.ListingSummary) string { return l.ListedText }

	kept := Filter(listings, 7, dateOf)
	if len(kept) != 1 || kept[0].ListingID != "1" {
		t.Fatalf("Filter(7) kept %v, want only listing 1", kept)
	}

	kept = Filter(listings, 1, dateOf)
	if len(kept) != 0 {
		t.Fatalf("Filter(1) kept %d listings, want 0", len(kept))
	}
}

func TestFilterKeepsUnparseable(t *testing.T) {
	listings := []types.ListingSummary{
		{ListingID: "1", ListedText: "Listed recently"},
		{ListingID: "2"},
		{ListingID: "3", ListedText: "Listed 9 days ago"},
	}
	dateOf := func(l types.ListingSummary) string { return l.ListedText }

	// Unknown age is never grounds for exclusion, even at the tightest
	// threshold.
	kept := Filter(listings, 1, dateOf)
	if len(kept) != 2 {
		t.Fatalf("Filter(1) kept %d listings, want 2", len(kept))
	}
	if kept[0].ListingID != "1" || kept[1].ListingID != "2" {
		t.Errorf("Filter kept wrong listings: %v", kept)
	}
}

func TestFilterDisabled(t *testing.T) {
	listings := []types.ListingSummary{
		{ListingID: "1", ListedText: "Listed 2 months ago"},
	}
	kept := Filter(listings, 0, func(l types.ListingSummary) string { return l.ListedText })
	if len(kept) != 1 {
		t.Fatalf("Filter(0) must not filter, kept %d", len(kept))
	}
}

func TestFilterOnDetails(t *testing.T) {
	details := []types.ListingDetail{
		{ListedDate: "Listed 10 days ago"},
		{ListedDate: "Listed 1 hour ago"},
	}
	kept := Filter(details, 7, func(d types.ListingDetail) string { return d.ListedDate })
	if len(kept) != 1 || kept[0].ListedDate != "Listed 1 hour ago" {
		t.Fatalf("Filter over details kept %v", kept)
	}
}
