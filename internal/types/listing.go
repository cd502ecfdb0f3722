package types

// ListingSummary is one marketplace search result card.
type ListingSummary struct {
	// ListingID is the numeric token that uniquely identifies a listing.
	// It is the minimum viable signal that a DOM node is a real listing.
	ListingID string `json:"listing_id"`

	// Title is the listing headline.
	Title string `json:"title"`

	// Price is the raw currency-prefixed text as shown on the card
	// ("£120", "Free"). It is never parsed into a number.
	Price string `json:"price"`

	// Location is the seller's approximate area.
	Location string `json:"location"`

	// URL is the canonical detail-page URL derived from ListingID.
	URL string `json:"url"`

	// ImageURL is the card thumbnail, when one was found.
	ImageURL string `json:"image_url,omitempty"`

	// ListedText holds the raw "Listed N days ago" phrase when the card
	// carried one. It only exists for recency filtering within a single
	// request and is never serialized.
	ListedText string `json:"-"`
}

// ListingDetail is the full record parsed from a listing's own page.
type ListingDetail struct {
	ListingSummary

	// Description is the seller-written body text, when present.
	Description string `json:"description,omitempty"`

	// Condition is the stated item condition ("Used - good"), when present.
	Condition string `json:"condition,omitempty"`

	// ListedDate is the raw "Listed 3 days ago" text. No numeric age is
	// stored; callers derive one transiently when filtering.
	ListedDate string `json:"listed_date,omitempty"`
}

// SearchQuery describes one search operation. It is constructed per request
// and never persisted.
type SearchQuery struct {
	// Term is the free-text search term.
	Term string

	// LocationID is the marketplace region identifier. Empty means the
	// configured default region.
	LocationID string

	// MaxAgeDays filters out listings older than this many days.
	// Zero disables the recency filter.
	MaxAgeDays int

	// Cursor is an opaque pagination token passed through verbatim.
	Cursor string
}
