package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/martscout/martscout/internal/types"
)

// CardSelector identifies listing cards in search-results markup. It is also
// the content-ready signal the fetcher waits for.
const CardSelector = `a[href*="/marketplace/item/"]`

var (
	itemHrefRe = regexp.MustCompile(`/marketplace/item/(\d+)`)

	// A price line is currency-prefixed ("£120", "$1,200.50"),
	// currency-suffixed ("120 €"), or the word "Free".
	pricePrefixRe = regexp.MustCompile(`^[\$£€][\d,\.]+`)
	priceSuffixRe = regexp.MustCompile(`^[\d,\.]+\s*[\$£€]`)

	digitsOnlyRe = regexp.MustCompile(`^\d+$`)
)

// Listings parses rendered search-results markup into summary records in
// document order, deduplicated by listing id (first occurrence wins). A
// results page with no cards yields an empty slice, not an error.
func Listings(markup, baseURL string) ([]types.ListingSummary, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse search markup: %w", err)
	}

	seen := make(map[string]struct{})
	var listings []types.ListingSummary

	doc.Find(CardSelector).Each(func(_ int, card *goquery.Selection) {
		href, _ := card.Attr("href")
		m := itemHrefRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		id := m[1]
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}

		title, price, location, listed := parseCardLines(nodeLines(card))

		image := firstOf(card,
			attrOf("img", "src"),
			attrOf("img", "data-src"),
			xpathText(`.//img/@src`),
		)

		// A card with neither title nor price is a sponsored or
		// unrelated element, not a listing.
		if title == "" && price == "" {
			return
		}
		if title == "" {
			title = "Listing " + id
		}
		if price == "" {
			price = "Price not listed"
		}

		listings = append(listings, types.ListingSummary{
			ListingID:  id,
			Title:      title,
			Price:      price,
			Location:   location,
			URL:        itemURL(baseURL, id),
			ImageURL:   image,
			ListedText: listed,
		})
	})

	return listings, nil
}

// parseCardLines classifies a card's text lines. The markup gives no stable
// field structure, so the heuristic is positional: the price is the line
// that looks like money, the title is the first substantial non-numeric
// line, the location the next one after it.
func parseCardLines(lines []string) (title, price, location, listed string) {
	for _, line := range lines {
		switch {
		case isPriceLine(line):
			if price == "" {
				price = line
			}
		case strings.HasPrefix(line, "Listed ") && strings.Contains(line, "ago"):
			if listed == "" {
				listed = line
			}
		case title == "" && len(line) > 2 && !digitsOnlyRe.MatchString(line):
			title = line
		case title != "" && location == "" && len(line) > 2:
			location = line
		}
	}
	return title, price, location, listed
}

func isPriceLine(line string) bool {
	return pricePrefixRe.MatchString(line) ||
		priceSuffixRe.MatchString(line) ||
		strings.EqualFold(line, "free")
}

func itemURL(baseURL, id string) string {
	return fmt.Sprintf("%s/marketplace/item/%s", strings.TrimRight(baseURL, "/"), id)
}
