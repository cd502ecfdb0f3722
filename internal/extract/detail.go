package extract

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/martscout/martscout/internal/types"
)

// Markers the site renders when a listing id does not resolve to a listing.
// Only these mean NotFound; a page that merely lacks optional sections is
// still a valid listing.
var notFoundMarkers = []string{
	"this listing isn't available",
	"this listing isn’t available",
	"this listing is no longer available",
	"this content isn't available right now",
	"this content isn’t available right now",
	"the link you followed may be broken",
}

// A standalone price line on the detail page ("£120", "Free").
var detailPriceRe = regexp.MustCompile(`^[\$£€][\d,\.]+$`)

// Lines that terminate the details section.
var sectionEnders = map[string]struct{}{
	"Message":                 {},
	"Save":                    {},
	"Share":                   {},
	"Location is approximate": {},
}

// Detail parses rendered single-listing markup into a full record. Optional
// fields that cannot be extracted are omitted; ErrNotFound is returned only
// when the page carries an explicit listing-not-found marker.
func Detail(markup, listingID, pageURL string) (*types.ListingDetail, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse detail markup: %w", err)
	}

	body := doc.Find("body")
	if body.Length() == 0 {
		body = doc.Selection
	}

	lowered := strings.ToLower(body.Text())
	for _, marker := range notFoundMarkers {
		if strings.Contains(lowered, marker) {
			return nil, fmt.Errorf("%w: id %s", types.ErrNotFound, listingID)
		}
	}

	lines := nodeLines(body)
	d := &types.ListingDetail{}
	d.ListingID = listingID
	d.URL = pageURL

	d.Price = firstOf(body,
		xpathText(`.//span[starts-with(normalize-space(text()), "£")]`),
		xpathText(`.//span[starts-with(normalize-space(text()), "$")]`),
		lineMatch(func(l string) bool {
			return detailPriceRe.MatchString(l) || strings.EqualFold(l, "free")
		}),
	)

	d.ListedDate = firstOf(body,
		lineMatch(func(l string) bool {
			return strings.HasPrefix(l, "Listed ") &&
				(strings.Contains(l, "ago") || strings.Contains(l, " in "))
		}),
	)

	d.Location = locationLine(lines)

	title, condition, description := walkDetailsSection(lines)
	d.Condition = condition
	d.Description = description

	// og: meta tags live in head, so these run against the whole document.
	if title == "" {
		title = firstOf(doc.Selection,
			attrOf(`meta[property="og:title"]`, "content"),
			text("h1"),
		)
	}
	if title == "" {
		title = fallbackTitle(lines)
	}
	d.Title = title

	d.ImageURL = firstOf(doc.Selection,
		attrOf(`meta[property="og:image"]`, "content"),
		attrOf("img", "src"),
	)

	// Condition may also appear as a bare marker line outside the details
	// section on some layouts.
	if d.Condition == "" {
		for i, line := range lines {
			if line == "Condition" && i+1 < len(lines) {
				d.Condition = lines[i+1]
				break
			}
		}
	}

	return d, nil
}

// walkDetailsSection extracts condition, title, and description from the
// lines following the "Details" heading. Layout observed on item pages:
// Details -> Condition -> [condition value] -> [title] -> [description...],
// terminated by an action button or the location footnote.
func walkDetailsSection(lines []string) (title, condition, description string) {
	detailsIdx := -1
	for i, line := range lines {
		if line == "Details" {
			detailsIdx = i
			break
		}
	}
	if detailsIdx < 0 {
		return "", "", ""
	}

	end := detailsIdx + 20
	if end > len(lines) {
		end = len(lines)
	}

	foundCondition := false
	pastCondition := false
	var descLines []string

	for i := detailsIdx + 1; i < end; i++ {
		line := lines[i]
		if line == "Condition" {
			foundCondition = true
			continue
		}
		if foundCondition && !pastCondition {
			condition = line
			pastCondition = true
			continue
		}
		if _, stop := sectionEnders[line]; stop {
			break
		}
		if pastCondition && title == "" && len(line) > 5 && !startsWithCurrency(line) {
			title = line
		} else if title != "" && line != title && len(line) > 2 && line != condition {
			descLines = append(descLines, line)
		}
	}

	return title, condition, strings.Join(descLines, "\n")
}

// locationLine resolves the seller area: the page shows it a few lines above
// the "Location is approximate" footnote.
func locationLine(lines []string) string {
	for i, line := range lines {
		if !strings.Contains(line, "Location is approximate") || i == 0 {
			continue
		}
		low := i - 5
		if low < 0 {
			low = 0
		}
		for j := i - 1; j >= low; j-- {
			if len(lines[j]) > 3 && !strings.HasPrefix(lines[j], "Listed") {
				return lines[j]
			}
		}
	}
	return ""
}

// fallbackTitle picks the first substantial text line when no structured
// title was found.
func fallbackTitle(lines []string) string {
	for _, line := range lines {
		if len(line) > 10 && !startsWithCurrency(line) && !strings.Contains(line, "Facebook") {
			return line
		}
	}
	return ""
}

func startsWithCurrency(line string) bool {
	return strings.HasPrefix(line, "$") ||
		strings.HasPrefix(line, "£") ||
		strings.HasPrefix(line, "€")
}
