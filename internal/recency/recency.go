// Package recency converts free-text "Listed N days ago" phrases into
// approximate ages and filters listings against a maximum age.
package recency

import (
	"regexp"
	"strconv"
	"strings"
)

// unitDays maps a relative-time unit to its approximate length in days.
// Weeks and months are approximations; listing ages are fuzzy to begin with.
var unitDays = map[string]float64{
	"minute": 1.0 / (24 * 60),
	"hour":   1.0 / 24,
	"day":    1,
	"week":   7,
	"month":  30,
}

var relativeRe = regexp.MustCompile(`(?i)(\d+)\s+(minute|hour|day|week|month)s?\s+ago`)

// Age parses text like "Listed 3 days ago" into an approximate age in days.
// A numeric multiplier is required; any phrasing outside the known grammar
// reports ok=false (unknown age), never an error.
func Age(text string) (days float64, ok bool) {
	m := relativeRe.FindStringSubmatch(text)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	mult, known := unitDays[strings.ToLower(m[2])]
	if !known {
		return 0, false
	}
	return float64(n) * mult, true
}

// Filter returns the subsequence of items whose listed-date text (as read
// by dateOf) parses to an age of at most maxDays. Items with no parseable
// text are retained: a listing is never silently dropped because its
// metadata couldn't be read. maxDays <= 0 disables filtering.
func Filter[T any](items []T, maxDays int, dateOf func(T) string) []T {
	if maxDays <= 0 {
		return items
	}
	kept := make([]T, 0, len(items))
	for _, item := range items {
		age, ok := Age(dateOf(item))
		if !ok || age <= float64(maxDays) {
			kept = append(kept, item)
		}
	}
	return kept
}
