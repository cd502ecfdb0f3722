// Package extract turns rendered marketplace markup into structured listing
// records. The target site serves several structurally different card shapes
// for the same logical listing, so every field is extracted by an ordered
// list of candidate strategies rather than a rigid schema: the first
// strategy yielding a non-empty value wins, and a field with no match is
// omitted instead of failing the record.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/antchfx/htmlquery"
)

// Strategy attempts to pull one field value out of a markup fragment.
// It returns "" when the fragment does not match its pattern.
type Strategy func(*goquery.Selection) string

// firstOf evaluates strategies in order and returns the first non-empty
// trimmed value.
func firstOf(sel *goquery.Selection, strategies ...Strategy) string {
	for _, strat := range strategies {
		if v := strings.TrimSpace(strat(sel)); v != "" {
			return v
		}
	}
	return ""
}

// text matches the trimmed text of the first element found by a CSS
// selector.
func text(selector string) Strategy {
	return func(sel *goquery.Selection) string {
		return strings.TrimSpace(sel.Find(selector).First().Text())
	}
}

// attrOf matches an attribute of the first element found by a CSS selector.
func attrOf(selector, name string) Strategy {
	return func(sel *goquery.Selection) string {
		v, _ := sel.Find(selector).First().Attr(name)
		return v
	}
}

// xpathText matches the inner text of the first node found by an XPath
// expression, evaluated relative to the fragment. Attribute expressions
// (".//img/@src") yield the attribute value.
func xpathText(expr string) Strategy {
	return func(sel *goquery.Selection) string {
		if len(sel.Nodes) == 0 {
			return ""
		}
		node, err := htmlquery.Query(sel.Nodes[0], expr)
		if err != nil || node == nil {
			return ""
		}
		return strings.TrimSpace(htmlquery.InnerText(node))
	}
}

// lineMatch matches the first text line of the fragment for which keep
// returns true.
func lineMatch(keep func(string) bool) Strategy {
	return func(sel *goquery.Selection) string {
		for _, line := range nodeLines(sel) {
			if keep(line) {
				return line
			}
		}
		return ""
	}
}

// nodeLines approximates the rendered text lines of a fragment. Served
// markup is minified, so newlines cannot be trusted; the text of each leaf
// element in document order is the closest stand-in for what the browser
// lays out as separate lines. Falls back to newline splitting for fragments
// with no element children.
func nodeLines(sel *goquery.Selection) []string {
	var lines []string
	sel.Find("*").Each(func(_ int, s *goquery.Selection) {
		if s.Children().Length() > 0 || s.Is("script, style, br, img") {
			return
		}
		if t := strings.TrimSpace(s.Text()); t != "" {
			lines = append(lines, t)
		}
	})
	if len(lines) == 0 {
		lines = textLines(sel.Text())
	}
	return lines
}

// textLines splits rendered text into trimmed, non-empty lines.
func textLines(s string) []string {
	raw := strings.Split(s, "\n")
	lines := make([]string, 0, len(raw))
	for _, l := range raw {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
