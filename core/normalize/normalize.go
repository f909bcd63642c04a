package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Name lowercases raw, trims it and collapses every run of whitespace into a
// single space. It is total: Name("") returns "".
func Name(raw string) string {
	if raw == "" {
		return ""
	}
	// A Caser is stateful, so one is built per call instead of shared.
	lowered := cases.Lower(language.Und).String(raw)
	return strings.Join(strings.Fields(lowered), " ")
}

// MatchType normalizes a keyword match type ("EXACT", " Exact ") so that
// manifest and snapshot values compare equal.
func MatchType(raw string) string {
	return Name(raw)
}

// Canonical placement descriptors.
const (
	PlacementTopOfSearch  = "top of search"
	PlacementProductPages = "product pages"
	PlacementRestOfSearch = "rest of search"
)

// placementAliases maps every known code or export label, already passed
// through Name, to its canonical descriptor.
var placementAliases = map[string]string{
	"placement_top":              PlacementTopOfSearch,
	"placementtop":               PlacementTopOfSearch,
	"top of search":              PlacementTopOfSearch,
	"top of search on-amazon":    PlacementTopOfSearch,
	"top of search (first page)": PlacementTopOfSearch,
	"placement_product_page":     PlacementProductPages,
	"placementproductpage":       PlacementProductPages,
	"product pages":              PlacementProductPages,
	"product page":               PlacementProductPages,
	"detail page on-amazon":      PlacementProductPages,
	"placement_rest_of_search":   PlacementRestOfSearch,
	"placementrestofsearch":      PlacementRestOfSearch,
	"rest of search":             PlacementRestOfSearch,
	"other on-amazon":            PlacementRestOfSearch,
}

// Placement returns the canonical descriptor for a placement code or label.
// Unknown values fall back to Name(raw).
func Placement(raw string) string {
	key := Name(raw)
	if canonical, ok := placementAliases[key]; ok {
		return canonical
	}
	return key
}
