// Package filter derives the visible subset of the SKU snapshot from the
// current search and selector state. Everything here is pure; callers
// re-run VisibleRecords after every change to records or state.
package filter

import (
	"strings"

	"github.com/GTDGit/sku_console/internal/models"
)

// All is the selector value that applies no constraint.
const All = "all"

// State is the combination of the free-text search and the four categorical
// selectors.
type State struct {
	SearchTerm string `json:"searchTerm"`
	Category   string `json:"category"`
	StyleName  string `json:"styleName"`
	Colour     string `json:"colour"`
	Size       string `json:"size"`
}

// DefaultState has an empty search and every selector on All.
func DefaultState() State {
	return State{Category: All, StyleName: All, Colour: All, Size: All}
}

// Normalize maps empty selectors to All.
func (s State) Normalize() State {
	for _, sel := range []*string{&s.Category, &s.StyleName, &s.Colour, &s.Size} {
		if *sel == "" {
			*sel = All
		}
	}
	return s
}

// Active reports whether any predicate would apply.
func (s State) Active() bool {
	s = s.Normalize()
	return s.SearchTerm != "" || s.Category != All || s.StyleName != All || s.Colour != All || s.Size != All
}

// Predicate admits or rejects one record.
type Predicate func(models.SKU) bool

// Predicates returns the active predicates of s. Their order does not affect
// the result.
func (s State) Predicates() []Predicate {
	s = s.Normalize()
	var preds []Predicate
	if s.SearchTerm != "" {
		term := strings.ToLower(s.SearchTerm)
		preds = append(preds, func(r models.SKU) bool { return matchesLowerTerm(r, term) })
	}
	if s.Category != All {
		want := s.Category
		preds = append(preds, func(r models.SKU) bool { return r.Category == want })
	}
	if s.StyleName != All {
		want := s.StyleName
		preds = append(preds, func(r models.SKU) bool { return r.StyleName == want })
	}
	if s.Colour != All {
		want := s.Colour
		preds = append(preds, func(r models.SKU) bool { return r.Colour == want })
	}
	if s.Size != All {
		want := models.Size(s.Size)
		preds = append(preds, func(r models.SKU) bool { return r.Size == want })
	}
	return preds
}

// MatchesSearch reports whether term occurs, ignoring case, in the record's
// name, code, category, style, colour or size.
func MatchesSearch(r models.SKU, term string) bool {
	return matchesLowerTerm(r, strings.ToLower(term))
}

func matchesLowerTerm(r models.SKU, term string) bool {
	for _, field := range SearchableFields(r) {
		if strings.Contains(strings.ToLower(field), term) {
			return true
		}
	}
	return false
}

// SearchableFields lists the fields free-text search looks at. Optional
// fields are included only when present.
func SearchableFields(r models.SKU) []string {
	fields := []string{r.Name, r.SkuCode, r.Category}
	for _, opt := range []string{r.StyleName, r.Colour, string(r.Size)} {
		if opt != "" {
			fields = append(fields, opt)
		}
	}
	return fields
}

// Matches reports whether r satisfies every active predicate of s.
func Matches(r models.SKU, s State) bool {
	return matchesAll(r, s.Predicates())
}

func matchesAll(r models.SKU, preds []Predicate) bool {
	for _, p := range preds {
		if !p(r) {
			return false
		}
	}
	return true
}

// VisibleRecords returns the records that satisfy every active predicate of
// s, in their original order. The input is never modified.
func VisibleRecords(all []models.SKU, s State) []models.SKU {
	preds := s.Predicates()
	out := make([]models.SKU, 0, len(all))
	for _, r := range all {
		if matchesAll(r, preds) {
			out = append(out, r)
		}
	}
	return out
}
