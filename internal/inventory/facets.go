package inventory

import (
	"cmp"
	"slices"

	"github.com/GTDGit/sku_console/internal/models"
)

// Facets are the distinct attribute values offered as filter choices.
type Facets struct {
	StyleNames []string      `json:"styleNames"`
	Colours    []string      `json:"colours"`
	Sizes      []models.Size `json:"sizes"`
}

// Clone returns a copy that shares no backing arrays with f.
func (f Facets) Clone() Facets {
	return Facets{
		StyleNames: append([]string{}, f.StyleNames...),
		Colours:    append([]string{}, f.Colours...),
		Sizes:      append([]models.Size{}, f.Sizes...),
	}
}

// DeriveFacets computes all facets of records.
func DeriveFacets(records []models.SKU) Facets {
	return Facets{
		StyleNames: StyleNames(records),
		Colours:    Colours(records),
		Sizes:      Sizes(records),
	}
}

// StyleNames returns the distinct non-empty style names, sorted bytewise.
func StyleNames(records []models.SKU) []string {
	return distinctSorted(records, func(s models.SKU) string { return s.StyleName })
}

// Colours returns the distinct non-empty colours, sorted bytewise. Case is
// significant, so "Red" and "red" are separate entries.
func Colours(records []models.SKU) []string {
	return distinctSorted(records, func(s models.SKU) string { return s.Colour })
}

// Sizes returns the distinct non-empty sizes in size order.
func Sizes(records []models.SKU) []models.Size {
	sizes := distinct(records, func(s models.SKU) models.Size { return s.Size })
	SortSizes(sizes)
	return sizes
}

// SortSizes orders sizes S < M < L < XL < XXL < XXXL. Sizes outside that
// order sort after every known size, bytewise among themselves.
func SortSizes(sizes []models.Size) {
	slices.SortStableFunc(sizes, compareSizes)
}

func compareSizes(a, b models.Size) int {
	ra, rb := a.Rank(), b.Rank()
	switch {
	case ra >= 0 && rb >= 0:
		return cmp.Compare(ra, rb)
	case ra >= 0:
		return -1
	case rb >= 0:
		return 1
	default:
		return cmp.Compare(a, b)
	}
}

func distinctSorted(records []models.SKU, field func(models.SKU) string) []string {
	values := distinct(records, field)
	slices.Sort(values)
	return values
}

// distinct collects the non-empty values of field in first-seen order.
func distinct[T ~string](records []models.SKU, field func(models.SKU) T) []T {
	seen := make(map[T]struct{}, len(records))
	out := make([]T, 0)
	for _, r := range records {
		v := field(r)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
