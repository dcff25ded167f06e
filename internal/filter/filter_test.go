package filter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/sku_console/internal/models"
)

func fixture() []models.SKU {
	return []models.SKU{
		{ID: 1, SkuCode: "MEN-TS-001", Name: "Cotton Tee", Category: "Shirts", StyleName: "Casual", Colour: "White", Size: models.SizeM},
		{ID: 2, SkuCode: "MEN-SH-002", Name: "Oxford Shirt", Category: "Shirts", StyleName: "Formal", Colour: "Blue", Size: models.SizeL},
		{ID: 3, SkuCode: "WOM-JNS-003", Name: "Slim Denim", Category: "Jeans", StyleName: "Casual", Colour: "Blue", Size: models.SizeS},
		{ID: 4, SkuCode: "KID-COT-004", Name: "Kids Cotton Shorts", Category: "Kids Wear", Colour: "Red"},
		{ID: 5, SkuCode: "UGM-BXR-005", Name: "Boxers", Category: "Shirts", StyleName: "COTTON blend", Size: models.SizeXL},
	}
}

func ids(records []models.SKU) []int64 {
	out := make([]int64, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestVisibleRecords_DefaultStateIsIdentity(t *testing.T) {
	all := fixture()
	assert.Equal(t, all, VisibleRecords(all, DefaultState()))
	assert.Equal(t, all, VisibleRecords(all, State{}))
}

func TestVisibleRecords_SearchAcrossFields(t *testing.T) {
	all := fixture()
	tests := []struct {
		term string
		want []int64
	}{
		{"cotton", []int64{1, 4, 5}},
		{"SHIRT", []int64{1, 2, 5}},
		{"blue", []int64{2, 3}},
		{"xl", []int64{5}},
		{"kids", []int64{4}},
		{"nomatch", []int64{}},
	}

	for _, tt := range tests {
		t.Run(tt.term, func(t *testing.T) {
			got := VisibleRecords(all, State{SearchTerm: tt.term})
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestVisibleRecords_SearchPartition(t *testing.T) {
	all := fixture()
	for _, term := range []string{"o", "Cas", "-0", "m", "zz"} {
		visible := VisibleRecords(all, State{SearchTerm: term})
		in := make(map[int64]bool)
		for _, r := range visible {
			in[r.ID] = true
		}
		for _, r := range all {
			hit := false
			for _, f := range SearchableFields(r) {
				if strings.Contains(strings.ToLower(f), strings.ToLower(term)) {
					hit = true
				}
			}
			assert.Equal(t, hit, in[r.ID], "term %q record %d", term, r.ID)
		}
	}
}

func TestVisibleRecords_AbsentOptionalFieldsNeverMatch(t *testing.T) {
	all := []models.SKU{{ID: 1, Name: "Plain", SkuCode: "P1", Category: "Misc"}}
	assert.Empty(t, VisibleRecords(all, State{SearchTerm: "m", Category: "Other"}))
	assert.Len(t, VisibleRecords(all, State{SearchTerm: "misc"}), 1)
}

func TestVisibleRecords_CategoricalExactMatch(t *testing.T) {
	all := fixture()
	assert.Equal(t, []int64{1, 2, 5}, ids(VisibleRecords(all, State{Category: "Shirts", StyleName: All, Colour: All, Size: All})))
	assert.Empty(t, VisibleRecords(all, State{Category: "shirts"}), "equality is case-sensitive")
	assert.Equal(t, []int64{1, 3}, ids(VisibleRecords(all, State{StyleName: "Casual"})))
	assert.Equal(t, []int64{2, 3}, ids(VisibleRecords(all, State{Colour: "Blue"})))
	assert.Equal(t, []int64{3}, ids(VisibleRecords(all, State{Size: "S"})))
}

func TestVisibleRecords_Conjunction(t *testing.T) {
	all := fixture()
	s := State{SearchTerm: "cotton", Category: "Shirts", StyleName: All, Colour: All, Size: All}
	assert.Equal(t, []int64{1, 5}, ids(VisibleRecords(all, s)))

	s = State{Category: "Shirts", Colour: "Blue", Size: "L"}
	assert.Equal(t, []int64{2}, ids(VisibleRecords(all, s)))

	s = State{Category: "Shirts", Colour: "Blue", Size: "S"}
	assert.Empty(t, VisibleRecords(all, s))
}

func TestPredicates_OrderIndependent(t *testing.T) {
	all := fixture()
	s := State{SearchTerm: "s", Category: "Shirts", StyleName: "Casual", Colour: "White", Size: "M"}
	preds := s.Predicates()
	assert.Len(t, preds, 5)

	reversed := make([]Predicate, len(preds))
	for i, p := range preds {
		reversed[len(preds)-1-i] = p
	}
	for _, r := range all {
		assert.Equal(t, matchesAll(r, preds), matchesAll(r, reversed))
		assert.Equal(t, Matches(r, s), matchesAll(r, reversed))
	}
}

func TestVisibleRecords_DoesNotMutateInput(t *testing.T) {
	all := fixture()
	before := append([]models.SKU(nil), all...)
	_ = VisibleRecords(all, State{Colour: "Blue"})
	assert.Equal(t, before, all)
}

func TestState_ActiveAndNormalize(t *testing.T) {
	assert.False(t, DefaultState().Active())
	assert.False(t, State{}.Active())
	assert.True(t, State{Size: "M"}.Active())
	assert.Equal(t, DefaultState(), State{}.Normalize())
}
