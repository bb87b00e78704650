// internal/features/encoder_test.go
package features

import (
	"testing"

	"trustmarket-leadscore/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 { return &v }

func TestNames_ReturnsCopy(t *testing.T) {
	names := Names()
	require.Equal(t, []string{"buyer_brank", "category_match", "budget_specified"}, names)

	names[0] = "mutated"
	assert.Equal(t, "buyer_brank", Names()[0])
}

func TestNamesEqual(t *testing.T) {
	tests := []struct {
		name  string
		input []string
		want  bool
	}{
		{"canonical order", []string{"buyer_brank", "category_match", "budget_specified"}, true},
		{"reordered", []string{"category_match", "buyer_brank", "budget_specified"}, false},
		{"missing feature", []string{"buyer_brank", "category_match"}, false},
		{"extra feature", []string{"buyer_brank", "category_match", "budget_specified", "extra"}, false},
		{"renamed feature", []string{"buyer_brank", "category_match", "budget"}, false},
		{"empty", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NamesEqual(tt.input))
		})
	}
}

func TestCategoryMatch(t *testing.T) {
	tests := []struct {
		name          string
		rfqCategory   string
		buyerCategory string
		want          float64
	}{
		{"exact match", "Electronics", "Electronics", CategoryMatchExact},
		{"exact match case insensitive", "electronics", "ELECTRONICS", CategoryMatchExact},
		{"exact match with whitespace", "  Electronics ", "Electronics", CategoryMatchExact},
		{"related via prefix", "Electronics & Components", "Electronics", CategoryMatchRelated},
		{"related short buyer category", "Tooling Supplies", "Tool", CategoryMatchRelated},
		{"unrelated", "Textiles", "Machinery", CategoryMatchUnrelated},
		{"empty rfq category", "", "Electronics", CategoryMatchUnrelated},
		{"empty buyer category", "Electronics", "", CategoryMatchUnrelated},
		{"both empty", "", "", CategoryMatchUnrelated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, CategoryMatch(tt.rfqCategory, tt.buyerCategory), 1e-12)
		})
	}
}

func TestEncode(t *testing.T) {
	buyer := &models.Business{ID: "biz-1", BRank: 2, PrimaryCategory: "Electronics"}

	tests := []struct {
		name  string
		rfq   *models.RFQ
		buyer *models.Business
		want  []float64
	}{
		{
			name: "full signal",
			rfq: &models.RFQ{
				Category:  "Electronics",
				BudgetMin: floatPtr(1000),
				BudgetMax: floatPtr(5000),
			},
			buyer: buyer,
			want:  []float64{2, CategoryMatchExact, 1},
		},
		{
			name:  "no budget",
			rfq:   &models.RFQ{Category: "Electronics"},
			buyer: buyer,
			want:  []float64{2, CategoryMatchExact, 0},
		},
		{
			name: "zero budget max counts as unspecified",
			rfq: &models.RFQ{
				Category:  "Electronics",
				BudgetMin: floatPtr(0),
				BudgetMax: floatPtr(0),
			},
			buyer: buyer,
			want:  []float64{2, CategoryMatchExact, 0},
		},
		{
			name: "only one budget bound counts as unspecified",
			rfq: &models.RFQ{
				Category:  "Electronics",
				BudgetMax: floatPtr(5000),
			},
			buyer: buyer,
			want:  []float64{2, CategoryMatchExact, 0},
		},
		{
			name: "nil buyer",
			rfq: &models.RFQ{
				Category:  "Electronics",
				BudgetMin: floatPtr(1000),
				BudgetMax: floatPtr(5000),
			},
			buyer: nil,
			want:  []float64{0, CategoryMatchUnrelated, 1},
		},
		{
			name:  "missing rfq category",
			rfq:   &models.RFQ{Category: ""},
			buyer: buyer,
			want:  []float64{2, CategoryMatchUnrelated, 0},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Encode(tt.rfq, tt.buyer)
			require.Len(t, got, len(Names()))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncode_Deterministic(t *testing.T) {
	rfq := &models.RFQ{
		Category:  "Industrial Machinery",
		BudgetMin: floatPtr(100),
		BudgetMax: floatPtr(900),
	}
	buyer := &models.Business{BRank: 4, PrimaryCategory: "Industrial Supplies"}

	first := Encode(rfq, buyer)
	for i := 0; i < 100; i++ {
		assert.Equal(t, first, Encode(rfq, buyer))
	}
}
