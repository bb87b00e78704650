// internal/features/encoder.go
// Package features is the single feature-encoding contract shared by the
// trainer and the scorer. Both sides call Encode and embed Names() in the
// model artifact, so feature order can never drift between training and
// inference.
package features

import (
	"strings"

	"trustmarket-leadscore/internal/models"
)

// Category match tiers. Missing category information is treated as evidence
// of mismatch, not as an error.
const (
	CategoryMatchExact     = 1.0
	CategoryMatchRelated   = 0.6
	CategoryMatchUnrelated = 0.2
)

// relatedPrefixLen is how many leading runes of the buyer's primary category
// must occur in the RFQ category for the two to count as related.
const relatedPrefixLen = 5

// featureNames is the canonical feature order. Index i of every encoded
// vector always carries the signal named at index i here.
var featureNames = []string{"buyer_brank", "category_match", "budget_specified"}

// Names returns the ordered feature name list. The returned slice is a copy.
func Names() []string {
	out := make([]string, len(featureNames))
	copy(out, featureNames)
	return out
}

// NamesEqual reports whether the given list is byte-for-byte the canonical
// feature order. Used as the train/serve schema guard at artifact load.
func NamesEqual(names []string) bool {
	if len(names) != len(featureNames) {
		return false
	}
	for i, n := range names {
		if n != featureNames[i] {
			return false
		}
	}
	return true
}

// Encode maps an RFQ and its buyer profile to the fixed-order feature
// vector. Pure function: no I/O, no side effects. A nil buyer encodes with
// rank 0 and the lowest category tier.
func Encode(rfq *models.RFQ, buyer *models.Business) []float64 {
	var rank float64
	var buyerCategory string
	if buyer != nil {
		rank = float64(buyer.BRank)
		buyerCategory = buyer.PrimaryCategory
	}

	budget := 0.0
	if rfq.HasBudget() {
		budget = 1.0
	}

	return []float64{
		rank,
		CategoryMatch(rfq.Category, buyerCategory),
		budget,
	}
}

// CategoryMatch scores RFQ category against the buyer's primary category:
// exact match 1.0, related group 0.6, otherwise 0.2. Related means the
// first five runes of the buyer category occur anywhere in the RFQ
// category, mirroring the grouping rule the score tables were built with.
func CategoryMatch(rfqCategory, buyerCategory string) float64 {
	rc := strings.ToLower(strings.TrimSpace(rfqCategory))
	bc := strings.ToLower(strings.TrimSpace(buyerCategory))

	if rc == "" || bc == "" {
		return CategoryMatchUnrelated
	}
	if rc == bc {
		return CategoryMatchExact
	}

	prefix := bc
	if runes := []rune(bc); len(runes) > relatedPrefixLen {
		prefix = string(runes[:relatedPrefixLen])
	}
	if strings.Contains(rc, prefix) {
		return CategoryMatchRelated
	}

	return CategoryMatchUnrelated
}
