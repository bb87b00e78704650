// internal/models/rfq.go
package models

import "time"

// RFQ statuses as written by the marketplace system. Only published RFQs
// are candidates for scoring.
const (
	RFQStatusDraft     = "draft"
	RFQStatusPublished = "published"
	RFQStatusClosed    = "closed"
)

// RFQ is a buyer-posted request for quotation. Rows are owned by the
// marketplace system; the scoring pipeline only reads them.
type RFQ struct {
	ID              string     `json:"rfqId"`
	Title           string     `json:"title"`
	Description     string     `json:"description,omitempty"`
	Category        string     `json:"category"`
	Status          string     `json:"status"`
	BuyerBusinessID string     `json:"buyerBusinessId"`
	BudgetMin       *float64   `json:"budgetMin,omitempty"`
	BudgetMax       *float64   `json:"budgetMax,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

// HasBudget reports whether the RFQ declares a usable budget range.
// Absent or zero-valued bounds count as no budget.
func (r *RFQ) HasBudget() bool {
	return r.BudgetMin != nil && r.BudgetMax != nil && *r.BudgetMax > 0
}
