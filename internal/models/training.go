// internal/models/training.go
package models

// TrainingRow is one labeled example from the historical dataset. Field
// values are the raw feature signals, already in encoder units.
type TrainingRow struct {
	BuyerBRank      float64 `json:"buyerBrank"`
	CategoryMatch   float64 `json:"categoryMatch"`
	BudgetSpecified float64 `json:"budgetSpecified"`
	Converted       int     `json:"converted"` // binary outcome label
}
