// internal/models/business.go
package models

// Business is a buyer profile. BRank is an ordinal business rank in 1..5,
// 1 being the highest tier.
type Business struct {
	ID              string `json:"businessId"`
	Name            string `json:"businessName,omitempty"`
	BRank           int    `json:"brank"`
	PrimaryCategory string `json:"primaryCategory"`
}
