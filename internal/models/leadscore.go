// internal/models/leadscore.go
package models

import "time"

// LeadScore is the scoring pipeline's output row, one per RFQ. The rfq_id
// unique key plus upsert writes keep re-runs convergent.
type LeadScore struct {
	RFQID                 string    `json:"rfqId"`
	LeadScore             int       `json:"leadScore"` // ConversionProbability * 100, 0..100
	ConversionProbability float64   `json:"conversionProbability"`
	ModelVersion          string    `json:"modelVersion"`
	PredictedAt           time.Time `json:"predictedAt"`
}

// Priority bands used by the serving API.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// PriorityForScore maps a 0..100 lead score onto the operator-facing band.
func PriorityForScore(score int) string {
	switch {
	case score >= 70:
		return PriorityHigh
	case score >= 40:
		return PriorityMedium
	default:
		return PriorityLow
	}
}

// ScoreColorForScore returns the UI badge color for a lead score.
func ScoreColorForScore(score int) string {
	switch {
	case score >= 70:
		return "green"
	case score >= 40:
		return "yellow"
	default:
		return "gray"
	}
}
