// internal/store/readmodel.go
package store

import (
	"context"
	"database/sql"
	"time"

	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/models"
)

// ScoredRFQ is the read-side join of an RFQ, its buyer, and its lead
// score, shaped for the serving API.
type ScoredRFQ struct {
	RFQID                 string     `json:"rfq_id"`
	Title                 string     `json:"title"`
	Description           string     `json:"description,omitempty"`
	Category              string     `json:"category"`
	Status                string     `json:"status,omitempty"`
	BudgetMin             *float64   `json:"budget_min"`
	BudgetMax             *float64   `json:"budget_max"`
	CreatedAt             *time.Time `json:"created_at"`
	BuyerID               string     `json:"buyer_id"`
	BuyerName             string     `json:"buyer_name"`
	BuyerBRank            int        `json:"buyer_brank"`
	BuyerCategory         string     `json:"buyer_category"`
	LeadScore             *int       `json:"lead_score"`
	ConversionProbability *float64   `json:"conversion_probability"`
	ModelVersion          *string    `json:"model_version"`
	PredictedAt           *time.Time `json:"predicted_at"`
	Priority              string     `json:"priority,omitempty"`
	ScoreColor            string     `json:"score_color,omitempty"`
}

// ScoredFilter narrows the scored-RFQ listing.
type ScoredFilter struct {
	Status   string
	MinScore int
	BRank    int // 0 = no filter
	Limit    int
}

const scoredRFQsQuery = `
	SELECT
		r.rfq_id, r.title, r.description, r.category,
		r.budget_min, r.budget_max, r.created_at,
		b.business_id, b.business_name, b.brank, b.primary_category,
		s.lead_score, s.conversion_probability, s.model_version, s.predicted_at
	FROM rfqs r
	JOIN businesses b ON r.buyer_business_id = b.business_id
	JOIN rfq_lead_scores s ON r.rfq_id = s.rfq_id
	WHERE r.status = $1
	  AND s.lead_score >= $2
	  AND ($3 = 0 OR b.brank = $3)
	ORDER BY s.lead_score DESC, r.created_at DESC
	LIMIT $4`

// ScoredRFQs lists scored RFQs sorted by lead score descending.
func (s *Store) ScoredRFQs(ctx context.Context, filter ScoredFilter) ([]ScoredRFQ, error) {
	rows, err := s.db.QueryContext(ctx, scoredRFQsQuery,
		filter.Status, filter.MinScore, filter.BRank, filter.Limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("scored_rfqs", err)
	}
	defer rows.Close()

	var out []ScoredRFQ
	for rows.Next() {
		var r ScoredRFQ
		var desc sql.NullString
		var budgetMin, budgetMax sql.NullFloat64
		var createdAt, predictedAt sql.NullTime
		var leadScore sql.NullInt64
		var prob sql.NullFloat64
		var version sql.NullString
		if err := rows.Scan(
			&r.RFQID, &r.Title, &desc, &r.Category,
			&budgetMin, &budgetMax, &createdAt,
			&r.BuyerID, &r.BuyerName, &r.BuyerBRank, &r.BuyerCategory,
			&leadScore, &prob, &version, &predictedAt,
		); err != nil {
			return nil, errors.NewQueryExecutionFailedError("scored_rfqs", err)
		}
		r.Description = desc.String
		fillOptional(&r, budgetMin, budgetMax, createdAt, leadScore, prob, version, predictedAt)
		if r.LeadScore != nil {
			r.Priority = models.PriorityForScore(*r.LeadScore)
			r.ScoreColor = models.ScoreColorForScore(*r.LeadScore)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("scored_rfqs", err)
	}
	return out, nil
}

const rfqScoreQuery = `
	SELECT
		r.rfq_id, r.title, r.description, r.category, r.status,
		r.budget_min, r.budget_max, r.created_at,
		b.business_id, b.business_name, b.brank, b.primary_category,
		s.lead_score, s.conversion_probability, s.model_version, s.predicted_at
	FROM rfqs r
	JOIN businesses b ON r.buyer_business_id = b.business_id
	LEFT JOIN rfq_lead_scores s ON r.rfq_id = s.rfq_id
	WHERE r.rfq_id = $1`

// RFQScore fetches one RFQ with its score if present. Returns
// sql.ErrNoRows when the RFQ does not exist; an existing but unscored RFQ
// comes back with a nil LeadScore.
func (s *Store) RFQScore(ctx context.Context, rfqID string) (*ScoredRFQ, error) {
	var r ScoredRFQ
	var desc sql.NullString
	var budgetMin, budgetMax sql.NullFloat64
	var createdAt, predictedAt sql.NullTime
	var leadScore sql.NullInt64
	var prob sql.NullFloat64
	var version sql.NullString
	err := s.db.QueryRowContext(ctx, rfqScoreQuery, rfqID).Scan(
		&r.RFQID, &r.Title, &desc, &r.Category, &r.Status,
		&budgetMin, &budgetMax, &createdAt,
		&r.BuyerID, &r.BuyerName, &r.BuyerBRank, &r.BuyerCategory,
		&leadScore, &prob, &version, &predictedAt,
	)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("rfq_score", err)
	}
	r.Description = desc.String
	fillOptional(&r, budgetMin, budgetMax, createdAt, leadScore, prob, version, predictedAt)
	if r.LeadScore != nil {
		r.Priority = models.PriorityForScore(*r.LeadScore)
	}
	return &r, nil
}

func fillOptional(r *ScoredRFQ, budgetMin, budgetMax sql.NullFloat64, createdAt sql.NullTime,
	leadScore sql.NullInt64, prob sql.NullFloat64, version sql.NullString, predictedAt sql.NullTime) {
	if budgetMin.Valid {
		v := budgetMin.Float64
		r.BudgetMin = &v
	}
	if budgetMax.Valid {
		v := budgetMax.Float64
		r.BudgetMax = &v
	}
	if createdAt.Valid {
		t := createdAt.Time
		r.CreatedAt = &t
	}
	if leadScore.Valid {
		v := int(leadScore.Int64)
		r.LeadScore = &v
	}
	if prob.Valid {
		v := prob.Float64
		r.ConversionProbability = &v
	}
	if version.Valid {
		v := version.String
		r.ModelVersion = &v
	}
	if predictedAt.Valid {
		t := predictedAt.Time
		r.PredictedAt = &t
	}
}

// Stats aggregates the scored population for the dashboard.
type Stats struct {
	TotalScored        int     `json:"total_scored"`
	HighPriority       int     `json:"high_priority"`
	MediumPriority     int     `json:"medium_priority"`
	LowPriority        int     `json:"low_priority"`
	AvgScore           float64 `json:"avg_score"`
	MinScore           int     `json:"min_score"`
	MaxScore           int     `json:"max_score"`
	AvgConversionProb  float64 `json:"avg_conversion_prob"`
	CountByBRank       [5]int  `json:"-"`
}

const statsQuery = `
	SELECT
		COUNT(*) AS total_scored,
		COALESCE(SUM(CASE WHEN s.lead_score >= 70 THEN 1 ELSE 0 END), 0) AS high_priority,
		COALESCE(SUM(CASE WHEN s.lead_score >= 40 AND s.lead_score < 70 THEN 1 ELSE 0 END), 0) AS medium_priority,
		COALESCE(SUM(CASE WHEN s.lead_score < 40 THEN 1 ELSE 0 END), 0) AS low_priority,
		COALESCE(ROUND(AVG(s.lead_score), 1), 0) AS avg_score,
		COALESCE(MIN(s.lead_score), 0) AS min_score,
		COALESCE(MAX(s.lead_score), 0) AS max_score,
		COALESCE(ROUND(AVG(s.conversion_probability)::numeric, 3), 0) AS avg_conversion_prob,
		COALESCE(SUM(CASE WHEN b.brank = 1 THEN 1 ELSE 0 END), 0) AS brank1_count,
		COALESCE(SUM(CASE WHEN b.brank = 2 THEN 1 ELSE 0 END), 0) AS brank2_count,
		COALESCE(SUM(CASE WHEN b.brank = 3 THEN 1 ELSE 0 END), 0) AS brank3_count,
		COALESCE(SUM(CASE WHEN b.brank = 4 THEN 1 ELSE 0 END), 0) AS brank4_count,
		COALESCE(SUM(CASE WHEN b.brank = 5 THEN 1 ELSE 0 END), 0) AS brank5_count
	FROM rfqs r
	JOIN businesses b ON r.buyer_business_id = b.business_id
	JOIN rfq_lead_scores s ON r.rfq_id = s.rfq_id
	WHERE r.status = 'published'`

func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	var st Stats
	err := s.db.QueryRowContext(ctx, statsQuery).Scan(
		&st.TotalScored, &st.HighPriority, &st.MediumPriority, &st.LowPriority,
		&st.AvgScore, &st.MinScore, &st.MaxScore, &st.AvgConversionProb,
		&st.CountByBRank[0], &st.CountByBRank[1], &st.CountByBRank[2],
		&st.CountByBRank[3], &st.CountByBRank[4],
	)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("stats", err)
	}
	return &st, nil
}

// DistributionBucket is one 20-point lead score band.
type DistributionBucket struct {
	Range             string  `json:"range"`
	Count             int     `json:"count"`
	AvgConversionProb float64 `json:"avg_conversion_prob"`
}

const distributionQuery = `
	SELECT
		CASE
			WHEN s.lead_score >= 80 THEN '80-100'
			WHEN s.lead_score >= 60 THEN '60-79'
			WHEN s.lead_score >= 40 THEN '40-59'
			WHEN s.lead_score >= 20 THEN '20-39'
			ELSE '0-19'
		END AS score_range,
		COUNT(*) AS count,
		ROUND(AVG(s.conversion_probability)::numeric, 3) AS avg_conversion_prob
	FROM rfqs r
	JOIN rfq_lead_scores s ON r.rfq_id = s.rfq_id
	WHERE r.status = 'published'
	GROUP BY score_range
	ORDER BY MIN(s.lead_score) DESC`

func (s *Store) ScoreDistribution(ctx context.Context) ([]DistributionBucket, error) {
	rows, err := s.db.QueryContext(ctx, distributionQuery)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("score_distribution", err)
	}
	defer rows.Close()

	var out []DistributionBucket
	for rows.Next() {
		var b DistributionBucket
		if err := rows.Scan(&b.Range, &b.Count, &b.AvgConversionProb); err != nil {
			return nil, errors.NewQueryExecutionFailedError("score_distribution", err)
		}
		out = append(out, b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("score_distribution", err)
	}
	return out, nil
}
