// internal/store/store.go
// Package store is the scoring pipeline's boundary with the marketplace
// database. The pipeline reads RFQ and business rows and owns writes to
// rfq_lead_scores; it never mutates RFQ rows.
package store

import (
	"context"
	"database/sql"

	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/models"
)

type Store struct {
	db     *sql.DB
	logger logger.Logger
}

func New(db *sql.DB, log logger.Logger) *Store {
	return &Store{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"component": "store"}),
	}
}

// Ping verifies database connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.NewDatabaseConnectionFailedError(err)
	}
	return nil
}

const candidateQuery = `
	SELECT
		r.rfq_id,
		r.title,
		r.category,
		r.status,
		r.buyer_business_id,
		r.budget_min,
		r.budget_max,
		r.created_at
	FROM rfqs r
	LEFT JOIN rfq_lead_scores s ON r.rfq_id = s.rfq_id
	WHERE r.status = 'published'
	  AND s.rfq_id IS NULL
	ORDER BY r.created_at DESC
	LIMIT $1`

// FetchCandidates returns up to limit published RFQs that have no lead
// score row yet. Already-scored RFQs are excluded by the query itself, so
// the candidate set is the idempotency boundary.
func (s *Store) FetchCandidates(ctx context.Context, limit int) ([]models.RFQ, error) {
	rows, err := s.db.QueryContext(ctx, candidateQuery, limit)
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("fetch_candidates", err)
	}
	defer rows.Close()

	var out []models.RFQ
	for rows.Next() {
		var r models.RFQ
		var budgetMin, budgetMax sql.NullFloat64
		var createdAt sql.NullTime
		if err := rows.Scan(&r.ID, &r.Title, &r.Category, &r.Status, &r.BuyerBusinessID,
			&budgetMin, &budgetMax, &createdAt); err != nil {
			return nil, errors.NewQueryExecutionFailedError("fetch_candidates", err)
		}
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
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewQueryExecutionFailedError("fetch_candidates", err)
	}
	return out, nil
}

const businessQuery = `
	SELECT business_id, business_name, brank, primary_category
	FROM businesses
	WHERE business_id = $1`

// GetBusiness resolves one buyer profile. sql.ErrNoRows surfaces as a
// record-local resolution error so a missing buyer skips one candidate
// instead of aborting the batch.
func (s *Store) GetBusiness(ctx context.Context, businessID string) (*models.Business, error) {
	var b models.Business
	var name sql.NullString
	err := s.db.QueryRowContext(ctx, businessQuery, businessID).
		Scan(&b.ID, &name, &b.BRank, &b.PrimaryCategory)
	if err == sql.ErrNoRows {
		return nil, errors.NewBuyerResolutionFailedError("", businessID, err)
	}
	if err != nil {
		return nil, errors.NewQueryExecutionFailedError("get_business", err)
	}
	b.Name = name.String
	return &b, nil
}

const upsertScoreQuery = `
	INSERT INTO rfq_lead_scores (rfq_id, lead_score, conversion_probability, model_version, predicted_at)
	VALUES ($1, $2, $3, $4, $5)
	ON CONFLICT (rfq_id) DO UPDATE SET
		lead_score = EXCLUDED.lead_score,
		conversion_probability = EXCLUDED.conversion_probability,
		model_version = EXCLUDED.model_version,
		predicted_at = EXCLUDED.predicted_at`

// UpsertLeadScore writes one score row keyed on rfq_id. On conflict the
// row is overwritten, which makes re-runs after partial failures
// convergent rather than duplicating rows.
func (s *Store) UpsertLeadScore(ctx context.Context, score models.LeadScore) error {
	_, err := s.db.ExecContext(ctx, upsertScoreQuery,
		score.RFQID,
		score.LeadScore,
		score.ConversionProbability,
		score.ModelVersion,
		score.PredictedAt,
	)
	if err != nil {
		return errors.NewScoreUpsertFailedError(score.RFQID, err)
	}
	return nil
}
