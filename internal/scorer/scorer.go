// internal/scorer/scorer.go
// Package scorer runs the idempotent batch inference job: load artifact,
// fetch unscored published RFQs, encode through the shared feature
// contract, predict in one batch, upsert lead score rows.
package scorer

import (
	"context"
	"time"

	"trustmarket-leadscore/internal/artifact"
	"trustmarket-leadscore/internal/common/config"
	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/common/metrics"
	"trustmarket-leadscore/internal/features"
	"trustmarket-leadscore/internal/models"
	"trustmarket-leadscore/internal/store"
)

// BatchResult accounts for every fetched candidate: Scored + Skipped
// always equals the candidate count.
type BatchResult struct {
	Fetched int `json:"fetched"`
	Scored  int `json:"scored"`
	Skipped int `json:"skipped"`
}

type Scorer struct {
	cfg    config.ScorerConfig
	store  *store.Store
	buyers *buyerCache
	logger logger.Logger
}

// New builds a Scorer. cache may be nil, in which case buyer profiles are
// resolved from the database on every run.
func New(cfg config.ScorerConfig, st *store.Store, cache BuyerCacheBackend, log logger.Logger) *Scorer {
	l := log.WithFields(map[string]interface{}{"component": "scorer"})
	return &Scorer{
		cfg:    cfg,
		store:  st,
		buyers: newBuyerCache(cache, st, time.Duration(cfg.BuyerCacheTTL)*time.Second, l),
		logger: l,
	}
}

// Run scores up to maxCandidates unscored published RFQs with the given
// artifact. Record-local failures (unresolvable buyer, one failed row
// write) skip and continue; store failures on the read path abort.
func (s *Scorer) Run(ctx context.Context, art *artifact.Artifact, maxCandidates int) (*BatchResult, error) {
	started := time.Now()

	// Load already verified the feature list; re-check here so a Scorer
	// handed an artifact from another source still refuses to predict
	// through train/serve skew.
	if !features.NamesEqual(art.Features) {
		metrics.ScoringRuns.WithLabelValues("aborted").Inc()
		return nil, errors.NewArtifactSchemaMismatchError(features.Names(), art.Features)
	}

	candidates, err := s.store.FetchCandidates(ctx, maxCandidates)
	if err != nil {
		metrics.ScoringRuns.WithLabelValues("aborted").Inc()
		return nil, err
	}

	result := &BatchResult{Fetched: len(candidates)}
	if len(candidates) == 0 {
		s.logger.Info("no new RFQs to score", nil)
		metrics.ScoringRuns.WithLabelValues("empty").Inc()
		return result, nil
	}

	s.logger.Info("candidates fetched", map[string]interface{}{
		"count":        len(candidates),
		"modelVersion": art.ModelVersion,
	})

	// Resolve buyers and encode. Encoding failures don't exist (the
	// encoder is total); only buyer resolution can skip here.
	var toScore []models.RFQ
	var vectors [][]float64
	for _, rfq := range candidates {
		buyer, err := s.buyers.resolve(ctx, rfq.BuyerBusinessID)
		if err != nil {
			if errors.IsFatal(err) {
				metrics.ScoringRuns.WithLabelValues("aborted").Inc()
				return nil, err
			}
			s.logger.Warn("skipping candidate, buyer unresolved", map[string]interface{}{
				"rfqId":      rfq.ID,
				"businessId": rfq.BuyerBusinessID,
			})
			result.Skipped++
			metrics.RFQsSkipped.WithLabelValues("buyer_unresolved").Inc()
			continue
		}
		toScore = append(toScore, rfq)
		vectors = append(vectors, features.Encode(&rfq, buyer))
	}

	if len(toScore) > 0 {
		probs, err := art.Model.PredictBatch(vectors)
		if err != nil {
			metrics.ScoringRuns.WithLabelValues("aborted").Inc()
			return nil, errors.NewArtifactInvalidError("", err)
		}

		predictedAt := time.Now().UTC()
		for i, rfq := range toScore {
			p := clamp01(probs[i])
			score := models.LeadScore{
				RFQID:                 rfq.ID,
				LeadScore:             int(p*100 + 0.5),
				ConversionProbability: p,
				ModelVersion:          art.ModelVersion,
				PredictedAt:           predictedAt,
			}
			if err := s.store.UpsertLeadScore(ctx, score); err != nil {
				s.logger.Error("score write failed", map[string]interface{}{
					"rfqId": rfq.ID,
					"error": err,
				})
				result.Skipped++
				metrics.RFQsSkipped.WithLabelValues("write_failed").Inc()
				continue
			}
			result.Scored++
			metrics.RFQsScored.Inc()
			metrics.ConversionProbability.Observe(p)
		}
	}

	metrics.ScoringRuns.WithLabelValues("completed").Inc()
	metrics.ScoringDuration.Observe(time.Since(started).Seconds())

	s.logger.Info("batch finished", map[string]interface{}{
		"fetched": result.Fetched,
		"scored":  result.Scored,
		"skipped": result.Skipped,
		"elapsed": time.Since(started).String(),
	})
	return result, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
