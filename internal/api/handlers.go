// internal/api/handlers.go
package api

import (
	"database/sql"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"

	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/store"

	"github.com/go-chi/chi/v5"
)

const maxListLimit = 100

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Ping(r.Context()); err != nil {
		s.writeError(w, http.StatusServiceUnavailable, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"status":  "healthy",
	})
}

// handleScoredRFQs lists scored RFQs sorted by lead score.
// Query params: limit (capped at 100), min_score, brank, status.
func (s *Server) handleScoredRFQs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := intParam(q.Get("limit"), 20)
	if limit < 1 {
		limit = 1
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	status := q.Get("status")
	if status == "" {
		status = "published"
	}
	filter := store.ScoredFilter{
		Status:   status,
		MinScore: intParam(q.Get("min_score"), 0),
		BRank:    intParam(q.Get("brank"), 0),
		Limit:    limit,
	}

	rfqs, err := s.store.ScoredRFQs(r.Context(), filter)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"count":   len(rfqs),
		"rfqs":    orEmpty(rfqs),
	})
}

func (s *Server) handleRFQScore(w http.ResponseWriter, r *http.Request) {
	rfqID := chi.URLParam(r, "rfqID")
	scored, err := s.store.RFQScore(r.Context(), rfqID)
	if stderrors.Is(err, sql.ErrNoRows) {
		s.writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   fmt.Sprintf("RFQ %s not found", rfqID),
		})
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if scored.LeadScore == nil {
		s.writeJSON(w, http.StatusNotFound, map[string]interface{}{
			"success": false,
			"error":   fmt.Sprintf("RFQ %s has not been scored yet", rfqID),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"rfq":     scored,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	byBRank := make(map[string]int, 5)
	for i, n := range stats.CountByBRank {
		byBRank[strconv.Itoa(i+1)] = n
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":  true,
		"stats":    stats,
		"by_brank": byBRank,
	})
}

func (s *Server) handleScoreDistribution(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.store.ScoreDistribution(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"success":      true,
		"distribution": orEmpty(buckets),
	})
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	code, _ := errors.CodeOf(err)
	s.logger.WithError(err).Error("request failed", map[string]interface{}{
		"error_code": string(code),
	})
	s.writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   err.Error(),
	})
}

func intParam(raw string, def int) int {
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return v
}

// orEmpty keeps list responses as [] instead of null.
func orEmpty[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
