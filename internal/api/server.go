// internal/api/server.go
// Package api serves the read-only lead score endpoints consumed by the
// seller dashboard. It never writes to the store.
package api

import (
	"encoding/json"
	"net/http"

	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/store"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	store  *store.Store
	logger logger.Logger
}

func NewServer(st *store.Store, log logger.Logger) *Server {
	return &Server{
		store:  st,
		logger: log.WithFields(map[string]interface{}{"component": "api"}),
	}
}

// Router wires all routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/health", s.handleHealth)
		r.Get("/rfqs/scored", s.handleScoredRFQs)
		r.Get("/rfqs/{rfqID}/score", s.handleRFQScore)
		r.Get("/rfqs/stats", s.handleStats)
		r.Get("/rfqs/score-distribution", s.handleScoreDistribution)
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.WithError(err).Error("failed to encode response", nil)
	}
}
