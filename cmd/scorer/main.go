// cmd/scorer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"trustmarket-leadscore/internal/artifact"
	"trustmarket-leadscore/internal/common/alerts"
	"trustmarket-leadscore/internal/common/config"
	"trustmarket-leadscore/internal/common/database"
	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/scorer"
	"trustmarket-leadscore/internal/store"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	artifactPath := flag.String("artifact", "", "model artifact path (defaults to model.artifact_path)")
	maxCandidates := flag.Int("max", 0, "max candidates per run (defaults to scorer.max_candidates)")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	if *artifactPath == "" {
		*artifactPath = cfg.Model.ArtifactPath
	}
	if *maxCandidates <= 0 {
		*maxCandidates = cfg.Scorer.MaxCandidates
	}

	runID := uuid.New().String()
	log = log.WithFields(map[string]interface{}{"run_id": runID})
	log.Info("starting scoring run", map[string]interface{}{
		"artifact":       *artifactPath,
		"max_candidates": *maxCandidates,
	})

	ctx := context.Background()

	mailer, err := alerts.New(ctx, cfg.Alerts, log)
	if err != nil {
		zapLog.Fatal("alert mailer init failed", zap.Error(err))
	}

	art, err := artifact.Load(*artifactPath)
	if err != nil {
		log.WithError(err).Error("model artifact rejected", nil)
		mailer.Send(ctx, "[lead-scoring] scoring run aborted",
			fmt.Sprintf("Run %s aborted before scoring: %v", runID, err))
		os.Exit(1)
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()

	// Redis is optional; the scorer falls back to direct lookups without it.
	var cache scorer.BuyerCacheBackend
	if !cfg.Scorer.DisableRedis {
		redis, err := database.NewRedis(cfg.Database.Redis)
		if err != nil || redis.Ping(ctx) != nil {
			log.Warn("redis unavailable, buyer cache disabled", map[string]interface{}{
				"error": fmt.Sprint(err),
			})
		} else {
			defer redis.Close()
			cache = redis
		}
	}

	st := store.New(pg.GetDB(), log)
	sc := scorer.New(cfg.Scorer, st, cache, log)

	result, err := sc.Run(ctx, art, *maxCandidates)
	if err != nil {
		log.WithError(err).Error("scoring run aborted", nil)
		mailer.Send(ctx, "[lead-scoring] scoring run aborted",
			fmt.Sprintf("Run %s aborted: %v", runID, err))
		os.Exit(1)
	}

	log.Info("scoring run complete", map[string]interface{}{
		"fetched": result.Fetched,
		"scored":  result.Scored,
		"skipped": result.Skipped,
	})
	fmt.Printf("scored %d of %d candidates (%d skipped)\n", result.Scored, result.Fetched, result.Skipped)
}
