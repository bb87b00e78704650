// cmd/trainer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"trustmarket-leadscore/internal/common/alerts"
	"trustmarket-leadscore/internal/common/config"
	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/diagnose"
	"trustmarket-leadscore/internal/trainer"
)

func main() {
	dataPath := flag.String("data", "training_data.csv", "training dataset CSV")
	outPath := flag.String("out", "", "artifact output path (defaults to model.artifact_path)")
	version := flag.String("version", "", "model version tag (defaults to model.version)")
	diagnoseOnly := flag.Bool("diagnose", false, "print dataset diagnosis instead of training")
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	if *outPath != "" {
		cfg.Model.ArtifactPath = *outPath
	}
	if *version != "" {
		cfg.Model.Version = *version
	}

	ds, err := trainer.LoadCSV(*dataPath)
	if err != nil {
		log.WithError(err).Error("dataset rejected", map[string]interface{}{"path": *dataPath})
		os.Exit(1)
	}
	log.Info("dataset loaded", map[string]interface{}{
		"path":    *dataPath,
		"samples": ds.Len(),
	})

	if *diagnoseOnly {
		fmt.Print(diagnose.Run(ds).String())
		return
	}

	ctx := context.Background()
	mailer, err := alerts.New(ctx, cfg.Alerts, log)
	if err != nil {
		zapLog.Fatal("alert mailer init failed", zap.Error(err))
	}

	report, err := trainer.New(cfg.Model, log).TrainAndSave(ds)
	if err != nil {
		log.WithError(err).Error("training aborted", nil)
		os.Exit(1)
	}

	fmt.Printf("samples: %d (train %d / test %d), conversion rate %.3f\n",
		report.Samples, report.TrainSamples, report.TestSamples, report.ConversionRate)
	fmt.Printf("train AUC %.4f, test AUC %.4f (%s)\n",
		report.TrainAUC, report.TestAUC, report.Quality)
	names := make([]string, 0, len(report.Importances))
	for name := range report.Importances {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-20s %.4f\n", name, report.Importances[name])
	}

	if report.Warning != nil {
		fmt.Printf("WARNING: %s\n", report.Warning.Message)
		mailer.Send(ctx, "[lead-scoring] degenerate model trained",
			fmt.Sprintf("Model %s trained with test AUC %.4f. %s",
				cfg.Model.Version, report.TestAUC, report.Warning.Message))
	}
}
