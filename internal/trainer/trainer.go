// internal/trainer/trainer.go
// Package trainer fits the lead scoring classifier from historical labeled
// data and publishes the resulting model artifact.
package trainer

import (
	"time"

	"trustmarket-leadscore/internal/artifact"
	"trustmarket-leadscore/internal/common/config"
	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/common/metrics"
	"trustmarket-leadscore/internal/features"
	"trustmarket-leadscore/internal/ml"
)

// Quality bands for the hold-out AUC, matching the operator guidance the
// scoring reports were written against.
const (
	QualityPoor = "poor" // below 0.70: not production ready
	QualityFair = "fair" // 0.70..0.80: ship as PoC with monitoring
	QualityGood = "good" // 0.80 and up

	// degenerateAUCBand flags artifacts whose hold-out metric sits at
	// chance level within this distance of 0.5.
	degenerateAUCBand = 0.02
)

// Report summarizes one training run for the operator.
type Report struct {
	Samples        int
	TrainSamples   int
	TestSamples    int
	ConversionRate float64
	TrainAUC       float64
	TestAUC        float64
	Quality        string
	Importances    map[string]float64
	// Warning is set when the model looks degenerate; the artifact is
	// still produced and accepting it is the operator's decision.
	Warning *errors.StandardError
}

type Trainer struct {
	cfg    config.ModelConfig
	logger logger.Logger
}

func New(cfg config.ModelConfig, log logger.Logger) *Trainer {
	return &Trainer{
		cfg:    cfg,
		logger: log.WithFields(map[string]interface{}{"component": "trainer"}),
	}
}

// Train validates the dataset, fits the classifier on a stratified split,
// evaluates it, and returns the artifact plus the run report. Validation
// failures abort before anything is fitted; a near-chance hold-out AUC is
// surfaced in the report, not raised.
func (t *Trainer) Train(ds *ml.Dataset) (*artifact.Artifact, *Report, error) {
	if err := ds.Validate(); err != nil {
		return nil, nil, errors.NewSchemaValidationFailedError(err.Error())
	}
	if got, want := len(ds.X[0]), len(features.Names()); got != want {
		return nil, nil, errors.NewSchemaValidationFailedError(
			"dataset width does not match the encoder feature schema")
	}
	neg, pos := ds.ClassCounts()
	if pos == 0 {
		return nil, nil, errors.NewClassAbsentError(1, ds.Len())
	}
	if neg == 0 {
		return nil, nil, errors.NewClassAbsentError(0, ds.Len())
	}

	t.logger.Info("training started", map[string]interface{}{
		"samples":        ds.Len(),
		"conversionRate": float64(pos) / float64(ds.Len()),
	})

	train, test, err := ml.StratifiedSplit(ds, t.cfg.TestFraction, t.cfg.Seed)
	if err != nil {
		return nil, nil, errors.NewSchemaValidationFailedError(err.Error())
	}

	model, importances, err := ml.Fit(train, ml.TrainParams{
		Estimators:   t.cfg.Estimators,
		LearningRate: t.cfg.LearningRate,
		MaxDepth:     t.cfg.MaxDepth,
	})
	if err != nil {
		return nil, nil, errors.NewSchemaValidationFailedError(err.Error())
	}

	trainAUC, err := evalAUC(model, train)
	if err != nil {
		return nil, nil, err
	}
	testAUC, err := evalAUC(model, test)
	if err != nil {
		return nil, nil, err
	}

	names := features.Names()
	namedImportances := make(map[string]float64, len(names))
	for i, name := range names {
		namedImportances[name] = importances[i]
	}

	report := &Report{
		Samples:        ds.Len(),
		TrainSamples:   train.Len(),
		TestSamples:    test.Len(),
		ConversionRate: float64(pos) / float64(ds.Len()),
		TrainAUC:       trainAUC,
		TestAUC:        testAUC,
		Quality:        qualityBand(testAUC),
		Importances:    namedImportances,
	}

	if testAUC <= 0.5+degenerateAUCBand {
		report.Warning = errors.NewDegenerateModelWarning(testAUC)
		t.logger.Warn("hold-out AUC is near chance level", map[string]interface{}{
			"testAuc": testAUC,
		})
	}

	metrics.ModelTestAUC.Set(testAUC)

	t.logger.Info("training finished", map[string]interface{}{
		"trainAuc":    trainAUC,
		"testAuc":     testAUC,
		"quality":     report.Quality,
		"importances": namedImportances,
	})

	art := &artifact.Artifact{
		SchemaVersion: artifact.SchemaVersion,
		ModelVersion:  t.cfg.Version,
		Features:      names,
		TrainedAt:     time.Now().UTC(),
		TrainAUC:      trainAUC,
		TestAUC:       testAUC,
		Importances:   namedImportances,
		Model:         model,
	}
	return art, report, nil
}

// TrainAndSave runs Train and atomically publishes the artifact.
func (t *Trainer) TrainAndSave(ds *ml.Dataset) (*Report, error) {
	art, report, err := t.Train(ds)
	if err != nil {
		return nil, err
	}
	if err := artifact.Save(art, t.cfg.ArtifactPath); err != nil {
		return nil, err
	}
	t.logger.Info("artifact published", map[string]interface{}{
		"path":    t.cfg.ArtifactPath,
		"version": art.ModelVersion,
	})
	return report, nil
}

func evalAUC(model *ml.GBDT, ds *ml.Dataset) (float64, error) {
	probs, err := model.PredictBatch(ds.X)
	if err != nil {
		return 0, errors.NewSchemaValidationFailedError(err.Error())
	}
	auc, err := ml.AUC(ds.Y, probs)
	if err != nil {
		return 0, errors.NewSchemaValidationFailedError(err.Error())
	}
	return auc, nil
}

func qualityBand(testAUC float64) string {
	switch {
	case testAUC < 0.70:
		return QualityPoor
	case testAUC < 0.80:
		return QualityFair
	default:
		return QualityGood
	}
}
