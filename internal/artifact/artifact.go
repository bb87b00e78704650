// internal/artifact/artifact.go
// Package artifact persists trained models as a single immutable JSON
// document: fitted ensemble plus the metadata the scorer needs to guard
// against train/serve skew.
package artifact

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/features"
	"trustmarket-leadscore/internal/ml"

	"github.com/xeipuuv/gojsonschema"
)

// SchemaVersion identifies the artifact document layout, not the model.
const SchemaVersion = 1

// Artifact is one versioned training output. Treated as immutable once
// written; a newer trainer run replaces the file atomically.
type Artifact struct {
	SchemaVersion int                `json:"schemaVersion"`
	ModelVersion  string             `json:"modelVersion"`
	Features      []string           `json:"features"`
	TrainedAt     time.Time          `json:"trainedAt"`
	TrainAUC      float64            `json:"trainAuc"`
	TestAUC       float64            `json:"testAuc"`
	Importances   map[string]float64 `json:"importances"`
	Model         *ml.GBDT           `json:"model"`
}

// artifactSchema validates structure before any field is trusted. Loading
// rejects documents that are not complete artifacts, including half-written
// or truncated files.
const artifactSchema = `{
	"type": "object",
	"required": ["schemaVersion", "modelVersion", "features", "trainedAt", "trainAuc", "testAuc", "model"],
	"properties": {
		"schemaVersion": {"type": "integer", "minimum": 1},
		"modelVersion":  {"type": "string", "minLength": 1},
		"features":      {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"trainedAt":     {"type": "string"},
		"trainAuc":      {"type": "number", "minimum": 0, "maximum": 1},
		"testAuc":       {"type": "number", "minimum": 0, "maximum": 1},
		"model": {
			"type": "object",
			"required": ["initScore", "learningRate", "numFeatures", "trees"],
			"properties": {
				"numFeatures": {"type": "integer", "minimum": 1},
				"trees":       {"type": "array", "minItems": 1}
			}
		}
	}
}`

// Save writes the artifact atomically: marshal to a temp file in the
// destination directory, fsync, then rename over the target. A reader
// never observes a partial document.
func Save(a *Artifact, path string) error {
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal artifact: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp artifact: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after successful rename

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp artifact: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("sync temp artifact: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp artifact: %w", err)
	}

	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("publish artifact: %w", err)
	}
	return nil
}

// Load reads and validates an artifact. It fails with ARTIFACT_INVALID on
// missing/corrupt files and ARTIFACT_SCHEMA_MISMATCH when the stored
// feature list differs from the encoder's current schema — the scorer must
// not predict through a skewed artifact.
func Load(path string) (*Artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewArtifactInvalidError(path, err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(artifactSchema),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		return nil, errors.NewArtifactInvalidError(path, err)
	}
	if !result.Valid() {
		return nil, errors.NewArtifactInvalidError(path, fmt.Errorf("schema violations: %v", result.Errors()))
	}

	var a Artifact
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, errors.NewArtifactInvalidError(path, err)
	}

	if !features.NamesEqual(a.Features) {
		return nil, errors.NewArtifactSchemaMismatchError(features.Names(), a.Features)
	}
	if a.Model.NumFeatures != len(a.Features) {
		return nil, errors.NewArtifactInvalidError(path,
			fmt.Errorf("model expects %d features but metadata lists %d", a.Model.NumFeatures, len(a.Features)))
	}

	return &a, nil
}
