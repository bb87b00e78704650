// internal/common/errors/errors.go
// Package errors provides standardized error handling for the scoring pipeline.
package errors

import (
	"errors"
	"fmt"
	"time"
)

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	// Schema / validation errors: abort immediately, nothing partial is produced.
	ErrCodeSchemaValidationFailed ErrorCode = "SCHEMA_VALIDATION_FAILED"
	ErrCodeClassAbsent            ErrorCode = "CLASS_ABSENT"
	ErrCodeArtifactInvalid        ErrorCode = "ARTIFACT_INVALID"
	ErrCodeArtifactSchemaMismatch ErrorCode = "ARTIFACT_SCHEMA_MISMATCH"

	// Connectivity errors: fatal to the run, retryable on the next invocation.
	ErrCodeDatabaseConnectionFailed ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed     ErrorCode = "QUERY_EXECUTION_FAILED"

	// Record-local errors: counted and skipped, never abort a batch.
	ErrCodeBuyerResolutionFailed ErrorCode = "BUYER_RESOLUTION_FAILED"
	ErrCodeScoreUpsertFailed     ErrorCode = "SCORE_UPSERT_FAILED"

	// Degenerate model: surfaced prominently, artifact still produced.
	ErrCodeDegenerateModel ErrorCode = "DEGENERATE_MODEL_WARNING"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// CodeOf extracts the ErrorCode from err if it wraps a StandardError.
func CodeOf(err error) (ErrorCode, bool) {
	var se *StandardError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}

// IsFatal reports whether err should abort the whole run rather than a
// single record. Record-local codes are the only non-fatal ones.
func IsFatal(err error) bool {
	code, ok := CodeOf(err)
	if !ok {
		return true
	}
	switch code {
	case ErrCodeBuyerResolutionFailed, ErrCodeScoreUpsertFailed, ErrCodeDegenerateModel:
		return false
	default:
		return true
	}
}

// NewSchemaValidationFailedError creates a non-retryable dataset schema error.
func NewSchemaValidationFailedError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSchemaValidationFailed,
		Message:   "Training data does not match the feature schema",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewClassAbsentError creates a non-retryable validation error for a dataset
// where one outcome class is entirely missing.
func NewClassAbsentError(class int, total int) *StandardError {
	return &StandardError{
		Code:      ErrCodeClassAbsent,
		Message:   "Outcome class absent from training data, cannot fit a classifier",
		Details:   fmt.Sprintf("class: %d, totalSamples: %d", class, total),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactInvalidError creates a non-retryable model artifact error.
func NewArtifactInvalidError(path string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactInvalid,
		Message:   "Model artifact is missing or unreadable",
		Details:   fmt.Sprintf("path: %s, error: %v", path, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewArtifactSchemaMismatchError creates a non-retryable train/serve skew error.
func NewArtifactSchemaMismatchError(want, got []string) *StandardError {
	return &StandardError{
		Code:      ErrCodeArtifactSchemaMismatch,
		Message:   "Artifact feature schema differs from the encoder schema",
		Details:   fmt.Sprintf("encoder: %v, artifact: %v", want, got),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewDatabaseConnectionFailedError creates a retryable database connection error.
func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnectionFailed,
		Message:   "Database connection error",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewQueryExecutionFailedError creates a retryable query execution error.
func NewQueryExecutionFailedError(queryName string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   "Database query execution error",
		Details:   fmt.Sprintf("query: %s, error: %s", queryName, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewBuyerResolutionFailedError creates a record-local buyer lookup error.
func NewBuyerResolutionFailedError(rfqID, businessID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeBuyerResolutionFailed,
		Message:   "Buyer profile could not be resolved",
		Details:   fmt.Sprintf("rfqId: %s, businessId: %s, error: %v", rfqID, businessID, err),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewScoreUpsertFailedError creates a record-local score write error.
func NewScoreUpsertFailedError(rfqID string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeScoreUpsertFailed,
		Message:   "Lead score row could not be written",
		Details:   fmt.Sprintf("rfqId: %s, error: %s", rfqID, err.Error()),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewDegenerateModelWarning flags an artifact whose hold-out metric is at or
// near chance level. The artifact is still produced; accepting it is the
// operator's call.
func NewDegenerateModelWarning(testAUC float64) *StandardError {
	return &StandardError{
		Code:      ErrCodeDegenerateModel,
		Message:   "Hold-out AUC is near chance level, model may be degenerate",
		Details:   fmt.Sprintf("testAuc: %.3f", testAUC),
		Retryable: false,
		Metadata:  map[string]interface{}{"testAuc": testAUC},
		Timestamp: time.Now().UTC(),
	}
}
