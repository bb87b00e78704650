// internal/store/store_test.go
package store

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/common/logger"
	"trustmarket-leadscore/internal/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create mock db: %v", err)
	}
	return New(db, logger.NewTestLogger(t)), mock, func() { db.Close() }
}

func candidateColumns() []string {
	return []string{"rfq_id", "title", "category", "status", "buyer_business_id",
		"budget_min", "budget_max", "created_at"}
}

func TestFetchCandidates(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(candidateColumns()).
		AddRow("rfq-1", "CNC milling order", "Machinery", "published", "biz-1", 1000.0, 5000.0, created).
		AddRow("rfq-2", "Office chairs", "Furniture", "published", "biz-2", nil, nil, nil)

	mock.ExpectQuery("FROM rfqs r").WithArgs(100).WillReturnRows(rows)

	got, err := st.FetchCandidates(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "rfq-1", got[0].ID)
	assert.Equal(t, "biz-1", got[0].BuyerBusinessID)
	require.NotNil(t, got[0].BudgetMin)
	assert.Equal(t, 1000.0, *got[0].BudgetMin)
	require.NotNil(t, got[0].CreatedAt)
	assert.True(t, got[0].HasBudget())

	assert.Nil(t, got[1].BudgetMin)
	assert.Nil(t, got[1].BudgetMax)
	assert.Nil(t, got[1].CreatedAt)
	assert.False(t, got[1].HasBudget())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFetchCandidates_Empty(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectQuery("FROM rfqs r").WithArgs(50).
		WillReturnRows(sqlmock.NewRows(candidateColumns()))

	got, err := st.FetchCandidates(context.Background(), 50)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchCandidates_QueryError(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectQuery("FROM rfqs r").WithArgs(100).
		WillReturnError(fmt.Errorf("connection reset"))

	_, err := st.FetchCandidates(context.Background(), 100)
	require.Error(t, err)
	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, code)
	assert.True(t, errors.IsFatal(err))
}

func TestGetBusiness(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	rows := sqlmock.NewRows([]string{"business_id", "business_name", "brank", "primary_category"}).
		AddRow("biz-1", "Acme Industrial", 2, "Machinery")
	mock.ExpectQuery("FROM businesses").WithArgs("biz-1").WillReturnRows(rows)

	b, err := st.GetBusiness(context.Background(), "biz-1")
	require.NoError(t, err)
	assert.Equal(t, "biz-1", b.ID)
	assert.Equal(t, "Acme Industrial", b.Name)
	assert.Equal(t, 2, b.BRank)
	assert.Equal(t, "Machinery", b.PrimaryCategory)
}

func TestGetBusiness_NotFoundIsRecordLocal(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectQuery("FROM businesses").WithArgs("biz-missing").
		WillReturnError(sql.ErrNoRows)

	_, err := st.GetBusiness(context.Background(), "biz-missing")
	require.Error(t, err)
	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeBuyerResolutionFailed, code)
	assert.False(t, errors.IsFatal(err), "a missing buyer must not abort the batch")
}

func TestGetBusiness_ConnectivityErrorIsFatal(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectQuery("FROM businesses").WithArgs("biz-1").
		WillReturnError(fmt.Errorf("server closed the connection"))

	_, err := st.GetBusiness(context.Background(), "biz-1")
	require.Error(t, err)
	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeQueryExecutionFailed, code)
	assert.True(t, errors.IsFatal(err))
}

func TestUpsertLeadScore(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	predictedAt := time.Now().UTC()
	mock.ExpectExec("INSERT INTO rfq_lead_scores").
		WithArgs("rfq-1", 73, 0.7311, "v1.0", predictedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := st.UpsertLeadScore(context.Background(), models.LeadScore{
		RFQID:                 "rfq-1",
		LeadScore:             73,
		ConversionProbability: 0.7311,
		ModelVersion:          "v1.0",
		PredictedAt:           predictedAt,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUpsertLeadScore_WriteFailureIsRecordLocal(t *testing.T) {
	st, mock, cleanup := setupStore(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO rfq_lead_scores").
		WillReturnError(fmt.Errorf("deadlock detected"))

	err := st.UpsertLeadScore(context.Background(), models.LeadScore{RFQID: "rfq-1"})
	require.Error(t, err)
	code, ok := errors.CodeOf(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeScoreUpsertFailed, code)
	assert.False(t, errors.IsFatal(err))
}
