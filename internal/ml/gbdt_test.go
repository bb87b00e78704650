// internal/ml/gbdt_test.go
package ml

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultParams() TrainParams {
	return TrainParams{Estimators: 50, LearningRate: 0.1, MaxDepth: 3, MinLeaf: 1}
}

// separableDataset builds points where label 1 strongly follows x0 > 0.5,
// with a little noise to keep both classes mixed in feature space.
func separableDataset(n int, seed int64) *Dataset {
	rng := rand.New(rand.NewSource(seed))
	ds := &Dataset{}
	for i := 0; i < n; i++ {
		x0 := rng.Float64()
		x1 := rng.Float64() // pure noise
		y := 0
		if x0 > 0.5 {
			y = 1
		}
		if rng.Float64() < 0.05 { // 5% label noise
			y = 1 - y
		}
		ds.X = append(ds.X, []float64{x0, x1})
		ds.Y = append(ds.Y, y)
	}
	return ds
}

func TestFit_SeparableData(t *testing.T) {
	ds := separableDataset(400, 7)

	model, importances, err := Fit(ds, defaultParams())
	require.NoError(t, err)
	require.NotNil(t, model)
	require.Len(t, model.Trees, 50)

	probs, err := model.PredictBatch(ds.X)
	require.NoError(t, err)

	auc, err := AUC(ds.Y, probs)
	require.NoError(t, err)
	assert.Greater(t, auc, 0.9, "model should nearly separate the classes")

	// The informative feature should dominate the importances.
	require.Len(t, importances, 2)
	assert.Greater(t, importances[0], importances[1])
	assert.InDelta(t, 1.0, importances[0]+importances[1], 1e-9)
}

func TestFit_SingleClassRejected(t *testing.T) {
	ds := &Dataset{
		X: [][]float64{{1, 0}, {2, 0}, {3, 0}},
		Y: []int{1, 1, 1},
	}
	_, _, err := Fit(ds, defaultParams())
	assert.Error(t, err)
}

func TestFit_InvalidParamsRejected(t *testing.T) {
	ds := separableDataset(20, 1)

	tests := []struct {
		name   string
		params TrainParams
	}{
		{"zero estimators", TrainParams{Estimators: 0, LearningRate: 0.1, MaxDepth: 3}},
		{"zero depth", TrainParams{Estimators: 10, LearningRate: 0.1, MaxDepth: 0}},
		{"zero learning rate", TrainParams{Estimators: 10, LearningRate: 0, MaxDepth: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Fit(ds, tt.params)
			assert.Error(t, err)
		})
	}
}

func TestFit_Deterministic(t *testing.T) {
	ds := separableDataset(200, 11)

	m1, imp1, err := Fit(ds, defaultParams())
	require.NoError(t, err)
	m2, imp2, err := Fit(ds, defaultParams())
	require.NoError(t, err)

	assert.Equal(t, imp1, imp2)

	p1, err := m1.PredictBatch(ds.X)
	require.NoError(t, err)
	p2, err := m2.PredictBatch(ds.X)
	require.NoError(t, err)
	assert.Equal(t, p1, p2)
}

func TestPredictProba_Range(t *testing.T) {
	ds := separableDataset(150, 3)
	model, _, err := Fit(ds, defaultParams())
	require.NoError(t, err)

	for _, x := range ds.X {
		p, err := model.PredictProba(x)
		require.NoError(t, err)
		assert.Greater(t, p, 0.0)
		assert.Less(t, p, 1.0)
	}
}

func TestPredictProba_WidthMismatch(t *testing.T) {
	ds := separableDataset(50, 5)
	model, _, err := Fit(ds, defaultParams())
	require.NoError(t, err)

	_, err = model.PredictProba([]float64{1})
	assert.Error(t, err)

	_, err = model.PredictBatch([][]float64{{1, 2}, {1}})
	assert.Error(t, err)
}

func TestFit_PriorMatchesBaseRate(t *testing.T) {
	// With a constant feature no split has gain, so predictions stay at
	// the prior log-odds for every sample.
	ds := &Dataset{}
	for i := 0; i < 100; i++ {
		y := 0
		if i < 30 {
			y = 1
		}
		ds.X = append(ds.X, []float64{1.0})
		ds.Y = append(ds.Y, y)
	}

	model, _, err := Fit(ds, TrainParams{Estimators: 10, LearningRate: 0.1, MaxDepth: 2})
	require.NoError(t, err)

	p, err := model.PredictProba([]float64{1.0})
	require.NoError(t, err)
	assert.InDelta(t, 0.3, p, 0.05)
}
