// internal/ml/metrics_test.go
package ml

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAUC(t *testing.T) {
	tests := []struct {
		name   string
		labels []int
		scores []float64
		want   float64
	}{
		{
			name:   "perfect ranking",
			labels: []int{0, 0, 1, 1},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   1.0,
		},
		{
			name:   "inverted ranking",
			labels: []int{1, 1, 0, 0},
			scores: []float64{0.1, 0.2, 0.8, 0.9},
			want:   0.0,
		},
		{
			name:   "all scores tied is chance",
			labels: []int{0, 1, 0, 1},
			scores: []float64{0.5, 0.5, 0.5, 0.5},
			want:   0.5,
		},
		{
			name:   "one misranked pair",
			labels: []int{0, 1, 0, 1},
			scores: []float64{0.1, 0.4, 0.35, 0.8},
			// 3 of 4 (pos, neg) pairs ranked correctly... all 4 here:
			// (0.4,0.1) ok, (0.4,0.35) ok, (0.8,0.1) ok, (0.8,0.35) ok
			want: 1.0,
		},
		{
			name:   "tie across classes counts half",
			labels: []int{0, 1},
			scores: []float64{0.7, 0.7},
			want:   0.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := AUC(tt.labels, tt.scores)
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-12)
		})
	}
}

func TestAUC_Errors(t *testing.T) {
	_, err := AUC([]int{1, 1}, []float64{0.5, 0.6})
	assert.Error(t, err, "single class")

	_, err = AUC([]int{0, 1}, []float64{0.5})
	assert.Error(t, err, "length mismatch")
}

func TestCorrelation(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []int
		want float64
	}{
		{"perfect positive", []float64{1, 2, 3, 4}, []int{0, 0, 1, 1}, 0.8944271909999159},
		{"perfect negative", []float64{4, 3, 2, 1}, []int{0, 0, 1, 1}, -0.8944271909999159},
		{"constant feature", []float64{2, 2, 2, 2}, []int{0, 1, 0, 1}, 0},
		{"constant label", []float64{1, 2, 3, 4}, []int{1, 1, 1, 1}, 0},
		{"empty", nil, nil, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Correlation(tt.xs, tt.ys), 1e-9)
		})
	}
}
