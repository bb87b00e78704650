// internal/diagnose/diagnose_test.go
package diagnose

import (
	"testing"

	"trustmarket-leadscore/internal/ml"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun(t *testing.T) {
	// brank 1 always converts, brank 5 never does.
	ds := &ml.Dataset{
		X: [][]float64{
			{1, 1.0, 1},
			{1, 1.0, 0},
			{5, 0.2, 1},
			{5, 0.2, 0},
		},
		Y: []int{1, 1, 0, 0},
	}

	report := Run(ds)
	assert.Equal(t, 4, report.Samples)
	assert.Equal(t, 2, report.Converted)
	assert.Equal(t, 0.5, report.ConversionRate)
	require.Len(t, report.Features, 3)

	brank := report.Features[0]
	assert.Equal(t, "buyer_brank", brank.Name)
	require.Len(t, brank.ByValue, 2)
	assert.Equal(t, ValueStat{Value: 1, Count: 2, ConversionRate: 1}, brank.ByValue[0])
	assert.Equal(t, ValueStat{Value: 5, Count: 2, ConversionRate: 0}, brank.ByValue[1])
	assert.Less(t, brank.Correlation, 0.0, "lower rank value converts more")

	match := report.Features[1]
	assert.Equal(t, "category_match", match.Name)
	assert.Greater(t, match.Correlation, 0.0)

	budget := report.Features[2]
	assert.Equal(t, "budget_specified", budget.Name)
	assert.InDelta(t, 0.0, budget.Correlation, 1e-9, "budget is balanced across classes")
}

func TestReportString(t *testing.T) {
	ds := &ml.Dataset{
		X: [][]float64{{1, 1.0, 1}, {5, 0.2, 0}},
		Y: []int{1, 0},
	}
	out := Run(ds).String()
	assert.Contains(t, out, "samples: 2")
	assert.Contains(t, out, "buyer_brank")
	assert.Contains(t, out, "category_match")
	assert.Contains(t, out, "budget_specified")
	assert.Contains(t, out, "correlation")
}
