// internal/ml/metrics.go
package ml

import (
	"fmt"
	"math"
	"sort"
)

// AUC computes the area under the ROC curve via the rank-sum formulation,
// with average ranks for tied scores. Both classes must be present.
func AUC(labels []int, scores []float64) (float64, error) {
	if len(labels) != len(scores) {
		return 0, fmt.Errorf("labels (%d) and scores (%d) differ in length", len(labels), len(scores))
	}

	n := len(labels)
	pos := 0
	for _, y := range labels {
		if y == 1 {
			pos++
		}
	}
	neg := n - pos
	if pos == 0 || neg == 0 {
		return 0, fmt.Errorf("AUC undefined for a single class (pos=%d, neg=%d)", pos, neg)
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool { return scores[order[a]] < scores[order[b]] })

	// Sum of positive-class ranks, averaging ranks within tie groups.
	rankSum := 0.0
	i := 0
	for i < n {
		j := i
		for j < n && scores[order[j]] == scores[order[i]] {
			j++
		}
		avgRank := float64(i+j+1) / 2 // ranks are 1-based
		for k := i; k < j; k++ {
			if labels[order[k]] == 1 {
				rankSum += avgRank
			}
		}
		i = j
	}

	p := float64(pos)
	return (rankSum - p*(p+1)/2) / (p * float64(neg)), nil
}

// Correlation computes the Pearson correlation between a feature column and
// binary labels. Used by the data diagnosis report.
func Correlation(xs []float64, ys []int) float64 {
	n := float64(len(xs))
	if n == 0 || len(xs) != len(ys) {
		return 0
	}

	var sumX, sumY float64
	for i := range xs {
		sumX += xs[i]
		sumY += float64(ys[i])
	}
	meanX := sumX / n
	meanY := sumY / n

	var cov, varX, varY float64
	for i := range xs {
		dx := xs[i] - meanX
		dy := float64(ys[i]) - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return 0
	}
	return cov / math.Sqrt(varX*varY)
}
