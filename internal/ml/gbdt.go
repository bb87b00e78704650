// internal/ml/gbdt.go
package ml

import (
	"fmt"
	"math"
	"sort"
)

// regularization applied to leaf weights and split gains. Keeps leaves
// finite when a node's hessian sum approaches zero.
const lambda = 1e-6

// TrainParams are the boosting hyperparameters.
type TrainParams struct {
	Estimators   int
	LearningRate float64
	MaxDepth     int
	MinLeaf      int // minimum samples per leaf
}

// TreeNode is one node of a regression tree over the model's raw score.
// Interior nodes route on X[Feature] <= Threshold; leaves add Value.
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      *TreeNode `json:"left,omitempty"`
	Right     *TreeNode `json:"right,omitempty"`
	Leaf      bool      `json:"leaf,omitempty"`
	Value     float64   `json:"value,omitempty"`
}

// GBDT is a fitted gradient-boosted tree ensemble with logistic loss.
// PredictProba outputs are probabilities in (0, 1).
type GBDT struct {
	InitScore    float64     `json:"initScore"` // prior log-odds
	LearningRate float64     `json:"learningRate"`
	NumFeatures  int         `json:"numFeatures"`
	Trees        []*TreeNode `json:"trees"`
}

func sigmoid(z float64) float64 {
	return 1 / (1 + math.Exp(-z))
}

// Fit trains the ensemble. The second return value is per-feature split
// gain, normalized to sum to 1 (the model's feature importances). Training
// is fully deterministic: greedy exact splits, no subsampling.
func Fit(ds *Dataset, p TrainParams) (*GBDT, []float64, error) {
	if err := ds.Validate(); err != nil {
		return nil, nil, err
	}
	neg, pos := ds.ClassCounts()
	if neg == 0 || pos == 0 {
		return nil, nil, fmt.Errorf("training data contains a single class (neg=%d, pos=%d)", neg, pos)
	}
	if p.Estimators < 1 || p.MaxDepth < 1 || p.LearningRate <= 0 {
		return nil, nil, fmt.Errorf("invalid train params: %+v", p)
	}
	minLeaf := p.MinLeaf
	if minLeaf < 1 {
		minLeaf = 1
	}

	n := ds.Len()
	numFeatures := len(ds.X[0])

	prior := float64(pos) / float64(n)
	model := &GBDT{
		InitScore:    math.Log(prior / (1 - prior)),
		LearningRate: p.LearningRate,
		NumFeatures:  numFeatures,
		Trees:        make([]*TreeNode, 0, p.Estimators),
	}

	// Raw score per sample, updated as trees are added.
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = model.InitScore
	}

	grad := make([]float64, n)
	hess := make([]float64, n)
	gains := make([]float64, numFeatures)

	rootIdx := make([]int, n)
	for i := range rootIdx {
		rootIdx[i] = i
	}

	for t := 0; t < p.Estimators; t++ {
		for i := 0; i < n; i++ {
			pr := sigmoid(scores[i])
			grad[i] = float64(ds.Y[i]) - pr
			hess[i] = pr * (1 - pr)
		}

		tree := buildTree(ds.X, grad, hess, rootIdx, p.MaxDepth, minLeaf, gains)
		model.Trees = append(model.Trees, tree)

		for i := 0; i < n; i++ {
			scores[i] += p.LearningRate * evalTree(tree, ds.X[i])
		}
	}

	total := 0.0
	for _, g := range gains {
		total += g
	}
	importances := make([]float64, numFeatures)
	if total > 0 {
		for f := range gains {
			importances[f] = gains[f] / total
		}
	}

	return model, importances, nil
}

// buildTree grows one regression tree on the current gradients via greedy
// exact splits, Newton leaf values. Split gains are accumulated into the
// shared gains slice.
func buildTree(X [][]float64, grad, hess []float64, idx []int, depth, minLeaf int, gains []float64) *TreeNode {
	var sumG, sumH float64
	for _, i := range idx {
		sumG += grad[i]
		sumH += hess[i]
	}

	leaf := &TreeNode{Leaf: true, Value: sumG / (sumH + lambda)}
	if depth == 0 || len(idx) < 2*minLeaf {
		return leaf
	}

	bestGain := 0.0
	bestFeature := -1
	bestThreshold := 0.0
	parentScore := sumG * sumG / (sumH + lambda)

	numFeatures := len(X[idx[0]])
	for f := 0; f < numFeatures; f++ {
		gain, threshold, ok := bestSplitForFeature(X, grad, hess, idx, f, minLeaf, sumG, sumH, parentScore)
		if ok && gain > bestGain {
			bestGain = gain
			bestFeature = f
			bestThreshold = threshold
		}
	}

	if bestFeature < 0 {
		return leaf
	}
	gains[bestFeature] += bestGain

	var leftIdx, rightIdx []int
	for _, i := range idx {
		if X[i][bestFeature] <= bestThreshold {
			leftIdx = append(leftIdx, i)
		} else {
			rightIdx = append(rightIdx, i)
		}
	}

	return &TreeNode{
		Feature:   bestFeature,
		Threshold: bestThreshold,
		Left:      buildTree(X, grad, hess, leftIdx, depth-1, minLeaf, gains),
		Right:     buildTree(X, grad, hess, rightIdx, depth-1, minLeaf, gains),
	}
}

// bestSplitForFeature scans candidate thresholds (midpoints between
// adjacent distinct values) for a single feature.
func bestSplitForFeature(X [][]float64, grad, hess []float64, idx []int, f, minLeaf int, sumG, sumH, parentScore float64) (float64, float64, bool) {
	type sample struct {
		v    float64
		g, h float64
	}
	samples := make([]sample, 0, len(idx))
	for _, i := range idx {
		samples = append(samples, sample{v: X[i][f], g: grad[i], h: hess[i]})
	}
	sort.Slice(samples, func(a, b int) bool { return samples[a].v < samples[b].v })

	bestGain := 0.0
	bestThreshold := 0.0
	found := false

	var leftG, leftH float64
	leftCount := 0
	for k := 0; k < len(samples)-1; k++ {
		leftG += samples[k].g
		leftH += samples[k].h
		leftCount++

		if samples[k].v == samples[k+1].v {
			continue
		}
		if leftCount < minLeaf || len(samples)-leftCount < minLeaf {
			continue
		}

		rightG := sumG - leftG
		rightH := sumH - leftH
		gain := leftG*leftG/(leftH+lambda) + rightG*rightG/(rightH+lambda) - parentScore
		if gain > bestGain {
			bestGain = gain
			bestThreshold = (samples[k].v + samples[k+1].v) / 2
			found = true
		}
	}

	return bestGain, bestThreshold, found
}

func evalTree(node *TreeNode, x []float64) float64 {
	for !node.Leaf {
		if x[node.Feature] <= node.Threshold {
			node = node.Left
		} else {
			node = node.Right
		}
	}
	return node.Value
}

// PredictProba returns the conversion probability for one feature vector.
func (m *GBDT) PredictProba(x []float64) (float64, error) {
	if len(x) != m.NumFeatures {
		return 0, fmt.Errorf("expected %d features, got %d", m.NumFeatures, len(x))
	}
	score := m.InitScore
	for _, tree := range m.Trees {
		score += m.LearningRate * evalTree(tree, x)
	}
	return sigmoid(score), nil
}

// PredictBatch scores every row in X in one pass.
func (m *GBDT) PredictBatch(X [][]float64) ([]float64, error) {
	out := make([]float64, len(X))
	for i, x := range X {
		p, err := m.PredictProba(x)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = p
	}
	return out, nil
}
