// internal/ml/dataset.go
// Package ml implements the gradient-boosted tree classifier behind lead
// scoring, plus the evaluation helpers (AUC, stratified splitting) the
// trainer needs. It has no I/O; callers hand it in-memory matrices.
package ml

import "fmt"

// Dataset is a dense feature matrix with binary labels. Row i of X pairs
// with Y[i]; every row must have the same width.
type Dataset struct {
	X [][]float64
	Y []int
}

// Len returns the number of samples.
func (d *Dataset) Len() int {
	return len(d.Y)
}

// ClassCounts returns how many negative and positive labels the set holds.
func (d *Dataset) ClassCounts() (neg, pos int) {
	for _, y := range d.Y {
		if y == 1 {
			pos++
		} else {
			neg++
		}
	}
	return neg, pos
}

// Subset builds a new Dataset from the given row indices. Rows are shared,
// not copied.
func (d *Dataset) Subset(idx []int) *Dataset {
	sub := &Dataset{
		X: make([][]float64, 0, len(idx)),
		Y: make([]int, 0, len(idx)),
	}
	for _, i := range idx {
		sub.X = append(sub.X, d.X[i])
		sub.Y = append(sub.Y, d.Y[i])
	}
	return sub
}

// Validate checks matrix shape consistency.
func (d *Dataset) Validate() error {
	if len(d.X) != len(d.Y) {
		return fmt.Errorf("feature rows (%d) and labels (%d) differ in length", len(d.X), len(d.Y))
	}
	if len(d.X) == 0 {
		return fmt.Errorf("dataset is empty")
	}
	width := len(d.X[0])
	for i, row := range d.X {
		if len(row) != width {
			return fmt.Errorf("row %d has %d features, expected %d", i, len(row), width)
		}
	}
	return nil
}
