// internal/datagen/generate.go
// Package datagen produces synthetic labeled training data for pipeline
// testing only. Features are drawn independently and the outcome is noise
// with no embedded assumptions, so a model trained on this data is
// expected to sit near chance level. Do not draw feature-importance
// conclusions from it.
package datagen

import (
	"encoding/csv"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"

	"trustmarket-leadscore/internal/features"
	"trustmarket-leadscore/internal/models"
)

// Weighted draw tables, mirroring the production feature distributions
// closely enough to exercise the pipeline end to end.
var (
	brankValues  = []float64{1, 2, 3, 4, 5}
	brankWeights = []int{15, 25, 30, 20, 10}

	matchValues  = []float64{features.CategoryMatchExact, features.CategoryMatchRelated, features.CategoryMatchUnrelated}
	matchWeights = []int{35, 40, 25}

	budgetWeights    = []int{45, 55} // 1, 0
	convertedWeights = []int{30, 70} // 1, 0
)

// Generate returns n synthetic training rows, deterministic per seed.
func Generate(n int, seed int64) []models.TrainingRow {
	rng := rand.New(rand.NewSource(seed))

	rows := make([]models.TrainingRow, 0, n)
	for i := 0; i < n; i++ {
		rows = append(rows, models.TrainingRow{
			BuyerBRank:      brankValues[weightedIndex(rng, brankWeights)],
			CategoryMatch:   matchValues[weightedIndex(rng, matchWeights)],
			BudgetSpecified: float64(1 - weightedIndex(rng, budgetWeights)),
			Converted:       1 - weightedIndex(rng, convertedWeights),
		})
	}
	return rows
}

func weightedIndex(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	r := rng.Intn(total)
	for i, w := range weights {
		if r < w {
			return i
		}
		r -= w
	}
	return len(weights) - 1
}

// WriteCSV writes rows in the trainer's expected column layout.
func WriteCSV(w io.Writer, rows []models.TrainingRow) error {
	cw := csv.NewWriter(w)
	header := append(features.Names(), "converted")
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		record := []string{
			strconv.FormatFloat(row.BuyerBRank, 'g', -1, 64),
			strconv.FormatFloat(row.CategoryMatch, 'g', -1, 64),
			strconv.FormatFloat(row.BudgetSpecified, 'g', -1, 64),
			strconv.Itoa(row.Converted),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFile generates and writes a dataset in one call.
func WriteCSVFile(path string, n int, seed int64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()
	return WriteCSV(f, Generate(n, seed))
}
