// internal/diagnose/diagnose.go
// Package diagnose summarizes a labeled training dataset so an operator
// can sanity-check signal before trusting a trained model: conversion
// rates grouped by feature value, value distributions, and raw
// correlations with the outcome.
package diagnose

import (
	"fmt"
	"sort"
	"strings"

	"trustmarket-leadscore/internal/features"
	"trustmarket-leadscore/internal/ml"
)

// ValueStat is the conversion behavior of one distinct feature value.
type ValueStat struct {
	Value          float64
	Count          int
	ConversionRate float64
}

// FeatureDiagnosis is one feature's breakdown.
type FeatureDiagnosis struct {
	Name        string
	ByValue     []ValueStat
	Correlation float64
}

// Report is the full dataset diagnosis.
type Report struct {
	Samples        int
	Converted      int
	ConversionRate float64
	Features       []FeatureDiagnosis
}

// Run computes the report. The dataset width must match the encoder
// schema; callers validate via the trainer before handing data here.
func Run(ds *ml.Dataset) *Report {
	names := features.Names()
	report := &Report{Samples: ds.Len()}

	for _, y := range ds.Y {
		report.Converted += y
	}
	if report.Samples > 0 {
		report.ConversionRate = float64(report.Converted) / float64(report.Samples)
	}

	for f, name := range names {
		column := make([]float64, ds.Len())
		sums := map[float64]int{}
		hits := map[float64]int{}
		for i, row := range ds.X {
			column[i] = row[f]
			sums[row[f]]++
			hits[row[f]] += ds.Y[i]
		}

		values := make([]float64, 0, len(sums))
		for v := range sums {
			values = append(values, v)
		}
		sort.Float64s(values)

		diag := FeatureDiagnosis{
			Name:        name,
			Correlation: ml.Correlation(column, ds.Y),
		}
		for _, v := range values {
			diag.ByValue = append(diag.ByValue, ValueStat{
				Value:          v,
				Count:          sums[v],
				ConversionRate: float64(hits[v]) / float64(sums[v]),
			})
		}
		report.Features = append(report.Features, diag)
	}

	return report
}

// String renders the report as a plain-text block for CLI output.
func (r *Report) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "samples: %d  converted: %d  conversion rate: %.1f%%\n",
		r.Samples, r.Converted, r.ConversionRate*100)
	for _, f := range r.Features {
		fmt.Fprintf(&b, "\n%s (correlation with converted: %.3f)\n", f.Name, f.Correlation)
		for _, vs := range f.ByValue {
			fmt.Fprintf(&b, "  value %-6g count %-6d conversion %.1f%%\n",
				vs.Value, vs.Count, vs.ConversionRate*100)
		}
	}
	return b.String()
}
