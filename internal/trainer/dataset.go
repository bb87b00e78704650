// internal/trainer/dataset.go
package trainer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"trustmarket-leadscore/internal/common/errors"
	"trustmarket-leadscore/internal/features"
	"trustmarket-leadscore/internal/ml"
)

const labelColumn = "converted"

// truthy values accepted for boolean-ish columns. Historical exports mix
// Postgres t/f, spreadsheet TRUE/FALSE and plain 0/1.
var truthy = map[string]bool{"t": true, "true": true, "1": true, "yes": true, "y": true}
var falsy = map[string]bool{"f": true, "false": true, "0": true, "no": true, "n": true}

// LoadCSV reads a labeled training dataset. The file must carry the
// encoder's feature columns plus the converted label; anything else is a
// schema validation error.
func LoadCSV(path string) (*ml.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open training data: %w", err)
	}
	defer f.Close()

	return loadCSV(f)
}

func loadCSV(r io.Reader) (*ml.Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, errors.NewSchemaValidationFailedError(fmt.Sprintf("cannot read header: %v", err))
	}

	colIdx := map[string]int{}
	for i, name := range header {
		colIdx[strings.TrimSpace(strings.ToLower(name))] = i
	}

	required := append(features.Names(), labelColumn)
	var missing []string
	for _, col := range required {
		if _, ok := colIdx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, errors.NewSchemaValidationFailedError(
			fmt.Sprintf("missing columns: %s (have: %s)", strings.Join(missing, ", "), strings.Join(header, ", ")))
	}

	featureCols := features.Names()
	ds := &ml.Dataset{}
	line := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, errors.NewSchemaValidationFailedError(fmt.Sprintf("row %d: %v", line, err))
		}

		row := make([]float64, len(featureCols))
		for j, col := range featureCols {
			v, err := parseNumeric(record[colIdx[col]])
			if err != nil {
				return nil, errors.NewSchemaValidationFailedError(
					fmt.Sprintf("row %d, column %s: %v", line, col, err))
			}
			row[j] = v
		}

		label, err := parseBinary(record[colIdx[labelColumn]])
		if err != nil {
			return nil, errors.NewSchemaValidationFailedError(
				fmt.Sprintf("row %d, column %s: %v", line, labelColumn, err))
		}

		ds.X = append(ds.X, row)
		ds.Y = append(ds.Y, label)
	}

	if ds.Len() == 0 {
		return nil, errors.NewSchemaValidationFailedError("training data has no rows")
	}
	return ds, nil
}

// parseNumeric accepts plain floats and boolean spellings (for the
// budget_specified column, which historical exports store either way).
func parseNumeric(raw string) (float64, error) {
	s := strings.TrimSpace(strings.ToLower(raw))
	if s == "" {
		return 0, fmt.Errorf("empty value")
	}
	if truthy[s] {
		return 1, nil
	}
	if falsy[s] {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("not numeric: %q", raw)
	}
	return v, nil
}

func parseBinary(raw string) (int, error) {
	v, err := parseNumeric(raw)
	if err != nil {
		return 0, err
	}
	if v != 0 && v != 1 {
		return 0, fmt.Errorf("label must be 0 or 1, got %q", raw)
	}
	return int(v), nil
}
