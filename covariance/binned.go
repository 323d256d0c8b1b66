package covariance

import (
	"fmt"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/mat"
)

// BinKey identifies one phase-space bin: the values of the bin columns
// for that group, rendered with strconv 'g' formatting and joined by "|".
// Keys are deterministic for identical inputs, so they are safe to use
// as map keys and in diagnostics.
type BinKey string

// EstimateBinned groups the sample table by the value tuple of the bin
// columns (e.g. momentum or angle bin labels) and applies the chosen
// estimator independently per group.
//
// Returns a mapping from bin key to covariance matrix over cols. Groups
// with fewer rows than the estimator needs surface the same ErrEmptyTable
// a direct Estimate call would.
//
// Errors:
//   - ErrNoColumns     — empty bin-column or estimation-column selection.
//   - ErrUnknownColumn — a named column is absent.
//   - ErrEmptyTable    — a bin has too few rows for the method.
//   - ErrUnknownMethod — unrecognized method value.
func EstimateBinned(t *Table, binCols, cols []string, method Method) (map[BinKey]*mat.SymDense, error) {
	if len(binCols) == 0 {
		return nil, fmt.Errorf("bin columns: %w", ErrNoColumns)
	}

	byCol := make([][]float64, len(binCols))
	for i, name := range binCols {
		vals, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		byCol[i] = vals
	}

	// Group row indices by their bin-value tuple.
	groups := make(map[BinKey][]int)
	for row := 0; row < t.Rows(); row++ {
		key := binKeyFor(byCol, row)
		groups[key] = append(groups[key], row)
	}

	out := make(map[BinKey]*mat.SymDense, len(groups))
	for key, rows := range groups {
		cov, err := Estimate(t.subset(rows), cols, method)
		if err != nil {
			return nil, fmt.Errorf("bin %s: %w", key, err)
		}
		out[key] = cov
	}

	return out, nil
}

// binKeyFor renders the bin-column values of one row as a BinKey.
func binKeyFor(byCol [][]float64, row int) BinKey {
	parts := make([]string, len(byCol))
	for i, vals := range byCol {
		parts[i] = strconv.FormatFloat(vals[row], 'g', -1, 64)
	}

	return BinKey(strings.Join(parts, "|"))
}
