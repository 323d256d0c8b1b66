package covariance

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Method selects the covariance estimator applied to a sample table.
//
//   - MethodDiagonalRMS       — diag(RMS²); ignores correlations. The RMS
//     treats the samples as resolution residuals around zero.
//   - MethodRMSCorrelation    — D·R·D with D = diag(RMS) and R the Pearson
//     correlation matrix; keeps correlations but anchors the scale to the
//     zero-centred RMS.
//   - MethodEmpirical         — the empirical sample covariance matrix.
//   - MethodEmpiricalDiagonal — the empirical covariance with all
//     off-diagonal terms dropped.
type Method int

const (
	// MethodDiagonalRMS builds diag(RMS²) of each selected column.
	MethodDiagonalRMS Method = iota

	// MethodRMSCorrelation reconstructs the full matrix as D·R·D.
	MethodRMSCorrelation

	// MethodEmpirical builds the empirical sample covariance.
	MethodEmpirical

	// MethodEmpiricalDiagonal keeps only the empirical variances.
	MethodEmpiricalDiagonal
)

// String returns the estimator name for diagnostics.
func (m Method) String() string {
	switch m {
	case MethodDiagonalRMS:
		return "diagonal-rms"
	case MethodRMSCorrelation:
		return "rms-correlation"
	case MethodEmpirical:
		return "empirical"
	case MethodEmpiricalDiagonal:
		return "empirical-diagonal"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// RMS returns the root-mean-square of the sample, i.e. sqrt(mean(x²)).
// The predicted values are assumed to be zero since the input is
// primarily a resolution distribution.
func RMS(xs []float64) float64 {
	if len(xs) == 0 {
		return math.NaN()
	}

	var sum float64
	for _, v := range xs {
		sum += v * v
	}

	return math.Sqrt(sum / float64(len(xs)))
}

// Estimate builds a covariance matrix over the selected columns of the
// sample table using the given method.
//
// The result dimension equals len(cols), ordered as given. The empirical
// estimators use gonum's 1/(n−1) sample normalization and therefore need
// at least two rows; MethodDiagonalRMS needs one.
//
// Errors:
//   - ErrNoColumns     — empty column selection.
//   - ErrUnknownColumn — a selected column is absent from the table.
//   - ErrEmptyTable    — not enough sample rows for the method.
//   - ErrUnknownMethod — unrecognized method value.
func Estimate(t *Table, cols []string, method Method) (*mat.SymDense, error) {
	if len(cols) == 0 {
		return nil, ErrNoColumns
	}

	minRows := 2
	if method == MethodDiagonalRMS {
		minRows = 1
	}
	if t.Rows() < minRows {
		return nil, fmt.Errorf("have %d rows, need %d: %w", t.Rows(), minRows, ErrEmptyTable)
	}

	selected := make([][]float64, len(cols))
	for i, name := range cols {
		vals, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		selected[i] = vals
	}

	switch method {
	case MethodDiagonalRMS:
		return diagonalRMS(selected), nil
	case MethodRMSCorrelation:
		return rmsCorrelation(selected, t.Rows()), nil
	case MethodEmpirical:
		return empirical(selected, t.Rows()), nil
	case MethodEmpiricalDiagonal:
		full := empirical(selected, t.Rows())
		return diagonalOf(full), nil
	default:
		return nil, fmt.Errorf("%s: %w", method, ErrUnknownMethod)
	}
}

// diagonalRMS builds diag(RMS²) over the selected columns.
func diagonalRMS(cols [][]float64) *mat.SymDense {
	d := len(cols)
	out := mat.NewSymDense(d, nil)
	for i, vals := range cols {
		r := RMS(vals)
		out.SetSym(i, i, r*r)
	}

	return out
}

// rmsCorrelation reconstructs D·R·D where D is the diagonal RMS matrix
// and R the Pearson correlation matrix of the samples.
func rmsCorrelation(cols [][]float64, rows int) *mat.SymDense {
	d := len(cols)

	var corr mat.SymDense
	stat.CorrelationMatrix(&corr, sampleMatrix(cols, rows), nil)

	rms := make([]float64, d)
	for i, vals := range cols {
		rms[i] = RMS(vals)
	}

	out := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		for j := i; j < d; j++ {
			out.SetSym(i, j, rms[i]*corr.At(i, j)*rms[j])
		}
	}

	return out
}

// empirical builds the sample covariance matrix of the selected columns.
func empirical(cols [][]float64, rows int) *mat.SymDense {
	var cov mat.SymDense
	stat.CovarianceMatrix(&cov, sampleMatrix(cols, rows), nil)

	return &cov
}

// diagonalOf drops the off-diagonal entries of a symmetric matrix.
func diagonalOf(s *mat.SymDense) *mat.SymDense {
	d := s.SymmetricDim()
	out := mat.NewSymDense(d, nil)
	for i := 0; i < d; i++ {
		out.SetSym(i, i, s.At(i, i))
	}

	return out
}

// sampleMatrix lays the selected columns out as a rows×d observation
// matrix (one sample per row) for gonum's estimators.
func sampleMatrix(cols [][]float64, rows int) *mat.Dense {
	d := len(cols)
	data := make([]float64, rows*d)
	for j, vals := range cols {
		for i := 0; i < rows; i++ {
			data[i*d+j] = vals[i]
		}
	}

	return mat.NewDense(rows, d, data)
}
