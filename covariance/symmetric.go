package covariance

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// OffDiagonalCount returns the number of elements in the strict upper
// triangle of an N×N matrix: (N²−N)/2.
func OffDiagonalCount(dimension int) int {
	return (dimension*dimension - dimension) / 2
}

// PackSymmetric reconstructs a symmetric dimension×dimension matrix from
// its diagonal and its strict upper triangle in row-major order:
//
//	diag = [d0 d1 d2], offDiag = [u01 u02 u12]  →  ⎡d0  u01 u02⎤
//	                                               ⎢u01 d1  u12⎥
//	                                               ⎣u02 u12 d2 ⎦
//
// Go slices are one-dimensional by construction, so the shape guard of
// the contract reduces to the two length checks.
//
// Errors:
//   - ErrBadDimension      — dimension < 1.
//   - ErrDiagonalLength    — len(diag) != dimension.
//   - ErrOffDiagonalLength — len(offDiag) != (dimension²−dimension)/2.
func PackSymmetric(dimension int, diag, offDiag []float64) (*mat.SymDense, error) {
	if dimension < 1 {
		return nil, fmt.Errorf("dimension %d: %w", dimension, ErrBadDimension)
	}
	if len(diag) != dimension {
		return nil, fmt.Errorf("got %d diagonal values for dimension %d: %w",
			len(diag), dimension, ErrDiagonalLength)
	}
	if want := OffDiagonalCount(dimension); len(offDiag) != want {
		return nil, fmt.Errorf("got %d off-diagonal values, want %d: %w",
			len(offDiag), want, ErrOffDiagonalLength)
	}

	out := mat.NewSymDense(dimension, nil)
	for i := 0; i < dimension; i++ {
		out.SetSym(i, i, diag[i])
	}

	k := 0
	for i := 0; i < dimension; i++ {
		for j := i + 1; j < dimension; j++ {
			out.SetSym(i, j, offDiag[k])
			k++
		}
	}

	return out, nil
}
