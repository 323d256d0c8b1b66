// Sentinel error set.
// All estimators and packers MUST return these sentinels (optionally
// wrapped with context via fmt.Errorf("...: %w")) and tests check them
// via errors.Is. No function panics on user-triggered conditions.

package covariance

import "errors"

var (
	// ErrBadDimension is returned when a requested matrix dimension is < 1.
	ErrBadDimension = errors.New("covariance: matrix dimension must be >= 1")

	// ErrDiagonalLength indicates the diagonal array length does not equal
	// the matrix dimension.
	ErrDiagonalLength = errors.New("covariance: diagonal length does not match dimension")

	// ErrOffDiagonalLength indicates the upper-triangle array length does
	// not equal (N²−N)/2 for the requested dimension.
	ErrOffDiagonalLength = errors.New("covariance: off-diagonal length does not match dimension")

	// ErrUnknownColumn indicates a requested column name is not present in
	// the table.
	ErrUnknownColumn = errors.New("covariance: unknown column")

	// ErrDuplicateColumn indicates a column name was added twice.
	ErrDuplicateColumn = errors.New("covariance: duplicate column")

	// ErrColumnLength indicates a column length differs from the table's
	// established row count.
	ErrColumnLength = errors.New("covariance: column length does not match table rows")

	// ErrNoColumns indicates an estimator was invoked with an empty column
	// selection.
	ErrNoColumns = errors.New("covariance: no columns selected")

	// ErrEmptyTable indicates an estimator needs at least two rows of
	// samples (one for the diagonal RMS estimator).
	ErrEmptyTable = errors.New("covariance: not enough sample rows")

	// ErrUnknownMethod indicates an unrecognized estimator method.
	ErrUnknownMethod = errors.New("covariance: unknown estimation method")
)
