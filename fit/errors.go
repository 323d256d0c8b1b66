package fit

// Sentinel errors. Every sentinel here is a configuration error:
// raised at construction or validation time, never during a running
// fit. Solver non-convergence is not an error; see FitResult.

import "errors"

var (
	// ErrSingularCovariance indicates a measurement covariance matrix
	// could not be inverted. The wrapped message carries the matrix and
	// its eigenvalues.
	ErrSingularCovariance = errors.New("fit: covariance matrix not invertible")

	// ErrCovarianceDim indicates a covariance matrix with the wrong
	// dimension for its record (4×4 for four-momenta, 3×3 for
	// three-momenta).
	ErrCovarianceDim = errors.New("fit: covariance matrix has wrong dimension")

	// ErrNilCovariance indicates a measured record without a covariance.
	ErrNilCovariance = errors.New("fit: covariance matrix is nil")

	// ErrParamCount indicates the assembled initial parameter vector does
	// not have the expected 14 entries (defense against layout drift).
	ErrParamCount = errors.New("fit: initial parameter count mismatch")

	// ErrUnknownPolicy indicates an unrecognized mass-constraint policy.
	ErrUnknownPolicy = errors.New("fit: unknown mass-constraint policy")

	// ErrUnknownMinimizer indicates a cost function declaring a solver
	// kind the driver does not recognize.
	ErrUnknownMinimizer = errors.New("fit: unknown minimizer kind")

	// ErrUnknownSetting indicates a solver-settings key outside the fixed
	// schema.
	ErrUnknownSetting = errors.New("fit: unknown solver setting")

	// ErrSettingType indicates a schema key with a value of the wrong
	// type.
	ErrSettingType = errors.New("fit: solver setting has wrong type")

	// ErrBadDegreesOfFreedom indicates a chi-square probability request
	// with ndf < 1.
	ErrBadDegreesOfFreedom = errors.New("fit: degrees of freedom must be >= 1")
)
