// Package covariance estimates the covariance matrices fed into the
// kinematic fit from tables of resolution residuals, and packs symmetric
// matrices from triangular storage.
//
// 🚀 What lives here?
//
//	• Table        — a small column-major sample table (one column per
//	                 momentum/energy component or phase-space variable)
//	• Estimate     — four interchangeable estimators over a Table:
//	                 diagonal RMS², RMS·correlation·RMS, empirical
//	                 covariance, and its diagonal-only variant
//	• EstimateBinned — the same estimators applied independently per
//	                 phase-space bin, keyed by the bin-column value tuple
//	• PackSymmetric — reconstructs a symmetric N×N matrix from a diagonal
//	                 array and an upper-triangle array
//
// ✨ Conventions:
//   - Residual columns are resolution distributions, so the "true" value
//     is assumed to be zero: the RMS estimators square the plain
//     root-mean-square of each column.
//   - The empirical estimators delegate to gonum's sample covariance and
//     Pearson correlation (1/(n−1) normalization).
//   - All estimators are pure functions of the table; results are
//     *mat.SymDense ready for fit.NewCostFunction.
//
// ⚙️ Usage:
//
//	tbl := covariance.NewTable()
//	_ = tbl.AddColumn("dpx", dpx)
//	_ = tbl.AddColumn("dpy", dpy)
//	cov, err := covariance.Estimate(tbl, []string{"dpx", "dpy"}, covariance.MethodRMSCorrelation)
//
// Errors are package-level sentinels (ErrUnknownColumn, ErrDiagonalLength,
// ...) matched via errors.Is; every one of them is a configuration error
// in the sense of the fit's error taxonomy.
package covariance
