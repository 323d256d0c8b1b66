// Package funclib contains the pure numeric formulas of the kinematic fit:
// conservation-law residuals and invariant-mass functions over the fit
// parameter vector.
//
// 🚀 Parameter-vector layout
//
//	All functions expect as first argument the parameter slice used by the
//	minimizer. It always holds exactly NumParams (14) entries:
//	  • x[0:4)   — tag-side B meson four-momentum (px, py, pz, E)
//	  • x[4:8)   — X-system four-momentum (px, py, pz, E)
//	  • x[8:11)  — signal-lepton three-momentum
//	  • x[11:14) — neutrino three-momentum
//
// ✨ Design rules:
//   - Every function is side-effect-free and allocation-free; the solver
//     calls them thousands of times per fit.
//   - Energies are recomputed from three-momenta and masses via
//     E = sqrt(|p|² + m²). A negative radicand (possible far from the true
//     solution during a line search) propagates as NaN rather than
//     panicking; the solver tolerates transient NaNs.
//   - Residual functions return 0 at any point satisfying exact
//     energy-momentum conservation and, for the mass residuals, the exact
//     B-meson mass hypothesis.
//
// ⚙️ Usage:
//
//	import "github.com/welschma/InclusiveKinematicFit/funclib"
//
//	r := funclib.MomentumResidualX(x, beam) // should be driven to 0
//	m2 := funclib.TagMassSquared(x)         // E² − |p|²
//
// The chi-square kernel ChiSquare binds the same layout to measured values
// and flat row-major inverse covariance matrices; see fit.CostFunction for
// the object that assembles those inputs.
package funclib
