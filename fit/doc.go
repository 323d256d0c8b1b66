// Package fit assembles and runs the constrained kinematic fit: it binds
// measured particle momenta and their covariances to the formula library,
// builds the chi-square objective and the constraint list, validates the
// solver settings and dispatches the problem to a constrained minimizer.
//
// 🚀 Walkthrough:
//
//	tag  := fit.MassiveParticleInfo{FourMomentum: ..., Covariance: tagCov}
//	lep  := fit.MassConstrainedParticleInfo{ThreeMomentum: ..., Mass: 0.1057, Covariance: lepCov}
//	xsys := fit.MassiveParticleInfo{FourMomentum: ..., Covariance: xCov}
//	miss := fit.MasslessParticleInfo{ThreeMomentum: missingMomentum}
//
//	cf, err := fit.NewCostFunction(tag, lep, xsys, miss, beam, fit.PositiveXMass)
//	if err != nil { ... } // e.g. ErrSingularCovariance with eigenvalues
//	res, err := fit.Fit(cf)
//	if err != nil { ... } // e.g. ErrUnknownMinimizer
//	if !res.Converged { ... } // normal outcome, retry policy is yours
//
// ✨ Key contracts:
//   - Construction inverts and caches the three covariance matrices; a
//     singular covariance is a fatal configuration error whose message
//     carries the offending matrix and its eigenvalues.
//   - InitialParams concatenates the measured momenta and the
//     missing-momentum seed in the funclib parameter-vector order and
//     defends against layout drift with a length check.
//   - The two mass-constraint policies of the B-meson hypothesis are
//     explicit: PinBothMasses (both sides pinned to the average B mass)
//     and PositiveXMass (only physical positivity of the X-system mass
//     squared). The caller always chooses; there is no default guess.
//   - A cost function is built once per event, is immutable after
//     construction apart from its solver settings, and is consumed by a
//     single Fit call.
//   - Solver non-convergence is reported in FitResult, never as an
//     error; configuration problems are errors at construction time.
//
// Settings may also arrive as an untyped mapping (for example parsed
// from a steering file); SetSolverSettings validates it against the
// fixed schema {tolerance: float, perturbation-epsilon: float,
// verbose: bool, max-iterations: int} before any solver invocation.
package fit
