// Package kinfit provides a constrained kinematic fit for inclusive
// semileptonic B decays at e+e- B factories.
//
// 🚀 What is kinfit?
//
//	Given noisy measurements of the tag-side B meson, the inclusive X
//	system and the signal lepton (plus a missing-momentum seed for the
//	unmeasured neutrino), kinfit finds the most likely set of four-momenta
//	consistent with energy-momentum conservation and the known B-meson
//	mass, by minimizing a chi-square cost function under equality and
//	inequality constraints.
//
// Everything is organized under five subpackages:
//
//	funclib/    — pure, allocation-free conservation and invariant-mass
//	              formulas over the fixed 14-parameter fit vector
//	fit/        — measurement records, the chi-square cost function,
//	              solver-settings validation and the minimizer driver
//	slsqp/      — the sequential quadratic programming solver consumed
//	              by the driver
//	covariance/ — covariance-matrix estimation from resolution samples,
//	              phase-space binning and symmetric-matrix packing
//	settings/   — a process-wide settings store kept for compatibility;
//	              fit components take explicit configuration instead
//
// Quick sketch of a fit:
//
//	cf, err := fit.NewCostFunction(tag, lepton, xsys, missing, beam,
//	    fit.PositiveXMass)
//	if err != nil { ... }
//	res, err := fit.Fit(cf)
//	if err != nil { ... }
//	// res.Parameters, res.Cost, res.Converged, res.Message
//
// See the package docs of fit and covariance for full walkthroughs.
package kinfit
