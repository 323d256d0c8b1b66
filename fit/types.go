package fit

import (
	"gonum.org/v1/gonum/mat"

	"github.com/welschma/InclusiveKinematicFit/funclib"
)

// MassiveParticleInfo is a measured composite with a full four-momentum
// and a 4×4 covariance (tag-side B meson, X system).
type MassiveParticleInfo struct {
	// Covariance is the symmetric positive-definite 4×4 measurement
	// covariance in (px, py, pz, E) order.
	Covariance mat.Symmetric

	// FourMomentum is the measured (px, py, pz, E).
	FourMomentum funclib.FourMomentum
}

// MassConstrainedParticleInfo is a measured particle whose mass is known
// and not fitted: a three-momentum with a 3×3 covariance plus the fixed
// mass scalar (the signal lepton).
type MassConstrainedParticleInfo struct {
	// Covariance is the symmetric positive-definite 3×3 measurement
	// covariance in (px, py, pz) order.
	Covariance mat.Symmetric

	// ThreeMomentum is the measured (px, py, pz).
	ThreeMomentum funclib.ThreeMomentum

	// Mass is the known particle mass in GeV.
	Mass float64
}

// MasslessParticleInfo is an unmeasured massless particle: a bare
// three-momentum seed with no covariance (the neutrino, seeded from the
// missing-momentum estimate).
type MasslessParticleInfo struct {
	// ThreeMomentum is the missing-momentum seed (px, py, pz).
	ThreeMomentum funclib.ThreeMomentum
}

// MassConstraintPolicy selects which B-meson mass constraints accompany
// the conservation laws. The two policies are mutually exclusive; the
// caller must pick one explicitly.
type MassConstraintPolicy int

const (
	// PinBothMasses pins the tag-side and signal-side invariant masses to
	// the average B-meson mass with two equality constraints, on top of
	// the equal-mass constraint.
	PinBothMasses MassConstraintPolicy = iota

	// PositiveXMass keeps only the equal-mass equality and requires the
	// X-system invariant mass squared to be physical (≥ 0) with a single
	// inequality constraint.
	PositiveXMass
)

// String returns the policy name for diagnostics.
func (p MassConstraintPolicy) String() string {
	switch p {
	case PinBothMasses:
		return "pin-both-masses"
	case PositiveXMass:
		return "positive-x-mass"
	default:
		return "unknown"
	}
}

// ConstraintKind tags a constraint as equality (driven to zero) or
// inequality (driven non-negative).
type ConstraintKind int

const (
	// Equality constraints must vanish at the solution.
	Equality ConstraintKind = iota

	// Inequality constraints must be non-negative at the solution.
	Inequality
)

// Constraint is one named residual over the fit parameter vector. The
// order of constraints matters only for solver diagnostics.
type Constraint struct {
	// Name identifies the constraint in diagnostics.
	Name string

	// Kind is Equality or Inequality.
	Kind ConstraintKind

	// Fn is the residual function over the 14-parameter vector.
	Fn func(x []float64) float64
}

// MinimizerKind names the constrained solver a cost function requires.
type MinimizerKind int

const (
	// MinimizerSLSQP is the sequential quadratic programming solver.
	MinimizerSLSQP MinimizerKind = iota
)

// String returns the solver-kind name for diagnostics.
func (k MinimizerKind) String() string {
	if k == MinimizerSLSQP {
		return "slsqp"
	}

	return "unknown"
}

// FitResult is the outcome of one fit. A failed convergence is a normal
// outcome, reported here and never as an error; callers decide whether
// to re-seed and retry.
type FitResult struct {
	// Parameters is the best-fit 14-parameter vector in funclib layout.
	Parameters []float64

	// Cost is the chi-square objective at Parameters.
	Cost float64

	// Converged reports whether the solver met its tolerances.
	Converged bool

	// Iterations is the number of solver iterations performed.
	Iterations int

	// DomainViolations counts undefined (NaN) formula evaluations the
	// solver encountered; a non-zero count with Converged=false points
	// at a numeric-domain failure rather than plain non-convergence.
	DomainViolations int

	// Message is the solver's human-readable termination description.
	Message string
}
