package fit

import (
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/welschma/InclusiveKinematicFit/funclib"
)

// CostFunction is the chi-square objective of one kinematic fit event,
// with the measured momenta, the cached inverse covariances, the beam
// hypothesis and the active constraint policy bound in at construction.
//
// Lifecycle: build once per event from freshly measured inputs, hand to
// Fit exactly once, read the result, discard. Apart from the solver
// settings the object is immutable after construction.
type CostFunction struct {
	tagMeas funclib.FourMomentum
	xMeas   funclib.FourMomentum
	lepMeas funclib.ThreeMomentum
	nuSeed  funclib.ThreeMomentum

	leptonMass float64
	beam       funclib.FourMomentum

	// Flat row-major inverse covariances, cached for the allocation-free
	// objective kernel.
	tagICov []float64 // 4×4
	lepICov []float64 // 3×3
	xICov   []float64 // 4×4

	policy   MassConstraintPolicy
	kind     MinimizerKind
	settings SolverSettings
	logger   *zap.Logger
}

// Option adjusts optional cost-function configuration at construction.
type Option func(*CostFunction)

// WithSolverSettings replaces the default solver settings.
func WithSolverSettings(s SolverSettings) Option {
	return func(c *CostFunction) { c.settings = s }
}

// WithLogger routes verbose solver traces to the given logger instead of
// the process-wide zap logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *CostFunction) { c.logger = l }
}

// WithMinimizerKind overrides the solver kind the cost function declares.
// The default, MinimizerSLSQP, is the only kind the driver currently
// accepts; the option exists so new kinds can be introduced without
// touching existing call sites.
func WithMinimizerKind(k MinimizerKind) Option {
	return func(c *CostFunction) { c.kind = k }
}

// NewCostFunction binds the three measured records, the missing-momentum
// seed and the beam four-momentum into a ready-to-fit cost function.
// It inverts and caches the three covariance matrices up front.
//
// Errors (all fatal configuration errors):
//   - ErrNilCovariance      — a measured record without a covariance.
//   - ErrCovarianceDim      — covariance dimension does not match the
//     record (4×4 for four-momenta, 3×3 for the lepton).
//   - ErrSingularCovariance — a covariance could not be inverted; the
//     message carries the matrix and its eigenvalues.
//   - ErrUnknownPolicy      — unrecognized mass-constraint policy.
func NewCostFunction(
	tagSide MassiveParticleInfo,
	lepton MassConstrainedParticleInfo,
	xSystem MassiveParticleInfo,
	missing MasslessParticleInfo,
	beam funclib.FourMomentum,
	policy MassConstraintPolicy,
	opts ...Option,
) (*CostFunction, error) {
	if policy != PinBothMasses && policy != PositiveXMass {
		return nil, fmt.Errorf("policy %d: %w", int(policy), ErrUnknownPolicy)
	}

	tagICov, err := invertCovariance(tagSide.Covariance, 4, "tag side")
	if err != nil {
		return nil, err
	}
	lepICov, err := invertCovariance(lepton.Covariance, 3, "lepton")
	if err != nil {
		return nil, err
	}
	xICov, err := invertCovariance(xSystem.Covariance, 4, "x system")
	if err != nil {
		return nil, err
	}

	c := &CostFunction{
		tagMeas:    tagSide.FourMomentum,
		xMeas:      xSystem.FourMomentum,
		lepMeas:    lepton.ThreeMomentum,
		nuSeed:     missing.ThreeMomentum,
		leptonMass: lepton.Mass,
		beam:       beam,
		tagICov:    tagICov,
		lepICov:    lepICov,
		xICov:      xICov,
		policy:     policy,
		kind:       MinimizerSLSQP,
		settings:   DefaultSolverSettings(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// InitialParams assembles the initial-guess vector by concatenating the
// measured momenta and the missing-momentum seed in parameter-vector
// order. The length check defends against future layout drift.
func (c *CostFunction) InitialParams() ([]float64, error) {
	params := make([]float64, 0, funclib.NumParams)
	params = append(params, c.tagMeas[:]...)
	params = append(params, c.xMeas[:]...)
	params = append(params, c.lepMeas[:]...)
	params = append(params, c.nuSeed[:]...)

	if len(params) != funclib.NumParams {
		return nil, fmt.Errorf("assembled %d parameters, want %d: %w",
			len(params), funclib.NumParams, ErrParamCount)
	}

	return params, nil
}

// Constraints returns the ordered list of active constraints for the
// chosen policy: the four conservation laws and the equal-mass equality,
// plus either the two pinned-mass equalities or the X-system positivity
// inequality. Order matters only for diagnostics.
func (c *CostFunction) Constraints() []Constraint {
	beam := c.beam
	lm := c.leptonMass

	cons := []Constraint{
		{Name: "x-momentum", Kind: Equality, Fn: func(x []float64) float64 {
			return funclib.MomentumResidualX(x, beam)
		}},
		{Name: "y-momentum", Kind: Equality, Fn: func(x []float64) float64 {
			return funclib.MomentumResidualY(x, beam)
		}},
		{Name: "z-momentum", Kind: Equality, Fn: func(x []float64) float64 {
			return funclib.MomentumResidualZ(x, beam)
		}},
		{Name: "energy", Kind: Equality, Fn: func(x []float64) float64 {
			return funclib.EnergyResidual(x, beam, lm)
		}},
		{Name: "equal-mass", Kind: Equality, Fn: func(x []float64) float64 {
			return funclib.EqualMassResidual(x, lm)
		}},
	}

	switch c.policy {
	case PinBothMasses:
		cons = append(cons,
			Constraint{Name: "tag-mass", Kind: Equality, Fn: funclib.TagMassResidual},
			Constraint{Name: "signal-mass", Kind: Equality, Fn: func(x []float64) float64 {
				return funclib.SignalMassResidual(x, lm)
			}},
		)
	case PositiveXMass:
		cons = append(cons,
			Constraint{Name: "x-mass-squared", Kind: Inequality, Fn: funclib.XSystemMassSquared},
		)
	}

	return cons
}

// Evaluate is the chi-square objective: the sum of the three
// covariance-weighted quadratic forms over the measured records. The
// unmeasured neutrino contributes no term.
func (c *CostFunction) Evaluate(x []float64) float64 {
	return funclib.ChiSquare(x, c.tagICov, c.lepICov, c.xICov, c.tagMeas, c.lepMeas, c.xMeas)
}

// MinimizerKind names the solver this cost function requires.
func (c *CostFunction) MinimizerKind() MinimizerKind { return c.kind }

// Policy returns the active mass-constraint policy.
func (c *CostFunction) Policy() MassConstraintPolicy { return c.policy }

// Settings returns the current solver settings.
func (c *CostFunction) Settings() SolverSettings { return c.settings }

// SetSolverSettings validates the supplied mapping against the fixed
// schema and overlays it onto the current settings. Validation happens
// here, before any solver invocation; an invalid mapping leaves the
// settings untouched.
func (c *CostFunction) SetSolverSettings(m map[string]any) error {
	next := c.settings
	if err := next.ApplyMap(m); err != nil {
		return err
	}
	c.settings = next

	return nil
}

// invertCovariance inverts a covariance matrix of the expected dimension
// and returns the inverse as a flat row-major slice. A failed inversion
// surfaces the matrix and its eigenvalues in the error message so the
// caller can see why the measurement is degenerate.
func invertCovariance(cov mat.Symmetric, wantDim int, label string) ([]float64, error) {
	if cov == nil {
		return nil, fmt.Errorf("%s: %w", label, ErrNilCovariance)
	}
	if d := cov.SymmetricDim(); d != wantDim {
		return nil, fmt.Errorf("%s is %d×%d, want %d×%d: %w",
			label, d, d, wantDim, wantDim, ErrCovarianceDim)
	}

	var inv mat.Dense
	if err := inv.Inverse(cov); err != nil {
		var es mat.EigenSym
		eig := "eigenvalue computation failed"
		if es.Factorize(cov, false) {
			eig = fmt.Sprintf("%v", es.Values(nil))
		}

		return nil, fmt.Errorf("%s covariance %v with eigenvalues %s: %w",
			label, mat.Formatted(cov, mat.Prefix(" "), mat.Squeeze()), eig, ErrSingularCovariance)
	}

	flat := make([]float64, wantDim*wantDim)
	for i := 0; i < wantDim; i++ {
		for j := 0; j < wantDim; j++ {
			flat[i*wantDim+j] = inv.At(i, j)
		}
	}

	return flat, nil
}
