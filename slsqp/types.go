// Problem description, options and result types.

package slsqp

import (
	"errors"

	"go.uber.org/zap"
)

// Func is a scalar function of the optimization variables.
// Implementations must be side-effect-free; the solver calls them
// repeatedly per iteration. NaN results are handled per the package
// numeric contract.
type Func func(x []float64) float64

// Problem describes one constrained minimization.
//
// Equalities are driven to zero, Inequalities to non-negative values.
// Constraint order is preserved in diagnostics but has no effect on the
// solution.
type Problem struct {
	// Objective is the scalar function to minimize. Required.
	Objective Func

	// InitialX is the starting point. Required, length defines the
	// problem dimension. Solve never mutates it.
	InitialX []float64

	// Equalities are the constraints cⱼ(x) = 0.
	Equalities []Func

	// Inequalities are the constraints cⱼ(x) ≥ 0.
	Inequalities []Func
}

// Options configures the solver.
//
// Zero-valued numeric fields fall back to the DefaultOptions values;
// negative values are rejected with ErrBadOptions.
type Options struct {
	// Tolerance is the solution accuracy: the step and objective-change
	// threshold for declaring convergence. Default 1e-10.
	Tolerance float64

	// Epsilon is the forward-difference step for numerical gradients.
	// Default sqrt of the machine epsilon (≈1.49e-8).
	Epsilon float64

	// MaxIterations caps the outer SQP iterations. Default 1000.
	MaxIterations int

	// Verbose enables per-iteration logging through Logger.
	Verbose bool

	// Logger receives verbose traces. Nil falls back to the process-wide
	// zap logger.
	Logger *zap.Logger
}

// DefaultOptions returns the solver defaults.
func DefaultOptions() Options {
	return Options{
		Tolerance:     1e-10,
		Epsilon:       1.4901161193847656e-08,
		MaxIterations: 1000,
	}
}

// Status describes how the solver terminated.
type Status int

const (
	// StatusConverged — step, objective change and constraint violation
	// all dropped below tolerance.
	StatusConverged Status = iota

	// StatusMaxIterations — the iteration budget was exhausted first.
	StatusMaxIterations

	// StatusLineSearchFailed — no acceptable step length along the
	// computed direction.
	StatusLineSearchFailed

	// StatusSingularKKT — the KKT system stayed singular after
	// regularization; constraints are likely degenerate.
	StatusSingularKKT

	// StatusDomainError — the objective or a constraint evaluated to NaN
	// at an accepted iterate (negative radicand in an energy or mass
	// formula, for example).
	StatusDomainError
)

// String returns a short status name for diagnostics.
func (s Status) String() string {
	switch s {
	case StatusConverged:
		return "converged"
	case StatusMaxIterations:
		return "max-iterations"
	case StatusLineSearchFailed:
		return "line-search-failed"
	case StatusSingularKKT:
		return "singular-kkt"
	case StatusDomainError:
		return "domain-error"
	default:
		return "unknown"
	}
}

// Result carries the solver outcome. Non-convergence is reported here,
// not as an error.
type Result struct {
	// X is the final parameter vector.
	X []float64

	// F is the objective value at X.
	F float64

	// Converged reports whether the tolerances were met.
	Converged bool

	// Status classifies the termination.
	Status Status

	// Iterations is the number of outer SQP iterations performed.
	Iterations int

	// FuncEvals counts objective and constraint evaluations, including
	// finite-difference probes.
	FuncEvals int

	// DomainViolations counts NaN evaluations encountered and tolerated
	// along the way. A non-zero count with Converged=true is harmless;
	// with StatusDomainError it explains the failure.
	DomainViolations int

	// Message is a human-readable termination description.
	Message string
}

var (
	// ErrNilObjective indicates a Problem without an objective.
	ErrNilObjective = errors.New("slsqp: objective function is nil")

	// ErrEmptyInitial indicates a Problem without a starting point.
	ErrEmptyInitial = errors.New("slsqp: initial point is empty")

	// ErrNilConstraint indicates a nil entry in a constraint list.
	ErrNilConstraint = errors.New("slsqp: constraint function is nil")

	// ErrBadOptions indicates a negative tolerance, epsilon or iteration
	// budget.
	ErrBadOptions = errors.New("slsqp: invalid options")
)
