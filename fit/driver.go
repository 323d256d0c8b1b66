package fit

import (
	"fmt"

	"github.com/welschma/InclusiveKinematicFit/slsqp"
)

// Fit dispatches the cost function to the constrained solver it
// declares and returns the solver outcome.
//
// The driver performs no retries: a failed convergence is reported
// through FitResult.Converged and Message, never masked and never
// raised. Callers decide whether to re-seed and run again.
//
// Errors (configuration only):
//   - ErrUnknownMinimizer — the declared solver kind is unrecognized.
//   - ErrParamCount       — the initial-guess vector is malformed.
//   - solver input errors — propagated from the solver package.
func Fit(cf *CostFunction) (*FitResult, error) {
	switch cf.MinimizerKind() {
	case MinimizerSLSQP:
		return fitSLSQP(cf)
	default:
		return nil, fmt.Errorf("%q: %w", cf.MinimizerKind(), ErrUnknownMinimizer)
	}
}

// fitSLSQP formulates the cost function as an slsqp.Problem and runs it
// with the validated settings.
func fitSLSQP(cf *CostFunction) (*FitResult, error) {
	x0, err := cf.InitialParams()
	if err != nil {
		return nil, err
	}

	var equalities, inequalities []slsqp.Func
	for _, con := range cf.Constraints() {
		if con.Kind == Equality {
			equalities = append(equalities, con.Fn)
		} else {
			inequalities = append(inequalities, con.Fn)
		}
	}

	st := cf.Settings()
	res, err := slsqp.Solve(slsqp.Problem{
		Objective:    cf.Evaluate,
		InitialX:     x0,
		Equalities:   equalities,
		Inequalities: inequalities,
	}, slsqp.Options{
		Tolerance:     st.Tolerance,
		Epsilon:       st.PerturbationEpsilon,
		MaxIterations: st.MaxIterations,
		Verbose:       st.Verbose,
		Logger:        cf.logger,
	})
	if err != nil {
		return nil, err
	}

	return &FitResult{
		Parameters:       res.X,
		Cost:             res.F,
		Converged:        res.Converged,
		Iterations:       res.Iterations,
		DomainViolations: res.DomainViolations,
		Message:          res.Message,
	}, nil
}
