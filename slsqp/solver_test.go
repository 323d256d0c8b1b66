package slsqp_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/welschma/InclusiveKinematicFit/slsqp"
)

// TestSolve_UnconstrainedQuadratic converges to the analytic minimum of
// a separable quadratic.
func TestSolve_UnconstrainedQuadratic(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 {
			return (x[0]-1)*(x[0]-1) + (x[1]+2)*(x[1]+2)
		},
		InitialX: []float64{5, 5},
	}, slsqp.DefaultOptions())
	require.NoError(t, err, "well-formed problem must not error")

	assert.True(t, res.Converged, "quadratic must converge: %s", res.Message)
	assert.Equal(t, slsqp.StatusConverged, res.Status, "status must match flag")
	assert.InDelta(t, 1.0, res.X[0], 1e-6, "x0 at the minimum")
	assert.InDelta(t, -2.0, res.X[1], 1e-6, "x1 at the minimum")
	assert.InDelta(t, 0.0, res.F, 1e-10, "objective at the minimum")
}

// TestSolve_LinearEquality projects onto a linear constraint:
// min x0²+x1² subject to x0+x1 = 1 has the solution (1/2, 1/2).
func TestSolve_LinearEquality(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] },
		InitialX:  []float64{3, -1},
		Equalities: []slsqp.Func{
			func(x []float64) float64 { return x[0] + x[1] - 1 },
		},
	}, slsqp.DefaultOptions())
	require.NoError(t, err)

	require.True(t, res.Converged, "projection problem must converge: %s", res.Message)
	assert.InDelta(t, 0.5, res.X[0], 1e-7, "x0 on the constraint")
	assert.InDelta(t, 0.5, res.X[1], 1e-7, "x1 on the constraint")
	assert.InDelta(t, 0.5, res.F, 1e-7, "constrained minimum value")
}

// TestSolve_DependentEqualities handles a rank-deficient but consistent
// equality set: the second constraint is a scalar multiple of the first,
// so the active Jacobian has one independent row. The solution is the
// same as with the single constraint.
func TestSolve_DependentEqualities(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] },
		InitialX:  []float64{3, -1},
		Equalities: []slsqp.Func{
			func(x []float64) float64 { return x[0] + x[1] - 1 },
			func(x []float64) float64 { return 2 * (x[0] + x[1] - 1) },
		},
	}, slsqp.DefaultOptions())
	require.NoError(t, err)

	require.True(t, res.Converged, "consistent dependent equalities must converge: %s", res.Message)
	assert.NotEqual(t, slsqp.StatusSingularKKT, res.Status, "rank deficiency alone is not a singularity")
	assert.InDelta(t, 0.5, res.X[0], 1e-6, "x0 on the shared constraint")
	assert.InDelta(t, 0.5, res.X[1], 1e-6, "x1 on the shared constraint")
}

// TestSolve_DifferenceDependency handles the dependency pattern of the
// pinned-mass constraint set, where one equality is exactly the
// difference of two others: a−5, b−5 and a−b are all listed, leaving the
// Jacobian with two independent rows out of three.
func TestSolve_DifferenceDependency(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 {
			return (x[0]-4)*(x[0]-4) + (x[1]-6)*(x[1]-6)
		},
		InitialX: []float64{4, 6},
		Equalities: []slsqp.Func{
			func(x []float64) float64 { return x[0] - x[1] },
			func(x []float64) float64 { return x[0] - 5 },
			func(x []float64) float64 { return x[1] - 5 },
		},
	}, slsqp.DefaultOptions())
	require.NoError(t, err)

	require.True(t, res.Converged, "difference-dependent equalities must converge: %s", res.Message)
	assert.InDelta(t, 5.0, res.X[0], 1e-6, "x0 pinned")
	assert.InDelta(t, 5.0, res.X[1], 1e-6, "x1 pinned")
	assert.InDelta(t, 2.0, res.F, 1e-6, "objective at the pinned point")
}

// TestSolve_NonlinearEquality stays on the unit circle:
// min (x0−1)²+(x1−1)² subject to x0²+x1² = 1 → (1/√2, 1/√2).
func TestSolve_NonlinearEquality(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 {
			return (x[0]-1)*(x[0]-1) + (x[1]-1)*(x[1]-1)
		},
		InitialX: []float64{0.5, 0.5},
		Equalities: []slsqp.Func{
			func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] - 1 },
		},
	}, slsqp.DefaultOptions())
	require.NoError(t, err)

	require.True(t, res.Converged, "circle projection must converge: %s", res.Message)
	want := 1 / math.Sqrt2
	assert.InDelta(t, want, res.X[0], 1e-6, "x0 on the circle")
	assert.InDelta(t, want, res.X[1], 1e-6, "x1 on the circle")
}

// TestSolve_ActiveInequality drives the iterate onto the boundary of a
// binding inequality: min (x0−2)²+(x1−1)² s.t. 1−x0−x1 ≥ 0 → (1, 0).
func TestSolve_ActiveInequality(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 {
			return (x[0]-2)*(x[0]-2) + (x[1]-1)*(x[1]-1)
		},
		InitialX: []float64{0, 0},
		Inequalities: []slsqp.Func{
			func(x []float64) float64 { return 1 - x[0] - x[1] },
		},
	}, slsqp.DefaultOptions())
	require.NoError(t, err)

	require.True(t, res.Converged, "inequality projection must converge: %s", res.Message)
	assert.InDelta(t, 1.0, res.X[0], 1e-6, "x0 on the boundary")
	assert.InDelta(t, 0.0, res.X[1], 1e-6, "x1 on the boundary")
}

// TestSolve_InactiveInequality leaves a slack inequality alone.
func TestSolve_InactiveInequality(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] },
		InitialX:  []float64{3, -1},
		Equalities: []slsqp.Func{
			func(x []float64) float64 { return x[0] + x[1] - 1 },
		},
		Inequalities: []slsqp.Func{
			func(x []float64) float64 { return x[0] + 5 },
		},
	}, slsqp.DefaultOptions())
	require.NoError(t, err)

	require.True(t, res.Converged, "slack inequality must not disturb the fit: %s", res.Message)
	assert.InDelta(t, 0.5, res.X[0], 1e-6, "solution unchanged by slack constraint")
}

// TestSolve_IterationBudget reports StatusMaxIterations without raising.
func TestSolve_IterationBudget(t *testing.T) {
	opts := slsqp.DefaultOptions()
	opts.MaxIterations = 1

	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 {
			// Rosenbrock: far too hard for a single iteration.
			a := 1 - x[0]
			b := x[1] - x[0]*x[0]
			return a*a + 100*b*b
		},
		InitialX: []float64{-1.2, 1},
	}, opts)
	require.NoError(t, err, "budget exhaustion is not an error")

	assert.False(t, res.Converged, "one iteration cannot solve Rosenbrock")
	assert.Equal(t, slsqp.StatusMaxIterations, res.Status, "status must name the budget")
	assert.Contains(t, res.Message, "iteration limit", "message must explain the outcome")
}

// TestSolve_DomainErrorAtStart reports an undefined objective at the
// initial point as a domain failure, not a crash.
func TestSolve_DomainErrorAtStart(t *testing.T) {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 { return math.Sqrt(x[0]) },
		InitialX:  []float64{-1},
	}, slsqp.DefaultOptions())
	require.NoError(t, err, "domain failure is reported through the result")

	assert.False(t, res.Converged, "NaN objective cannot converge")
	assert.Equal(t, slsqp.StatusDomainError, res.Status, "domain failures are distinct from non-convergence")
	assert.Greater(t, res.DomainViolations, 0, "undefined evaluations must be counted")
}

// TestSolve_InputValidation covers the error surface for malformed
// problems and options.
func TestSolve_InputValidation(t *testing.T) {
	obj := func(x []float64) float64 { return x[0] * x[0] }

	_, err := slsqp.Solve(slsqp.Problem{InitialX: []float64{1}}, slsqp.DefaultOptions())
	assert.ErrorIs(t, err, slsqp.ErrNilObjective, "missing objective must error")

	_, err = slsqp.Solve(slsqp.Problem{Objective: obj}, slsqp.DefaultOptions())
	assert.ErrorIs(t, err, slsqp.ErrEmptyInitial, "missing initial point must error")

	_, err = slsqp.Solve(slsqp.Problem{
		Objective:  obj,
		InitialX:   []float64{1},
		Equalities: []slsqp.Func{nil},
	}, slsqp.DefaultOptions())
	assert.ErrorIs(t, err, slsqp.ErrNilConstraint, "nil constraint entry must error")

	opts := slsqp.DefaultOptions()
	opts.Tolerance = -1
	_, err = slsqp.Solve(slsqp.Problem{Objective: obj, InitialX: []float64{1}}, opts)
	assert.ErrorIs(t, err, slsqp.ErrBadOptions, "negative tolerance must error")
}

// TestSolve_DoesNotMutateInitialX guards the documented aliasing rule.
func TestSolve_DoesNotMutateInitialX(t *testing.T) {
	x0 := []float64{5, 5}
	_, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 {
			return (x[0]-1)*(x[0]-1) + (x[1]+2)*(x[1]+2)
		},
		InitialX: x0,
	}, slsqp.DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, []float64{5, 5}, x0, "Solve must not write through InitialX")
}
