package slsqp_test

import (
	"fmt"

	"github.com/welschma/InclusiveKinematicFit/slsqp"
)

// ExampleSolve minimizes x² + y² on the line x + y = 1; the minimizer
// is the midpoint (0.5, 0.5).
func ExampleSolve() {
	res, err := slsqp.Solve(slsqp.Problem{
		Objective: func(x []float64) float64 { return x[0]*x[0] + x[1]*x[1] },
		InitialX:  []float64{1, 0},
		Equalities: []slsqp.Func{
			func(x []float64) float64 { return x[0] + x[1] - 1 },
		},
	}, slsqp.DefaultOptions())
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Printf("%v %.4f %.4f\n", res.Converged, res.X[0], res.X[1])
	// Output: true 0.5000 0.5000
}
