// Package slsqp solves smooth constrained nonlinear programs of the form
//
//	minimize f(x) subject to
//	  cⱼ(x) = 0   (equality constraints)
//	  cⱼ(x) ≥ 0   (inequality constraints)
//
// via sequential quadratic programming, the method behind the classic
// SLSQP code of Kraft. The fit driver treats this package as an opaque
// solver: it hands over an objective, an initial point and ordered
// constraint lists, and receives a candidate solution with diagnostics.
//
// 🚀 Method outline:
//  1. Approximate the Lagrangian Hessian B: seeded with a finite-difference
//     Hessian of the objective, then maintained with Powell-damped BFGS
//     updates so B stays positive definite.
//  2. At each iterate, linearize the active constraints and solve the
//     KKT system [B −Aᵀ; A 0]·[d λ] = [−g −c] for a search direction d
//     and multipliers λ (active-set handling for inequalities: drop
//     constraints whose multiplier turns negative).
//  3. Globalize with a backtracking Armijo line search on an L1 exact
//     penalty merit function φ(x) = f(x) + Σ ρⱼ‖cⱼ(x)‖, with the penalty
//     weights ρⱼ tracking the multipliers.
//
// ✨ Numeric contract:
//   - Gradients are forward differences with step Options.Epsilon; the
//     caller never supplies derivatives.
//   - Transient NaN evaluations during the line search are tolerated:
//     the trial step is rejected and the step length halved. A NaN at an
//     accepted iterate terminates with StatusDomainError, reported
//     distinctly from ordinary non-convergence.
//   - Non-convergence is a normal outcome: Solve returns a Result with
//     Converged=false and an explanatory Message, never an error. Errors
//     are reserved for malformed problems and options.
//
// ⚙️ Usage:
//
//	res, err := slsqp.Solve(slsqp.Problem{
//	    Objective:  f,
//	    InitialX:   x0,
//	    Equalities: []slsqp.Func{c1, c2},
//	}, slsqp.DefaultOptions())
//
// Complexity per iteration: O(n·(m+1)) function evaluations for the
// finite-difference Jacobian plus one O((n+m)³) dense KKT factorization.
package slsqp
