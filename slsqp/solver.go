package slsqp

import (
	"fmt"
	"math"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

const (
	// armijoFactor is the sufficient-decrease slope fraction.
	armijoFactor = 1e-4
	// maxHalvings bounds the backtracking line search.
	maxHalvings = 25
	// activeTol decides when an inequality constraint counts as active.
	activeTol = 1e-7
	// hessianStep is the relative step for the initial finite-difference
	// Hessian seed (cube root of the machine epsilon).
	hessianStep = 6.0554544523933429e-06
)

// Solve runs the SQP iteration on the given problem.
//
// It returns an error only for malformed inputs (nil objective, empty
// initial point, nil constraint entries, negative options). Every other
// outcome — convergence, iteration exhaustion, line-search failure,
// numeric-domain failure — is communicated through the Result.
func Solve(p Problem, opts Options) (Result, error) {
	if p.Objective == nil {
		return Result{}, ErrNilObjective
	}
	if len(p.InitialX) == 0 {
		return Result{}, ErrEmptyInitial
	}
	for _, c := range p.Equalities {
		if c == nil {
			return Result{}, fmt.Errorf("equality list: %w", ErrNilConstraint)
		}
	}
	for _, c := range p.Inequalities {
		if c == nil {
			return Result{}, fmt.Errorf("inequality list: %w", ErrNilConstraint)
		}
	}
	if opts.Tolerance < 0 || opts.Epsilon < 0 || opts.MaxIterations < 0 {
		return Result{}, ErrBadOptions
	}

	def := DefaultOptions()
	if opts.Tolerance == 0 {
		opts.Tolerance = def.Tolerance
	}
	if opts.Epsilon == 0 {
		opts.Epsilon = def.Epsilon
	}
	if opts.MaxIterations == 0 {
		opts.MaxIterations = def.MaxIterations
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.L()
	}

	s := &solver{
		obj:     p.Objective,
		cons:    append(append([]Func{}, p.Equalities...), p.Inequalities...),
		me:      len(p.Equalities),
		m:       len(p.Equalities) + len(p.Inequalities),
		n:       len(p.InitialX),
		tol:     opts.Tolerance,
		eps:     opts.Epsilon,
		maxIter: opts.MaxIterations,
		verbose: opts.Verbose,
		log:     logger,
	}

	return s.run(p.InitialX), nil
}

// solver holds the mutable SQP state for one Solve call.
type solver struct {
	obj  Func
	cons []Func // equalities first

	me, m, n int
	tol, eps float64
	maxIter  int
	verbose  bool
	log      *zap.Logger

	x      []float64
	fx     float64
	cx     []float64     // constraint values, length m
	g      []float64     // objective gradient
	jac    *mat.Dense    // m×n constraint Jacobian
	hess   *mat.SymDense // Lagrangian Hessian approximation
	lambda []float64     // multipliers, zero for inactive constraints
	rho    []float64     // merit penalty weights

	evals    int
	nanEvals int
}

// evalObj evaluates the objective with bookkeeping.
func (s *solver) evalObj(x []float64) float64 {
	s.evals++
	v := s.obj(x)
	if math.IsNaN(v) {
		s.nanEvals++
	}

	return v
}

// evalCons evaluates constraint j with bookkeeping.
func (s *solver) evalCons(j int, x []float64) float64 {
	s.evals++
	v := s.cons[j](x)
	if math.IsNaN(v) {
		s.nanEvals++
	}

	return v
}

// violation returns the worst constraint violation at the stored cx:
// |c| for equalities, max(0, −c) for inequalities.
func (s *solver) violation() float64 {
	var worst float64
	for j, c := range s.cx {
		v := math.Abs(c)
		if j >= s.me {
			v = math.Max(0, -c)
		}
		worst = math.Max(worst, v)
	}

	return worst
}

// merit is the L1 exact penalty function at an arbitrary point.
// NaN propagates so the line search can reject the trial.
func (s *solver) merit(x []float64) float64 {
	phi := s.evalObj(x)
	for j := range s.cons {
		c := s.evalCons(j, x)
		if j < s.me {
			phi += s.rho[j] * math.Abs(c)
		} else {
			phi += s.rho[j] * math.Max(0, -c)
		}
	}

	return phi
}

// gradient fills out with the forward-difference gradient of f at x,
// where fx = f(x) is already known. A NaN probe falls back to a backward
// difference; a component that stays NaN is zeroed and counted.
func (s *solver) gradient(f Func, x []float64, fx float64, out []float64) {
	for i := range x {
		h := s.eps * (1 + math.Abs(x[i]))
		xi := x[i]

		x[i] = xi + h
		s.evals++
		fp := f(x)
		x[i] = xi

		if !math.IsNaN(fp) {
			out[i] = (fp - fx) / h
			continue
		}
		s.nanEvals++

		x[i] = xi - h
		s.evals++
		fm := f(x)
		x[i] = xi

		if !math.IsNaN(fm) {
			out[i] = (fx - fm) / h
		} else {
			s.nanEvals++
			out[i] = 0
		}
	}
}

// seedHessian initializes the Hessian approximation with a symmetrized
// finite-difference Hessian of the objective, nudged to positive
// definiteness by adding τ·I until a Cholesky factorization succeeds.
func (s *solver) seedHessian(x0 []float64) {
	n := s.n
	s.hess = mat.NewSymDense(n, nil)

	x := make([]float64, n)
	copy(x, x0)
	f0 := s.evalObj(x)
	if math.IsNaN(f0) {
		// Seed from identity; the domain check in run reports the NaN.
		for i := 0; i < n; i++ {
			s.hess.SetSym(i, i, 1)
		}

		return
	}

	h := make([]float64, n)
	fp := make([]float64, n)
	for i := 0; i < n; i++ {
		h[i] = hessianStep * (1 + math.Abs(x[i]))
		x[i] += h[i]
		fp[i] = s.evalObj(x)
		x[i] = x0[i]
	}

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			x[i] += h[i]
			x[j] += h[j]
			fpp := s.evalObj(x)
			x[i] = x0[i]
			x[j] = x0[j]

			v := (fpp - fp[i] - fp[j] + f0) / (h[i] * h[j])
			if math.IsNaN(v) {
				s.nanEvals++
				v = 0
			}
			s.hess.SetSym(i, j, v)
		}
	}

	// Regularize until positive definite.
	var chol mat.Cholesky
	tau := 0.0
	scale := 1 + math.Abs(floats.Max(diagonal(s.hess)))
	for try := 0; try < 40; try++ {
		trial := mat.NewSymDense(n, nil)
		trial.CopySym(s.hess)
		for i := 0; i < n; i++ {
			trial.SetSym(i, i, trial.At(i, i)+tau)
		}
		if chol.Factorize(trial) {
			s.hess = trial
			return
		}
		if tau == 0 {
			tau = 1e-10 * scale
		} else {
			tau *= 10
		}
	}

	// Fall back to a scaled identity.
	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			if i == j {
				s.hess.SetSym(i, j, scale)
			} else {
				s.hess.SetSym(i, j, 0)
			}
		}
	}
}

// run executes the main SQP loop from x0 and assembles the Result.
func (s *solver) run(x0 []float64) Result {
	n := s.n
	s.x = make([]float64, n)
	copy(s.x, x0)
	s.cx = make([]float64, s.m)
	s.g = make([]float64, n)
	if s.m > 0 {
		s.jac = mat.NewDense(s.m, n, nil)
	}
	s.lambda = make([]float64, s.m)
	s.rho = make([]float64, s.m)
	for j := range s.rho {
		s.rho[j] = 1
	}

	s.seedHessian(x0)

	feasTol := math.Max(100*s.tol, 1e-10)
	status := StatusMaxIterations
	iter := 0

	jrow := make([]float64, n)
	d := make([]float64, n)
	xNew := make([]float64, n)
	gOld := make([]float64, n)
	lagOld := make([]float64, n)
	lagNew := make([]float64, n)

	for iter = 1; iter <= s.maxIter; iter++ {
		s.fx = s.evalObj(s.x)
		domainErr := math.IsNaN(s.fx)
		for j := range s.cons {
			s.cx[j] = s.evalCons(j, s.x)
			domainErr = domainErr || math.IsNaN(s.cx[j])
		}
		if domainErr {
			status = StatusDomainError
			break
		}

		s.gradient(s.obj, s.x, s.fx, s.g)
		for j := range s.cons {
			s.gradient(s.cons[j], s.x, s.cx[j], jrow)
			s.jac.SetRow(j, jrow)
		}

		ok := s.solveKKT(d)
		if !ok {
			status = StatusSingularKKT
			break
		}

		viol := s.violation()
		if s.verbose {
			s.log.Info("slsqp iteration",
				zap.Int("iter", iter),
				zap.Float64("f", s.fx),
				zap.Float64("violation", viol),
				zap.Float64("step_norm", floats.Norm(d, math.Inf(1))))
		}

		if viol <= feasTol && floats.Norm(d, math.Inf(1)) <= s.tol*(1+floats.Norm(s.x, math.Inf(1))) {
			status = StatusConverged
			break
		}

		// Track the multipliers in the penalty weights.
		for j := range s.rho {
			al := math.Abs(s.lambda[j])
			s.rho[j] = math.Max(al, 0.5*(s.rho[j]+al))
		}

		// Lagrangian gradient at the current point for the BFGS update.
		s.lagGradient(s.g, lagOld)
		copy(gOld, s.g)

		phi0 := s.fx + s.penalty()
		slope := floats.Dot(s.g, d) - s.penaltySlope()

		alpha, accepted := s.lineSearch(d, xNew, phi0, slope)
		if !accepted {
			if viol <= feasTol {
				// Feasible and no further progress available.
				status = StatusConverged
			} else {
				status = StatusLineSearchFailed
			}
			break
		}

		fOld := s.fx
		copy(s.x, xNew)

		// Refresh values and gradients at the accepted point.
		s.fx = s.evalObj(s.x)
		domainErr = math.IsNaN(s.fx)
		for j := range s.cons {
			s.cx[j] = s.evalCons(j, s.x)
			domainErr = domainErr || math.IsNaN(s.cx[j])
		}
		if domainErr {
			status = StatusDomainError
			break
		}
		s.gradient(s.obj, s.x, s.fx, s.g)
		for j := range s.cons {
			s.gradient(s.cons[j], s.x, s.cx[j], jrow)
			s.jac.SetRow(j, jrow)
		}
		s.lagGradient(s.g, lagNew)

		s.updateBFGS(d, alpha, lagOld, lagNew)

		if math.Abs(s.fx-fOld) <= s.tol*(1+math.Abs(fOld)) && s.violation() <= feasTol {
			status = StatusConverged
			break
		}
	}
	if iter > s.maxIter {
		iter = s.maxIter
	}

	res := Result{
		X:                append([]float64{}, s.x...),
		F:                s.fx,
		Converged:        status == StatusConverged,
		Status:           status,
		Iterations:       iter,
		FuncEvals:        s.evals,
		DomainViolations: s.nanEvals,
	}
	res.Message = s.message(status)

	return res
}

// message renders the human-readable termination description.
func (s *solver) message(status Status) string {
	switch status {
	case StatusConverged:
		return "optimization terminated successfully"
	case StatusMaxIterations:
		return fmt.Sprintf("iteration limit of %d reached", s.maxIter)
	case StatusLineSearchFailed:
		return "line search failed to find an acceptable step"
	case StatusSingularKKT:
		return "singular KKT system; constraints may be degenerate"
	case StatusDomainError:
		return fmt.Sprintf("objective or constraint undefined (NaN) at iterate after %d undefined evaluations", s.nanEvals)
	default:
		return "unknown termination"
	}
}

// penalty returns Σ ρⱼ‖cⱼ‖₁ at the stored constraint values.
func (s *solver) penalty() float64 {
	var sum float64
	for j, c := range s.cx {
		if j < s.me {
			sum += s.rho[j] * math.Abs(c)
		} else {
			sum += s.rho[j] * math.Max(0, -c)
		}
	}

	return sum
}

// penaltySlope returns Σ ρⱼ‖cⱼ‖₁ used as the negative penalty part of
// the merit directional derivative (the linearized step removes the
// violation to first order).
func (s *solver) penaltySlope() float64 {
	return s.penalty()
}

// lagGradient stores ∇f − Jᵀλ into out.
func (s *solver) lagGradient(g []float64, out []float64) {
	copy(out, g)
	for j := 0; j < s.m; j++ {
		if s.lambda[j] == 0 {
			continue
		}
		for i := 0; i < s.n; i++ {
			out[i] -= s.lambda[j] * s.jac.At(j, i)
		}
	}
}

// solveKKT computes the SQP direction d and the multipliers by solving
// the KKT system over the active constraint set, dropping active
// inequalities with negative multipliers. Returns false only if the
// system stays singular after both the dual and the Hessian shifts of
// solveKKTFor are exhausted.
func (s *solver) solveKKT(d []float64) bool {
	// Active set: all equalities plus inequalities at or beyond their
	// boundary (or held active by a positive multiplier).
	active := make([]int, 0, s.m)
	for j := 0; j < s.m; j++ {
		if j < s.me || s.cx[j] <= activeTol || s.lambda[j] > 0 {
			active = append(active, j)
		}
	}

	for pass := 0; pass <= s.m; pass++ {
		lam, ok := s.solveKKTFor(active, d)
		if !ok {
			return false
		}

		for j := range s.lambda {
			s.lambda[j] = 0
		}
		for k, j := range active {
			s.lambda[j] = lam[k]
		}

		// Drop the most negative inequality multiplier, if any.
		drop := -1
		worst := -1e-12
		for k, j := range active {
			if j >= s.me && lam[k] < worst {
				worst = lam[k]
				drop = k
			}
		}
		if drop < 0 {
			return true
		}
		s.lambda[active[drop]] = 0
		active = append(active[:drop], active[drop+1:]...)
	}

	return true
}

// solveKKTFor solves [B −Aᵀ; A δI]·[d λ] = [−g −c] for the given active
// rows. The dual shift δ starts at zero; when the factorization fails it
// is raised first, because a row-deficient active Jacobian keeps the
// plain system singular no matter how strongly B is regularized.
// Linearly dependent but consistent constraints (pinning both B-meson
// masses alongside the equal-mass condition makes one equality the
// difference of the other two) then get the least-squares multiplier
// split in the δ→0 limit instead of a terminal singularity. The Hessian
// shift τ escalates only on later retries.
func (s *solver) solveKKTFor(active []int, d []float64) ([]float64, bool) {
	n, k := s.n, len(active)
	size := n + k

	var jacScale float64
	for _, row := range active {
		for i := 0; i < n; i++ {
			jacScale = math.Max(jacScale, math.Abs(s.jac.At(row, i)))
		}
	}

	tau, delta := 0.0, 0.0
	scale := 1 + math.Abs(floats.Max(diagonal(s.hess)))
	for try := 0; try < 6; try++ {
		kkt := mat.NewDense(size, size, nil)
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				kkt.Set(i, j, s.hess.At(i, j))
			}
			kkt.Set(i, i, kkt.At(i, i)+tau)
		}
		for a, row := range active {
			for i := 0; i < n; i++ {
				aji := s.jac.At(row, i)
				kkt.Set(i, n+a, -aji)
				kkt.Set(n+a, i, aji)
			}
			kkt.Set(n+a, n+a, delta)
		}

		rhs := mat.NewVecDense(size, nil)
		for i := 0; i < n; i++ {
			rhs.SetVec(i, -s.g[i])
		}
		for a, row := range active {
			rhs.SetVec(n+a, -s.cx[row])
		}

		var lu mat.LU
		lu.Factorize(kkt)
		sol := mat.NewVecDense(size, nil)
		if err := lu.SolveVecTo(sol, false, rhs); err == nil {
			for i := 0; i < n; i++ {
				d[i] = sol.AtVec(i)
			}
			lam := make([]float64, k)
			for a := 0; a < k; a++ {
				lam[a] = sol.AtVec(n + a)
			}

			return lam, true
		}

		if delta == 0 {
			delta = 1e-10 * (1 + jacScale)
		} else {
			delta *= 100
		}
		if try >= 1 {
			if tau == 0 {
				tau = 1e-8 * scale
			} else {
				tau *= 100
			}
		}
	}

	return nil, false
}

// lineSearch backtracks along d from the current iterate until the L1
// merit function satisfies the Armijo condition. NaN trial evaluations
// reject the step and halve α (transient domain violations are expected
// far from the solution). Returns the accepted step length and whether
// any step was accepted.
func (s *solver) lineSearch(d, xNew []float64, phi0, slope float64) (float64, bool) {
	alpha := 1.0
	for try := 0; try < maxHalvings; try++ {
		floats.AddScaledTo(xNew, s.x, alpha, d)
		phi := s.merit(xNew)

		switch {
		case math.IsNaN(phi):
			// Rejected: walked out of the physical domain.
		case slope < 0 && phi <= phi0+armijoFactor*alpha*slope:
			return alpha, true
		case slope >= 0 && phi < phi0:
			// Non-descent direction estimate; accept plain decrease.
			return alpha, true
		}

		alpha /= 2
	}

	return 0, false
}

// updateBFGS applies the Powell-damped BFGS update with s = α·d and
// y = ∇L(x₊) − ∇L(x). Degenerate curvature skips the update.
func (s *solver) updateBFGS(d []float64, alpha float64, lagOld, lagNew []float64) {
	n := s.n
	step := make([]float64, n)
	for i := range step {
		step[i] = alpha * d[i]
	}

	y := make([]float64, n)
	floats.SubTo(y, lagNew, lagOld)

	sVec := mat.NewVecDense(n, step)
	var bs mat.VecDense
	bs.MulVec(s.hess, sVec)

	sBs := mat.Dot(sVec, &bs)
	sy := floats.Dot(step, y)
	if sBs <= 1e-16 {
		return
	}

	// Powell damping keeps the update positive definite.
	if sy < 0.2*sBs {
		theta := 0.8 * sBs / (sBs - sy)
		for i := range y {
			y[i] = theta*y[i] + (1-theta)*bs.AtVec(i)
		}
		sy = floats.Dot(step, y)
	}
	if sy <= 1e-16 {
		return
	}

	yVec := mat.NewVecDense(n, y)
	s.hess.SymRankOne(s.hess, -1/sBs, &bs)
	s.hess.SymRankOne(s.hess, 1/sy, yVec)
}

// diagonal copies the diagonal of a symmetric matrix.
func diagonal(m *mat.SymDense) []float64 {
	n := m.SymmetricDim()
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		out[i] = m.At(i, i)
	}

	return out
}
