package interior

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/balance/matrix"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/simplex"
	"github.com/katalvlaran/balance/solution"
)

// Result is the terminal state of an interior-point run in standard-form space.
//   - X is the final primal point when Status is Optimal.
//   - Y and S are the matching dual multipliers and dual slacks.
//   - Basis and Crossover are set only when crossover ran; in that case
//     Status, X and Objective are the vertex reported by simplex.
type Result struct {
	Status         solution.Status
	X, Y, S        []float64
	Objective      float64
	Basis          []int
	Iterations     int
	PrimalResidual float64
	DualResidual   float64
	Gap            float64
	Warnings       []solution.NumericalWarning
	Crossover      *simplex.Result
}

// Maximum regularization attempts on a failed Cholesky factorization.
const maxRegularize = 8

// errBreakdown marks a normal matrix that cannot be factorized; the run is
// then classified from its residuals instead of failing.
var errBreakdown = errors.New("interior: factorization breakdown")

// ipm carries the working state of a single run.
type ipm struct {
	ctx      context.Context
	sf       *model.StandardForm
	opts     Options
	log      *slog.Logger
	deadline time.Time

	m, n        int
	x, y, s     []float64
	bNorm       float64
	cNorm       float64
	rpHist      []float64
	rdHist      []float64
	regularized int
	warnings    []solution.NumericalWarning

	normal []float64 // m×m backing of A·D·Aᵀ
}

// Solve runs the primal-dual path-following method on sf.
//
// Implementation:
//   - Stage 1: infeasible start x = max(1,‖b‖∞), s = max(1,‖c‖∞), y = 0.
//   - Stage 2: per iteration, reduce the Newton system to the normal
//     equations (A·D·Aᵀ)Δy = rp + A(D·rd − S⁻¹·rc) with D = X·S⁻¹ and solve
//     by Cholesky, adding a diagonal shift when the factorization fails.
//   - Stage 3: step with the fraction-to-boundary rule on x and s.
//   - Stage 4: optional crossover to a simplex vertex.
//
// Termination is Optimal when the relative gap and both relative residuals
// fall below Tolerance. Stalled residuals or diverging iterates end the run
// as Unbounded when the primal iterate is feasible or has run off along a
// ray with Ad ≈ 0 and cᵀd < 0, and as Infeasible otherwise.
//
// Complexity: O(Σ_j nnz_j² + m³) per iteration. The normal matrix is held
// as a dense m×m buffer, so memory grows as O(m²) regardless of the density
// of A; rows in the low thousands are the practical ceiling.
//
// Errors: ErrNilForm, ErrInvalidOptions, ErrNumerical; crossover errors
// from simplex are returned wrapped.
func Solve(ctx context.Context, sf *model.StandardForm, opts Options) (*Result, error) {
	if sf == nil {
		return nil, ErrNilForm
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	ip := &ipm{
		ctx:   ctx,
		sf:    sf,
		opts:  opts,
		log:   opts.Logger,
		m:     sf.NumRows(),
		n:     sf.NumCols(),
		bNorm: matrix.NormInf(sf.B),
		cNorm: matrix.NormInf(sf.C),
	}
	if opts.TimeLimit > 0 {
		ip.deadline = time.Now().Add(opts.TimeLimit)
	}

	var (
		res *Result
		err error
	)
	if ip.m == 0 {
		res = ip.solveNoRows()
	} else if res, err = ip.run(); err != nil {
		return nil, err
	}
	ip.log.Debug("interior: finished", "status", res.Status, "iterations", res.Iterations,
		"gap", res.Gap, "primal_residual", res.PrimalResidual, "dual_residual", res.DualResidual)

	if opts.Crossover && res.Status == solution.Optimal {
		if err = crossover(ctx, sf, res, opts); err != nil {
			return nil, err
		}
	}

	return res, nil
}

func (ip *ipm) solveNoRows() *Result {
	for _, c := range ip.sf.C {
		if c < -ip.opts.Tolerance {
			return &Result{Status: solution.Unbounded}
		}
	}
	x := make([]float64, ip.n)

	return &Result{
		Status:    solution.Optimal,
		X:         x,
		Y:         []float64{},
		S:         append([]float64(nil), ip.sf.C...),
		Objective: ip.sf.Objective(x),
	}
}

func (ip *ipm) start() {
	x0 := math.Max(1, ip.bNorm)
	s0 := math.Max(1, ip.cNorm)
	ip.x = make([]float64, ip.n)
	ip.s = make([]float64, ip.n)
	ip.y = make([]float64, ip.m)
	for j := range ip.x {
		ip.x[j] = x0
		ip.s[j] = s0
	}
	ip.normal = make([]float64, ip.m*ip.m)
}

// residuals returns rp = b − Ax and rd = c − Aᵀy − s.
func (ip *ipm) residuals() (rp, rd []float64, err error) {
	if rp, err = matrix.Residual(ip.sf.A, ip.x, ip.sf.B); err != nil {
		return nil, nil, err
	}
	aty, err := ip.sf.A.MulTransVec(ip.y)
	if err != nil {
		return nil, nil, err
	}
	rd = make([]float64, ip.n)
	for j := range rd {
		rd[j] = ip.sf.C[j] - aty[j] - ip.s[j]
	}

	return rp, rd, nil
}

func (ip *ipm) run() (*Result, error) {
	ip.start()
	tol := ip.opts.Tolerance
	for k := 0; ; k++ {
		rp, rd, err := ip.residuals()
		if err != nil {
			return nil, fmt.Errorf("residuals: %v: %w", err, ErrNumerical)
		}
		mu := matrix.Dot(ip.x, ip.s) / float64(ip.n)
		pObj := matrix.Dot(ip.sf.C, ip.x)
		rpRel := matrix.NormInf(rp) / (1 + ip.bNorm)
		rdRel := matrix.NormInf(rd) / (1 + ip.cNorm)
		gapRel := mu / (1 + math.Abs(pObj))
		ip.rpHist = append(ip.rpHist, rpRel)
		ip.rdHist = append(ip.rdHist, rdRel)

		finish := func(st solution.Status) *Result {
			return ip.result(st, k, rpRel, rdRel, gapRel)
		}

		if rpRel < tol && rdRel < tol && gapRel < tol {
			return finish(solution.Optimal), nil
		}
		if math.IsNaN(mu) || math.IsNaN(rpRel) || math.IsNaN(rdRel) {
			return finish(ip.classify(k, "non-finite iterate", rp, rpRel, rdRel, gapRel)), nil
		}
		if st, stop := ip.interrupted(); stop {
			return finish(st), nil
		}
		if k >= ip.opts.MaxIterations {
			return finish(solution.IterationLimitExceeded), nil
		}
		if matrix.NormInf(ip.x) > ip.opts.DivergenceLimit || matrix.NormInf(ip.y) > ip.opts.DivergenceLimit {
			return finish(ip.classify(k, "diverging iterates", rp, rpRel, rdRel, gapRel)), nil
		}
		if ip.stalled(k, rpRel, rdRel) {
			return finish(ip.classify(k, "stalled residuals", rp, rpRel, rdRel, gapRel)), nil
		}

		sigma := math.Max(ip.opts.SigmaMin, ip.opts.Sigma0*math.Pow(ip.opts.SigmaDecay, float64(k)))
		err = ip.step(k, rp, rd, sigma*mu)
		if errors.Is(err, errBreakdown) {
			return finish(ip.classify(k, err.Error(), rp, rpRel, rdRel, gapRel)), nil
		}
		if err != nil {
			return nil, err
		}
	}
}

// stalled reports a residual above tolerance that shrank by less than
// StallFactor over the last StallWindow iterations.
func (ip *ipm) stalled(k int, rpRel, rdRel float64) bool {
	w := ip.opts.StallWindow
	if k < w {
		return false
	}
	tol, f := ip.opts.Tolerance, ip.opts.StallFactor

	return (rpRel > tol && rpRel > f*ip.rpHist[k-w]) || (rdRel > tol && rdRel > f*ip.rdHist[k-w])
}

// classify turns a failed run into a status. A run that stops within √tol of
// optimality is accepted with a ToleranceNearViolated warning.
func (ip *ipm) classify(k int, why string, rp []float64, rpRel, rdRel, gapRel float64) solution.Status {
	loose := math.Sqrt(ip.opts.Tolerance)
	switch {
	case rpRel <= loose && rdRel <= loose && gapRel <= loose:
		ip.warn(solution.ToleranceNearViolated, k, fmt.Sprintf("%s near optimum: rp %.3g rd %.3g gap %.3g", why, rpRel, rdRel, gapRel))
		return solution.Optimal
	case rpRel <= loose, ip.ray(rp, loose):
		ip.log.Debug("interior: unbounded", "reason", why, "iteration", k)
		return solution.Unbounded
	default:
		ip.log.Debug("interior: infeasible", "reason", why, "iteration", k)
		return solution.Infeasible
	}
}

// ray reports whether x has grown along a direction d ≥ 0 with Ad ≈ 0 and
// cᵀd < 0. Residuals are measured against ‖x‖∞, since rounding in Ax grows
// with the iterate and dwarfs 1+‖b‖∞ once x diverges.
func (ip *ipm) ray(rp []float64, loose float64) bool {
	xNorm := matrix.NormInf(ip.x)
	if xNorm <= 1+ip.bNorm || ip.cNorm == 0 {
		return false
	}
	ax := 0.0
	for i, r := range rp {
		ax = math.Max(ax, math.Abs(ip.sf.B[i]-r))
	}
	if matrix.NormInf(rp)/(1+xNorm) > loose || ax/xNorm > loose {
		return false
	}

	return matrix.Dot(ip.sf.C, ip.x) < -loose*ip.cNorm*xNorm
}

// step computes the Newton direction for the target σμ and moves the iterate.
func (ip *ipm) step(k int, rp, rd []float64, target float64) error {
	a := ip.sf.A
	d := make([]float64, ip.n)
	w := make([]float64, ip.n)
	rc := make([]float64, ip.n)
	for j := range d {
		d[j] = ip.x[j] / ip.s[j]
		rc[j] = target - ip.x[j]*ip.s[j]
		w[j] = d[j]*rd[j] - rc[j]/ip.s[j]
	}
	aw, err := a.MulVec(w)
	if err != nil {
		return fmt.Errorf("newton rhs: %v: %w", err, ErrNumerical)
	}
	rhs := make([]float64, ip.m)
	for i := range rhs {
		rhs[i] = rp[i] + aw[i]
	}

	chol, err := ip.factorNormal(k, d)
	if err != nil {
		return err
	}
	dyData := make([]float64, ip.m)
	dy := mat.NewVecDense(ip.m, dyData)
	if err = chol.SolveVecTo(dy, mat.NewVecDense(ip.m, rhs)); err != nil {
		// A Condition error still leaves the solution in dy.
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return fmt.Errorf("normal equations at iteration %d: %v: %w", k, err, ErrNumerical)
		}
		if ip.regularized == 0 {
			ip.warn(solution.RegularizedFactorization, k, fmt.Sprintf("normal equations condition %.3g", float64(cond)))
		}
		ip.regularized++
	}
	for _, v := range dyData {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("iteration %d: non-finite direction: %w", k, errBreakdown)
		}
	}

	atdy, err := a.MulTransVec(dyData)
	if err != nil {
		return fmt.Errorf("newton step: %v: %w", err, ErrNumerical)
	}
	dx := make([]float64, ip.n)
	ds := make([]float64, ip.n)
	for j := range dx {
		ds[j] = rd[j] - atdy[j]
		dx[j] = rc[j]/ip.s[j] - d[j]*ds[j]
	}

	alphaP := ip.stepLength(ip.x, dx)
	alphaD := ip.stepLength(ip.s, ds)
	matrix.Axpy(ip.x, alphaP, dx)
	matrix.Axpy(ip.s, alphaD, ds)
	matrix.Axpy(ip.y, alphaD, dyData)

	return nil
}

// stepLength returns min(1, StepFraction·max{α : v + α·dv ≥ 0}).
func (ip *ipm) stepLength(v, dv []float64) float64 {
	alpha := math.Inf(1)
	for j, dj := range dv {
		if dj < 0 {
			alpha = math.Min(alpha, -v[j]/dj)
		}
	}

	return math.Min(1, ip.opts.StepFraction*alpha)
}

// factorNormal forms A·D·Aᵀ and factorizes it. A failed or numerically
// singular factorization (redundant rows, D spanning many magnitudes) is
// retried with the diagonal shifted by a growing multiple of its largest
// entry.
func (ip *ipm) factorNormal(k int, d []float64) (*mat.Cholesky, error) {
	buf := ip.normal
	for i := range buf {
		buf[i] = 0
	}
	m := ip.m
	for j := 0; j < ip.n; j++ {
		rows, vals := ip.sf.A.Col(j)
		for p, ri := range rows {
			v := d[j] * vals[p]
			for q, rk := range rows {
				buf[ri*m+rk] += v * vals[q]
			}
		}
	}
	for _, v := range buf {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, fmt.Errorf("iteration %d: non-finite normal matrix: %w", k, errBreakdown)
		}
	}
	sym := mat.NewSymDense(m, buf)

	var chol mat.Cholesky
	if factorized(&chol, sym) {
		return &chol, nil
	}

	maxDiag := 0.0
	for i := 0; i < m; i++ {
		maxDiag = math.Max(maxDiag, math.Abs(sym.At(i, i)))
	}
	shift := 1e-12 * (1 + maxDiag)
	for attempt := 0; attempt < maxRegularize; attempt++ {
		for i := 0; i < m; i++ {
			sym.SetSym(i, i, sym.At(i, i)+shift)
		}
		if factorized(&chol, sym) {
			if ip.regularized == 0 {
				ip.warn(solution.RegularizedFactorization, k, fmt.Sprintf("diagonal shift %.3g", shift))
			}
			ip.regularized++
			return &chol, nil
		}
		shift *= 100
	}

	return nil, fmt.Errorf("iteration %d: normal matrix not positive definite: %w", k, errBreakdown)
}

func factorized(chol *mat.Cholesky, sym *mat.SymDense) bool {
	return chol.Factorize(sym) && chol.Cond() <= mat.ConditionTolerance
}

func (ip *ipm) interrupted() (solution.Status, bool) {
	if err := ip.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return solution.TimedOut, true
		}
		return solution.Cancelled, true
	}
	if !ip.deadline.IsZero() && time.Now().After(ip.deadline) {
		return solution.TimedOut, true
	}

	return 0, false
}

func (ip *ipm) warn(kind solution.WarningKind, k int, detail string) {
	ip.warnings = append(ip.warnings, solution.NumericalWarning{Kind: kind, Iteration: k, Detail: detail})
}

func (ip *ipm) result(st solution.Status, k int, rpRel, rdRel, gapRel float64) *Result {
	res := &Result{
		Status:         st,
		Iterations:     k,
		PrimalResidual: rpRel,
		DualResidual:   rdRel,
		Gap:            gapRel,
		Warnings:       ip.warnings,
	}
	if st != solution.Optimal {
		return res
	}
	x := make([]float64, ip.n)
	for j, v := range ip.x {
		x[j] = math.Max(v, 0)
	}
	res.X = x
	res.Y = append([]float64(nil), ip.y...)
	res.S = append([]float64(nil), ip.s...)
	res.Objective = ip.sf.Objective(x)

	return res
}
