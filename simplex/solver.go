package simplex

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/balance/matrix"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/solution"
)

// Result is the terminal state of a run in standard-form space.
//   - X, Duals and ReducedCosts are set when a feasible point exists
//     (Optimal, or Phase 2 interrupted by a limit).
//   - Basis is the final basis (−1 for a redundant row's artificial) when
//     Status is Optimal.
//   - Objective is the internal minimization objective C·x + ObjOffset.
type Result struct {
	Status           solution.Status
	X                []float64
	Objective        float64
	Basis            []int
	Duals            []float64
	ReducedCosts     []float64
	Iterations       int
	Phase1Iterations int
	Refactorizations int
	Warnings         []solution.NumericalWarning
}

// solver carries the state of a single run; nothing is shared between runs.
type solver struct {
	ctx      context.Context
	sf       *model.StandardForm
	opts     Options
	tol      matrix.Tolerance
	log      *slog.Logger
	deadline time.Time
	maxIter  int

	n, m int
	bs   *Basis
	cost []float64 // phase costs for structural columns
	art  float64   // phase cost of artificial columns

	iter, phase1Iter, refactors int
	degenerateRun               int
	warnings                    []solution.NumericalWarning

	scratch []float64
}

// Solve runs the two-phase revised simplex method on sf.
//
// Implementation:
//   - Stage 1: initial basis from the warm-start hint or from slack columns,
//     with an artificial unit column for every row lacking one.
//   - Stage 2: Phase 1 minimizes the sum of artificials; a positive optimum
//     means Infeasible. Basic artificials at zero are pivoted out; a row
//     where none can leave is redundant and keeps its artificial fixed at 0.
//   - Stage 3: Phase 2 minimizes C from the feasible basis.
//
// Each iteration prices with Dantzig's rule (Bland's rule after BlandAfter
// consecutive degenerate pivots, until a non-degenerate one), runs a ratio
// test with ties broken by the smallest basic column index, and updates the
// eta file. The basis is refactorized every RefactorEvery updates and
// whenever the primal residual drifts past DriftTolerance.
//
// Cancellation and the time limit are checked at every iteration boundary
// and surface as Cancelled / TimedOut, never as errors.
//
// Errors: ErrNilForm, ErrInvalidOptions, ErrNumerical.
func Solve(ctx context.Context, sf *model.StandardForm, opts Options) (*Result, error) {
	if sf == nil {
		return nil, ErrNilForm
	}
	opts = opts.withDefaults()
	if err := opts.validate(); err != nil {
		return nil, err
	}
	s := &solver{
		ctx:     ctx,
		sf:      sf,
		opts:    opts,
		tol:     matrix.NewTolerance(opts.Tolerance),
		log:     opts.Logger,
		n:       sf.NumCols(),
		m:       sf.NumRows(),
		scratch: make([]float64, sf.NumRows()),
	}
	s.maxIter = opts.MaxIterations
	if s.maxIter == 0 {
		s.maxIter = IterationFactor * (s.m + s.n)
	}
	if opts.TimeLimit > 0 {
		s.deadline = time.Now().Add(opts.TimeLimit)
	}

	if s.m == 0 {
		return s.solveNoRows(), nil
	}

	return s.solve()
}

// solveNoRows handles A with zero rows: x = 0 unless a cost is negative.
func (s *solver) solveNoRows() *Result {
	for _, c := range s.sf.C {
		if s.tol.IsNegative(c) {
			return &Result{Status: solution.Unbounded}
		}
	}
	x := make([]float64, s.n)

	return &Result{
		Status:       solution.Optimal,
		X:            x,
		Objective:    s.sf.Objective(x),
		Basis:        []int{},
		Duals:        []float64{},
		ReducedCosts: append([]float64(nil), s.sf.C...),
	}
}

func (s *solver) solve() (*Result, error) {
	if err := s.initialBasis(); err != nil {
		return nil, err
	}

	// Phase 1.
	if s.artificialSum() > s.feasibilityTol() {
		s.setPhase1Costs()
		s.log.Debug("simplex: phase 1", "rows", s.m, "cols", s.n)
		st, err := s.run(1)
		if err != nil {
			return nil, err
		}
		if st != solution.Optimal {
			return s.result(st, false), nil
		}
		if sum := s.artificialSum(); sum > s.feasibilityTol() {
			s.log.Debug("simplex: infeasible", "phase1_objective", sum)
			return s.result(solution.Infeasible, false), nil
		}
	}
	if err := s.driveOutArtificials(); err != nil {
		return nil, err
	}

	// Phase 2.
	s.cost = s.sf.C
	s.art = 0
	s.degenerateRun = 0
	s.log.Debug("simplex: phase 2", "phase1_iterations", s.phase1Iter)
	st, err := s.run(2)
	if err != nil {
		return nil, err
	}

	return s.result(st, true), nil
}

// initialBasis installs the warm-start hint when it is valid and feasible,
// otherwise the slack/artificial basis.
func (s *solver) initialBasis() error {
	if hint := s.opts.InitialBasis; hint != nil {
		reason := s.tryBasis(hint)
		if reason == "" {
			s.log.Debug("simplex: warm start accepted")
			return nil
		}
		s.warn(solution.WarmStartRejected, reason)
	}
	head := make([]int, s.m)
	for r, j := range s.sf.BasisCandidate {
		if j < 0 {
			j = s.n + r
		}
		head[r] = j
	}
	s.bs = newBasis(s.sf, head)
	if err := s.bs.refactor(); err != nil {
		return fmt.Errorf("initial basis: %v: %w", err, ErrNumerical)
	}

	return nil
}

// tryBasis returns "" on success or the reason for rejecting hint.
func (s *solver) tryBasis(hint []int) string {
	if len(hint) != s.m {
		return fmt.Sprintf("length %d, want %d", len(hint), s.m)
	}
	head := make([]int, s.m)
	seen := make(map[int]bool, s.m)
	for r, j := range hint {
		switch {
		case j == -1:
			head[r] = s.n + r
		case j < 0 || j >= s.n || seen[j]:
			return fmt.Sprintf("position %d: bad column %d", r, j)
		default:
			seen[j] = true
			head[r] = j
		}
	}
	bs := newBasis(s.sf, head)
	if err := bs.refactor(); err != nil {
		return fmt.Sprintf("singular: %v", err)
	}
	for r, v := range bs.xB {
		if v < -s.feasibilityTol() {
			return fmt.Sprintf("infeasible at position %d (%.3g)", r, v)
		}
	}
	s.bs = bs

	return ""
}

func (s *solver) setPhase1Costs() {
	s.cost = make([]float64, s.n)
	s.art = 1
}

// feasibilityTol scales Tolerance by the magnitude of b.
func (s *solver) feasibilityTol() float64 {
	return s.opts.Tolerance * (1 + matrix.NormInf(s.sf.B))
}

func (s *solver) artificialSum() float64 {
	var sum float64
	for r := range s.bs.head {
		if s.bs.isArtificial(r) {
			sum += math.Abs(s.bs.xB[r])
		}
	}

	return sum
}

// run iterates one phase until optimality, unboundedness or a limit.
func (s *solver) run(phase int) (solution.Status, error) {
	cB := make([]float64, s.m)
	for {
		if st, stop := s.interrupted(); stop {
			return st, nil
		}
		if s.iter >= s.maxIter {
			return solution.IterationLimitExceeded, nil
		}
		if s.bs.pf.Len() >= s.opts.RefactorEvery {
			if err := s.refactor(); err != nil {
				return 0, err
			}
		}

		for r, j := range s.bs.head {
			cB[r] = s.costOf(j)
		}
		y, err := s.bs.btran(cB)
		if err != nil {
			return 0, fmt.Errorf("btran: %v: %w", err, ErrNumerical)
		}
		q := s.price(y)
		if q < 0 {
			return solution.Optimal, nil
		}
		d, err := s.bs.ftran(q, s.scratch)
		if err != nil {
			return 0, fmt.Errorf("ftran: %v: %w", err, ErrNumerical)
		}
		r := s.ratio(d, phase)
		if r < 0 {
			if phase == 1 {
				return 0, fmt.Errorf("phase 1 ray at column %d: %w", q, ErrNumerical)
			}
			s.log.Debug("simplex: unbounded", "entering", q, "iteration", s.iter)
			return solution.Unbounded, nil
		}

		theta := 0.0
		if !s.bs.isArtificial(r) || phase == 1 {
			theta = math.Max(s.bs.xB[r], 0) / d[r]
		}
		if err = s.bs.pivot(r, q, d, theta); err != nil {
			return 0, fmt.Errorf("pivot: %v: %w", err, ErrNumerical)
		}
		s.iter++
		if phase == 1 {
			s.phase1Iter++
		}
		if theta <= float64(s.tol) {
			s.degenerateRun++
		} else {
			s.degenerateRun = 0
		}

		if drift := s.bs.residual(); drift > s.opts.DriftTolerance*(1+matrix.NormInf(s.sf.B)) {
			s.warn(solution.RefactorForced, fmt.Sprintf("residual %.3g", drift))
			if err = s.refactor(); err != nil {
				return 0, err
			}
		}
	}
}

func (s *solver) costOf(j int) float64 {
	if j >= s.n {
		return s.art
	}

	return s.cost[j]
}

// price returns the entering column or −1 at optimality. Artificial
// columns never enter.
func (s *solver) price(y []float64) int {
	bland := s.degenerateRun >= s.opts.BlandAfter
	best, bestD := -1, -float64(s.tol)
	for j := 0; j < s.n; j++ {
		if s.bs.pos[j] >= 0 {
			continue
		}
		dj := s.cost[j] - s.sf.A.ColDot(j, y)
		if dj < bestD {
			if bland {
				return j
			}
			best, bestD = j, dj
		}
	}

	return best
}

// ratio returns the leaving position or −1 when the column is a ray.
// In phase 2 a basic artificial is fixed at zero: any non-zero entry makes
// it leave with ratio 0.
func (s *solver) ratio(d []float64, phase int) int {
	tol := float64(s.tol)
	best, bestRatio := -1, math.Inf(1)
	for i, di := range d {
		var ratio float64
		if phase == 2 && s.bs.isArtificial(i) {
			if math.Abs(di) <= tol {
				continue
			}
		} else {
			if di <= tol {
				continue
			}
			ratio = math.Max(s.bs.xB[i], 0) / di
		}
		if best < 0 || ratio < bestRatio-tol ||
			(ratio <= bestRatio+tol && s.bs.head[i] < s.bs.head[best]) {
			best, bestRatio = i, ratio
		}
	}

	return best
}

// driveOutArtificials pivots basic artificials (at zero level) out of the
// basis using any structural column with a non-zero entry in their row.
func (s *solver) driveOutArtificials() error {
	e := make([]float64, s.m)
	for r := range s.bs.head {
		if !s.bs.isArtificial(r) {
			continue
		}
		e[r] = 1
		rho, err := s.bs.btran(e)
		e[r] = 0
		if err != nil {
			return fmt.Errorf("drive out: %v: %w", err, ErrNumerical)
		}
		q, bestAbs := -1, float64(s.tol)
		for j := 0; j < s.n; j++ {
			if s.bs.pos[j] >= 0 {
				continue
			}
			if a := math.Abs(s.sf.A.ColDot(j, rho)); a > bestAbs {
				q, bestAbs = j, a
			}
		}
		if q < 0 {
			s.log.Debug("simplex: redundant row keeps its artificial", "row", r)
			continue
		}
		d, err := s.bs.ftran(q, s.scratch)
		if err != nil {
			return fmt.Errorf("drive out: %v: %w", err, ErrNumerical)
		}
		if err = s.bs.pivot(r, q, d, 0); err != nil {
			return fmt.Errorf("drive out: %v: %w", err, ErrNumerical)
		}
	}

	return nil
}

func (s *solver) refactor() error {
	if err := s.bs.refactor(); err != nil {
		return fmt.Errorf("refactor at iteration %d: %v: %w", s.iter, err, ErrNumerical)
	}
	s.refactors++
	s.log.Debug("simplex: refactorized", "iteration", s.iter)

	return nil
}

func (s *solver) interrupted() (solution.Status, bool) {
	if err := s.ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return solution.TimedOut, true
		}
		return solution.Cancelled, true
	}
	if !s.deadline.IsZero() && time.Now().After(s.deadline) {
		return solution.TimedOut, true
	}

	return 0, false
}

func (s *solver) warn(kind solution.WarningKind, detail string) {
	s.warnings = append(s.warnings, solution.NumericalWarning{Kind: kind, Iteration: s.iter, Detail: detail})
}

// result packages the run. feasible marks a Phase-2 basis, whose point is reported.
func (s *solver) result(st solution.Status, feasible bool) *Result {
	res := &Result{
		Status:           st,
		Iterations:       s.iter,
		Phase1Iterations: s.phase1Iter,
		Refactorizations: s.refactors,
		Warnings:         s.warnings,
	}
	if !feasible || st == solution.Unbounded {
		return res
	}

	x := make([]float64, s.n)
	for r, j := range s.bs.head {
		if j < s.n {
			x[j] = math.Max(s.bs.xB[r], 0)
		}
	}
	res.X = x
	res.Objective = s.sf.Objective(x)

	cB := make([]float64, s.m)
	for r, j := range s.bs.head {
		if j < s.n {
			cB[r] = s.sf.C[j]
		}
	}
	if y, err := s.bs.btran(cB); err == nil {
		res.Duals = y
		res.ReducedCosts = make([]float64, s.n)
		for j := 0; j < s.n; j++ {
			if s.bs.pos[j] < 0 {
				res.ReducedCosts[j] = s.sf.C[j] - s.sf.A.ColDot(j, y)
			}
		}
	}
	if st == solution.Optimal {
		res.Basis = s.bs.Head()
	}

	return res
}
