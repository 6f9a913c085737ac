package simplex_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/simplex"
	"github.com/katalvlaran/balance/solution"
	"github.com/stretchr/testify/require"
)

const eps = 1e-7

var inf = math.Inf(1)

// solveProblem builds p and runs simplex with opts.
func solveProblem(t *testing.T, p *model.Problem, opts simplex.Options) (*model.StandardForm, *simplex.Result) {
	t.Helper()
	sf, err := p.Build()
	require.NoError(t, err)
	res, err := simplex.Solve(context.Background(), sf, opts)
	require.NoError(t, err)

	return sf, res
}

func row(p *model.Problem, rel model.Relation, rhs float64, terms ...model.Term) {
	if _, err := p.AddConstraintTerms(terms, rel, rhs); err != nil {
		panic(err)
	}
}

// TestSingleProductScenario: min 2x, x ≥ 10, x ≤ 100 → x = 10, objective 20.
func TestSingleProductScenario(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, inf, 2)
	row(p, model.GreaterEq, 10, model.Term{Var: x, Coef: 1})
	row(p, model.LessEq, 100, model.Term{Var: x, Coef: 1})

	sf, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Optimal, res.Status)
	require.InDelta(t, 20, res.Objective, eps)
	require.InDelta(t, 10, sf.Recover(res.X)[x], eps)
	require.Positive(t, res.Phase1Iterations)
	require.Len(t, res.Basis, 2)
}

// TestInfeasible: x ≤ 1 and x ≥ 2.
func TestInfeasible(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, inf, 1)
	row(p, model.LessEq, 1, model.Term{Var: x, Coef: 1})
	row(p, model.GreaterEq, 2, model.Term{Var: x, Coef: 1})

	_, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Infeasible, res.Status)
	require.Nil(t, res.X)
}

// TestTwoProductsInfeasible: x1 ≥ 30, x2 ≥ 30, x1 + x2 ≤ 50.
func TestTwoProductsInfeasible(t *testing.T) {
	p := model.NewProblem()
	x1, _ := p.AddVariable(0, inf, 3)
	x2, _ := p.AddVariable(0, inf, 5)
	row(p, model.LessEq, 50, model.Term{Var: x1, Coef: 1}, model.Term{Var: x2, Coef: 1})
	row(p, model.GreaterEq, 30, model.Term{Var: x1, Coef: 1})
	row(p, model.GreaterEq, 30, model.Term{Var: x2, Coef: 1})

	_, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Infeasible, res.Status)
}

// TestUnbounded: maximize x with x ≥ 0 and nothing binding.
func TestUnbounded(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, inf, 1)
	y, _ := p.AddVariable(0, inf, 0)
	row(p, model.LessEq, 5, model.Term{Var: y, Coef: 1})
	row(p, model.GreaterEq, 1, model.Term{Var: x, Coef: 1})
	p.SetObjectiveDirection(model.Maximize)

	_, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Unbounded, res.Status)
}

// TestNoRows covers problems whose standard form has no constraints.
func TestNoRows(t *testing.T) {
	p := model.NewProblem()
	_, _ = p.AddVariable(1, inf, 2)
	sf, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Optimal, res.Status)
	require.Equal(t, []float64{1}, sf.Recover(res.X))
	require.InDelta(t, 2, res.Objective, eps)

	q := model.NewProblem()
	_, _ = q.AddVariable(0, inf, -1)
	_, res = solveProblem(t, q, simplex.DefaultOptions())
	require.Equal(t, solution.Unbounded, res.Status)
}

// TestMaximizeWithBound: max 3x + 2y, x + y ≤ 4, x + 3y ≤ 6, 0 ≤ x ≤ 3.
func TestMaximizeWithBound(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, 3, 3)
	y, _ := p.AddVariable(0, inf, 2)
	row(p, model.LessEq, 4, model.Term{Var: x, Coef: 1}, model.Term{Var: y, Coef: 1})
	row(p, model.LessEq, 6, model.Term{Var: x, Coef: 1}, model.Term{Var: y, Coef: 3})
	p.SetObjectiveDirection(model.Maximize)

	sf, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Optimal, res.Status)
	require.Zero(t, res.Phase1Iterations)
	require.InDelta(t, 11, sf.OriginalObjective(res.Objective), eps)
	require.InDeltaSlice(t, []float64{3, 1}, sf.Recover(res.X), eps)
}

// TestFreeVariable: min x with x free and x ≥ −5 as a row.
func TestFreeVariable(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(-inf, inf, 1)
	row(p, model.GreaterEq, -5, model.Term{Var: x, Coef: 1})

	sf, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Optimal, res.Status)
	require.InDelta(t, -5, sf.Recover(res.X)[x], eps)
	require.InDelta(t, -5, res.Objective, eps)
}

// TestRedundantEquality keeps an artificial for a dependent row.
func TestRedundantEquality(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, inf, 1)
	y, _ := p.AddVariable(0, inf, 2)
	row(p, model.Equal, 2, model.Term{Var: x, Coef: 1}, model.Term{Var: y, Coef: 1})
	row(p, model.Equal, 4, model.Term{Var: x, Coef: 2}, model.Term{Var: y, Coef: 2})

	sf, res := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Optimal, res.Status)
	require.InDeltaSlice(t, []float64{2, 0}, sf.Recover(res.X), eps)
	require.Contains(t, res.Basis, -1)
}

// beale builds Beale's classic cycling example; its optimum is −5/4.
func beale() *model.Problem {
	p := model.NewProblem()
	x4, _ := p.AddVariable(0, inf, -0.75)
	x5, _ := p.AddVariable(0, inf, 20)
	x6, _ := p.AddVariable(0, inf, -0.5)
	x7, _ := p.AddVariable(0, inf, 6)
	row(p, model.LessEq, 0,
		model.Term{Var: x4, Coef: 0.25}, model.Term{Var: x5, Coef: -8},
		model.Term{Var: x6, Coef: -1}, model.Term{Var: x7, Coef: 9})
	row(p, model.LessEq, 0,
		model.Term{Var: x4, Coef: 0.5}, model.Term{Var: x5, Coef: -12},
		model.Term{Var: x6, Coef: -0.5}, model.Term{Var: x7, Coef: 3})
	row(p, model.LessEq, 1, model.Term{Var: x6, Coef: 1})

	return p
}

// TestBealeTerminates runs the cycling example under several Bland thresholds.
func TestBealeTerminates(t *testing.T) {
	for _, after := range []int{1, 5, simplex.DefaultBlandAfter} {
		opts := simplex.DefaultOptions()
		opts.BlandAfter = after
		_, res := solveProblem(t, beale(), opts)
		require.Equal(t, solution.Optimal, res.Status, "BlandAfter=%d", after)
		require.InDelta(t, -1.25, res.Objective, eps, "BlandAfter=%d", after)
	}
}

// TestIterationLimit stops after the first pivot.
func TestIterationLimit(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, 3, 3)
	y, _ := p.AddVariable(0, inf, 2)
	row(p, model.LessEq, 4, model.Term{Var: x, Coef: 1}, model.Term{Var: y, Coef: 1})
	p.SetObjectiveDirection(model.Maximize)

	opts := simplex.DefaultOptions()
	opts.MaxIterations = 1
	_, res := solveProblem(t, p, opts)
	require.Equal(t, solution.IterationLimitExceeded, res.Status)
	require.Equal(t, 1, res.Iterations)
	require.NotNil(t, res.X)
}

// TestCancelledAndTimedOut checks the context is honoured before any pivot.
func TestCancelledAndTimedOut(t *testing.T) {
	sf, err := beale().Build()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res, err := simplex.Solve(ctx, sf, simplex.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, solution.Cancelled, res.Status)

	dctx, dcancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer dcancel()
	res, err = simplex.Solve(dctx, sf, simplex.DefaultOptions())
	require.NoError(t, err)
	require.Equal(t, solution.TimedOut, res.Status)
}

// TestWarmStart re-solves from the optimal basis without pivoting and
// rejects a malformed hint with a warning.
func TestWarmStart(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, inf, 3)
	y, _ := p.AddVariable(0, inf, 5)
	row(p, model.GreaterEq, 45, model.Term{Var: x, Coef: 1}, model.Term{Var: y, Coef: 1})
	row(p, model.LessEq, 30, model.Term{Var: x, Coef: 1})

	sf, first := solveProblem(t, p, simplex.DefaultOptions())
	require.Equal(t, solution.Optimal, first.Status)
	require.InDelta(t, 165, first.Objective, eps)

	opts := simplex.DefaultOptions()
	opts.InitialBasis = first.Basis
	res, err := simplex.Solve(context.Background(), sf, opts)
	require.NoError(t, err)
	require.Equal(t, solution.Optimal, res.Status)
	require.Zero(t, res.Iterations)
	require.Empty(t, res.Warnings)
	require.InDelta(t, first.Objective, res.Objective, eps)

	opts.InitialBasis = []int{0}
	res, err = simplex.Solve(context.Background(), sf, opts)
	require.NoError(t, err)
	require.Equal(t, solution.Optimal, res.Status)
	require.Len(t, res.Warnings, 1)
	require.Equal(t, solution.WarmStartRejected, res.Warnings[0].Kind)
}

// TestFrequentRefactorization gives the same optimum with RefactorEvery = 1.
func TestFrequentRefactorization(t *testing.T) {
	opts := simplex.DefaultOptions()
	opts.RefactorEvery = 1
	_, res := solveProblem(t, beale(), opts)
	require.Equal(t, solution.Optimal, res.Status)
	require.InDelta(t, -1.25, res.Objective, eps)
	require.Positive(t, res.Refactorizations)
}

// sevenths: a dense maximization whose coefficients are not exact in
// binary, so pivots leave small residuals in B·x_B − b.
func sevenths() *model.Problem {
	const rows, cols = 6, 8
	p := model.NewProblem()
	vars := make([]model.VariableID, cols)
	for j := range vars {
		vars[j], _ = p.AddVariable(0, inf, 0.3+float64((j*3)%8)/3)
	}
	for i := 0; i < rows; i++ {
		terms := make([]model.Term, cols)
		for j, v := range vars {
			terms[j] = model.Term{Var: v, Coef: 0.1 + float64((i*5+j*3)%11)/7}
		}
		row(p, model.LessEq, 1+1.3*float64(i), terms...)
	}
	p.SetObjectiveDirection(model.Maximize)

	return p
}

// TestDriftForcesRefactorization lowers DriftTolerance until any residual
// left by a pivot refactorizes the basis.
func TestDriftForcesRefactorization(t *testing.T) {
	_, base := solveProblem(t, sevenths(), simplex.DefaultOptions())
	require.Equal(t, solution.Optimal, base.Status)

	opts := simplex.DefaultOptions()
	opts.DriftTolerance = math.SmallestNonzeroFloat64
	_, res := solveProblem(t, sevenths(), opts)
	require.Equal(t, solution.Optimal, res.Status)
	require.InDelta(t, base.Objective, res.Objective, eps)
	require.Positive(t, res.Refactorizations)

	kinds := make([]solution.WarningKind, 0, len(res.Warnings))
	for _, w := range res.Warnings {
		kinds = append(kinds, w.Kind)
	}
	require.Contains(t, kinds, solution.RefactorForced)
}

// TestInvalidOptions rejects out-of-range values.
func TestInvalidOptions(t *testing.T) {
	sf, err := beale().Build()
	require.NoError(t, err)

	opts := simplex.DefaultOptions()
	opts.MaxIterations = -1
	_, err = simplex.Solve(context.Background(), sf, opts)
	require.ErrorIs(t, err, simplex.ErrInvalidOptions)

	_, err = simplex.Solve(context.Background(), nil, simplex.DefaultOptions())
	require.ErrorIs(t, err, simplex.ErrNilForm)
}

// TestFactorBasis validates basis shape before factorizing.
func TestFactorBasis(t *testing.T) {
	sf, err := beale().Build()
	require.NoError(t, err)

	_, err = simplex.FactorBasis(sf, []int{4, 5})
	require.ErrorIs(t, err, simplex.ErrInvalidBasis)
	_, err = simplex.FactorBasis(sf, []int{4, 4, 6})
	require.ErrorIs(t, err, simplex.ErrInvalidBasis)

	lu, err := simplex.FactorBasis(sf, []int{4, 5, -1})
	require.NoError(t, err)
	require.Equal(t, 3, lu.Order())
}

// TestBasisMatrix lays basis columns out densely by position.
func TestBasisMatrix(t *testing.T) {
	sf, err := beale().Build()
	require.NoError(t, err)

	b, err := simplex.BasisMatrix(sf, []int{0, 5, -1})
	require.NoError(t, err)
	require.Equal(t, 3, b.Rows())
	want := [][]float64{{0.25, 0, 0}, {0.5, 1, 0}, {0, 0, 1}}
	for i, row := range want {
		for j, v := range row {
			got, err := b.At(i, j)
			require.NoError(t, err)
			require.Equal(t, v, got, "B[%d,%d]", i, j)
		}
	}

	_, err = simplex.BasisMatrix(sf, []int{0, 0, 1})
	require.ErrorIs(t, err, simplex.ErrInvalidBasis)
	_, err = simplex.BasisMatrix(nil, nil)
	require.ErrorIs(t, err, simplex.ErrNilForm)
}
