package engine_test

import (
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/model"
)

// randomPlan builds a dense production LP with n products and m resources:
// maximize Σ p_j x_j subject to Σ a_ij x_j ≤ cap_i. Feasible (x = 0) and
// bounded (every a_ij > 0).
func randomPlan(n, m int, seed int64) *model.Problem {
	rng := rand.New(rand.NewSource(seed))
	p := model.NewProblem()
	vars := make([]model.VariableID, n)
	for j := range vars {
		vars[j], _ = p.AddVariable(0, math.Inf(1), 1+rng.Float64()*9)
	}
	for i := 0; i < m; i++ {
		terms := make([]model.Term, n)
		for j, v := range vars {
			terms[j] = model.Term{Var: v, Coef: 0.5 + rng.Float64()}
		}
		_, _ = p.AddConstraintTerms(terms, model.LessEq, 100+rng.Float64()*900)
	}
	p.SetObjectiveDirection(model.Maximize)

	return p
}

func benchmarkStrategy(b *testing.B, s engine.Strategy) {
	p := randomPlan(60, 40, 1)
	ctx := context.Background()
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Solve(ctx, p, engine.WithStrategy(s)); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSolveSimplex(b *testing.B)  { benchmarkStrategy(b, engine.Simplex) }
func BenchmarkSolveInterior(b *testing.B) { benchmarkStrategy(b, engine.InteriorPoint) }

func BenchmarkSolveAll(b *testing.B) {
	problems := make([]*model.Problem, 16)
	for i := range problems {
		problems[i] = randomPlan(30, 20, int64(i))
	}
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.SolveAll(ctx, problems); err != nil {
			b.Fatal(err)
		}
	}
}
