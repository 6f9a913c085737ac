package metrics_test

import (
	"context"
	"io"
	"math"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/metrics"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/solution"
)

func TestObserveSolve(t *testing.T) {
	c := metrics.NewCollector("", false)
	diag := solution.Diagnostics{
		Algorithm:        solution.AlgorithmSimplex,
		Iterations:       7,
		Refactorizations: 2,
		Warnings:         []solution.NumericalWarning{{Kind: solution.RefactorForced}},
	}
	c.ObserveSolve(engine.Simplex, solution.Optimal, diag, 3*time.Millisecond)
	c.ObserveSolve(engine.Simplex, solution.Infeasible, diag, time.Millisecond)

	require.Equal(t, 1.0, testutil.ToFloat64(c.Solves.WithLabelValues("simplex", "simplex", "Optimal")))
	require.Equal(t, 1.0, testutil.ToFloat64(c.Solves.WithLabelValues("simplex", "simplex", "Infeasible")))
	require.Equal(t, 4.0, testutil.ToFloat64(c.Refactorizations))
	require.Equal(t, 2.0, testutil.ToFloat64(c.Warnings.WithLabelValues("RefactorForced")))
	require.Equal(t, 1, testutil.CollectAndCount(c.Duration))
}

func TestCollectorAsEngineRecorder(t *testing.T) {
	c := metrics.NewCollector("plant", true)
	p := model.NewProblem()
	x, _ := p.AddVariable(0, math.Inf(1), 2)
	_, _ = p.AddConstraintTerms([]model.Term{{Var: x, Coef: 1}}, model.GreaterEq, 10)

	for i := 0; i < 3; i++ {
		_, err := engine.Solve(context.Background(), p, engine.WithRecorder(c))
		require.NoError(t, err)
	}
	require.Equal(t, 3.0, testutil.ToFloat64(c.Solves.WithLabelValues("simplex", "simplex", "Optimal")))

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), `plant_solves_total{algorithm="simplex",status="Optimal",strategy="simplex"} 3`)
	require.Contains(t, string(body), "plant_solve_iterations_bucket")
	require.Contains(t, string(body), "go_goroutines")
}
