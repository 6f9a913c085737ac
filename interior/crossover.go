package interior

import (
	"context"
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"

	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/simplex"
)

// independenceTol is the relative norm below which a candidate column is
// treated as lying in the span of the columns already chosen.
const independenceTol = 1e-8

// crossover replaces the interior point in res by a simplex vertex. The
// basis hint is rejected by simplex, with a warning, when it is not primal
// feasible; simplex then starts cold.
func crossover(ctx context.Context, sf *model.StandardForm, res *Result, opts Options) error {
	sopts := opts.Simplex
	if sopts.Logger == nil {
		sopts.Logger = opts.Logger
	}
	if sf.NumRows() > 0 {
		sopts.InitialBasis = VertexBasis(sf, res.X, res.S)
	}
	sres, err := simplex.Solve(ctx, sf, sopts)
	if err != nil {
		return fmt.Errorf("crossover: %w", err)
	}
	opts.Logger.Debug("interior: crossover", "status", sres.Status, "iterations", sres.Iterations)

	res.Crossover = sres
	res.Status = sres.Status
	res.Basis = sres.Basis
	res.Warnings = append(res.Warnings, sres.Warnings...)
	if sres.X != nil {
		res.X = sres.X
		res.Objective = sres.Objective
	}

	return nil
}

// VertexBasis picks a basis hint for simplex from an interior point.
//
// Columns are visited by decreasing x_j/s_j (ties by index) and accepted
// greedily when linearly independent of those already chosen. Rows left
// uncovered are completed with their slack column, or with −1 (the row's
// unit column) when the slack enters with sign −1 or is missing. The hint is
// confirmed by an LU factorization; nil is returned when it is singular.
//
// Complexity: O(n log n + n·m²).
func VertexBasis(sf *model.StandardForm, x, s []float64) []int {
	m, n := sf.NumRows(), sf.NumCols()
	if m == 0 || len(x) != n || len(s) != n {
		return nil
	}

	order := make([]int, n)
	score := make([]float64, n)
	for j := range order {
		order[j] = j
		score[j] = x[j] / math.Max(s[j], math.SmallestNonzeroFloat64)
	}
	slices.SortStableFunc(order, func(a, b int) int {
		switch {
		case score[a] > score[b]:
			return -1
		case score[a] < score[b]:
			return 1
		}
		return a - b
	})

	span := make([][]float64, 0, m)
	independent := func(v []float64) bool {
		norm := floats.Norm(v, 2)
		if norm == 0 {
			return false
		}
		for _, q := range span {
			floats.AddScaled(v, -floats.Dot(q, v), q)
		}
		rest := floats.Norm(v, 2)
		if rest <= independenceTol*norm {
			return false
		}
		floats.Scale(1/rest, v)
		span = append(span, v)

		return true
	}

	var chosen []int
	inBasis := make(map[int]bool, m)
	for _, j := range order {
		if len(span) == m {
			break
		}
		v := make([]float64, m)
		sf.A.ScatterCol(j, v)
		if independent(v) {
			chosen = append(chosen, j)
			inBasis[j] = true
		}
	}

	head := make([]int, m)
	filled := make([]bool, m)
	for r := 0; r < m && len(span) < m; r++ {
		v := make([]float64, m)
		v[r] = 1
		if !independent(v) {
			continue
		}
		head[r] = -1
		if j := sf.BasisCandidate[r]; j >= 0 && !inBasis[j] {
			head[r] = j
		}
		filled[r] = true
	}
	next := 0
	for r := range head {
		if filled[r] {
			continue
		}
		head[r] = chosen[next]
		next++
	}

	if _, err := simplex.FactorBasis(sf, head); err != nil {
		return nil
	}

	return head
}
