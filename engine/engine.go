package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/balance/interior"
	"github.com/katalvlaran/balance/matrix"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/sensitivity"
	"github.com/katalvlaran/balance/simplex"
	"github.com/katalvlaran/balance/solution"
)

// outcome is the solver-independent part of a run.
type outcome struct {
	status solution.Status
	x      []float64
	diag   solution.Diagnostics
	vertex *simplex.Result // set when an optimal basis is available
}

// Solve optimizes p and returns its immutable Solution.
//
// Implementation:
//   - Stage 1: validate options, build the standard form, apply TimeLimit to ctx.
//   - Stage 2: resolve the Strategy and run simplex (warm-started from Cache
//     when it holds a basis for p) or the interior point (with crossover when
//     requested).
//   - Stage 3: sensitivity when requested and an optimal basis exists.
//   - Stage 4: assemble, record, log, and store the basis in Cache.
//
// Errors: ErrNilProblem, ErrInvalidOptions, model build errors (wrapped,
// errors.Is-able against the model sentinels), and solver numerical failures.
func Solve(ctx context.Context, p *model.Problem, opts ...Option) (*solution.Solution, error) {
	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	return solve(ctx, p, o)
}

// SolveAll solves problems concurrently with at most Options.Parallelism
// workers. Results are index-aligned with problems. The first error cancels
// the remaining solves, which then report Cancelled, and is returned.
func SolveAll(ctx context.Context, problems []*model.Problem, opts ...Option) ([]*solution.Solution, error) {
	o := NewOptions(opts...)
	if err := o.Validate(); err != nil {
		return nil, err
	}
	out := make([]*solution.Solution, len(problems))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.Parallelism)
	for i, p := range problems {
		i, p := i, p
		g.Go(func() error {
			sol, err := solve(gctx, p, o)
			if err != nil {
				return fmt.Errorf("problem %d: %w", i, err)
			}
			out[i] = sol
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return out, err
	}

	return out, nil
}

func solve(ctx context.Context, p *model.Problem, o Options) (*solution.Solution, error) {
	if p == nil {
		return nil, ErrNilProblem
	}
	start := time.Now()
	log := o.logger()

	sf, err := p.Build()
	if err != nil {
		return nil, fmt.Errorf("engine: build: %w", err)
	}
	if o.TimeLimit > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.TimeLimit)
		defer cancel()
	}

	strategy := o.Strategy.resolve(p.NumVariables(), o.AutoThreshold)
	log = log.With(slog.String("strategy", strategy.String()),
		slog.Int("rows", sf.NumRows()), slog.Int("cols", sf.NumCols()))
	log.Debug("engine: solving")

	var out outcome
	switch strategy {
	case InteriorPoint:
		out, err = runInterior(ctx, sf, o, log)
	default:
		out, err = runSimplex(ctx, p, sf, o, log)
	}
	if err != nil {
		return nil, err
	}

	var sens *solution.Sensitivity
	if o.ComputeSensitivity && out.status == solution.Optimal {
		sens, err = sensitivity.Analyze(p, sf, out.vertex, o.Tolerance)
		switch {
		case errors.Is(err, sensitivity.ErrNotApplicable):
			log.Debug("engine: sensitivity not applicable", "error", err)
		case err != nil:
			return nil, fmt.Errorf("engine: %w", err)
		}
	}
	if o.Cache != nil && out.vertex != nil && out.vertex.Basis != nil && out.status == solution.Optimal {
		o.Cache.Store(p, sf.NumRows(), sf.NumCols(), out.vertex.Basis)
	}

	out.diag.Elapsed = time.Since(start)
	sol := solution.Assemble(solution.Input{
		Problem:              p,
		Form:                 sf,
		Status:               out.status,
		X:                    out.x,
		Diagnostics:          out.diag,
		Sensitivity:          sens,
		FeasibilityTolerance: solution.DefaultSnapTolerance * (1 + matrix.NormInf(sf.B)),
	})

	diag := sol.Diagnostics()
	if o.Recorder != nil {
		o.Recorder.ObserveSolve(strategy, sol.Status(), diag, diag.Elapsed)
	}
	for _, w := range diag.Warnings {
		log.Warn("engine: numerical warning", "kind", w.Kind.String(), "iteration", w.Iteration, "detail", w.Detail)
	}
	log.Info("engine: solved",
		slog.String("status", sol.Status().String()),
		slog.Float64("objective", sol.Objective()),
		slog.Int("iterations", diag.Iterations),
		slog.Duration("elapsed", diag.Elapsed))

	return sol, nil
}

func (o Options) simplexOptions(log *slog.Logger) simplex.Options {
	return simplex.Options{
		Tolerance:     o.Tolerance,
		MaxIterations: o.MaxIterations,
		BlandAfter:    o.BlandAfter,
		RefactorEvery: o.RefactorEvery,
		TimeLimit:     o.TimeLimit,
		Logger:        log,
	}
}

func runSimplex(ctx context.Context, p *model.Problem, sf *model.StandardForm, o Options, log *slog.Logger) (outcome, error) {
	sopts := o.simplexOptions(log)
	if o.Cache != nil {
		if basis, fresh, ok := o.Cache.Lookup(p, sf.NumRows(), sf.NumCols()); ok {
			log.Debug("engine: warm start from cache", "fresh", fresh)
			sopts.InitialBasis = basis
		}
	}
	res, err := simplex.Solve(ctx, sf, sopts)
	if err != nil {
		return outcome{}, fmt.Errorf("engine: %w", err)
	}
	out := outcome{
		status: res.Status,
		x:      res.X,
		diag: solution.Diagnostics{
			Algorithm:        solution.AlgorithmSimplex,
			Iterations:       res.Iterations,
			Phase1Iterations: res.Phase1Iterations,
			Refactorizations: res.Refactorizations,
			Warnings:         res.Warnings,
		},
	}
	if res.Status == solution.Optimal {
		out.vertex = res
	}

	return out, nil
}

func runInterior(ctx context.Context, sf *model.StandardForm, o Options, log *slog.Logger) (outcome, error) {
	iopts := interior.DefaultOptions()
	iopts.Tolerance = math.Max(o.Tolerance, interior.DefaultTolerance)
	if o.MaxIterations > 0 {
		iopts.MaxIterations = o.MaxIterations
	}
	iopts.TimeLimit = o.TimeLimit
	iopts.Crossover = o.Crossover
	iopts.Simplex = o.simplexOptions(log)
	iopts.Logger = log

	res, err := interior.Solve(ctx, sf, iopts)
	if err != nil {
		return outcome{}, fmt.Errorf("engine: %w", err)
	}
	out := outcome{
		status: res.Status,
		x:      res.X,
		diag: solution.Diagnostics{
			Algorithm:  solution.AlgorithmInteriorPoint,
			Iterations: res.Iterations,
			Warnings:   res.Warnings,
		},
	}
	if cr := res.Crossover; cr != nil {
		out.diag.Algorithm = solution.AlgorithmCrossover
		out.diag.Iterations += cr.Iterations
		out.diag.Phase1Iterations = cr.Phase1Iterations
		out.diag.Refactorizations = cr.Refactorizations
		if cr.Status == solution.Optimal {
			out.vertex = cr
		}
	}

	return out, nil
}
