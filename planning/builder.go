package planning

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/solution"
)

var inf = math.Inf(1)

// builder adds variables and constraints to a problem and keeps the first
// error, so scenario code reads as a flat list of rows.
type builder struct {
	p   *model.Problem
	err error
}

func newBuilder(dir model.Direction) *builder {
	p := model.NewProblem()
	p.SetObjectiveDirection(dir)

	return &builder{p: p}
}

func (b *builder) variable(name string, lower, upper, cost float64) model.VariableID {
	if b.err != nil {
		return -1
	}
	id, err := b.p.AddNamedVariable(name, lower, upper, cost)
	if err != nil {
		b.err = err
	}

	return id
}

func (b *builder) constraint(name string, terms []model.Term, rel model.Relation, rhs float64) model.ConstraintID {
	if b.err != nil {
		return -1
	}
	id, err := b.p.AddNamedConstraint(name, terms, rel, rhs)
	if err != nil {
		b.err = err
	}

	return id
}

func (b *builder) problem() (*model.Problem, error) {
	if b.err != nil {
		return nil, fmt.Errorf("planning: build: %w", b.err)
	}

	return b.p, nil
}

// solve runs the engine and returns the solution with its values, which are
// nil unless the status is Optimal.
func solve(ctx context.Context, p *model.Problem, opts []engine.Option) (*solution.Solution, []float64, error) {
	sol, err := engine.Solve(ctx, p, opts...)
	if err != nil {
		return nil, nil, fmt.Errorf("planning: %w", err)
	}
	if !sol.IsOptimal() {
		return sol, nil, nil
	}

	return sol, sol.ValueSlice(), nil
}

// shadowPrices maps constraint ids to shadow prices; nil without sensitivity.
func shadowPrices(sol *solution.Solution) map[model.ConstraintID]float64 {
	sens, ok := sol.Sensitivity()
	if !ok {
		return nil
	}
	out := make(map[model.ConstraintID]float64, len(sens.Constraints))
	for _, c := range sens.Constraints {
		out[c.ID] = c.ShadowPrice
	}

	return out
}

func uniqueNames(kind string, names []string) error {
	seen := make(map[string]bool, len(names))
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("%s with empty name: %w", kind, ErrInvalidScenario)
		}
		if seen[n] {
			return fmt.Errorf("duplicate %s %q: %w", kind, n, ErrInvalidScenario)
		}
		seen[n] = true
	}

	return nil
}
