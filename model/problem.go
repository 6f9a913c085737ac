package model

import (
	"fmt"
	"math"
	"sort"
)

const (
	opAddVariable   = "AddVariable"
	opAddConstraint = "AddConstraint"
	opBuild         = "Build"
	opEvaluate      = "Evaluate"
)

// AddVariable registers an unnamed variable and returns its id.
// Errors: ErrInvalidBound, ErrInvalidCoefficient (wrapped in *ModelError).
func (p *Problem) AddVariable(lower, upper, cost float64) (VariableID, error) {
	return p.AddNamedVariable("", lower, upper, cost)
}

// AddNamedVariable is AddVariable with a display name.
func (p *Problem) AddNamedVariable(name string, lower, upper, cost float64) (VariableID, error) {
	id := len(p.vars)
	if math.IsNaN(lower) || math.IsNaN(upper) ||
		math.IsInf(lower, 1) || math.IsInf(upper, -1) || lower > upper {
		return -1, modelErrorf(opAddVariable, id, fmt.Errorf("[%g, %g]: %w", lower, upper, ErrInvalidBound))
	}
	if math.IsNaN(cost) || math.IsInf(cost, 0) {
		return -1, modelErrorf(opAddVariable, id, fmt.Errorf("cost %g: %w", cost, ErrInvalidCoefficient))
	}
	p.vars = append(p.vars, Variable{Name: name, Lower: lower, Upper: upper, Cost: cost})
	p.revision++

	return VariableID(id), nil
}

// AddConstraint adds Σ coeffs[v]·x_v ⟨rel⟩ rhs. Map iteration order does not
// leak: terms are stored sorted by variable id.
// Errors: ErrUnknownVariable, ErrInvalidCoefficient, ErrInvalidRelation.
func (p *Problem) AddConstraint(coeffs map[VariableID]float64, rel Relation, rhs float64) (ConstraintID, error) {
	terms := make([]Term, 0, len(coeffs))
	for v, c := range coeffs {
		terms = append(terms, Term{Var: v, Coef: c})
	}

	return p.AddNamedConstraint("", terms, rel, rhs)
}

// AddConstraintTerms adds a row given as a term list; duplicates are summed.
func (p *Problem) AddConstraintTerms(terms []Term, rel Relation, rhs float64) (ConstraintID, error) {
	return p.AddNamedConstraint("", terms, rel, rhs)
}

// AddNamedConstraint is AddConstraintTerms with a display name.
// The problem is left unchanged when an error is returned.
func (p *Problem) AddNamedConstraint(name string, terms []Term, rel Relation, rhs float64) (ConstraintID, error) {
	id := len(p.cons)
	if !rel.valid() {
		return -1, modelErrorf(opAddConstraint, id, ErrInvalidRelation)
	}
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		return -1, modelErrorf(opAddConstraint, id, fmt.Errorf("rhs %g: %w", rhs, ErrInvalidCoefficient))
	}

	acc := make(map[VariableID]float64, len(terms))
	for _, t := range terms {
		if t.Var < 0 || int(t.Var) >= len(p.vars) {
			return -1, modelErrorf(opAddConstraint, id, fmt.Errorf("variable %d: %w", t.Var, ErrUnknownVariable))
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			return -1, modelErrorf(opAddConstraint, id, fmt.Errorf("variable %d coef %g: %w", t.Var, t.Coef, ErrInvalidCoefficient))
		}
		acc[t.Var] += t.Coef
	}
	row := make([]Term, 0, len(acc))
	for v, c := range acc {
		if c != 0 {
			row = append(row, Term{Var: v, Coef: c})
		}
	}
	sort.Slice(row, func(a, b int) bool { return row[a].Var < row[b].Var })

	p.cons = append(p.cons, Constraint{Name: name, Terms: row, Relation: rel, RHS: rhs})
	p.revision++

	return ConstraintID(id), nil
}

// SetObjectiveDirection sets Minimize or Maximize.
func (p *Problem) SetObjectiveDirection(dir Direction) {
	if dir != Maximize {
		dir = Minimize
	}
	if p.dir != dir {
		p.dir = dir
		p.revision++
	}
}

// Direction returns the objective sense.
func (p *Problem) Direction() Direction { return p.dir }

// NumVariables returns the number of registered variables.
func (p *Problem) NumVariables() int { return len(p.vars) }

// NumConstraints returns the number of constraints.
func (p *Problem) NumConstraints() int { return len(p.cons) }

// Revision increases on every successful mutation. Caches key on it.
func (p *Problem) Revision() uint64 { return p.revision }

// Variable returns a copy of variable id.
func (p *Problem) Variable(id VariableID) (Variable, bool) {
	if id < 0 || int(id) >= len(p.vars) {
		return Variable{}, false
	}

	return p.vars[id], true
}

// Constraint returns a copy of constraint id (terms copied).
func (p *Problem) Constraint(id ConstraintID) (Constraint, bool) {
	if id < 0 || int(id) >= len(p.cons) {
		return Constraint{}, false
	}
	c := p.cons[id]
	c.Terms = append([]Term(nil), c.Terms...)

	return c, true
}

// VariableName returns the name of id, or "x<id>" when unnamed.
func (p *Problem) VariableName(id VariableID) string {
	if v, ok := p.Variable(id); ok && v.Name != "" {
		return v.Name
	}

	return fmt.Sprintf("x%d", id)
}

// ConstraintName returns the name of id, or "c<id>" when unnamed.
func (p *Problem) ConstraintName(id ConstraintID) string {
	if id >= 0 && int(id) < len(p.cons) && p.cons[id].Name != "" {
		return p.cons[id].Name
	}

	return fmt.Sprintf("c%d", id)
}

// Evaluate returns the activity Σ a_ij·x_j of every constraint row.
// Errors: ErrDimensionMismatch when len(values) != NumVariables.
func (p *Problem) Evaluate(values []float64) ([]float64, error) {
	if len(values) != len(p.vars) {
		return nil, modelErrorf(opEvaluate, -1, ErrDimensionMismatch)
	}
	out := make([]float64, len(p.cons))
	for i := range p.cons {
		out[i] = p.cons[i].Activity(values)
	}

	return out, nil
}

// ObjectiveValue returns Σ cost_j·x_j in the problem's own direction.
// Panics when len(values) != NumVariables.
func (p *Problem) ObjectiveValue(values []float64) float64 {
	var sum float64
	for j := range p.vars {
		sum += p.vars[j].Cost * values[j]
	}

	return sum
}
