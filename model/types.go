// Package model defines the LP problem representation: variables with
// bounds and costs, sparse constraints, the objective direction, and the
// standard-form view consumed by the solvers.
//
// This file declares VariableID, ConstraintID, Relation, Direction,
// Variable, Term, Constraint and the Problem container.
package model

import (
	"fmt"
	"math"
)

// VariableID is the stable index of a variable inside its Problem.
type VariableID int

// ConstraintID is the stable row index of a constraint inside its Problem.
type ConstraintID int

// Relation is the comparison of a constraint row against its right-hand side.
type Relation int

const (
	// LessEq is Σ a_j x_j ≤ rhs.
	LessEq Relation = iota
	// GreaterEq is Σ a_j x_j ≥ rhs.
	GreaterEq
	// Equal is Σ a_j x_j = rhs.
	Equal
)

// String implements fmt.Stringer.
func (r Relation) String() string {
	switch r {
	case LessEq:
		return "<="
	case GreaterEq:
		return ">="
	case Equal:
		return "="
	default:
		return fmt.Sprintf("Relation(%d)", int(r))
	}
}

func (r Relation) valid() bool { return r >= LessEq && r <= Equal }

// Direction is the objective sense.
type Direction int

const (
	// Minimize is the default direction.
	Minimize Direction = iota
	// Maximize is normalized to Minimize internally by negating costs.
	Maximize
)

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Minimize:
		return "minimize"
	case Maximize:
		return "maximize"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// Variable is a decision variable with bounds and an objective coefficient.
// Lower may be -Inf and Upper may be +Inf.
type Variable struct {
	// Name is optional and used only for reporting.
	Name string

	// Lower is the lower bound (default 0).
	Lower float64

	// Upper is the upper bound (default +Inf).
	Upper float64

	// Cost is the objective coefficient.
	Cost float64
}

// IsFree reports a variable with no finite bound on either side.
func (v Variable) IsFree() bool { return math.IsInf(v.Lower, -1) && math.IsInf(v.Upper, 1) }

// Term is a single non-zero coefficient of a constraint row.
type Term struct {
	Var  VariableID
	Coef float64
}

// Constraint is a sparse row Σ Terms ⟨Relation⟩ RHS.
// Terms are sorted by Var with duplicates summed and zeros dropped.
type Constraint struct {
	Name     string
	Terms    []Term
	Relation Relation
	RHS      float64
}

// Activity returns Σ coef·values[var] for this row.
func (c Constraint) Activity(values []float64) float64 {
	var sum float64
	for _, t := range c.Terms {
		sum += t.Coef * values[t.Var]
	}

	return sum
}

// Problem owns an ordered set of variables and constraints plus an objective
// direction. A Problem is not safe for concurrent mutation; once built it may
// be solved from many goroutines as long as nobody mutates it meanwhile.
type Problem struct {
	vars     []Variable
	cons     []Constraint
	dir      Direction
	revision uint64
}

// NewProblem returns an empty minimization problem.
func NewProblem() *Problem { return &Problem{dir: Minimize} }
