package model

import (
	"fmt"
	"math"

	"github.com/katalvlaran/balance/matrix"
)

// ColumnKind records why a standard-form column exists.
type ColumnKind int

const (
	// ColOriginal is the (shifted or mirrored) image of an original variable.
	ColOriginal ColumnKind = iota
	// ColNegativePart is x⁻ of a free variable split as x⁺ − x⁻.
	ColNegativePart
	// ColSlack is the +1 slack of a ≤ row.
	ColSlack
	// ColSurplus is the −1 surplus of a ≥ row.
	ColSurplus
	// ColUpperBoundSlack is the slack of a row x' ≤ u − l added for a finite upper bound.
	ColUpperBoundSlack
)

// String implements fmt.Stringer.
func (k ColumnKind) String() string {
	switch k {
	case ColOriginal:
		return "original"
	case ColNegativePart:
		return "negative-part"
	case ColSlack:
		return "slack"
	case ColSurplus:
		return "surplus"
	case ColUpperBoundSlack:
		return "upper-bound-slack"
	default:
		return fmt.Sprintf("ColumnKind(%d)", int(k))
	}
}

// ColumnOrigin maps a standard-form column back to the model.
// Var is set for ColOriginal, ColNegativePart and ColUpperBoundSlack;
// Row is the standard-form row for slack, surplus and bound slack columns.
type ColumnOrigin struct {
	Kind ColumnKind
	Var  VariableID
	Row  int
}

// RowOrigin maps a standard-form row back to the model. Rows coming from a
// constraint carry its id; rows added for an upper bound carry BoundOf.
type RowOrigin struct {
	Constraint ConstraintID
	BoundOf    VariableID
	IsBound    bool
}

// VarMapping reconstructs x_j = Shift + Sign·(x[Pos] − x[Neg]); Neg is −1
// when the variable was not split.
type VarMapping struct {
	Pos   int
	Neg   int
	Sign  float64
	Shift float64
}

// StandardForm is the immutable canonical LP
//
//	minimize  C·x + ObjOffset   subject to   A·x = B,  x ≥ 0,  B ≥ 0.
//
// For Maximize problems C holds negated costs, so the internal objective is
// the negation of the original one; OriginalObjective undoes that.
type StandardForm struct {
	A         *matrix.Sparse
	B         []float64
	C         []float64
	ObjOffset float64
	Direction Direction

	Columns []ColumnOrigin
	Rows    []RowOrigin

	// RowSign is −1 for rows negated to make B non-negative, +1 otherwise.
	RowSign []float64

	// BasisCandidate is, per row, a column with a +1 coefficient in that row
	// only (a usable initial basic column), or −1.
	BasisCandidate []int

	// Vars has one entry per original variable.
	Vars []VarMapping
}

// NumRows returns m.
func (sf *StandardForm) NumRows() int { return len(sf.B) }

// NumCols returns n.
func (sf *StandardForm) NumCols() int { return len(sf.C) }

// Recover maps a standard-form point to original variable values.
func (sf *StandardForm) Recover(x []float64) []float64 {
	out := make([]float64, len(sf.Vars))
	for j, vm := range sf.Vars {
		v := x[vm.Pos]
		if vm.Neg >= 0 {
			v -= x[vm.Neg]
		}
		out[j] = vm.Shift + vm.Sign*v
	}

	return out
}

// Objective returns C·x + ObjOffset (the internal minimization objective).
func (sf *StandardForm) Objective(x []float64) float64 {
	return matrix.Dot(sf.C, x) + sf.ObjOffset
}

// OriginalObjective converts an internal objective value to the problem's direction.
func (sf *StandardForm) OriginalObjective(internal float64) float64 {
	if sf.Direction == Maximize {
		return -internal
	}

	return internal
}

// Build converts the problem to standard form.
//
// Implementation:
//   - Stage 1: map each variable to non-negative columns (shift finite lower
//     bounds, mirror upper-only variables, split free ones).
//   - Stage 2: one row per constraint with slack (≤) or surplus (≥), RHS
//     corrected by the shifts; negate rows whose RHS is negative.
//   - Stage 3: one extra ≤ row per finite upper bound of a lower-bounded variable.
//
// Errors: ErrEmptyProblem (wrapped in *ModelError).
// Complexity: O(nnz + n + m) plus the CSC sort.
func (p *Problem) Build() (*StandardForm, error) {
	n := len(p.vars)
	if n == 0 {
		return nil, modelErrorf(opBuild, -1, ErrEmptyProblem)
	}
	sign := 1.0
	if p.dir == Maximize {
		sign = -1
	}

	sf := &StandardForm{Direction: p.dir, Vars: make([]VarMapping, n)}
	var (
		cost []float64
		cols []ColumnOrigin
		ts   []matrix.Triplet
	)
	addCol := func(c float64, o ColumnOrigin) int {
		cost = append(cost, c)
		cols = append(cols, o)

		return len(cost) - 1
	}

	// Stage 1: columns for original variables keep their index (Pos == j).
	type boundRow struct {
		v   VariableID
		col int
		ub  float64
	}
	var bounds []boundRow
	for j, v := range p.vars {
		c := sign * v.Cost
		vm := VarMapping{Pos: j, Neg: -1, Sign: 1}
		switch {
		case !math.IsInf(v.Lower, -1):
			vm.Shift = v.Lower
			if !math.IsInf(v.Upper, 1) {
				bounds = append(bounds, boundRow{v: VariableID(j), col: j, ub: v.Upper - v.Lower})
			}
		case !math.IsInf(v.Upper, 1):
			vm.Sign, vm.Shift = -1, v.Upper
		}
		sf.ObjOffset += c * vm.Shift
		addCol(c*vm.Sign, ColumnOrigin{Kind: ColOriginal, Var: VariableID(j), Row: -1})
		sf.Vars[j] = vm
	}
	for j, v := range p.vars {
		if v.IsFree() {
			sf.Vars[j].Neg = addCol(-sign*v.Cost, ColumnOrigin{Kind: ColNegativePart, Var: VariableID(j), Row: -1})
		}
	}

	// Stage 2: constraint rows.
	m := len(p.cons) + len(bounds)
	sf.B = make([]float64, m)
	sf.RowSign = make([]float64, m)
	sf.BasisCandidate = make([]int, m)
	sf.Rows = make([]RowOrigin, m)
	for i, con := range p.cons {
		rhs := con.RHS
		for _, t := range con.Terms {
			rhs -= t.Coef * sf.Vars[t.Var].Shift
		}
		// A ≥ row with zero RHS is negated too: its surplus then starts basic.
		rs := 1.0
		if rhs < 0 || (rhs == 0 && con.Relation == GreaterEq) {
			rs = -1
		}
		for _, t := range con.Terms {
			vm := sf.Vars[t.Var]
			a := rs * t.Coef * vm.Sign
			ts = append(ts, matrix.Triplet{Row: i, Col: vm.Pos, Val: a})
			if vm.Neg >= 0 {
				ts = append(ts, matrix.Triplet{Row: i, Col: vm.Neg, Val: -a})
			}
		}
		sf.BasisCandidate[i] = -1
		switch con.Relation {
		case LessEq:
			s := addCol(0, ColumnOrigin{Kind: ColSlack, Var: -1, Row: i})
			ts = append(ts, matrix.Triplet{Row: i, Col: s, Val: rs})
			if rs > 0 {
				sf.BasisCandidate[i] = s
			}
		case GreaterEq:
			s := addCol(0, ColumnOrigin{Kind: ColSurplus, Var: -1, Row: i})
			ts = append(ts, matrix.Triplet{Row: i, Col: s, Val: -rs})
			if rs < 0 {
				sf.BasisCandidate[i] = s
			}
		}
		sf.B[i] = rs * rhs
		sf.RowSign[i] = rs
		sf.Rows[i] = RowOrigin{Constraint: ConstraintID(i), BoundOf: -1}
	}

	// Stage 3: upper-bound rows x' + s = u − l (never negated, u ≥ l).
	for k, br := range bounds {
		i := len(p.cons) + k
		s := addCol(0, ColumnOrigin{Kind: ColUpperBoundSlack, Var: br.v, Row: i})
		ts = append(ts,
			matrix.Triplet{Row: i, Col: br.col, Val: 1},
			matrix.Triplet{Row: i, Col: s, Val: 1},
		)
		sf.B[i] = br.ub
		sf.RowSign[i] = 1
		sf.BasisCandidate[i] = s
		sf.Rows[i] = RowOrigin{Constraint: -1, BoundOf: br.v, IsBound: true}
	}

	a, err := matrix.NewSparse(m, len(cost), ts)
	if err != nil {
		return nil, modelErrorf(opBuild, -1, err)
	}
	sf.A, sf.C, sf.Columns = a, cost, cols

	return sf, nil
}
