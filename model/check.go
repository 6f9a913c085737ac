package model

import "math"

// ViolationKind tells whether a Violation concerns a row or a variable bound.
type ViolationKind int

const (
	// RowViolation is a constraint whose relation does not hold.
	RowViolation ViolationKind = iota
	// BoundViolation is a variable outside [Lower, Upper].
	BoundViolation
)

// Violation is one failed check. Index is a ConstraintID for RowViolation and
// a VariableID for BoundViolation; Amount is how far outside the value lies.
type Violation struct {
	Kind   ViolationKind
	Index  int
	Amount float64
}

// Check verifies values against every bound and constraint with absolute
// tolerance tol and returns the violations in index order (rows first).
// An empty result means the point is feasible.
func (p *Problem) Check(values []float64, tol float64) ([]Violation, error) {
	act, err := p.Evaluate(values)
	if err != nil {
		return nil, err
	}
	var out []Violation
	for i, c := range p.cons {
		var amount float64
		switch c.Relation {
		case LessEq:
			amount = act[i] - c.RHS
		case GreaterEq:
			amount = c.RHS - act[i]
		case Equal:
			amount = math.Abs(act[i] - c.RHS)
		}
		if amount > tol {
			out = append(out, Violation{Kind: RowViolation, Index: i, Amount: amount})
		}
	}
	for j, v := range p.vars {
		if d := v.Lower - values[j]; d > tol {
			out = append(out, Violation{Kind: BoundViolation, Index: j, Amount: d})
		}
		if d := values[j] - v.Upper; d > tol {
			out = append(out, Violation{Kind: BoundViolation, Index: j, Amount: d})
		}
	}

	return out, nil
}
