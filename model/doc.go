// Package model builds linear programs and converts them to standard form.
//
// A Problem is assembled incrementally:
//
//	p := model.NewProblem()
//	x, _ := p.AddVariable(0, math.Inf(1), 2)
//	_, _ = p.AddConstraint(map[model.VariableID]float64{x: 1}, model.GreaterEq, 10)
//	sf, err := p.Build()
//
// Mutators validate eagerly and report failures as *ModelError wrapping one
// of the package sentinels (ErrInvalidBound, ErrUnknownVariable,
// ErrEmptyProblem, ErrInvalidCoefficient, ErrInvalidRelation), so callers
// can use errors.Is for the cause and errors.As for the failing index.
//
// Build produces a StandardForm (A·x = b, x ≥ 0, b ≥ 0, minimize) that keeps
// enough bookkeeping to map a solver's point back to original variables
// (Recover) and its duals back to original constraints (RowSign, Rows).
package model
