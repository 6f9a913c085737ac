package model_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/katalvlaran/balance/model"
	"github.com/stretchr/testify/require"
)

// TestBuildEmpty rejects a problem with no variables.
func TestBuildEmpty(t *testing.T) {
	_, err := model.NewProblem().Build()
	require.ErrorIs(t, err, model.ErrEmptyProblem)
}

// TestBuildSlackSurplusAndNegation checks row layout for each relation.
func TestBuildSlackSurplusAndNegation(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, inf, 2)
	_, _ = p.AddConstraint(map[model.VariableID]float64{x: 1}, model.GreaterEq, 10) // surplus, artificial needed
	_, _ = p.AddConstraint(map[model.VariableID]float64{x: 1}, model.LessEq, 100)   // slack basic
	_, _ = p.AddConstraint(map[model.VariableID]float64{x: 1}, model.LessEq, -3)    // negated

	sf, err := p.Build()
	require.NoError(t, err)
	require.Equal(t, 3, sf.NumRows())
	require.Equal(t, 4, sf.NumCols())
	require.Equal(t, []float64{10, 100, 3}, sf.B)
	require.Equal(t, []float64{1, 1, -1}, sf.RowSign)
	require.Equal(t, []float64{2, 0, 0, 0}, sf.C)

	require.Equal(t, -1, sf.BasisCandidate[0])
	require.Equal(t, 2, sf.BasisCandidate[1])
	require.Equal(t, -1, sf.BasisCandidate[2])

	v, _ := sf.A.At(0, 1)
	require.Equal(t, -1.0, v)
	v, _ = sf.A.At(2, 0)
	require.Equal(t, -1.0, v)
	v, _ = sf.A.At(2, 3)
	require.Equal(t, -1.0, v)

	require.Equal(t, model.ColSurplus, sf.Columns[1].Kind)
	require.Equal(t, model.ColSlack, sf.Columns[2].Kind)
}

// TestBuildBoundsShiftMirrorSplit covers every variable transformation and
// checks that Recover inverts them.
func TestBuildBoundsShiftMirrorSplit(t *testing.T) {
	p := model.NewProblem()
	a, _ := p.AddVariable(2, 5, 1)      // shift + upper-bound row
	b, _ := p.AddVariable(-inf, 4, 1)   // mirror
	c, _ := p.AddVariable(-inf, inf, 1) // split
	_, _ = p.AddConstraint(map[model.VariableID]float64{a: 1, b: 1, c: 1}, model.Equal, 7)

	sf, err := p.Build()
	require.NoError(t, err)

	// Columns: a', b', c⁺, c⁻, bound slack for a.
	require.Equal(t, 5, sf.NumCols())
	require.Equal(t, 2, sf.NumRows())
	require.Equal(t, model.VarMapping{Pos: 0, Neg: -1, Sign: 1, Shift: 2}, sf.Vars[a])
	require.Equal(t, model.VarMapping{Pos: 1, Neg: -1, Sign: -1, Shift: 4}, sf.Vars[b])
	require.Equal(t, model.VarMapping{Pos: 2, Neg: 3, Sign: 1, Shift: 0}, sf.Vars[c])
	require.True(t, sf.Rows[1].IsBound)
	require.Equal(t, a, sf.Rows[1].BoundOf)
	require.Equal(t, 3.0, sf.B[1])

	// 7 − 2 − 4 = 1 remains on the right-hand side.
	require.Equal(t, 1.0, sf.B[0])
	require.Equal(t, 6.0, sf.ObjOffset)

	// a'=1 (a=3), b'=1 (b=3), c⁺=1, c⁻=0 (c=1), slack=2.
	x := []float64{1, 1, 1, 0, 2}
	got := sf.Recover(x)
	want := []float64{3, 3, 1}
	require.True(t, cmp.Equal(want, got, cmpopts.EquateApprox(0, 1e-12)), cmp.Diff(want, got))

	r, err := sf.A.MulVec(x)
	require.NoError(t, err)
	require.Equal(t, sf.B, r)

	require.Equal(t, p.ObjectiveValue(got), sf.OriginalObjective(sf.Objective(x)))
}

// TestBuildMaximizeNegatesCosts keeps the original objective recoverable.
func TestBuildMaximizeNegatesCosts(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(1, inf, 3)
	_, _ = p.AddConstraint(map[model.VariableID]float64{x: 1}, model.LessEq, 4)
	p.SetObjectiveDirection(model.Maximize)

	sf, err := p.Build()
	require.NoError(t, err)
	require.Equal(t, -3.0, sf.C[0])
	require.Equal(t, -3.0, sf.ObjOffset)

	xs := []float64{3, 0}
	require.Equal(t, 12.0, sf.OriginalObjective(sf.Objective(xs)))
}

// TestBuildZeroRHSGreaterEq starts the surplus basic after negation.
func TestBuildZeroRHSGreaterEq(t *testing.T) {
	p := model.NewProblem()
	x, _ := p.AddVariable(0, inf, 1)
	y, _ := p.AddVariable(0, inf, 1)
	_, _ = p.AddConstraint(map[model.VariableID]float64{x: 1, y: -1}, model.GreaterEq, 0)

	sf, err := p.Build()
	require.NoError(t, err)
	require.Equal(t, -1.0, sf.RowSign[0])
	require.Equal(t, 2, sf.BasisCandidate[0])
	v, _ := sf.A.At(0, 2)
	require.Equal(t, 1.0, v)
}
