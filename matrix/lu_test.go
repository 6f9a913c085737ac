package matrix_test

import (
	"testing"

	"github.com/katalvlaran/balance/matrix"
	"github.com/stretchr/testify/require"
)

const luTol = 1e-10

// TestLUSolveNeedsPivoting uses a matrix with a zero leading entry.
func TestLUSolveNeedsPivoting(t *testing.T) {
	a, err := matrix.NewDenseFrom(3, 3, []float64{
		0, 2, 1,
		1, 1, 0,
		3, 0, 1,
	})
	require.NoError(t, err)

	f, err := matrix.Factorize(a)
	require.NoError(t, err)
	require.Equal(t, 3, f.Order())

	want := []float64{1, -2, 3}
	b, err := matrix.MatVec(a, want)
	require.NoError(t, err)

	x, err := f.Solve(b)
	require.NoError(t, err)
	require.InDeltaSlice(t, want, x, luTol)
}

// TestLUSolveTrans checks Aᵀ·y = c against MatTransVec.
func TestLUSolveTrans(t *testing.T) {
	a, _ := matrix.NewDenseFrom(3, 3, []float64{
		4, -1, 0,
		2, 5, 1,
		0, 3, 6,
	})
	f, err := matrix.Factorize(a)
	require.NoError(t, err)

	want := []float64{0.5, -1, 2}
	c, err := matrix.MatTransVec(a, want)
	require.NoError(t, err)

	y, err := f.SolveTrans(c)
	require.NoError(t, err)
	require.InDeltaSlice(t, want, y, luTol)
}

// TestLUSingular reports ErrSingular for dependent rows.
func TestLUSingular(t *testing.T) {
	a, _ := matrix.NewDenseFrom(2, 2, []float64{1, 2, 2, 4})
	_, err := matrix.Factorize(a)
	require.ErrorIs(t, err, matrix.ErrSingular)

	_, err = matrix.Inverse(a)
	require.ErrorIs(t, err, matrix.ErrSingular)
}

// TestLUNonSquare rejects rectangular input.
func TestLUNonSquare(t *testing.T) {
	a, _ := matrix.NewDense(2, 3)
	_, err := matrix.Factorize(a)
	require.ErrorIs(t, err, matrix.ErrNonSquare)
}

// TestFactorizeColumns builds the same factorization from sparse columns.
func TestFactorizeColumns(t *testing.T) {
	cols := [][]matrix.Entry{
		{{Index: 1, Value: 1}, {Index: 2, Value: 3}},
		{{Index: 0, Value: 2}, {Index: 1, Value: 1}},
		{{Index: 0, Value: 1}, {Index: 2, Value: 1}},
	}
	f, err := matrix.FactorizeColumns(3, cols)
	require.NoError(t, err)

	x, err := f.Solve([]float64{-1, -1, 6})
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{1, -2, 3}, x, luTol)

	empty, err := matrix.FactorizeColumns(0, nil)
	require.NoError(t, err)
	x, err = empty.Solve(nil)
	require.NoError(t, err)
	require.Empty(t, x)

	_, err = matrix.FactorizeColumns(2, cols)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestInverseRoundTrip verifies A·(A⁻¹e_j) = e_j column by column.
func TestInverseRoundTrip(t *testing.T) {
	a, _ := matrix.NewDenseFrom(2, 2, []float64{4, 7, 2, 6})
	inv, err := matrix.Inverse(a)
	require.NoError(t, err)

	for j := 0; j < 2; j++ {
		col, err := inv.Column(j, nil)
		require.NoError(t, err)
		e, err := matrix.MatVec(a, col)
		require.NoError(t, err)
		want := []float64{0, 0}
		want[j] = 1
		require.InDeltaSlice(t, want, e, luTol)
	}

	_, err = matrix.Inverse(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
