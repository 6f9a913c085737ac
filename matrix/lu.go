// SPDX-License-Identifier: MIT

// Package matrix - LU factorization with partial (row) pivoting.
//
// Purpose:
//   - Factor a square matrix once as P·A = L·U and reuse it for many solves.
//   - Serve both orientations needed by revised simplex: A·x = b (FTRAN) and
//     Aᵀ·y = c (BTRAN) without ever forming A⁻¹.
//
// Storage:
//   - L (unit lower, diagonal implicit) and U share one row-major n×n buffer.
//   - perm[i] is the row of A that ended up in row i of P·A.
//
// Complexity quicksheet:
//   - Factorize: O(n³) time, O(n²) space; Solve/SolveTrans: O(n²).
package matrix

import (
	"fmt"
	"math"
)

const (
	opFactorize = "Factorize"
	opSolve     = "LU.Solve"
	opSolveT    = "LU.SolveTrans"
)

// LU holds a pivoted factorization P·A = L·U of a square matrix.
// An LU is immutable after construction and safe for concurrent solves.
type LU struct {
	n    int       // order
	lu   []float64 // combined factors, row-major
	perm []int     // row permutation
}

// Factorize computes P·A = L·U with partial pivoting.
// Implementation:
//   - Stage 1: validate m (not nil, square); copy into a flat buffer.
//   - Stage 2: for each column pick the largest-magnitude pivot, swap rows, eliminate below.
//
// Errors:
//   - ErrNilMatrix, ErrNonSquare; ErrSingular when a column has no pivot above
//     the pivot tolerance (WithPivotEpsilon, default DefaultPivotEpsilon).
//
// Determinism:
//   - Ties in pivot magnitude keep the lowest row index.
func Factorize(m Matrix, opts ...Option) (*LU, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opFactorize, err)
	}
	if err := ValidateSquare(m); err != nil {
		return nil, matrixErrorf(opFactorize, err)
	}
	n := m.Rows()
	buf := make([]float64, n*n)
	if d, ok := m.(*Dense); ok {
		copy(buf, d.data)
	} else {
		var (
			i, j int
			v    float64
			err  error
		)
		for i = 0; i < n; i++ {
			for j = 0; j < n; j++ {
				if v, err = m.At(i, j); err != nil {
					return nil, matrixErrorf(opFactorize, err)
				}
				buf[i*n+j] = v
			}
		}
	}

	return factorizeFlat(n, buf, gatherOptions(opts...).pivotEps)
}

// FactorizeColumns factors the n×n matrix whose j-th column is cols[j],
// given as sparse index/value pairs. n == 0 yields an empty, valid LU.
// Errors: ErrDimensionMismatch when len(cols) != n or an index is out of range;
// ErrSingular as in Factorize.
func FactorizeColumns(n int, cols [][]Entry, opts ...Option) (*LU, error) {
	if n < 0 {
		return nil, matrixErrorf(opFactorize, ErrInvalidDimensions)
	}
	if len(cols) != n {
		return nil, matrixErrorf(opFactorize, ErrDimensionMismatch)
	}
	buf := make([]float64, n*n)
	for j, col := range cols {
		for _, e := range col {
			if e.Index < 0 || e.Index >= n {
				return nil, matrixErrorf(opFactorize, fmt.Errorf("column %d: %w", j, ErrIndexOutOfBounds))
			}
			buf[e.Index*n+j] += e.Value
		}
	}

	return factorizeFlat(n, buf, gatherOptions(opts...).pivotEps)
}

// factorizeFlat runs Gaussian elimination in place on buf (row-major n×n).
func factorizeFlat(n int, buf []float64, pivotEps float64) (*LU, error) {
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}

	var (
		i, j, k, p   int
		best, f, abs float64
		rowK, rowI   int
	)
	for k = 0; k < n; k++ {
		// Pivot search in column k (rows k..n-1).
		p, best = k, math.Abs(buf[k*n+k])
		for i = k + 1; i < n; i++ {
			if abs = math.Abs(buf[i*n+k]); abs > best {
				p, best = i, abs
			}
		}
		if best < pivotEps {
			return nil, matrixErrorf(opFactorize, fmt.Errorf("column %d: %w", k, ErrSingular))
		}
		if p != k {
			for j = 0; j < n; j++ {
				buf[k*n+j], buf[p*n+j] = buf[p*n+j], buf[k*n+j]
			}
			perm[k], perm[p] = perm[p], perm[k]
		}

		// Eliminate below the pivot; store multipliers in the L part.
		rowK = k * n
		for i = k + 1; i < n; i++ {
			rowI = i * n
			if buf[rowI+k] == 0 {
				continue
			}
			f = buf[rowI+k] / buf[rowK+k]
			buf[rowI+k] = f
			for j = k + 1; j < n; j++ {
				buf[rowI+j] -= f * buf[rowK+j]
			}
		}
	}

	return &LU{n: n, lu: buf, perm: perm}, nil
}

// Order returns n.
func (f *LU) Order() int { return f.n }

// Solve returns x with A·x = b.
// Errors: ErrDimensionMismatch when len(b) != n.
// Complexity: O(n²).
func (f *LU) Solve(b []float64) ([]float64, error) {
	if err := ValidateVecLen(b, f.n); err != nil {
		return nil, matrixErrorf(opSolve, err)
	}
	n := f.n
	x := make([]float64, n)
	var (
		i, k int
		sum  float64
	)
	// Forward: L·y = P·b (unit diagonal).
	for i = 0; i < n; i++ {
		sum = b[f.perm[i]]
		for k = 0; k < i; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum
	}
	// Backward: U·x = y.
	for i = n - 1; i >= 0; i-- {
		sum = x[i]
		for k = i + 1; k < n; k++ {
			sum -= f.lu[i*n+k] * x[k]
		}
		x[i] = sum / f.lu[i*n+i]
	}

	return x, nil
}

// SolveTrans returns y with Aᵀ·y = c.
// Uses Aᵀ = Uᵀ·Lᵀ·P: solve Uᵀ·z = c, Lᵀ·w = z, then y = Pᵀ·w.
// Errors: ErrDimensionMismatch when len(c) != n.
// Complexity: O(n²).
func (f *LU) SolveTrans(c []float64) ([]float64, error) {
	if err := ValidateVecLen(c, f.n); err != nil {
		return nil, matrixErrorf(opSolveT, err)
	}
	n := f.n
	w := make([]float64, n)
	var (
		i, k int
		sum  float64
	)
	// Uᵀ is lower triangular with U's diagonal.
	for i = 0; i < n; i++ {
		sum = c[i]
		for k = 0; k < i; k++ {
			sum -= f.lu[k*n+i] * w[k]
		}
		w[i] = sum / f.lu[i*n+i]
	}
	// Lᵀ is unit upper triangular.
	for i = n - 1; i >= 0; i-- {
		sum = w[i]
		for k = i + 1; k < n; k++ {
			sum -= f.lu[k*n+i] * w[k]
		}
		w[i] = sum
	}
	y := make([]float64, n)
	for i = 0; i < n; i++ {
		y[f.perm[i]] = w[i]
	}

	return y, nil
}

// Inverse forms A⁻¹ column by column from a fresh factorization.
// Prefer Factorize + Solve when only products A⁻¹·b are needed.
// Errors: as Factorize.
// Complexity: O(n³).
func Inverse(m Matrix, opts ...Option) (*Dense, error) {
	f, err := Factorize(m, opts...)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	n := f.n
	inv, err := NewDense(n, n)
	if err != nil {
		return nil, matrixErrorf(opInverse, err)
	}
	e := make([]float64, n)
	var col, i int
	for col = 0; col < n; col++ {
		e[col] = 1
		x, serr := f.Solve(e)
		if serr != nil {
			return nil, matrixErrorf(opInverse, serr)
		}
		for i = 0; i < n; i++ {
			inv.data[i*n+col] = x[i]
		}
		e[col] = 0
	}

	return inv, nil
}
