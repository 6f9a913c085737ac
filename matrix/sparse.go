// SPDX-License-Identifier: MIT

// Package matrix - compressed sparse column (CSC) storage.
//
// Purpose:
//   - Hold constraint matrices whose density is low (typical LP rows touch a few variables).
//   - Give column access in O(nnz(col)), which pricing and FTRAN inputs need.
//
// Layout:
//   - colPtr has Cols()+1 entries; column j occupies [colPtr[j], colPtr[j+1]).
//   - Row indices inside a column are strictly increasing; stored values are non-zero.
//
// Complexity quicksheet:
//   - NewSparse: O(nnz log nnz); Col: O(1) view; MulVec/MulTransVec: O(nnz).
package matrix

import (
	"fmt"
	"sort"
)

const (
	opNewSparse   = "NewSparse"
	opSparseAt    = "Sparse.At"
	opSparseMul   = "Sparse.MulVec"
	opSparseMulT  = "Sparse.MulTransVec"
	opSparseDense = "Sparse.Dense"
)

// Sparse is an immutable CSC matrix.
type Sparse struct {
	r, c   int
	colPtr []int
	rowIdx []int
	vals   []float64
}

// NewSparse assembles a rows×cols CSC matrix from triplets.
// Implementation:
//   - Stage 1: validate shape, indices and finiteness.
//   - Stage 2: stable sort by (col,row); sum duplicates; drop exact zeros.
//
// Errors: ErrInvalidDimensions, ErrIndexOutOfBounds, ErrNaNInf.
// Zero-sized shapes are allowed (an LP may have no constraints).
func NewSparse(rows, cols int, ts []Triplet) (*Sparse, error) {
	if rows < 0 || cols < 0 {
		return nil, matrixErrorf(opNewSparse, ErrInvalidDimensions)
	}
	sorted := make([]Triplet, 0, len(ts))
	for k, t := range ts {
		if t.Row < 0 || t.Row >= rows || t.Col < 0 || t.Col >= cols {
			return nil, matrixErrorf(opNewSparse, fmt.Errorf("triplet %d (%d,%d): %w", k, t.Row, t.Col, ErrIndexOutOfBounds))
		}
		if isNonFinite(t.Val) {
			return nil, matrixErrorf(opNewSparse, fmt.Errorf("triplet %d (%d,%d): %w", k, t.Row, t.Col, ErrNaNInf))
		}
		sorted = append(sorted, t)
	}
	sort.SliceStable(sorted, func(a, b int) bool {
		if sorted[a].Col != sorted[b].Col {
			return sorted[a].Col < sorted[b].Col
		}

		return sorted[a].Row < sorted[b].Row
	})

	s := &Sparse{r: rows, c: cols, colPtr: make([]int, cols+1)}
	var k int
	for k < len(sorted) {
		t := sorted[k]
		sum := t.Val
		k++
		for k < len(sorted) && sorted[k].Col == t.Col && sorted[k].Row == t.Row {
			sum += sorted[k].Val
			k++
		}
		if sum == 0 {
			continue
		}
		s.rowIdx = append(s.rowIdx, t.Row)
		s.vals = append(s.vals, sum)
		s.colPtr[t.Col+1]++
	}
	for j := 0; j < cols; j++ {
		s.colPtr[j+1] += s.colPtr[j]
	}

	return s, nil
}

// Rows returns the number of rows.
func (s *Sparse) Rows() int { return s.r }

// Cols returns the number of columns.
func (s *Sparse) Cols() int { return s.c }

// NNZ returns the number of stored non-zeros.
func (s *Sparse) NNZ() int { return len(s.vals) }

// Col returns read-only views of the row indices and values of column j.
// Callers must not modify the returned slices. Panics on an invalid j.
func (s *Sparse) Col(j int) (rows []int, vals []float64) {
	lo, hi := s.colPtr[j], s.colPtr[j+1]

	return s.rowIdx[lo:hi], s.vals[lo:hi]
}

// ColEntries returns column j as a fresh []Entry.
func (s *Sparse) ColEntries(j int) []Entry {
	rows, vals := s.Col(j)
	out := make([]Entry, len(rows))
	for k := range rows {
		out[k] = Entry{Index: rows[k], Value: vals[k]}
	}

	return out
}

// ScatterCol writes column j densely into dst (len == Rows) after zeroing it.
func (s *Sparse) ScatterCol(j int, dst []float64) {
	for i := range dst {
		dst[i] = 0
	}
	rows, vals := s.Col(j)
	for k, i := range rows {
		dst[i] = vals[k]
	}
}

// ColDot returns Σ_i A[i,j]·y[i].
func (s *Sparse) ColDot(j int, y []float64) float64 {
	rows, vals := s.Col(j)
	acc := ZeroSum
	for k, i := range rows {
		acc += vals[k] * y[i]
	}

	return acc
}

// At returns A[i,j] (zero when not stored).
// Complexity: O(log nnz(col)).
func (s *Sparse) At(i, j int) (float64, error) {
	if i < 0 || i >= s.r || j < 0 || j >= s.c {
		return 0, matrixErrorf(opSparseAt, ErrIndexOutOfBounds)
	}
	rows, vals := s.Col(j)
	k := sort.SearchInts(rows, i)
	if k < len(rows) && rows[k] == i {
		return vals[k], nil
	}

	return 0, nil
}

// MulVec returns A·x.
func (s *Sparse) MulVec(x []float64) ([]float64, error) {
	if err := ValidateVecLen(x, s.c); err != nil {
		return nil, matrixErrorf(opSparseMul, err)
	}
	y := make([]float64, s.r)
	var j, k int
	for j = 0; j < s.c; j++ {
		if x[j] == 0 {
			continue
		}
		for k = s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			y[s.rowIdx[k]] += s.vals[k] * x[j]
		}
	}

	return y, nil
}

// MulTransVec returns Aᵀ·y.
func (s *Sparse) MulTransVec(y []float64) ([]float64, error) {
	if err := ValidateVecLen(y, s.r); err != nil {
		return nil, matrixErrorf(opSparseMulT, err)
	}
	out := make([]float64, s.c)
	for j := 0; j < s.c; j++ {
		out[j] = s.ColDot(j, y)
	}

	return out, nil
}

// Dense materializes the matrix; empty shapes yield an empty Dense.
func (s *Sparse) Dense() (*Dense, error) {
	d, err := newDenseZeroOK(s.r, s.c)
	if err != nil {
		return nil, matrixErrorf(opSparseDense, err)
	}
	var j, k int
	for j = 0; j < s.c; j++ {
		for k = s.colPtr[j]; k < s.colPtr[j+1]; k++ {
			d.data[s.rowIdx[k]*s.c+j] = s.vals[k]
		}
	}

	return d, nil
}
