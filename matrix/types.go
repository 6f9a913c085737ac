// SPDX-License-Identifier: MIT

// Package matrix: domain types shared by dense and sparse kernels.
// Errors and tolerance policy live in dedicated files (errors.go, options.go).
package matrix

// Matrix represents a two-dimensional mutable array of float64 values.
//
// Complexity notes: all methods are expected O(1) except Clone (O(r*c)).
type Matrix interface {
	// Rows returns the number of rows in the matrix.
	Rows() int

	// Cols returns the number of columns in the matrix.
	Cols() int

	// At retrieves the element at position (i, j).
	// Returns ErrIndexOutOfBounds if i<0, i>=Rows(), j<0 or j>=Cols().
	At(i, j int) (float64, error)

	// Set assigns the value v at position (i, j).
	// Returns ErrIndexOutOfBounds if indices are invalid.
	Set(i, j int, v float64) error

	// Clone returns a deep copy of the matrix.
	Clone() Matrix
}

// Triplet is a single non-zero entry (Row, Col, Val) used to assemble sparse
// matrices. Duplicated (Row, Col) pairs are summed during assembly.
type Triplet struct {
	Row int
	Col int
	Val float64
}

// Entry is an index-value pair of a sparse vector (row index inside a column).
type Entry struct {
	Index int
	Value float64
}
