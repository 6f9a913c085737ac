// Package matrix is the numeric kernel behind the LP solvers.
//
// The matrix package provides:
//
//   - Dense, a row-major matrix with safe accessors, the products
//     MatVec and MatTransVec, and Inverse for small explicit inverses.
//   - Sparse, an immutable CSC matrix assembled from triplets, with
//     column views and A·x / Aᵀ·y products.
//   - LU, a partial-pivot factorization solving A·x = b and Aᵀ·y = c.
//   - ProductForm, an eta file on top of an LU for basis column
//     replacements between refactorizations.
//   - Tolerance, the single place where "is this zero?" is decided.
//
// No function here treats a non-finite input as valid; a singular
// factorization is reported as ErrSingular, never as a panic.
package matrix
