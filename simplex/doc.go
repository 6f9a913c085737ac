// Package simplex implements a two-phase revised simplex method over
// model.StandardForm.
//
// The basis inverse is never formed: the basis is held as a partial-pivot LU
// (matrix.LU) plus an eta file (matrix.ProductForm) that grows by one
// transform per pivot and is discarded at every refactorization.
//
// Termination on degenerate problems is guaranteed by switching from
// Dantzig pricing to Bland's rule after a run of degenerate pivots and by
// breaking ratio-test ties on the smallest basic column index. Every run is
// bounded by an iteration cap, the context, and an optional time limit;
// all of these end the run with a solution.Status rather than an error.
//
// Solve owns all of its working state, so independent standard forms can be
// solved concurrently without coordination.
package simplex
