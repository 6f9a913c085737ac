// Package sensitivity computes post-optimal data from an optimal simplex
// basis: duals and shadow prices per constraint, reduced costs per variable,
// and the cost and right-hand-side ranges over which the basis stays optimal
// or primal feasible.
//
// All quantities are reported in the problem's own direction and against the
// original constraints; row negation, bound shifts and the internal
// minimization are undone here.
package sensitivity
