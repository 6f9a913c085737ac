// Package interior implements a primal-dual path-following interior-point
// method over model.StandardForm.
//
// Each iteration solves the normal equations (A·D·Aᵀ)Δy = r with a dense
// Cholesky factorization from gonum/mat, shifting the diagonal when the
// matrix is not numerically positive definite (redundant rows, iterates
// close to the boundary). Centering follows the fixed schedule
// σ_k = max(SigmaMin, Sigma0·SigmaDecay^k); there is no predictor step.
//
// With Options.Crossover the interior optimum is turned into a vertex:
// VertexBasis picks a basis from the columns with the largest x_j/s_j and
// simplex finishes from it, which also makes sensitivity analysis available.
package interior
