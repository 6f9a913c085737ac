// SPDX-License-Identifier: MIT

package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Vector helpers backed by gonum/floats. Length mismatches are programmer
// errors and panic, as in gonum.

// Dot returns Σ a[i]·b[i].
func Dot(a, b []float64) float64 { return floats.Dot(a, b) }

// Axpy performs dst += alpha·x in place.
func Axpy(dst []float64, alpha float64, x []float64) { floats.AddScaled(dst, alpha, x) }

// NormInf returns max |x[i]| (0 for an empty vector).
func NormInf(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return floats.Norm(x, math.Inf(1))
}

// Norm2 returns the Euclidean norm of x.
func Norm2(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}

	return floats.Norm(x, 2)
}

// Residual returns b − A·x for a sparse A.
func Residual(a *Sparse, x, b []float64) ([]float64, error) {
	ax, err := a.MulVec(x)
	if err != nil {
		return nil, err
	}
	floats.SubTo(ax, b, ax)

	return ax, nil
}
