// SPDX-License-Identifier: MIT

// Package matrix - product-form basis updates (eta file).
//
// Purpose:
//   - Keep B⁻¹ implicit across column replacements: after k updates the current
//     basis is B_k = B_0·E_1·…·E_k, where E_t is the identity with column r_t
//     replaced by d_t = B_{t-1}⁻¹·a_q.
//   - FTRAN applies B_0⁻¹ then E_1⁻¹…E_k⁻¹; BTRAN applies E_k⁻ᵀ…E_1⁻ᵀ then B_0⁻ᵀ.
//
// Complexity quicksheet:
//   - Update: O(nnz(d)); Solve/SolveTrans: O(n² + Σ nnz(d_t)).
//   - Callers refactorize periodically (see Len) to bound growth and drift.
package matrix

import (
	"fmt"
	"math"
)

const (
	opEtaUpdate = "ProductForm.Update"
	opFTRAN     = "ProductForm.Solve"
	opBTRAN     = "ProductForm.SolveTrans"
)

// eta stores one elementary column transform.
type eta struct {
	pos   int     // replaced basis position r
	pivot float64 // d[r]
	off   []Entry // d[i] for i != r, non-zero only
}

// ProductForm couples a base LU with a growing list of eta transforms.
// Not safe for concurrent mutation; Solve/SolveTrans may run concurrently
// with each other when no Update is in flight.
type ProductForm struct {
	base     *LU
	etas     []eta
	pivotEps float64
}

// NewProductForm starts an empty eta file on top of base.
func NewProductForm(base *LU, opts ...Option) *ProductForm {
	return &ProductForm{base: base, pivotEps: gatherOptions(opts...).pivotEps}
}

// Order returns the basis dimension.
func (p *ProductForm) Order() int { return p.base.n }

// Len returns the number of eta transforms applied since the base factorization.
func (p *ProductForm) Len() int { return len(p.etas) }

// Update records the replacement of basis position pos by a column whose
// FTRAN image is d (d = B⁻¹·a_q under the current basis). d is not retained.
// Errors: ErrIndexOutOfBounds, ErrDimensionMismatch, ErrSingular when |d[pos]|
// is below the pivot tolerance.
func (p *ProductForm) Update(pos int, d []float64) error {
	n := p.base.n
	if err := ValidateVecLen(d, n); err != nil {
		return matrixErrorf(opEtaUpdate, err)
	}
	if pos < 0 || pos >= n {
		return matrixErrorf(opEtaUpdate, ErrIndexOutOfBounds)
	}
	if math.Abs(d[pos]) < p.pivotEps {
		return matrixErrorf(opEtaUpdate, fmt.Errorf("position %d: %w", pos, ErrSingular))
	}
	e := eta{pos: pos, pivot: d[pos]}
	for i, v := range d {
		if i != pos && v != 0 {
			e.off = append(e.off, Entry{Index: i, Value: v})
		}
	}
	p.etas = append(p.etas, e)

	return nil
}

// Solve returns x with B·x = b for the current basis (FTRAN).
func (p *ProductForm) Solve(b []float64) ([]float64, error) {
	x, err := p.base.Solve(b)
	if err != nil {
		return nil, matrixErrorf(opFTRAN, err)
	}
	var xr float64
	for t := range p.etas {
		e := &p.etas[t]
		xr = x[e.pos] / e.pivot
		for _, o := range e.off {
			x[o.Index] -= o.Value * xr
		}
		x[e.pos] = xr
	}

	return x, nil
}

// SolveTrans returns y with Bᵀ·y = c for the current basis (BTRAN).
func (p *ProductForm) SolveTrans(c []float64) ([]float64, error) {
	if err := ValidateVecLen(c, p.base.n); err != nil {
		return nil, matrixErrorf(opBTRAN, err)
	}
	v := make([]float64, len(c))
	copy(v, c)
	var sum float64
	for t := len(p.etas) - 1; t >= 0; t-- {
		e := &p.etas[t]
		// Eᵀ·z = v: z_i = v_i for i != r, z_r = (v_r − Σ d_i·v_i) / d_r.
		sum = v[e.pos]
		for _, o := range e.off {
			sum -= o.Value * v[o.Index]
		}
		v[e.pos] = sum / e.pivot
	}
	y, err := p.base.SolveTrans(v)
	if err != nil {
		return nil, matrixErrorf(opBTRAN, err)
	}

	return y, nil
}
