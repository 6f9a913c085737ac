// SPDX-License-Identifier: MIT

// Package matrix: numeric policy and functional configuration for the kernels.
// This file defines:
//   - documented defaults (constants),
//   - Tolerance, the single source of truth for "is this zero?" decisions,
//   - Option / Options with WithX constructors that panic on nonsensical values,
//   - gatherOptions helper (internal) that resolves the effective policy.
//
// Design goals:
//   - Deterministic behavior: no global mutable state, no implicit randomness.
//   - Absolute tolerances: every comparison against zero goes through Tolerance.
//   - Safe by construction: panic only on invalid parameters (programmer error).
package matrix

import "math"

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultEpsilon is the absolute tolerance used by comparisons against zero.
	DefaultEpsilon = 1e-9

	// DefaultPivotEpsilon is the smallest magnitude accepted as an LU pivot.
	DefaultPivotEpsilon = 1e-11

	// DefaultValidateNaNInf toggles strict finite-value validation on Set.
	DefaultValidateNaNInf = true
)

// ZeroSum is the neutral accumulator for dot products and substitutions.
const ZeroSum = 0.0

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicEpsilonInvalid = "matrix: WithEpsilon: eps must be finite, non-negative"
	panicPivotInvalid   = "matrix: WithPivotEpsilon: eps must be finite, positive"
)

// Tolerance is an absolute numeric tolerance. The zero value behaves as an
// exact comparison; use NewTolerance or DefaultTolerance for real work.
type Tolerance float64

// DefaultTolerance returns the package default tolerance (DefaultEpsilon).
func DefaultTolerance() Tolerance { return Tolerance(DefaultEpsilon) }

// NewTolerance validates eps and returns it as a Tolerance.
// Non-finite or negative values fall back to DefaultEpsilon.
func NewTolerance(eps float64) Tolerance {
	if isNonFinite(eps) || eps < 0 {
		return DefaultTolerance()
	}

	return Tolerance(eps)
}

// IsZero reports |v| <= tol.
func (t Tolerance) IsZero(v float64) bool { return math.Abs(v) <= float64(t) }

// IsPositive reports v > tol.
func (t Tolerance) IsPositive(v float64) bool { return v > float64(t) }

// IsNegative reports v < -tol.
func (t Tolerance) IsNegative(v float64) bool { return v < -float64(t) }

// Equal reports |a-b| <= tol.
func (t Tolerance) Equal(a, b float64) bool { return math.Abs(a-b) <= float64(t) }

// LessEq reports a <= b + tol.
func (t Tolerance) LessEq(a, b float64) bool { return a <= b+float64(t) }

// GreaterEq reports a >= b - tol.
func (t Tolerance) GreaterEq(a, b float64) bool { return a >= b-float64(t) }

// Snap rounds v to the nearest integer when it lies within tol of it and
// flushes |v| <= tol to an exact 0 (never -0).
func (t Tolerance) Snap(v float64) float64 {
	if t.IsZero(v) {
		return 0
	}
	r := math.Round(v)
	if math.Abs(v-r) <= float64(t) {
		return r
	}

	return v
}

// SnapTo returns target when v lies within tol of it, otherwise v.
func (t Tolerance) SnapTo(v, target float64) float64 {
	if !math.IsInf(target, 0) && t.Equal(v, target) {
		return target
	}

	return v
}

// ---------- Public option type (functional) ----------

// Option mutates internal options. Safe to apply repeatedly (idempotent).
type Option func(*Options)

// Options stores the effective configuration after applying Option setters.
type Options struct {
	eps            float64 // >= 0; DefaultEpsilon
	pivotEps       float64 // > 0; DefaultPivotEpsilon
	validateNaNInf bool    // DefaultValidateNaNInf
}

// WithEpsilon sets the absolute tolerance used by comparisons against zero.
// Panics with a stable message when eps is negative or non-finite.
func WithEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps < 0 {
		panic(panicEpsilonInvalid)
	}

	return func(o *Options) { o.eps = eps }
}

// WithPivotEpsilon sets the smallest pivot magnitude accepted by LU.
// Panics with a stable message when eps is not finite and positive.
func WithPivotEpsilon(eps float64) Option {
	if isNonFinite(eps) || eps <= 0 {
		panic(panicPivotInvalid)
	}

	return func(o *Options) { o.pivotEps = eps }
}

// WithNoValidateNaNInf disables NaN/Inf validation in Set (use with care).
func WithNoValidateNaNInf() Option {
	return func(o *Options) { o.validateNaNInf = false }
}

// gatherOptions resolves opts over the package defaults.
func gatherOptions(opts ...Option) Options {
	o := Options{
		eps:            DefaultEpsilon,
		pivotEps:       DefaultPivotEpsilon,
		validateNaNInf: DefaultValidateNaNInf,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// isNonFinite reports NaN or ±Inf.
func isNonFinite(v float64) bool { return math.IsNaN(v) || math.IsInf(v, 0) }
