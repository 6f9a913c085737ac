package simplex

import "errors"

var (
	// ErrNilForm is returned when Solve receives a nil standard form.
	ErrNilForm = errors.New("simplex: nil standard form")

	// ErrInvalidOptions is returned for out-of-range option values.
	ErrInvalidOptions = errors.New("simplex: invalid options")

	// ErrInvalidBasis is returned by FactorBasis for a malformed basis.
	ErrInvalidBasis = errors.New("simplex: invalid basis")

	// ErrNumerical is returned when a basis cannot be refactorized after
	// accepted pivots; the run cannot continue meaningfully.
	ErrNumerical = errors.New("simplex: numerical breakdown")
)
