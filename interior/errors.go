package interior

import "errors"

var (
	// ErrNilForm is returned when Solve receives a nil standard form.
	ErrNilForm = errors.New("interior: nil standard form")

	// ErrInvalidOptions is returned for out-of-range option values.
	ErrInvalidOptions = errors.New("interior: invalid options")

	// ErrNumerical is returned when the normal equations cannot be factorized
	// even after regularization.
	ErrNumerical = errors.New("interior: numerical failure")
)
