package engine

import "errors"

var (
	// ErrNilProblem is returned when Solve receives a nil *model.Problem.
	ErrNilProblem = errors.New("engine: nil problem")

	// ErrInvalidOptions is returned when the resolved Options are out of range.
	ErrInvalidOptions = errors.New("engine: invalid options")
)
