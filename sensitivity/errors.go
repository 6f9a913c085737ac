package sensitivity

import "errors"

var (
	// ErrNotApplicable is returned for a result that is not Optimal or has no
	// basis (an interior-point run without crossover).
	ErrNotApplicable = errors.New("sensitivity: not applicable")

	// ErrDimensionMismatch is returned when the problem, standard form and
	// result do not describe the same LP.
	ErrDimensionMismatch = errors.New("sensitivity: dimension mismatch")
)
