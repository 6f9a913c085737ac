package planning

import "errors"

var (
	// ErrInvalidScenario indicates missing, duplicate or out-of-range scenario data.
	ErrInvalidScenario = errors.New("planning: invalid scenario")

	// ErrNotOptimal is returned by plan accessors that need an optimal solution.
	ErrNotOptimal = errors.New("planning: plan is not optimal")
)
