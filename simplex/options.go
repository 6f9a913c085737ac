package simplex

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"
)

// Documented defaults.
const (
	DefaultTolerance      = 1e-9
	DefaultBlandAfter     = 50
	DefaultRefactorEvery  = 64
	DefaultDriftTolerance = 1e-7
	// IterationFactor scales the default cap: IterationFactor × (rows + cols).
	IterationFactor = 20
)

// Options configures a simplex run.
//   - Tolerance: absolute zero tolerance for reduced costs, pivots and phase-1 feasibility.
//   - MaxIterations: hard cap over both phases; 0 means IterationFactor×(m+n).
//   - BlandAfter: consecutive degenerate pivots before switching to Bland's rule
//     (0 means DefaultBlandAfter, 1 switches on the first degenerate pivot).
//   - RefactorEvery: eta updates between scheduled refactorizations.
//   - DriftTolerance: ‖B·x_B − b‖∞ / (1+‖b‖∞) above which refactorization is forced.
//   - TimeLimit: wall-clock budget; 0 disables it (the context deadline still applies).
//   - InitialBasis: optional warm start, one standard-form column per row;
//     −1 marks the unit column of that row. Rejected hints fall back to the
//     slack/artificial basis with a WarmStartRejected warning.
//   - Logger: debug output for phase changes and refactorizations; nil is silent.
type Options struct {
	Tolerance      float64
	MaxIterations  int
	BlandAfter     int
	RefactorEvery  int
	DriftTolerance float64
	TimeLimit      time.Duration
	InitialBasis   []int
	Logger         *slog.Logger
}

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Tolerance:      DefaultTolerance,
		BlandAfter:     DefaultBlandAfter,
		RefactorEvery:  DefaultRefactorEvery,
		DriftTolerance: DefaultDriftTolerance,
	}
}

// validate rejects nonsensical values; zero values were already defaulted.
func (o Options) validate() error {
	switch {
	case !(o.Tolerance > 0) || o.Tolerance >= 1:
		return fmt.Errorf("tolerance %g: %w", o.Tolerance, ErrInvalidOptions)
	case o.MaxIterations < 0:
		return fmt.Errorf("max iterations %d: %w", o.MaxIterations, ErrInvalidOptions)
	case o.BlandAfter < 0:
		return fmt.Errorf("bland after %d: %w", o.BlandAfter, ErrInvalidOptions)
	case o.RefactorEvery <= 0:
		return fmt.Errorf("refactor every %d: %w", o.RefactorEvery, ErrInvalidOptions)
	case !(o.DriftTolerance > 0):
		return fmt.Errorf("drift tolerance %g: %w", o.DriftTolerance, ErrInvalidOptions)
	case o.TimeLimit < 0:
		return fmt.Errorf("time limit %s: %w", o.TimeLimit, ErrInvalidOptions)
	}

	return nil
}

// withDefaults fills zero fields.
func (o Options) withDefaults() Options {
	if o.Tolerance == 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.BlandAfter == 0 {
		o.BlandAfter = DefaultBlandAfter
	}
	if o.RefactorEvery == 0 {
		o.RefactorEvery = DefaultRefactorEvery
	}
	if o.DriftTolerance == 0 {
		o.DriftTolerance = DefaultDriftTolerance
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	return o
}
