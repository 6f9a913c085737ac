package interior

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"time"

	"github.com/katalvlaran/balance/simplex"
)

// Documented defaults.
const (
	DefaultTolerance       = 1e-8
	DefaultMaxIterations   = 200
	DefaultSigma0          = 0.5
	DefaultSigmaDecay      = 0.7
	DefaultSigmaMin        = 0.05
	DefaultStepFraction    = 0.995
	DefaultStallWindow     = 30
	DefaultStallFactor     = 0.9
	DefaultDivergenceLimit = 1e10
)

// Options configures the path-following iteration.
//   - Tolerance: bound on relative gap, primal and dual residuals.
//   - Sigma0, SigmaDecay, SigmaMin: centering σ_k = max(SigmaMin, Sigma0·SigmaDecay^k).
//   - StepFraction: fraction-to-boundary factor keeping x and s strictly positive.
//   - StallWindow, StallFactor: a residual that fails to shrink by StallFactor
//     over StallWindow iterations ends the run as Infeasible or Unbounded.
//   - DivergenceLimit: ‖x‖∞ or ‖y‖∞ above it ends the run the same way.
//   - Crossover: recover a vertex basis and finish with simplex (Simplex options).
type Options struct {
	Tolerance       float64
	MaxIterations   int
	Sigma0          float64
	SigmaDecay      float64
	SigmaMin        float64
	StepFraction    float64
	StallWindow     int
	StallFactor     float64
	DivergenceLimit float64
	TimeLimit       time.Duration
	Crossover       bool
	Simplex         simplex.Options
	Logger          *slog.Logger
}

// DefaultOptions returns the documented defaults without crossover.
func DefaultOptions() Options {
	return Options{
		Tolerance:       DefaultTolerance,
		MaxIterations:   DefaultMaxIterations,
		Sigma0:          DefaultSigma0,
		SigmaDecay:      DefaultSigmaDecay,
		SigmaMin:        DefaultSigmaMin,
		StepFraction:    DefaultStepFraction,
		StallWindow:     DefaultStallWindow,
		StallFactor:     DefaultStallFactor,
		DivergenceLimit: DefaultDivergenceLimit,
		Simplex:         simplex.DefaultOptions(),
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Tolerance == 0 {
		o.Tolerance = d.Tolerance
	}
	if o.MaxIterations == 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.Sigma0 == 0 {
		o.Sigma0 = d.Sigma0
	}
	if o.SigmaDecay == 0 {
		o.SigmaDecay = d.SigmaDecay
	}
	if o.SigmaMin == 0 {
		o.SigmaMin = d.SigmaMin
	}
	if o.StepFraction == 0 {
		o.StepFraction = d.StepFraction
	}
	if o.StallWindow == 0 {
		o.StallWindow = d.StallWindow
	}
	if o.StallFactor == 0 {
		o.StallFactor = d.StallFactor
	}
	if o.DivergenceLimit == 0 {
		o.DivergenceLimit = d.DivergenceLimit
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	return o
}

func (o Options) validate() error {
	switch {
	case !(o.Tolerance > 0) || o.Tolerance >= 1:
		return fmt.Errorf("tolerance %g: %w", o.Tolerance, ErrInvalidOptions)
	case o.MaxIterations < 0:
		return fmt.Errorf("max iterations %d: %w", o.MaxIterations, ErrInvalidOptions)
	case !(o.Sigma0 > 0 && o.Sigma0 < 1), !(o.SigmaDecay > 0 && o.SigmaDecay <= 1),
		!(o.SigmaMin > 0 && o.SigmaMin <= o.Sigma0):
		return fmt.Errorf("centering schedule: %w", ErrInvalidOptions)
	case !(o.StepFraction > 0 && o.StepFraction < 1):
		return fmt.Errorf("step fraction %g: %w", o.StepFraction, ErrInvalidOptions)
	case o.StallWindow < 1, !(o.StallFactor > 0 && o.StallFactor < 1):
		return fmt.Errorf("stall detection: %w", ErrInvalidOptions)
	case !(o.DivergenceLimit > 1):
		return fmt.Errorf("divergence limit %g: %w", o.DivergenceLimit, ErrInvalidOptions)
	case o.TimeLimit < 0:
		return fmt.Errorf("time limit %s: %w", o.TimeLimit, ErrInvalidOptions)
	}

	return nil
}
