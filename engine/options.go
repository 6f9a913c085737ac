package engine

import (
	"fmt"
	"io"
	"log/slog"
	"math"
	"runtime"
	"time"

	"github.com/katalvlaran/balance/simplex"
)

// Documented defaults.
const (
	DefaultTolerance     = simplex.DefaultTolerance
	DefaultAutoThreshold = 5000
)

// Options configures Solve and SolveAll.
//   - Strategy: solver choice; Auto resolves once per problem by AutoThreshold.
//   - Tolerance: simplex zero tolerance; the interior point uses
//     max(Tolerance, interior.DefaultTolerance) as its convergence bound.
//   - MaxIterations: 0 means each solver's size-derived default.
//   - TimeLimit: wall-clock budget per problem; 0 disables it.
//   - ComputeSensitivity: attach shadow prices, reduced costs and ranges
//     when the result has an optimal basis.
//   - Crossover: finish interior-point solves with simplex.
//   - BlandAfter, RefactorEvery: simplex tuning; 0 keeps the defaults.
//   - Parallelism: SolveAll worker limit, default GOMAXPROCS.
//   - Logger, Recorder, Cache: optional collaborators owned by the caller.
type Options struct {
	Strategy           Strategy
	Tolerance          float64
	MaxIterations      int
	TimeLimit          time.Duration
	ComputeSensitivity bool
	AutoThreshold      int
	Crossover          bool
	BlandAfter         int
	RefactorEvery      int
	Parallelism        int
	Logger             *slog.Logger
	Recorder           Recorder
	Cache              *FactorCache
}

// Option mutates Options.
type Option func(*Options)

// DefaultOptions returns the documented defaults.
func DefaultOptions() Options {
	return Options{
		Strategy:      Auto,
		Tolerance:     DefaultTolerance,
		AutoThreshold: DefaultAutoThreshold,
		Parallelism:   runtime.GOMAXPROCS(0),
		Logger:        slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)})),
	}
}

// NewOptions applies opts over DefaultOptions.
func NewOptions(opts ...Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	return o
}

// WithStrategy selects the solver.
func WithStrategy(s Strategy) Option {
	return func(o *Options) { o.Strategy = s }
}

// WithTolerance sets the zero tolerance. Panics if tol is not in (0, 1).
func WithTolerance(tol float64) Option {
	if math.IsNaN(tol) || tol <= 0 || tol >= 1 {
		panic(fmt.Sprintf("engine: WithTolerance(%g): must be in (0, 1)", tol))
	}

	return func(o *Options) { o.Tolerance = tol }
}

// WithMaxIterations caps solver iterations; 0 restores the size-derived default.
// Panics if n < 0.
func WithMaxIterations(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("engine: WithMaxIterations(%d): must be non-negative", n))
	}

	return func(o *Options) { o.MaxIterations = n }
}

// WithTimeLimit bounds each solve. Panics if d < 0.
func WithTimeLimit(d time.Duration) Option {
	if d < 0 {
		panic(fmt.Sprintf("engine: WithTimeLimit(%s): must be non-negative", d))
	}

	return func(o *Options) { o.TimeLimit = d }
}

// WithSensitivity enables sensitivity analysis.
func WithSensitivity(on bool) Option {
	return func(o *Options) { o.ComputeSensitivity = on }
}

// WithAutoThreshold sets the variable count above which Auto picks the
// interior point. The interior point keeps a dense m×m normal matrix, so
// problems with many thousands of rows are better left to simplex whatever
// their column count. Panics if n < 1.
func WithAutoThreshold(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("engine: WithAutoThreshold(%d): must be positive", n))
	}

	return func(o *Options) { o.AutoThreshold = n }
}

// WithCrossover toggles the simplex crossover after interior-point solves.
func WithCrossover(on bool) Option {
	return func(o *Options) { o.Crossover = on }
}

// WithBlandAfter sets the degenerate-pivot run before Bland's rule. Panics if n < 0.
func WithBlandAfter(n int) Option {
	if n < 0 {
		panic(fmt.Sprintf("engine: WithBlandAfter(%d): must be non-negative", n))
	}

	return func(o *Options) { o.BlandAfter = n }
}

// WithRefactorEvery sets the eta-file length that triggers refactorization.
// Panics if n < 1.
func WithRefactorEvery(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("engine: WithRefactorEvery(%d): must be positive", n))
	}

	return func(o *Options) { o.RefactorEvery = n }
}

// WithParallelism bounds SolveAll workers. Panics if n < 1.
func WithParallelism(n int) Option {
	if n < 1 {
		panic(fmt.Sprintf("engine: WithParallelism(%d): must be positive", n))
	}

	return func(o *Options) { o.Parallelism = n }
}

// WithLogger sets the structured logger; nil restores the silent default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l == nil {
			l = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
		}
		o.Logger = l
	}
}

// WithRecorder attaches a metrics sink.
func WithRecorder(r Recorder) Option {
	return func(o *Options) { o.Recorder = r }
}

// WithCache attaches a caller-owned basis cache used for warm starts.
func WithCache(c *FactorCache) Option {
	return func(o *Options) { o.Cache = c }
}

// Validate reports the first out-of-range field, wrapped in ErrInvalidOptions.
func (o Options) Validate() error {
	switch {
	case !o.Strategy.valid():
		return fmt.Errorf("strategy %s: %w", o.Strategy, ErrInvalidOptions)
	case math.IsNaN(o.Tolerance) || o.Tolerance <= 0 || o.Tolerance >= 1:
		return fmt.Errorf("tolerance %g: %w", o.Tolerance, ErrInvalidOptions)
	case o.MaxIterations < 0:
		return fmt.Errorf("max iterations %d: %w", o.MaxIterations, ErrInvalidOptions)
	case o.TimeLimit < 0:
		return fmt.Errorf("time limit %s: %w", o.TimeLimit, ErrInvalidOptions)
	case o.AutoThreshold < 1:
		return fmt.Errorf("auto threshold %d: %w", o.AutoThreshold, ErrInvalidOptions)
	case o.BlandAfter < 0:
		return fmt.Errorf("bland after %d: %w", o.BlandAfter, ErrInvalidOptions)
	case o.RefactorEvery < 0:
		return fmt.Errorf("refactor every %d: %w", o.RefactorEvery, ErrInvalidOptions)
	case o.Parallelism < 1:
		return fmt.Errorf("parallelism %d: %w", o.Parallelism, ErrInvalidOptions)
	}

	return nil
}

// logger never returns nil.
func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.Level(math.MaxInt)}))
	}

	return o.Logger
}
