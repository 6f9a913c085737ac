package engine

import (
	"time"

	"github.com/katalvlaran/balance/solution"
)

// Recorder receives one observation per finished solve. Implementations must
// be safe for concurrent use; metrics.Collector is the Prometheus one.
type Recorder interface {
	// ObserveSolve is called once per problem with its final diagnostics.
	ObserveSolve(strategy Strategy, status solution.Status, diag solution.Diagnostics, elapsed time.Duration)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(strategy Strategy, status solution.Status, diag solution.Diagnostics, elapsed time.Duration)

// ObserveSolve implements Recorder.
func (f RecorderFunc) ObserveSolve(strategy Strategy, status solution.Status, diag solution.Diagnostics, elapsed time.Duration) {
	f(strategy, status, diag, elapsed)
}
