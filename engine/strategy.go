package engine

import (
	"fmt"
	"strings"
)

// Strategy selects the solver.
type Strategy int

const (
	// Auto picks InteriorPoint above Options.AutoThreshold variables, Simplex otherwise.
	Auto Strategy = iota
	// Simplex is the two-phase revised simplex method.
	Simplex
	// InteriorPoint is the primal-dual path-following method.
	InteriorPoint
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Auto:
		return "auto"
	case Simplex:
		return "simplex"
	case InteriorPoint:
		return "interior-point"
	default:
		return fmt.Sprintf("Strategy(%d)", int(s))
	}
}

// ParseStrategy accepts the String forms, case-insensitively, plus "interior" and "ipm".
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return Auto, nil
	case "simplex":
		return Simplex, nil
	case "interior-point", "interior", "ipm":
		return InteriorPoint, nil
	default:
		return Auto, fmt.Errorf("strategy %q: %w", s, ErrInvalidOptions)
	}
}

func (s Strategy) valid() bool { return s >= Auto && s <= InteriorPoint }

// resolve maps Auto to a concrete strategy for a problem with nvars variables.
func (s Strategy) resolve(nvars, threshold int) Strategy {
	if s != Auto {
		return s
	}
	if nvars > threshold {
		return InteriorPoint
	}

	return Simplex
}
