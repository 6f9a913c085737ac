package solution

import (
	"fmt"
	"time"

	"github.com/katalvlaran/balance/model"
)

// Status is the terminal outcome of a solve. Every outcome, including
// "no feasible plan exists", is a Status rather than an error.
type Status int

const (
	// Unknown is the zero value; no solver returns it.
	Unknown Status = iota
	// Optimal means a feasible point with provably optimal objective was found.
	Optimal
	// Infeasible means no point satisfies every constraint and bound.
	Infeasible
	// Unbounded means the objective improves without limit.
	Unbounded
	// IterationLimitExceeded means the iteration cap was hit first.
	IterationLimitExceeded
	// Cancelled means the context was cancelled.
	Cancelled
	// TimedOut means the time limit or context deadline passed.
	TimedOut
)

var statusNames = [...]string{
	Unknown:                "Unknown",
	Optimal:                "Optimal",
	Infeasible:             "Infeasible",
	Unbounded:              "Unbounded",
	IterationLimitExceeded: "IterationLimitExceeded",
	Cancelled:              "Cancelled",
	TimedOut:               "TimedOut",
}

// String implements fmt.Stringer.
func (s Status) String() string {
	if s >= 0 && int(s) < len(statusNames) {
		return statusNames[s]
	}

	return fmt.Sprintf("Status(%d)", int(s))
}

// Algorithm names the path that produced a Solution.
type Algorithm string

const (
	AlgorithmSimplex       Algorithm = "simplex"
	AlgorithmInteriorPoint Algorithm = "interior-point"
	// AlgorithmCrossover is an interior-point solve finished by a simplex crossover.
	AlgorithmCrossover Algorithm = "interior-point+crossover"
)

// WarningKind classifies a NumericalWarning.
type WarningKind int

const (
	// RefactorForced: the basis was refactorized early because ‖B·x_B − b‖∞ drifted.
	RefactorForced WarningKind = iota
	// ToleranceNearViolated: the reported point violates a row or bound by more than the tolerance.
	ToleranceNearViolated
	// WarmStartRejected: a supplied initial basis was singular or infeasible and was ignored.
	WarmStartRejected
	// RegularizedFactorization: the interior normal equations needed diagonal regularization.
	RegularizedFactorization
)

// String implements fmt.Stringer.
func (k WarningKind) String() string {
	switch k {
	case RefactorForced:
		return "RefactorForced"
	case ToleranceNearViolated:
		return "ToleranceNearViolated"
	case WarmStartRejected:
		return "WarmStartRejected"
	case RegularizedFactorization:
		return "RegularizedFactorization"
	default:
		return fmt.Sprintf("WarningKind(%d)", int(k))
	}
}

// NumericalWarning is diagnostic metadata; it never changes the Status.
type NumericalWarning struct {
	Kind      WarningKind
	Iteration int
	Detail    string
}

// String implements fmt.Stringer.
func (w NumericalWarning) String() string {
	return fmt.Sprintf("%s@%d: %s", w.Kind, w.Iteration, w.Detail)
}

// Diagnostics describes how a Solution was obtained.
type Diagnostics struct {
	Algorithm        Algorithm
	Iterations       int
	Phase1Iterations int
	Refactorizations int
	Elapsed          time.Duration
	// MaxViolation is the largest row or bound violation of the reported point.
	MaxViolation float64
	Warnings     []NumericalWarning
}

// ConstraintSensitivity is the post-optimal data of one original constraint.
//
// Dual is ∂objective/∂rhs in the problem's own direction. ShadowPrice is the
// objective improvement per unit of relaxation (rhs raised for ≤ and = rows,
// lowered for ≥ rows), so a binding resource always shows a non-negative price.
// [RHSLower, RHSUpper] keeps the current basis primal feasible.
type ConstraintSensitivity struct {
	ID          model.ConstraintID
	Name        string
	Activity    float64
	Slack       float64
	Binding     bool
	Dual        float64
	ShadowPrice float64
	RHSLower    float64
	RHSUpper    float64
}

// VariableSensitivity is the post-optimal data of one original variable.
// ReducedCost is in the problem's own direction; [CostLower, CostUpper]
// keeps the current basis optimal.
type VariableSensitivity struct {
	ID          model.VariableID
	Name        string
	Basic       bool
	ReducedCost float64
	CostLower   float64
	CostUpper   float64
}

// Sensitivity groups per-row and per-variable data.
type Sensitivity struct {
	Constraints []ConstraintSensitivity
	Variables   []VariableSensitivity
}

func (s *Sensitivity) clone() *Sensitivity {
	if s == nil {
		return nil
	}

	return &Sensitivity{
		Constraints: append([]ConstraintSensitivity(nil), s.Constraints...),
		Variables:   append([]VariableSensitivity(nil), s.Variables...),
	}
}
