package solution

import (
	"fmt"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/katalvlaran/balance/matrix"
	"github.com/katalvlaran/balance/model"
)

// DefaultSnapTolerance is the window used to snap values to integers and bounds.
const DefaultSnapTolerance = 1e-7

// Solution is the immutable result of a solve. All accessors return copies.
type Solution struct {
	status    Status
	values    []float64
	names     []string
	objective float64
	diag      Diagnostics
	sens      *Sensitivity
}

// Input carries everything Assemble needs. Problem is optional; when set,
// the objective is re-evaluated in original space and the point is checked.
type Input struct {
	Problem     *model.Problem
	Form        *model.StandardForm
	Status      Status
	X           []float64 // standard-form point, nil when the solver has none
	Diagnostics Diagnostics
	Sensitivity *Sensitivity

	// SnapTolerance defaults to DefaultSnapTolerance.
	SnapTolerance float64
	// FeasibilityTolerance triggers ToleranceNearViolated; defaults to SnapTolerance.
	FeasibilityTolerance float64
}

// Assemble maps a standard-form point back to original variables, snaps
// values near integers or bounds, and packages the immutable Solution.
func Assemble(in Input) *Solution {
	snap := in.SnapTolerance
	if snap <= 0 {
		snap = DefaultSnapTolerance
	}
	feas := in.FeasibilityTolerance
	if feas <= 0 {
		feas = snap
	}
	tol := matrix.NewTolerance(snap)

	s := &Solution{
		status: in.Status,
		diag:   in.Diagnostics,
		sens:   in.Sensitivity.clone(),
	}
	s.diag.Warnings = append([]NumericalWarning(nil), in.Diagnostics.Warnings...)

	if in.Form == nil || in.X == nil {
		return s
	}
	s.values = in.Form.Recover(in.X)
	s.objective = in.Form.OriginalObjective(in.Form.Objective(in.X))

	if in.Problem == nil {
		for j := range s.values {
			s.values[j] = tol.Snap(s.values[j])
		}

		return s
	}

	s.names = make([]string, len(s.values))
	for j := range s.values {
		id := model.VariableID(j)
		v, _ := in.Problem.Variable(id)
		x := tol.SnapTo(tol.SnapTo(s.values[j], v.Lower), v.Upper)
		s.values[j] = tol.Snap(x)
		s.names[j] = in.Problem.VariableName(id)
	}
	s.objective = tol.Snap(in.Problem.ObjectiveValue(s.values))

	if viol, err := in.Problem.Check(s.values, 0); err == nil {
		var worst float64
		for _, v := range viol {
			worst = math.Max(worst, v.Amount)
		}
		s.diag.MaxViolation = worst
		if worst > feas && s.status == Optimal {
			s.diag.Warnings = append(s.diag.Warnings, NumericalWarning{
				Kind:      ToleranceNearViolated,
				Iteration: s.diag.Iterations,
				Detail:    fmt.Sprintf("max violation %.3g exceeds %.3g", worst, feas),
			})
		}
	}

	return s
}

// Status returns the terminal status.
func (s *Solution) Status() Status { return s.status }

// IsOptimal reports Status() == Optimal.
func (s *Solution) IsOptimal() bool { return s.status == Optimal }

// Objective returns the objective in the problem's own direction.
func (s *Solution) Objective() float64 { return s.objective }

// Value returns the value of id; ok is false when no point is available.
func (s *Solution) Value(id model.VariableID) (float64, bool) {
	if id < 0 || int(id) >= len(s.values) {
		return 0, false
	}

	return s.values[id], true
}

// Values returns a fresh id → value map.
func (s *Solution) Values() map[model.VariableID]float64 {
	out := make(map[model.VariableID]float64, len(s.values))
	for j, v := range s.values {
		out[model.VariableID(j)] = v
	}

	return out
}

// ValueSlice returns values ordered by VariableID.
func (s *Solution) ValueSlice() []float64 { return append([]float64(nil), s.values...) }

// Diagnostics returns a copy of the diagnostics.
func (s *Solution) Diagnostics() Diagnostics {
	d := s.diag
	d.Warnings = append([]NumericalWarning(nil), s.diag.Warnings...)

	return d
}

// Sensitivity returns a copy of the sensitivity block; ok is false when it was
// not requested or not applicable.
func (s *Solution) Sensitivity() (*Sensitivity, bool) {
	if s.sens == nil {
		return nil, false
	}

	return s.sens.clone(), true
}

// Summary renders a human-readable report.
func (s *Solution) Summary() string {
	var b strings.Builder
	fmt.Fprintf(&b, "status: %s\n", s.status)
	if s.values != nil {
		fmt.Fprintf(&b, "objective: %.6g\n", s.objective)
	}
	fmt.Fprintf(&b, "algorithm: %s, iterations: %d (phase 1: %d), refactorizations: %d, elapsed: %s\n",
		s.diag.Algorithm, s.diag.Iterations, s.diag.Phase1Iterations, s.diag.Refactorizations, s.diag.Elapsed)
	for _, w := range s.diag.Warnings {
		fmt.Fprintf(&b, "warning: %s\n", w)
	}
	if len(s.values) > 0 {
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "variable\tvalue")
		for j, v := range s.values {
			name := fmt.Sprintf("x%d", j)
			if s.names != nil {
				name = s.names[j]
			}
			fmt.Fprintf(tw, "%s\t%.6g\n", name, v)
		}
		_ = tw.Flush()
	}
	if s.sens != nil && len(s.sens.Constraints) > 0 {
		tw := tabwriter.NewWriter(&b, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "constraint\tactivity\tshadow price\tbinding")
		for _, c := range s.sens.Constraints {
			fmt.Fprintf(tw, "%s\t%.6g\t%.6g\t%t\n", c.Name, c.Activity, c.ShadowPrice, c.Binding)
		}
		_ = tw.Flush()
	}

	return b.String()
}
