package sensitivity

import (
	"fmt"
	"math"

	"github.com/katalvlaran/balance/matrix"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/simplex"
	"github.com/katalvlaran/balance/solution"
)

var inf = math.Inf(1)

type analyzer struct {
	sf  *model.StandardForm
	res *simplex.Result
	inv *matrix.Dense // B⁻¹, nil when there are no rows
	tol float64

	m, n       int
	xB         []float64
	pos        []int // standard-form column → basis position, −1 when nonbasic
	boundSlack []int // original variable → its upper-bound slack column, −1 when none
}

// Analyze derives the sensitivity report of an optimal simplex result.
//
// Implementation:
//   - Stage 1: invert the optimal basis once and recover x_B = B⁻¹b.
//   - Stage 2: per constraint, map the row dual through the row sign and the
//     objective direction; range the RHS with β = B⁻¹e_i (column i of the
//     inverse) so that x_B + δ·β ≥ 0.
//   - Stage 3: per variable, map the reduced cost of its column; range the
//     cost with α = B⁻ᵀe_r·A_k over nonbasic k when basic, or with its own
//     reduced cost when nonbasic.
//
// Complexity: O(m³ + m·nnz(A)); the explicit inverse holds m² values.
//
// Errors: ErrNotApplicable when res is not Optimal or carries no basis;
// ErrDimensionMismatch when the inputs disagree; factorization errors wrapped.
func Analyze(p *model.Problem, sf *model.StandardForm, res *simplex.Result, tol float64) (*solution.Sensitivity, error) {
	if p == nil || sf == nil || res == nil {
		return nil, fmt.Errorf("nil input: %w", ErrNotApplicable)
	}
	if res.Status != solution.Optimal || res.Basis == nil || res.Duals == nil || res.ReducedCosts == nil {
		return nil, fmt.Errorf("status %s: %w", res.Status, ErrNotApplicable)
	}
	m, n := sf.NumRows(), sf.NumCols()
	if len(res.Basis) != m || len(res.Duals) != m || len(res.X) != n || len(res.ReducedCosts) != n ||
		len(sf.Vars) != p.NumVariables() || m < p.NumConstraints() {
		return nil, ErrDimensionMismatch
	}
	if tol <= 0 {
		tol = simplex.DefaultTolerance
	}

	var (
		inv   *matrix.Dense
		basis *matrix.Dense
		xB    = []float64{}
		err   error
	)
	if m > 0 {
		if basis, err = simplex.BasisMatrix(sf, res.Basis); err != nil {
			return nil, fmt.Errorf("sensitivity: basis: %w", err)
		}
		if inv, err = matrix.Inverse(basis); err != nil {
			return nil, fmt.Errorf("sensitivity: basis: %w", err)
		}
		if xB, err = matrix.MatVec(inv, sf.B); err != nil {
			return nil, fmt.Errorf("sensitivity: basic values: %w", err)
		}
	}
	a := &analyzer{
		sf: sf, res: res, inv: inv, tol: tol,
		m: m, n: n, xB: xB,
		pos:        make([]int, n),
		boundSlack: make([]int, len(sf.Vars)),
	}
	for j := range a.pos {
		a.pos[j] = -1
	}
	for r, j := range res.Basis {
		if j >= 0 {
			a.pos[j] = r
		}
	}
	for j := range a.boundSlack {
		a.boundSlack[j] = -1
	}
	for k, col := range sf.Columns {
		if col.Kind == model.ColUpperBoundSlack {
			a.boundSlack[col.Var] = k
		}
	}

	out := &solution.Sensitivity{}
	if out.Constraints, err = a.constraints(p); err != nil {
		return nil, err
	}
	if out.Variables, err = a.variables(p); err != nil {
		return nil, err
	}

	return out, nil
}

func (a *analyzer) dirSign() float64 {
	if a.sf.Direction == model.Maximize {
		return -1
	}

	return 1
}

func (a *analyzer) constraints(p *model.Problem) ([]solution.ConstraintSensitivity, error) {
	act, err := p.Evaluate(a.sf.Recover(a.res.X))
	if err != nil {
		return nil, err
	}
	out := make([]solution.ConstraintSensitivity, p.NumConstraints())
	for i := range out {
		id := model.ConstraintID(i)
		con, _ := p.Constraint(id)

		// ∂(internal objective)/∂rhs.
		y := a.res.Duals[i] * a.sf.RowSign[i]
		relax := 1.0
		slack := con.RHS - act[i]
		if con.Relation == model.GreaterEq {
			relax = -1
			slack = -slack
		}
		lo, hi, err := a.rhsRange(i)
		if err != nil {
			return nil, err
		}
		if a.sf.RowSign[i] < 0 {
			lo, hi = -hi, -lo
		}

		out[i] = solution.ConstraintSensitivity{
			ID:          id,
			Name:        p.ConstraintName(id),
			Activity:    act[i],
			Slack:       clean(slack),
			Binding:     con.Relation == model.Equal || math.Abs(slack) <= a.tol*(1+math.Abs(con.RHS)),
			Dual:        clean(a.dirSign() * y),
			ShadowPrice: clean(-relax * y),
			RHSLower:    con.RHS + lo,
			RHSUpper:    con.RHS + hi,
		}
	}

	return out, nil
}

// rhsRange returns the interval of δ on b_i keeping x_B + δ·B⁻¹e_i ≥ 0.
// A redundant row's artificial must stay at zero, which pins the range.
func (a *analyzer) rhsRange(i int) (lo, hi float64, err error) {
	beta, err := a.inv.Column(i, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("sensitivity: row %d: %w", i, err)
	}
	lo, hi = -inf, inf
	for r, br := range beta {
		if math.Abs(br) <= a.tol {
			continue
		}
		if a.res.Basis[r] < 0 {
			return 0, 0, nil
		}
		ratio := -math.Max(a.xB[r], 0) / br
		if br > 0 {
			lo = math.Max(lo, ratio)
		} else {
			hi = math.Min(hi, ratio)
		}
	}

	return lo, hi, nil
}

func (a *analyzer) variables(p *model.Problem) ([]solution.VariableSensitivity, error) {
	d := a.res.ReducedCosts
	out := make([]solution.VariableSensitivity, len(a.sf.Vars))
	for j, vm := range a.sf.Vars {
		id := model.VariableID(j)
		v, _ := p.Variable(id)
		f := a.dirSign() * vm.Sign

		rc := d[vm.Pos]
		if s := a.boundSlack[j]; s >= 0 {
			rc -= d[s]
		}
		lo, hi, err := a.costRange(vm)
		if err != nil {
			return nil, err
		}
		if f < 0 {
			lo, hi = -hi, -lo
		}

		out[j] = solution.VariableSensitivity{
			ID:          id,
			Name:        p.VariableName(id),
			Basic:       a.pos[vm.Pos] >= 0 || (vm.Neg >= 0 && a.pos[vm.Neg] >= 0),
			ReducedCost: clean(f * rc),
			CostLower:   v.Cost + lo,
			CostUpper:   v.Cost + hi,
		}
	}

	return out, nil
}

// costRange returns the interval of δ on the internal cost of vm's column
// keeping every reduced cost non-negative.
func (a *analyzer) costRange(vm model.VarMapping) (lo, hi float64, err error) {
	if r := a.pos[vm.Pos]; r >= 0 {
		return a.basicRange(r, vm.Neg)
	}
	if vm.Neg >= 0 {
		if r := a.pos[vm.Neg]; r >= 0 {
			lo, hi, err = a.basicRange(r, vm.Pos)
			return -hi, -lo, err
		}
	}
	lo, hi = -a.res.ReducedCosts[vm.Pos], inf
	if vm.Neg >= 0 {
		hi = a.res.ReducedCosts[vm.Neg]
	}

	return lo, hi, nil
}

// basicRange ranges the cost of the basic column at position r:
// d_k − δ·α_rk ≥ 0 for every nonbasic k other than skip.
func (a *analyzer) basicRange(r, skip int) (lo, hi float64, err error) {
	e := make([]float64, a.m)
	e[r] = 1
	rho, err := matrix.MatTransVec(a.inv, e)
	if err != nil {
		return 0, 0, fmt.Errorf("sensitivity: position %d: %w", r, err)
	}
	lo, hi = -inf, inf
	for k := 0; k < a.n; k++ {
		if a.pos[k] >= 0 || k == skip {
			continue
		}
		alpha := a.sf.A.ColDot(k, rho)
		if math.Abs(alpha) <= a.tol {
			continue
		}
		ratio := math.Max(a.res.ReducedCosts[k], 0) / alpha
		if alpha > 0 {
			hi = math.Min(hi, ratio)
		} else {
			lo = math.Max(lo, ratio)
		}
	}

	return lo, hi, nil
}

// clean folds −0 into 0.
func clean(v float64) float64 {
	if v == 0 {
		return 0
	}

	return v
}
