package simplex

import (
	"fmt"

	"github.com/katalvlaran/balance/matrix"
	"github.com/katalvlaran/balance/model"
)

// Basis is the working basis of a run: head[r] is the column basic at
// position r and xB its values. Column indices ≥ n denote the artificial
// unit column of row index−n; an artificial only ever sits at the position
// equal to its row. The factorization is an LU plus an eta file.
type Basis struct {
	a    *matrix.Sparse
	b    []float64
	n, m int

	head []int
	pos  []int // structural column → basis position, −1 when nonbasic
	xB   []float64
	pf   *matrix.ProductForm
}

func newBasis(sf *model.StandardForm, head []int) *Basis {
	bs := &Basis{
		a:    sf.A,
		b:    sf.B,
		n:    sf.NumCols(),
		m:    sf.NumRows(),
		head: append([]int(nil), head...),
		pos:  make([]int, sf.NumCols()),
	}
	for j := range bs.pos {
		bs.pos[j] = -1
	}
	for r, j := range bs.head {
		if j < bs.n {
			bs.pos[j] = r
		}
	}

	return bs
}

// Head returns a copy of the basic columns, with artificials reported as −1.
func (bs *Basis) Head() []int {
	out := make([]int, bs.m)
	for r, j := range bs.head {
		if j >= bs.n {
			j = -1
		}
		out[r] = j
	}

	return out
}

// Values returns a copy of the basic variable values.
func (bs *Basis) Values() []float64 { return append([]float64(nil), bs.xB...) }

func (bs *Basis) isArtificial(r int) bool { return bs.head[r] >= bs.n }

func (bs *Basis) column(j int) []matrix.Entry {
	if j >= bs.n {
		return []matrix.Entry{{Index: j - bs.n, Value: 1}}
	}

	return bs.a.ColEntries(j)
}

// refactor factorizes the current head from scratch and recomputes xB.
func (bs *Basis) refactor() error {
	cols := make([][]matrix.Entry, bs.m)
	for r, j := range bs.head {
		cols[r] = bs.column(j)
	}
	lu, err := matrix.FactorizeColumns(bs.m, cols)
	if err != nil {
		return err
	}
	bs.pf = matrix.NewProductForm(lu)
	bs.xB, err = bs.pf.Solve(bs.b)

	return err
}

// ftran returns B⁻¹·A_q for a structural column q.
func (bs *Basis) ftran(q int, scratch []float64) ([]float64, error) {
	bs.a.ScatterCol(q, scratch)

	return bs.pf.Solve(scratch)
}

// btran returns y with Bᵀ·y = cB.
func (bs *Basis) btran(cB []float64) ([]float64, error) { return bs.pf.SolveTrans(cB) }

// pivot makes q basic at position r with step theta along d = B⁻¹·A_q.
func (bs *Basis) pivot(r, q int, d []float64, theta float64) error {
	if err := bs.pf.Update(r, d); err != nil {
		return err
	}
	for i := range bs.xB {
		bs.xB[i] -= theta * d[i]
	}
	bs.xB[r] = theta
	if old := bs.head[r]; old < bs.n {
		bs.pos[old] = -1
	}
	bs.head[r] = q
	bs.pos[q] = r

	return nil
}

// residual returns ‖B·xB − b‖∞.
func (bs *Basis) residual() float64 {
	res := make([]float64, bs.m)
	copy(res, bs.b)
	for r, j := range bs.head {
		if j >= bs.n {
			res[j-bs.n] -= bs.xB[r]
			continue
		}
		rows, vals := bs.a.Col(j)
		for k, i := range rows {
			res[i] -= vals[k] * bs.xB[r]
		}
	}

	return matrix.NormInf(res)
}

// FactorBasis factorizes the basis matrix of sf given by head (−1 marks the
// unit column of that position's row). Used for crossover.
// Errors: ErrInvalidBasis for a wrong length, duplicate or out-of-range
// column; matrix.ErrSingular when the columns are dependent.
func FactorBasis(sf *model.StandardForm, head []int) (*matrix.LU, error) {
	cols, err := basisColumns(sf, head)
	if err != nil {
		return nil, err
	}

	return matrix.FactorizeColumns(len(cols), cols)
}

// BasisMatrix returns the basis matrix of sf given by head as a dense m×m
// matrix, for callers that need B⁻¹ explicitly. Errors as FactorBasis,
// without the singularity check.
func BasisMatrix(sf *model.StandardForm, head []int) (*matrix.Dense, error) {
	cols, err := basisColumns(sf, head)
	if err != nil {
		return nil, err
	}
	m := len(cols)
	data := make([]float64, m*m)
	for r, col := range cols {
		for _, e := range col {
			data[e.Index*m+r] += e.Value
		}
	}

	return matrix.NewDenseFrom(m, m, data)
}

func basisColumns(sf *model.StandardForm, head []int) ([][]matrix.Entry, error) {
	if sf == nil {
		return nil, ErrNilForm
	}
	m, n := sf.NumRows(), sf.NumCols()
	if len(head) != m {
		return nil, fmt.Errorf("length %d, want %d: %w", len(head), m, ErrInvalidBasis)
	}
	seen := make(map[int]bool, m)
	cols := make([][]matrix.Entry, m)
	for r, j := range head {
		switch {
		case j == -1:
			cols[r] = []matrix.Entry{{Index: r, Value: 1}}
		case j < 0 || j >= n || seen[j]:
			return nil, fmt.Errorf("position %d column %d: %w", r, j, ErrInvalidBasis)
		default:
			seen[j] = true
			cols[r] = sf.A.ColEntries(j)
		}
	}

	return cols, nil
}
