package planning

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/solution"
)

// producedThreshold is the quantity below which a product counts as not
// produced when reporting its composition and quality.
const producedThreshold = 1e-3

// Material is a raw material blended into products.
type Material struct {
	Name      string
	Cost      float64 // per unit used
	Available float64 // +Inf for unlimited
	Quality   float64 // blended linearly, e.g. an octane number
}

// Product is a blend of materials.
type Product struct {
	Name       string
	Price      float64 // per unit sold
	Demand     float64 // production cap, +Inf for unlimited
	MinQuality float64 // weighted average quality floor
}

// ProductMix is a blending scenario: z[i,j] units of material i go into
// product j, y[j] units of product j are sold.
//
//	maximize   Σ_j price_j·y_j − Σ_i Σ_j cost_i·z_ij
//	subject to Σ_j z_ij ≤ available_i              (availability)
//	           Σ_i z_ij = y_j                      (mass balance)
//	           Σ_i quality_i·z_ij ≥ min_j·y_j      (quality)
//	           0 ≤ y_j ≤ demand_j,  z ≥ 0
type ProductMix struct {
	Materials []Material
	Products  []Product
}

// MixPlan is the interpreted result of a ProductMix solve.
type MixPlan struct {
	Status       solution.Status
	Revenue      decimal.Decimal
	MaterialCost decimal.Decimal
	Profit       decimal.Decimal
	Products     []ProductOutput
	Materials    []MaterialUsage
	Solution     *solution.Solution
}

// ProductOutput reports one product of a MixPlan.
type ProductOutput struct {
	Name        string
	Quantity    float64
	Demand      float64
	Quality     float64 // achieved; 0 when not produced
	MinQuality  float64
	Composition []Component // empty when not produced
}

// Component is one material's part of a product.
type Component struct {
	Material string
	Quantity float64
	Percent  float64
}

// MaterialUsage reports one material of a MixPlan.
type MaterialUsage struct {
	Name        string
	Used        float64
	Available   float64
	Utilization float64 // percent of Available; 0 when unlimited
	// ShadowPrice is the profit gained per extra unit available; set only
	// when the solve computed sensitivity and the material is limited.
	ShadowPrice float64
}

// mixLayout records where each scenario entity lives in the model.
type mixLayout struct {
	z            [][]model.VariableID // [material][product]
	y            []model.VariableID
	availability []model.ConstraintID // -1 when unlimited
}

// Validate checks names and numeric ranges.
func (pm ProductMix) Validate() error {
	if len(pm.Materials) == 0 || len(pm.Products) == 0 {
		return fmt.Errorf("no materials or products: %w", ErrInvalidScenario)
	}
	names := make([]string, 0, len(pm.Materials))
	for _, m := range pm.Materials {
		if !finite(m.Cost, m.Quality) || m.Available < 0 {
			return fmt.Errorf("material %q: %w", m.Name, ErrInvalidScenario)
		}
		names = append(names, m.Name)
	}
	if err := uniqueNames("material", names); err != nil {
		return err
	}
	names = names[:0]
	for _, p := range pm.Products {
		if !finite(p.Price, p.MinQuality) || p.Demand < 0 {
			return fmt.Errorf("product %q: %w", p.Name, ErrInvalidScenario)
		}
		names = append(names, p.Name)
	}

	return uniqueNames("product", names)
}

// Problem builds the linear program of the scenario.
func (pm ProductMix) Problem() (*model.Problem, error) {
	p, _, err := pm.build()
	return p, err
}

func (pm ProductMix) build() (*model.Problem, *mixLayout, error) {
	if err := pm.Validate(); err != nil {
		return nil, nil, err
	}
	b := newBuilder(model.Maximize)
	l := &mixLayout{
		z:            make([][]model.VariableID, len(pm.Materials)),
		y:            make([]model.VariableID, len(pm.Products)),
		availability: make([]model.ConstraintID, len(pm.Materials)),
	}
	for i, m := range pm.Materials {
		l.z[i] = make([]model.VariableID, len(pm.Products))
		for j, p := range pm.Products {
			l.z[i][j] = b.variable(fmt.Sprintf("z[%s,%s]", m.Name, p.Name), 0, inf, -m.Cost)
		}
	}
	for j, p := range pm.Products {
		l.y[j] = b.variable(fmt.Sprintf("y[%s]", p.Name), 0, p.Demand, p.Price)
	}

	for i, m := range pm.Materials {
		l.availability[i] = -1
		if m.Available == inf {
			continue
		}
		terms := make([]model.Term, len(pm.Products))
		for j := range pm.Products {
			terms[j] = model.Term{Var: l.z[i][j], Coef: 1}
		}
		l.availability[i] = b.constraint("availability "+m.Name, terms, model.LessEq, m.Available)
	}
	for j, p := range pm.Products {
		balance := make([]model.Term, 0, len(pm.Materials)+1)
		quality := make([]model.Term, 0, len(pm.Materials)+1)
		for i, m := range pm.Materials {
			balance = append(balance, model.Term{Var: l.z[i][j], Coef: 1})
			quality = append(quality, model.Term{Var: l.z[i][j], Coef: m.Quality})
		}
		balance = append(balance, model.Term{Var: l.y[j], Coef: -1})
		quality = append(quality, model.Term{Var: l.y[j], Coef: -p.MinQuality})
		b.constraint("balance "+p.Name, balance, model.Equal, 0)
		b.constraint("quality "+p.Name, quality, model.GreaterEq, 0)
	}

	prob, err := b.problem()
	return prob, l, err
}

// Solve builds, solves and interprets the scenario.
func (pm ProductMix) Solve(ctx context.Context, opts ...engine.Option) (*MixPlan, error) {
	p, l, err := pm.build()
	if err != nil {
		return nil, err
	}
	sol, x, err := solve(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	plan := &MixPlan{Status: sol.Status(), Solution: sol}
	if x == nil {
		return plan, nil
	}

	revenue, cost := decimal.Zero, decimal.Zero
	plan.Products = make([]ProductOutput, len(pm.Products))
	for j, p := range pm.Products {
		y := x[l.y[j]]
		out := ProductOutput{Name: p.Name, Quantity: y, Demand: p.Demand, MinQuality: p.MinQuality}
		revenue = revenue.Add(amount(p.Price, y))
		if y > producedThreshold {
			var q float64
			for i, m := range pm.Materials {
				z := x[l.z[i][j]]
				q += m.Quality * z
				out.Composition = append(out.Composition, Component{
					Material: m.Name, Quantity: z, Percent: share(z, y),
				})
			}
			out.Quality = q / y
		}
		plan.Products[j] = out
	}

	prices := shadowPrices(sol)
	plan.Materials = make([]MaterialUsage, len(pm.Materials))
	for i, m := range pm.Materials {
		var used float64
		for j := range pm.Products {
			used += x[l.z[i][j]]
		}
		cost = cost.Add(amount(m.Cost, used))
		u := MaterialUsage{Name: m.Name, Used: used, Available: m.Available, Utilization: share(used, m.Available)}
		if id := l.availability[i]; id >= 0 && prices != nil {
			u.ShadowPrice = prices[id]
		}
		plan.Materials[i] = u
	}

	plan.Revenue = revenue.Round(cents)
	plan.MaterialCost = cost.Round(cents)
	plan.Profit = revenue.Sub(cost).Round(cents)

	return plan, nil
}
