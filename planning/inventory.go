package planning

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/solution"
)

// StockItem is one product of an Inventory scenario. Demand and Supply are
// indexed by period.
type StockItem struct {
	Name              string
	Initial           float64
	SafetyStockTarget float64
	Demand            []float64
	Supply            []float64
}

// Inventory prices the gap between a fixed supply plan and demand. For item
// i in period t, inv is the closing stock, short the uncovered demand and
// excess the stock above the safety-stock target.
//
//	minimize   Σ shortageCost·short_it + excessCost·excess_it
//	subject to inv_it = inv_i,t−1 + supply_it − demand_it + short_it   (balance)
//	           excess_it ≥ inv_it − target_i                           (excess)
//	           short_it ≥ demand_it − inv_i,t−1 − supply_it            (shortage)
//
// with inv_i,−1 = initial_i and every variable non-negative.
type Inventory struct {
	Items        []StockItem
	Periods      []string
	ShortageCost float64 // per unit short
	ExcessCost   float64 // per unit above target
}

// InventoryPlan is the interpreted result of an Inventory solve.
type InventoryPlan struct {
	Status       solution.Status
	ShortageCost decimal.Decimal
	ExcessCost   decimal.Decimal
	TotalCost    decimal.Decimal
	Items        []StockLevels
	Solution     *solution.Solution
}

// StockLevels reports one item per period.
type StockLevels struct {
	Name      string
	Inventory []float64
	Shortage  []float64
	Excess    []float64
}

type stockLayout struct {
	inv, short, excess [][]model.VariableID // [item][period]
}

// Validate checks names, series lengths and numeric ranges.
func (iv Inventory) Validate() error {
	if len(iv.Items) == 0 || len(iv.Periods) == 0 {
		return fmt.Errorf("no items or periods: %w", ErrInvalidScenario)
	}
	if !finite(iv.ShortageCost, iv.ExcessCost) || iv.ShortageCost < 0 || iv.ExcessCost < 0 {
		return fmt.Errorf("costs %g, %g: %w", iv.ShortageCost, iv.ExcessCost, ErrInvalidScenario)
	}
	if err := uniqueNames("period", iv.Periods); err != nil {
		return err
	}
	names := make([]string, 0, len(iv.Items))
	for _, it := range iv.Items {
		if len(it.Demand) != len(iv.Periods) || len(it.Supply) != len(iv.Periods) {
			return fmt.Errorf("item %q: series length differs from %d periods: %w",
				it.Name, len(iv.Periods), ErrInvalidScenario)
		}
		if !finite(it.Initial, it.SafetyStockTarget) || !finite(it.Demand...) || !finite(it.Supply...) ||
			it.Initial < 0 {
			return fmt.Errorf("item %q: %w", it.Name, ErrInvalidScenario)
		}
		names = append(names, it.Name)
	}

	return uniqueNames("item", names)
}

// Problem builds the linear program of the scenario.
func (iv Inventory) Problem() (*model.Problem, error) {
	p, _, err := iv.build()
	return p, err
}

func (iv Inventory) build() (*model.Problem, *stockLayout, error) {
	if err := iv.Validate(); err != nil {
		return nil, nil, err
	}
	b := newBuilder(model.Minimize)
	ni, nt := len(iv.Items), len(iv.Periods)
	l := &stockLayout{
		inv:    make([][]model.VariableID, ni),
		short:  make([][]model.VariableID, ni),
		excess: make([][]model.VariableID, ni),
	}
	for i, it := range iv.Items {
		l.inv[i] = make([]model.VariableID, nt)
		l.short[i] = make([]model.VariableID, nt)
		l.excess[i] = make([]model.VariableID, nt)
		for t, per := range iv.Periods {
			l.inv[i][t] = b.variable(fmt.Sprintf("inventory[%s,%s]", it.Name, per), 0, inf, 0)
			l.short[i][t] = b.variable(fmt.Sprintf("shortage[%s,%s]", it.Name, per), 0, inf, iv.ShortageCost)
			l.excess[i][t] = b.variable(fmt.Sprintf("excess[%s,%s]", it.Name, per), 0, inf, iv.ExcessCost)
		}
	}

	for i, it := range iv.Items {
		for t, per := range iv.Periods {
			net := it.Supply[t] - it.Demand[t]
			balance := []model.Term{{Var: l.inv[i][t], Coef: 1}, {Var: l.short[i][t], Coef: -1}}
			shortage := []model.Term{{Var: l.short[i][t], Coef: 1}}
			if t == 0 {
				net += it.Initial
			} else {
				balance = append(balance, model.Term{Var: l.inv[i][t-1], Coef: -1})
				shortage = append(shortage, model.Term{Var: l.inv[i][t-1], Coef: 1})
			}
			b.constraint(fmt.Sprintf("balance %s %s", it.Name, per), balance, model.Equal, net)
			b.constraint(fmt.Sprintf("excess %s %s", it.Name, per),
				[]model.Term{{Var: l.excess[i][t], Coef: 1}, {Var: l.inv[i][t], Coef: -1}},
				model.GreaterEq, -it.SafetyStockTarget)
			b.constraint(fmt.Sprintf("shortage %s %s", it.Name, per), shortage, model.GreaterEq, -net)
		}
	}

	prob, err := b.problem()
	return prob, l, err
}

// Solve builds, solves and interprets the scenario.
func (iv Inventory) Solve(ctx context.Context, opts ...engine.Option) (*InventoryPlan, error) {
	p, l, err := iv.build()
	if err != nil {
		return nil, err
	}
	sol, x, err := solve(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	plan := &InventoryPlan{Status: sol.Status(), Solution: sol}
	if x == nil {
		return plan, nil
	}

	shortage, excess := decimal.Zero, decimal.Zero
	plan.Items = make([]StockLevels, len(iv.Items))
	for i, it := range iv.Items {
		lv := StockLevels{
			Name:      it.Name,
			Inventory: make([]float64, len(iv.Periods)),
			Shortage:  make([]float64, len(iv.Periods)),
			Excess:    make([]float64, len(iv.Periods)),
		}
		for t := range iv.Periods {
			lv.Inventory[t] = x[l.inv[i][t]]
			lv.Shortage[t] = x[l.short[i][t]]
			lv.Excess[t] = x[l.excess[i][t]]
			shortage = shortage.Add(amount(iv.ShortageCost, lv.Shortage[t]))
			excess = excess.Add(amount(iv.ExcessCost, lv.Excess[t]))
		}
		plan.Items[i] = lv
	}

	plan.ShortageCost = shortage.Round(cents)
	plan.ExcessCost = excess.Round(cents)
	plan.TotalCost = shortage.Add(excess).Round(cents)

	return plan, nil
}
