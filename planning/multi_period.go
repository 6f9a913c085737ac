package planning

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/model"
	"github.com/katalvlaran/balance/solution"
)

// PlannedProduct is a product scheduled by MultiPeriod.
type PlannedProduct struct {
	Name             string
	InitialInventory float64
	SafetyStock      float64 // minimum inventory at the end of the horizon
	ProductionCost   float64 // per unit produced
	MachineHours     float64 // per unit produced
	LaborHours       float64 // per unit produced
	Demand           []float64
}

// Period carries the capacities of one planning period.
type Period struct {
	Name            string
	MachineCapacity float64
	LaborCapacity   float64
}

// MultiPeriod is a production schedule: x[p,t] units of product p are made
// in period t and inv[p,t] units are held at its end.
//
//	minimize   Σ cost_p·x_pt + Σ holding_p·inv_pt
//	subject to inv_pt = inv_p,t−1 + x_pt − demand_pt   (balance, inv_p,−1 = initial_p)
//	           Σ_p machine_p·x_pt ≤ machine_t            (machine capacity)
//	           Σ_p labor_p·x_pt ≤ labor_t                (labor capacity)
//	           inv_p,T ≥ safety_p                         (safety stock)
//
// holding_p is ProductionCost·HoldingRate per unit and period. Quantities are
// continuous.
type MultiPeriod struct {
	Products    []PlannedProduct
	Periods     []Period
	HoldingRate float64
}

// ProductionPlan is the interpreted result of a MultiPeriod solve.
type ProductionPlan struct {
	Status         solution.Status
	ProductionCost decimal.Decimal
	HoldingCost    decimal.Decimal
	TotalCost      decimal.Decimal
	Production     [][]float64 // [product][period]
	Inventory      [][]float64 // [product][period], end of period
	Capacity       []CapacityUse
	Solution       *solution.Solution
}

// CapacityUse reports resource use in one period.
type CapacityUse struct {
	Period             string
	MachineUsed        float64
	MachineAvailable   float64
	MachineUtilization float64
	LaborUsed          float64
	LaborAvailable     float64
	LaborUtilization   float64
}

type periodLayout struct {
	x, inv [][]model.VariableID // [product][period]
}

// HoldingCost returns the per-unit, per-period holding cost of p.
func (mp MultiPeriod) HoldingCost(p PlannedProduct) decimal.Decimal {
	return money(p.ProductionCost).Mul(money(mp.HoldingRate))
}

// Validate checks names, demand lengths and numeric ranges.
func (mp MultiPeriod) Validate() error {
	if len(mp.Products) == 0 || len(mp.Periods) == 0 {
		return fmt.Errorf("no products or periods: %w", ErrInvalidScenario)
	}
	if !finite(mp.HoldingRate) || mp.HoldingRate < 0 {
		return fmt.Errorf("holding rate %g: %w", mp.HoldingRate, ErrInvalidScenario)
	}
	names := make([]string, 0, len(mp.Periods))
	for _, t := range mp.Periods {
		if t.MachineCapacity < 0 || t.LaborCapacity < 0 {
			return fmt.Errorf("period %q: negative capacity: %w", t.Name, ErrInvalidScenario)
		}
		names = append(names, t.Name)
	}
	if err := uniqueNames("period", names); err != nil {
		return err
	}
	names = names[:0]
	for _, p := range mp.Products {
		if len(p.Demand) != len(mp.Periods) {
			return fmt.Errorf("product %q: %d demands for %d periods: %w",
				p.Name, len(p.Demand), len(mp.Periods), ErrInvalidScenario)
		}
		if !finite(append([]float64{p.InitialInventory, p.SafetyStock, p.ProductionCost, p.MachineHours, p.LaborHours}, p.Demand...)...) ||
			p.InitialInventory < 0 || p.SafetyStock < 0 || p.MachineHours < 0 || p.LaborHours < 0 {
			return fmt.Errorf("product %q: %w", p.Name, ErrInvalidScenario)
		}
		names = append(names, p.Name)
	}

	return uniqueNames("product", names)
}

// Problem builds the linear program of the scenario.
func (mp MultiPeriod) Problem() (*model.Problem, error) {
	p, _, err := mp.build()
	return p, err
}

func (mp MultiPeriod) build() (*model.Problem, *periodLayout, error) {
	if err := mp.Validate(); err != nil {
		return nil, nil, err
	}
	b := newBuilder(model.Minimize)
	np, nt := len(mp.Products), len(mp.Periods)
	l := &periodLayout{x: make([][]model.VariableID, np), inv: make([][]model.VariableID, np)}
	for k, p := range mp.Products {
		holding := mp.HoldingCost(p).InexactFloat64()
		l.x[k] = make([]model.VariableID, nt)
		l.inv[k] = make([]model.VariableID, nt)
		for t, per := range mp.Periods {
			l.x[k][t] = b.variable(fmt.Sprintf("x[%s,%s]", p.Name, per.Name), 0, inf, p.ProductionCost)
			l.inv[k][t] = b.variable(fmt.Sprintf("inv[%s,%s]", p.Name, per.Name), 0, inf, holding)
		}
	}

	for k, p := range mp.Products {
		for t, per := range mp.Periods {
			terms := []model.Term{{Var: l.inv[k][t], Coef: 1}, {Var: l.x[k][t], Coef: -1}}
			rhs := -p.Demand[t]
			if t == 0 {
				rhs += p.InitialInventory
			} else {
				terms = append(terms, model.Term{Var: l.inv[k][t-1], Coef: -1})
			}
			b.constraint(fmt.Sprintf("balance %s %s", p.Name, per.Name), terms, model.Equal, rhs)
		}
	}
	for t, per := range mp.Periods {
		machine := make([]model.Term, np)
		labor := make([]model.Term, np)
		for k, p := range mp.Products {
			machine[k] = model.Term{Var: l.x[k][t], Coef: p.MachineHours}
			labor[k] = model.Term{Var: l.x[k][t], Coef: p.LaborHours}
		}
		b.constraint("machine "+per.Name, machine, model.LessEq, per.MachineCapacity)
		b.constraint("labor "+per.Name, labor, model.LessEq, per.LaborCapacity)
	}
	for k, p := range mp.Products {
		b.constraint("safety "+p.Name, []model.Term{{Var: l.inv[k][nt-1], Coef: 1}}, model.GreaterEq, p.SafetyStock)
	}

	prob, err := b.problem()
	return prob, l, err
}

// Solve builds, solves and interprets the scenario.
func (mp MultiPeriod) Solve(ctx context.Context, opts ...engine.Option) (*ProductionPlan, error) {
	p, l, err := mp.build()
	if err != nil {
		return nil, err
	}
	sol, x, err := solve(ctx, p, opts)
	if err != nil {
		return nil, err
	}
	plan := &ProductionPlan{Status: sol.Status(), Solution: sol}
	if x == nil {
		return plan, nil
	}

	nt := len(mp.Periods)
	production, holding := decimal.Zero, decimal.Zero
	plan.Production = make([][]float64, len(mp.Products))
	plan.Inventory = make([][]float64, len(mp.Products))
	plan.Capacity = make([]CapacityUse, nt)
	for t, per := range mp.Periods {
		plan.Capacity[t] = CapacityUse{
			Period:           per.Name,
			MachineAvailable: per.MachineCapacity,
			LaborAvailable:   per.LaborCapacity,
		}
	}
	for k, p := range mp.Products {
		h := mp.HoldingCost(p)
		plan.Production[k] = make([]float64, nt)
		plan.Inventory[k] = make([]float64, nt)
		for t := range mp.Periods {
			made, held := x[l.x[k][t]], x[l.inv[k][t]]
			plan.Production[k][t] = made
			plan.Inventory[k][t] = held
			production = production.Add(amount(p.ProductionCost, made))
			holding = holding.Add(h.Mul(money(held)))
			plan.Capacity[t].MachineUsed += p.MachineHours * made
			plan.Capacity[t].LaborUsed += p.LaborHours * made
		}
	}
	for t := range plan.Capacity {
		c := &plan.Capacity[t]
		c.MachineUtilization = share(c.MachineUsed, c.MachineAvailable)
		c.LaborUtilization = share(c.LaborUsed, c.LaborAvailable)
	}

	plan.ProductionCost = production.Round(cents)
	plan.HoldingCost = holding.Round(cents)
	plan.TotalCost = production.Add(holding).Round(cents)

	return plan, nil
}
