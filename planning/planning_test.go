package planning_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/planning"
	"github.com/katalvlaran/balance/solution"
)

const eps = 1e-6

var approx = cmpopts.EquateApprox(0, eps)

func TestProductMix(t *testing.T) {
	plan, err := fuelBlend().Solve(context.Background(), engine.WithSensitivity(true))
	require.NoError(t, err)
	require.Equal(t, solution.Optimal, plan.Status)

	assert.True(t, decimal.NewFromInt(95600).Equal(plan.Profit), "profit %s", plan.Profit)
	assert.True(t, decimal.NewFromInt(184000).Equal(plan.Revenue), "revenue %s", plan.Revenue)
	assert.True(t, decimal.NewFromInt(88400).Equal(plan.MaterialCost), "cost %s", plan.MaterialCost)

	qty := make([]float64, len(plan.Products))
	for j, p := range plan.Products {
		qty[j] = p.Quantity
		require.NotEmpty(t, p.Composition, p.Name)
		assert.GreaterOrEqual(t, p.Quality, p.MinQuality-eps, p.Name)
		var total, pct float64
		for _, c := range p.Composition {
			total += c.Quantity
			pct += c.Percent
		}
		assert.InDelta(t, p.Quantity, total, eps, "mass balance of %s", p.Name)
		assert.InDelta(t, 100, pct, eps)
	}
	if diff := cmp.Diff([]float64{800, 900, 500}, qty, approx); diff != "" {
		t.Errorf("production (-want +got):\n%s", diff)
	}

	used := make([]float64, len(plan.Materials))
	for i, m := range plan.Materials {
		used[i] = m.Used
	}
	if diff := cmp.Diff([]float64{1000, 1200, 0}, used, approx); diff != "" {
		t.Errorf("material use (-want +got):\n%s", diff)
	}
	assert.InDelta(t, 100, plan.Materials[0].Utilization, eps)
	assert.InDelta(t, 0, plan.Materials[2].Utilization, eps)
	assert.InDelta(t, 0, plan.Materials[2].ShadowPrice, eps, "unused material has no value")
}

func TestProductMixUnlimited(t *testing.T) {
	pm := planning.ProductMix{
		Materials: []planning.Material{{Name: "base", Cost: 1, Available: inf, Quality: 10}},
		Products:  []planning.Product{{Name: "blend", Price: 3, Demand: 40, MinQuality: 5}},
	}
	p, err := pm.Problem()
	require.NoError(t, err)
	assert.Equal(t, 2, p.NumConstraints(), "no availability row for an unlimited material")

	plan, err := pm.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, solution.Optimal, plan.Status)
	assert.True(t, decimal.NewFromInt(80).Equal(plan.Profit))
	assert.Zero(t, plan.Materials[0].Utilization)
}

func TestProductMixInfeasibleQuality(t *testing.T) {
	pm := planning.ProductMix{
		Materials: []planning.Material{{Name: "low", Cost: 1, Available: 10, Quality: 80}},
		Products:  []planning.Product{{Name: "high", Price: 5, Demand: 10, MinQuality: 95}},
	}
	plan, err := pm.Solve(context.Background())
	require.NoError(t, err)
	// Producing nothing is the only blend meeting the floor.
	require.Equal(t, solution.Optimal, plan.Status)
	assert.InDelta(t, 0, plan.Products[0].Quantity, eps)
	assert.Empty(t, plan.Products[0].Composition)
	assert.True(t, plan.Profit.IsZero())
}

func TestMultiPeriod(t *testing.T) {
	for _, s := range []engine.Strategy{engine.Simplex, engine.InteriorPoint} {
		t.Run(s.String(), func(t *testing.T) {
			plan, err := quarter().Solve(context.Background(), engine.WithStrategy(s), engine.WithCrossover(true))
			require.NoError(t, err)
			require.Equal(t, solution.Optimal, plan.Status)

			want := [][]float64{{600, 950, 1080}, {680, 600, 1010}}
			if diff := cmp.Diff(want, plan.Production, cmpopts.EquateApprox(0, 1e-3)); diff != "" {
				t.Errorf("production (-want +got):\n%s", diff)
			}
			want = [][]float64{{0, 50, 130}, {0, 0, 110}}
			if diff := cmp.Diff(want, plan.Inventory, cmpopts.EquateApprox(0, 1e-3)); diff != "" {
				t.Errorf("inventory (-want +got):\n%s", diff)
			}
			assert.InDelta(t, 109977, plan.TotalCost.InexactFloat64(), 0.01)
			assert.InDelta(t, 100, plan.Capacity[2].LaborUtilization, 1e-4)
		})
	}
}

func TestMultiPeriodCosts(t *testing.T) {
	mp := quarter()
	assert.Equal(t, "0.4", mp.HoldingCost(mp.Products[0]).String())

	plan, err := mp.Solve(context.Background(), engine.WithStrategy(engine.Simplex))
	require.NoError(t, err)
	assert.Equal(t, "109850.00", plan.ProductionCost.StringFixed(2))
	assert.Equal(t, "127.00", plan.HoldingCost.StringFixed(2))
	assert.Equal(t, "109977.00", plan.TotalCost.StringFixed(2))
	assert.True(t, plan.ProductionCost.Add(plan.HoldingCost).Equal(plan.TotalCost))

	march := plan.Capacity[2]
	assert.Equal(t, "March", march.Period)
	assert.InDelta(t, 2400, march.LaborUsed, 1e-4)
	assert.InDelta(t, 3236, march.MachineUsed, 1e-4)
}

func TestMultiPeriodInfeasible(t *testing.T) {
	mp := quarter()
	mp.Periods[2].LaborCapacity = 0
	mp.Periods[1].LaborCapacity = 0
	mp.Periods[0].LaborCapacity = 0
	plan, err := mp.Solve(context.Background())
	require.NoError(t, err)
	assert.Equal(t, solution.Infeasible, plan.Status)
	assert.Nil(t, plan.Production)
	assert.True(t, plan.TotalCost.IsZero())
}

func TestInventory(t *testing.T) {
	plan, err := stock().Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, solution.Optimal, plan.Status)

	assert.Equal(t, "645.00", plan.TotalCost.StringFixed(2))
	assert.True(t, plan.ShortageCost.IsZero())

	got := map[string][]float64{}
	for _, it := range plan.Items {
		got[it.Name+" inventory"] = it.Inventory
		got[it.Name+" shortage"] = it.Shortage
		got[it.Name+" excess"] = it.Excess
	}
	want := map[string][]float64{
		"A inventory": {130, 180, 80},
		"A shortage":  {0, 0, 0},
		"A excess":    {50, 100, 0},
		"B inventory": {130, 150, 180},
		"B shortage":  {0, 0, 0},
		"B excess":    {70, 90, 120},
	}
	if diff := cmp.Diff(want, got, approx); diff != "" {
		t.Errorf("levels (-want +got):\n%s", diff)
	}
}

func TestInventoryShortage(t *testing.T) {
	iv := planning.Inventory{
		Periods: []string{"w1", "w2"},
		Items: []planning.StockItem{{
			Name: "part", Initial: 10, SafetyStockTarget: 0,
			Demand: []float64{30, 10}, Supply: []float64{5, 20},
		}},
		ShortageCost: 4,
		ExcessCost:   1,
	}
	plan, err := iv.Solve(context.Background())
	require.NoError(t, err)
	require.Equal(t, solution.Optimal, plan.Status)

	lv := plan.Items[0]
	assert.InDelta(t, 15, lv.Shortage[0], eps)
	assert.InDelta(t, 0, lv.Inventory[0], eps)
	assert.InDelta(t, 10, lv.Inventory[1], eps)
	assert.Equal(t, "60.00", plan.ShortageCost.StringFixed(2))
	assert.Equal(t, "10.00", plan.ExcessCost.StringFixed(2))
	assert.Equal(t, "70.00", plan.TotalCost.StringFixed(2))
}

func TestValidate(t *testing.T) {
	cases := map[string]func() error{
		"mix empty": func() error { return planning.ProductMix{}.Validate() },
		"mix duplicate material": func() error {
			pm := fuelBlend()
			pm.Materials[1].Name = "A"
			return pm.Validate()
		},
		"mix negative availability": func() error {
			pm := fuelBlend()
			pm.Materials[0].Available = -1
			return pm.Validate()
		},
		"mix unnamed product": func() error {
			pm := fuelBlend()
			pm.Products[0].Name = ""
			return pm.Validate()
		},
		"period demand length": func() error {
			mp := quarter()
			mp.Products[0].Demand = mp.Products[0].Demand[:2]
			return mp.Validate()
		},
		"period holding rate": func() error {
			mp := quarter()
			mp.HoldingRate = -0.1
			return mp.Validate()
		},
		"period duplicate": func() error {
			mp := quarter()
			mp.Periods[1].Name = "January"
			return mp.Validate()
		},
		"inventory supply length": func() error {
			iv := stock()
			iv.Items[0].Supply = nil
			return iv.Validate()
		},
		"inventory cost": func() error {
			iv := stock()
			iv.ShortageCost = -5
			return iv.Validate()
		},
	}
	for name, fn := range cases {
		t.Run(name, func(t *testing.T) {
			require.ErrorIs(t, fn(), planning.ErrInvalidScenario)
		})
	}

	_, err := planning.Inventory{}.Solve(context.Background())
	require.ErrorIs(t, err, planning.ErrInvalidScenario)
}

func TestProblemShapes(t *testing.T) {
	p, err := fuelBlend().Problem()
	require.NoError(t, err)
	assert.Equal(t, 12, p.NumVariables())
	assert.Equal(t, 9, p.NumConstraints())
	assert.Equal(t, "z[B,Super]", p.VariableName(3))

	p, err = quarter().Problem()
	require.NoError(t, err)
	assert.Equal(t, 12, p.NumVariables())
	assert.Equal(t, 14, p.NumConstraints())

	p, err = stock().Problem()
	require.NoError(t, err)
	assert.Equal(t, 18, p.NumVariables())
	assert.Equal(t, 18, p.NumConstraints())
}

func TestCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	plan, err := quarter().Solve(ctx, engine.WithStrategy(engine.Simplex))
	require.NoError(t, err)
	assert.Equal(t, solution.Cancelled, plan.Status)
	assert.Nil(t, plan.Production)
}
