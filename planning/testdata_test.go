package planning_test

import (
	"math"

	"github.com/katalvlaran/balance/planning"
)

// fuelBlend is the three-material, three-product blending scenario.
// A and B are used in full, C is too expensive for any product, and the
// cheapest product (Unleaded) absorbs the shortfall: y = (800, 900, 500),
// profit 184000 − 88400 = 95600.
func fuelBlend() planning.ProductMix {
	return planning.ProductMix{
		Materials: []planning.Material{
			{Name: "A", Cost: 38, Available: 1000, Quality: 120},
			{Name: "B", Cost: 42, Available: 1200, Quality: 90},
			{Name: "C", Cost: 105, Available: 700, Quality: 130},
		},
		Products: []planning.Product{
			{Name: "Super", Price: 85, Demand: 800, MinQuality: 94},
			{Name: "Unleaded", Price: 80, Demand: 1100, MinQuality: 92},
			{Name: "SuperUnleaded", Price: 88, Demand: 500, MinQuality: 96},
		},
	}
}

// quarter is the two-product, three-period schedule. Production is just in
// time except in March, where labor binds and 50 units of A move to
// February: cost 109850 production + 127 holding.
func quarter() planning.MultiPeriod {
	return planning.MultiPeriod{
		Products: []planning.PlannedProduct{
			{
				Name: "A", InitialInventory: 100, SafetyStock: 130, ProductionCost: 20,
				MachineHours: 1.5, LaborHours: 1.1, Demand: []float64{700, 900, 1000},
			},
			{
				Name: "B", InitialInventory: 120, SafetyStock: 110, ProductionCost: 25,
				MachineHours: 1.6, LaborHours: 1.2, Demand: []float64{800, 600, 900},
			},
		},
		Periods: []planning.Period{
			{Name: "January", MachineCapacity: 3000, LaborCapacity: 2500},
			{Name: "February", MachineCapacity: 2800, LaborCapacity: 2300},
			{Name: "March", MachineCapacity: 3600, LaborCapacity: 2400},
		},
		HoldingRate: 0.02,
	}
}

// stock has no shortages; excess above target is A (50, 100, 0) and
// B (70, 90, 120), costing 1.5·430 = 645.
func stock() planning.Inventory {
	return planning.Inventory{
		Periods: []string{"Jan", "Feb", "Mar"},
		Items: []planning.StockItem{
			{
				Name: "A", Initial: 100, SafetyStockTarget: 80,
				Demand: []float64{250, 300, 400}, Supply: []float64{280, 350, 300},
			},
			{
				Name: "B", Initial: 150, SafetyStockTarget: 60,
				Demand: []float64{200, 180, 220}, Supply: []float64{180, 200, 250},
			},
		},
		ShortageCost: 5,
		ExcessCost:   1.5,
	}
}

var inf = math.Inf(1)
