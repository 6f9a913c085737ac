// Package planning turns production-planning scenarios into linear programs,
// solves them with the engine and reads the result back in the scenario's
// own terms.
//
// Three scenarios are provided:
//
//   - ProductMix blends raw materials into products under availability,
//     mass-balance and minimum-quality constraints, maximizing profit.
//   - MultiPeriod schedules production of several products over periods
//     under machine and labor capacity, minimizing production plus holding
//     cost while ending above safety stock.
//   - Inventory balances given supply against demand, pricing shortages and
//     stock above a safety-stock target.
//
// Quantities are float64. Money (profit, cost totals) is reported as
// decimal.Decimal rounded to cents so that totals add up exactly when
// printed or stored.
//
// Every Solve takes engine options, so logging, metrics, strategy and
// sensitivity are configured the same way as for engine.Solve. A plan is
// returned for every terminal status; its detail fields are filled only
// when the status is Optimal.
package planning
