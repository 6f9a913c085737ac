// Package balance is a production-planning linear programming engine: build a
// model, pick a solver, read back an immutable solution with diagnostics and
// sensitivity.
//
// What is in the box:
//
//   - model: variables with bounds, sparse constraints, minimize/maximize,
//     and the standard-form transformation every solver consumes
//   - simplex: two-phase revised simplex with LU + eta-file updates,
//     Dantzig pricing with a Bland fallback against cycling, warm starts
//   - interior: primal-dual path-following on the normal equations with
//     optional crossover to a simplex vertex
//   - sensitivity: shadow prices, reduced costs, cost and RHS ranging
//   - engine: Solve and SolveAll with strategy selection, time limits,
//     cancellation, structured logging, metrics and a warm-start cache
//   - solution: immutable results, statuses and numerical warnings
//   - planning: product mix, multi-period production and inventory
//     scenarios with decimal money totals
//   - config, metrics: viper/validator configuration and Prometheus
//     collectors for programs built on the engine
//
// Layout:
//
//	matrix/        dense and sparse kernels, LU, eta file, tolerances
//	model/         Problem, Constraint, StandardForm
//	simplex/       revised simplex
//	interior/      interior point and crossover
//	sensitivity/   post-optimal analysis
//	solution/      Solution, Status, Diagnostics
//	engine/        orchestration
//	planning/      scenario builders
//	config/        file and environment configuration, loggers
//	metrics/       Prometheus Recorder
//	examples/      runnable programs
//
// Quick example (two products, one shared demand):
//
//	p := model.NewProblem()
//	x1, _ := p.AddNamedVariable("x1", 0, math.Inf(1), 3)
//	x2, _ := p.AddNamedVariable("x2", 0, math.Inf(1), 5)
//	_, _ = p.AddNamedConstraint("demand", []model.Term{{Var: x1, Coef: 1}, {Var: x2, Coef: 1}}, model.GreaterEq, 45)
//	_, _ = p.AddNamedConstraint("capacity", []model.Term{{Var: x1, Coef: 1}}, model.LessEq, 30)
//
//	sol, err := engine.Solve(ctx, p, engine.WithSensitivity(true))
//	// sol.Status() == solution.Optimal, sol.Objective() == 165
//
// See examples/ for complete programs.
package balance
