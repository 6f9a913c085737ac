package engine_test

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/balance/engine"
	"github.com/katalvlaran/balance/model"
)

// ExampleSolve plans two products sharing demand with a capacity cap on the
// cheaper one, then reads the shadow price of that cap.
func ExampleSolve() {
	p := model.NewProblem()
	a, _ := p.AddNamedVariable("A", 0, math.Inf(1), 3)
	b, _ := p.AddNamedVariable("B", 0, math.Inf(1), 5)
	_, _ = p.AddNamedConstraint("demand", []model.Term{{Var: a, Coef: 1}, {Var: b, Coef: 1}}, model.GreaterEq, 45)
	_, _ = p.AddNamedConstraint("capacity A", []model.Term{{Var: a, Coef: 1}}, model.LessEq, 30)

	sol, err := engine.Solve(context.Background(), p, engine.WithSensitivity(true))
	if err != nil {
		fmt.Println(err)
		return
	}
	va, _ := sol.Value(a)
	vb, _ := sol.Value(b)
	sens, _ := sol.Sensitivity()
	fmt.Println(sol.Status(), sol.Objective())
	fmt.Println(va, vb)
	fmt.Printf("%s %.2f\n", sens.Constraints[1].Name, sens.Constraints[1].ShadowPrice)
	// Output:
	// Optimal 165
	// 30 15
	// capacity A 2.00
}

// ExampleSolveAll solves independent scenarios concurrently.
func ExampleSolveAll() {
	var problems []*model.Problem
	for _, demand := range []float64{10, 20, 30} {
		p := model.NewProblem()
		x, _ := p.AddVariable(0, math.Inf(1), 2)
		_, _ = p.AddConstraintTerms([]model.Term{{Var: x, Coef: 1}}, model.GreaterEq, demand)
		problems = append(problems, p)
	}

	sols, err := engine.SolveAll(context.Background(), problems, engine.WithParallelism(2))
	if err != nil {
		fmt.Println(err)
		return
	}
	for _, sol := range sols {
		fmt.Println(sol.Objective())
	}
	// Output:
	// 20
	// 40
	// 60
}
