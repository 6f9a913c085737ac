// Package engine is the entry point of balance: it turns a model.Problem
// into a solution.Solution.
//
// Solve builds the standard form once, resolves the Strategy (simplex,
// interior point, or Auto by problem size), runs the chosen solver under the
// caller's context and time limit, optionally derives sensitivity data, and
// assembles the result. SolveAll does the same for many independent problems
// concurrently with a bounded number of workers.
//
// Every solve owns its working state. The only shared objects are the ones
// the caller passes in: the Logger, the Recorder and the FactorCache, all of
// which are safe for concurrent use.
//
// Infeasible, unbounded, cancelled or timed-out runs are reported through
// solution.Status; Solve returns an error only for a nil problem, invalid
// options or a problem that fails to build.
package engine
