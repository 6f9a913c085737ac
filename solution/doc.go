// Package solution holds the immutable result of a solve: Status, original
// variable values, objective, Diagnostics with NumericalWarnings, and the
// optional Sensitivity block. Assemble is the only constructor; it maps a
// standard-form point back to the model and snaps values within tolerance
// for display stability.
package solution
