package model

import (
	"errors"
	"fmt"
)

// Sentinel errors for problem construction.
var (
	// ErrInvalidBound indicates lower > upper, a NaN bound, lower = +Inf or upper = -Inf.
	ErrInvalidBound = errors.New("model: invalid bound")

	// ErrUnknownVariable indicates a coefficient referencing an unregistered variable.
	ErrUnknownVariable = errors.New("model: unknown variable")

	// ErrEmptyProblem indicates Build was called with no variables registered.
	ErrEmptyProblem = errors.New("model: empty problem")

	// ErrInvalidCoefficient indicates a NaN or infinite cost, coefficient or right-hand side.
	ErrInvalidCoefficient = errors.New("model: invalid coefficient")

	// ErrInvalidRelation indicates a Relation outside LessEq, GreaterEq, Equal.
	ErrInvalidRelation = errors.New("model: invalid relation")

	// ErrDimensionMismatch indicates a value vector whose length differs from NumVariables.
	ErrDimensionMismatch = errors.New("model: dimension mismatch")
)

// ModelError reports which mutator failed and on which index.
// Index is the variable id for AddVariable, the would-be constraint id for
// AddConstraint, and -1 when no index applies.
type ModelError struct {
	Op    string
	Index int
	Err   error
}

// Error implements error.
func (e *ModelError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("%s[%d]: %v", e.Op, e.Index, e.Err)
}

// Unwrap exposes the sentinel for errors.Is.
func (e *ModelError) Unwrap() error { return e.Err }

func modelErrorf(op string, index int, err error) error {
	return &ModelError{Op: op, Index: index, Err: err}
}
