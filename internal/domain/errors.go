package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoData is returned when zero usable price rows exist for the
	// requested city. A data problem, not a budget problem.
	ErrNoData = errors.New("no usable price data")

	// ErrInfeasible is returned when the constraint set is mutually
	// unsatisfiable. The basket's diagnostic names the binding constraint.
	ErrInfeasible = errors.New("constraints are mutually unsatisfiable")

	// ErrBudgetTooLow is the distinguished infeasible subtype: relaxing
	// every non-budget constraint still finds nothing under budget.
	ErrBudgetTooLow = errors.New("budget below minimum viable")

	// ErrSolverTimeout is returned when the solve exceeds its wall-clock
	// budget. Distinct from infeasibility; safe to retry with relaxed
	// constraints.
	ErrSolverTimeout = errors.New("solver timed out")

	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")
)

// UnitParseError reports an unrecognized quantity or unit token. Local to
// normalization: callers drop or flag the observation rather than aborting
// the whole solve.
type UnitParseError struct {
	Token string
}

func (e *UnitParseError) Error() string {
	return fmt.Sprintf("unrecognized unit token %q", e.Token)
}
