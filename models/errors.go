package models

import "fmt"

// NoDataError indicates the price provider returned no usable series for a
// symbol and range.
type NoDataError struct {
	Symbol string
	Reason string
}

func (e *NoDataError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("no price data for %s", e.Symbol)
	}
	return fmt.Sprintf("no price data for %s: %s", e.Symbol, e.Reason)
}

// InsufficientDataError indicates a series is too short for the requested
// statistical test. The check happens before the test runs.
type InsufficientDataError struct {
	Need int
	Got  int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("insufficient observations: need %d, got %d", e.Need, e.Got)
}

// UnalignedInputError indicates an internal invariant violation: two series
// handed to a pairwise estimator were not pre-aligned.
type UnalignedInputError struct {
	LenA int
	LenB int
}

func (e *UnalignedInputError) Error() string {
	if e.LenA != e.LenB {
		return fmt.Sprintf("unaligned input series: lengths %d and %d", e.LenA, e.LenB)
	}
	return "unaligned input series: timestamps differ"
}

// DegenerateInputError indicates zero (or numerically zero) variance broke a
// correlation, regression or Z-score computation.
type DegenerateInputError struct {
	What string
}

func (e *DegenerateInputError) Error() string {
	return fmt.Sprintf("degenerate input: %s has zero variance", e.What)
}
