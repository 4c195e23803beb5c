package kuramoto

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidParameter indicates a simulation parameter outside its valid range.
	ErrInvalidParameter = errors.New("kuramoto: invalid parameter")

	// ErrDimensionMismatch indicates omega and theta of different lengths.
	ErrDimensionMismatch = errors.New("kuramoto: omega and theta lengths differ")
)

// ParameterError names the offending parameter and wraps ErrInvalidParameter.
type ParameterError struct {
	Name   string
	Value  any
	Reason string
}

func (e *ParameterError) Error() string {
	return fmt.Sprintf("kuramoto: invalid parameter %s=%v: %s", e.Name, e.Value, e.Reason)
}

func (e *ParameterError) Unwrap() error {
	return ErrInvalidParameter
}

func invalid(name string, value any, reason string) error {
	return &ParameterError{Name: name, Value: value, Reason: reason}
}
