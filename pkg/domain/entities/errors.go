package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is the class of every ValidationError
	ErrInvalidInput = errors.New("invalid input")
	// ErrNoEngines is returned when an engine set is empty
	ErrNoEngines = errors.New("no engines supplied")
	// ErrDegenerateEngine is the class of every DegenerateEngineError
	ErrDegenerateEngine = errors.New("degenerate engine configuration")
)

// ValidationError reports a scalar outside its allowed domain
type ValidationError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s, got %g", e.Field, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// DegenerateEngineError reports an engine set whose aggregated Isp is undefined.
// Index is -1 when the problem belongs to the set as a whole.
type DegenerateEngineError struct {
	Index  int
	Reason string
}

func (e *DegenerateEngineError) Error() string {
	if e.Index < 0 {
		return e.Reason
	}
	return fmt.Sprintf("engine %d: %s", e.Index+1, e.Reason)
}

func (e *DegenerateEngineError) Unwrap() error {
	return ErrDegenerateEngine
}
