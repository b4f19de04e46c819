package entities

import (
	"math"
)

// Engine is one thrust producer: thrust in kN, specific impulse in seconds
type Engine struct {
	Name     string  `json:"name,omitempty" yaml:"name,omitempty"`
	ThrustKN float64 `json:"thrust_kn" yaml:"thrust"`
	ImpulseS float64 `json:"isp_s" yaml:"isp"`
}

// NewEngine creates a validated Engine
func NewEngine(thrustKN, impulseS float64) (Engine, error) {
	e := Engine{ThrustKN: thrustKN, ImpulseS: impulseS}
	if err := e.Validate(); err != nil {
		return Engine{}, err
	}
	return e, nil
}

// Validate checks that thrust and impulse are finite and non-negative
func (e Engine) Validate() error {
	if err := nonNegative("thrust", e.ThrustKN); err != nil {
		return err
	}
	return nonNegative("specific impulse", e.ImpulseS)
}

// MassFlowTerm is the engine's contribution to the aggregated Isp denominator
func (e Engine) MassFlowTerm() float64 {
	return e.ThrustKN / e.ImpulseS
}

// EngineSet is an ordered list of engines. Aggregation over it does not depend on order.
type EngineSet []Engine

// Clone returns a copy that shares no backing array with s
func (s EngineSet) Clone() EngineSet {
	if s == nil {
		return nil
	}
	out := make(EngineSet, len(s))
	copy(out, s)
	return out
}

// TotalThrust sums thrust across the set
func (s EngineSet) TotalThrust() float64 {
	total := 0.0
	for _, e := range s {
		total += e.ThrustKN
	}
	return total
}

func nonNegative(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return &ValidationError{Field: field, Value: v, Reason: "must be finite"}
	}
	if v < 0 {
		return &ValidationError{Field: field, Value: v, Reason: "cannot be negative"}
	}
	return nil
}

func positive(field string, v float64) error {
	if err := nonNegative(field, v); err != nil {
		return err
	}
	if v == 0 {
		return &ValidationError{Field: field, Value: v, Reason: "must be greater than zero"}
	}
	return nil
}
