package services

import (
	"math"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
)

// AggregateEngines combines an engine set into one effective thrust and Isp.
//
// Combined Isp is the thrust-weighted harmonic combination
// ΣT / Σ(T/Isp), which keeps total mass flow equal to the sum of
// each engine's mass flow.
func AggregateEngines(engines entities.EngineSet) (entities.Performance, error) {
	if len(engines) == 0 {
		return entities.Performance{}, entities.ErrNoEngines
	}

	thrust := 0.0
	denominator := 0.0
	for i, e := range engines {
		if err := e.Validate(); err != nil {
			return entities.Performance{}, err
		}
		if e.ImpulseS <= 0 {
			return entities.Performance{}, &entities.DegenerateEngineError{
				Index:  i,
				Reason: "engine has zero specific impulse",
			}
		}
		thrust += e.ThrustKN
		denominator += e.MassFlowTerm()
	}

	if thrust <= 0 || denominator <= 0 {
		return entities.Performance{}, &entities.DegenerateEngineError{
			Index:  -1,
			Reason: "engines produce no thrust",
		}
	}
	if !isFinite(thrust) || !isFinite(denominator) {
		return entities.Performance{}, &entities.DegenerateEngineError{
			Index:  -1,
			Reason: "combined thrust or mass flow is not finite",
		}
	}

	impulse := thrust / denominator
	if !isFinite(impulse) || impulse <= 0 {
		return entities.Performance{}, &entities.DegenerateEngineError{
			Index:  -1,
			Reason: "combined specific impulse is not a positive finite value",
		}
	}

	return entities.Performance{
		ThrustKN: thrust,
		ImpulseS: impulse,
	}, nil
}

// Evaluate runs the constant-thrust rocket equation for one request.
// A negative FuelFinal is returned as computed; it is how callers detect an infeasible burn.
func Evaluate(req entities.BurnRequest) (*entities.BurnResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	perf, err := AggregateEngines(req.Engines)
	if err != nil {
		return nil, err
	}

	return evaluatePerformance(perf, req.VelocityDelta, req.Vehicle)
}

// EvaluateScalars builds a request from raw values and evaluates it
func EvaluateScalars(velocityDelta, massInitial, fuelInitial float64, engines []entities.Engine) (*entities.BurnResult, error) {
	req, err := entities.NewBurnRequest(
		velocityDelta,
		entities.VehicleState{MassInitial: massInitial, FuelInitial: fuelInitial},
		entities.EngineSet(engines),
	)
	if err != nil {
		return nil, err
	}
	return Evaluate(req)
}

func evaluatePerformance(perf entities.Performance, velocityDelta float64, vehicle entities.VehicleState) (*entities.BurnResult, error) {
	thrust := perf.ThrustKN
	exhaust := perf.ExhaustVelocity()
	m0 := vehicle.MassInitial

	if !(thrust > 0) || math.IsInf(thrust, 0) {
		return nil, &entities.ValidationError{Field: "effective thrust", Value: thrust, Reason: "must be finite and greater than zero"}
	}
	if !(exhaust > 0) || math.IsInf(exhaust, 0) {
		return nil, &entities.ValidationError{Field: "exhaust velocity", Value: exhaust, Reason: "must be finite and greater than zero"}
	}

	// 1 - exp(-Δv/v_e), computed without cancellation for small Δv
	expended := -math.Expm1(-velocityDelta / exhaust)

	fuelUsed := m0 * expended
	massFinal := m0 - fuelUsed
	if massFinal <= 0 {
		return nil, &entities.ValidationError{Field: "delta-v", Value: velocityDelta, Reason: "leaves no final mass"}
	}

	result := &entities.BurnResult{
		EffectiveThrust:  thrust,
		EffectiveImpulse: perf.ImpulseS,
		ExhaustVelocity:  exhaust,
		BurnTime:         (m0 * exhaust / thrust) * expended,
		FuelExpended:     fuelUsed,
		MassInitial:      m0,
		MassFinal:        massFinal,
		FuelFinal:        vehicle.FuelInitial - fuelUsed,
		TWRInitial:       thrust / m0,
		TWRFinal:         thrust / massFinal,
	}

	// Finite inputs can still overflow; no derived field may leave as Inf or NaN.
	derived := []struct {
		field string
		value float64
	}{
		{"burn time", result.BurnTime},
		{"fuel expended", result.FuelExpended},
		{"final mass", result.MassFinal},
		{"final fuel mass", result.FuelFinal},
		{"initial thrust-to-weight ratio", result.TWRInitial},
		{"final thrust-to-weight ratio", result.TWRFinal},
	}
	for _, d := range derived {
		if !isFinite(d.value) {
			return nil, &entities.ValidationError{Field: d.field, Value: d.value, Reason: "must be finite"}
		}
	}

	return result, nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
