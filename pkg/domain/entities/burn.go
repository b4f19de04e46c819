package entities

import "fmt"

// StandardGravity is the g0 used to convert specific impulse to exhaust velocity, in m/s²
const StandardGravity = 9.82

// VehicleState is the vehicle before the burn. Masses are in Mg (metric tons).
type VehicleState struct {
	MassInitial float64 `json:"mass_initial_mg" yaml:"mass"`
	FuelInitial float64 `json:"fuel_initial_mg" yaml:"fuel"`
}

// NewVehicleState creates a validated VehicleState
func NewVehicleState(massInitial, fuelInitial float64) (VehicleState, error) {
	v := VehicleState{MassInitial: massInitial, FuelInitial: fuelInitial}
	if err := v.Validate(); err != nil {
		return VehicleState{}, err
	}
	return v, nil
}

// Validate checks both masses are finite and non-negative
func (v VehicleState) Validate() error {
	if err := nonNegative("initial mass", v.MassInitial); err != nil {
		return err
	}
	return nonNegative("initial fuel mass", v.FuelInitial)
}

// BurnRequest is the complete input to one burn evaluation
type BurnRequest struct {
	VelocityDelta float64      `json:"delta_v_m_s"`
	Vehicle       VehicleState `json:"vehicle"`
	Engines       EngineSet    `json:"engines"`
}

// NewBurnRequest creates a validated BurnRequest that owns a private copy of engines
func NewBurnRequest(velocityDelta float64, vehicle VehicleState, engines EngineSet) (BurnRequest, error) {
	req := BurnRequest{
		VelocityDelta: velocityDelta,
		Vehicle:       vehicle,
		Engines:       engines.Clone(),
	}
	if err := req.Validate(); err != nil {
		return BurnRequest{}, err
	}
	return req, nil
}

// Validate checks the scalar inputs and each engine. Engine-set level
// problems (empty set, zero impulse) are left to aggregation.
func (r BurnRequest) Validate() error {
	if err := nonNegative("delta-v", r.VelocityDelta); err != nil {
		return err
	}
	if err := r.Vehicle.Validate(); err != nil {
		return err
	}
	if err := positive("initial mass", r.Vehicle.MassInitial); err != nil {
		return err
	}
	for i, e := range r.Engines {
		if err := e.Validate(); err != nil {
			if ve, ok := err.(*ValidationError); ok {
				ve.Field = engineField(i, ve.Field)
			}
			return err
		}
	}
	return nil
}

// Performance is the aggregated output of an engine set
type Performance struct {
	ThrustKN float64 `json:"effective_thrust_kn"`
	ImpulseS float64 `json:"effective_isp_s"`
}

// ExhaustVelocity returns g0 * Isp in m/s
func (p Performance) ExhaustVelocity() float64 {
	return StandardGravity * p.ImpulseS
}

// BurnResult holds every derived value of one evaluation
type BurnResult struct {
	EffectiveThrust  float64 `json:"effective_thrust_kn"`
	EffectiveImpulse float64 `json:"effective_isp_s"`
	ExhaustVelocity  float64 `json:"exhaust_velocity_m_s"`
	BurnTime         float64 `json:"burn_time_s"`
	FuelExpended     float64 `json:"fuel_expended_mg"`
	MassInitial      float64 `json:"mass_initial_mg"`
	MassFinal        float64 `json:"mass_final_mg"`
	FuelFinal        float64 `json:"fuel_final_mg"`
	TWRInitial       float64 `json:"twr_initial"`
	TWRFinal         float64 `json:"twr_final"`
}

// InsufficientFuel reports whether the burn needs more propellant than the vehicle carries
func (r BurnResult) InsufficientFuel() bool {
	return r.FuelFinal < 0
}

// FuelFraction is the share of the initial mass expended by the burn
func (r BurnResult) FuelFraction() float64 {
	if r.MassInitial == 0 {
		return 0
	}
	return r.FuelExpended / r.MassInitial
}

func engineField(index int, field string) string {
	return fmt.Sprintf("engine %d %s", index+1, field)
}
