package testing

import (
	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/infrastructure/repositories/memory"
)

// Reference burn: 1000 m/s on a 10 Mg vessel with one 200 kN / 300 s engine
const (
	ReferenceDeltaV = 1000.0
	ReferenceMass   = 10.0
	ReferenceFuel   = 4.0
	// ShortFuel leaves the reference burn about 0.878 Mg short
	ShortFuel = 2.0
)

// ReferenceEngine is the single engine of the reference burn
func ReferenceEngine() entities.Engine {
	return entities.Engine{Name: "LV-T45 Swivel", ThrustKN: 200, ImpulseS: 300}
}

// BuildReferenceRequest builds the reference burn with the given fuel load
func BuildReferenceRequest(fuel float64) entities.BurnRequest {
	req, err := entities.NewBurnRequest(ReferenceDeltaV,
		entities.VehicleState{MassInitial: ReferenceMass, FuelInitial: fuel},
		entities.EngineSet{ReferenceEngine()})
	if err != nil {
		panic(err)
	}
	return req
}

// BuildMixedEngines returns two engines whose combined Isp is 281.25 s
func BuildMixedEngines() entities.EngineSet {
	return entities.EngineSet{
		{Name: "Main", ThrustKN: 200, ImpulseS: 300},
		{Name: "Booster", ThrustKN: 100, ImpulseS: 250},
	}
}

// BuildEngineCatalog builds an in-memory catalog of stock engines
func BuildEngineCatalog() *memory.EngineRepository {
	engines := entities.EngineSet{
		ReferenceEngine(),
		{Name: "LV-909 Terrier", ThrustKN: 60, ImpulseS: 345},
		{Name: "RE-I5 Skipper", ThrustKN: 650, ImpulseS: 320},
		{Name: "RE-L10 Poodle", ThrustKN: 250, ImpulseS: 350},
		{Name: "48-7S Spark", ThrustKN: 20, ImpulseS: 320},
	}

	catalog := memory.NewEngineRepository(len(engines))
	if err := catalog.LoadEngines(engines); err != nil {
		panic(err)
	}
	return catalog
}

// BuildReportRequestJSON is the reference burn as an HTTP request body
func BuildReportRequestJSON() string {
	return `{"delta_v_m_s":1000,"vehicle":{"mass_initial_mg":10,"fuel_initial_mg":4},"engines":[{"thrust_kn":200,"isp_s":300}]}`
}
