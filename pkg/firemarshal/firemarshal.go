// Package firemarshal plans constant-thrust burns for a vessel with one or
// more engines firing together. It is the library entry point; the CLI and
// the HTTP daemon are thin layers over the same calls.
package firemarshal

import (
	"context"

	"github.com/vsinha/firemarshal/pkg/application/dto"
	"github.com/vsinha/firemarshal/pkg/application/services"
	"github.com/vsinha/firemarshal/pkg/domain/entities"
	domain "github.com/vsinha/firemarshal/pkg/domain/services"
	"github.com/vsinha/firemarshal/pkg/infrastructure/advisories"
)

// StandardGravity is the g0 used to turn specific impulse into exhaust velocity (m/s²)
const StandardGravity = entities.StandardGravity

// Core types
type (
	Engine                = entities.Engine
	EngineSet             = entities.EngineSet
	VehicleState          = entities.VehicleState
	BurnRequest           = entities.BurnRequest
	BurnResult            = entities.BurnResult
	Performance           = entities.Performance
	ValidationError       = entities.ValidationError
	DegenerateEngineError = entities.DegenerateEngineError
	BurnReport            = dto.BurnReport
	Advisory              = advisories.Advisory
)

// Error sentinels for use with errors.Is
var (
	ErrInvalidInput     = entities.ErrInvalidInput
	ErrNoEngines        = entities.ErrNoEngines
	ErrDegenerateEngine = entities.ErrDegenerateEngine
)

// Burn evaluates one burn. A negative FuelFinal on the result means the
// vessel does not carry enough fuel; it is not reported as an error.
func Burn(deltaV, massInitial, fuelInitial float64, engines ...Engine) (*BurnResult, error) {
	return domain.EvaluateScalars(deltaV, massInitial, fuelInitial, engines)
}

// Combine returns the effective thrust and specific impulse of engines firing together
func Combine(engines ...Engine) (Performance, error) {
	return domain.AggregateEngines(EngineSet(engines))
}

// Planner evaluates burns and attaches warnings and advisories to each result
type Planner struct {
	service *services.BurnService
}

// NewPlanner creates a planner using the rule pack at rulesPath, or the
// built-in rules when rulesPath is empty
func NewPlanner(rulesPath string) (*Planner, error) {
	evaluator, err := advisories.Load(rulesPath)
	if err != nil {
		return nil, err
	}
	return &Planner{
		service: services.NewBurnServiceWithConfig(services.ServiceConfig{Advisories: evaluator}),
	}, nil
}

// Plan evaluates req and returns the full report
func (p *Planner) Plan(ctx context.Context, req BurnRequest) (*BurnReport, error) {
	return p.service.Evaluate(ctx, req)
}
