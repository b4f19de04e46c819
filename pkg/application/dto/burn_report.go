package dto

import (
	"time"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/infrastructure/advisories"
)

// InsufficientFuelWarning is reported when the burn needs more propellant than the vehicle carries
const InsufficientFuelWarning = "Insufficient fuel for burn!"

// BurnReport is the complete output of one burn evaluation
type BurnReport struct {
	Request      entities.BurnRequest  `json:"request"`
	Result       entities.BurnResult   `json:"result"`
	Warnings     []string              `json:"warnings"`
	Advisories   []advisories.Advisory `json:"advisories"`
	RulesVersion string                `json:"rules_version,omitempty"`
	EvaluatedIn  time.Duration         `json:"-"`
}

// InsufficientFuel reports whether the burn is infeasible with the fuel on board
func (r *BurnReport) InsufficientFuel() bool {
	return r.Result.InsufficientFuel()
}
