package events

import (
	"github.com/vsinha/firemarshal/pkg/domain/entities"
)

const (
	BurnEvaluatedEvent = "burn.evaluated"
	BurnRejectedEvent  = "burn.rejected"
)

// BurnStream is the stream every burn evaluation is appended to
const BurnStream = "burns"

type BurnEvaluated struct {
	Request          entities.BurnRequest `json:"request"`
	Result           entities.BurnResult  `json:"result"`
	InsufficientFuel bool                 `json:"insufficient_fuel"`
}

type BurnRejected struct {
	Request entities.BurnRequest `json:"request"`
	Reason  string               `json:"reason"`
}
