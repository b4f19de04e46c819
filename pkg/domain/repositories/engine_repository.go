package repositories

import "github.com/vsinha/firemarshal/pkg/domain/entities"

// EngineRepository provides access to a catalog of named engines
type EngineRepository interface {
	GetEngine(name string) (*entities.Engine, error)
	GetAllEngines() (entities.EngineSet, error)
	LoadEngines(engines entities.EngineSet) error
}
