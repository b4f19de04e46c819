package memory

import (
	"fmt"
	"strings"

	"github.com/sasha-s/go-deadlock"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/domain/repositories"
)

// EngineRepository provides in-memory engine catalog storage.
// Names are matched case-insensitively; unnamed engines are listed but cannot be looked up.
type EngineRepository struct {
	mutex      *deadlock.RWMutex
	engines    []entities.Engine
	enginesMap map[string]int
}

// NewEngineRepository creates a new in-memory engine repository
func NewEngineRepository(expectedEngines int) *EngineRepository {
	return &EngineRepository{
		mutex:      &deadlock.RWMutex{},
		engines:    make([]entities.Engine, 0, expectedEngines),
		enginesMap: make(map[string]int, expectedEngines),
	}
}

// Verify interface compliance
var _ repositories.EngineRepository = (*EngineRepository)(nil)

// LoadEngines adds engines to the catalog, rejecting invalid engines and duplicate names
func (r *EngineRepository) LoadEngines(engines entities.EngineSet) error {
	for i, engine := range engines {
		if err := r.AddEngine(engine); err != nil {
			return fmt.Errorf("engine %d: %w", i+1, err)
		}
	}
	return nil
}

// AddEngine adds one engine to the catalog
func (r *EngineRepository) AddEngine(engine entities.Engine) error {
	if err := engine.Validate(); err != nil {
		return err
	}

	r.mutex.Lock()
	defer r.mutex.Unlock()

	if key := catalogKey(engine.Name); key != "" {
		if _, exists := r.enginesMap[key]; exists {
			return fmt.Errorf("duplicate engine name: %s", engine.Name)
		}
		r.enginesMap[key] = len(r.engines)
	}
	r.engines = append(r.engines, engine)
	return nil
}

// GetEngine returns a copy of the named engine
func (r *EngineRepository) GetEngine(name string) (*entities.Engine, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	index, exists := r.enginesMap[catalogKey(name)]
	if !exists {
		return nil, fmt.Errorf("engine not found: %s", name)
	}
	engine := r.engines[index]
	return &engine, nil
}

// GetAllEngines returns every engine in load order
func (r *EngineRepository) GetAllEngines() (entities.EngineSet, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	return entities.EngineSet(r.engines).Clone(), nil
}

func catalogKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
