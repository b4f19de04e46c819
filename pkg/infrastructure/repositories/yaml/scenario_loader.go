package yaml

import (
	"bytes"
	"fmt"
	"os"

	"github.com/vsinha/firemarshal/pkg/domain/entities"

	"gopkg.in/yaml.v3"
)

// Scenario is a saved burn plan. Omitted scalars stay nil so that
// other configuration sources can fill them in.
type Scenario struct {
	Name    string             `yaml:"name"`
	DeltaV  *float64           `yaml:"delta_v"`
	Vehicle ScenarioVehicle    `yaml:"vehicle"`
	Engines entities.EngineSet `yaml:"engines"`
}

// ScenarioVehicle holds the vehicle masses in Mg
type ScenarioVehicle struct {
	Mass *float64 `yaml:"mass"`
	Fuel *float64 `yaml:"fuel"`
}

func LoadScenario(path string) (Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Scenario{}, fmt.Errorf("failed to read scenario %s: %w", path, err)
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (Scenario, error) {
	var scenario Scenario
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&scenario); err != nil {
		return Scenario{}, fmt.Errorf("failed to parse scenario: %w", err)
	}

	for i, e := range scenario.Engines {
		if err := e.Validate(); err != nil {
			return Scenario{}, fmt.Errorf("scenario engine %d: %w", i+1, err)
		}
	}
	return scenario, nil
}
