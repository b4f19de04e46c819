package commands

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/viper"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/domain/services"
	"github.com/vsinha/firemarshal/pkg/infrastructure/config"
	"github.com/vsinha/firemarshal/pkg/infrastructure/logging"
	"github.com/vsinha/firemarshal/pkg/infrastructure/repositories/csv"
	"github.com/vsinha/firemarshal/pkg/infrastructure/repositories/memory"
	"github.com/vsinha/firemarshal/pkg/infrastructure/repositories/yaml"
	"github.com/vsinha/firemarshal/pkg/interfaces/cli/input"
)

// ResolveRequest gathers delta-v, vehicle masses and engines from whichever
// sources are configured and builds one immutable BurnRequest.
//
// Scalars come from flags, FIREMARSHAL_* variables or the config file first,
// then the scenario file, then the prompter. Engines come from --thrust/--isp,
// then --engines, then the scenario file, then the prompter. prompter may be
// nil when the session is not interactive.
func ResolveRequest(v *viper.Viper, prompter *input.Prompter, logger *logging.Logger) (entities.BurnRequest, error) {
	var scenario yaml.Scenario
	if path := v.GetString(config.KeyScenario); path != "" {
		loaded, err := yaml.LoadScenario(path)
		if err != nil {
			return entities.BurnRequest{}, err
		}
		scenario = loaded
		logger.Infof("loaded scenario %q from %s", scenario.Name, path)
	}

	deltaV, err := resolveScalar(v, config.KeyDeltaV, scenario.DeltaV, prompter, "Desired delta-v in m/s?\t\t", logger)
	if err != nil {
		return entities.BurnRequest{}, err
	}
	mass, err := resolveScalar(v, config.KeyMass, scenario.Vehicle.Mass, prompter, "Vessel mass in Mg?\t\t", logger)
	if err != nil {
		return entities.BurnRequest{}, err
	}
	fuel, err := resolveScalar(v, config.KeyFuel, scenario.Vehicle.Fuel, prompter, "Fuel mass in Mg?\t\t", logger)
	if err != nil {
		return entities.BurnRequest{}, err
	}

	engines, err := resolveEngines(v, scenario.Engines, prompter, logger)
	if err != nil {
		return entities.BurnRequest{}, err
	}

	return entities.NewBurnRequest(deltaV, entities.VehicleState{MassInitial: mass, FuelInitial: fuel}, engines)
}

func resolveScalar(v *viper.Viper, key string, fromScenario *float64, prompter *input.Prompter, label string, logger *logging.Logger) (float64, error) {
	value, ok, err := config.Float(v, key)
	if err != nil {
		return 0, err
	}
	if ok {
		return magnitude(key, value, logger), nil
	}
	if fromScenario != nil {
		return magnitude(key, *fromScenario, logger), nil
	}
	if prompter != nil {
		return prompter.Float(label)
	}
	return 0, fmt.Errorf("%s is required: use --%s, FIREMARSHAL_%s, a scenario file or --interactive",
		key, key, envName(key))
}

func resolveEngines(v *viper.Viper, fromScenario entities.EngineSet, prompter *input.Prompter, logger *logging.Logger) (entities.EngineSet, error) {
	thrusts, err := config.FloatList(v, config.KeyThrust)
	if err != nil {
		return nil, err
	}
	impulses, err := config.FloatList(v, config.KeyImpulse)
	if err != nil {
		return nil, err
	}

	if len(thrusts) > 0 || len(impulses) > 0 {
		return pairEngines(thrusts, impulses, logger)
	}

	selections, err := config.StringList(v, config.KeyUse)
	if err != nil {
		return nil, err
	}

	if path := v.GetString(config.KeyEngines); path != "" {
		return loadEngineTable(path, selections, logger)
	}
	if len(selections) > 0 {
		return nil, fmt.Errorf("--%s needs an engine table: use --%s", config.KeyUse, config.KeyEngines)
	}

	if len(fromScenario) > 0 {
		return fromScenario, nil
	}

	if prompter != nil {
		return prompter.Engines()
	}

	return nil, fmt.Errorf("%w: use --thrust and --isp, --engines, a scenario file or --interactive", entities.ErrNoEngines)
}

// loadEngineTable reads a CSV engine table. With no selections every row fires;
// otherwise the table is a catalog and only the named engines are used.
func loadEngineTable(path string, selections []string, logger *logging.Logger) (entities.EngineSet, error) {
	table, err := csv.NewLoader().LoadEngines(path)
	if err != nil {
		return nil, err
	}
	logger.Infof("loaded %d engines from %s", len(table), path)
	if len(selections) == 0 {
		return table, nil
	}

	catalog := memory.NewEngineRepository(len(table))
	if err := catalog.LoadEngines(table); err != nil {
		return nil, fmt.Errorf("engine table %s: %w", path, err)
	}
	return services.SelectEngines(catalog, selections)
}

// pairEngines matches the nth thrust with the nth impulse
func pairEngines(thrusts, impulses []float64, logger *logging.Logger) (entities.EngineSet, error) {
	if len(thrusts) != len(impulses) {
		return nil, fmt.Errorf("got %d thrust values but %d specific impulse values", len(thrusts), len(impulses))
	}

	engines := make(entities.EngineSet, len(thrusts))
	for i := range thrusts {
		engines[i] = entities.Engine{
			ThrustKN: magnitude(fmt.Sprintf("engine %d thrust", i+1), thrusts[i], logger),
			ImpulseS: magnitude(fmt.Sprintf("engine %d isp", i+1), impulses[i], logger),
		}
	}
	return engines, nil
}

// magnitude drops the sign of raw numeric entry the way the interactive shell always has
func magnitude(name string, value float64, logger *logging.Logger) float64 {
	if value < 0 {
		logger.Warnf("using magnitude of negative %s %g", name, value)
		return math.Abs(value)
	}
	return value
}

func envName(key string) string {
	return strings.ToUpper(strings.ReplaceAll(key, "-", "_"))
}
