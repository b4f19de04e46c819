package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/domain/repositories"
)

// maxEngineCount bounds the :count suffix of a selection
const maxEngineCount = 1000

// SelectEngines builds an engine set from catalog entries named by selections.
// Each selection is "name" or "name:count"; a count repeats the engine.
func SelectEngines(repo repositories.EngineRepository, selections []string) (entities.EngineSet, error) {
	if len(selections) == 0 {
		return nil, entities.ErrNoEngines
	}

	var engines entities.EngineSet
	for _, selection := range selections {
		name, count, err := parseSelection(selection)
		if err != nil {
			return nil, err
		}

		engine, err := repo.GetEngine(name)
		if err != nil {
			return nil, err
		}
		for i := 0; i < count; i++ {
			engines = append(engines, *engine)
		}
	}
	return engines, nil
}

func parseSelection(selection string) (string, int, error) {
	selection = strings.TrimSpace(selection)
	idx := strings.LastIndex(selection, ":")
	if idx < 0 {
		return selection, 1, nil
	}

	count, err := strconv.Atoi(strings.TrimSpace(selection[idx+1:]))
	if err != nil {
		// colon is part of the name
		return selection, 1, nil
	}
	if count < 1 || count > maxEngineCount {
		return "", 0, fmt.Errorf("engine count for %s must be between 1 and %d, got %d", selection[:idx], maxEngineCount, count)
	}
	return strings.TrimSpace(selection[:idx]), count, nil
}
