package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
)

var (
	namedHeader   = []string{"name", "thrust_kn", "isp_s"}
	unnamedHeader = []string{"thrust_kn", "isp_s"}
)

// Loader handles loading engine tables from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadEngines loads an engine set from a CSV file
func (l *Loader) LoadEngines(filename string) (entities.EngineSet, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open engines file %s: %w", filename, err)
	}
	defer file.Close()

	return l.ReadEngines(file)
}

// ReadEngines parses an engine table with header name,thrust_kn,isp_s or thrust_kn,isp_s
func (l *Loader) ReadEngines(r io.Reader) (entities.EngineSet, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true
	reader.Comment = '#'
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("engines CSV must have header and at least one data row")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read engines CSV: %w", err)
	}

	var expectedHeader []string
	switch {
	case validateHeader(header, namedHeader):
		expectedHeader = namedHeader
	case validateHeader(header, unnamedHeader):
		expectedHeader = unnamedHeader
	default:
		return nil, fmt.Errorf("engines CSV header mismatch. Expected: %v or %v, Got: %v", namedHeader, unnamedHeader, header)
	}

	var engines entities.EngineSet
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read engines CSV: %w", err)
		}

		// line numbers count comment lines too
		line, _ := reader.FieldPos(0)
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("engines CSV line %d: expected %d columns, got %d", line, len(expectedHeader), len(record))
		}

		engine, err := parseEngine(record, len(expectedHeader) == len(namedHeader))
		if err != nil {
			return nil, fmt.Errorf("engines CSV line %d: %w", line, err)
		}

		engines = append(engines, engine)
	}

	if len(engines) == 0 {
		return nil, fmt.Errorf("engines CSV must have header and at least one data row")
	}
	return engines, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}

	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}

	return true
}

func parseEngine(record []string, named bool) (entities.Engine, error) {
	var name string
	if named {
		name = strings.TrimSpace(record[0])
		record = record[1:]
	}

	thrust, err := strconv.ParseFloat(strings.TrimSpace(record[0]), 64)
	if err != nil {
		return entities.Engine{}, fmt.Errorf("invalid thrust_kn: %s", record[0])
	}

	impulse, err := strconv.ParseFloat(strings.TrimSpace(record[1]), 64)
	if err != nil {
		return entities.Engine{}, fmt.Errorf("invalid isp_s: %s", record[1])
	}

	engine, err := entities.NewEngine(thrust, impulse)
	if err != nil {
		return entities.Engine{}, err
	}
	engine.Name = name
	return engine, nil
}
