package advisories

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default_rules.yaml
var defaultRules []byte

// Severity of an advisory
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Rule is one JSONLogic check against a burn result
type Rule struct {
	ID       string                 `yaml:"id" json:"id"`
	Severity Severity               `yaml:"severity" json:"severity"`
	Message  string                 `yaml:"message" json:"message"`
	Logic    map[string]interface{} `yaml:"logic" json:"logic"`
}

// RulePack is a versioned set of rules
type RulePack struct {
	Version     string `yaml:"version" json:"version"`
	Description string `yaml:"description" json:"description"`
	Rules       []Rule `yaml:"rules" json:"rules"`
}

// DefaultPack returns the built-in rule pack
func DefaultPack() (RulePack, error) {
	return ParseRulePack(defaultRules)
}

func LoadRulePack(path string) (RulePack, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return RulePack{}, fmt.Errorf("failed to read rule pack %s: %w", path, err)
	}
	return ParseRulePack(data)
}

func ParseRulePack(data []byte) (RulePack, error) {
	var pack RulePack
	if err := yaml.Unmarshal(data, &pack); err != nil {
		return RulePack{}, fmt.Errorf("failed to parse rule pack: %w", err)
	}
	return pack, nil
}
