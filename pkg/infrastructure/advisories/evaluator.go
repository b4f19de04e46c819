package advisories

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/diegoholiveira/jsonlogic"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
)

// Advisory is a fired rule
type Advisory struct {
	RuleID   string   `json:"rule_id"`
	Severity Severity `json:"severity"`
	Message  string   `json:"message"`
}

type compiledRule struct {
	Rule
	logic []byte
}

// Evaluator runs a rule pack against burn results. It is safe for concurrent use.
type Evaluator struct {
	version string
	rules   []compiledRule
}

// NewEvaluator validates and compiles every rule of pack
func NewEvaluator(pack RulePack) (*Evaluator, error) {
	probe, err := resultData(entities.BurnResult{})
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(pack.Rules))
	rules := make([]compiledRule, 0, len(pack.Rules))

	for i, rule := range pack.Rules {
		if rule.ID == "" {
			return nil, fmt.Errorf("rule %d: id cannot be empty", i+1)
		}
		if seen[rule.ID] {
			return nil, fmt.Errorf("rule %s: duplicate id", rule.ID)
		}
		seen[rule.ID] = true

		if rule.Severity == "" {
			rule.Severity = SeverityInfo
		}
		if rule.Severity != SeverityInfo && rule.Severity != SeverityWarning {
			return nil, fmt.Errorf("rule %s: unknown severity %q", rule.ID, rule.Severity)
		}
		if len(rule.Logic) == 0 {
			return nil, fmt.Errorf("rule %s: logic cannot be empty", rule.ID)
		}

		logic, err := json.Marshal(rule.Logic)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}
		compiled := compiledRule{Rule: rule, logic: logic}
		if _, err := compiled.apply(probe); err != nil {
			return nil, fmt.Errorf("rule %s: invalid JSONLogic expression: %w", rule.ID, err)
		}

		rules = append(rules, compiled)
	}

	return &Evaluator{version: pack.Version, rules: rules}, nil
}

// Version of the loaded rule pack
func (e *Evaluator) Version() string {
	return e.version
}

// Evaluate returns the advisories whose rule is truthy for result, in pack order
func (e *Evaluator) Evaluate(ctx context.Context, result entities.BurnResult) ([]Advisory, error) {
	data, err := resultData(result)
	if err != nil {
		return nil, err
	}

	var fired []Advisory
	for _, rule := range e.rules {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		value, err := rule.apply(data)
		if err != nil {
			return nil, fmt.Errorf("rule %s: %w", rule.ID, err)
		}

		if truthy(value) {
			fired = append(fired, Advisory{
				RuleID:   rule.ID,
				Severity: rule.Severity,
				Message:  rule.Message,
			})
		}
	}
	return fired, nil
}

func (r compiledRule) apply(data []byte) (interface{}, error) {
	var out bytes.Buffer
	if err := jsonlogic.Apply(bytes.NewReader(r.logic), bytes.NewReader(data), &out); err != nil {
		return nil, err
	}

	var value interface{}
	if err := json.Unmarshal(bytes.TrimSpace(out.Bytes()), &value); err != nil {
		return nil, fmt.Errorf("unreadable result %q: %w", out.String(), err)
	}
	return value, nil
}

// resultData exposes the result's JSON fields plus derived flags to rules
func resultData(result entities.BurnResult) ([]byte, error) {
	raw, err := json.Marshal(result)
	if err != nil {
		return nil, err
	}
	fields := make(map[string]interface{})
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	fields["fuel_fraction"] = result.FuelFraction()
	fields["insufficient_fuel"] = result.InsufficientFuel()
	return json.Marshal(fields)
}

func truthy(v interface{}) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case float64:
		return val != 0
	case string:
		return val != ""
	case []interface{}:
		return len(val) > 0
	default:
		return true
	}
}

// Load builds an evaluator from the rule pack at path, or from the built-in pack when path is empty
func Load(path string) (*Evaluator, error) {
	var (
		pack RulePack
		err  error
	)
	if path != "" {
		pack, err = LoadRulePack(path)
	} else {
		pack, err = DefaultPack()
	}
	if err != nil {
		return nil, err
	}

	evaluator, err := NewEvaluator(pack)
	if err != nil {
		return nil, fmt.Errorf("invalid rule pack: %w", err)
	}
	return evaluator, nil
}
