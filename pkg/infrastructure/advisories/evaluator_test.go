package advisories

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
)

func newDefaultEvaluator(t *testing.T) *Evaluator {
	t.Helper()
	pack, err := DefaultPack()
	if err != nil {
		t.Fatalf("DefaultPack failed: %v", err)
	}
	evaluator, err := NewEvaluator(pack)
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}
	return evaluator
}

func ruleIDs(advisories []Advisory) []string {
	ids := []string{}
	for _, a := range advisories {
		ids = append(ids, a.RuleID)
	}
	return ids
}

func TestEvaluator_DefaultPack(t *testing.T) {
	evaluator := newDefaultEvaluator(t)
	if evaluator.Version() != "1" {
		t.Errorf("Expected default pack version 1, got %q", evaluator.Version())
	}

	testCases := []struct {
		name     string
		result   entities.BurnResult
		expected []string
	}{
		{
			name:     "nominal burn",
			result:   entities.BurnResult{BurnTime: 42.4, FuelExpended: 2.88, MassInitial: 10, MassFinal: 7.12, FuelFinal: 1.12, TWRInitial: 20, TWRFinal: 28},
			expected: []string{},
		},
		{
			name:     "weak engine",
			result:   entities.BurnResult{BurnTime: 1696, FuelExpended: 2.88, MassInitial: 10, MassFinal: 7.12, FuelFinal: 1.12, TWRInitial: 0.5, TWRFinal: 0.7},
			expected: []string{"low-acceleration", "long-burn"},
		},
		{
			name:     "nearly all propellant",
			result:   entities.BurnResult{BurnTime: 137, FuelExpended: 9.34, MassInitial: 10, MassFinal: 0.66, FuelFinal: -5.34, TWRInitial: 20, TWRFinal: 303},
			expected: []string{"high-fuel-fraction"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fired, err := evaluator.Evaluate(context.Background(), tc.result)
			if err != nil {
				t.Fatalf("Evaluate failed: %v", err)
			}
			if got := ruleIDs(fired); !reflect.DeepEqual(got, tc.expected) {
				t.Errorf("Expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func TestEvaluator_CustomPackFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	content := `
version: "custom-2"
rules:
  - id: insufficient-fuel
    severity: warning
    message: Not enough fuel
    logic:
      "==": [{ var: insufficient_fuel }, true]
  - id: no-severity
    message: Defaults to info
    logic:
      ">=": [{ var: fuel_expended_mg }, 0]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}

	pack, err := LoadRulePack(path)
	if err != nil {
		t.Fatalf("LoadRulePack failed: %v", err)
	}
	evaluator, err := NewEvaluator(pack)
	if err != nil {
		t.Fatalf("NewEvaluator failed: %v", err)
	}

	fired, err := evaluator.Evaluate(context.Background(), entities.BurnResult{MassInitial: 10, FuelExpended: 2.9, FuelFinal: -0.9})
	if err != nil {
		t.Fatalf("Evaluate failed: %v", err)
	}
	if len(fired) != 2 {
		t.Fatalf("Expected 2 advisories, got %v", fired)
	}
	if fired[0].Severity != SeverityWarning || fired[0].Message != "Not enough fuel" {
		t.Errorf("Unexpected first advisory %+v", fired[0])
	}
	if fired[1].Severity != SeverityInfo {
		t.Errorf("Expected default severity info, got %s", fired[1].Severity)
	}
}

func TestNewEvaluator_Errors(t *testing.T) {
	logic := map[string]interface{}{"<": []interface{}{map[string]interface{}{"var": "twr_initial"}, 1}}

	testCases := []struct {
		name string
		pack RulePack
	}{
		{"missing id", RulePack{Rules: []Rule{{Logic: logic}}}},
		{"duplicate id", RulePack{Rules: []Rule{{ID: "a", Logic: logic}, {ID: "a", Logic: logic}}}},
		{"bad severity", RulePack{Rules: []Rule{{ID: "a", Severity: "panic", Logic: logic}}}},
		{"empty logic", RulePack{Rules: []Rule{{ID: "a"}}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := NewEvaluator(tc.pack); err == nil {
				t.Errorf("Expected error for %s", tc.name)
			}
		})
	}
}

func TestEvaluator_CancelledContext(t *testing.T) {
	evaluator := newDefaultEvaluator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := evaluator.Evaluate(ctx, entities.BurnResult{MassInitial: 10}); err == nil {
		t.Error("Expected error for cancelled context")
	}
}

func TestLoad(t *testing.T) {
	evaluator, err := Load("")
	if err != nil {
		t.Fatalf("Load with no path failed: %v", err)
	}
	if evaluator.Version() != "1" {
		t.Errorf("Expected built-in version 1, got %s", evaluator.Version())
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing rule pack")
	}

	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("version: x\nrules:\n  - id: bad\n    severity: loud\n    logic: {\"==\": [1, 1]}\n"), 0644); err != nil {
		t.Fatalf("failed to write fixture: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Error("Expected error for invalid severity")
	}
}
