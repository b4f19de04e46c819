package input

import (
	"bytes"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
)

func newTestPrompter(input string) (*Prompter, *bytes.Buffer) {
	out := &bytes.Buffer{}
	return NewPrompter(strings.NewReader(input), out, nil), out
}

func TestPrompter_Float(t *testing.T) {
	p, out := newTestPrompter("\nabc\n-1000\n")

	v, err := p.Float("Desired delta-v in m/s?\t\t")
	if err != nil {
		t.Fatalf("Float failed: %v", err)
	}
	if v != 1000 {
		t.Errorf("Expected magnitude 1000, got %g", v)
	}
	if !strings.Contains(out.String(), `"abc" is not a number`) {
		t.Errorf("Expected parse complaint in output, got %q", out.String())
	}
}

func TestPrompter_Float_InputClosed(t *testing.T) {
	p, _ := newTestPrompter("")

	_, err := p.Float("Vessel mass in Mg?\t\t")
	if !errors.Is(err, ErrInputClosed) {
		t.Fatalf("Expected ErrInputClosed, got %v", err)
	}
	if !strings.Contains(err.Error(), "Vessel mass in Mg") {
		t.Errorf("Expected error to name the prompt, got %q", err.Error())
	}
}

func TestPrompter_Engines(t *testing.T) {
	testCases := []struct {
		name           string
		input          string
		zeroTerminates bool
		expected       entities.EngineSet
		outputContains string
	}{
		{
			name:     "blank line ends entry",
			input:    "200\n300\n60\n345\n\n",
			expected: entities.EngineSet{{ThrustKN: 200, ImpulseS: 300}, {ThrustKN: 60, ImpulseS: 345}},
		},
		{
			name:     "done ends entry",
			input:    "200\n300\nDONE\n",
			expected: entities.EngineSet{{ThrustKN: 200, ImpulseS: 300}},
		},
		{
			name:           "zero is rejected by default",
			input:          "0\n200\n0\n300\n\n",
			expected:       entities.EngineSet{{ThrustKN: 200, ImpulseS: 300}},
			outputContains: "Thrust must be greater than zero.",
		},
		{
			name:           "zero terminates when enabled",
			input:          "200\n300\n60\n0\n",
			zeroTerminates: true,
			expected:       entities.EngineSet{{ThrustKN: 200, ImpulseS: 300}},
		},
		{
			name:           "first engine is required",
			input:          "\n200\n300\n\n",
			expected:       entities.EngineSet{{ThrustKN: 200, ImpulseS: 300}},
			outputContains: "At least one engine is required.",
		},
		{
			name:     "end of input after an engine",
			input:    "200\n-300\n",
			expected: entities.EngineSet{{ThrustKN: 200, ImpulseS: 300}},
		},
		{
			name:     "end of input at impulse keeps finished engines",
			input:    "200\n300\n60\n",
			expected: entities.EngineSet{{ThrustKN: 200, ImpulseS: 300}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, out := newTestPrompter(tc.input)
			p.ZeroTerminates = tc.zeroTerminates

			engines, err := p.Engines()
			if err != nil {
				t.Fatalf("Engines failed: %v", err)
			}
			if !reflect.DeepEqual(engines, tc.expected) {
				t.Errorf("Expected %+v, got %+v", tc.expected, engines)
			}
			if tc.outputContains != "" && !strings.Contains(out.String(), tc.outputContains) {
				t.Errorf("Expected output to contain %q, got %q", tc.outputContains, out.String())
			}
			if !strings.Contains(out.String(), "Engine 1 thrust in kN?") {
				t.Errorf("Expected numbered engine prompt, got %q", out.String())
			}
		})
	}
}

func TestPrompter_Engines_Errors(t *testing.T) {
	p, _ := newTestPrompter("")
	if _, err := p.Engines(); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Expected ErrInputClosed with no engines, got %v", err)
	}

	p, _ = newTestPrompter("200\n0\n")
	p.ZeroTerminates = true
	if _, err := p.Engines(); !errors.Is(err, entities.ErrNoEngines) {
		t.Errorf("Expected ErrNoEngines, got %v", err)
	}

	p, _ = newTestPrompter("200\n")
	if _, err := p.Engines(); !errors.Is(err, ErrInputClosed) {
		t.Errorf("Expected ErrInputClosed mid-engine, got %v", err)
	}
}

func TestPause(t *testing.T) {
	out := &bytes.Buffer{}
	pressed := false

	err := Pause(out, func() error {
		pressed = true
		return nil
	})
	if err != nil {
		t.Fatalf("Pause failed: %v", err)
	}
	if !pressed {
		t.Error("Expected key reader to be called")
	}
	if out.String() != "Press any key to continue\n" {
		t.Errorf("Unexpected output %q", out.String())
	}

	if err := Pause(&bytes.Buffer{}, func() error { return errors.New("no tty") }); err == nil {
		t.Error("Expected key reader error to be returned")
	}
}
