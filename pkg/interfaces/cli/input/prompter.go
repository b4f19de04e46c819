package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/vsinha/firemarshal/pkg/domain/entities"
	"github.com/vsinha/firemarshal/pkg/infrastructure/logging"
)

// ErrInputClosed is returned when input ends before a required value was entered
var ErrInputClosed = errors.New("input ended")

const tips = `Welcome! This utility will compute burn time and fuel usage for a given delta-v.
	Tip: Mg = metric ton = 1000kg
	Tip: combine expended resources for these calculations. (eg fuel+oxi)
	Tip: liquid fuel and oxidizer mass is 5kg per unit.
	Tip: monopropellant mass is 4kg per unit.
	Tip: specify only the fuel mass for the current stage.
	Tip: (wet_mass - dry_mass) / capacity = mass per unit
`

// Prompter reads burn inputs from a line-oriented terminal session
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
	log *logging.Logger

	// ZeroTerminates makes a zero thrust or impulse end engine entry
	// instead of being rejected.
	ZeroTerminates bool
}

// NewPrompter creates a prompter reading from in and writing prompts to out
func NewPrompter(in io.Reader, out io.Writer, logger *logging.Logger) *Prompter {
	return &Prompter{
		in:  bufio.NewScanner(in),
		out: out,
		log: logger,
	}
}

// Tips prints the usage banner
func (p *Prompter) Tips() {
	fmt.Fprintf(p.out, "\n%s\n", tips)
}

// Float prompts until a number is entered. Negative entries are taken as magnitudes.
func (p *Prompter) Float(label string) (float64, error) {
	for {
		line, err := p.ask(label)
		if err != nil {
			return 0, fmt.Errorf("%w before %s was entered", ErrInputClosed, strings.TrimRight(strings.TrimSpace(label), "?"))
		}
		if line == "" {
			continue
		}
		v, err := p.parse(line)
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		return v, nil
	}
}

// Engines prompts for thrust and impulse pairs until the user enters a blank
// line or "done" at the thrust prompt.
func (p *Prompter) Engines() (entities.EngineSet, error) {
	fmt.Fprintln(p.out, "Thrust and Isp entry will loop - make one entry per engine.")
	if p.ZeroTerminates {
		fmt.Fprintln(p.out, "Provide value of 0 to stop adding engines.")
	} else {
		fmt.Fprintln(p.out, "Press Enter on an empty thrust prompt (or type done) to stop adding engines.")
	}

	var engines entities.EngineSet
	for {
		n := len(engines) + 1

		thrust, done, err := p.engineValue(fmt.Sprintf("Engine %d thrust in kN?\t\t\t", n), "Thrust", true)
		if err != nil {
			if errors.Is(err, ErrInputClosed) && len(engines) > 0 {
				return engines, nil
			}
			return nil, err
		}
		if done {
			if len(engines) == 0 {
				fmt.Fprintln(p.out, "At least one engine is required.")
				continue
			}
			return engines, nil
		}

		impulse, done, err := p.engineValue(fmt.Sprintf("Engine %d specific impulse in seconds?\t", n), "Specific impulse", false)
		if err != nil {
			// the half-entered engine is dropped
			if errors.Is(err, ErrInputClosed) && len(engines) > 0 {
				return engines, nil
			}
			return nil, err
		}
		if done {
			if len(engines) == 0 {
				return nil, entities.ErrNoEngines
			}
			return engines, nil
		}

		engines = append(engines, entities.Engine{ThrustKN: thrust, ImpulseS: impulse})
	}
}

// engineValue reads one positive engine value. done is true when the user
// signalled the end of engine entry.
func (p *Prompter) engineValue(label, name string, allowDone bool) (float64, bool, error) {
	for {
		line, err := p.ask(label)
		if err != nil {
			return 0, false, fmt.Errorf("%w during engine entry", ErrInputClosed)
		}
		if allowDone && (line == "" || strings.EqualFold(line, "done")) {
			return 0, true, nil
		}
		if line == "" {
			continue
		}

		v, err := p.parse(line)
		if err != nil {
			fmt.Fprintln(p.out, err)
			continue
		}
		if v == 0 {
			if p.ZeroTerminates {
				return 0, true, nil
			}
			fmt.Fprintf(p.out, "%s must be greater than zero.\n", name)
			continue
		}
		return v, false, nil
	}
}

func (p *Prompter) ask(label string) (string, error) {
	fmt.Fprint(p.out, label)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Prompter) parse(line string) (float64, error) {
	v, err := strconv.ParseFloat(line, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q is not a number", line)
	}
	if v < 0 {
		p.log.Warnf("using magnitude of negative entry %s", line)
		v = math.Abs(v)
	}
	return v, nil
}
