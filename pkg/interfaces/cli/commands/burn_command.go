package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/spf13/viper"

	"github.com/vsinha/firemarshal/pkg/application/services"
	"github.com/vsinha/firemarshal/pkg/infrastructure/advisories"
	"github.com/vsinha/firemarshal/pkg/infrastructure/config"
	"github.com/vsinha/firemarshal/pkg/infrastructure/logging"
	"github.com/vsinha/firemarshal/pkg/interfaces/cli/input"
	"github.com/vsinha/firemarshal/pkg/interfaces/cli/output"
)

// Config holds configuration for the burn command
type Config struct {
	// Settings is the resolved flag/env/config-file view used to build the request
	Settings *viper.Viper

	Format         string
	OutputDir      string
	Verbose        bool
	Interactive    bool
	ZeroTerminates bool
	Pause          bool
	RulesFile      string
	LogLevel       int
	Help           bool

	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
	ReadKey input.KeyReader
}

// ConfigFromViper reads command settings from v. I/O defaults to the process streams.
func ConfigFromViper(v *viper.Viper) Config {
	return Config{
		Settings:       v,
		Format:         v.GetString(config.KeyFormat),
		OutputDir:      v.GetString(config.KeyOutput),
		Verbose:        v.GetBool(config.KeyVerbose),
		Interactive:    v.GetBool(config.KeyInteractive),
		ZeroTerminates: v.GetBool(config.KeyZeroTerminates),
		Pause:          v.GetBool(config.KeyPause),
		RulesFile:      v.GetString(config.KeyRules),
		LogLevel:       v.GetInt(config.KeyLogLevel),
		Help:           v.GetBool(config.KeyHelp),
		Stdin:          os.Stdin,
		Stdout:         os.Stdout,
		Stderr:         os.Stderr,
		ReadKey:        input.ReadKeyboard,
	}
}

// BurnCommand handles the main burn planning logic
type BurnCommand struct {
	config Config
	logger *logging.Logger
}

// NewBurnCommand creates a new burn command with the given configuration
func NewBurnCommand(config Config) *BurnCommand {
	level := config.LogLevel
	if config.Verbose && level < int(logging.Info) {
		level = int(logging.Info)
	}
	if config.Stdout == nil {
		config.Stdout = io.Discard
	}
	if config.Stderr == nil {
		config.Stderr = io.Discard
	}
	logger := logging.New(level)
	if machineReadable(config.Format) {
		logger = logging.NewTo(level, config.Stderr)
	}
	return &BurnCommand{
		config: config,
		logger: logger,
	}
}

// chatter is where prompts go. Machine-readable output keeps stdout to itself.
func (c *BurnCommand) chatter() io.Writer {
	if machineReadable(c.config.Format) {
		return c.config.Stderr
	}
	return c.config.Stdout
}

func machineReadable(format string) bool {
	return format != "text" && format != ""
}

// Execute runs the burn command
func (c *BurnCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	var prompter *input.Prompter
	if c.config.Interactive {
		prompter = input.NewPrompter(c.config.Stdin, c.chatter(), c.logger)
		prompter.ZeroTerminates = c.config.ZeroTerminates
		prompter.Tips()
	}

	req, err := ResolveRequest(c.config.Settings, prompter, c.logger)
	if err != nil {
		return fmt.Errorf("input error: %w", err)
	}
	if prompter != nil {
		fmt.Fprintln(c.chatter())
	}

	evaluator, err := advisories.Load(c.config.RulesFile)
	if err != nil {
		return err
	}

	service := services.NewBurnServiceWithConfig(services.ServiceConfig{
		Advisories: evaluator,
		Logger:     c.logger,
	})

	report, err := service.Evaluate(ctx, req)
	if err != nil {
		return err
	}

	err = output.Generate(c.config.Stdout, report, output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	})
	if err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if c.config.Pause {
		return input.Pause(c.chatter(), c.config.ReadKey)
	}
	return nil
}

// validateInputs validates the command configuration
func (c *BurnCommand) validateInputs() error {
	if c.config.Settings == nil {
		return fmt.Errorf("no settings supplied")
	}
	if !slices.Contains(output.Formats, c.config.Format) {
		return fmt.Errorf("unsupported output format %q, expected one of %v", c.config.Format, output.Formats)
	}
	if c.config.Interactive && c.config.Stdin == nil {
		return fmt.Errorf("interactive mode needs an input stream")
	}
	if c.config.Pause && c.config.ReadKey == nil {
		return fmt.Errorf("pause needs a key reader")
	}
	return nil
}

// showHelp displays the help message
func (c *BurnCommand) showHelp() {
	fmt.Fprint(c.config.Stdout, `FireMarshal - burn time and fuel usage for a given delta-v

USAGE:
    firemarshal --dv <m/s> --mass <Mg> --fuel <Mg> --thrust "<kN> ..." --isp "<s> ..."
    firemarshal --scenario <file.yaml> [overrides]
    firemarshal --interactive

OPTIONS:
    --dv <m/s>            Desired delta-v
    --mass <Mg>           Vessel mass (1 Mg = 1 metric ton)
    --fuel <Mg>           Fuel mass of the current stage
    --thrust "<list>"     Engine thrusts in kN, space separated
    --isp "<list>"        Engine specific impulses in seconds, paired with --thrust by position
    --scenario <file>     YAML scenario (delta_v, vehicle.mass, vehicle.fuel, engines)
    --engines <file>      Engine table CSV (name,thrust_kn,isp_s)
    --use "<list>"        Pick engines from --engines by name, e.g. "Swivel:2,Terrier"
    -i, --interactive     Prompt for any value not supplied elsewhere
    --zero-terminates     In interactive mode, 0 thrust or Isp ends engine entry
    --format <fmt>        Output format: text, json, csv (default: text)
    -o, --output <dir>    Also save results to <dir>/burn_results.<ext>
    -v, --verbose         Enable verbose output
    --pause               Wait for a key press before exiting
    --rules <file>        Advisory rule pack (YAML, JSONLogic expressions)
    --config <file>       YAML config file with any of the keys above
    --log-level <n>       0 fatal, 1 error, 2 warn, 3 debug, 4 info, 5 trace
    -h, --help            Show this help message

Every option can also be set through the environment, e.g. FIREMARSHAL_DV=1000.
Precedence: flag, environment, config file, scenario file.

EXAMPLES:
    # Single engine
    firemarshal --dv 1000 --mass 10 --fuel 4 --thrust 200 --isp 300

    # Two engines, JSON output
    firemarshal --dv 860 --mass 14.5 --fuel 6 --thrust "60 20" --isp "345 320" --format json

    # Engines picked from a table
    firemarshal --dv 1000 --mass 10 --fuel 4 --engines examples/engines.csv --use "LV-T45 Swivel:2"

    # Saved scenario with a different delta-v
    firemarshal --scenario examples/mun_transfer.yaml --dv 300
`)
}
