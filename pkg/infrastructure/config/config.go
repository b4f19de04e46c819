package config

import (
	"fmt"
	"strings"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment override, e.g. FIREMARSHAL_DV
const EnvPrefix = "FIREMARSHAL"

// Keys shared by flags, environment and config files
const (
	KeyDeltaV         = "dv"
	KeyMass           = "mass"
	KeyFuel           = "fuel"
	KeyThrust         = "thrust"
	KeyImpulse        = "isp"
	KeyScenario       = "scenario"
	KeyEngines        = "engines"
	KeyUse            = "use"
	KeyInteractive    = "interactive"
	KeyZeroTerminates = "zero-terminates"
	KeyFormat         = "format"
	KeyOutput         = "output"
	KeyVerbose        = "verbose"
	KeyPause          = "pause"
	KeyRules          = "rules"
	KeyConfig         = "config"
	KeyLogLevel       = "log-level"
	KeyHelp           = "help"
	KeyListen         = "listen"
	KeyJournalSize    = "journal-size"
)

// NewCLIFlagSet defines the flags of the firemarshal command
func NewCLIFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.Float64(KeyDeltaV, 0, "Desired delta-v in m/s")
	fs.Float64(KeyMass, 0, "Vessel mass in Mg")
	fs.Float64(KeyFuel, 0, "Fuel mass in Mg")
	fs.String(KeyThrust, "", "Engine thrusts in kN, space separated (\"200 60\")")
	fs.String(KeyImpulse, "", "Engine specific impulses in seconds, paired with --thrust by position")
	fs.String(KeyScenario, "", "Path to a YAML scenario file")
	fs.String(KeyEngines, "", "Path to an engine table CSV file (name,thrust_kn,isp_s)")
	fs.String(KeyUse, "", "Engines to pick from --engines by name, comma separated, with optional :count (\"Swivel:2,Terrier\")")
	fs.BoolP(KeyInteractive, "i", false, "Prompt for every value")
	fs.Bool(KeyZeroTerminates, false, "In interactive mode, a zero thrust or impulse ends engine entry")
	fs.String(KeyFormat, "text", "Output format: text, json, csv")
	fs.StringP(KeyOutput, "o", "", "Output directory for results (optional)")
	fs.BoolP(KeyVerbose, "v", false, "Enable verbose output")
	fs.Bool(KeyPause, false, "Wait for a key press before exiting")
	fs.String(KeyRules, "", "Path to an advisory rule pack (YAML)")
	addCommon(fs)
	return fs
}

// NewDaemonFlagSet defines the flags of the firemarshald service
func NewDaemonFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.String(KeyListen, ":8080", "HTTP listen address")
	fs.Int(KeyJournalSize, 100, "Number of evaluations kept for GET /v1/burns")
	fs.String(KeyRules, "", "Path to an advisory rule pack (YAML)")
	addCommon(fs)
	return fs
}

func addCommon(fs *pflag.FlagSet) {
	fs.String(KeyConfig, "", "Path to a YAML config file")
	fs.Int(KeyLogLevel, 2, "Log level: 0 fatal, 1 error, 2 warn, 3 debug, 4 info, 5 trace")
	fs.BoolP(KeyHelp, "h", false, "Show help message")
}

// Load resolves settings from flags, FIREMARSHAL_* environment variables and an
// optional config file. Precedence is flag, env, config file, default.
func Load(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	setDefaults(v)

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if path := v.GetString(KeyConfig); path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}

	return v, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault(KeyFormat, "text")
	v.SetDefault(KeyLogLevel, 2)
	v.SetDefault(KeyListen, ":8080")
	v.SetDefault(KeyJournalSize, 100)
}

// Float returns the value of key and whether any source set it.
// Unlike viper.GetFloat64, malformed values are reported instead of read as zero.
func Float(v *viper.Viper, key string) (float64, bool, error) {
	if !v.IsSet(key) {
		return 0, false, nil
	}
	f, err := cast.ToFloat64E(v.Get(key))
	if err != nil {
		return 0, true, fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return f, true, nil
}

// FloatList parses a list of numbers separated by spaces or commas
func FloatList(v *viper.Viper, key string) ([]float64, error) {
	raw := v.Get(key)
	var fields []string
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case []interface{}:
		for _, item := range val {
			fields = append(fields, cast.ToString(item))
		}
	case []string:
		fields = val
	default:
		fields = strings.FieldsFunc(cast.ToString(val), func(r rune) bool {
			return r == ' ' || r == ',' || r == '\t'
		})
	}

	out := make([]float64, 0, len(fields))
	for _, field := range fields {
		f, err := cast.ToFloat64E(strings.TrimSpace(field))
		if err != nil {
			return nil, fmt.Errorf("invalid value %q in %s: %w", field, key, err)
		}
		out = append(out, f)
	}
	return out, nil
}

// StringList returns a comma separated setting, or a YAML sequence, as trimmed non-empty strings
func StringList(v *viper.Viper, key string) ([]string, error) {
	raw := v.Get(key)
	var fields []string
	switch val := raw.(type) {
	case nil:
		return nil, nil
	case string:
		fields = strings.Split(val, ",")
	default:
		list, err := cast.ToStringSliceE(val)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", key, err)
		}
		fields = list
	}

	out := make([]string, 0, len(fields))
	for _, field := range fields {
		if field = strings.TrimSpace(field); field != "" {
			out = append(out, field)
		}
	}
	return out, nil
}
