package output

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/vsinha/firemarshal/pkg/application/dto"
)

// Formats lists the supported output formats
var Formats = []string{"text", "json", "csv"}

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Generate renders report in the configured format to w, and also saves it
// under OutputDir when one is set.
func Generate(w io.Writer, report *dto.BurnReport, config Config) error {
	var buf bytes.Buffer
	var ext string

	switch config.Format {
	case "text", "":
		generateTextOutput(&buf, report, config)
		ext = "txt"
	case "json":
		if err := generateJSONOutput(&buf, report); err != nil {
			return err
		}
		ext = "json"
	case "csv":
		if err := generateCSVOutput(&buf, report); err != nil {
			return err
		}
		ext = "csv"
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}

	if _, err := w.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if config.OutputDir == "" {
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := filepath.Join(config.OutputDir, "burn_results."+ext)
	if err := os.WriteFile(filename, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s output: %w", config.Format, err)
	}

	if config.Verbose {
		fmt.Fprintf(w, "Results saved to: %s\n", filename)
	}
	return nil
}

// Round formats v with a fixed number of decimal places
func Round(v float64, places int32) string {
	return decimal.NewFromFloat(v).StringFixed(places)
}

// generateTextOutput creates human-readable text output
func generateTextOutput(w io.Writer, report *dto.BurnReport, config Config) {
	r := report.Result

	if config.Verbose {
		fmt.Fprintf(w, "Engines: %d\n", len(report.Request.Engines))
		for i, e := range report.Request.Engines {
			name := e.Name
			if name == "" {
				name = fmt.Sprintf("engine %d", i+1)
			}
			fmt.Fprintf(w, "  %-20s %10s kN  %8s s\n", name, Round(e.ThrustKN, 2), Round(e.ImpulseS, 1))
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintf(w, "%-30s %s\n", "Calculated thrust:", Round(r.EffectiveThrust, 4))
	fmt.Fprintf(w, "%-30s %s\n", "Calculated specific impulse:", Round(r.EffectiveImpulse, 4))
	if config.Verbose {
		fmt.Fprintf(w, "%-30s %s\n", "Exhaust velocity:", Round(r.ExhaustVelocity, 2))
	}
	fmt.Fprintln(w)

	lines := []struct {
		label  string
		value  float64
		places int32
		unit   string
	}{
		{"Burn time:", r.BurnTime, 2, "sec."},
		{"Initial mass:", r.MassInitial, 3, "Mg."},
		{"Final mass:", r.MassFinal, 3, "Mg."},
		{"Fuel spent:", r.FuelExpended, 3, "Mg."},
		{"Fuel remaining:", r.FuelFinal, 3, "Mg."},
		{"Initial TWR:", r.TWRInitial, 3, ""},
		{"Final TWR:", r.TWRFinal, 3, ""},
	}
	for _, l := range lines {
		line := fmt.Sprintf("%-16s %-12s %s", l.label, Round(l.value, l.places), l.unit)
		fmt.Fprintln(w, strings.TrimRight(line, " "))
	}

	for _, warning := range report.Warnings {
		fmt.Fprintf(w, "\nWARNING: %s\n", warning)
	}

	if len(report.Advisories) > 0 {
		fmt.Fprintln(w, "\nAdvisories:")
		for _, a := range report.Advisories {
			fmt.Fprintf(w, "  [%s] %s\n", a.Severity, a.Message)
		}
	}
}

// generateJSONOutput creates JSON output
func generateJSONOutput(w io.Writer, report *dto.BurnReport) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	w.Write(jsonData)
	fmt.Fprintln(w)
	return nil
}

var csvHeader = []string{
	"delta_v_m_s", "engines", "effective_thrust_kn", "effective_isp_s", "exhaust_velocity_m_s",
	"burn_time_s", "fuel_expended_mg", "mass_initial_mg", "mass_final_mg", "fuel_initial_mg",
	"fuel_final_mg", "twr_initial", "twr_final", "warnings",
}

// generateCSVOutput creates a header and one data row
func generateCSVOutput(w io.Writer, report *dto.BurnReport) error {
	r := report.Result
	full := func(v float64) string {
		return decimal.NewFromFloat(v).String()
	}

	writer := csv.NewWriter(w)
	rows := [][]string{
		csvHeader,
		{
			full(report.Request.VelocityDelta),
			fmt.Sprint(len(report.Request.Engines)),
			full(r.EffectiveThrust),
			full(r.EffectiveImpulse),
			full(r.ExhaustVelocity),
			full(r.BurnTime),
			full(r.FuelExpended),
			full(r.MassInitial),
			full(r.MassFinal),
			full(report.Request.Vehicle.FuelInitial),
			full(r.FuelFinal),
			full(r.TWRInitial),
			full(r.TWRFinal),
			strings.Join(report.Warnings, "; "),
		},
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	return nil
}
