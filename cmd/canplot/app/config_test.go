package app

import (
	"flag"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/roman-kulish/can-flightlog/internal/series"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

func newFlagSet() *flag.FlagSet {
	fs := flag.NewFlagSet("canplot", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func TestParseConfig_Defaults(t *testing.T) {
	c, err := parseConfig(newFlagSet(), []string{"-i", "logs/flight.csv"})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	if c.Output.Prefix != "logs/flight" {
		t.Errorf("Expected prefix logs/flight, got %q", c.Output.Prefix)
	}
	if got := c.outputFile("pitch"); got != "logs/flight_pitch.png" {
		t.Errorf("Expected logs/flight_pitch.png, got %q", got)
	}
	if c.delimiter != ';' || c.Input.SkipLines != 30 {
		t.Errorf("Unexpected input defaults: %q, %d", c.delimiter, c.Input.SkipLines)
	}
	if c.kernel.Name() != series.KernelRows {
		t.Errorf("Expected rows kernel, got %q", c.kernel.Name())
	}
	if c.LogLevel() != slog.LevelInfo {
		t.Errorf("Expected info level, got %v", c.LogLevel())
	}
	if len(c.presets) != 6 {
		t.Errorf("Expected 6 presets, got %d", len(c.presets))
	}
}

func TestParseConfig_Flags(t *testing.T) {
	c, err := parseConfig(newFlagSet(), []string{
		"-i", "flight.csv",
		"-o", "out/run1",
		"-f", "JPEG",
		"-theme", "marine",
		"-interp", "time",
		"-skip", "0",
		"-delim", ",",
		"-log-level", "debug",
		"-no-charts",
	})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	if c.Output.Format != ImageJPEG || c.Output.Theme != MarineTheme {
		t.Errorf("Unexpected image options: %s, %s", c.Output.Format, c.Output.Theme)
	}
	if got := c.outputFile("yaw"); got != "out/run1_yaw.jpeg" {
		t.Errorf("Expected out/run1_yaw.jpeg, got %q", got)
	}
	if c.kernel.Name() != series.KernelTime {
		t.Errorf("Expected time kernel, got %q", c.kernel.Name())
	}
	if c.delimiter != ',' || c.Input.SkipLines != 0 {
		t.Errorf("Unexpected input options: %q, %d", c.delimiter, c.Input.SkipLines)
	}
	if c.LogLevel() != slog.LevelDebug || !c.Output.NoCharts {
		t.Errorf("Unexpected settings: %v, %v", c.LogLevel(), c.Output.NoCharts)
	}
}

func TestParseConfig_YAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canplot.yaml")
	data := `
settings:
  logLevel: warn
input:
  file: from-file.csv
  skipLines: 5
output:
  theme: thermal
  panelHeight: 200
scales:
  hover_throttle:
    oldMin: 0
    oldMax: 1000
    newMin: 0
    newMax: 100
    unit: "%"
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("Writing config: %v", err)
	}

	// flags set explicitly override the file
	c, err := parseConfig(newFlagSet(), []string{"-c", path, "-skip", "7"})
	if err != nil {
		t.Fatalf("parseConfig failed: %v", err)
	}

	if c.Input.File != "from-file.csv" {
		t.Errorf("Expected input from file, got %q", c.Input.File)
	}
	if c.Input.SkipLines != 7 {
		t.Errorf("Expected flag to win with 7, got %d", c.Input.SkipLines)
	}
	if c.LogLevel() != slog.LevelWarn || c.Output.Theme != ThermalTheme || c.Output.PanelHeight != 200 {
		t.Errorf("Unexpected values from file: %v, %s, %d", c.LogLevel(), c.Output.Theme, c.Output.PanelHeight)
	}
	if c.Output.PanelWidth != defaultPanelWidth {
		t.Errorf("Expected default panel width, got %d", c.Output.PanelWidth)
	}
	if p := c.presets[telemetry.HoverThrottle]; p.OldMax != 1000 {
		t.Errorf("Expected hover_throttle override, got %+v", p)
	}
	if p := c.presets[telemetry.PitchInput]; p.NewMax != 30 {
		t.Errorf("Expected default pitch_input preset, got %+v", p)
	}
}

func TestParseConfig_Errors(t *testing.T) {
	testCases := []struct {
		name string
		args []string
	}{
		{"missing input", []string{}},
		{"bad format", []string{"-i", "a.csv", "-f", "gif"}},
		{"bad theme", []string{"-i", "a.csv", "-theme", "neon"}},
		{"bad kernel", []string{"-i", "a.csv", "-interp", "cubic"}},
		{"bad delimiter", []string{"-i", "a.csv", "-delim", ";;"}},
		{"bad log level", []string{"-i", "a.csv", "-log-level", "loud"}},
		{"negative skip", []string{"-i", "a.csv", "-skip", "-1"}},
		{"bad size", []string{"-i", "a.csv", "-width", "0"}},
		{"missing config file", []string{"-i", "a.csv", "-c", "does-not-exist.yaml"}},
		{"unknown flag", []string{"-i", "a.csv", "-bogus"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := parseConfig(newFlagSet(), tc.args); err == nil {
				t.Error("Expected error")
			}
		})
	}
}

func TestParseConfig_BadScaleName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "canplot.yaml")
	if err := os.WriteFile(path, []byte("scales:\n  throttle:\n    oldMax: 1\n"), 0o644); err != nil {
		t.Fatalf("Writing config: %v", err)
	}

	if _, err := parseConfig(newFlagSet(), []string{"-i", "a.csv", "-c", path}); err == nil {
		t.Error("Expected error for unknown scale channel")
	}
}
