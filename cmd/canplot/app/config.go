package app

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"

	"github.com/roman-kulish/can-flightlog/internal/canlog"
	"github.com/roman-kulish/can-flightlog/internal/channel"
	"github.com/roman-kulish/can-flightlog/internal/series"
	"github.com/roman-kulish/can-flightlog/internal/telemetry"
)

const (
	ImagePNG  ImageFormat = "png"
	ImageJPEG ImageFormat = "jpeg"

	defaultPanelWidth  = 1000
	defaultPanelHeight = 360
)

type ImageFormat string

var validImageFormats = map[ImageFormat]struct{}{
	ImagePNG:  {},
	ImageJPEG: {},
}

// Config represents the application configuration. It can be loaded from a
// YAML file; command line flags take precedence over file values.
type Config struct {
	Settings Settings                  `yaml:"settings"`
	Input    InputConfig               `yaml:"input"`
	Output   OutputConfig              `yaml:"output"`
	Scales   map[string]channel.Preset `yaml:"scales"` // Replace the display scale of a channel

	logLevel  slog.Level
	delimiter rune
	kernel    series.Kernel
	presets   map[telemetry.Field]channel.Preset
}

// Settings represents global application settings
type Settings struct {
	LogLevel string `yaml:"logLevel"`
}

// InputConfig describes the trace and how it is decoded.
type InputConfig struct {
	File          string `yaml:"file"`
	SkipLines     int    `yaml:"skipLines"`
	Delimiter     string `yaml:"delimiter"`
	Interpolation string `yaml:"interpolation"` // rows or time
}

// OutputConfig lists the sinks of a run.
type OutputConfig struct {
	Prefix      string      `yaml:"prefix"` // Chart files are written to <prefix>_<group>.<format>
	Format      ImageFormat `yaml:"format"`
	Theme       ColorTheme  `yaml:"theme"`
	PanelWidth  int         `yaml:"panelWidth"`
	PanelHeight int         `yaml:"panelHeight"`
	NoCharts    bool        `yaml:"noCharts"`
	CSVFile     string      `yaml:"csv"`
	DBPath      string      `yaml:"db"`
	BatchSize   int         `yaml:"batchSize"`
}

func NewConfig() *Config {
	return &Config{
		Settings: Settings{
			LogLevel: slog.LevelInfo.String(),
		},
		Input: InputConfig{
			SkipLines:     canlog.DefaultSkipLines,
			Delimiter:     string(canlog.DefaultDelimiter),
			Interpolation: string(series.KernelRows),
		},
		Output: OutputConfig{
			Format:      ImagePNG,
			Theme:       ClassicTheme,
			PanelWidth:  defaultPanelWidth,
			PanelHeight: defaultPanelHeight,
		},
	}
}

// LoadConfig reads the YAML configuration at path over the defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	c := NewConfig()
	if err = yaml.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}
	return c, nil
}

func NewConfigFromCLI() (*Config, error) {
	c, err := parseConfig(flag.CommandLine, os.Args[1:])
	if err != nil {
		flag.Usage()
		return nil, err
	}
	return c, nil
}

func parseConfig(fs *flag.FlagSet, args []string) (*Config, error) {
	var configPath string
	cli := NewConfig()

	var format, theme string
	fs.StringVar(&configPath, "c", "", "Path to an optional YAML configuration file")
	fs.StringVar(&cli.Input.File, "i", "", "Path to the CAN trace file")
	fs.IntVar(&cli.Input.SkipLines, "skip", cli.Input.SkipLines, "Number of preamble lines before the column header")
	fs.StringVar(&cli.Input.Delimiter, "delim", cli.Input.Delimiter, "Field delimiter of the trace")
	fs.StringVar(&cli.Input.Interpolation, "interp", cli.Input.Interpolation, "IMU gap interpolation. [rows, time]")
	fs.StringVar(&cli.Output.Prefix, "o", "", "Output file prefix (default: input path without extension)")
	fs.StringVar(&format, "f", string(cli.Output.Format), "Output image format. [png, jpeg]")
	fs.StringVar(&theme, "theme", string(cli.Output.Theme), "Chart color theme. [classic, grayscale, jungle, thermal, marine]")
	fs.IntVar(&cli.Output.PanelWidth, "width", cli.Output.PanelWidth, "Chart panel width in pixels")
	fs.IntVar(&cli.Output.PanelHeight, "height", cli.Output.PanelHeight, "Chart panel height in pixels")
	fs.BoolVar(&cli.Output.NoCharts, "no-charts", false, "Skip chart rendering")
	fs.StringVar(&cli.Output.CSVFile, "csv", "", "Export the series table to a CSV file")
	fs.StringVar(&cli.Output.DBPath, "db", "", "Export the series table to a SQLite database")
	fs.StringVar(&cli.Settings.LogLevel, "log-level", cli.Settings.LogLevel, "Log level. [debug, info, warn, error]")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cli.Output.Format = ImageFormat(strings.ToLower(format))
	cli.Output.Theme = ColorTheme(strings.ToLower(theme))

	c := NewConfig()
	if configPath != "" {
		var err error
		if c, err = LoadConfig(configPath); err != nil {
			return nil, err
		}
	}

	// Flags set explicitly win over the file.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "i":
			c.Input.File = cli.Input.File
		case "skip":
			c.Input.SkipLines = cli.Input.SkipLines
		case "delim":
			c.Input.Delimiter = cli.Input.Delimiter
		case "interp":
			c.Input.Interpolation = cli.Input.Interpolation
		case "o":
			c.Output.Prefix = cli.Output.Prefix
		case "f":
			c.Output.Format = cli.Output.Format
		case "theme":
			c.Output.Theme = cli.Output.Theme
		case "width":
			c.Output.PanelWidth = cli.Output.PanelWidth
		case "height":
			c.Output.PanelHeight = cli.Output.PanelHeight
		case "no-charts":
			c.Output.NoCharts = cli.Output.NoCharts
		case "csv":
			c.Output.CSVFile = cli.Output.CSVFile
		case "db":
			c.Output.DBPath = cli.Output.DBPath
		case "log-level":
			c.Settings.LogLevel = cli.Settings.LogLevel
		}
	})

	if err := c.validate(); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Config) validate() (err error) {
	if c.Input.File == "" {
		return errors.New("input file is required")
	}
	if c.Input.SkipLines < 0 {
		return fmt.Errorf("invalid number of preamble lines: %d", c.Input.SkipLines)
	}
	if utf8.RuneCountInString(c.Input.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character: %q", c.Input.Delimiter)
	}
	c.delimiter, _ = utf8.DecodeRuneInString(c.Input.Delimiter)

	if c.kernel, err = series.ParseKernel(c.Input.Interpolation); err != nil {
		return err
	}
	if err = c.logLevel.UnmarshalText([]byte(c.Settings.LogLevel)); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}

	c.Output.Format = ImageFormat(strings.ToLower(string(c.Output.Format)))
	if _, ok := validImageFormats[c.Output.Format]; !ok {
		return fmt.Errorf("invalid image format: %s", c.Output.Format)
	}
	if _, ok := validColorThemes[c.Output.Theme]; !ok {
		return fmt.Errorf("invalid color theme: %s", c.Output.Theme)
	}
	if c.Output.PanelWidth <= 0 || c.Output.PanelHeight <= 0 {
		return fmt.Errorf("invalid panel size: %dx%d", c.Output.PanelWidth, c.Output.PanelHeight)
	}
	if c.Output.Prefix == "" {
		c.Output.Prefix = strings.TrimSuffix(c.Input.File, filepath.Ext(c.Input.File))
	}

	c.presets = channel.DefaultPresets()
	for name, p := range c.Scales {
		f, err := telemetry.ParseField(name)
		if err != nil {
			return fmt.Errorf("scale override: %w", err)
		}
		c.presets[f] = p
	}
	return nil
}

// LogLevel returns the configured log level.
func (c *Config) LogLevel() slog.Level {
	return c.logLevel
}

func (c *Config) outputFile(group string) string {
	return fmt.Sprintf("%s_%s.%s", c.Output.Prefix, group, c.Output.Format)
}
