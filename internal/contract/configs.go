package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fencelab/iqrfence/schema"
)

// Default values for configuration.
const (
	DefaultPrecision = 4
	MaxPrecision     = 6
	DefaultPlotDir   = "."
)

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	DataFile string

	SwapAxes  bool // run the detector under both axis orientations
	Iterate   bool // repeat removal until no outliers remain
	MaxRounds int  // safety cap on rounds; 0 means unbounded

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	Detail     bool
	UseColors  bool
	Width      int // terminal width override (0 = auto-detect)

	Plots   bool
	PlotDir string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	DataFileStr string

	Swap             string `mapstructure:"swap"`
	Iterate          string `mapstructure:"iterate"`
	MaxRounds        int    `mapstructure:"max-rounds"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Detail           bool   `mapstructure:"detail"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`
	Plots            string `mapstructure:"plots"`
	PlotDir          string `mapstructure:"plot-dir"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct. Flag errors surface before any
// computation starts; no value silently defaults.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := processBoolFlags(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return resolveDataFile(cfg, input)
}

// processBoolFlags normalizes the yes/no style flags.
func processBoolFlags(cfg *Config, input *ConfigRawInput) error {
	swap, err := ParseBoolString(input.Swap)
	if err != nil {
		return fmt.Errorf("invalid --swap value: %w", err)
	}
	cfg.SwapAxes = swap

	iterate, err := ParseBoolString(input.Iterate)
	if err != nil {
		return fmt.Errorf("invalid --iterate value: %w", err)
	}
	cfg.Iterate = iterate

	plots, err := ParseBoolString(input.Plots)
	if err != nil {
		return fmt.Errorf("invalid --plots value: %w", err)
	}
	cfg.Plots = plots

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Detail = input.Detail
	cfg.Width = input.Width

	// --- 1. MaxRounds Validation ---
	if input.MaxRounds < 0 {
		return fmt.Errorf("max-rounds must be 0 (unbounded) or positive (received %d): %w",
			input.MaxRounds, schema.ErrInvalidConfiguration)
	}
	cfg.MaxRounds = input.MaxRounds

	// --- 2. Precision Validation ---
	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d): %w",
			MaxPrecision, input.Precision, schema.ErrInvalidConfiguration)
	}
	cfg.Precision = input.Precision

	// --- 3. Output Validation ---
	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json: %w",
			input.Output, schema.ErrInvalidConfiguration)
	}

	// --- 4. Plot Directory ---
	cfg.PlotDir = input.PlotDir
	if cfg.PlotDir == "" {
		cfg.PlotDir = DefaultPlotDir
	}

	// --- 5. History Backend Validation ---
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(input.HistoryBackend))
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite or none: %w",
			input.HistoryBackend, schema.ErrInvalidConfiguration)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect

	return nil
}

// resolveDataFile checks that the data file argument points at a readable file.
func resolveDataFile(cfg *Config, input *ConfigRawInput) error {
	if input.DataFileStr == "" {
		return fmt.Errorf("a data file argument is required: %w", schema.ErrInvalidConfiguration)
	}
	info, err := os.Stat(input.DataFileStr)
	if err != nil {
		return fmt.Errorf("cannot read data file %q: %w", input.DataFileStr, err)
	}
	if info.IsDir() {
		return fmt.Errorf("data file %q is a directory: %w", input.DataFileStr, schema.ErrInvalidConfiguration)
	}
	cfg.DataFile = input.DataFileStr
	return nil
}
