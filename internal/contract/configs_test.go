package contract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencelab/iqrfence/schema"
)

// validInput returns a raw input that passes validation, pointing at a real
// data file under dir.
func validInput(t *testing.T) *ConfigRawInput {
	t.Helper()
	dataFile := filepath.Join(t.TempDir(), "data.txt")
	require.NoError(t, os.WriteFile(dataFile, []byte("a 1 2\n"), 0o644))

	return &ConfigRawInput{
		DataFileStr:    dataFile,
		Swap:           "yes",
		Iterate:        "no",
		MaxRounds:      0,
		Output:         "text",
		Precision:      DefaultPrecision,
		Color:          "yes",
		Plots:          "no",
		PlotDir:        "",
		HistoryBackend: "none",
	}
}

// TestProcessAndValidateDefaults checks the happy path end to end.
func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	input := validInput(t)

	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.True(t, cfg.SwapAxes)
	assert.False(t, cfg.Iterate)
	assert.Equal(t, 0, cfg.MaxRounds)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, DefaultPrecision, cfg.Precision)
	assert.True(t, cfg.UseColors)
	assert.False(t, cfg.Plots)
	assert.Equal(t, DefaultPlotDir, cfg.PlotDir)
	assert.Equal(t, schema.NoneBackend, cfg.HistoryBackend)
	assert.Equal(t, input.DataFileStr, cfg.DataFile)
}

// TestProcessAndValidateRejections covers the validation failure paths.
func TestProcessAndValidateRejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ConfigRawInput)
	}{
		{name: "bad swap", mutate: func(i *ConfigRawInput) { i.Swap = "maybe" }},
		{name: "bad iterate", mutate: func(i *ConfigRawInput) { i.Iterate = "sometimes" }},
		{name: "bad plots", mutate: func(i *ConfigRawInput) { i.Plots = "x" }},
		{name: "bad color", mutate: func(i *ConfigRawInput) { i.Color = "" }},
		{name: "negative max-rounds", mutate: func(i *ConfigRawInput) { i.MaxRounds = -1 }},
		{name: "precision too low", mutate: func(i *ConfigRawInput) { i.Precision = 0 }},
		{name: "precision too high", mutate: func(i *ConfigRawInput) { i.Precision = MaxPrecision + 1 }},
		{name: "unknown output", mutate: func(i *ConfigRawInput) { i.Output = "xml" }},
		{name: "unknown backend", mutate: func(i *ConfigRawInput) { i.HistoryBackend = "postgres" }},
		{name: "missing data file arg", mutate: func(i *ConfigRawInput) { i.DataFileStr = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			input := validInput(t)
			tt.mutate(input)

			err := ProcessAndValidate(cfg, input)
			assert.ErrorIs(t, err, schema.ErrInvalidConfiguration)
		})
	}
}

// TestProcessAndValidateDataFile checks the filesystem-dependent failures.
func TestProcessAndValidateDataFile(t *testing.T) {
	t.Run("nonexistent file", func(t *testing.T) {
		cfg := &Config{}
		input := validInput(t)
		input.DataFileStr = filepath.Join(t.TempDir(), "missing.txt")
		assert.Error(t, ProcessAndValidate(cfg, input))
	})

	t.Run("directory instead of file", func(t *testing.T) {
		cfg := &Config{}
		input := validInput(t)
		input.DataFileStr = t.TempDir()
		err := ProcessAndValidate(cfg, input)
		assert.ErrorIs(t, err, schema.ErrInvalidConfiguration)
	})
}

// TestProcessAndValidateBackendNormalization lowercases enum-style inputs.
func TestProcessAndValidateBackendNormalization(t *testing.T) {
	cfg := &Config{}
	input := validInput(t)
	input.Output = "JSON"
	input.HistoryBackend = "SQLite"

	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.JSONOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.HistoryBackend)
}
