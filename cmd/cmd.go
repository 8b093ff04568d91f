// Package cmd defines the command-line interface for iqrfence.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fencelab/iqrfence/internal/contract"
	"github.com/fencelab/iqrfence/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("swap", "yes", "Flag outliers under both axis orientations (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("iterate", "no", "Repeat removal until no outliers remain (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("max-rounds", 0, "Safety cap on removal rounds (0 = unbounded)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Bool("detail", false, "Print per-round metadata (axes, record count, slope, fit quality)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("plots", "yes", "Render per-round scatter plots (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("plot-dir", contract.DefaultPlotDir, "Directory to write plot PNGs to")
	rootCmd.PersistentFlags().String("history-backend", string(schema.NoneBackend), "Run-history backend: sqlite or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "SQLite database path for run history (defaults to ~/.iqrfence_history.db)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}
}
