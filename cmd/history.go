package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/fencelab/iqrfence/internal/contract"
	"github.com/fencelab/iqrfence/internal/history"
	"github.com/fencelab/iqrfence/schema"
)

// historySetup loads minimal configuration needed for history operations.
// This is used by commands that need history access without full shared setup.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get history-related config values
	backendStr := viper.GetString("history-backend")
	connStr := viper.GetString("history-db-connect")

	// History commands only make sense against a real backend, so an
	// unset backend resolves to sqlite here rather than none.
	backend := schema.DatabaseBackend(strings.ToLower(backendStr))
	if backendStr == "" || backend == schema.NoneBackend {
		backend = schema.SQLiteBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite or none: %w",
			backendStr, schema.ErrInvalidConfiguration)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr

	// Get output-related config values (used by export command)
	cfg.OutputFile = viper.GetString("output-file")

	return nil
}

// openHistoryStore opens the store with the loaded history config.
func openHistoryStore() (*history.Store, error) {
	return history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
}

// historyCmd focused on run-history data management.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage stored analysis runs and exports",
	Long: `Manage the run history recorded by analyze --history-backend sqlite.

Every tracked run stores its configuration, duration, convergence state
and one summary row per detector invocation (quartiles, fences, flagged
identifiers).

Subcommands:
  status - Show run-history statistics
  export - Export runs and round summaries to Parquet
  clear  - Remove all stored runs

Examples:
  # Check how many runs are stored
  iqrfence history status

  # Export for analysis in pandas/DuckDB
  iqrfence history export --output-file ./history-export`,
}

// historyStatusCmd shows history store status.
var historyStatusCmd = &cobra.Command{
	Use:     "status",
	Short:   "Display run-history statistics and connection details",
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openHistoryStore()
		if err != nil {
			contract.LogFatal("Failed to open history store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintStatus(status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export stored runs to Parquet for analytics",
	Long: `Export all stored run history to Parquet format.

Two files are written into the --output-file directory:
- runs.parquet   - metadata about each analysis run
- rounds.parquet - per-round quartiles, fences and flagged identifiers

Examples:
  iqrfence history export --output-file ./history-export
  duckdb -c "SELECT * FROM read_parquet('history-export/rounds.parquet')"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.OutputFile == "" {
			contract.LogFatal("Failed to export history data",
				fmt.Errorf("an --output-file directory is required: %w", schema.ErrInvalidConfiguration))
		}

		store, err := openHistoryStore()
		if err != nil {
			contract.LogFatal("Failed to open history store", err)
		}
		defer func() { _ = store.Close() }()

		if err := history.ExportAll(store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export history data", err)
		}
		fmt.Printf("Exported history data to %s\n", cfg.OutputFile)
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all stored runs and round summaries",
	Long: `Delete all stored analysis runs and their round summaries.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  iqrfence history export --output-file ./backup
  iqrfence history clear`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openHistoryStore()
		if err != nil {
			contract.LogFatal("Failed to open history store", err)
		}
		defer func() { _ = store.Close() }()

		if err := store.Clear(); err != nil {
			contract.LogFatal("Failed to clear history data", err)
		}
		fmt.Println("History data cleared successfully.")
	},
}
