package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/fencelab/iqrfence/core"
	"github.com/fencelab/iqrfence/internal/contract"
	"github.com/fencelab/iqrfence/internal/history"
	"github.com/fencelab/iqrfence/internal/ingest"
	"github.com/fencelab/iqrfence/internal/outwriter"
	"github.com/fencelab/iqrfence/internal/plot"
)

// analyzeCmd performs the fit/fence/remove analysis on a data file.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [data-file]",
	Short: "Fit a line and flag IQR-fence outliers in a data file.",
	Long: `Read id/x/y records, fit a least-squares line, and flag every record
whose residual falls outside the 1.5x interquartile fences.

With --swap (the default), the detector runs under both axis orientations
and flags the union of both outlier sets. With --iterate, flagged records
are removed and the analysis repeats on the survivors until a round
produces no outliers.

Examples:
  # One round, both orientations
  iqrfence analyze data.txt

  # Iterate to convergence, conventional orientation only
  iqrfence analyze data.csv --swap no --iterate yes

  # Bounded iteration with machine-readable output
  iqrfence analyze data.csv --iterate yes --max-rounds 10 --output json

  # Keep a history of runs for later comparison
  iqrfence analyze data.txt --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runAnalysis(); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}

// runAnalysis wires ingestion, detection, reporting, plotting and history
// tracking together for one invocation.
func runAnalysis() error {
	start := time.Now()

	ds, err := ingest.Load(cfg.DataFile)
	if err != nil {
		return err
	}

	store, err := history.NewStore(cfg.HistoryBackend, cfg.HistoryDBConnect)
	if err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(start, configParams())
	if err != nil {
		contract.LogWarn("Run tracking failed", err)
	}
	reporter := &history.RoundRecorder{Store: store, RunID: runID}

	var plotter core.Plotter
	if cfg.Plots {
		p, err := plot.NewPNGPlotter(cfg.PlotDir)
		if err != nil {
			return err
		}
		plotter = p
	}

	opts := core.Options{
		SwapAxes:  cfg.SwapAxes,
		Iterate:   cfg.Iterate,
		MaxRounds: cfg.MaxRounds,
	}
	res, err := core.Run(ds, opts, reporter, plotter)
	if err != nil {
		return err
	}

	if err := outwriter.WriteRunResult(res, cfg, time.Since(start)); err != nil {
		return err
	}

	if err := store.EndRun(runID, time.Now(), res.Rounds, res.Converged); err != nil {
		contract.LogWarn("Run tracking failed", err)
	}

	// A bounded iteration that still has outliers left is a failure mode the
	// caller should see on the exit code.
	if cfg.Iterate && cfg.MaxRounds > 0 && !res.Converged {
		return fmt.Errorf("stopped after %d round(s) with outliers remaining", res.Rounds)
	}
	return nil
}

// configParams captures the run configuration for history tracking.
func configParams() map[string]any {
	return map[string]any{
		"data-file":  cfg.DataFile,
		"swap":       cfg.SwapAxes,
		"iterate":    cfg.Iterate,
		"max-rounds": cfg.MaxRounds,
		"output":     string(cfg.Output),
		"precision":  cfg.Precision,
		"plots":      cfg.Plots,
		"plot-dir":   cfg.PlotDir,
	}
}
