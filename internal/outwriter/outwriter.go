// Package outwriter renders the per-round summary in the configured output
// format: a human-readable table, CSV, or JSON.
package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/fencelab/iqrfence/internal/contract"
	"github.com/fencelab/iqrfence/schema"
)

// WriteRunResult outputs the analysis summary, dispatching on the output
// format configured.
func WriteRunResult(res *schema.RunResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunJSON(w, res)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeRunCSV(csvWriter, res, fmtFloat)
		}, "Wrote CSV")
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(res, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
}

// writeRunTable generates and writes the human-readable summary table.
func writeRunTable(res *schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	// 1. Define Headers
	headers := []string{"Round", "Q1", "Q3", "IQR", "Outliers"}
	if cfg.Detail {
		headers = append(headers, "Axes", "N", "Slope", "R2")
	}
	table.Header(headers)

	// 2. Right-align the numeric columns
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Populate Rows
	maxWidth := getMaxOutlierWidth(cfg)
	var data [][]string
	for _, rep := range res.Reports {
		row := []string{
			strconv.Itoa(rep.Round),
			fmtFloat(rep.Stats.Q1),
			fmtFloat(rep.Stats.Q3),
			fmtFloat(rep.Stats.IQR),
			outlierCell(rep.OutlierIDs, maxWidth, cfg.UseColors),
		}
		if cfg.Detail {
			row = append(row,
				string(rep.Orientation),
				strconv.Itoa(rep.DatasetSize),
				fmtFloat(rep.Fit.Slope),
				fmtFloat(rep.Fit.RSquared),
			)
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Summary footer
	removed := 0
	if res.Clean != nil && len(res.Reports) > 0 {
		removed = res.Reports[0].DatasetSize - res.Clean.Len()
	}
	if _, err := fmt.Fprintf(writer, "Completed %d round(s) in %v: %d record(s) removed, %d surviving\n",
		res.Rounds, duration, removed, res.Clean.Len()); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Converged: %s\n", convergedLabel(res.Converged, cfg.UseColors)); err != nil {
		return err
	}
	return nil
}

// writeRunCSV writes the per-round summary rows in CSV format.
func writeRunCSV(w *csv.Writer, res *schema.RunResult, fmtFloat func(float64) string) error {
	header := []string{
		"round",
		"orientation",
		"q1",
		"q3",
		"iqr",
		"outliers",
		"dataset_size",
		"slope",
		"intercept",
		"r_squared",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, rep := range res.Reports {
		rec := []string{
			strconv.Itoa(rep.Round),             // Round
			string(rep.Orientation),             // Orientation
			fmtFloat(rep.Stats.Q1),              // First quartile
			fmtFloat(rep.Stats.Q3),              // Third quartile
			fmtFloat(rep.Stats.IQR),             // IQR
			strings.Join(rep.OutlierIDs, "|"),   // Flagged identifiers
			strconv.Itoa(rep.DatasetSize),       // Records in this round
			fmtFloat(rep.Fit.Slope),             // Fitted slope
			fmtFloat(rep.Fit.Intercept),         // Fitted intercept
			fmtFloat(rep.Fit.RSquared),          // Fit quality
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeRunJSON writes the full run summary in JSON format.
func writeRunJSON(w io.Writer, res *schema.RunResult) error {
	type jsonRun struct {
		Rounds       int                  `json:"rounds"`
		Converged    bool                 `json:"converged"`
		SurvivingIDs []string             `json:"surviving_ids"`
		Reports      []schema.RoundReport `json:"reports"`
	}
	return writeJSON(w, jsonRun{
		Rounds:       res.Rounds,
		Converged:    res.Converged,
		SurvivingIDs: res.Clean.IDs(),
		Reports:      res.Reports,
	})
}

// outlierCell renders the flagged identifiers for one table row.
func outlierCell(ids []string, maxWidth int, useColors bool) string {
	if len(ids) == 0 {
		return "-"
	}
	cell := contract.TruncateText(strings.Join(ids, ", "), maxWidth)
	if useColors {
		return contract.OutlierColor.Sprint(cell)
	}
	return cell
}

// convergedLabel renders the convergence state for the footer.
func convergedLabel(converged, useColors bool) string {
	if converged {
		if useColors {
			return contract.ConvergedColor.Sprint("yes")
		}
		return "yes"
	}
	if useColors {
		return contract.PendingColor.Sprint("no")
	}
	return "no"
}
