package history

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/parquet-go/parquet-go"

	"github.com/fencelab/iqrfence/schema"
)

// Exported file names.
const (
	RunsParquetFile   = "runs.parquet"
	RoundsParquetFile = "rounds.parquet"
)

// RunRow is the Parquet representation of one stored run.
type RunRow struct {
	RunID         int64   `parquet:"run_id,snappy"`
	StartTimeMs   int64   `parquet:"start_time_ms,snappy"`
	EndTimeMs     *int64  `parquet:"end_time_ms,optional,snappy"`
	RunDurationMs *int32  `parquet:"run_duration_ms,optional,snappy"`
	Rounds        int32   `parquet:"rounds,snappy"`
	Converged     bool    `parquet:"converged,snappy"`
	ConfigParams  *string `parquet:"config_params,optional,snappy"`
}

// RoundRow is the Parquet representation of one stored round summary.
type RoundRow struct {
	RunID       int64   `parquet:"run_id,snappy"`
	Round       int32   `parquet:"round,snappy"`
	Orientation string  `parquet:"orientation,snappy"`
	Q1          float64 `parquet:"q1,snappy"`
	Q3          float64 `parquet:"q3,snappy"`
	IQR         float64 `parquet:"iqr,snappy"`
	OutlierIDs  string  `parquet:"outlier_ids,snappy"`
	DatasetSize int32   `parquet:"dataset_size,snappy"`
}

// ConvertRunRecord maps a stored run to its Parquet row.
func ConvertRunRecord(rec schema.RunRecord) RunRow {
	row := RunRow{
		RunID:         rec.RunID,
		StartTimeMs:   rec.StartTime.UnixMilli(),
		RunDurationMs: rec.RunDurationMs,
		Rounds:        rec.Rounds,
		Converged:     rec.Converged,
		ConfigParams:  rec.ConfigParams,
	}
	if rec.EndTime != nil {
		endMs := rec.EndTime.UnixMilli()
		row.EndTimeMs = &endMs
	}
	return row
}

// ConvertRoundRecord maps a stored round summary to its Parquet row.
func ConvertRoundRecord(rec schema.RoundRecord) RoundRow {
	return RoundRow{
		RunID:       rec.RunID,
		Round:       rec.Round,
		Orientation: rec.Orientation,
		Q1:          rec.Q1,
		Q3:          rec.Q3,
		IQR:         rec.IQR,
		OutlierIDs:  rec.OutlierIDs,
		DatasetSize: rec.DatasetSize,
	}
}

// ExportAll writes the full run history as Parquet files into dir.
func ExportAll(store *Store, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("cannot create export directory %q: %w", dir, err)
	}

	runs, err := store.GetAllRuns()
	if err != nil {
		return err
	}
	runRows := make([]RunRow, 0, len(runs))
	for _, rec := range runs {
		runRows = append(runRows, ConvertRunRecord(rec))
	}
	if err := writeParquet(filepath.Join(dir, RunsParquetFile), runRows); err != nil {
		return err
	}

	rounds, err := store.GetAllRounds()
	if err != nil {
		return err
	}
	roundRows := make([]RoundRow, 0, len(rounds))
	for _, rec := range rounds {
		roundRows = append(roundRows, ConvertRoundRecord(rec))
	}
	return writeParquet(filepath.Join(dir, RoundsParquetFile), roundRows)
}

// writeParquet writes rows of one record type into a Parquet file.
func writeParquet[T any](path string, rows []T) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("cannot create parquet file %q: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	writer := parquet.NewGenericWriter[T](f)
	if _, err := writer.Write(rows); err != nil {
		return fmt.Errorf("cannot write parquet rows to %q: %w", path, err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("cannot finalize parquet file %q: %w", path, err)
	}
	return nil
}
