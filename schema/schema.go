// Package schema has the data model, enums and shared helpers for all parts
// of iqrfence.
package schema

import (
	"fmt"
	"time"
)

// Record is a single observation: a user-supplied identifier (e.g. a residue
// name) with its paired x/y measurements.
type Record struct {
	ID string  `csv:"id" json:"id"`
	X  float64 `csv:"x" json:"x"`
	Y  float64 `csv:"y" json:"y"`
}

// Dataset is an ordered collection of records. Order follows the input file
// and is preserved across removals. Datasets are never mutated in place; every
// removal produces a fresh filtered copy.
type Dataset struct {
	Records []Record
}

// NewDataset builds a Dataset from records, rejecting duplicate identifiers.
// Identifiers are the removal key, so they must be unique per dataset.
func NewDataset(records []Record) (*Dataset, error) {
	seen := make(map[string]struct{}, len(records))
	for _, r := range records {
		if _, ok := seen[r.ID]; ok {
			return nil, fmt.Errorf("record %q appears more than once: %w", r.ID, ErrDuplicateID)
		}
		seen[r.ID] = struct{}{}
	}
	return &Dataset{Records: records}, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Records)
}

// IDs returns the record identifiers in dataset order.
func (d *Dataset) IDs() []string {
	ids := make([]string, len(d.Records))
	for i, r := range d.Records {
		ids[i] = r.ID
	}
	return ids
}

// Xs returns the x values in dataset order.
func (d *Dataset) Xs() []float64 {
	xs := make([]float64, len(d.Records))
	for i, r := range d.Records {
		xs[i] = r.X
	}
	return xs
}

// Ys returns the y values in dataset order.
func (d *Dataset) Ys() []float64 {
	ys := make([]float64, len(d.Records))
	for i, r := range d.Records {
		ys[i] = r.Y
	}
	return ys
}

// Remove returns a new Dataset without the records whose identifier is in ids.
// Surviving records keep their relative order. The receiver is not modified.
func (d *Dataset) Remove(ids map[string]struct{}) *Dataset {
	kept := make([]Record, 0, len(d.Records))
	for _, r := range d.Records {
		if _, gone := ids[r.ID]; !gone {
			kept = append(kept, r)
		}
	}
	return &Dataset{Records: kept}
}

// Subset returns the records for the given identifiers, in the order given.
// An identifier with no matching record is a data-integrity failure and is
// surfaced as ErrRecordNotFound rather than skipped.
func (d *Dataset) Subset(ids []string) ([]Record, error) {
	byID := make(map[string]Record, len(d.Records))
	for _, r := range d.Records {
		byID[r.ID] = r
	}
	out := make([]Record, 0, len(ids))
	for _, id := range ids {
		r, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("identifier %q has no record in the dataset: %w", id, ErrRecordNotFound)
		}
		out = append(out, r)
	}
	return out, nil
}

// IDSet converts an identifier slice into a set for removal.
func IDSet(ids []string) map[string]struct{} {
	set := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

// FitResult holds the coefficients of a least-squares line y = Slope*x + Intercept.
// Created fresh per fit and immutable once produced.
type FitResult struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	RSquared  float64 `json:"r_squared"`
}

// Predict evaluates the fitted line at x.
func (f FitResult) Predict(x float64) float64 {
	return f.Slope*x + f.Intercept
}

// QuartileStats holds the per-round quartile statistics used to fence residuals.
type QuartileStats struct {
	Q1         float64 `json:"q1"`
	Q3         float64 `json:"q3"`
	IQR        float64 `json:"iqr"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
}

// RoundReport is one summary row, emitted per detector invocation. In swap
// mode a round emits two reports sharing the same round number, one per axis
// orientation.
type RoundReport struct {
	Round       int           `json:"round"`
	Orientation Orientation   `json:"orientation"`
	Stats       QuartileStats `json:"stats"`
	OutlierIDs  []string      `json:"outlier_ids"`
	DatasetSize int           `json:"dataset_size"`
	Fit         FitResult     `json:"fit"`
}

// RunResult is the outcome of the full removal loop.
type RunResult struct {
	Reports   []RoundReport `json:"reports"`
	Clean     *Dataset      `json:"-"`
	Rounds    int           `json:"rounds"`
	Converged bool          `json:"converged"`
}

// HistoryStatus summarizes the state of the run-history store.
type HistoryStatus struct {
	Backend     string
	Connected   bool
	TotalRuns   int64
	LastRunID   int64
	LastRunTime time.Time
	TableSizes  map[string]int64
}

// RunRecord is a stored analysis run, as read back from the history store.
type RunRecord struct {
	RunID         int64
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int32
	Rounds        int32
	Converged     bool
	ConfigParams  *string
}

// RoundRecord is a stored per-round summary, as read back from the history store.
type RoundRecord struct {
	RunID       int64
	Round       int32
	Orientation string
	Q1          float64
	Q3          float64
	IQR         float64
	OutlierIDs  string
	DatasetSize int32
}
