package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencelab/iqrfence/internal/contract"
	"github.com/fencelab/iqrfence/schema"
)

// sampleResult builds a two-round result with one flagged record.
func sampleResult(t *testing.T) *schema.RunResult {
	t.Helper()
	clean, err := schema.NewDataset([]schema.Record{
		{ID: "b", X: 2, Y: 2},
		{ID: "c", X: 3, Y: 3},
	})
	require.NoError(t, err)

	return &schema.RunResult{
		Reports: []schema.RoundReport{
			{
				Round:       1,
				Orientation: schema.OrientationXY,
				Stats:       schema.QuartileStats{Q1: -0.5, Q3: 0.5, IQR: 1.0, LowerFence: -2.0, UpperFence: 2.0},
				OutlierIDs:  []string{"a"},
				DatasetSize: 3,
				Fit:         schema.FitResult{Slope: 1.25, Intercept: 0.5, RSquared: 0.98},
			},
			{
				Round:       2,
				Orientation: schema.OrientationXY,
				Stats:       schema.QuartileStats{Q1: -0.25, Q3: 0.25, IQR: 0.5, LowerFence: -1.0, UpperFence: 1.0},
				DatasetSize: 2,
				Fit:         schema.FitResult{Slope: 1.0, Intercept: 0, RSquared: 1.0},
			},
		},
		Clean:     clean,
		Rounds:    2,
		Converged: true,
	}
}

// TestWriteRunCSV checks the CSV header and row layout.
func TestWriteRunCSV(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	require.NoError(t, writeRunCSV(w, res, createFormatter(2)))
	w.Flush()
	require.NoError(t, w.Error())

	rows, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, []string{
		"round", "orientation", "q1", "q3", "iqr",
		"outliers", "dataset_size", "slope", "intercept", "r_squared",
	}, rows[0])

	assert.Equal(t, []string{"1", "x->y", "-0.50", "0.50", "1.00", "a", "3", "1.25", "0.50", "0.98"}, rows[1])
	assert.Equal(t, "2", rows[2][0])
	assert.Equal(t, "", rows[2][5]) // no outliers in the final round
}

// TestWriteRunJSON checks the JSON envelope.
func TestWriteRunJSON(t *testing.T) {
	res := sampleResult(t)
	var buf bytes.Buffer

	require.NoError(t, writeRunJSON(&buf, res))

	var decoded struct {
		Rounds       int                  `json:"rounds"`
		Converged    bool                 `json:"converged"`
		SurvivingIDs []string             `json:"surviving_ids"`
		Reports      []schema.RoundReport `json:"reports"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, 2, decoded.Rounds)
	assert.True(t, decoded.Converged)
	assert.Equal(t, []string{"b", "c"}, decoded.SurvivingIDs)
	require.Len(t, decoded.Reports, 2)
	assert.Equal(t, []string{"a"}, decoded.Reports[0].OutlierIDs)
}

// TestWriteRunTable renders the table without errors and includes the footer.
func TestWriteRunTable(t *testing.T) {
	res := sampleResult(t)
	cfg := &contract.Config{Precision: 2, Width: 120}
	var buf bytes.Buffer

	require.NoError(t, writeRunTable(res, cfg, createFormatter(cfg.Precision), 42*time.Millisecond, &buf))

	out := buf.String()
	assert.Contains(t, strings.ToUpper(out), "ROUND")
	assert.Contains(t, strings.ToUpper(out), "OUTLIERS")
	assert.Contains(t, out, "1 record(s) removed, 2 surviving")
	assert.Contains(t, out, "Converged: yes")
}

// TestOutlierCell covers empty, plain and truncated rendering.
func TestOutlierCell(t *testing.T) {
	assert.Equal(t, "-", outlierCell(nil, 40, false))
	assert.Equal(t, "a, b", outlierCell([]string{"a", "b"}, 40, false))

	long := outlierCell([]string{"alpha", "beta", "gamma", "delta"}, 12, false)
	assert.Equal(t, "alpha, be...", long)
}

// TestConvergedLabel renders the plain footer labels.
func TestConvergedLabel(t *testing.T) {
	assert.Equal(t, "yes", convergedLabel(true, false))
	assert.Equal(t, "no", convergedLabel(false, false))
}

// TestCreateFormatter fixes the decimal precision.
func TestCreateFormatter(t *testing.T) {
	f2 := createFormatter(2)
	assert.Equal(t, "1.50", f2(1.5))
	assert.Equal(t, "-0.33", f2(-1.0/3.0))

	f4 := createFormatter(4)
	assert.Equal(t, "0.1250", f4(0.125))
}
