package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencelab/iqrfence/core"
	"github.com/fencelab/iqrfence/schema"
)

func testDataset(t *testing.T) *schema.Dataset {
	t.Helper()
	ds, err := schema.NewDataset([]schema.Record{
		{ID: "r1", X: 1, Y: -1.5},
		{ID: "r2", X: 2, Y: 1.75},
		{ID: "r3", X: 3, Y: 3.25},
		{ID: "r4", X: 4, Y: 3.5},
		{ID: "r5", X: 5, Y: 5.5},
		{ID: "r6", X: 6, Y: 11},
		{ID: "r7", X: 7, Y: 7.5},
		{ID: "r8", X: 8, Y: 7.5},
		{ID: "r9", X: 9, Y: 9.25},
		{ID: "r10", X: 10, Y: 9.75},
		{ID: "r11", X: 11, Y: 8.5},
	})
	require.NoError(t, err)
	return ds
}

// TestNewPNGPlotter creates the output directory.
func TestNewPNGPlotter(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "plots", "nested")
	p, err := NewPNGPlotter(dir)
	require.NoError(t, err)
	assert.Equal(t, dir, p.Dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
}

// TestPlotRoundWritesFiles renders both orientations of one round to disk.
func TestPlotRoundWritesFiles(t *testing.T) {
	ds := testDataset(t)
	xy, yx, union, err := core.DetectDual(ds)
	require.NoError(t, err)

	dir := t.TempDir()
	p, err := NewPNGPlotter(dir)
	require.NoError(t, err)

	require.NoError(t, p.PlotRound(1, ds, []core.DetectResult{xy, yx}, union))

	for _, name := range []string{"round1.png", "round1_swapped.png"} {
		info, err := os.Stat(filepath.Join(dir, name))
		require.NoError(t, err, "expected %s to exist", name)
		assert.Positive(t, info.Size())
	}
}

// TestPlotRoundWithoutOutliers renders a round where nothing was flagged.
func TestPlotRoundWithoutOutliers(t *testing.T) {
	ds := testDataset(t)
	res, err := core.DetectOrientation(ds, schema.OrientationXY)
	require.NoError(t, err)
	res.OutlierIDs = nil

	dir := t.TempDir()
	p, err := NewPNGPlotter(dir)
	require.NoError(t, err)

	require.NoError(t, p.PlotRound(2, ds, []core.DetectResult{res}, nil))

	_, err = os.Stat(filepath.Join(dir, "round2.png"))
	assert.NoError(t, err)
}

// TestPlotRoundUnknownOutlier fails fast on a flagged identifier with no
// matching record.
func TestPlotRoundUnknownOutlier(t *testing.T) {
	ds := testDataset(t)
	res, err := core.DetectOrientation(ds, schema.OrientationXY)
	require.NoError(t, err)
	res.OutlierIDs = []string{"zz"}

	p, err := NewPNGPlotter(t.TempDir())
	require.NoError(t, err)

	err = p.PlotRound(1, ds, []core.DetectResult{res}, nil)
	assert.ErrorIs(t, err, schema.ErrRecordNotFound)
}
