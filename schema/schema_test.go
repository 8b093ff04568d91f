package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecords() []Record {
	return []Record{
		{ID: "a", X: 1, Y: 2},
		{ID: "b", X: 3, Y: 4},
		{ID: "c", X: 5, Y: 6},
		{ID: "d", X: 7, Y: 8},
	}
}

// TestNewDataset accepts unique identifiers and rejects duplicates.
func TestNewDataset(t *testing.T) {
	t.Run("unique identifiers", func(t *testing.T) {
		ds, err := NewDataset(sampleRecords())
		require.NoError(t, err)
		assert.Equal(t, 4, ds.Len())
	})

	t.Run("duplicate identifier", func(t *testing.T) {
		records := append(sampleRecords(), Record{ID: "b", X: 9, Y: 10})
		_, err := NewDataset(records)
		assert.ErrorIs(t, err, ErrDuplicateID)
		assert.ErrorContains(t, err, `"b"`)
	})
}

// TestDatasetAccessors checks the parallel-slice views stay in dataset order.
func TestDatasetAccessors(t *testing.T) {
	ds, err := NewDataset(sampleRecords())
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d"}, ds.IDs())
	assert.Equal(t, []float64{1, 3, 5, 7}, ds.Xs())
	assert.Equal(t, []float64{2, 4, 6, 8}, ds.Ys())
}

// TestDatasetRemove verifies order preservation and immutability.
func TestDatasetRemove(t *testing.T) {
	ds, err := NewDataset(sampleRecords())
	require.NoError(t, err)

	kept := ds.Remove(IDSet([]string{"b", "d"}))
	assert.Equal(t, []string{"a", "c"}, kept.IDs())

	// The original dataset is untouched.
	assert.Equal(t, 4, ds.Len())

	t.Run("empty set removes nothing", func(t *testing.T) {
		same := ds.Remove(IDSet(nil))
		assert.Equal(t, ds.IDs(), same.IDs())
	})

	t.Run("unknown identifiers are ignored", func(t *testing.T) {
		same := ds.Remove(IDSet([]string{"zz"}))
		assert.Equal(t, 4, same.Len())
	})
}

// TestDatasetSubset returns records in request order and fails on misses.
func TestDatasetSubset(t *testing.T) {
	ds, err := NewDataset(sampleRecords())
	require.NoError(t, err)

	t.Run("request order preserved", func(t *testing.T) {
		out, err := ds.Subset([]string{"c", "a"})
		require.NoError(t, err)
		require.Len(t, out, 2)
		assert.Equal(t, "c", out[0].ID)
		assert.Equal(t, "a", out[1].ID)
	})

	t.Run("missing identifier", func(t *testing.T) {
		_, err := ds.Subset([]string{"a", "zz"})
		assert.ErrorIs(t, err, ErrRecordNotFound)
	})

	t.Run("empty request", func(t *testing.T) {
		out, err := ds.Subset(nil)
		require.NoError(t, err)
		assert.Empty(t, out)
	})
}

// TestIDSet converts slices into membership sets.
func TestIDSet(t *testing.T) {
	set := IDSet([]string{"a", "b", "a"})
	assert.Len(t, set, 2)
	_, ok := set["a"]
	assert.True(t, ok)
	_, ok = set["c"]
	assert.False(t, ok)
}

// TestFitResultPredict evaluates the line at a few points.
func TestFitResultPredict(t *testing.T) {
	fit := FitResult{Slope: -1.5, Intercept: 4}
	assert.InDelta(t, 4.0, fit.Predict(0), 1e-12)
	assert.InDelta(t, 1.0, fit.Predict(2), 1e-12)
}
