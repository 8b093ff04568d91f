package ingest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fencelab/iqrfence/schema"
)

// writeFile drops content into a temp file and returns its path.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// TestLoadWhitespace parses the "id x y" text layout.
func TestLoadWhitespace(t *testing.T) {
	path := writeFile(t, "data.txt", "ALA 1.5 2.25\nGLY 3 4\n\n  TRP   5.5   -6  \n")

	ds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, []string{"ALA", "GLY", "TRP"}, ds.IDs())
	assert.Equal(t, []float64{1.5, 3, 5.5}, ds.Xs())
	assert.Equal(t, []float64{2.25, 4, -6}, ds.Ys())
}

// TestLoadCSV parses the CSV layout with a header row.
func TestLoadCSV(t *testing.T) {
	path := writeFile(t, "data.csv", "id,x,y\nALA,1.5,2.25\nGLY,3,4\n")

	ds, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, []string{"ALA", "GLY"}, ds.IDs())
	assert.Equal(t, []float64{1.5, 3}, ds.Xs())
}

// TestLoadErrors covers the rejection paths.
func TestLoadErrors(t *testing.T) {
	t.Run("wrong field count", func(t *testing.T) {
		path := writeFile(t, "data.txt", "ALA 1.5\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, schema.ErrDimensionMismatch)
	})

	t.Run("too many fields", func(t *testing.T) {
		path := writeFile(t, "data.txt", "ALA 1 2 3\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, schema.ErrDimensionMismatch)
	})

	t.Run("non-numeric x", func(t *testing.T) {
		path := writeFile(t, "data.txt", "ALA abc 2\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "bad x value")
	})

	t.Run("non-numeric y", func(t *testing.T) {
		path := writeFile(t, "data.txt", "ALA 1 xyz\n")
		_, err := Load(path)
		assert.ErrorContains(t, err, "bad y value")
	})

	t.Run("duplicate identifier", func(t *testing.T) {
		path := writeFile(t, "data.txt", "ALA 1 2\nALA 3 4\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, schema.ErrDuplicateID)
	})

	t.Run("duplicate identifier in csv", func(t *testing.T) {
		path := writeFile(t, "data.csv", "id,x,y\nALA,1,2\nALA,3,4\n")
		_, err := Load(path)
		assert.ErrorIs(t, err, schema.ErrDuplicateID)
	})

	t.Run("empty file", func(t *testing.T) {
		path := writeFile(t, "data.txt", "")
		_, err := Load(path)
		assert.ErrorIs(t, err, schema.ErrInsufficientData)
	})

	t.Run("blank lines only", func(t *testing.T) {
		path := writeFile(t, "data.txt", "\n\n  \n")
		_, err := Load(path)
		assert.ErrorIs(t, err, schema.ErrInsufficientData)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.txt"))
		assert.Error(t, err)
	})
}

// TestLoadErrorsCarryLineNumbers ensures parse failures point at the line.
func TestLoadErrorsCarryLineNumbers(t *testing.T) {
	path := writeFile(t, "data.txt", "ALA 1 2\nGLY bad 4\n")
	_, err := Load(path)
	require.Error(t, err)
	assert.ErrorContains(t, err, ":2:")
}
