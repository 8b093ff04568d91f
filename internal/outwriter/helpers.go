package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/fencelab/iqrfence/internal/contract"
)

// Table layout constraints.
const (
	defaultTermWidth = 120
	// fixedColumnWidth approximates the table width consumed by everything
	// except the outlier column.
	fixedColumnWidth = 60
	minOutlierWidth  = 20
)

// createFormatter returns a float formatter for the configured precision.
func createFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return strconv.FormatFloat(v, 'f', precision, 64)
	}
}

// writeWithFile runs the write function against the configured output file,
// or stdout when none is set. File writes get a confirmation line.
func writeWithFile(filePath string, write func(io.Writer) error, successMsg string) error {
	if filePath == "" {
		return write(os.Stdout)
	}

	f, err := os.Create(filePath)
	if err != nil {
		return fmt.Errorf("cannot create output file %q: %w", filePath, err)
	}
	defer func() { _ = f.Close() }()

	if err := write(f); err != nil {
		return err
	}
	_, err = fmt.Fprintf(os.Stdout, "%s to %s\n", successMsg, filePath)
	return err
}

// writeJSON encodes v with indentation.
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// getMaxOutlierWidth derives the usable width of the outlier column from the
// configured or detected terminal width.
func getMaxOutlierWidth(cfg *contract.Config) int {
	width := cfg.Width
	if width <= 0 {
		w, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || w <= 0 {
			w = defaultTermWidth
		}
		width = w
	}
	if width-fixedColumnWidth < minOutlierWidth {
		return minOutlierWidth
	}
	return width - fixedColumnWidth
}
