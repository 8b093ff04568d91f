package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"

	"github.com/fencelab/iqrfence/schema"
)

// Color variables for console output.
var (
	OutlierColor   = color.New(color.FgRed, color.Bold) // flagged identifiers
	ConvergedColor = color.New(color.FgGreen)           // loop reached a fixed point
	PendingColor   = color.New(color.FgYellow)          // loop stopped before convergence
)

// ParseBoolString parses a textual flag value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Any other value is an invalid configuration; nothing silently defaults.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0): %w",
			s, schema.ErrInvalidConfiguration)
	}
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// GetHistoryDBFilePath returns the path to the SQLite DB file for run-history storage.
func GetHistoryDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".iqrfence_history.db"
	}
	return filepath.Join(homeDir, ".iqrfence_history.db")
}

// TruncateText truncates a cell value to a maximum width with an ellipsis
// suffix. Requires maxWidth > 3 so there is room for the "..." and at least
// one character of content.
func TruncateText(s string, maxWidth int) string {
	runes := []rune(s)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return s
}
