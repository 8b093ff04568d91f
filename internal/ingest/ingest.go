// Package ingest reads delimited measurement files into a schema.Dataset.
// Two layouts are supported: CSV files with an id,x,y header, and the
// whitespace-delimited "id x y" text format. Malformed rows and duplicate
// identifiers are rejected here, before any record reaches the analysis.
package ingest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/fencelab/iqrfence/schema"
)

// fieldsPerRow is the expected column count of a whitespace-delimited row.
const fieldsPerRow = 3

// Load reads the data file at path into a Dataset. Files with a .csv
// extension are parsed as CSV with a header row; anything else is treated as
// whitespace-delimited text, one record per line.
func Load(path string) (*schema.Dataset, error) {
	var records []schema.Record
	var err error
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		records, err = loadCSV(path)
	} else {
		records, err = loadWhitespace(path)
	}
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("data file %q holds no records: %w", path, schema.ErrInsufficientData)
	}
	return schema.NewDataset(records)
}

// loadCSV parses a CSV file with an id,x,y header into records.
func loadCSV(path string) ([]schema.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []schema.Record
	if err := gocsv.UnmarshalFile(f, &records); err != nil {
		return nil, fmt.Errorf("cannot parse CSV data file %q: %w", path, err)
	}
	return records, nil
}

// loadWhitespace parses whitespace-delimited "id x y" lines into records.
// Blank lines are skipped; any other malformed line is fatal.
func loadWhitespace(path string) ([]schema.Record, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open data file: %w", err)
	}
	defer func() { _ = f.Close() }()

	var records []schema.Record
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		fields := strings.Fields(line)
		if len(fields) != fieldsPerRow {
			return nil, fmt.Errorf("%s:%d: expected %d fields, got %d: %w",
				path, lineNo, fieldsPerRow, len(fields), schema.ErrDimensionMismatch)
		}

		x, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad x value %q: %w", path, lineNo, fields[1], err)
		}
		y, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: bad y value %q: %w", path, lineNo, fields[2], err)
		}

		records = append(records, schema.Record{ID: fields[0], X: x, Y: y})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("cannot read data file %q: %w", path, err)
	}
	return records, nil
}
