// Package loader parses source files into the canonical entry series.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"glikoz/glikoz/defs"
)

var timeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ReadCSV parses the canonical log format: a header line
// date,glucose,fast_insulin,basal_insulin,carbs followed by one entry per
// row. Empty cells mean the field was not logged.
func ReadCSV(r io.Reader) ([]defs.Entry, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("loader: unable to read csv header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	if _, ok := cols["date"]; !ok {
		return nil, fmt.Errorf("loader: csv header is missing the date column")
	}

	var entries []defs.Entry
	for line := 2; ; line++ {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("loader: unable to read csv: %w", err)
		}

		ts, err := parseTime(record[cols["date"]])
		if err != nil {
			return nil, fmt.Errorf("loader: line %d: %w", line, err)
		}

		entry := defs.Entry{Time: ts}
		if entry.Glucose, err = parseCell(record, cols, "glucose"); err != nil {
			return nil, fmt.Errorf("loader: line %d: %w", line, err)
		}
		if entry.FastInsulin, err = parseCell(record, cols, "fast_insulin"); err != nil {
			return nil, fmt.Errorf("loader: line %d: %w", line, err)
		}
		if entry.BasalInsulin, err = parseCell(record, cols, "basal_insulin"); err != nil {
			return nil, fmt.Errorf("loader: line %d: %w", line, err)
		}
		if entry.Carbs, err = parseCell(record, cols, "carbs"); err != nil {
			return nil, fmt.Errorf("loader: line %d: %w", line, err)
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func parseCell(record []string, cols map[string]int, name string) (*float64, error) {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return nil, nil
	}
	cell := strings.TrimSpace(record[idx])
	if cell == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(cell, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q", name, cell)
	}
	return &v, nil
}

func parseTime(cell string) (time.Time, error) {
	cell = strings.TrimSpace(cell)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, cell); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q", cell)
}
