// Package render holds the rendering backends. Each backend is a pure
// serializer over a summary and its report sections: identical inputs
// produce identical bytes.
package render

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"glikoz/glikoz/pkg/report"
	"glikoz/glikoz/pkg/summary"
)

// Placeholder emitted for metrics that have no defined value.
const Undefined = "N/A"

type Renderer interface {
	Render(s *summary.Summary, sections []report.Section, w io.Writer) error
}

// ForFormat returns the backend registered under name.
func ForFormat(name string) (Renderer, error) {
	switch name {
	case "latex":
		return &LaTeXRenderer{}, nil
	case "json":
		return &JSONRenderer{}, nil
	case "plot":
		return &PlotRenderer{}, nil
	default:
		return nil, fmt.Errorf("render: unknown format %q", name)
	}
}

// ToFile renders into a temporary file next to path and renames it into
// place only after a complete write, so a failed render never leaves a
// partial artifact behind.
func ToFile(path string, r Renderer, s *summary.Summary, sections []report.Section) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".glikoz-*")
	if err != nil {
		return fmt.Errorf("render: unable to create output file: %w", err)
	}

	if err := r.Render(s, sections, tmp); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("render: unable to flush output file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("render: unable to place output file: %w", err)
	}
	return nil
}

// formatNumber applies the shared scalar formatting rules: integers carry
// no decimals, everything else two places, undefined values the
// placeholder.
func formatNumber(ns report.NumberSection) string {
	if !ns.Defined {
		return Undefined
	}
	if ns.Integer {
		return strconv.Itoa(int(ns.Value))
	}
	return strconv.FormatFloat(ns.Value, 'f', 2, 64)
}

// formatPercent scales a fraction to a one-decimal percentage.
func formatPercent(fraction float64) string {
	return strconv.FormatFloat(fraction*100, 'f', 1, 64)
}
