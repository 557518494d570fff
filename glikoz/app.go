// Package glikoz wires loaders, the summary engine, the report builder
// and the rendering backends into the operations the CLI exposes.
package glikoz

import (
	"context"
	"fmt"
	"os"
	"time"

	"glikoz/glikoz/defs"
	"glikoz/glikoz/pkg/loader"
	"glikoz/glikoz/pkg/mg"
	"glikoz/glikoz/pkg/render"
	"glikoz/glikoz/pkg/report"
	"glikoz/glikoz/pkg/summary"

	"go.uber.org/zap"
)

type App struct {
	Config defs.Config
	Logger *zap.Logger
	Store  mg.EntryStore
}

func New(config defs.Config) *App {
	return &App{
		Config: config.WithDefaults(),
		Logger: config.Logger,
	}
}

// LoadEntries reads one source file with the named loader.
func LoadEntries(path, loaderName string) ([]defs.Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	switch loaderName {
	case "csv":
		return loader.ReadCSV(f)
	case "diaguard":
		return loader.ReadDiaguard(f)
	default:
		return nil, fmt.Errorf("unknown loader %q", loaderName)
	}
}

// Report summarizes entries and renders them in the requested format.
func (a *App) Report(entries []defs.Entry, format, outPath string) error {
	s, err := summary.New(entries, a.Config.Thresholds)
	if err != nil {
		return err
	}

	r, err := render.ForFormat(format)
	if err != nil {
		return err
	}

	if err := render.ToFile(outPath, r, s, report.Build(s)); err != nil {
		return err
	}

	a.Logger.Info("report written",
		zap.String("format", format),
		zap.String("file", outPath),
		zap.Int("entries", s.TotalEntryCount),
	)
	return nil
}

// Import writes entries into the mongo-backed log.
func (a *App) Import(ctx context.Context, entries []defs.Entry) error {
	for i := range entries {
		if _, err := a.Store.WriteEntry(ctx, &entries[i]); err != nil {
			return err
		}
	}
	a.Logger.Info("entries imported", zap.Int("count", len(entries)))
	return nil
}

// Export reports over a stored window.
func (a *App) Export(ctx context.Context, start, end time.Time, format, outPath string) error {
	entries, err := a.Store.ReadEntries(ctx, start, end)
	if err != nil {
		return err
	}
	return a.Report(entries, format, outPath)
}
