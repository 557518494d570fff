package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"glikoz/glikoz"
	"glikoz/glikoz/defs"
	"glikoz/glikoz/pkg/mg"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

const storeTimeout = 10 * time.Second

var (
	configFile string
	inputFile  string
	loaderName string
	format     string
	outputFile string
	startDate  string
	endDate    string
)

func main() {
	root := &cobra.Command{
		Use:           "glikoz",
		Short:         "Derive clinical metrics from a glucose/insulin log and render reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "f", "", "config file")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Render a report from a log file",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			entries, err := glikoz.LoadEntries(inputFile, loaderName)
			if err != nil {
				return err
			}
			return app.Report(entries, format, outputFile)
		},
	}
	addInputFlags(reportCmd)
	addOutputFlags(reportCmd)

	importCmd := &cobra.Command{
		Use:   "import",
		Short: "Import a log file into the entry store",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			entries, err := glikoz.LoadEntries(inputFile, loaderName)
			if err != nil {
				return err
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), storeTimeout)
			defer cancel()
			if err := connectStore(ctx, app); err != nil {
				return err
			}
			return app.Import(ctx, entries)
		},
	}
	addInputFlags(importCmd)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Render a report from a stored time window",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			start, err := time.Parse("2006-01-02", startDate)
			if err != nil {
				return fmt.Errorf("invalid start date %q: %w", startDate, err)
			}
			end, err := time.Parse("2006-01-02", endDate)
			if err != nil {
				return fmt.Errorf("invalid end date %q: %w", endDate, err)
			}

			ctx, cancel := context.WithTimeout(cmd.Context(), storeTimeout)
			defer cancel()
			if err := connectStore(ctx, app); err != nil {
				return err
			}
			return app.Export(ctx, start, end, format, outputFile)
		},
	}
	exportCmd.Flags().StringVar(&startDate, "start", "", "window start (YYYY-MM-DD)")
	exportCmd.Flags().StringVar(&endDate, "end", "", "window end (YYYY-MM-DD)")
	exportCmd.MarkFlagRequired("start")
	exportCmd.MarkFlagRequired("end")
	addOutputFlags(exportCmd)

	root.AddCommand(reportCmd, importCmd, exportCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&inputFile, "input", "i", "", "input log file")
	cmd.Flags().StringVar(&loaderName, "loader", "csv", "input format (csv, diaguard)")
	cmd.MarkFlagRequired("input")
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&format, "format", "latex", "report format (latex, json, plot)")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "glikoz_report.tex", "output file")
}

func newApp() (*glikoz.App, error) {
	logger, _ := zap.NewDevelopment()
	config := defs.Config{Logger: logger}

	if configFile != "" {
		file, err := os.ReadFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("unable to read config: %w", err)
		}
		if err := yaml.Unmarshal(file, &config); err != nil {
			return nil, fmt.Errorf("unable to parse config: %w", err)
		}
		logger.Debug("loaded config file", zap.String("file", configFile))
	}

	return glikoz.New(config), nil
}

func connectStore(ctx context.Context, app *glikoz.App) error {
	ms, err := mg.New(ctx, app.Config.Mongo, defs.DefaultDB, app.Logger)
	if err != nil {
		return err
	}
	app.Store = ms
	return nil
}
