package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/jonathan/cvbuilder/internal/batch"
	"github.com/jonathan/cvbuilder/internal/config"
	"github.com/jonathan/cvbuilder/internal/db"
	"github.com/jonathan/cvbuilder/internal/observability"
	"github.com/spf13/cobra"
)

var samplesCmd = &cobra.Command{
	Use:   "samples [data-file]",
	Short: "Render every sample data file with every template",
	Long: "Discovers templates and sample data files, then renders each pairing into the output " +
		"directory as <data>_<template>_resume.{html,pdf,png}. A failing pairing is reported and " +
		"the run continues. When a data file is given, only that file is rendered.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSamplesCmd,
}

var (
	samplesTemplateDir string
	samplesSampleDir   string
	samplesOutputDir   string
	samplesStrict      bool
	samplesNoLedger    bool
	samplesScreenshots bool
)

// samplesOptions holds everything a batch run needs beyond the config
type samplesOptions struct {
	Batch       batch.Options
	Strict      bool
	Ledger      bool
	Screenshots bool
}

func init() {
	samplesCmd.Flags().StringVar(&samplesTemplateDir, "templates", "", "Template directory (default from config: template)")
	samplesCmd.Flags().StringVar(&samplesSampleDir, "samples", "", "Sample data directory (default from config: sample)")
	samplesCmd.Flags().StringVarP(&samplesOutputDir, "output", "o", "", "Output directory (default from config: sample/output)")
	samplesCmd.Flags().BoolVar(&samplesStrict, "strict", false, "Exit with an error when any pairing fails")
	samplesCmd.Flags().BoolVar(&samplesNoLedger, "no-ledger", false, "Do not record the run in the database")
	samplesCmd.Flags().BoolVar(&samplesScreenshots, "screenshots", true, "Capture a PNG of each generated page when a browser is available")

	rootCmd.AddCommand(samplesCmd)
}

func runSamplesCmd(cmd *cobra.Command, args []string) error {
	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	opts := samplesOptions{
		Batch: batch.Options{
			TemplateDir: firstNonEmpty(samplesTemplateDir, settings.TemplateDir),
			SampleDir:   firstNonEmpty(samplesSampleDir, settings.SampleDir),
			OutputDir:   firstNonEmpty(samplesOutputDir, settings.OutputDir),
		},
		Strict:      samplesStrict,
		Ledger:      !samplesNoLedger,
		Screenshots: samplesScreenshots,
	}
	if len(args) == 1 {
		opts.Batch.DataFile = args[0]
	}
	return runSamples(ctx, cmd.OutOrStdout(), settings, opts)
}

// runSamples renders every discovered pairing and prints a summary
func runSamples(ctx context.Context, out io.Writer, cfg *config.Config, opts samplesOptions) error {
	printer := observability.NewPrinter(out)

	plan, err := batch.Discover(opts.Batch)
	if err != nil {
		return err
	}
	if abs, err := filepath.Abs(opts.Batch.OutputDir); err == nil {
		opts.Batch.OutputDir = abs
	}
	printer.PrintPlan(plan, opts.Batch.OutputDir)

	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	var capturer batch.Capturer
	if opts.Screenshots {
		c := newCapturer(cfg, logger)
		if version, err := c.Probe(ctx); err == nil {
			printer.Printf("Chromium available: %s", version)
		} else {
			printer.Printf("Chromium not available, screenshots will be skipped")
		}
		capturer = c
	}

	var recorder batch.Recorder
	if opts.Ledger && cfg.DatabaseURL != "" {
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			logger.Warn("run ledger unavailable, continuing without it", "error", err)
		} else {
			defer database.Close()
			if err := database.EnsureSchema(ctx); err != nil {
				logger.Warn("run ledger unavailable, continuing without it", "error", err)
			} else {
				recorder = db.NewLedger(database)
			}
		}
	}

	orch := batch.NewOrchestrator(gen, capturer, recorder, logger)
	orch.OnTaskStart = func(task batch.Task) {
		printer.Printf("Generating %s with %s...", filepath.Base(task.DataPath), filepath.Base(task.TemplatePath))
	}
	orch.OnTaskDone = printer.PrintOutcome

	report, err := orch.Execute(ctx, plan, opts.Batch)
	if err != nil {
		return err
	}
	printer.PrintBatchSummary(report)

	summary := report.Summary()
	if summary.Cancelled > 0 {
		return fmt.Errorf("run cancelled: %d of %d pairings not attempted", summary.Cancelled, summary.Attempted)
	}
	if opts.Strict && summary.Failed > 0 {
		return fmt.Errorf("%d of %d pairings failed", summary.Failed, summary.Attempted)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
