package main

import (
	"context"
	"log/slog"
	"os"
	"runtime"

	"github.com/jonathan/cvbuilder/internal/config"
	"github.com/jonathan/cvbuilder/internal/emission"
	"github.com/jonathan/cvbuilder/internal/observability"
	"github.com/jonathan/cvbuilder/internal/pdf"
	"github.com/jonathan/cvbuilder/internal/pipeline"
	"github.com/jonathan/cvbuilder/internal/rendering"
	"github.com/jonathan/cvbuilder/internal/schemas"
	"github.com/jonathan/cvbuilder/internal/screenshot"
	"github.com/spf13/cobra"
)

// settings is the resolved configuration shared by every command
var settings *config.Config

// logger writes diagnostics to stderr
var logger = observability.Discard()

func loadSettings(_ *cobra.Command, _ []string) error {
	cfg, err := config.Resolve(rootConfigFile, os.Getenv)
	if err != nil {
		return err
	}
	if rootLogLevel != "" {
		cfg.LogLevel = rootLogLevel
	}
	if rootVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	settings = cfg
	logger = newLogger(cfg)
	logger.Debug("configuration resolved",
		"config", rootConfigFile, "pdf_backend", cfg.PDFBackend, "gomaxprocs", runtime.GOMAXPROCS(0))
	return nil
}

func newLogger(cfg *config.Config) *slog.Logger {
	level := cfg.LogLevel
	if cfg.Verbose {
		level = "debug"
	}
	return observability.NewLogger(os.Stderr, level)
}

// newGenerator wires the single-pair pipeline from cfg
func newGenerator(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*pipeline.Generator, error) {
	validator, err := schemas.NewValidator()
	if err != nil {
		return nil, err
	}

	backend, err := pdf.Select(ctx, cfg.PDFBackend, pdf.Options{
		ChromePath: cfg.ChromePath,
		Timeout:    cfg.PDFTimeout.Std(),
	}, logger)
	if err != nil {
		return nil, err
	}

	emitter := emission.NewEmitter(backend, emission.Options{
		MaxPages: cfg.MaxPages,
		Markdown: cfg.MarkdownExport,
	}, logger)

	return pipeline.NewGenerator(validator, rendering.NewRenderer(logger), emitter, logger), nil
}

// newCapturer builds the screenshot capturer from cfg
func newCapturer(cfg *config.Config, logger *slog.Logger) *screenshot.Capturer {
	return screenshot.NewCapturer(screenshot.ExecRunner{}, screenshot.Options{
		Binary:       cfg.ScreenshotBin,
		Timeout:      cfg.ScreenshotTimeout.Std(),
		ProbeTimeout: cfg.ProbeTimeout.Std(),
		Width:        cfg.ViewportWidth,
		Height:       cfg.ViewportHeight,
	}, logger)
}

// progressPrinter adapts pipeline progress to printed lines
func progressPrinter(p *observability.Printer) pipeline.ProgressCallback {
	return func(event pipeline.ProgressEvent) {
		p.Printf("%s", event.Message)
	}
}
