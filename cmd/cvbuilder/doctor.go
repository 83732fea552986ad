package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/cvbuilder/internal/config"
	"github.com/jonathan/cvbuilder/internal/db"
	"github.com/jonathan/cvbuilder/internal/observability"
	"github.com/jonathan/cvbuilder/internal/pdf"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Report which optional tools are available",
	Long:  "Probes the PDF backend, the screenshot browser, and the run ledger database concurrently and reports what each found.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runDoctor(cmd.Context(), cmd.OutOrStdout(), settings)
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// runDoctor probes every optional capability. Missing capabilities are
// reported, not returned as errors.
func runDoctor(ctx context.Context, out io.Writer, cfg *config.Config) error {
	caps := make([]observability.Capability, 3)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		caps[0] = probePDF(gctx, cfg)
		return nil
	})
	g.Go(func() error {
		caps[1] = probeScreenshot(gctx, cfg)
		return nil
	})
	g.Go(func() error {
		caps[2] = probeLedger(gctx, cfg)
		return nil
	})
	if err := g.Wait(); err != nil {
		return err
	}

	observability.NewPrinter(out).PrintCapabilities(caps)
	return nil
}

func probePDF(ctx context.Context, cfg *config.Config) observability.Capability {
	c := observability.Capability{Name: "pdf"}
	backend, err := pdf.Select(ctx, cfg.PDFBackend, pdf.Options{ChromePath: cfg.ChromePath, Timeout: cfg.PDFTimeout.Std()}, logger)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	if err := backend.Available(ctx); err != nil {
		c.Detail = err.Error()
		return c
	}
	c.Available = true
	c.Detail = backend.Name()
	return c
}

func probeScreenshot(ctx context.Context, cfg *config.Config) observability.Capability {
	c := observability.Capability{Name: "screenshot"}
	version, err := newCapturer(cfg, logger).Probe(ctx)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	c.Available = true
	c.Detail = version
	return c
}

func probeLedger(ctx context.Context, cfg *config.Config) observability.Capability {
	c := observability.Capability{Name: "ledger"}
	if cfg.DatabaseURL == "" {
		c.Detail = "DATABASE_URL not set"
		return c
	}
	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		c.Detail = err.Error()
		return c
	}
	database.Close()
	c.Available = true
	c.Detail = fmt.Sprintf("connected (%s)", redactURL(cfg.DatabaseURL))
	return c
}
