// Package pdf converts emitted HTML files into PDF documents through a
// headless browser.
package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Backend names accepted by Select
const (
	BackendAuto     = "auto"
	BackendChromedp = "chromedp"
	BackendRod      = "rod"
	BackendNone     = "none"
)

// A4 paper in inches
const (
	paperWidthInches  = 8.27
	paperHeightInches = 11.69
	marginInches      = 0.4
)

// DefaultTimeout bounds a single conversion
const DefaultTimeout = 60 * time.Second

// Backend converts a local HTML file into PDF bytes
type Backend interface {
	// Name identifies the backend in logs and warnings
	Name() string
	// Available returns an error wrapping ErrUnavailable when the backend
	// cannot run here.
	Available(ctx context.Context) error
	// Render loads htmlPath in the browser and prints it to PDF
	Render(ctx context.Context, htmlPath string) ([]byte, error)
}

// Options configures browser-backed backends
type Options struct {
	// ChromePath overrides browser discovery
	ChromePath string
	Timeout    time.Duration
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return DefaultTimeout
	}
	return o.Timeout
}

// None is the backend used when PDF output is not possible or not wanted
type None struct{}

// Name implements Backend
func (None) Name() string { return BackendNone }

// Available implements Backend. None is never available.
func (None) Available(context.Context) error {
	return fmt.Errorf("%w: no PDF backend configured", ErrUnavailable)
}

// Render implements Backend
func (None) Render(context.Context, string) ([]byte, error) {
	return nil, fmt.Errorf("%w: no PDF backend configured", ErrUnavailable)
}

// Select returns the backend named by name. "auto" picks the first
// backend whose browser can be found and falls back to None.
func Select(ctx context.Context, name string, opts Options, logger *slog.Logger) (Backend, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendAuto:
		for _, b := range []Backend{NewChromedp(opts), NewRod(opts)} {
			if err := b.Available(ctx); err != nil {
				logger.Debug("pdf backend not usable", "backend", b.Name(), "error", err)
				continue
			}
			logger.Debug("pdf backend selected", "backend", b.Name())
			return b, nil
		}
		logger.Info("no browser found, PDF output disabled")
		return None{}, nil
	case BackendChromedp:
		return NewChromedp(opts), nil
	case BackendRod:
		return NewRod(opts), nil
	case BackendNone:
		return None{}, nil
	}
	return nil, fmt.Errorf("unknown pdf backend %q (expected auto, chromedp, rod, or none)", name)
}

// chromeCandidates are probed on PATH when no browser path is configured
var chromeCandidates = []string{
	"google-chrome",
	"google-chrome-stable",
	"chromium",
	"chromium-browser",
	"headless-shell",
}

// lookPath is swapped in tests
var lookPath = exec.LookPath

// findChrome resolves the browser executable, preferring an explicit path
func findChrome(explicit string) (string, error) {
	if explicit != "" {
		path, err := lookPath(explicit)
		if err != nil {
			return "", fmt.Errorf("%w: browser %q not found: %v", ErrUnavailable, explicit, err)
		}
		return path, nil
	}
	for _, name := range chromeCandidates {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", fmt.Errorf("%w: no Chrome or Chromium executable on PATH", ErrUnavailable)
}

// PageCount returns the number of pages in a PDF document
func PageCount(data []byte) (int, error) {
	conf := model.NewDefaultConfiguration()
	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu read: %w", err)
	}
	return ctx.PageCount, nil
}
