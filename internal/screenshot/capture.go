// Package screenshot captures PNG previews of emitted HTML documents with a
// headless Chromium process.
package screenshot

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/jonathan/cvbuilder/internal/types"
)

// Defaults for Options
const (
	DefaultTimeout      = 30 * time.Second
	DefaultProbeTimeout = 5 * time.Second
	DefaultWidth        = 1200
	DefaultHeight       = 1600
)

// binaryCandidates are searched on PATH when no binary is configured
var binaryCandidates = []string{"chromium", "chromium-browser", "google-chrome"}

// lookPath is swapped in tests
var lookPath = exec.LookPath

// Options configures a Capturer
type Options struct {
	// Binary overrides the browser executable search
	Binary       string
	Timeout      time.Duration
	ProbeTimeout time.Duration
	Width        int
	Height       int
}

func (o Options) withDefaults() Options {
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = DefaultProbeTimeout
	}
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	return o
}

// Capturer takes screenshots of local HTML files. The browser is probed
// once and the outcome is reused by every later call.
type Capturer struct {
	runner Runner
	opts   Options
	logger *slog.Logger

	once     sync.Once
	bin      string
	version  string
	probeErr error
}

// NewCapturer creates a Capturer. A nil runner uses ExecRunner.
func NewCapturer(runner Runner, opts Options, logger *slog.Logger) *Capturer {
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Capturer{
		runner: runner,
		opts:   opts.withDefaults(),
		logger: logger,
	}
}

// Probe checks that the browser can be started and reports its version
func (c *Capturer) Probe(ctx context.Context) (string, error) {
	c.once.Do(func() {
		c.bin, c.version, c.probeErr = c.probe(ctx)
		if c.probeErr != nil {
			c.logger.Debug("screenshot tool unavailable", "error", c.probeErr)
		} else {
			c.logger.Debug("screenshot tool available", "binary", c.bin, "version", c.version)
		}
	})
	return c.version, c.probeErr
}

func (c *Capturer) probe(ctx context.Context) (string, string, error) {
	bin, err := c.resolveBinary()
	if err != nil {
		return "", "", err
	}

	res, err := c.runner.Run(ctx, bin, []string{"--version"}, c.opts.ProbeTimeout)
	switch {
	case err != nil:
		return "", "", &CaptureError{Message: "cannot start " + bin, Cause: err, kind: types.KindScreenshotUnavailable}
	case res.TimedOut:
		return "", "", &CaptureError{Message: bin + " --version timed out", kind: types.KindScreenshotUnavailable}
	case res.ExitCode != 0:
		return "", "", &CaptureError{
			Message: fmt.Sprintf("%s --version exited with code %d", bin, res.ExitCode),
			Stderr:  res.Stderr,
			kind:    types.KindScreenshotUnavailable,
		}
	}
	return bin, strings.TrimSpace(res.Stdout), nil
}

func (c *Capturer) resolveBinary() (string, error) {
	candidates := binaryCandidates
	if c.opts.Binary != "" {
		candidates = []string{c.opts.Binary}
	}
	for _, name := range candidates {
		if path, err := lookPath(name); err == nil {
			return path, nil
		}
	}
	return "", &CaptureError{
		Message: fmt.Sprintf("no screenshot tool found (tried %s)", strings.Join(candidates, ", ")),
		kind:    types.KindScreenshotUnavailable,
	}
}

// PNGPath returns the screenshot path for an HTML file
func PNGPath(htmlPath string) string {
	return strings.TrimSuffix(htmlPath, filepath.Ext(htmlPath)) + ".png"
}

// Capture renders htmlPath in the browser and writes a PNG next to it,
// returning the PNG path. A partially written PNG is removed on failure.
func (c *Capturer) Capture(ctx context.Context, htmlPath string) (string, error) {
	if _, err := c.Probe(ctx); err != nil {
		return "", err
	}

	abs, err := filepath.Abs(htmlPath)
	if err != nil {
		return "", &CaptureError{Path: htmlPath, Message: "invalid HTML path", Cause: err, kind: types.KindScreenshotFailed}
	}
	pngPath := PNGPath(abs)
	target := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}

	args := []string{
		"--headless",
		"--disable-gpu",
		fmt.Sprintf("--window-size=%d,%d", c.opts.Width, c.opts.Height),
		"--screenshot=" + pngPath,
		target.String(),
	}

	if err := os.Remove(pngPath); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return "", &CaptureError{Path: pngPath, Message: "cannot replace previous screenshot", Cause: err, kind: types.KindScreenshotFailed}
	}

	start := time.Now()
	res, err := c.runner.Run(ctx, c.bin, args, c.opts.Timeout)
	switch {
	case err != nil:
		err = &CaptureError{Path: pngPath, Message: "cannot start " + c.bin, Cause: err, kind: types.KindScreenshotFailed}
	case res.TimedOut:
		err = &CaptureError{
			Path:    pngPath,
			Message: fmt.Sprintf("screenshot timed out after %s", c.opts.Timeout),
			kind:    types.KindScreenshotTimeout,
		}
	case res.ExitCode != 0:
		err = &CaptureError{
			Path:    pngPath,
			Message: fmt.Sprintf("browser exited with code %d", res.ExitCode),
			Stderr:  res.Stderr,
			kind:    types.KindScreenshotFailed,
		}
	default:
		if _, statErr := os.Stat(pngPath); errors.Is(statErr, fs.ErrNotExist) {
			err = &CaptureError{Path: pngPath, Message: "browser wrote no screenshot", Stderr: res.Stderr, kind: types.KindScreenshotFailed}
		}
	}
	if err != nil {
		_ = os.Remove(pngPath)
		return "", err
	}

	c.logger.Debug("screenshot captured", "path", pngPath, "duration", time.Since(start))
	return pngPath, nil
}
