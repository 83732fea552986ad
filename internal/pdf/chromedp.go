package pdf

import (
	"context"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"
)

// Chromedp prints HTML files to PDF with a chromedp-driven headless Chrome
type Chromedp struct {
	opts Options
}

// NewChromedp creates a chromedp backend
func NewChromedp(opts Options) *Chromedp {
	return &Chromedp{opts: opts}
}

// Name implements Backend
func (c *Chromedp) Name() string { return BackendChromedp }

// Available implements Backend
func (c *Chromedp) Available(context.Context) error {
	_, err := findChrome(c.opts.ChromePath)
	return err
}

// Render implements Backend
func (c *Chromedp) Render(ctx context.Context, htmlPath string) ([]byte, error) {
	execPath, err := findChrome(c.opts.ChromePath)
	if err != nil {
		return nil, err
	}
	target, err := fileURL(htmlPath)
	if err != nil {
		return nil, &Error{Backend: c.Name(), Message: "invalid HTML path", Cause: err}
	}

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.ExecPath(execPath),
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, c.opts.timeout())
	defer cancel()

	var buf []byte
	err = chromedp.Run(browserCtx,
		chromedp.Navigate(target),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.ActionFunc(func(ctx context.Context) error {
			var err error
			buf, _, err = page.PrintToPDF().
				WithPrintBackground(true).
				WithPaperWidth(paperWidthInches).
				WithPaperHeight(paperHeightInches).
				WithMarginTop(marginInches).
				WithMarginBottom(marginInches).
				WithMarginLeft(marginInches).
				WithMarginRight(marginInches).
				WithPreferCSSPageSize(true).
				Do(ctx)
			return err
		}),
	)
	if err != nil {
		return nil, &Error{Backend: c.Name(), Message: "browser rendering failed", Cause: err}
	}
	return buf, nil
}

// fileURL turns a local path into an absolute file:// URL
func fileURL(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", path, err)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}
	return u.String(), nil
}
