package pdf

import (
	"context"
	"fmt"
	"io"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Rod prints HTML files to PDF with a go-rod managed browser. Only a
// browser already installed on the machine is used; nothing is downloaded.
type Rod struct {
	opts Options
}

// NewRod creates a go-rod backend
func NewRod(opts Options) *Rod {
	return &Rod{opts: opts}
}

// Name implements Backend
func (r *Rod) Name() string { return BackendRod }

// Available implements Backend
func (r *Rod) Available(context.Context) error {
	_, err := r.browserBin()
	return err
}

func (r *Rod) browserBin() (string, error) {
	if r.opts.ChromePath != "" {
		return findChrome(r.opts.ChromePath)
	}
	if path, ok := launcher.LookPath(); ok {
		return path, nil
	}
	return "", fmt.Errorf("%w: rod found no local browser", ErrUnavailable)
}

// Render implements Backend
func (r *Rod) Render(ctx context.Context, htmlPath string) ([]byte, error) {
	bin, err := r.browserBin()
	if err != nil {
		return nil, err
	}
	target, err := fileURL(htmlPath)
	if err != nil {
		return nil, &Error{Backend: r.Name(), Message: "invalid HTML path", Cause: err}
	}

	ctx, cancel := context.WithTimeout(ctx, r.opts.timeout())
	defer cancel()

	l := launcher.New().Context(ctx).Bin(bin).Headless(true).NoSandbox(true)
	defer l.Cleanup()
	defer l.Kill()

	controlURL, err := l.Launch()
	if err != nil {
		return nil, &Error{Backend: r.Name(), Message: "failed to launch browser", Cause: err}
	}

	browser := rod.New().ControlURL(controlURL).Context(ctx)
	if err := browser.Connect(); err != nil {
		return nil, &Error{Backend: r.Name(), Message: "failed to connect to browser", Cause: err}
	}
	defer func() { _ = browser.Close() }()

	p, err := browser.Page(proto.TargetCreateTarget{URL: target})
	if err != nil {
		return nil, &Error{Backend: r.Name(), Message: "failed to open page", Cause: err}
	}
	defer func() { _ = p.Close() }()

	if err := p.WaitLoad(); err != nil {
		return nil, &Error{Backend: r.Name(), Message: "page did not load", Cause: err}
	}

	stream, err := p.PDF(&proto.PagePrintToPDF{
		PaperWidth:      floatPtr(paperWidthInches),
		PaperHeight:     floatPtr(paperHeightInches),
		MarginTop:       floatPtr(marginInches),
		MarginBottom:    floatPtr(marginInches),
		MarginLeft:      floatPtr(marginInches),
		MarginRight:     floatPtr(marginInches),
		PrintBackground: true,
	})
	if err != nil {
		return nil, &Error{Backend: r.Name(), Message: "PDF generation failed", Cause: err}
	}

	buf, err := io.ReadAll(stream)
	if err != nil {
		return nil, &Error{Backend: r.Name(), Message: "reading PDF stream", Cause: err}
	}
	return buf, nil
}

func floatPtr(v float64) *float64 {
	return &v
}
