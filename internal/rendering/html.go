package rendering

import (
	"bytes"
	"errors"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/jonathan/cvbuilder/internal/types"
)

// Context is the value templates are executed against
type Context struct {
	Name        string
	Summary     string
	ContactInfo []types.ContactEntry
	Sections    []types.Section
}

// NewContext builds the render context for a document, with sections in
// ascending id order.
func NewContext(doc *types.ResumeDocument) Context {
	contacts := doc.ContactInfo
	if contacts == nil {
		contacts = []types.ContactEntry{}
	}
	return Context{
		Name:        doc.Name,
		Summary:     doc.Summary,
		ContactInfo: contacts,
		Sections:    doc.SortedSections(),
	}
}

// Template is a parsed template file
type Template struct {
	Path string
	tmpl *template.Template
}

// Stem returns the template file name without its extension
func (t *Template) Stem() string {
	base := filepath.Base(t.Path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

type cacheEntry struct {
	tmpl *Template
	err  error
}

// Renderer loads templates and renders documents through them. Loaded
// templates and load failures are cached by absolute path. A Renderer is
// safe for concurrent use.
type Renderer struct {
	mu     sync.RWMutex
	cache  map[string]cacheEntry
	logger *slog.Logger
}

// NewRenderer creates a renderer with an empty template cache
func NewRenderer(logger *slog.Logger) *Renderer {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Renderer{
		cache:  make(map[string]cacheEntry),
		logger: logger,
	}
}

// Load returns the parsed template at path, reading it on first use
func (r *Renderer) Load(path string) (*Template, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, &TemplateError{Path: path, Message: "failed to resolve template path", Cause: err}
	}

	r.mu.RLock()
	entry, ok := r.cache[abs]
	r.mu.RUnlock()
	if ok {
		return entry.tmpl, entry.err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.cache[abs]; ok {
		return entry.tmpl, entry.err
	}

	tmpl, err := parseTemplate(abs)
	r.cache[abs] = cacheEntry{tmpl: tmpl, err: err}
	if err != nil {
		r.logger.Warn("template load failed", "path", abs, "error", err)
	} else {
		r.logger.Debug("template loaded", "path", abs)
	}
	return tmpl, err
}

// Render executes tmpl against doc and returns the markup
func (r *Renderer) Render(doc *types.ResumeDocument, tmpl *Template) (string, error) {
	if doc == nil {
		return "", &RenderError{Message: "no document to render"}
	}
	if tmpl == nil {
		return "", &RenderError{Message: "no template to render with"}
	}

	var buf bytes.Buffer
	if err := tmpl.tmpl.Execute(&buf, NewContext(doc)); err != nil {
		return "", &RenderError{
			Template: tmpl.Path,
			Message:  "failed to execute template " + filepath.Base(tmpl.Path),
			Cause:    err,
		}
	}
	return buf.String(), nil
}

// RenderFile loads the template at path and renders doc with it
func (r *Renderer) RenderFile(doc *types.ResumeDocument, path string) (string, error) {
	tmpl, err := r.Load(path)
	if err != nil {
		return "", err
	}
	return r.Render(doc, tmpl)
}

// parseTemplate reads and parses a template file
func parseTemplate(path string) (*Template, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &TemplateError{Path: path, Message: "template file not found", Cause: err}
		}
		return nil, &TemplateError{Path: path, Message: "cannot access template file", Cause: err}
	}
	if !info.Mode().IsRegular() {
		return nil, &TemplateError{Path: path, Message: "template path is not a regular file"}
	}

	content, err := os.ReadFile(path) // #nosec G304 -- user-provided template path
	if err != nil {
		return nil, &TemplateError{Path: path, Message: "failed to read template file", Cause: err}
	}

	tmpl, err := template.New(filepath.Base(path)).
		Option("missingkey=error").
		Funcs(templateFuncs()).
		Parse(string(content))
	if err != nil {
		return nil, &TemplateError{Path: path, Message: "failed to parse template", Cause: err}
	}
	return &Template{Path: path, tmpl: tmpl}, nil
}
