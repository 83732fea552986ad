package types

// GenerationResult lists the artifacts produced for one document.
// HTMLPath is always set on success; every other path is empty when the
// corresponding format was skipped or failed.
type GenerationResult struct {
	HTMLPath       string    `json:"html"`
	PDFPath        string    `json:"pdf,omitempty"`
	PDFPages       int       `json:"pdf_pages,omitempty"`
	MarkdownPath   string    `json:"markdown,omitempty"`
	ScreenshotPath string    `json:"screenshot,omitempty"`
	Title          string    `json:"title,omitempty"`
	Sections       int       `json:"sections"`
	Warnings       []Warning `json:"warnings,omitempty"`
}

// Warn appends a warning to the result
func (r *GenerationResult) Warn(kind ErrorKind, message string) {
	r.Warnings = append(r.Warnings, Warning{Kind: kind, Message: message})
}

// HasWarning reports whether a warning of the given kind was recorded
func (r *GenerationResult) HasWarning(kind ErrorKind) bool {
	if r == nil {
		return false
	}
	for _, w := range r.Warnings {
		if w.Kind == kind {
			return true
		}
	}
	return false
}
