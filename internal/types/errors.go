package types

import "errors"

// ErrorKind classifies every failure and advisory condition the pipeline can report
type ErrorKind int

// Error kinds. The first block aborts the task that produced it; the rest are advisory.
const (
	KindUnknown ErrorKind = iota
	KindInputNotFound
	KindMalformedSyntax
	KindSchemaViolation
	KindTemplateLoad
	KindTemplateRender
	KindEmissionWrite
	KindCancelled

	KindEmissionPDF
	KindPDFUnavailable
	KindPDFPageLimit
	KindMarkdownExport
	KindScreenshotTimeout
	KindScreenshotFailed
	KindScreenshotUnavailable
)

var kindNames = map[ErrorKind]string{
	KindUnknown:               "Unknown",
	KindInputNotFound:         "InputNotFound",
	KindMalformedSyntax:       "MalformedSyntax",
	KindSchemaViolation:       "SchemaViolation",
	KindTemplateLoad:          "TemplateLoad",
	KindTemplateRender:        "TemplateRender",
	KindEmissionWrite:         "EmissionWrite",
	KindCancelled:             "Cancelled",
	KindEmissionPDF:           "EmissionPdf",
	KindPDFUnavailable:        "PdfUnavailable",
	KindPDFPageLimit:          "PdfPageLimit",
	KindMarkdownExport:        "MarkdownExport",
	KindScreenshotTimeout:     "ScreenshotTimeout",
	KindScreenshotFailed:      "ScreenshotFailed",
	KindScreenshotUnavailable: "ScreenshotUnavailable",
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[KindUnknown]
}

// Fatal reports whether an error of this kind aborts the task it occurred in.
// Unknown errors are treated as fatal.
func (k ErrorKind) Fatal() bool {
	return k < KindEmissionPDF
}

// Kinded is implemented by every error type that carries an ErrorKind
type Kinded interface {
	error
	Kind() ErrorKind
}

// KindOf returns the kind of the first Kinded error in err's chain,
// or KindUnknown when there is none.
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}
	var k Kinded
	if errors.As(err, &k) {
		return k.Kind()
	}
	return KindUnknown
}

// Warning is a non-fatal condition attached to a successful result
type Warning struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
}

func (w Warning) String() string {
	return w.Kind.String() + ": " + w.Message
}
