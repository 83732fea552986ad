// Package types provides type definitions for structured data used throughout the cvbuilder system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "sort"

// ContactKind is the closed set of contact entry kinds
type ContactKind string

// Contact kinds accepted by the résumé schema
const (
	ContactText  ContactKind = "text"
	ContactEmail ContactKind = "email"
	ContactLink  ContactKind = "link"
)

// Valid reports whether k is one of the declared contact kinds
func (k ContactKind) Valid() bool {
	switch k {
	case ContactText, ContactEmail, ContactLink:
		return true
	}
	return false
}

// ResumeDocument is the validated structured representation of a résumé.
// It is owned by the pipeline invocation that decoded it and is never
// mutated after validation.
type ResumeDocument struct {
	Name        string         `json:"name"`
	Summary     string         `json:"summary,omitempty"`
	ContactInfo []ContactEntry `json:"contactInfo"`
	Sections    []Section      `json:"sections"`
}

// ContactEntry is one line of contact information
type ContactEntry struct {
	Kind ContactKind `json:"kind"`
	Info string      `json:"info"`
}

// IsEmail reports whether the entry is an e-mail address
func (c ContactEntry) IsEmail() bool { return c.Kind == ContactEmail }

// IsLink reports whether the entry is a hyperlink
func (c ContactEntry) IsLink() bool { return c.Kind == ContactLink }

// IsText reports whether the entry is plain text
func (c ContactEntry) IsText() bool { return c.Kind == ContactText }

// Section is a labeled, ordered group of content items
type Section struct {
	ID      string        `json:"id"`
	Label   string        `json:"label"`
	Content []ContentItem `json:"content"`
}

// ContentItem is one entry within a section (a job, a degree, ...)
type ContentItem struct {
	Name    string   `json:"name"`
	Period  string   `json:"period,omitempty"`
	Title   string   `json:"title,omitempty"`
	Bullets []string `json:"bullets,omitempty"`
}

// SortedSections returns a new slice holding the sections in ascending
// lexicographic order of ID. Sections sharing an ID keep their input order.
// The document itself is left untouched.
func (d *ResumeDocument) SortedSections() []Section {
	if d == nil || len(d.Sections) == 0 {
		return []Section{}
	}
	sorted := make([]Section, len(d.Sections))
	copy(sorted, d.Sections)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ID < sorted[j].ID
	})
	return sorted
}
