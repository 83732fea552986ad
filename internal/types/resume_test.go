package types

import (
	"encoding/json"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResumeDocument_SortedSections(t *testing.T) {
	doc := &ResumeDocument{
		Name: "Jane Doe",
		Sections: []Section{
			{ID: "02-exp", Label: "Experience"},
			{ID: "01-edu", Label: "Education"},
			{ID: "10-skills", Label: "Skills"},
		},
	}

	sorted := doc.SortedSections()
	require.Len(t, sorted, 3)
	assert.Equal(t, "01-edu", sorted[0].ID)
	assert.Equal(t, "02-exp", sorted[1].ID)
	assert.Equal(t, "10-skills", sorted[2].ID)

	// The original order is untouched
	assert.Equal(t, "02-exp", doc.Sections[0].ID)
	assert.Equal(t, "01-edu", doc.Sections[1].ID)
}

func TestResumeDocument_SortedSections_LexicographicNotNumeric(t *testing.T) {
	doc := &ResumeDocument{Sections: []Section{{ID: "2"}, {ID: "10"}, {ID: "1"}}}

	sorted := doc.SortedSections()
	ids := []string{sorted[0].ID, sorted[1].ID, sorted[2].ID}
	assert.Equal(t, []string{"1", "10", "2"}, ids)
}

func TestResumeDocument_SortedSections_StableForEqualIDs(t *testing.T) {
	doc := &ResumeDocument{Sections: []Section{
		{ID: "a", Label: "first"},
		{ID: "a", Label: "second"},
	}}

	sorted := doc.SortedSections()
	assert.Equal(t, "first", sorted[0].Label)
	assert.Equal(t, "second", sorted[1].Label)
}

func TestResumeDocument_SortedSections_Empty(t *testing.T) {
	var doc *ResumeDocument
	assert.Empty(t, doc.SortedSections())
	assert.NotNil(t, (&ResumeDocument{}).SortedSections())
}

func TestResumeDocument_JSONFieldNames(t *testing.T) {
	raw := `{"name":"Jane","contactInfo":[{"kind":"email","info":"jane@x.com"}],"sections":[{"id":"01","label":"Education","content":[{"name":"State U","bullets":["Honors"]}]}]}`

	var doc ResumeDocument
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	assert.Equal(t, "Jane", doc.Name)
	require.Len(t, doc.ContactInfo, 1)
	assert.True(t, doc.ContactInfo[0].IsEmail())
	assert.False(t, doc.ContactInfo[0].IsLink())
	assert.Equal(t, []string{"Honors"}, doc.Sections[0].Content[0].Bullets)
}

func TestContactKind_Valid(t *testing.T) {
	assert.True(t, ContactText.Valid())
	assert.True(t, ContactEmail.Valid())
	assert.True(t, ContactLink.Valid())
	assert.False(t, ContactKind("phone").Valid())
}

type kindedErr struct{ kind ErrorKind }

func (e *kindedErr) Error() string    { return "kinded" }
func (e *kindedErr) Kind() ErrorKind { return e.kind }

func TestKindOf(t *testing.T) {
	wrapped := fmt.Errorf("outer: %w", &kindedErr{kind: KindTemplateLoad})

	assert.Equal(t, KindTemplateLoad, KindOf(wrapped))
	assert.Equal(t, KindUnknown, KindOf(errors.New("plain")))
	assert.Equal(t, KindUnknown, KindOf(nil))
}

func TestErrorKind_Fatal(t *testing.T) {
	fatal := []ErrorKind{KindUnknown, KindInputNotFound, KindMalformedSyntax, KindSchemaViolation,
		KindTemplateLoad, KindTemplateRender, KindEmissionWrite, KindCancelled}
	for _, k := range fatal {
		assert.True(t, k.Fatal(), k.String())
	}

	advisory := []ErrorKind{KindEmissionPDF, KindPDFUnavailable, KindPDFPageLimit, KindMarkdownExport,
		KindScreenshotTimeout, KindScreenshotFailed, KindScreenshotUnavailable}
	for _, k := range advisory {
		assert.False(t, k.Fatal(), k.String())
	}
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "SchemaViolation", KindSchemaViolation.String())
	assert.Equal(t, "EmissionPdf", KindEmissionPDF.String())
	assert.Equal(t, "Unknown", ErrorKind(999).String())
}

func TestGenerationResult_Warnings(t *testing.T) {
	res := &GenerationResult{HTMLPath: "/tmp/a_resume.html"}
	assert.False(t, res.HasWarning(KindPDFUnavailable))

	res.Warn(KindPDFUnavailable, "no backend")
	assert.True(t, res.HasWarning(KindPDFUnavailable))
	assert.Equal(t, "PdfUnavailable: no backend", res.Warnings[0].String())

	var nilRes *GenerationResult
	assert.False(t, nilRes.HasWarning(KindPDFUnavailable))
}
