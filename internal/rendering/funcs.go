package rendering

import (
	"bytes"
	"html/template"
	"regexp"
	"strings"

	"github.com/yuin/goldmark"
)

var yearPattern = regexp.MustCompile(`\b(\d{4})\b`)

// markdownEngine leaves raw HTML disabled, so embedded tags are omitted
var markdownEngine = goldmark.New()

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"markdown": markdownToHTML,
		"join":     join,
		"lower":    strings.ToLower,
		"upper":    strings.ToUpper,
		"year":     year,
	}
}

// markdownToHTML converts inline Markdown to HTML. A single wrapping
// paragraph is removed so the result can sit inside a list item.
func markdownToHTML(src string) template.HTML {
	var buf bytes.Buffer
	if err := markdownEngine.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src)) // #nosec G203 -- escaped above
	}
	out := strings.TrimSpace(buf.String())
	if strings.HasPrefix(out, "<p>") && strings.HasSuffix(out, "</p>") && strings.Count(out, "<p>") == 1 {
		out = strings.TrimSuffix(strings.TrimPrefix(out, "<p>"), "</p>")
	}
	return template.HTML(out) // #nosec G203 -- goldmark output with raw HTML disabled
}

func join(sep string, items []string) string {
	return strings.Join(items, sep)
}

// year returns the last four-digit year in a period such as "2020-2022",
// or "" when there is none.
func year(period string) string {
	matches := yearPattern.FindAllString(period, -1)
	if len(matches) == 0 {
		return ""
	}
	return matches[len(matches)-1]
}
