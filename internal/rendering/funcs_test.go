package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestYear(t *testing.T) {
	tests := []struct {
		period string
		want   string
	}{
		{"2020-2022", "2022"},
		{"2019", "2019"},
		{"Jan 2018 - Present", "2018"},
		{"ongoing", ""},
		{"", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, year(tt.period), tt.period)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "Go, SQL", join(", ", []string{"Go", "SQL"}))
	assert.Equal(t, "", join(", ", nil))
}

func TestMarkdownToHTML(t *testing.T) {
	assert.Equal(t, "plain", string(markdownToHTML("plain")))
	assert.Equal(t, "<em>x</em>", string(markdownToHTML("*x*")))
	assert.NotContains(t, string(markdownToHTML("<script>x</script>")), "<script>")
}
