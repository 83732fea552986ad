package schemas

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/jonathan/cvbuilder/internal/types"
)

// Source formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Source is a data file read from disk and normalized to JSON bytes
type Source struct {
	Path   string
	Format string
	JSON   []byte
}

// Stem returns the file name without directory and extension
func (s *Source) Stem() string {
	return Stem(s.Path)
}

// Stem returns the base name of path without its extension
func Stem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// FormatFor returns the data format implied by a file extension,
// or "" when the extension is not a recognized data format.
func FormatFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	}
	return ""
}

// LoadSource reads a data file and checks its syntax. YAML files are
// converted to JSON so that validation always runs against JSON bytes.
// Files with an unknown extension are parsed as JSON.
func LoadSource(path string) (*Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &SourceError{Path: path, Message: "data file not found", Cause: err, kind: types.KindInputNotFound}
		}
		return nil, &SourceError{Path: path, Message: "cannot access data file", Cause: err, kind: types.KindInputNotFound}
	}
	if !info.Mode().IsRegular() {
		return nil, &SourceError{Path: path, Message: "path is not a regular file", kind: types.KindInputNotFound}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided path
	if err != nil {
		return nil, &SourceError{Path: path, Message: "failed to read data file", Cause: err, kind: types.KindInputNotFound}
	}

	format := FormatFor(path)
	if format == FormatYAML {
		converted, err := yaml.YAMLToJSON(data)
		if err != nil {
			return nil, &SourceError{Path: path, Message: "invalid YAML format", Cause: err, kind: types.KindMalformedSyntax}
		}
		data = converted
	} else {
		format = FormatJSON
	}

	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, &SourceError{Path: path, Message: "invalid JSON format", Cause: err, kind: types.KindMalformedSyntax}
	}

	return &Source{Path: path, Format: format, JSON: data}, nil
}
