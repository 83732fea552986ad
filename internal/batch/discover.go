package batch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jonathan/cvbuilder/internal/schemas"
)

// Sentinel errors for discovery
var (
	ErrNoTemplates     = errors.New("no templates found")
	ErrNoDataSources   = errors.New("no data sources found")
	ErrInvalidDataFile = errors.New("invalid data file")
)

var templateExtensions = map[string]bool{".html": true, ".htm": true}

// DiscoverTemplates returns every template file directly inside dir, sorted
func DiscoverTemplates(dir string) ([]string, error) {
	files, err := listFiles(dir, func(name string) bool {
		return templateExtensions[strings.ToLower(filepath.Ext(name))]
	})
	if err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrNoTemplates, dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoTemplates, dir)
	}
	return files, nil
}

// DiscoverData returns the data sources for a run. When explicit is set it
// must name an existing regular file with a data extension and is the only
// source; otherwise every data file directly inside dir is used.
func DiscoverData(dir, explicit string) ([]string, error) {
	if explicit != "" {
		if err := checkDataFile(explicit); err != nil {
			return nil, err
		}
		return []string{explicit}, nil
	}

	files, err := listFiles(dir, func(name string) bool {
		return schemas.FormatFor(name) != ""
	})
	if err != nil {
		return nil, fmt.Errorf("%w in %s: %v", ErrNoDataSources, dir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoDataSources, dir)
	}
	return files, nil
}

func checkDataFile(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s does not exist", ErrInvalidDataFile, path)
		}
		return fmt.Errorf("%w: %s: %v", ErrInvalidDataFile, path, err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("%w: %s is not a regular file", ErrInvalidDataFile, path)
	}
	if schemas.FormatFor(path) == "" {
		return fmt.Errorf("%w: %s must have a .json, .yaml, or .yml extension", ErrInvalidDataFile, path)
	}
	return nil
}

// listFiles returns the sorted regular files in dir accepted by keep.
// Subdirectories such as the output directory are not descended into.
func listFiles(dir string, keep func(name string) bool) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, e := range entries {
		if !e.Type().IsRegular() || !keep(e.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}
