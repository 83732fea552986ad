// Package config provides configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DefaultFile is loaded from the working directory when present
const DefaultFile = "cvbuilder.json"

// Config represents the CLI configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Batch layout
	TemplateDir string `json:"template_dir,omitempty"` // Directory scanned for templates
	SampleDir   string `json:"sample_dir,omitempty"`   // Directory scanned for data sources
	OutputDir   string `json:"output_dir,omitempty"`   // Batch output directory

	// PDF output
	PDFBackend string   `json:"pdf_backend,omitempty" validate:"omitempty,oneof=auto chromedp rod none"`
	ChromePath string   `json:"chrome_path,omitempty"` // Browser used for PDF output
	PDFTimeout Duration `json:"pdf_timeout,omitempty" validate:"gte=0"`
	MaxPages   int      `json:"max_pages,omitempty" validate:"gte=0"` // Warn when a PDF is longer

	// Screenshots
	ScreenshotBin     string   `json:"screenshot_bin,omitempty"`
	ScreenshotTimeout Duration `json:"screenshot_timeout,omitempty" validate:"gte=0"`
	ProbeTimeout      Duration `json:"probe_timeout,omitempty" validate:"gte=0"`
	ViewportWidth     int      `json:"viewport_width,omitempty" validate:"gte=0,lte=10000"`
	ViewportHeight    int      `json:"viewport_height,omitempty" validate:"gte=0,lte=10000"`

	// Behavior
	MarkdownExport bool   `json:"markdown_export,omitempty"` // Also write <name>.md
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL URL for the run ledger
	LogLevel       string `json:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`
	Verbose        bool   `json:"verbose,omitempty"` // Print detailed debug information
}

// Defaults returns the built-in configuration
func Defaults() Config {
	return Config{
		TemplateDir:       "template",
		SampleDir:         "sample",
		OutputDir:         filepath.Join("sample", "output"),
		PDFBackend:        "auto",
		PDFTimeout:        Duration(60 * time.Second),
		ScreenshotTimeout: Duration(30 * time.Second),
		ProbeTimeout:      Duration(5 * time.Second),
		ViewportWidth:     1200,
		ViewportHeight:    1600,
		LogLevel:          "info",
	}
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path) // #nosec G304 -- user-provided config path
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Resolve loads the config file at path, or DefaultFile when path is empty
// and that file exists, then applies environment overrides and defaults.
func Resolve(path string, getenv func(string) string) (*Config, error) {
	cfg := &Config{}
	switch {
	case path != "":
		loaded, err := LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	default:
		if _, err := os.Stat(DefaultFile); err == nil {
			loaded, err := LoadConfig(DefaultFile)
			if err != nil {
				return nil, err
			}
			cfg = loaded
		}
	}

	if err := cfg.ApplyEnv(getenv); err != nil {
		return nil, err
	}
	merged := cfg.MergeWithDefaults(Defaults())
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return &merged, nil
}

// ApplyEnv overrides fields from CVBUILDER_* environment variables, plus
// DATABASE_URL and CHROME_PATH.
func (c *Config) ApplyEnv(getenv func(string) string) error {
	if getenv == nil {
		getenv = os.Getenv
	}

	strs := []struct {
		key string
		dst *string
	}{
		{"CVBUILDER_TEMPLATE_DIR", &c.TemplateDir},
		{"CVBUILDER_SAMPLE_DIR", &c.SampleDir},
		{"CVBUILDER_OUTPUT_DIR", &c.OutputDir},
		{"CVBUILDER_PDF_BACKEND", &c.PDFBackend},
		{"CHROME_PATH", &c.ChromePath},
		{"CVBUILDER_CHROME_PATH", &c.ChromePath},
		{"CVBUILDER_SCREENSHOT_BIN", &c.ScreenshotBin},
		{"DATABASE_URL", &c.DatabaseURL},
		{"CVBUILDER_DATABASE_URL", &c.DatabaseURL},
		{"CVBUILDER_LOG_LEVEL", &c.LogLevel},
	}
	for _, s := range strs {
		if v := strings.TrimSpace(getenv(s.key)); v != "" {
			*s.dst = v
		}
	}

	if v := getenv("CVBUILDER_MAX_PAGES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config error: CVBUILDER_MAX_PAGES: %w", err)
		}
		c.MaxPages = n
	}
	if v := getenv("CVBUILDER_MARKDOWN"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config error: CVBUILDER_MARKDOWN: %w", err)
		}
		c.MarkdownExport = b
	}
	if v := getenv("CVBUILDER_PDF_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("config error: CVBUILDER_PDF_TIMEOUT: %w", err)
		}
		c.PDFTimeout = Duration(d)
	}
	return nil
}

// Validate checks that the configuration has valid values.
// Note: This doesn't check for required fields since those are handled
// by CLI flag validation after merging.
func (c *Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config error: '%s' fails %q (got %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config error: %w", err)
	}

	if c.TemplateDir != "" && c.OutputDir != "" && filepath.Clean(c.TemplateDir) == filepath.Clean(c.OutputDir) {
		return fmt.Errorf("config error: 'output_dir' must differ from 'template_dir'")
	}
	return nil
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	mergeString(&result.TemplateDir, defaults.TemplateDir)
	mergeString(&result.SampleDir, defaults.SampleDir)
	mergeString(&result.OutputDir, defaults.OutputDir)
	mergeString(&result.PDFBackend, defaults.PDFBackend)
	mergeString(&result.ChromePath, defaults.ChromePath)
	mergeString(&result.ScreenshotBin, defaults.ScreenshotBin)
	mergeString(&result.DatabaseURL, defaults.DatabaseURL)
	mergeString(&result.LogLevel, defaults.LogLevel)

	// Numeric fields: use default if zero
	if result.PDFTimeout == 0 {
		result.PDFTimeout = defaults.PDFTimeout
	}
	if result.ScreenshotTimeout == 0 {
		result.ScreenshotTimeout = defaults.ScreenshotTimeout
	}
	if result.ProbeTimeout == 0 {
		result.ProbeTimeout = defaults.ProbeTimeout
	}
	if result.MaxPages == 0 {
		result.MaxPages = defaults.MaxPages
	}
	if result.ViewportWidth == 0 {
		result.ViewportWidth = defaults.ViewportWidth
	}
	if result.ViewportHeight == 0 {
		result.ViewportHeight = defaults.ViewportHeight
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}

func mergeString(dst *string, def string) {
	if *dst == "" {
		*dst = def
	}
}
