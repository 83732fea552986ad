package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/jonathan/cvbuilder/internal/config"
)

// getBinaryPath returns the path to the cvbuilder binary for testing
func getBinaryPath(t *testing.T) string {
	binaryName := "cvbuilder"
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", binaryName)
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/cvbuilder ./cmd/cvbuilder'", binaryPath)
	}

	return binaryPath
}

// testConfig returns defaults with every optional tool disabled
func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.Defaults()
	cfg.PDFBackend = "none"
	cfg.ScreenshotBin = "cvbuilder-test-missing-browser"
	cfg.DatabaseURL = ""
	return &cfg
}
