// Package main provides the entry point for the cvbuilder CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/automaxprocs/maxprocs"
)

var rootCmd = &cobra.Command{
	Use:   "cvbuilder",
	Short: "Render résumé data into HTML and PDF documents",
	Long: "cvbuilder validates résumé data (JSON or YAML) against a schema, renders it through HTML " +
		"templates, and writes HTML, PDF, and optional Markdown documents. The samples command renders " +
		"every sample data file with every template.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadSettings,
}

var (
	rootConfigFile string
	rootLogLevel   string
	rootVerbose    bool
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootConfigFile, "config", "c", "", "Path to JSON config file (default: ./cvbuilder.json if present)")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn, or error")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "Print detailed debug information")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	// maxprocs.Set only fails on an invalid GOMAXPROCS env value; runtime defaults apply then
	_, _ = maxprocs.Set(maxprocs.Logger(func(string, ...any) {}))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
