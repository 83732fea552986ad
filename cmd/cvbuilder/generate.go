package main

import (
	"context"
	"fmt"
	"io"

	"github.com/jonathan/cvbuilder/internal/config"
	"github.com/jonathan/cvbuilder/internal/observability"
	"github.com/jonathan/cvbuilder/internal/pipeline"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a résumé from one data file and one template",
	Long: "Validates the data file, renders it with the template, and writes <data>_resume.html " +
		"and, when a browser is available, <data>_resume.pdf to the output directory.",
	RunE: runGenerateCmd,
}

var (
	generateInput    string
	generateTemplate string
	generateOutput   string
)

func init() {
	generateCmd.Flags().StringVarP(&generateInput, "input", "i", "", "Path to résumé data file, JSON or YAML (required)")
	generateCmd.Flags().StringVarP(&generateTemplate, "template", "t", "", "Path to HTML template (required)")
	generateCmd.Flags().StringVarP(&generateOutput, "output", "o", ".", "Output directory")

	if err := generateCmd.MarkFlagRequired("input"); err != nil {
		panic(fmt.Sprintf("failed to mark input flag as required: %v", err))
	}
	if err := generateCmd.MarkFlagRequired("template"); err != nil {
		panic(fmt.Sprintf("failed to mark template flag as required: %v", err))
	}

	rootCmd.AddCommand(generateCmd)
}

func runGenerateCmd(cmd *cobra.Command, _ []string) error {
	ctx, stop := notifyContext(cmd.Context())
	defer stop()

	return runGenerate(ctx, cmd.OutOrStdout(), settings, pipeline.Request{
		DataPath:     generateInput,
		TemplatePath: generateTemplate,
		OutputDir:    generateOutput,
	})
}

// runGenerate produces the documents for one data file and template
func runGenerate(ctx context.Context, out io.Writer, cfg *config.Config, req pipeline.Request) error {
	gen, err := newGenerator(ctx, cfg, logger)
	if err != nil {
		return err
	}

	printer := observability.NewPrinter(out)
	req.OnProgress = progressPrinter(printer)

	result, err := gen.Generate(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to generate resume: %w", err)
	}

	printer.PrintResult(result)
	return nil
}
