// Package observability provides logging setup and formatted output for the CLI.
package observability

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/cvbuilder/internal/batch"
	"github.com/jonathan/cvbuilder/internal/db"
	"github.com/jonathan/cvbuilder/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for the CLI
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// Printf writes a plain progress line
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) Printf(format string, args ...any) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// truncate shortens a line to fit inside a box
func truncate(line string) string {
	runes := []rune(line)
	if len(runes) > boxWidth-4 {
		return string(runes[:boxWidth-7]) + "..."
	}
	return line
}

// PrintResult outputs the artifacts and warnings of a single generation
func (p *Printer) PrintResult(result *types.GenerationResult) {
	if result == nil {
		return
	}

	var sb strings.Builder
	if result.Title != "" {
		sb.WriteString(fmt.Sprintf("Title:      %s\n", result.Title))
	}
	sb.WriteString(fmt.Sprintf("Sections:   %d\n", result.Sections))
	sb.WriteString(fmt.Sprintf("HTML:       %s\n", result.HTMLPath))
	if result.PDFPath != "" {
		sb.WriteString(fmt.Sprintf("PDF:        %s", result.PDFPath))
		if result.PDFPages > 0 {
			sb.WriteString(fmt.Sprintf(" (%d pages)", result.PDFPages))
		}
		sb.WriteString("\n")
	}
	if result.MarkdownPath != "" {
		sb.WriteString(fmt.Sprintf("Markdown:   %s\n", result.MarkdownPath))
	}
	if result.ScreenshotPath != "" {
		sb.WriteString(fmt.Sprintf("Screenshot: %s\n", result.ScreenshotPath))
	}

	if len(result.Warnings) > 0 {
		sb.WriteString("\nWarnings:\n")
		for _, w := range result.Warnings {
			sb.WriteString(fmt.Sprintf("  ⚠ %s\n", w.String()))
		}
	}

	p.printBox("RESUME GENERATED", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintPlan outputs what a batch run is about to do
func (p *Printer) PrintPlan(plan *batch.Plan, outputDir string) {
	if plan == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Templates:    %d\n", len(plan.Templates)))
	writeNames(&sb, plan.Templates)
	sb.WriteString(fmt.Sprintf("Data files:   %d\n", len(plan.DataFiles)))
	writeNames(&sb, plan.DataFiles)
	sb.WriteString(fmt.Sprintf("Combinations: %d\n", len(plan.Tasks)))
	sb.WriteString(fmt.Sprintf("Output:       %s", outputDir))

	p.printBox("BATCH PLAN", sb.String())
}

func writeNames(sb *strings.Builder, paths []string) {
	count := min(len(paths), maxItemsToShow)
	for i := 0; i < count; i++ {
		sb.WriteString(fmt.Sprintf("  • %s\n", filepath.Base(paths[i])))
	}
	if len(paths) > maxItemsToShow {
		sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(paths)-maxItemsToShow))
	}
}

// PrintOutcome outputs a one-line status for a finished batch task
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintOutcome(o batch.TaskOutcome) {
	switch {
	case o.Succeeded():
		fmt.Fprintf(p.out, "  ✓ %s (%v)\n", o.Task.Name(), o.Duration.Round(time.Millisecond))
		for _, w := range o.Result.Warnings {
			fmt.Fprintf(p.out, "    ⚠ %s\n", w.String())
		}
	case o.Kind == types.KindCancelled:
		fmt.Fprintf(p.out, "  - %s: cancelled\n", o.Task.Name())
	default:
		fmt.Fprintf(p.out, "  ✗ %s: [%s] %v\n", o.Task.Name(), o.Kind, o.Err)
	}
}

// PrintBatchSummary outputs the tallies of a finished batch run
func (p *Printer) PrintBatchSummary(report *batch.Report) {
	if report == nil {
		return
	}
	s := report.Summary()

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:        %s\n", report.RunID))
	sb.WriteString(fmt.Sprintf("Attempted:  %d\n", s.Attempted))
	sb.WriteString(fmt.Sprintf("Succeeded:  %d\n", s.Succeeded))
	sb.WriteString(fmt.Sprintf("Failed:     %d\n", s.Failed))
	if s.Cancelled > 0 {
		sb.WriteString(fmt.Sprintf("Cancelled:  %d\n", s.Cancelled))
	}
	sb.WriteString(fmt.Sprintf("Warnings:   %d\n", s.Warnings))
	sb.WriteString(fmt.Sprintf("Duration:   %v\n", report.Duration.Round(time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Output:     %s", report.OutputDir))

	failures := report.Failures()
	if len(failures) > 0 {
		sb.WriteString("\n\nFailures:\n")
		count := min(len(failures), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  ✗ %s [%s]\n", failures[i].Task.Name(), failures[i].Kind))
		}
		if len(failures) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(failures)-maxItemsToShow))
		}
	}

	p.printBox("BATCH SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// Capability is one optional tool reported by the doctor command
type Capability struct {
	Name      string
	Available bool
	Detail    string
}

// PrintCapabilities outputs the availability of optional tools
func (p *Printer) PrintCapabilities(caps []Capability) {
	var sb strings.Builder
	for _, c := range caps {
		mark := "✗"
		if c.Available {
			mark = "✓"
		}
		sb.WriteString(fmt.Sprintf("%s %-12s %s\n", mark, c.Name, c.Detail))
	}
	p.printBox("CAPABILITIES", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRuns outputs recent batch runs from the ledger
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintRuns(runs []db.Run) {
	if len(runs) == 0 {
		fmt.Fprintln(p.out, "No runs recorded.")
		return
	}

	var sb strings.Builder
	for i, r := range runs {
		sb.WriteString(fmt.Sprintf("%s  %s\n", r.StartedAt.Local().Format("2006-01-02 15:04"), r.ID))
		sb.WriteString(fmt.Sprintf("    %s: %d ok, %d failed", r.Status, r.Succeeded, r.Failed))
		if r.Cancelled > 0 {
			sb.WriteString(fmt.Sprintf(", %d cancelled", r.Cancelled))
		}
		sb.WriteString(fmt.Sprintf(" of %d\n", r.TaskCount))
		if i < len(runs)-1 {
			sb.WriteString("\n")
		}
	}
	p.printBox("RECENT RUNS", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunDetail outputs one ledger run with the outcome of each pairing
func (p *Printer) PrintRunDetail(run *db.Run, tasks []db.TaskRecord) {
	if run == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Run:       %s\n", run.ID))
	sb.WriteString(fmt.Sprintf("Status:    %s\n", run.Status))
	sb.WriteString(fmt.Sprintf("Started:   %s\n", run.StartedAt.Local().Format("2006-01-02 15:04:05")))
	if run.DurationMs != nil {
		sb.WriteString(fmt.Sprintf("Duration:  %v\n", time.Duration(*run.DurationMs)*time.Millisecond))
	}
	sb.WriteString(fmt.Sprintf("Output:    %s\n", run.OutputDir))

	if len(tasks) > 0 {
		sb.WriteString("\nPairings:\n")
	}
	for _, t := range tasks {
		name := strings.TrimSuffix(filepath.Base(t.DataPath), filepath.Ext(t.DataPath)) + " × " + filepath.Base(t.TemplatePath)
		switch t.Status {
		case db.StatusSucceeded:
			sb.WriteString(fmt.Sprintf("  ✓ %s\n", name))
		case db.StatusCancelled:
			sb.WriteString(fmt.Sprintf("  - %s (cancelled)\n", name))
		default:
			kind := "Unknown"
			if t.ErrorKind != nil {
				kind = *t.ErrorKind
			}
			sb.WriteString(fmt.Sprintf("  ✗ %s [%s]\n", name, kind))
		}
		for _, w := range t.Warnings {
			sb.WriteString(fmt.Sprintf("    ⚠ %s\n", w))
		}
	}

	p.printBox("RUN DETAIL", strings.TrimSuffix(sb.String(), "\n"))
}
