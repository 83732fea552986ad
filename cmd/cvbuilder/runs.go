package main

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/google/uuid"
	"github.com/jonathan/cvbuilder/internal/config"
	"github.com/jonathan/cvbuilder/internal/db"
	"github.com/jonathan/cvbuilder/internal/observability"
	"github.com/spf13/cobra"
)

var runsCmd = &cobra.Command{
	Use:   "runs [run-id]",
	Short: "List recorded batch runs",
	Long:  "Lists recent batch runs from the run ledger. With a run ID, shows the outcome of every pairing in that run.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runRunsCmd,
}

var runsLimit int

func init() {
	runsCmd.Flags().IntVar(&runsLimit, "limit", 20, "Maximum number of runs to list")

	rootCmd.AddCommand(runsCmd)
}

func runRunsCmd(cmd *cobra.Command, args []string) error {
	var runID string
	if len(args) == 1 {
		runID = args[0]
	}
	return runRuns(cmd.Context(), cmd.OutOrStdout(), settings, runID, runsLimit)
}

// runRuns prints recent runs, or the tasks of one run when runID is set
func runRuns(ctx context.Context, out io.Writer, cfg *config.Config, runID string, limit int) error {
	var id uuid.UUID
	if runID != "" {
		var err error
		id, err = uuid.Parse(runID)
		if err != nil {
			return fmt.Errorf("invalid run-id: %w", err)
		}
	}
	if cfg.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL required to read the run ledger")
	}

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	printer := observability.NewPrinter(out)
	if runID == "" {
		runs, err := database.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		printer.PrintRuns(runs)
		return nil
	}

	run, err := database.GetRun(ctx, id)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %s not found", id)
	}
	tasks, err := database.ListTasks(ctx, id)
	if err != nil {
		return err
	}
	printer.PrintRunDetail(run, tasks)
	return nil
}

// redactURL hides the password of a database URL
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return "invalid url"
	}
	return u.Redacted()
}
