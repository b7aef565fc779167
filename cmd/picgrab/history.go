package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/nao1215/picgrab/internal/config"
	"github.com/nao1215/picgrab/internal/database"
	"github.com/nao1215/picgrab/internal/report"
)

// defaultHistoryLimit is the number of runs listed by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded runs and downloads",
		Long: `History lists the runs recorded in the history database, newest first.

With --run the download attempts of a single run are shown instead.

Examples:
  # List the last 20 runs
  picgrab history

  # Show what run 3 downloaded, as Markdown
  picgrab history --run 3 --markdown`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64("run", 0, "Show the downloads of this run")
	cmd.Flags().Int("limit", defaultHistoryLimit, "Maximum number of runs to list (0 lists all)")
	cmd.Flags().String("history-dir", config.XDGDataDir(), "Directory holding the history database")
	cmd.Flags().BoolP("json", "j", false, "Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output Markdown (mutually exclusive with --json)")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	runID, err := cmd.Flags().GetInt64("run")
	if err != nil {
		return err
	}
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("history-dir")
	if err != nil {
		return err
	}
	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}

	if _, err := os.Stat(filepath.Join(dbDir, database.FileName)); os.IsNotExist(err) {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded yet.")
		return nil
	}

	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("failed to open history database: %w", err)
	}
	defer db.Close()

	writer, err := report.New(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if runID == 0 {
		runs, err := db.ListRuns(ctx, limit)
		if err != nil {
			return err
		}
		_, err = writer.WriteHistory(runs)
		return err
	}

	run, err := db.GetRun(ctx, runID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run %d not found", runID)
	}
	records, err := db.ListDownloads(ctx, runID)
	if err != nil {
		return err
	}
	_, err = writer.WriteDownloads(run, records)
	return err
}
