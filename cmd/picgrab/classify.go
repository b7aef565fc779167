package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nao1215/picgrab/internal/config"
	"github.com/nao1215/picgrab/internal/database"
	"github.com/nao1215/picgrab/internal/download"
	"github.com/nao1215/picgrab/internal/policy"
)

// NewClassifyCmd creates the classify command.
func NewClassifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [url...]",
		Short: "Show how URLs would be handled without fetching anything",
		Long: `Classify evaluates URLs against the effective follow, no-follow and
download patterns and prints the decision for each one.

For download candidates the derived file name is shown, together with
whether a previous run already wrote a file with that name.

Examples:
  picgrab classify http://example.com/a.html http://example.com/b.jpg
  picgrab classify -c picgrab.yaml http://example.com/private/`,
		Args: cobra.ArbitraryArgs,
		RunE: runClassifyCmd,
	}

	addConfigFlags(cmd)
	return cmd
}

// runClassifyCmd executes the classify command.
func runClassifyCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(cfg.URLs) == 0 {
		return config.ErrNoURL
	}
	matcher, err := buildMatcher(cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// The history is consulted only when it already exists.
	var db *database.HistoryDB
	if cfg.History {
		opened, err := database.Open(cfg.HistoryDir, database.Options{CreateIfNotExists: false})
		if err == nil {
			db = opened
			defer db.Close()
		}
	}

	for _, u := range cfg.URLs {
		writeClassification(cmd.Context(), cmd.OutOrStdout(), db, u, matcher.Classify(u))
	}
	return nil
}

// writeClassification prints the decision for one URL.
func writeClassification(ctx context.Context, w io.Writer, db *database.HistoryDB, u string, c policy.Classification) {
	fmt.Fprintln(w, u)
	fmt.Fprintf(w, "  follow:   %s\n", decision(c.MayFollow, c.Rule))
	fmt.Fprintf(w, "  download: %s\n", decision(c.ShouldDownload, c.DownloadRule))

	if !c.ShouldDownload {
		return
	}
	name, err := download.Filename(u)
	if err != nil {
		fmt.Fprintf(w, "  filename: %v\n", err)
		return
	}
	fmt.Fprintf(w, "  filename: %s\n", name)

	if db == nil {
		return
	}
	written, err := db.HasWritten(ctx, name)
	if err != nil {
		fmt.Fprintf(w, "  history:  %v\n", err)
		return
	}
	if written {
		fmt.Fprintln(w, "  history:  already written by a previous run")
	}
}

// decision formats a yes/no answer with the deciding rule.
func decision(ok bool, rule *policy.Rule) string {
	answer := "no"
	if ok {
		answer = "yes"
	}
	if rule == nil {
		return answer
	}
	return fmt.Sprintf("%s (%s %s)", answer, rule.Kind, rule.Pattern)
}
