package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/picgrab/internal/config"
	"github.com/nao1215/picgrab/internal/crawler"
	"github.com/nao1215/picgrab/internal/database"
	"github.com/nao1215/picgrab/internal/download"
	"github.com/nao1215/picgrab/internal/fetch"
	"github.com/nao1215/picgrab/internal/model"
	"github.com/nao1215/picgrab/internal/report"
	"github.com/nao1215/picgrab/internal/state"
)

// NewGrabCmd creates the grab command.
func NewGrabCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "grab [url...]",
		Short: "Follow links from the given URLs and download matching files",
		Long: `Grab walks the link tree starting at the given URLs.

Every link found on a page is resolved against the page URL and handled
once per run. Links matching a follow pattern (and no no-follow pattern)
are visited later, links matching a download pattern are saved into the
target directory unless a file with the same name already exists.

Press Ctrl+C to stop. With --frontier-file and --visited-file the
remaining work is saved and the next run resumes from it.

Examples:
  # Download every .jpg reachable from a gallery
  picgrab grab http://example.com/gallery/

  # Download PNG files as well, keep state between runs
  picgrab grab -d '.*\.jpg' -d '.*\.png' \
    --frontier-file frontier.json --visited-file visited.json \
    http://example.com/

  # Read everything from a configuration file
  picgrab grab -c picgrab.yaml`,
		Args: cobra.ArbitraryArgs,
		RunE: runGrabCmd,
	}

	addConfigFlags(cmd)
	cmd.Flags().BoolP("json", "j", false, "Output the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false, "Output the run summary as Markdown (mutually exclusive with --json)")

	return cmd
}

// runGrabCmd executes the grab command.
func runGrabCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if len(cfg.URLs) == 0 {
		_ = cmd.Usage() //nolint:errcheck // usage output is best effort
		return config.ErrNoURL
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	format, err := reportFormat(cmd)
	if err != nil {
		return err
	}

	logger, err := setupLogger(cmd, cmd.ErrOrStderr(), cfg)
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if err := cfg.Normalize(); err != nil {
		return err
	}

	// The crawler only observes cancellation between URLs and saves its
	// state, so an interrupt ends the command successfully.
	ctx, stop := interruptContext(cmd.Context())
	defer stop()

	runReport, err := runGrab(ctx, cfg, logger)
	if err != nil {
		return err
	}
	return outputRun(cmd.OutOrStdout(), format, runReport)
}

// runGrab wires the components for cfg and runs one crawl.
func runGrab(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*model.RunReport, error) {
	matcher, err := buildMatcher(cfg)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}

	fetchOpts := []fetch.Option{
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithTimeout(cfg.Timeout),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	}
	if cfg.Proxy != "" {
		fetchOpts = append(fetchOpts, fetch.WithProxy(cfg.Proxy))
	}
	client, err := fetch.New(fetchOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP client: %w", err)
	}

	manager := download.NewManager(client, cfg.Target,
		download.WithIgnoreDuplicatesIn(cfg.IgnoreDuplicatesIn),
		download.WithLogger(logger),
	)

	crawlOpts := []crawler.Option{
		crawler.WithLogger(logger),
		crawler.WithAllowCrossOrigin(cfg.AllowCrossOrigin),
		crawler.WithSaveEvery(cfg.SaveFrequency),
		crawler.WithStore(state.NewStore(cfg.VisitedFile, cfg.FrontierFile, state.WithStoreLogger(logger))),
	}

	if cfg.History {
		db, err := database.Open(cfg.HistoryDir, database.DefaultOptions())
		if err != nil {
			logger.Warn("history disabled for this run", "dir", cfg.HistoryDir, "error", err)
		} else {
			defer db.Close()
			logger.Debug("history database opened", "path", db.Path())
			crawlOpts = append(crawlOpts, crawler.WithRecorder(db))
		}
	}

	c := crawler.New(client, matcher, manager, crawlOpts...)
	runReport := c.Run(ctx, cfg.URLs)

	if errors.Is(ctx.Err(), context.Canceled) {
		logger.Info("stopped, state saved", "queued", runReport.FrontierRemaining)
	}
	return runReport, nil
}

// interruptContext returns a context cancelled by the first SIGINT or
// SIGTERM. Once it is done the default signal behavior is restored, so a
// second interrupt ends the process even while a fetch is blocked.
func interruptContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	releaseOnDone(ctx, stop)
	return ctx, stop
}

// releaseOnDone calls release once ctx is done.
func releaseOnDone(ctx context.Context, release func()) {
	go func() {
		<-ctx.Done()
		release()
	}()
}

// outputRun writes the run summary in the requested format.
func outputRun(w io.Writer, format string, runReport *model.RunReport) error {
	writer, err := report.New(format, w)
	if err != nil {
		return err
	}
	_, err = writer.WriteRun(runReport)
	return err
}
