package crawler

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/nao1215/picgrab/internal/download"
	"github.com/nao1215/picgrab/internal/extract"
	"github.com/nao1215/picgrab/internal/fetch"
	"github.com/nao1215/picgrab/internal/model"
	"github.com/nao1215/picgrab/internal/policy"
	"github.com/nao1215/picgrab/internal/state"
)

// Fetcher retrieves a page. *fetch.Client implements it.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*fetch.Response, error)
}

// Classifier decides what to do with a URL. *policy.Matcher implements it.
type Classifier interface {
	Classify(rawURL string) policy.Classification
}

// Downloader saves download-eligible URLs. *download.Manager implements it.
type Downloader interface {
	MaybeDownload(ctx context.Context, rawURL string) (download.Result, error)
}

// Recorder receives the history of a run. *database.HistoryDB implements it.
// Recorder errors are logged and never stop a crawl.
type Recorder interface {
	StartRun(ctx context.Context, report *model.RunReport) error
	RecordDownload(ctx context.Context, rec *model.DownloadRecord) error
	FinishRun(ctx context.Context, report *model.RunReport) error
}

// Crawler runs one crawl. It is not safe for concurrent use and Run must
// be called at most once.
type Crawler struct {
	fetcher    Fetcher
	classifier Classifier
	downloader Downloader
	extractor  *extract.Extractor
	store      *state.Store
	recorder   Recorder
	logger     *slog.Logger

	allowCrossOrigin bool
	saveEvery        int
	backoff          func() time.Duration

	frontier  *state.Frontier
	visited   *state.VisitedSet
	state     State
	report    *model.RunReport
	processed int
}

// New creates a Crawler.
func New(fetcher Fetcher, classifier Classifier, downloader Downloader, opts ...Option) *Crawler {
	c := &Crawler{
		fetcher:    fetcher,
		classifier: classifier,
		downloader: downloader,
		logger:     slog.Default(),
		saveEvery:  100,
		backoff:    randomBackoff,
		frontier:   state.NewFrontier(),
		visited:    state.NewVisitedSet(),
		state:      StateIdle,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.extractor == nil {
		c.extractor = extract.New(extract.WithLogger(c.logger))
	}
	return c
}

// State returns the current lifecycle state.
func (c *Crawler) State() State {
	return c.state
}

// Frontier returns the crawler's frontier.
func (c *Crawler) Frontier() *state.Frontier {
	return c.frontier
}

// Visited returns the crawler's visited set.
func (c *Crawler) Visited() *state.VisitedSet {
	return c.visited
}

// Run crawls until the frontier is empty or ctx is cancelled.
//
// Saved state is loaded first. A non-empty saved frontier is resumed and
// seeds are ignored; otherwise the seeds are queued and marked visited.
// Cancellation is only observed between URLs.
func (c *Crawler) Run(ctx context.Context, seeds []string) *model.RunReport {
	// Work that must finish after an interrupt uses this context.
	bg := context.WithoutCancel(ctx)

	c.report = model.NewRunReport(seeds)
	c.restore(seeds)

	if c.recorder != nil {
		if err := c.recorder.StartRun(bg, c.report); err != nil {
			c.logger.Error("failed to record run start", "error", err)
		}
	}

	c.state = StateRunning
	c.logger.Info("starting link tree traversal", "queued", c.frontier.Len(), "resumed", c.report.Resumed)

	for c.state == StateRunning {
		if ctx.Err() != nil {
			c.logger.Info("interrupted, saving state", "queued", c.frontier.Len())
			c.state = StateSuspended
			break
		}

		u, ok := c.frontier.Pop()
		if !ok {
			c.state = StateDraining
			break
		}

		if c.visit(bg, u) {
			c.processed++
			if c.saveEvery > 0 && c.processed%c.saveEvery == 0 {
				c.save(bg)
			}
		}
	}

	c.save(bg)
	if c.state == StateDraining {
		c.state = StateFinished
	}
	c.finish(bg)
	return c.report
}

// restore loads saved state and seeds the frontier when nothing is queued.
func (c *Crawler) restore(seeds []string) {
	if c.store != nil {
		c.frontier, c.visited = c.store.Load()
	}

	if c.frontier.Len() > 0 {
		c.report.Resumed = true
		c.logger.Info("resuming saved frontier, ignoring seed urls", "queued", c.frontier.Len())
		return
	}
	for _, seed := range seeds {
		c.visited.Add(seed)
		c.frontier.Push(seed)
	}
}

// visit fetches u and processes its links. It reports whether the URL's
// content was scanned.
func (c *Crawler) visit(ctx context.Context, u string) bool {
	c.logger.Debug("visiting", "url", u)

	resp, err := c.fetcher.Get(ctx, u)
	if fetch.IsServiceUnavailable(err) {
		wait := c.backoff()
		c.report.Retries++
		c.logger.Warn("service unavailable, retrying once", "url", u, "backoff", wait)
		time.Sleep(wait)
		resp, err = c.fetcher.Get(ctx, u)
	}
	if err != nil {
		c.report.PagesFailed++
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		c.logger.Error("failed to fetch page, abandoning", "url", u, "status", status, "error", err)
		return false
	}
	c.report.PagesFetched++

	page, err := url.Parse(u)
	if err != nil {
		c.logger.Error("cannot parse page url", "url", u, "error", err)
		return false
	}

	body := extract.Decode(resp.Body, resp.ContentType)
	for candidate := range c.extractor.Links(page, body) {
		c.consider(ctx, page, candidate)
	}
	return true
}

// consider classifies a candidate found on page, once per run.
// Cross-origin candidates are dropped before the visited check, so a URL
// seen first on a foreign page is still handled when its own host links it.
func (c *Crawler) consider(ctx context.Context, page *url.URL, candidate string) {
	if !c.allowCrossOrigin {
		cu, err := url.Parse(candidate)
		if err != nil || !strings.EqualFold(cu.Host, page.Host) {
			c.report.CrossOriginDropped++
			c.logger.Debug("not following to different host", "url", candidate, "page", page.String())
			return
		}
	}

	if !c.visited.Add(candidate) {
		c.logger.Debug("already visited", "url", candidate)
		return
	}
	c.report.LinksConsidered++

	cls := c.classifier.Classify(candidate)
	if cls.MayFollow {
		if c.frontier.Push(candidate) {
			c.report.Enqueued++
			c.logger.Debug("will follow", "url", candidate)
		}
	}
	if cls.ShouldDownload {
		c.download(ctx, candidate)
	}
}

func (c *Crawler) download(ctx context.Context, u string) {
	res, err := c.downloader.MaybeDownload(ctx, u)

	rec := &model.DownloadRecord{
		RunID:       c.report.ID,
		URL:         u,
		Filename:    res.Filename,
		Outcome:     res.Outcome.String(),
		StatusCode:  res.StatusCode,
		Bytes:       res.Bytes,
		CameraModel: res.CameraModel,
		TakenAt:     res.TakenAt,
		Timestamp:   time.Now(),
	}
	if err != nil {
		rec.Error = err.Error()
	}
	c.report.AddDownload(rec)

	if c.recorder != nil {
		if err := c.recorder.RecordDownload(ctx, rec); err != nil {
			c.logger.Error("failed to record download", "url", u, "error", err)
		}
	}
}

// save writes a snapshot. Failures are logged only.
func (c *Crawler) save(ctx context.Context) {
	if c.store == nil || !c.store.Enabled() {
		return
	}
	if err := c.store.Save(ctx, c.frontier, c.visited); err != nil {
		c.logger.Error("failed to save state", "error", err)
		return
	}
	c.report.Snapshots++
	c.logger.Debug("state saved", "queued", c.frontier.Len(), "visited", c.visited.Len())
}

func (c *Crawler) finish(ctx context.Context) {
	c.report.FrontierRemaining = c.frontier.Len()
	c.report.VisitedCount = c.visited.Len()

	runState := model.RunStateFinished
	if c.state == StateSuspended {
		runState = model.RunStateSuspended
	}
	c.report.Finish(runState)

	if c.recorder != nil {
		if err := c.recorder.FinishRun(ctx, c.report); err != nil {
			c.logger.Error("failed to record run end", "error", err)
		}
	}
	c.logger.Info("crawl ended",
		"state", c.state.String(),
		"pages", c.report.PagesFetched,
		"written", c.report.Downloads.Written,
		"queued", c.report.FrontierRemaining,
	)
}
