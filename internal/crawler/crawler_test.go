package crawler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/nao1215/picgrab/internal/download"
	"github.com/nao1215/picgrab/internal/fetch"
	"github.com/nao1215/picgrab/internal/model"
	"github.com/nao1215/picgrab/internal/policy"
	"github.com/nao1215/picgrab/internal/state"
)

// cannedPage is a canned fetch result.
type cannedPage struct {
	status int
	body   string
	err    error
}

// fakeFetcher serves canned pages. A URL with several pages returns them
// in order; the last one repeats.
type fakeFetcher struct {
	pages  map[string][]cannedPage
	calls  []string
	onCall func(u string)
}

func (f *fakeFetcher) Get(_ context.Context, u string) (*fetch.Response, error) {
	f.calls = append(f.calls, u)
	if f.onCall != nil {
		f.onCall(u)
	}

	seq, ok := f.pages[u]
	if !ok {
		return &fetch.Response{StatusCode: http.StatusNotFound}, &fetch.StatusError{URL: u, StatusCode: http.StatusNotFound}
	}
	p := seq[0]
	if len(seq) > 1 {
		f.pages[u] = seq[1:]
	}
	if p.err != nil {
		return nil, p.err
	}
	status := p.status
	if status == 0 {
		status = http.StatusOK
	}
	resp := &fetch.Response{StatusCode: status, ContentType: "text/html", Body: []byte(p.body)}
	if status < 200 || status > 299 {
		return resp, &fetch.StatusError{URL: u, StatusCode: status}
	}
	return resp, nil
}

func (f *fakeFetcher) count(u string) int {
	n := 0
	for _, c := range f.calls {
		if c == u {
			n++
		}
	}
	return n
}

// fakeDownloader records requested downloads.
type fakeDownloader struct {
	urls []string
}

func (d *fakeDownloader) MaybeDownload(_ context.Context, u string) (download.Result, error) {
	d.urls = append(d.urls, u)
	name, err := download.Filename(u)
	if err != nil {
		return download.Result{URL: u, Outcome: download.OutcomeFailed}, err
	}
	return download.Result{URL: u, Outcome: download.OutcomeWritten, Filename: name, Bytes: 1}, nil
}

// countingClassifier counts Classify calls per URL.
type countingClassifier struct {
	inner *policy.Matcher
	calls map[string]int
}

func (c *countingClassifier) Classify(u string) policy.Classification {
	c.calls[u]++
	return c.inner.Classify(u)
}

// fakeRecorder captures recorder calls.
type fakeRecorder struct {
	started   bool
	downloads []*model.DownloadRecord
	finished  *model.RunReport
}

func (r *fakeRecorder) StartRun(_ context.Context, report *model.RunReport) error {
	r.started = true
	report.ID = 7
	return nil
}

func (r *fakeRecorder) RecordDownload(_ context.Context, rec *model.DownloadRecord) error {
	r.downloads = append(r.downloads, rec)
	return errors.New("disk full")
}

func (r *fakeRecorder) FinishRun(_ context.Context, report *model.RunReport) error {
	r.finished = report
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func defaultMatcher(t *testing.T) *policy.Matcher {
	t.Helper()

	m, err := policy.New(policy.Lists{
		Follow:   []string{`.*\.html`, `.*/`},
		NoFollow: []string{`.*\.jpg`},
		Download: []string{`.*\.jpg`},
	})
	if err != nil {
		t.Fatalf("failed to build matcher: %v", err)
	}
	return m
}

func newTestCrawler(t *testing.T, f Fetcher, d Downloader, opts ...Option) *Crawler {
	t.Helper()

	base := []Option{
		WithLogger(quietLogger()),
		WithBackoff(func() time.Duration { return 0 }),
	}
	return New(f, defaultMatcher(t), d, append(base, opts...)...)
}

// TestRun_Traversal tests a small crawl end to end.
func TestRun_Traversal(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: map[string][]cannedPage{
		"http://a/":         {{body: `<a href="one.html">1</a> <a href="two.html">2</a>`}},
		"http://a/one.html": {{body: `<img src="pic.jpg"> <a href="two.html">`}},
		"http://a/two.html": {{body: `<a href="/">home</a>`}},
	}}
	d := &fakeDownloader{}
	c := newTestCrawler(t, f, d)

	report := c.Run(t.Context(), []string{"http://a/"})

	if c.State() != StateFinished {
		t.Errorf("expected finished, got %s", c.State())
	}
	if report.State != model.RunStateFinished {
		t.Errorf("expected finished report, got %s", report.State)
	}
	wantCalls := []string{"http://a/", "http://a/one.html", "http://a/two.html"}
	if !slices.Equal(f.calls, wantCalls) {
		t.Errorf("expected fetch order %v, got %v", wantCalls, f.calls)
	}
	if !slices.Equal(d.urls, []string{"http://a/pic.jpg"}) {
		t.Errorf("expected one download, got %v", d.urls)
	}
	if report.PagesFetched != 3 || report.Downloads.Written != 1 || report.Enqueued != 2 {
		t.Errorf("unexpected counters %+v", report)
	}
	if report.FrontierRemaining != 0 {
		t.Errorf("expected empty frontier, got %d", report.FrontierRemaining)
	}
}

// TestRun_NoRevisit tests that every distinct URL is classified once.
func TestRun_NoRevisit(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: map[string][]cannedPage{
		"http://a/":       {{body: `<a href="x.html"> <a href="x.html"> http://a/x.html <img src="p.jpg"> <img src="p.jpg">`}},
		"http://a/x.html": {{body: `<a href="/"> <a href="x.html"> <img src="p.jpg">`}},
	}}
	cls := &countingClassifier{inner: defaultMatcher(t), calls: map[string]int{}}
	d := &fakeDownloader{}
	c := New(f, cls, d, WithLogger(quietLogger()))

	c.Run(t.Context(), []string{"http://a/"})

	for u, n := range cls.calls {
		if n != 1 {
			t.Errorf("expected %s to be classified once, got %d", u, n)
		}
	}
	if cls.calls["http://a/"] != 0 {
		t.Error("expected seed not to be classified again")
	}
	if f.count("http://a/x.html") != 1 {
		t.Errorf("expected x.html fetched once, got %d", f.count("http://a/x.html"))
	}
	if len(d.urls) != 1 {
		t.Errorf("expected a single download, got %v", d.urls)
	}
}

// TestRun_NoFollowPrecedence tests that no-follow URLs never reach the frontier.
func TestRun_NoFollowPrecedence(t *testing.T) {
	t.Parallel()

	m, err := policy.New(policy.Lists{
		Follow:   []string{`http://a/`},
		NoFollow: []string{`http://a/private/`},
	})
	if err != nil {
		t.Fatal(err)
	}
	f := &fakeFetcher{pages: map[string][]cannedPage{
		"http://a/":              {{body: `<a href="/private/x.html"> <a href="/public/y.html">`}},
		"http://a/public/y.html": {{body: ""}},
	}}
	c := New(f, m, &fakeDownloader{}, WithLogger(quietLogger()))
	c.Run(t.Context(), []string{"http://a/"})

	if f.count("http://a/private/x.html") != 0 {
		t.Error("expected no-follow URL not to be fetched")
	}
	if f.count("http://a/public/y.html") != 1 {
		t.Error("expected follow URL to be fetched")
	}
}

// TestRun_CrossOrigin tests host gating of candidates.
func TestRun_CrossOrigin(t *testing.T) {
	t.Parallel()

	body := `<a href="http://b/page.html"> <img src="http://b/img.jpg"> <img src="http://A/local.jpg">`

	t.Run("dropped by default", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string][]cannedPage{"http://a/page": {{body: body}}}}
		d := &fakeDownloader{}
		c := newTestCrawler(t, f, d)

		report := c.Run(t.Context(), []string{"http://a/page"})

		if slices.Contains(d.urls, "http://b/img.jpg") {
			t.Error("expected cross-origin image not to be downloaded")
		}
		if !slices.Contains(d.urls, "http://A/local.jpg") {
			t.Errorf("expected host comparison to ignore case, got %v", d.urls)
		}
		if f.count("http://b/page.html") != 0 {
			t.Error("expected cross-origin page not to be fetched")
		}
		if report.CrossOriginDropped != 2 {
			t.Errorf("expected 2 dropped, got %d", report.CrossOriginDropped)
		}
	})

	t.Run("dropped link is followed from its own host", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string][]cannedPage{
			"http://a/":       {{body: `<a href="http://b/x.html">`}},
			"http://b/":       {{body: `<a href="http://b/x.html">`}},
			"http://b/x.html": {{body: `<img src="shared.jpg">`}},
		}}
		d := &fakeDownloader{}
		c := newTestCrawler(t, f, d)

		report := c.Run(t.Context(), []string{"http://a/", "http://b/"})

		if n := f.count("http://b/x.html"); n != 1 {
			t.Errorf("expected http://b/x.html to be fetched once, got %d (calls %v)", n, f.calls)
		}
		if !slices.Equal(d.urls, []string{"http://b/shared.jpg"}) {
			t.Errorf("expected download from the same-origin page, got %v", d.urls)
		}
		if report.CrossOriginDropped != 1 {
			t.Errorf("expected 1 dropped, got %d", report.CrossOriginDropped)
		}
	})

	t.Run("userinfo does not change the host", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string][]cannedPage{
			"http://a/":             {{body: `<a href="http://user@a/in.html">`}},
			"http://user@a/in.html": {{body: ""}},
		}}
		c := newTestCrawler(t, f, &fakeDownloader{})
		report := c.Run(t.Context(), []string{"http://a/"})

		if f.count("http://user@a/in.html") != 1 {
			t.Errorf("expected link with userinfo to be same-origin, got calls %v", f.calls)
		}
		if report.CrossOriginDropped != 0 {
			t.Errorf("expected nothing dropped, got %d", report.CrossOriginDropped)
		}
	})

	t.Run("allowed", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string][]cannedPage{
			"http://a/page":      {{body: body}},
			"http://b/page.html": {{body: ""}},
		}}
		d := &fakeDownloader{}
		c := newTestCrawler(t, f, d, WithAllowCrossOrigin(true))

		c.Run(t.Context(), []string{"http://a/page"})

		if !slices.Contains(d.urls, "http://b/img.jpg") {
			t.Errorf("expected cross-origin download, got %v", d.urls)
		}
		if f.count("http://b/page.html") != 1 {
			t.Error("expected cross-origin page to be fetched")
		}
	})
}

// TestRun_RetryThenAbandon tests the single 503 retry.
func TestRun_RetryThenAbandon(t *testing.T) {
	t.Parallel()

	unavailable := cannedPage{status: http.StatusServiceUnavailable}

	t.Run("two 503 abandon the url", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string][]cannedPage{
			"http://a/":          {{body: `<a href="busy.html"> <a href="busy.html">`}},
			"http://a/busy.html": {unavailable, unavailable, {body: `<a href="never.html">`}},
		}}
		var waits int
		c := newTestCrawler(t, f, &fakeDownloader{}, WithBackoff(func() time.Duration {
			waits++
			return 0
		}))

		report := c.Run(t.Context(), []string{"http://a/"})

		if n := f.count("http://a/busy.html"); n != 2 {
			t.Errorf("expected 2 attempts, got %d", n)
		}
		if waits != 1 {
			t.Errorf("expected one backoff, got %d", waits)
		}
		if !c.Visited().Contains("http://a/busy.html") {
			t.Error("expected abandoned URL to stay visited")
		}
		if f.count("http://a/never.html") != 0 {
			t.Error("expected no links scanned from abandoned URL")
		}
		if report.Retries != 1 || report.PagesFailed != 1 {
			t.Errorf("unexpected counters %+v", report)
		}
	})

	t.Run("503 then success is scanned", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string][]cannedPage{
			"http://a/":          {unavailable, {body: `<a href="next.html">`}},
			"http://a/next.html": {{body: ""}},
		}}
		c := newTestCrawler(t, f, &fakeDownloader{})
		report := c.Run(t.Context(), []string{"http://a/"})

		if f.count("http://a/next.html") != 1 {
			t.Error("expected links of the retried page to be followed")
		}
		if report.PagesFetched != 2 || report.PagesFailed != 0 {
			t.Errorf("unexpected counters %+v", report)
		}
	})

	t.Run("other statuses are not retried", func(t *testing.T) {
		t.Parallel()

		f := &fakeFetcher{pages: map[string][]cannedPage{
			"http://a/": {{status: http.StatusInternalServerError}},
		}}
		c := newTestCrawler(t, f, &fakeDownloader{})
		c.Run(t.Context(), []string{"http://a/"})

		if n := f.count("http://a/"); n != 1 {
			t.Errorf("expected 1 attempt, got %d", n)
		}
	})
}

// TestRun_ConnectionErrorContinues tests that a failing URL does not stop
// the crawl.
func TestRun_ConnectionErrorContinues(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: map[string][]cannedPage{
		"http://a/":       {{err: errors.New("connection refused")}},
		"http://a/b.html": {{body: ""}},
	}}
	c := newTestCrawler(t, f, &fakeDownloader{})
	report := c.Run(t.Context(), []string{"http://a/", "http://a/b.html"})

	if f.count("http://a/b.html") != 1 {
		t.Error("expected crawl to continue after a connection error")
	}
	if report.PagesFailed != 1 || report.PagesFetched != 1 {
		t.Errorf("unexpected counters %+v", report)
	}
}

func writeStateFile(t *testing.T, path string, items []string) {
	t.Helper()

	data, err := json.Marshal(items)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		t.Fatal(err)
	}
}

func readStateFile(t *testing.T, path string) []string {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read %s: %v", path, err)
	}
	var items []string
	if err := json.Unmarshal(data, &items); err != nil {
		t.Fatalf("failed to parse %s: %v", path, err)
	}
	return items
}

// TestRun_Resume tests that a saved frontier is resumed instead of seeding.
func TestRun_Resume(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	visitedPath := filepath.Join(dir, "visited.json")
	frontierPath := filepath.Join(dir, "frontier.json")
	writeStateFile(t, frontierPath, []string{"http://a/x", "http://a/y"})
	writeStateFile(t, visitedPath, []string{"http://a/x"})

	f := &fakeFetcher{pages: map[string][]cannedPage{
		"http://a/x":           {{body: `<a href="/from-x.html">`}},
		"http://a/y":           {{body: `<a href="/from-y.html">`}},
		"http://a/from-x.html": {{body: ""}},
		"http://a/from-y.html": {{body: ""}},
	}}
	store := state.NewStore(visitedPath, frontierPath, state.WithStoreLogger(quietLogger()))
	c := newTestCrawler(t, f, &fakeDownloader{}, WithStore(store))

	report := c.Run(t.Context(), []string{"http://a/seed"})

	if !report.Resumed {
		t.Error("expected resumed report")
	}
	if f.count("http://a/seed") != 0 {
		t.Error("expected seed URLs to be ignored on resume")
	}
	want := []string{"http://a/x", "http://a/y", "http://a/from-x.html", "http://a/from-y.html"}
	if !slices.Equal(f.calls, want) {
		t.Errorf("expected fetch order %v, got %v", want, f.calls)
	}

	if got := readStateFile(t, frontierPath); len(got) != 0 {
		t.Errorf("expected empty frontier after finishing, got %v", got)
	}
	visited := readStateFile(t, visitedPath)
	for _, u := range []string{"http://a/x", "http://a/from-x.html", "http://a/from-y.html"} {
		if !slices.Contains(visited, u) {
			t.Errorf("expected %s in saved visited set", u)
		}
	}
}

// TestRun_CorruptStateStartsFresh tests that unreadable state seeds normally.
func TestRun_CorruptStateStartsFresh(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	frontierPath := filepath.Join(dir, "frontier.json")
	if err := os.WriteFile(frontierPath, []byte("{not json"), 0600); err != nil {
		t.Fatal(err)
	}

	f := &fakeFetcher{pages: map[string][]cannedPage{"http://a/": {{body: ""}}}}
	store := state.NewStore("", frontierPath, state.WithStoreLogger(quietLogger()))
	c := newTestCrawler(t, f, &fakeDownloader{}, WithStore(store))
	report := c.Run(t.Context(), []string{"http://a/"})

	if report.Resumed {
		t.Error("expected fresh run")
	}
	if f.count("http://a/") != 1 {
		t.Error("expected seed to be fetched")
	}
}

// TestRun_SuspendOnCancel tests that cancellation saves state and stops
// at the loop boundary.
func TestRun_SuspendOnCancel(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	visitedPath := filepath.Join(dir, "visited.json")
	frontierPath := filepath.Join(dir, "frontier.json")

	ctx, cancel := context.WithCancel(t.Context())
	defer cancel()

	f := &fakeFetcher{pages: map[string][]cannedPage{
		"http://a/": {{body: `<a href="b.html"> <a href="c.html">`}},
	}}
	f.onCall = func(string) { cancel() }

	store := state.NewStore(visitedPath, frontierPath, state.WithStoreLogger(quietLogger()))
	c := newTestCrawler(t, f, &fakeDownloader{}, WithStore(store))
	report := c.Run(ctx, []string{"http://a/"})

	if c.State() != StateSuspended {
		t.Errorf("expected suspended, got %s", c.State())
	}
	if report.State != model.RunStateSuspended {
		t.Errorf("expected suspended report, got %s", report.State)
	}
	if len(f.calls) != 1 {
		t.Errorf("expected only the in-flight fetch, got %v", f.calls)
	}
	if report.PagesFetched != 1 {
		t.Error("expected the in-flight page to be processed")
	}

	want := []string{"http://a/b.html", "http://a/c.html"}
	if got := readStateFile(t, frontierPath); !slices.Equal(got, want) {
		t.Errorf("expected saved frontier %v, got %v", want, got)
	}
	if report.FrontierRemaining != 2 {
		t.Errorf("expected 2 remaining, got %d", report.FrontierRemaining)
	}
}

// TestRun_PeriodicSave tests snapshots every N processed URLs.
func TestRun_PeriodicSave(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		saveEvery     int
		wantSnapshots int
	}{
		{name: "every two pages", saveEvery: 2, wantSnapshots: 3},
		{name: "every page", saveEvery: 1, wantSnapshots: 6},
		{name: "disabled", saveEvery: 0, wantSnapshots: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := t.TempDir()
			frontierPath := filepath.Join(dir, "frontier.json")
			f := &fakeFetcher{pages: map[string][]cannedPage{
				"http://a/":       {{body: `<a href="1.html"> <a href="2.html"> <a href="3.html"> <a href="4.html">`}},
				"http://a/1.html": {{body: ""}},
				"http://a/2.html": {{body: ""}},
				"http://a/3.html": {{body: ""}},
				"http://a/4.html": {{body: ""}},
			}}
			// broken.html fails and does not count towards a snapshot.
			f.pages["http://a/"][0].body += ` <a href="broken.html">`

			store := state.NewStore("", frontierPath, state.WithStoreLogger(quietLogger()))
			c := newTestCrawler(t, f, &fakeDownloader{}, WithStore(store), WithSaveEvery(tt.saveEvery))
			report := c.Run(t.Context(), []string{"http://a/"})

			if report.PagesFetched != 5 {
				t.Fatalf("expected 5 pages, got %d", report.PagesFetched)
			}
			if report.Snapshots != tt.wantSnapshots {
				t.Errorf("expected %d snapshots, got %d", tt.wantSnapshots, report.Snapshots)
			}
		})
	}
}

// TestRun_Recorder tests that run history reaches the recorder.
func TestRun_Recorder(t *testing.T) {
	t.Parallel()

	f := &fakeFetcher{pages: map[string][]cannedPage{
		"http://a/": {{body: `<img src="a.jpg"> <img src="gallery/.jpg/">`}},
	}}
	m, err := policy.New(policy.Lists{Download: []string{`.*\.jpg`}})
	if err != nil {
		t.Fatal(err)
	}
	rec := &fakeRecorder{}
	c := New(f, m, &fakeDownloader{}, WithLogger(quietLogger()), WithRecorder(rec))

	report := c.Run(t.Context(), []string{"http://a/"})

	if !rec.started || rec.finished != report {
		t.Error("expected start and finish to be recorded")
	}
	if report.ID != 7 {
		t.Errorf("expected run id from recorder, got %d", report.ID)
	}
	if len(rec.downloads) != 2 {
		t.Fatalf("expected 2 download records, got %d", len(rec.downloads))
	}
	if rec.downloads[0].RunID != 7 || rec.downloads[0].Outcome != model.OutcomeWritten {
		t.Errorf("unexpected first record %+v", rec.downloads[0])
	}
	if rec.downloads[1].Outcome != model.OutcomeFailed || rec.downloads[1].Error == "" {
		t.Errorf("expected failed record with error, got %+v", rec.downloads[1])
	}
	if report.Downloads.Written != 1 || report.Downloads.Failed != 1 {
		t.Errorf("unexpected download counts %+v", report.Downloads)
	}
}

// TestRun_HTTP tests the crawler against a real HTTP server with the real
// fetch client and download manager.
func TestRun_HTTP(t *testing.T) {
	t.Parallel()

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<a href="/album/">album</a>`)
	})
	mux.HandleFunc("/album/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/album/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html")
		_, _ = io.WriteString(w, `<img src="one.jpg"><img src="../two.jpg"><img src="missing.jpg">`)
	})
	mux.HandleFunc("/album/one.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "one")
	})
	mux.HandleFunc("/two.jpg", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "two")
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client, err := fetch.New()
	if err != nil {
		t.Fatal(err)
	}
	target := t.TempDir()
	manager := download.NewManager(client, target, download.WithLogger(quietLogger()))
	c := New(client, defaultMatcher(t), manager, WithLogger(quietLogger()))

	report := c.Run(t.Context(), []string{server.URL + "/"})

	if report.Downloads.Written != 2 || report.Downloads.Failed != 1 {
		t.Errorf("unexpected download counts %+v", report.Downloads)
	}
	for name, want := range map[string]string{"one.jpg": "one", "two.jpg": "two"} {
		data, err := os.ReadFile(filepath.Join(target, name))
		if err != nil {
			t.Errorf("expected %s to be written: %v", name, err)
			continue
		}
		if string(data) != want {
			t.Errorf("expected %s to contain %q, got %q", name, want, data)
		}
	}
}

// TestState_String tests state names.
func TestState_String(t *testing.T) {
	t.Parallel()

	tests := map[State]string{
		StateIdle:      "idle",
		StateRunning:   "running",
		StateDraining:  "draining",
		StateSuspended: "suspended",
		StateFinished:  "finished",
		State(42):      "State(42)",
	}
	for s, want := range tests {
		if got := s.String(); got != want {
			t.Errorf("expected %s, got %s", want, got)
		}
	}
}
