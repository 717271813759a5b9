// Package crawl provides single-level site crawling.
// It discovers the internal links of a seed page, fetches each one,
// reduces it to text, and writes the text into an output tree.
package crawl

import (
	"context"
	"errors"
	"net/url"
	"time"

	betterbing "github.com/huyouare/better-bing"
	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency is the number of pages fetched at once.
const DefaultConcurrency = 8

// LinkDiscoverer returns the internal links of one page.
type LinkDiscoverer interface {
	ExtractLinks(ctx context.Context, pageURL string) ([]string, error)
}

// SeedDiscoverer returns the internal links of the seed page along with the
// HTML they were found in.
type SeedDiscoverer interface {
	Discover(ctx context.Context, pageURL string) (links []string, html string, err error)
}

// TextFetcher returns the visible text of one page.
type TextFetcher interface {
	FetchText(ctx context.Context, url string) (string, error)

	// ExtractText reduces HTML that was already fetched.
	ExtractText(html string) (string, error)
}

// Ensure the pipeline stages satisfy the orchestrator's interfaces.
var (
	_ LinkDiscoverer = (*LinkExtractor)(nil)
	_ SeedDiscoverer = (*LinkExtractor)(nil)
	_ TextFetcher    = (*PageFetcher)(nil)
)

// Crawler orchestrates one crawl: discover links on the seed page, then
// fetch and write up to PageLimit of them with a bounded worker pool.
//
// The seed page is downloaded once: its discovery HTML is reused for its
// text when it falls within the page limit.
type Crawler struct {
	Links       SeedDiscoverer
	Pages       TextFetcher
	Store       betterbing.PageStore
	Concurrency int
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type      ProgressType
	Completed int
	Total     int
	URL       string
	Path      string
	Error     error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressDiscovered ProgressType = iota
	ProgressStarted
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
// It is only ever called from the goroutine running Crawl.
type ProgressFunc func(event ProgressEvent)

// pageResult holds the outcome of processing a single URL.
type pageResult struct {
	position int
	url      string
	path     string
	bytes    int
	err      error
	skipped  bool
}

// Crawl runs the crawl described by session.
//
// An invalid request or an unusable output root fails before anything is
// fetched and returns a nil report. If the seed page cannot be fetched the
// report records it as the only failure and the error is returned with it.
// If ctx is canceled, no further pages are started, pages that did not
// finish are counted as skipped, and the partial report is returned along
// with ctx.Err(). Failures of individual pages are recorded in the report
// and do not make Crawl return an error.
func (c *Crawler) Crawl(ctx context.Context, session *betterbing.CrawlSession, progress ProgressFunc) (*betterbing.CrawlReport, error) {
	if session == nil {
		return nil, betterbing.Errorf(betterbing.EINVALID, "crawl session required")
	}
	req := session.Request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tree, err := c.Store.Open(req.OutputRoot)
	if err != nil {
		return nil, err
	}

	report := &betterbing.CrawlReport{
		Session:         session,
		DestinationRoot: tree.Root(),
	}

	links, seedHTML, err := c.Links.Discover(ctx, req.SeedURL)
	if err != nil {
		report.PagesFailed = 1
		report.Failures = []betterbing.PageFailure{{URL: req.SeedURL, Err: err}}
		c.finish(report, 0, progress)
		return report, err
	}

	report.Discovered = len(links)
	emit(progress, ProgressEvent{Type: ProgressDiscovered, Total: len(links)})

	urls := links[:min(req.PageLimit, len(links))]
	if len(urls) == 0 {
		c.finish(report, 0, progress)
		return report, nil
	}

	prefetched := map[string]string{}
	if seed, err := url.Parse(req.SeedURL); err == nil {
		prefetched[Normalize(seed)] = seedHTML
	}
	return c.fetchAll(ctx, tree, urls, prefetched, report, progress)
}

// SavePage writes only the seed page, skipping link discovery.
func (c *Crawler) SavePage(ctx context.Context, session *betterbing.CrawlSession, progress ProgressFunc) (*betterbing.CrawlReport, error) {
	if session == nil {
		return nil, betterbing.Errorf(betterbing.EINVALID, "crawl session required")
	}
	req := session.Request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	tree, err := c.Store.Open(req.OutputRoot)
	if err != nil {
		return nil, err
	}

	report := &betterbing.CrawlReport{
		Session:         session,
		DestinationRoot: tree.Root(),
		Discovered:      1,
	}
	return c.fetchAll(ctx, tree, []string{req.SeedURL}, nil, report, progress)
}

// fetchAll reserves a path for every URL, then fetches and writes the pages
// concurrently. Paths are reserved in input order before any worker starts,
// so collision suffixes are the same on every run. URLs found in
// prefetched are extracted from the stored HTML instead of being fetched.
// prefetched is only read once workers start.
func (c *Crawler) fetchAll(ctx context.Context, tree betterbing.PageTree, urls []string, prefetched map[string]string, report *betterbing.CrawlReport, progress ProgressFunc) (*betterbing.CrawlReport, error) {
	total := len(urls)
	results := make([]pageResult, total)

	paths := make([]string, total)
	for i, u := range urls {
		path, err := tree.Reserve(u)
		if err != nil {
			results[i] = pageResult{position: i, url: u, err: err}
			continue
		}
		paths[i] = path
	}

	concurrency := c.Concurrency
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}

	emit(progress, ProgressEvent{Type: ProgressStarted, Total: total})

	// Buffered so workers never block on a slow progress callback.
	resultCh := make(chan pageResult, total)

	var g errgroup.Group
	g.SetLimit(concurrency)

	go func() {
		for i, u := range urls {
			if paths[i] == "" {
				continue
			}
			if ctx.Err() != nil {
				break
			}
			i, u := i, u
			g.Go(func() error {
				html, ok := prefetched[u]
				resultCh <- c.processPage(ctx, tree, i, u, paths[i], html, ok)
				return nil
			})
		}
		_ = g.Wait()
		close(resultCh)
	}()

	done := make([]bool, total)
	var completed int
	for i, result := range results {
		if result.err == nil {
			continue
		}
		done[i] = true
		completed++
		emit(progress, ProgressEvent{
			Type:      ProgressFailed,
			Completed: completed,
			Total:     total,
			URL:       result.url,
			Error:     result.err,
		})
	}

	for result := range resultCh {
		results[result.position] = result
		if result.skipped {
			continue
		}
		done[result.position] = true
		completed++

		if result.err != nil {
			emit(progress, ProgressEvent{
				Type:      ProgressFailed,
				Completed: completed,
				Total:     total,
				URL:       result.url,
				Path:      result.path,
				Error:     result.err,
			})
			continue
		}
		emit(progress, ProgressEvent{
			Type:      ProgressCompleted,
			Completed: completed,
			Total:     total,
			URL:       result.url,
			Path:      result.path,
		})
	}

	for i, result := range results {
		switch {
		case !done[i]:
			report.PagesSkipped++
		case result.err != nil:
			report.PagesFailed++
			report.Failures = append(report.Failures, betterbing.PageFailure{URL: result.url, Err: result.err})
		default:
			report.PagesWritten++
			report.Written = append(report.Written, betterbing.WrittenPage{
				URL:   result.url,
				Path:  result.path,
				Bytes: result.bytes,
			})
		}
	}

	c.finish(report, completed, progress)
	return report, ctx.Err()
}

// processPage fetches one page and writes its text. A page interrupted by
// cancellation of ctx is reported as skipped rather than failed.
func (c *Crawler) processPage(ctx context.Context, tree betterbing.PageTree, position int, url, path, html string, fetched bool) pageResult {
	result := pageResult{
		position: position,
		url:      url,
		path:     path,
	}

	if ctx.Err() != nil {
		result.skipped = true
		return result
	}

	var text string
	var err error
	if fetched {
		text, err = c.Pages.ExtractText(html)
	} else {
		text, err = c.Pages.FetchText(ctx, url)
	}
	if err == nil {
		err = tree.Write(ctx, &betterbing.Page{URL: url, Path: path, Text: text})
	}
	if err != nil {
		if ctx.Err() != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)) {
			result.skipped = true
			return result
		}
		result.err = err
		return result
	}

	result.bytes = len(text)
	return result
}

// finish stamps the report and emits the final progress event.
func (c *Crawler) finish(report *betterbing.CrawlReport, completed int, progress ProgressFunc) {
	report.FinishedAt = time.Now()
	emit(progress, ProgressEvent{
		Type:      ProgressFinished,
		Completed: completed,
		Total:     report.PagesWritten + report.PagesFailed + report.PagesSkipped,
	})
}

func emit(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}
