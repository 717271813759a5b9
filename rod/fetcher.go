// Package rod provides a headless Chrome implementation of betterbing.Fetcher
// for sites whose content is rendered by JavaScript.
package rod

import (
	"context"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/go-rod/rod/lib/proto"
	betterbing "github.com/huyouare/better-bing"
)

// DefaultFetchTimeout is the default timeout for a single page render.
// Kept consistent with http.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements betterbing.Fetcher at compile time.
var _ betterbing.Fetcher = (*Fetcher)(nil)

// serializeJS returns the document including open shadow roots, which
// page.HTML leaves out. Browsers without getHTML fall back to outerHTML.
const serializeJS = `() => {
	const root = document.documentElement;
	if (typeof root.getHTML !== 'function') {
		return root.outerHTML;
	}
	const shadowRoots = [];
	const walk = (el) => {
		if (el.shadowRoot) {
			shadowRoots.push(el.shadowRoot);
			for (const child of el.shadowRoot.children) walk(child);
		}
		for (const child of el.children) walk(child);
	};
	walk(root);
	return '<html>' + root.getHTML({ serializableShadowRoots: true, shadowRoots }) + '</html>';
}`

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager      *BrowserManager
	fetchTimeout time.Duration
	userAgent    string
	managerOpts  []ManagerOption
	closed       atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets the timeout for rendering a single page.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.fetchTimeout = d
	}
}

// WithRecycleAfter sets how many pages are rendered before the browser is
// restarted. Defaults to DefaultMaxPages.
func WithRecycleAfter(n int64) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithMaxPages(n))
	}
}

// WithBrowser sets the Chrome or Chromium executable to launch.
func WithBrowser(path string) Option {
	return func(f *Fetcher) {
		f.managerOpts = append(f.managerOpts, WithBrowserBin(path))
	}
}

// WithUserAgent overrides the browser's User-Agent for every page.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{
		fetchTimeout: DefaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.managerOpts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager

	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if f.closed.Load() {
		return "", betterbing.Errorf(betterbing.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.fetchTimeout)
	defer cancel()

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", betterbing.Errorf(betterbing.EFETCH, "open tab for %s: %w", url, err)
	}
	defer page.Close()

	// Set context for all subsequent operations
	page = page.Context(ctx)

	if f.userAgent != "" {
		if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{UserAgent: f.userAgent}); err != nil {
			return "", f.wrap(ctx, url, err)
		}
	}

	// The first document response is the main frame's; iframes load later.
	status := 0
	waitDocument := page.EachEvent(func(e *proto.NetworkResponseReceived) bool {
		if e.Type != proto.NetworkResourceTypeDocument {
			return false
		}
		status = int(e.Response.Status)
		return true
	})

	if err := page.Navigate(url); err != nil {
		return "", f.wrap(ctx, url, err)
	}
	waitDocument()
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := checkStatus(url, status); err != nil {
		return "", err
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.wrap(ctx, url, err)
	}

	res, err := page.Eval(serializeJS)
	if err != nil {
		html, htmlErr := page.HTML()
		if htmlErr != nil {
			return "", f.wrap(ctx, url, htmlErr)
		}
		return html, nil
	}
	return res.Value.Str(), nil
}

// checkStatus maps the main document's HTTP status to the same error codes
// the plain HTTP fetcher uses. A zero status means no response was seen.
func checkStatus(url string, status int) error {
	switch {
	case status == 0:
		return nil
	case status == http.StatusNotFound || status == http.StatusGone:
		return betterbing.Errorf(betterbing.ENOTFOUND, "HTTP %d for %s", status, url)
	case status < 200 || status > 299:
		return betterbing.Errorf(betterbing.EFETCH, "HTTP %d for %s", status, url)
	}
	return nil
}

// wrap returns context errors unchanged so callers can tell a timeout from
// a failed render.
func (f *Fetcher) wrap(ctx context.Context, url string, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return betterbing.Errorf(betterbing.EFETCH, "render %s: %w", url, err)
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
