package crawl

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"

	betterbing "github.com/huyouare/better-bing"
)

// DefaultFetchTimeout bounds a single fetch attempt.
const DefaultFetchTimeout = 10 * time.Second

// PageFetcher fetches pages through a transport and reduces them to text.
// Every attempt waits on the rate limiter, if one is set, and runs under
// its own timeout; failed attempts are retried with backoff.
type PageFetcher struct {
	Fetcher     betterbing.Fetcher
	Extractor   betterbing.TextExtractor
	RateLimiter betterbing.DomainLimiter

	// RetryDelays are the waits between attempts. Nil uses
	// DefaultRetryDelays; an empty slice disables retries.
	RetryDelays []time.Duration

	// Timeout bounds each attempt. Zero uses DefaultFetchTimeout.
	Timeout time.Duration

	// OnRetry, if set, is called before every repeated attempt.
	OnRetry RetryFunc
}

// FetchHTML returns the decoded HTML of rawURL.
func (p *PageFetcher) FetchHTML(ctx context.Context, rawURL string) (string, error) {
	delays := p.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	return FetchWithRetry(ctx, rawURL, p.attempt, delays, p.OnRetry)
}

// FetchText returns the visible text of rawURL with surrounding
// whitespace trimmed.
func (p *PageFetcher) FetchText(ctx context.Context, rawURL string) (string, error) {
	html, err := p.FetchHTML(ctx, rawURL)
	if err != nil {
		return "", err
	}
	return p.ExtractText(html)
}

// ExtractText reduces already fetched HTML to trimmed visible text.
func (p *PageFetcher) ExtractText(html string) (string, error) {
	text, err := p.Extractor.Extract(html)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

// attempt performs one rate-limited, time-bounded fetch.
func (p *PageFetcher) attempt(ctx context.Context, rawURL string) (string, error) {
	if p.RateLimiter != nil {
		u, err := url.Parse(rawURL)
		if err != nil {
			return "", betterbing.Errorf(betterbing.EINVALID, "invalid URL %q", rawURL)
		}
		if err := p.RateLimiter.Wait(ctx, u.Hostname()); err != nil {
			return "", err
		}
	}

	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultFetchTimeout
	}
	attemptCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	html, err := p.Fetcher.Fetch(attemptCtx, rawURL)
	if err != nil && ctx.Err() == nil && errors.Is(err, context.DeadlineExceeded) {
		// The attempt timed out while the crawl is still running.
		return "", betterbing.Errorf(betterbing.EFETCH, "timeout after %s fetching %s", timeout, rawURL)
	}
	return html, err
}
