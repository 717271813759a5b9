package crawl

import (
	"context"
	"strings"
	"sync"
	"unicode/utf8"

	betterbing "github.com/huyouare/better-bing"
)

// ContentDiffers reports whether a browser adds meaningful text to a page:
// the text of renderedHTML is more than half again as long as that of
// httpHTML. A page that cannot be extracted counts as differing.
func ContentDiffers(httpHTML, renderedHTML string, extractor betterbing.TextExtractor) bool {
	plain, err := textLen(extractor, httpHTML)
	if err != nil {
		return true
	}
	rendered, err := textLen(extractor, renderedHTML)
	if err != nil {
		return true
	}
	return 2*rendered > 3*plain
}

func textLen(extractor betterbing.TextExtractor, html string) (int, error) {
	text, err := extractor.Extract(html)
	if err != nil {
		return 0, err
	}
	return utf8.RuneCountInString(strings.TrimSpace(text)), nil
}

// ChooseFetcher fetches seedURL with both transports and returns the one the
// rest of the crawl should use. The plain HTTP fetcher wins unless it fails
// or the rendered page carries noticeably more text. The winner answers
// the next fetch of seedURL with the HTML it already returned, so discovery does not
// download the seed again.
func ChooseFetcher(ctx context.Context, seedURL string, plain, rendered betterbing.Fetcher, extractor betterbing.TextExtractor) betterbing.Fetcher {
	httpHTML, err := plain.Fetch(ctx, seedURL)
	if err != nil {
		return rendered
	}

	renderedHTML, err := rendered.Fetch(ctx, seedURL)
	if err != nil {
		return Prefetched(plain, seedURL, httpHTML)
	}

	if ContentDiffers(httpHTML, renderedHTML, extractor) {
		return Prefetched(rendered, seedURL, renderedHTML)
	}
	return Prefetched(plain, seedURL, httpHTML)
}

// Prefetched returns a Fetcher that answers the first fetch of url with
// html and passes every other fetch to next. Close closes next.
func Prefetched(next betterbing.Fetcher, url, html string) betterbing.Fetcher {
	return &prefetchedFetcher{Fetcher: next, url: url, html: html}
}

type prefetchedFetcher struct {
	betterbing.Fetcher

	mu   sync.Mutex
	url  string
	html string
	used bool
}

func (f *prefetchedFetcher) Fetch(ctx context.Context, url string) (string, error) {
	f.mu.Lock()
	hit := !f.used && url == f.url
	if hit {
		f.used = true
	}
	f.mu.Unlock()

	if !hit {
		return f.Fetcher.Fetch(ctx, url)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.html, nil
}
