package crawl

import (
	"context"
	"net/url"
	"sort"
	"strings"

	betterbing "github.com/huyouare/better-bing"
)

// LinkExtractor discovers the internal links of a single page.
type LinkExtractor struct {
	// Pages fetches the page; the same transport and retry policy used
	// for page text applies to discovery.
	Pages *PageFetcher

	Selector betterbing.LinkSelector
}

// ExtractLinks fetches pageURL and returns the sorted, deduplicated set of
// absolute internal URLs it links to. The set always contains pageURL
// itself. Only a failure to fetch pageURL is an error.
func (e *LinkExtractor) ExtractLinks(ctx context.Context, pageURL string) ([]string, error) {
	links, _, err := e.Discover(ctx, pageURL)
	return links, err
}

// Discover is ExtractLinks that also returns the HTML it fetched, so the
// caller can reuse the page without downloading it again.
func (e *LinkExtractor) Discover(ctx context.Context, pageURL string) (links []string, html string, err error) {
	page, err := url.Parse(pageURL)
	if err != nil || !page.IsAbs() {
		return nil, "", betterbing.Errorf(betterbing.EINVALID, "page URL %q must be absolute", pageURL)
	}

	html, err = e.Pages.FetchHTML(ctx, pageURL)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, "", ctxErr
		}
		return nil, "", betterbing.Errorf(betterbing.EFETCH, "fetch %s: %w", pageURL, err)
	}

	hrefs, base, err := e.Selector.SelectLinks(html)
	if err != nil {
		// A page that cannot be parsed still contributes itself.
		hrefs, base = nil, ""
	}

	return ResolveLinks(pageURL, base, hrefs), html, nil
}

// ResolveLinks turns the raw hrefs found on pageURL into the discovered
// link set: internal links only, resolved against the document base,
// normalized, deduplicated and sorted. pageURL itself is always included.
func ResolveLinks(pageURL, base string, hrefs []string) []string {
	page, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}
	scope := NewScope(pageURL)

	resolveBase := page
	if base != "" {
		if b, err := page.Parse(base); err == nil {
			resolveBase = b
		}
	}

	seen := make(map[string]struct{}, len(hrefs)+1)
	seen[Normalize(page)] = struct{}{}

	for _, href := range hrefs {
		href = strings.TrimSpace(href)
		if !scope.Contains(href) {
			continue
		}
		resolved, err := resolveBase.Parse(href)
		if err != nil {
			continue
		}
		// A document base on another site can move a relative link off-site.
		if !scope.containsHost(resolved) {
			continue
		}
		seen[Normalize(resolved)] = struct{}{}
	}

	links := make([]string, 0, len(seen))
	for link := range seen {
		links = append(links, link)
	}
	sort.Strings(links)
	return links
}

// Normalize returns the canonical string form of u used for deduplication:
// lowercase scheme and host, no fragment, and "/" for an empty path.
func Normalize(u *url.URL) string {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	n.Host = strings.ToLower(n.Host)
	n.Fragment = ""
	n.RawFragment = ""
	if n.Path == "" && n.Opaque == "" {
		n.Path = "/"
		n.RawPath = ""
	}
	return n.String()
}
