// Package trafilatura extracts the main content of a page, leaving out
// navigation, sidebars and footers, using go-trafilatura.
package trafilatura

import (
	"strings"

	betterbing "github.com/huyouare/better-bing"
	bbgoquery "github.com/huyouare/better-bing/goquery"
	"github.com/markusmobius/go-trafilatura"
)

var _ betterbing.TextExtractor = (*Extractor)(nil)

// Extractor returns the page title and main content as plain text.
// Pages trafilatura cannot handle, such as ones with too little text,
// go to a fallback extractor instead of failing.
type Extractor struct {
	opts     trafilatura.Options
	fallback betterbing.TextExtractor
}

func NewExtractor() *Extractor {
	return &Extractor{
		opts:     trafilatura.Options{EnableFallback: true},
		fallback: bbgoquery.NewTextExtractor(),
	}
}

func (e *Extractor) Extract(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", betterbing.Errorf(betterbing.EINVALID, "empty HTML input")
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), e.opts)
	if err != nil || result == nil {
		return e.fallback.Extract(rawHTML)
	}
	return withTitle(result.Metadata.Title, result.ContentText), nil
}

// withTitle puts title on its own paragraph above body. trafilatura may
// already have glued the title to the start of the body.
func withTitle(title, body string) string {
	title = strings.TrimSpace(title)
	body = strings.TrimSpace(body)
	if title == "" {
		return body
	}
	body = strings.TrimSpace(strings.TrimPrefix(body, title))
	if body == "" {
		return title
	}
	return title + "\n\n" + body
}
