// Package readability extracts the article body of a page using
// go-readability, the Go port of Mozilla's Readability.
package readability

import (
	"strings"

	betterbing "github.com/huyouare/better-bing"
	bbgoquery "github.com/huyouare/better-bing/goquery"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements betterbing.TextExtractor at compile time.
var _ betterbing.TextExtractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract article text from HTML.
// When readability cannot parse a page, the fallback extractor's text is
// returned instead.
type Extractor struct {
	fallback betterbing.TextExtractor
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{fallback: bbgoquery.NewTextExtractor()}
}

// Extract returns the article title followed by the article body text.
func (e *Extractor) Extract(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", betterbing.Errorf(betterbing.EINVALID, "empty HTML input")
	}

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return e.fallback.Extract(rawHTML)
	}

	body := strings.TrimSpace(article.TextContent)
	title := strings.TrimSpace(article.Title)
	switch {
	case title == "" || strings.HasPrefix(body, title):
		return body, nil
	case body == "":
		return title, nil
	}
	return title + "\n\n" + body, nil
}
