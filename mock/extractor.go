package mock

import betterbing "github.com/huyouare/better-bing"

var _ betterbing.TextExtractor = (*TextExtractor)(nil)

// TextExtractor is a mock implementation of betterbing.TextExtractor.
type TextExtractor struct {
	ExtractFn func(html string) (string, error)
}

func (e *TextExtractor) Extract(html string) (string, error) {
	return e.ExtractFn(html)
}
