// Package htmltomarkdown renders a whole page as Markdown, keeping
// headings, lists, code blocks and tables readable in the text output.
package htmltomarkdown

import (
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	betterbing "github.com/huyouare/better-bing"
	bbgoquery "github.com/huyouare/better-bing/goquery"
)

// Ensure Extractor implements betterbing.TextExtractor at compile time.
var _ betterbing.TextExtractor = (*Extractor)(nil)

// Extractor wraps html-to-markdown to turn HTML into Markdown text.
// Pages the converter rejects come back as plain visible text.
type Extractor struct {
	conv     *converter.Converter
	fallback betterbing.TextExtractor
}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &Extractor{conv: conv, fallback: bbgoquery.NewTextExtractor()}
}

// Extract converts HTML content into Markdown.
func (e *Extractor) Extract(html string) (string, error) {
	if strings.TrimSpace(html) == "" {
		return "", betterbing.Errorf(betterbing.EINVALID, "empty HTML input")
	}

	md, err := e.conv.ConvertString(html)
	if err != nil {
		return e.fallback.Extract(html)
	}

	return strings.TrimSpace(md), nil
}
