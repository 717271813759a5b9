// Package goquery implements link selection and visible-text extraction
// on top of github.com/PuerkitoBio/goquery.
package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	betterbing "github.com/huyouare/better-bing"
)

// Ensure LinkSelector implements betterbing.LinkSelector at compile time.
var _ betterbing.LinkSelector = (*LinkSelector)(nil)

// linkSelectors matches every element whose href is a hyperlink target.
const linkSelectors = "a[href], area[href]"

// LinkSelector collects hyperlink targets from anchors and image-map areas.
type LinkSelector struct{}

// NewLinkSelector creates a new LinkSelector.
func NewLinkSelector() *LinkSelector {
	return &LinkSelector{}
}

// SelectLinks returns the raw href values in document order along with the
// document's <base href>, if any. Values are whitespace-trimmed but
// otherwise untouched; classification and resolution happen in the caller.
func (s *LinkSelector) SelectLinks(html string) ([]string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, "", betterbing.Errorf(betterbing.EPARSE, "failed to parse HTML: %v", err)
	}

	var hrefs []string
	doc.Find(linkSelectors).Each(func(_ int, sel *goquery.Selection) {
		href, _ := sel.Attr("href")
		hrefs = append(hrefs, strings.TrimSpace(href))
	})

	base, _ := doc.Find("base[href]").First().Attr("href")
	return hrefs, strings.TrimSpace(base), nil
}
