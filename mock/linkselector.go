package mock

import betterbing "github.com/huyouare/better-bing"

var _ betterbing.LinkSelector = (*LinkSelector)(nil)

// LinkSelector is a mock implementation of betterbing.LinkSelector.
type LinkSelector struct {
	SelectLinksFn func(html string) ([]string, string, error)
}

func (s *LinkSelector) SelectLinks(html string) ([]string, string, error) {
	return s.SelectLinksFn(html)
}
