package betterbing

// LinkSelector collects raw hyperlink targets from HTML.
type LinkSelector interface {
	// SelectLinks returns every hyperlink target found in the document, in
	// document order, exactly as written in the markup. If the document
	// declares a base URL it is returned as base; otherwise base is empty.
	SelectLinks(html string) (hrefs []string, base string, err error)
}
