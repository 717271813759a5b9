package betterbing

// TextExtractor reduces an HTML document to plain text.
type TextExtractor interface {
	// Extract returns the text of the document with surrounding whitespace
	// trimmed. Malformed markup degrades to best-effort text rather than
	// failing; an error is returned only when nothing can be recovered.
	Extract(html string) (string, error)
}
