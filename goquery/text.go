package goquery

import (
	"strings"
	"unicode"

	"github.com/PuerkitoBio/goquery"
	betterbing "github.com/huyouare/better-bing"
	"golang.org/x/net/html"
)

// Ensure TextExtractor implements betterbing.TextExtractor at compile time.
var _ betterbing.TextExtractor = (*TextExtractor)(nil)

// hiddenSelectors matches elements whose content is never rendered as text.
const hiddenSelectors = "script, style, noscript, template, iframe, object, svg, canvas"

// blockElements start and end on their own line when rendered.
var blockElements = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"br": true, "dd": true, "div": true, "dl": true, "dt": true,
	"fieldset": true, "figcaption": true, "figure": true, "footer": true,
	"form": true, "h1": true, "h2": true, "h3": true, "h4": true, "h5": true,
	"h6": true, "header": true, "hr": true, "li": true, "main": true,
	"nav": true, "ol": true, "p": true, "pre": true, "section": true,
	"table": true, "td": true, "th": true, "title": true, "tr": true, "ul": true,
}

// TextExtractor returns the visible text of a whole HTML document.
type TextExtractor struct{}

// NewTextExtractor creates a new TextExtractor.
func NewTextExtractor() *TextExtractor {
	return &TextExtractor{}
}

// Extract returns the document's visible text, one block element per line,
// with runs of whitespace collapsed and blank lines squeezed.
// If the document cannot be parsed, a tokenizer pass recovers what text it
// can instead.
func (e *TextExtractor) Extract(rawHTML string) (string, error) {
	if strings.TrimSpace(rawHTML) == "" {
		return "", nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawHTML))
	if err != nil {
		return tokenText(rawHTML), nil
	}

	doc.Find(hiddenSelectors).Remove()

	var b strings.Builder
	for _, n := range doc.Nodes {
		writeText(&b, n, false)
	}
	return normalize(b.String()), nil
}

// writeText appends the text beneath n to b, surrounding block elements
// with newlines. Outside <pre>, whitespace collapses the way a browser
// renders it.
func writeText(b *strings.Builder, n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			b.WriteString(n.Data)
		} else {
			b.WriteString(collapseSpace(n.Data))
		}
		return
	case html.CommentNode, html.DoctypeNode:
		return
	}

	block := n.Type == html.ElementNode && blockElements[n.Data]
	if block {
		breakLine(b)
	}
	pre = pre || (n.Type == html.ElementNode && n.Data == "pre")
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeText(b, c, pre)
	}
	if block {
		breakLine(b)
	}
}

// breakLine ends the current line unless b is already at a line start.
func breakLine(b *strings.Builder) {
	s := strings.TrimRight(b.String(), " \t")
	if s != "" && s[len(s)-1] != '\n' {
		b.WriteByte('\n')
	}
}

// collapseSpace replaces every whitespace run in s with a single space.
func collapseSpace(s string) string {
	var b strings.Builder
	space := false
	for _, r := range s {
		if unicode.IsSpace(r) {
			if !space {
				b.WriteByte(' ')
			}
			space = true
			continue
		}
		b.WriteRune(r)
		space = false
	}
	return b.String()
}

// tokenText is the best-effort fallback: it streams tokens and keeps text
// that is not inside a hidden element.
func tokenText(rawHTML string) string {
	z := html.NewTokenizer(strings.NewReader(rawHTML))
	var b strings.Builder
	hidden := 0
	for {
		switch z.Next() {
		case html.ErrorToken:
			return normalize(b.String())
		case html.StartTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if isHidden(tag) {
				hidden++
			} else if blockElements[tag] {
				breakLine(&b)
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			tag := string(name)
			if isHidden(tag) && hidden > 0 {
				hidden--
			} else if blockElements[tag] {
				breakLine(&b)
			}
		case html.SelfClosingTagToken:
			name, _ := z.TagName()
			if blockElements[string(name)] {
				breakLine(&b)
			}
		case html.TextToken:
			if hidden == 0 {
				b.Write(z.Text())
			}
		}
	}
}

func isHidden(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "template", "iframe", "object", "svg", "canvas":
		return true
	}
	return false
}

// normalize collapses horizontal whitespace, trims every line, squeezes
// consecutive blank lines into one, and trims the result.
func normalize(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, line)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
