package goquery_test

import (
	"testing"

	"github.com/huyouare/better-bing/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextExtractor_Extract(t *testing.T) {
	t.Parallel()

	t.Run("puts block elements on their own lines", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><title>Guide</title></head><body>
<h1>Getting   Started</h1>
<p>First paragraph with <b>bold</b> text.</p>
<ul><li>one</li><li>two</li></ul>
</body></html>`

		text, err := goquery.NewTextExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "Guide\nGetting Started\nFirst paragraph with bold text.\none\ntwo", text)
	})

	t.Run("drops script, style and noscript content", func(t *testing.T) {
		t.Parallel()

		html := `<html><head><style>body { color: red }</style>
<script>var secret = 1;</script></head>
<body><p>visible</p><noscript>enable js</noscript><template><p>hidden</p></template></body></html>`

		text, err := goquery.NewTextExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "visible", text)
	})

	t.Run("squeezes runs of blank lines", func(t *testing.T) {
		t.Parallel()

		html := "<pre>a\n\n\n\nb</pre>"

		text, err := goquery.NewTextExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "a\n\nb", text)
	})

	t.Run("returns empty text for empty input", func(t *testing.T) {
		t.Parallel()

		text, err := goquery.NewTextExtractor().Extract("   ")

		require.NoError(t, err)
		assert.Empty(t, text)
	})

	t.Run("recovers text from malformed markup", func(t *testing.T) {
		t.Parallel()

		html := `<div><p>unclosed <span>inline<div>next block`

		text, err := goquery.NewTextExtractor().Extract(html)

		require.NoError(t, err)
		assert.Equal(t, "unclosed inline\nnext block", text)
	})
}
