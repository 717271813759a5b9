package fs_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/huyouare/better-bing/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		url  string
		want string
	}{
		{
			name: "strips extension",
			url:  "https://x.com/talk.html",
			want: "talk.txt",
		},
		{
			name: "root path becomes main",
			url:  "https://x.com/",
			want: "main.txt",
		},
		{
			name: "root without trailing slash becomes main",
			url:  "https://x.com",
			want: "main.txt",
		},
		{
			name: "flattens nested path",
			url:  "https://x.com/a/b.html",
			want: "a-b.txt",
		},
		{
			name: "no extension",
			url:  "https://example.com/docs/api/users",
			want: "docs-api-users.txt",
		},
		{
			name: "trailing slash keeps trailing hyphen",
			url:  "https://example.com/docs/",
			want: "docs-.txt",
		},
		{
			name: "ignores query string",
			url:  "https://example.com/docs/api?version=2",
			want: "docs-api.txt",
		},
		{
			name: "ignores fragment",
			url:  "https://example.com/docs/api#section",
			want: "docs-api.txt",
		},
		{
			name: "only the last extension is stripped",
			url:  "https://example.com/archive.tar.gz",
			want: "archive.tar.txt",
		},
		{
			name: "decodes percent escapes",
			url:  "https://example.com/caf%C3%A9.html",
			want: "café.txt",
		},
		{
			name: "dot segments cannot escape the root",
			url:  "https://example.com/..",
			want: "_..txt",
		},
		{
			name: "dotfile is not hidden",
			url:  "https://example.com/.well-known",
			want: "_.well-known.txt",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.MapPath(tt.url, "out")

			require.NoError(t, err)
			assert.Equal(t, filepath.Join("out", tt.want), got)
		})
	}
}

func TestMapPath_InvalidURL(t *testing.T) {
	t.Parallel()

	_, err := fs.MapPath("http://[::1", "out")

	require.Error(t, err)
}

func TestFileName_DistinctPathsCanCollide(t *testing.T) {
	t.Parallel()

	assert.Equal(t, fs.FileName("/a/b.html"), fs.FileName("/a-b.html"))
}

func TestFileName_LongPathIsShortened(t *testing.T) {
	t.Parallel()

	long := "/" + strings.Repeat("segment/", 60) + "page.html"

	got := fs.FileName(long)

	assert.LessOrEqual(t, len(got), 255)
	assert.True(t, strings.HasSuffix(got, ".txt"))
	assert.Equal(t, got, fs.FileName(long), "shortening must be deterministic")
}

func TestShortHash(t *testing.T) {
	t.Parallel()

	h := fs.ShortHash("https://x.com/a/b.html")

	assert.Len(t, h, 8)
	assert.Equal(t, h, fs.ShortHash("https://x.com/a/b.html"))
	assert.NotEqual(t, h, fs.ShortHash("https://x.com/a-b.html"))
}
