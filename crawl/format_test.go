package crawl_test

import (
	"testing"

	betterbing "github.com/huyouare/better-bing"
	"github.com/huyouare/better-bing/crawl"
	"github.com/stretchr/testify/assert"
)

func TestTruncateURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		url    string
		maxLen int
		want   string
	}{
		{"drops the scheme", "http://www.paulgraham.com/ds.html", 40, "www.paulgraham.com/ds.html"},
		{"exact fit", "https://example.com", 11, "example.com"},
		{"keeps the tail", "https://example.com/very/long/path/to/essay", 16, "...path/to/essay"},
		{"counts runes", "https://example.com/café-menu", 10, "...fé-menu"},
		{"no room for the marker", "https://example.com", 3, "exa"},
		{"zero", "https://example.com", 0, ""},
		{"negative", "https://example.com", -1, ""},
		{"relative URL", "/about", 10, "/about"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := crawl.TruncateURL(tt.url, tt.maxLen)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len([]rune(got)), max(tt.maxLen, 0))
		})
	}
}

func TestFormatBytes(t *testing.T) {
	t.Parallel()

	for n, want := range map[int]string{
		0:                "0 B",
		1023:             "1023 B",
		1536:             "1.5 KB",
		2 * 1024 * 1024:  "2.0 MB",
		3 << 30:          "3.0 GB",
		5000 * (1 << 30): "5000.0 GB",
	} {
		assert.Equal(t, want, crawl.FormatBytes(n), "n=%d", n)
	}
}

func TestFormatSummary(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		report *betterbing.CrawlReport
		want   string
	}{
		{
			name: "written bytes and failures",
			report: &betterbing.CrawlReport{
				PagesWritten: 2,
				PagesFailed:  1,
				Written: []betterbing.WrittenPage{
					{URL: "https://example.com/a", Bytes: 1024},
					{URL: "https://example.com/b", Bytes: 512},
				},
			},
			want: "Saved 2 pages (1.5 KB), 1 failed",
		},
		{
			name:   "skipped pages when there are some",
			report: &betterbing.CrawlReport{PagesSkipped: 3},
			want:   "Saved 0 pages (0 B), 0 failed, 3 skipped",
		},
		{name: "nil report", want: "Saved 0 pages"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.FormatSummary(tt.report))
		})
	}
}
