package crawl

import (
	"fmt"
	"strings"

	betterbing "github.com/huyouare/better-bing"
)

// TruncateURL fits a URL into maxLen runes for a progress line. The scheme
// is dropped first; a URL still too long keeps its tail, where the page
// name is, behind a "..." marker.
func TruncateURL(rawURL string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	s := rawURL
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	r := []rune(s)
	switch {
	case len(r) <= maxLen:
		return s
	case maxLen <= 3:
		return string(r[:maxLen])
	}
	return "..." + string(r[len(r)-maxLen+3:])
}

// FormatBytes renders a byte count with a binary unit.
func FormatBytes(n int) string {
	if n < 1024 {
		return fmt.Sprintf("%d B", n)
	}
	v := float64(n)
	unit := ""
	for _, u := range []string{"KB", "MB", "GB"} {
		v /= 1024
		unit = u
		if v < 1024 {
			break
		}
	}
	return fmt.Sprintf("%.1f %s", v, unit)
}

// FormatSummary renders the one-line outcome of a crawl.
func FormatSummary(r *betterbing.CrawlReport) string {
	if r == nil {
		return "Saved 0 pages"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Saved %d pages (%s), %d failed", r.PagesWritten, FormatBytes(r.Bytes()), r.PagesFailed)
	if r.PagesSkipped > 0 {
		fmt.Fprintf(&b, ", %d skipped", r.PagesSkipped)
	}
	return b.String()
}
