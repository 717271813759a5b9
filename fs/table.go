package fs

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"
)

// PathTable assigns destination paths to URLs so that no two URLs share a
// file. It is safe for concurrent use by multiple goroutines.
type PathTable struct {
	mu     sync.Mutex
	owners map[string]string // path → URL
	claims map[string]string // URL → path
}

// NewPathTable creates an empty PathTable.
func NewPathTable() *PathTable {
	return &PathTable{
		owners: make(map[string]string),
		claims: make(map[string]string),
	}
}

// Claim reserves path for rawURL and returns the path the URL must write to.
// The first URL to claim a path keeps it. A different URL claiming the same
// path gets the path with a hash of the URL inserted before the extension;
// if that is taken too, a numeric suffix is added. Claiming again with the
// same URL returns the earlier result. The bool reports whether the returned
// path differs from the requested one.
func (t *PathTable) Claim(rawURL, path string) (string, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if claimed, ok := t.claims[rawURL]; ok {
		return claimed, claimed != path
	}

	candidate := path
	if _, taken := t.owners[candidate]; taken {
		hash := ShortHash(rawURL)
		candidate = withSuffix(path, "-"+hash)
		for n := 2; ; n++ {
			if _, taken := t.owners[candidate]; !taken {
				break
			}
			candidate = withSuffix(path, fmt.Sprintf("-%s-%d", hash, n))
		}
	}

	t.owners[candidate] = rawURL
	t.claims[rawURL] = candidate
	return candidate, candidate != path
}

// Len returns the number of claimed paths.
func (t *PathTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.owners)
}

// withSuffix inserts suffix between the file name and its extension.
func withSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}
