package betterbing

import "context"

// Page is a fetched page on its way to disk.
type Page struct {
	URL  string
	Path string // Destination reserved by PageTree.Reserve
	Text string
}

// PageStore opens output trees.
type PageStore interface {
	// Open creates root if it does not exist and returns a tree that writes
	// beneath it. Returns EFILESYSTEM if root cannot be created.
	Open(root string) (PageTree, error)
}

// PageTree writes pages beneath a single output root.
// Reserve and Write are safe for concurrent use.
type PageTree interface {
	// Root returns the directory the tree writes into.
	Root() string

	// Reserve maps a URL to its destination file path. Two different URLs
	// never receive the same path; the second one is disambiguated.
	// Reserving the same URL twice returns the same path.
	Reserve(rawURL string) (string, error)

	// Write stores page.Text at page.Path atomically: readers observe
	// either the previous file or the complete new one.
	// Returns EFILESYSTEM on failure.
	Write(ctx context.Context, page *Page) error
}
