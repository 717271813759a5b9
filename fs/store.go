package fs

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	betterbing "github.com/huyouare/better-bing"
)

// Ensure Store implements betterbing.PageStore at compile time.
var _ betterbing.PageStore = (*Store)(nil)

// Ensure Tree implements betterbing.PageTree at compile time.
var _ betterbing.PageTree = (*Tree)(nil)

// Store opens output trees on the local filesystem.
type Store struct {
	logger *slog.Logger
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithLogger makes every tree the store opens report path collisions at
// debug level.
func WithLogger(logger *slog.Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// NewStore creates a new Store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Open creates root (and any parents) and returns a Tree writing into it.
func (s *Store) Open(root string) (betterbing.PageTree, error) {
	if err := os.MkdirAll(root, 0755); err != nil {
		return nil, betterbing.Errorf(betterbing.EFILESYSTEM, "create output root %q: %w", root, err)
	}
	tree := NewTree(root)
	tree.logger = s.logger
	return tree, nil
}

// Tree writes page text as flat .txt files beneath a root directory.
// Writes go to a hidden temporary file first and are renamed into place,
// so an interrupted write never leaves a partial .txt file behind.
type Tree struct {
	root   string
	table  *PathTable
	logger *slog.Logger
}

// NewTree creates a Tree rooted at root. The directory must already exist.
func NewTree(root string) *Tree {
	return &Tree{
		root:  root,
		table: NewPathTable(),
	}
}

// Root returns the directory the tree writes into.
func (t *Tree) Root() string {
	return t.root
}

// Reserve maps rawURL to a destination path that no other URL in this tree
// has been given.
func (t *Tree) Reserve(rawURL string) (string, error) {
	path, err := MapPath(rawURL, t.root)
	if err != nil {
		return "", err
	}
	claimed, renamed := t.table.Claim(rawURL, path)
	if renamed && t.logger != nil {
		t.logger.Debug("path collision",
			"code", betterbing.ECONFLICT,
			"url", rawURL,
			"wanted", filepath.Base(path),
			"file", filepath.Base(claimed),
		)
	}
	return claimed, nil
}

// Write atomically replaces the file at page.Path with page.Text.
func (t *Tree) Write(ctx context.Context, page *betterbing.Page) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if page.Path == "" {
		return betterbing.Errorf(betterbing.EINVALID, "page %s has no reserved path", page.URL)
	}

	dir := filepath.Dir(page.Path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(page.Path)+".tmp-*")
	if err != nil {
		return betterbing.Errorf(betterbing.EFILESYSTEM, "create temp file for %s: %w", page.Path, err)
	}
	tmpName := tmp.Name()

	// Remove the temp file on any failure below; after a successful
	// rename there is nothing left at tmpName.
	committed := false
	defer func() {
		if !committed {
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.WriteString(page.Text); err != nil {
		_ = tmp.Close()
		return betterbing.Errorf(betterbing.EFILESYSTEM, "write %s: %w", page.Path, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return betterbing.Errorf(betterbing.EFILESYSTEM, "sync %s: %w", page.Path, err)
	}
	if err := tmp.Close(); err != nil {
		return betterbing.Errorf(betterbing.EFILESYSTEM, "close %s: %w", page.Path, err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return betterbing.Errorf(betterbing.EFILESYSTEM, "chmod %s: %w", page.Path, err)
	}
	if err := os.Rename(tmpName, page.Path); err != nil {
		return betterbing.Errorf(betterbing.EFILESYSTEM, "rename into %s: %w", page.Path, err)
	}
	committed = true
	return nil
}
