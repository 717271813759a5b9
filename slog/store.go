package slog

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	betterbing "github.com/huyouare/better-bing"
)

// Ensure LoggingPageStore implements betterbing.PageStore.
var _ betterbing.PageStore = (*LoggingPageStore)(nil)

// LoggingPageStore wraps a PageStore so that it and every tree it opens
// log their operations.
type LoggingPageStore struct {
	next   betterbing.PageStore
	logger *slog.Logger
}

// NewLoggingPageStore creates a new LoggingPageStore.
func NewLoggingPageStore(next betterbing.PageStore, logger *slog.Logger) *LoggingPageStore {
	return &LoggingPageStore{next: next, logger: logger}
}

// Open logs the output root and wraps the returned tree.
func (s *LoggingPageStore) Open(root string) (tree betterbing.PageTree, err error) {
	defer func() {
		s.logger.Info("open output",
			"root", root,
			"err", err,
		)
	}()
	tree, err = s.next.Open(root)
	if err != nil {
		return nil, err
	}
	return &LoggingPageTree{next: tree, logger: s.logger}, nil
}

// Ensure LoggingPageTree implements betterbing.PageTree.
var _ betterbing.PageTree = (*LoggingPageTree)(nil)

// LoggingPageTree wraps a PageTree with debug logging.
type LoggingPageTree struct {
	next   betterbing.PageTree
	logger *slog.Logger
}

// Root delegates to the wrapped tree.
func (t *LoggingPageTree) Root() string {
	return t.next.Root()
}

// Reserve logs the file a URL was assigned. Disambiguated names show up
// here as paths carrying a hash suffix.
func (t *LoggingPageTree) Reserve(rawURL string) (path string, err error) {
	defer func() {
		t.logger.Debug("reserve",
			"url", rawURL,
			"file", filepath.Base(path),
			"err", err,
		)
	}()
	return t.next.Reserve(rawURL)
}

// Write logs the destination and size of each page.
func (t *LoggingPageTree) Write(ctx context.Context, page *betterbing.Page) (err error) {
	defer func(begin time.Time) {
		t.logger.Info("write",
			"url", page.URL,
			"path", page.Path,
			"bytes", len(page.Text),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return t.next.Write(ctx, page)
}
