package mock

import (
	"context"

	betterbing "github.com/huyouare/better-bing"
)

var _ betterbing.PageStore = (*PageStore)(nil)

// PageStore is a mock implementation of betterbing.PageStore.
type PageStore struct {
	OpenFn func(root string) (betterbing.PageTree, error)
}

func (s *PageStore) Open(root string) (betterbing.PageTree, error) {
	return s.OpenFn(root)
}

var _ betterbing.PageTree = (*PageTree)(nil)

// PageTree is a mock implementation of betterbing.PageTree.
type PageTree struct {
	RootFn    func() string
	ReserveFn func(rawURL string) (string, error)
	WriteFn   func(ctx context.Context, page *betterbing.Page) error
}

func (t *PageTree) Root() string {
	return t.RootFn()
}

func (t *PageTree) Reserve(rawURL string) (string, error) {
	return t.ReserveFn(rawURL)
}

func (t *PageTree) Write(ctx context.Context, page *betterbing.Page) error {
	return t.WriteFn(ctx, page)
}
