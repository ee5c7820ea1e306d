package mock

import (
	"context"

	"github.com/fwojciec/leadbook"
)

var (
	_ leadbook.Searcher       = (*Searcher)(nil)
	_ leadbook.CategoryLister = (*CategoryLister)(nil)
)

// Searcher is a mock implementation of leadbook.Searcher.
type Searcher struct {
	SearchFn func(ctx context.Context, q leadbook.SearchQuery) ([]*leadbook.Business, error)
}

func (s *Searcher) Search(ctx context.Context, q leadbook.SearchQuery) ([]*leadbook.Business, error) {
	return s.SearchFn(ctx, q)
}

// CategoryLister is a mock implementation of leadbook.CategoryLister.
type CategoryLister struct {
	CategoriesFn func(ctx context.Context) (map[string]string, error)
}

func (l *CategoryLister) Categories(ctx context.Context) (map[string]string, error) {
	return l.CategoriesFn(ctx)
}
