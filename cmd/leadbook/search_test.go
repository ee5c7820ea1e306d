package main_test

import (
	"context"
	"testing"

	"github.com/fwojciec/leadbook"
	main "github.com/fwojciec/leadbook/cmd/leadbook"
	"github.com/fwojciec/leadbook/mock"
	"github.com/fwojciec/leadbook/reconcile"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSearchCmd_Run(t *testing.T) {
	t.Parallel()

	results := func() []*leadbook.Business {
		return []*leadbook.Business{
			{ExternalID: "node/1", Name: "Corner Cafe", Phone: "555-0100"},
			{ExternalID: "node/2", Name: "Bean There"},
		}
	}

	t.Run("converts the radius and marks saved results", func(t *testing.T) {
		t.Parallel()

		var got leadbook.SearchQuery
		deps, stdout, _ := newDeps()
		deps.Searcher = &mock.Searcher{
			SearchFn: func(_ context.Context, q leadbook.SearchQuery) ([]*leadbook.Business, error) {
				got = q
				return results(), nil
			},
		}
		deps.Businesses = &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return []*leadbook.Business{{ID: "biz-1", ExternalID: "node/1"}}, nil
			},
		}

		err := (&main.SearchCmd{Location: "Springfield", Category: "cafe", Radius: 5}).Run(deps)

		require.NoError(t, err)
		assert.Equal(t, leadbook.SearchQuery{Location: "Springfield", Category: "cafe", RadiusMeters: 8047}, got)
		output := stdout.String()
		assert.Contains(t, output, "Found 2 businesses (1 already saved)")
		assert.Contains(t, output, "biz-1  Corner Cafe  555-0100  (saved)")
		assert.Contains(t, output, leadbook.EphemeralPrefix)
	})

	t.Run("saves every unsaved result with --save-all", func(t *testing.T) {
		t.Parallel()

		var ensured []string
		deps, stdout, _ := newDeps()
		deps.Searcher = &mock.Searcher{
			SearchFn: func(context.Context, leadbook.SearchQuery) ([]*leadbook.Business, error) {
				return results(), nil
			},
		}
		deps.Businesses = &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, nil
			},
			EnsureBusinessFn: func(_ context.Context, b *leadbook.Business) (bool, error) {
				ensured = append(ensured, b.ExternalID)
				b.ID = "biz-" + b.ExternalID
				return true, nil
			},
		}

		err := (&main.SearchCmd{Location: "Springfield", Category: "cafe", Radius: 1, SaveAll: true}).Run(deps)

		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"node/1", "node/2"}, ensured)
		assert.Contains(t, stdout.String(), `Saved "Corner Cafe" (biz-node/1)`)
		assert.Contains(t, stdout.String(), `Saved "Bean There" (biz-node/2)`)
	})

	t.Run("keeps saving after a failed save", func(t *testing.T) {
		t.Parallel()

		var ensured []string
		deps, stdout, stderr := newDeps()
		deps.Searcher = &mock.Searcher{
			SearchFn: func(context.Context, leadbook.SearchQuery) ([]*leadbook.Business, error) {
				return results(), nil
			},
		}
		deps.Businesses = &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, nil
			},
			EnsureBusinessFn: func(_ context.Context, b *leadbook.Business) (bool, error) {
				ensured = append(ensured, b.ExternalID)
				if b.ExternalID == "node/1" {
					return false, leadbook.Errorf(leadbook.EINTERNAL, "disk full")
				}
				b.ID = "biz-" + b.ExternalID
				return true, nil
			},
		}

		err := (&main.SearchCmd{Location: "Springfield", Category: "cafe", Radius: 1, SaveAll: true}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, leadbook.EINTERNAL, leadbook.ErrorCode(err))
		assert.ElementsMatch(t, []string{"node/1", "node/2"}, ensured)
		assert.Contains(t, stdout.String(), `Saved "Bean There" (biz-node/2)`)
		assert.Contains(t, stderr.String(), "error: failed to save search-")
		assert.Contains(t, stderr.String(), "disk full")
		assert.Contains(t, stderr.String(), "1 of 2 saves failed")
	})

	t.Run("saves a single result by ID", func(t *testing.T) {
		t.Parallel()

		target := reconcile.EphemeralID(&leadbook.Business{ExternalID: "node/2"})
		deps, stdout, _ := newDeps()
		deps.Searcher = &mock.Searcher{
			SearchFn: func(context.Context, leadbook.SearchQuery) ([]*leadbook.Business, error) {
				return results(), nil
			},
		}
		deps.Businesses = &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, nil
			},
			EnsureBusinessFn: func(_ context.Context, b *leadbook.Business) (bool, error) {
				assert.Equal(t, "node/2", b.ExternalID)
				b.ID = "biz-2"
				return true, nil
			},
		}

		err := (&main.SearchCmd{Location: "Springfield", Category: "cafe", Radius: 1, Save: []string{target}}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), `Saved "Bean There" (biz-2)`)
	})

	t.Run("reports search failures", func(t *testing.T) {
		t.Parallel()

		deps, _, stderr := newDeps()
		deps.Searcher = &mock.Searcher{
			SearchFn: func(context.Context, leadbook.SearchQuery) ([]*leadbook.Business, error) {
				return nil, leadbook.Errorf(leadbook.ENETWORK, "Server error: 503")
			},
		}
		deps.Businesses = &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, nil
			},
		}

		err := (&main.SearchCmd{Location: "Springfield", Category: "cafe", Radius: 1}).Run(deps)

		require.Error(t, err)
		assert.Equal(t, leadbook.ENETWORK, leadbook.ErrorCode(err))
		assert.Contains(t, stderr.String(), "error: Server error: 503")
	})

	t.Run("shows a hint when nothing is found", func(t *testing.T) {
		t.Parallel()

		deps, stdout, _ := newDeps()
		deps.Searcher = &mock.Searcher{
			SearchFn: func(context.Context, leadbook.SearchQuery) ([]*leadbook.Business, error) {
				return nil, nil
			},
		}
		deps.Businesses = &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, nil
			},
		}

		err := (&main.SearchCmd{Location: "Nowhere", Category: "zoo", Radius: 1}).Run(deps)

		require.NoError(t, err)
		assert.Contains(t, stdout.String(), "No businesses found")
	})
}
