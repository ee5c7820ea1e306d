package reconcile_test

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/leadbook"
	"github.com/fwojciec/leadbook/mock"
	"github.com/fwojciec/leadbook/reconcile"
	"github.com/fwojciec/leadbook/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestClassify(t *testing.T) {
	t.Parallel()

	t.Run("marks candidates with a saved external ID as saved", func(t *testing.T) {
		t.Parallel()

		candidates := []*leadbook.Business{
			{ExternalID: "node/1", Name: "Corner Cafe"},
			{ExternalID: "node/2", Name: "Bean There"},
		}
		saved := []*leadbook.Business{{ID: "biz-1", ExternalID: "node/1", Name: "Corner Cafe"}}

		out := reconcile.Classify(candidates, saved)

		require.Len(t, out, 2)
		assert.True(t, out[0].Saved)
		assert.Equal(t, "biz-1", out[0].Business.ID)
		assert.False(t, out[1].Saved)
		assert.True(t, strings.HasPrefix(out[1].Business.ID, leadbook.EphemeralPrefix))
	})

	t.Run("is deterministic", func(t *testing.T) {
		t.Parallel()

		candidates := []*leadbook.Business{
			{ExternalID: "node/7", Name: "A"},
			{Name: "No External", Address: "1 Main St"},
		}

		first := reconcile.Classify(candidates, nil)
		second := reconcile.Classify(candidates, nil)

		assert.Equal(t, first, second)
		assert.NotEqual(t, first[0].Business.ID, first[1].Business.ID)
	})

	t.Run("does not modify its inputs", func(t *testing.T) {
		t.Parallel()

		candidate := &leadbook.Business{ExternalID: "node/1", Name: "A"}
		reconcile.Classify([]*leadbook.Business{candidate}, []*leadbook.Business{{ID: "biz-1", ExternalID: "node/1"}})

		assert.Empty(t, candidate.ID)
	})

	t.Run("never matches on an empty external ID", func(t *testing.T) {
		t.Parallel()

		out := reconcile.Classify(
			[]*leadbook.Business{{Name: "Manual twin"}},
			[]*leadbook.Business{{ID: "biz-1", Name: "Manual twin"}},
		)

		require.Len(t, out, 1)
		assert.False(t, out[0].Saved)
	})
}

func TestReconciler_Save(t *testing.T) {
	t.Parallel()

	t.Run("returns an already-saved candidate without touching the store", func(t *testing.T) {
		t.Parallel()

		r := reconcile.NewReconciler(&mock.BusinessService{}, nil)
		c := &reconcile.Candidate{Business: &leadbook.Business{ID: "biz-1"}, Saved: true}

		result, err := r.Save(context.Background(), c)
		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.Equal(t, "biz-1", result.Business.ID)
	})

	t.Run("returns the existing record when the external ID was saved elsewhere", func(t *testing.T) {
		t.Parallel()

		existing := &leadbook.Business{ID: "biz-9", ExternalID: "node/1", Name: "Corner Cafe"}
		businesses := &mock.BusinessService{
			FindBusinessesFn: func(_ context.Context, filter leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				require.NotNil(t, filter.ExternalID)
				assert.Equal(t, "node/1", *filter.ExternalID)
				return []*leadbook.Business{existing}, nil
			},
			EnsureBusinessFn: func(context.Context, *leadbook.Business) (bool, error) {
				t.Fatal("EnsureBusiness should not be called")
				return false, nil
			},
		}

		r := reconcile.NewReconciler(businesses, nil)
		candidates := reconcile.Classify([]*leadbook.Business{{ExternalID: "node/1", Name: "Corner Cafe"}}, nil)

		result, err := r.Save(context.Background(), candidates[0])
		require.NoError(t, err)
		assert.False(t, result.Created)
		assert.Same(t, existing, result.Business)
	})

	t.Run("writes a new record with the search source and no ephemeral ID", func(t *testing.T) {
		t.Parallel()

		var written *leadbook.Business
		businesses := &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, nil
			},
			EnsureBusinessFn: func(_ context.Context, b *leadbook.Business) (bool, error) {
				assert.Empty(t, b.ID)
				written = b
				b.ID = "biz-1"
				return true, nil
			},
		}

		r := reconcile.NewReconciler(businesses, nil)
		candidates := reconcile.Classify([]*leadbook.Business{{ExternalID: "node/1", Name: "Corner Cafe", Phone: "555-0100"}}, nil)

		result, err := r.Save(context.Background(), candidates[0])
		require.NoError(t, err)
		assert.True(t, result.Created)
		assert.Equal(t, "biz-1", result.Business.ID)
		assert.Equal(t, leadbook.SourceSearch, written.Source)
		assert.Equal(t, "555-0100", written.Phone)
		assert.True(t, strings.HasPrefix(candidates[0].Business.ID, leadbook.EphemeralPrefix), "candidate keeps its ephemeral ID")
	})

	t.Run("propagates store errors", func(t *testing.T) {
		t.Parallel()

		businesses := &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, leadbook.Errorf(leadbook.EUNAVAILABLE, "offline")
			},
		}

		r := reconcile.NewReconciler(businesses, nil)
		candidates := reconcile.Classify([]*leadbook.Business{{ExternalID: "node/1", Name: "A"}}, nil)

		_, err := r.Save(context.Background(), candidates[0])
		assert.Equal(t, leadbook.EUNAVAILABLE, leadbook.ErrorCode(err))
	})

	t.Run("saving twice persists exactly one record", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		t.Cleanup(func() { db.Close() })
		businesses := sqlite.NewBusinessService(db)

		r := reconcile.NewReconciler(businesses, nil)
		candidates := reconcile.Classify([]*leadbook.Business{{ExternalID: "node/1", Name: "Corner Cafe"}}, nil)
		ctx := context.Background()

		first, err := r.Save(ctx, candidates[0])
		require.NoError(t, err)
		second, err := r.Save(ctx, candidates[0])
		require.NoError(t, err)

		assert.True(t, first.Created)
		assert.False(t, second.Created)
		assert.Equal(t, first.Business.ID, second.Business.ID)

		all, err := businesses.FindBusinesses(ctx, leadbook.BusinessFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
	})

	t.Run("persists results with scheme-less websites or no name", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		t.Cleanup(func() { db.Close() })
		businesses := sqlite.NewBusinessService(db)

		r := reconcile.NewReconciler(businesses, nil)
		candidates := reconcile.Classify([]*leadbook.Business{
			{ExternalID: "node/1", Name: "Joe's", Websites: leadbook.URLList{"www.joes.com"}},
			{ExternalID: "node/2"},
		}, nil)
		ctx := context.Background()

		for _, c := range candidates {
			result, err := r.Save(ctx, c)
			require.NoError(t, err)
			assert.True(t, result.Created)
		}

		saved, err := businesses.FindBusinesses(ctx, leadbook.BusinessFilter{ExternalID: ptr("node/1")})
		require.NoError(t, err)
		require.Len(t, saved, 1)
		assert.Equal(t, leadbook.URLList{"www.joes.com"}, saved[0].Websites)

		all, err := businesses.FindBusinesses(ctx, leadbook.BusinessFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 2)
	})

	t.Run("concurrent saves persist exactly one record", func(t *testing.T) {
		t.Parallel()

		db := sqlite.NewDB(":memory:")
		require.NoError(t, db.Open())
		t.Cleanup(func() { db.Close() })
		businesses := sqlite.NewBusinessService(db)

		r := reconcile.NewReconciler(businesses, nil)
		candidates := reconcile.Classify([]*leadbook.Business{{ExternalID: "way/5", Name: "Bean There"}}, nil)
		ctx := context.Background()

		var wg sync.WaitGroup
		var created atomic.Int32
		for range 8 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				result, err := r.Save(ctx, candidates[0])
				assert.NoError(t, err)
				if err == nil && result.Created {
					created.Add(1)
				}
			}()
		}
		wg.Wait()

		all, err := businesses.FindBusinesses(ctx, leadbook.BusinessFilter{})
		require.NoError(t, err)
		assert.Len(t, all, 1)
		assert.GreaterOrEqual(t, created.Load(), int32(1))
	})
}
