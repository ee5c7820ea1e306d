package slog_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/fwojciec/leadbook"
	"github.com/fwojciec/leadbook/mock"
	lbslog "github.com/fwojciec/leadbook/slog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLogger() (*slog.Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	return slog.New(slog.NewTextHandler(&buf, nil)), &buf
}

func TestLoggingBusinessService(t *testing.T) {
	t.Parallel()

	t.Run("logs ensure with created flag and external ID", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.BusinessService{
			EnsureBusinessFn: func(_ context.Context, b *leadbook.Business) (bool, error) {
				b.ID = "biz-1"
				return true, nil
			},
		}

		svc := lbslog.NewLoggingBusinessService(inner, logger)
		created, err := svc.EnsureBusiness(context.Background(), &leadbook.Business{Name: "Cafe", ExternalID: "node/1"})

		require.NoError(t, err)
		assert.True(t, created)
		output := buf.String()
		assert.Contains(t, output, "ensure business")
		assert.Contains(t, output, "id=biz-1")
		assert.Contains(t, output, "external_id=node/1")
		assert.Contains(t, output, "created=true")
		assert.Contains(t, output, "duration=")
	})

	t.Run("logs find businesses with count", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return []*leadbook.Business{{Name: "A"}, {Name: "B"}}, nil
			},
		}

		svc := lbslog.NewLoggingBusinessService(inner, logger)
		businesses, err := svc.FindBusinesses(context.Background(), leadbook.BusinessFilter{Limit: 10})

		require.NoError(t, err)
		assert.Len(t, businesses, 2)
		assert.Contains(t, buf.String(), "count=2")
		assert.Contains(t, buf.String(), "limit=10")
	})

	t.Run("logs error on failure", func(t *testing.T) {
		t.Parallel()

		logger, buf := newLogger()
		inner := &mock.BusinessService{
			DeleteBusinessFn: func(context.Context, string) error {
				return errors.New("disk full")
			},
		}

		svc := lbslog.NewLoggingBusinessService(inner, logger)
		err := svc.DeleteBusiness(context.Background(), "biz-1")

		require.Error(t, err)
		assert.Contains(t, buf.String(), "delete business")
		assert.Contains(t, buf.String(), "err=\"disk full\"")
	})
}

func TestLoggingTrackingService_SaveTracking(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &mock.TrackingService{
		SaveTrackingFn: func(_ context.Context, businessID string, upd leadbook.TrackingUpdate) (*leadbook.Tracking, error) {
			return &leadbook.Tracking{BusinessID: businessID, Status: *upd.Status}, nil
		},
	}

	status := leadbook.StatusContacted
	svc := lbslog.NewLoggingTrackingService(inner, logger)
	tr, err := svc.SaveTracking(context.Background(), "biz-1", leadbook.TrackingUpdate{Status: &status})

	require.NoError(t, err)
	assert.Equal(t, leadbook.StatusContacted, tr.Status)
	assert.Contains(t, buf.String(), "save tracking")
	assert.Contains(t, buf.String(), "business_id=biz-1")
	assert.Contains(t, buf.String(), "status=contacted")
}

func TestLoggingSearcher_Search(t *testing.T) {
	t.Parallel()

	logger, buf := newLogger()
	inner := &mock.Searcher{
		SearchFn: func(context.Context, leadbook.SearchQuery) ([]*leadbook.Business, error) {
			return nil, leadbook.Errorf(leadbook.ENETWORK, "Server error: 503")
		},
	}

	svc := lbslog.NewLoggingSearcher(inner, logger)
	_, err := svc.Search(context.Background(), leadbook.SearchQuery{Location: "Springfield", Category: "cafe", RadiusMeters: 1609})

	require.Error(t, err)
	output := buf.String()
	assert.Contains(t, output, "msg=search")
	assert.Contains(t, output, "location=Springfield")
	assert.Contains(t, output, "radius=1609")
	assert.Contains(t, output, "count=0")
	assert.Contains(t, output, "err=")
}
