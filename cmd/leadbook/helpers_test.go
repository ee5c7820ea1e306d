package main_test

import (
	"bytes"
	"context"
	"time"

	"github.com/fwojciec/leadbook"
	main "github.com/fwojciec/leadbook/cmd/leadbook"
	"github.com/fwojciec/leadbook/mock"
)

func ptr[T any](v T) *T { return &v }

// newDeps returns dependencies writing to fresh buffers.
func newDeps() (*main.Dependencies, *bytes.Buffer, *bytes.Buffer) {
	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	return &main.Dependencies{
		Ctx:      context.Background(),
		Stdout:   stdout,
		Stderr:   stderr,
		Location: time.UTC,
		Now:      func() time.Time { return time.Date(2025, 3, 4, 12, 0, 0, 0, time.UTC) },
	}, stdout, stderr
}

// savedStore returns mocks serving a fixed set of businesses and tracking.
func savedStore(businesses []*leadbook.Business, tracking leadbook.TrackingTable) (*mock.BusinessService, *mock.TrackingService) {
	return &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return businesses, nil
			},
		}, &mock.TrackingService{
			FindAllTrackingFn: func(context.Context) (leadbook.TrackingTable, error) {
				return tracking, nil
			},
		}
}

func unavailableStore() (*mock.BusinessService, *mock.TrackingService) {
	err := leadbook.Errorf(leadbook.EUNAVAILABLE, "database is not open")
	return &mock.BusinessService{
			FindBusinessesFn: func(context.Context, leadbook.BusinessFilter) ([]*leadbook.Business, error) {
				return nil, err
			},
			CreateBusinessFn: func(context.Context, *leadbook.Business) error {
				return err
			},
		}, &mock.TrackingService{
			FindAllTrackingFn: func(context.Context) (leadbook.TrackingTable, error) {
				return nil, err
			},
		}
}
