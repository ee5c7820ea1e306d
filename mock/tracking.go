package mock

import (
	"context"

	"github.com/fwojciec/leadbook"
)

var _ leadbook.TrackingService = (*TrackingService)(nil)

// TrackingService is a mock implementation of leadbook.TrackingService.
type TrackingService struct {
	SaveTrackingFn    func(ctx context.Context, businessID string, upd leadbook.TrackingUpdate) (*leadbook.Tracking, error)
	FindTrackingFn    func(ctx context.Context, businessID string) (*leadbook.Tracking, error)
	FindAllTrackingFn func(ctx context.Context) (leadbook.TrackingTable, error)
}

func (s *TrackingService) SaveTracking(ctx context.Context, businessID string, upd leadbook.TrackingUpdate) (*leadbook.Tracking, error) {
	return s.SaveTrackingFn(ctx, businessID, upd)
}

func (s *TrackingService) FindTracking(ctx context.Context, businessID string) (*leadbook.Tracking, error) {
	return s.FindTrackingFn(ctx, businessID)
}

func (s *TrackingService) FindAllTracking(ctx context.Context) (leadbook.TrackingTable, error) {
	return s.FindAllTrackingFn(ctx)
}
