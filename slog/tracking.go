package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadbook"
)

// Ensure LoggingTrackingService implements leadbook.TrackingService.
var _ leadbook.TrackingService = (*LoggingTrackingService)(nil)

// LoggingTrackingService wraps a TrackingService with debug logging.
type LoggingTrackingService struct {
	next   leadbook.TrackingService
	logger *slog.Logger
}

// NewLoggingTrackingService creates a new LoggingTrackingService.
func NewLoggingTrackingService(next leadbook.TrackingService, logger *slog.Logger) *LoggingTrackingService {
	return &LoggingTrackingService{next: next, logger: logger}
}

// SaveTracking delegates to the wrapped service and logs the operation.
func (s *LoggingTrackingService) SaveTracking(ctx context.Context, businessID string, upd leadbook.TrackingUpdate) (tracking *leadbook.Tracking, err error) {
	defer func(begin time.Time) {
		attrs := []any{"business_id", businessID}
		if upd.Status != nil {
			attrs = append(attrs, "status", string(*upd.Status))
		}
		attrs = append(attrs, "duration", time.Since(begin), "err", err)
		s.logger.Info("save tracking", attrs...)
	}(time.Now())
	return s.next.SaveTracking(ctx, businessID, upd)
}

// FindTracking delegates to the wrapped service and logs the operation.
func (s *LoggingTrackingService) FindTracking(ctx context.Context, businessID string) (tracking *leadbook.Tracking, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find tracking",
			"business_id", businessID,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindTracking(ctx, businessID)
}

// FindAllTracking delegates to the wrapped service and logs the operation.
func (s *LoggingTrackingService) FindAllTracking(ctx context.Context) (table leadbook.TrackingTable, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find all tracking",
			"count", len(table),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAllTracking(ctx)
}
