// Package slog provides logging decorators for leadbook services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadbook"
)

// Ensure LoggingBusinessService implements leadbook.BusinessService.
var _ leadbook.BusinessService = (*LoggingBusinessService)(nil)

// LoggingBusinessService wraps a BusinessService with debug logging.
type LoggingBusinessService struct {
	next   leadbook.BusinessService
	logger *slog.Logger
}

// NewLoggingBusinessService creates a new LoggingBusinessService.
func NewLoggingBusinessService(next leadbook.BusinessService, logger *slog.Logger) *LoggingBusinessService {
	return &LoggingBusinessService{next: next, logger: logger}
}

// CreateBusiness delegates to the wrapped service and logs the operation.
func (s *LoggingBusinessService) CreateBusiness(ctx context.Context, business *leadbook.Business) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("create business",
			"id", business.ID,
			"name", business.Name,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateBusiness(ctx, business)
}

// EnsureBusiness delegates to the wrapped service and logs the operation.
func (s *LoggingBusinessService) EnsureBusiness(ctx context.Context, business *leadbook.Business) (created bool, err error) {
	defer func(begin time.Time) {
		s.logger.Info("ensure business",
			"id", business.ID,
			"external_id", business.ExternalID,
			"created", created,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.EnsureBusiness(ctx, business)
}

// FindBusinessByID delegates to the wrapped service and logs the operation.
func (s *LoggingBusinessService) FindBusinessByID(ctx context.Context, id string) (business *leadbook.Business, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find business",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindBusinessByID(ctx, id)
}

// FindBusinesses delegates to the wrapped service and logs the operation.
func (s *LoggingBusinessService) FindBusinesses(ctx context.Context, filter leadbook.BusinessFilter) (businesses []*leadbook.Business, err error) {
	defer func(begin time.Time) {
		s.logger.Info("find businesses",
			"count", len(businesses),
			"offset", filter.Offset,
			"limit", filter.Limit,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindBusinesses(ctx, filter)
}

// UpdateBusiness delegates to the wrapped service and logs the operation.
func (s *LoggingBusinessService) UpdateBusiness(ctx context.Context, id string, upd leadbook.BusinessUpdate) (business *leadbook.Business, err error) {
	defer func(begin time.Time) {
		s.logger.Info("update business",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.UpdateBusiness(ctx, id, upd)
}

// DeleteBusiness delegates to the wrapped service and logs the operation.
func (s *LoggingBusinessService) DeleteBusiness(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Info("delete business",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteBusiness(ctx, id)
}
