package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/leadbook"
)

// Ensure LoggingSearcher implements leadbook.Searcher.
var _ leadbook.Searcher = (*LoggingSearcher)(nil)

// LoggingSearcher wraps a Searcher with debug logging.
type LoggingSearcher struct {
	next   leadbook.Searcher
	logger *slog.Logger
}

// NewLoggingSearcher creates a new LoggingSearcher.
func NewLoggingSearcher(next leadbook.Searcher, logger *slog.Logger) *LoggingSearcher {
	return &LoggingSearcher{next: next, logger: logger}
}

// Search delegates to the wrapped searcher and logs the query.
func (s *LoggingSearcher) Search(ctx context.Context, q leadbook.SearchQuery) (businesses []*leadbook.Business, err error) {
	defer func(begin time.Time) {
		s.logger.Info("search",
			"location", q.Location,
			"category", q.Category,
			"radius", q.RadiusMeters,
			"count", len(businesses),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Search(ctx, q)
}
