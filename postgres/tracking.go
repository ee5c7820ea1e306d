package postgres

import (
	"context"
	"database/sql"

	"github.com/fwojciec/leadbook"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ leadbook.TrackingService = (*TrackingService)(nil)

// TrackingService implements leadbook.TrackingService using Postgres.
type TrackingService struct {
	db *DB
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(db *DB) *TrackingService {
	return &TrackingService{db: db}
}

const selectTracking = `SELECT id, business_id, status, notes, created_at, updated_at FROM tracking`

// SaveTracking creates or updates the tracking entry for a business.
func (s *TrackingService) SaveTracking(ctx context.Context, businessID string, upd leadbook.TrackingUpdate) (*leadbook.Tracking, error) {
	if err := leadbook.ValidatePersistedID(businessID); err != nil {
		return nil, err
	}
	if err := upd.Validate(); err != nil {
		return nil, err
	}
	if err := s.db.Available(); err != nil {
		return nil, err
	}

	var status, notes sql.NullString
	if upd.Status != nil {
		status = sql.NullString{String: string(*upd.Status), Valid: true}
	}
	if upd.Notes != nil {
		notes = sql.NullString{String: *upd.Notes, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracking (id, business_id, status, notes, created_at, updated_at)
		VALUES ($1, $2, COALESCE($3, 'none'), COALESCE($4, ''), $5, $5)
		ON CONFLICT (business_id) DO UPDATE
		SET status = COALESCE($3, tracking.status),
			notes = COALESCE($4, tracking.notes),
			updated_at = EXCLUDED.updated_at
	`, uuid.New().String(), businessID, status, notes, s.db.now())
	if err != nil {
		return nil, err
	}

	return s.FindTracking(ctx, businessID)
}

// FindTracking retrieves the tracking entry for a business.
func (s *TrackingService) FindTracking(ctx context.Context, businessID string) (*leadbook.Tracking, error) {
	if err := s.db.Available(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectTracking+" WHERE business_id = $1", businessID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, leadbook.Errorf(leadbook.ENOTFOUND, "tracking not found")
	}
	return scanTracking(rows)
}

// FindAllTracking retrieves every tracking entry keyed by business ID.
func (s *TrackingService) FindAllTracking(ctx context.Context) (leadbook.TrackingTable, error) {
	if err := s.db.Available(); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, selectTracking)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	table := leadbook.TrackingTable{}
	for rows.Next() {
		t, err := scanTracking(rows)
		if err != nil {
			return nil, err
		}
		table[t.BusinessID] = t
	}
	return table, rows.Err()
}

func scanTracking(rows *sql.Rows) (*leadbook.Tracking, error) {
	var t leadbook.Tracking
	var status string
	if err := rows.Scan(&t.ID, &t.BusinessID, &status, &t.Notes, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, err
	}
	t.Status = leadbook.Status(status)
	t.CreatedAt = t.CreatedAt.UTC()
	t.UpdatedAt = t.UpdatedAt.UTC()
	return &t, nil
}
