package sqlite

import (
	"context"
	"database/sql"

	"github.com/fwojciec/leadbook"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ leadbook.TrackingService = (*TrackingService)(nil)

// TrackingService implements leadbook.TrackingService using SQLite.
type TrackingService struct {
	db *DB
}

// NewTrackingService creates a new TrackingService.
func NewTrackingService(db *DB) *TrackingService {
	return &TrackingService{db: db}
}

// SaveTracking creates or updates the tracking entry for a business in a
// single upsert keyed by business ID.
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
	now := formatTime(s.db.now())

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO tracking (id, business_id, status, notes, created_at, updated_at)
		VALUES (?, ?, COALESCE(?, 'none'), COALESCE(?, ''), ?, ?)
		ON CONFLICT (business_id) DO UPDATE
		SET status = COALESCE(?, status), notes = COALESCE(?, notes), updated_at = excluded.updated_at
	`, uuid.New().String(), businessID, status, notes, now, now, status, notes)
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

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, status, notes, created_at, updated_at
		FROM tracking
		WHERE business_id = ?
	`, businessID)
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

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, business_id, status, notes, created_at, updated_at
		FROM tracking
	`)
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
	var status, createdAt, updatedAt string

	if err := rows.Scan(&t.ID, &t.BusinessID, &status, &t.Notes, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	t.Status = leadbook.Status(status)

	var err error
	if t.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if t.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &t, nil
}
