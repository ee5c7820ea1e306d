package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/fwojciec/leadbook"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ leadbook.BusinessService = (*BusinessService)(nil)

// BusinessService implements leadbook.BusinessService using SQLite.
type BusinessService struct {
	db *DB
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(db *DB) *BusinessService {
	return &BusinessService{db: db}
}

const businessColumns = `id, external_id, name, category, address, city, state, phone, email,
	websites, demos, latitude, longitude, opening_hours, source, created_at, updated_at`

// CreateBusiness creates a new business.
func (s *BusinessService) CreateBusiness(ctx context.Context, business *leadbook.Business) error {
	if err := s.db.Available(); err != nil {
		return err
	}
	if err := prepareBusiness(s.db, business); err != nil {
		return err
	}
	_, err := s.insert(ctx, business, "")
	return err
}

// EnsureBusiness creates business unless one with the same external ID exists.
func (s *BusinessService) EnsureBusiness(ctx context.Context, business *leadbook.Business) (bool, error) {
	if err := s.db.Available(); err != nil {
		return false, err
	}
	if business.ExternalID == "" {
		return true, s.CreateBusiness(ctx, business)
	}
	if err := prepareBusiness(s.db, business); err != nil {
		return false, err
	}

	result, err := s.insert(ctx, business, " ON CONFLICT (external_id) DO NOTHING")
	if err != nil {
		return false, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 1 {
		return true, nil
	}

	existing, err := s.findOne(ctx, "external_id = ?", business.ExternalID)
	if err != nil {
		return false, err
	}
	*business = *existing
	return false, nil
}

// prepareBusiness validates business and assigns its ID, timestamps and
// default source.
func prepareBusiness(db *DB, business *leadbook.Business) error {
	if business.Source == "" {
		business.Source = leadbook.SourceManual
	}
	if err := business.ValidateForInsert(); err != nil {
		return err
	}

	business.ID = uuid.New().String()
	now := db.now()
	business.CreatedAt = now
	business.UpdatedAt = now
	return nil
}

func (s *BusinessService) insert(ctx context.Context, b *leadbook.Business, onConflict string) (sql.Result, error) {
	websites, demos, err := encodeURLs(b)
	if err != nil {
		return nil, err
	}

	return s.db.ExecContext(ctx, `
		INSERT INTO businesses (`+businessColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`+onConflict,
		b.ID, nullString(b.ExternalID), b.Name, b.Category, b.Address, b.City, b.State, b.Phone, b.Email,
		websites, demos, nullFloat(b.Latitude), nullFloat(b.Longitude), b.OpeningHours, string(b.Source),
		formatTime(b.CreatedAt), formatTime(b.UpdatedAt))
}

// FindBusinessByID retrieves a business by ID.
func (s *BusinessService) FindBusinessByID(ctx context.Context, id string) (*leadbook.Business, error) {
	if err := s.db.Available(); err != nil {
		return nil, err
	}
	return s.findOne(ctx, "id = ?", id)
}

func (s *BusinessService) findOne(ctx context.Context, where string, arg any) (*leadbook.Business, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT "+businessColumns+" FROM businesses WHERE "+where, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, leadbook.Errorf(leadbook.ENOTFOUND, "business not found")
	}
	return scanBusiness(rows)
}

// FindBusinesses retrieves businesses matching the filter.
func (s *BusinessService) FindBusinesses(ctx context.Context, filter leadbook.BusinessFilter) ([]*leadbook.Business, error) {
	if err := s.db.Available(); err != nil {
		return nil, err
	}

	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + businessColumns + " FROM businesses WHERE 1=1")

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.ExternalID != nil {
		query.WriteString(" AND external_id = ?")
		args = append(args, *filter.ExternalID)
	}
	if filter.Category != nil {
		query.WriteString(" AND category = ?")
		args = append(args, *filter.Category)
	}

	query.WriteString(" ORDER BY created_at DESC, rowid DESC")

	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	businesses := []*leadbook.Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, err
		}
		businesses = append(businesses, b)
	}

	return businesses, rows.Err()
}

// UpdateBusiness updates an existing business.
func (s *BusinessService) UpdateBusiness(ctx context.Context, id string, upd leadbook.BusinessUpdate) (*leadbook.Business, error) {
	if err := leadbook.ValidatePersistedID(id); err != nil {
		return nil, err
	}

	// First check if business exists
	business, err := s.FindBusinessByID(ctx, id)
	if err != nil {
		return nil, err
	}

	business.Apply(upd)

	// Validate before persisting
	if err := business.Validate(); err != nil {
		return nil, err
	}

	business.UpdatedAt = s.db.now()

	websites, demos, err := encodeURLs(business)
	if err != nil {
		return nil, err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE businesses
		SET name = ?, category = ?, address = ?, city = ?, state = ?, phone = ?, email = ?,
			websites = ?, demos = ?, latitude = ?, longitude = ?, opening_hours = ?, updated_at = ?
		WHERE id = ?
	`, business.Name, business.Category, business.Address, business.City, business.State,
		business.Phone, business.Email, websites, demos,
		nullFloat(business.Latitude), nullFloat(business.Longitude), business.OpeningHours,
		formatTime(business.UpdatedAt), id)
	if err != nil {
		return nil, err
	}
	n, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, leadbook.Errorf(leadbook.ENOTFOUND, "business not found")
	}

	return business, nil
}

// DeleteBusiness permanently removes a business. Its tracking entry is
// removed by the foreign key cascade.
func (s *BusinessService) DeleteBusiness(ctx context.Context, id string) error {
	if err := leadbook.ValidatePersistedID(id); err != nil {
		return err
	}
	if err := s.db.Available(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM businesses WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return leadbook.Errorf(leadbook.ENOTFOUND, "business not found")
	}

	return nil
}

// scanBusiness reads one row selected with businessColumns.
func scanBusiness(rows *sql.Rows) (*leadbook.Business, error) {
	var b leadbook.Business
	var externalID sql.NullString
	var websites, demos, source, createdAt, updatedAt string
	var lat, lng sql.NullFloat64

	if err := rows.Scan(&b.ID, &externalID, &b.Name, &b.Category, &b.Address, &b.City, &b.State,
		&b.Phone, &b.Email, &websites, &demos, &lat, &lng, &b.OpeningHours, &source,
		&createdAt, &updatedAt); err != nil {
		return nil, err
	}

	b.ExternalID = externalID.String
	b.Source = leadbook.Source(source)
	if lat.Valid {
		b.Latitude = &lat.Float64
	}
	if lng.Valid {
		b.Longitude = &lng.Float64
	}

	var err error
	if b.Websites, err = leadbook.NormalizeURLs(json.RawMessage(websites)); err != nil {
		return nil, fmt.Errorf("failed to parse websites: %w", err)
	}
	if b.Demos, err = leadbook.NormalizeURLs(json.RawMessage(demos)); err != nil {
		return nil, fmt.Errorf("failed to parse demos: %w", err)
	}
	if b.CreatedAt, err = parseTimestamp(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if b.UpdatedAt, err = parseTimestamp(updatedAt, "updated_at"); err != nil {
		return nil, err
	}

	return &b, nil
}

// encodeURLs renders the URL lists as JSON arrays.
func encodeURLs(b *leadbook.Business) (websites, demos string, err error) {
	w, err := json.Marshal(nonNil(b.Websites))
	if err != nil {
		return "", "", err
	}
	d, err := json.Marshal(nonNil(b.Demos))
	if err != nil {
		return "", "", err
	}
	return string(w), string(d), nil
}

func nonNil(l leadbook.URLList) []string {
	if l == nil {
		return []string{}
	}
	return l
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
