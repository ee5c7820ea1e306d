package postgres

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

// BusinessService implements leadbook.BusinessService using Postgres.
type BusinessService struct {
	db *DB
}

// NewBusinessService creates a new BusinessService.
func NewBusinessService(db *DB) *BusinessService {
	return &BusinessService{db: db}
}

const selectBusiness = `SELECT id, COALESCE(external_id, ''), name, category, address, city, state,
	phone, email, websites::text, demos::text, latitude, longitude, opening_hours, source,
	created_at, updated_at FROM businesses`

const insertBusiness = `INSERT INTO businesses (id, external_id, name, category, address, city, state,
	phone, email, websites, demos, latitude, longitude, opening_hours, source, created_at, updated_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10::jsonb, $11::jsonb, $12, $13, $14, $15, $16, $17)`

// CreateBusiness creates a new business.
func (s *BusinessService) CreateBusiness(ctx context.Context, business *leadbook.Business) error {
	if err := s.db.Available(); err != nil {
		return err
	}
	if err := s.prepare(business); err != nil {
		return err
	}
	_, err := s.insert(ctx, business, "")
	return err
}

// EnsureBusiness creates business unless one with the same external ID
// exists, relying on the unique constraint for atomicity.
func (s *BusinessService) EnsureBusiness(ctx context.Context, business *leadbook.Business) (bool, error) {
	if err := s.db.Available(); err != nil {
		return false, err
	}
	if business.ExternalID == "" {
		return true, s.CreateBusiness(ctx, business)
	}
	if err := s.prepare(business); err != nil {
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

	existing, err := s.findOne(ctx, "external_id = $1", business.ExternalID)
	if err != nil {
		return false, err
	}
	*business = *existing
	return false, nil
}

func (s *BusinessService) prepare(business *leadbook.Business) error {
	if business.Source == "" {
		business.Source = leadbook.SourceManual
	}
	if err := business.ValidateForInsert(); err != nil {
		return err
	}

	business.ID = uuid.New().String()
	now := s.db.now()
	business.CreatedAt = now
	business.UpdatedAt = now
	return nil
}

func (s *BusinessService) insert(ctx context.Context, b *leadbook.Business, onConflict string) (sql.Result, error) {
	websites, demos, err := encodeURLs(b)
	if err != nil {
		return nil, err
	}
	var externalID sql.NullString
	if b.ExternalID != "" {
		externalID = sql.NullString{String: b.ExternalID, Valid: true}
	}

	return s.db.ExecContext(ctx, insertBusiness+onConflict,
		b.ID, externalID, b.Name, b.Category, b.Address, b.City, b.State, b.Phone, b.Email,
		websites, demos, b.Latitude, b.Longitude, b.OpeningHours, string(b.Source),
		b.CreatedAt, b.UpdatedAt)
}

// FindBusinessByID retrieves a business by ID.
func (s *BusinessService) FindBusinessByID(ctx context.Context, id string) (*leadbook.Business, error) {
	if err := s.db.Available(); err != nil {
		return nil, err
	}
	return s.findOne(ctx, "id = $1", id)
}

func (s *BusinessService) findOne(ctx context.Context, where string, arg any) (*leadbook.Business, error) {
	rows, err := s.db.QueryContext(ctx, selectBusiness+" WHERE "+where, arg)
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
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	query.WriteString(selectBusiness + " WHERE TRUE")

	if filter.ID != nil {
		query.WriteString(" AND id = " + arg(*filter.ID))
	}
	if filter.ExternalID != nil {
		query.WriteString(" AND external_id = " + arg(*filter.ExternalID))
	}
	if filter.Category != nil {
		query.WriteString(" AND category = " + arg(*filter.Category))
	}

	query.WriteString(" ORDER BY created_at DESC, seq DESC")

	if filter.Limit > 0 {
		query.WriteString(" LIMIT " + arg(filter.Limit))
	}
	if filter.Offset > 0 {
		query.WriteString(" OFFSET " + arg(filter.Offset))
	}

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

	business, err := s.FindBusinessByID(ctx, id)
	if err != nil {
		return nil, err
	}

	business.Apply(upd)
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
		SET name = $1, category = $2, address = $3, city = $4, state = $5, phone = $6, email = $7,
			websites = $8::jsonb, demos = $9::jsonb, latitude = $10, longitude = $11,
			opening_hours = $12, updated_at = $13
		WHERE id = $14
	`, business.Name, business.Category, business.Address, business.City, business.State,
		business.Phone, business.Email, websites, demos, business.Latitude, business.Longitude,
		business.OpeningHours, business.UpdatedAt, id)
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

// DeleteBusiness permanently removes a business and, through the foreign
// key cascade, its tracking entry.
func (s *BusinessService) DeleteBusiness(ctx context.Context, id string) error {
	if err := leadbook.ValidatePersistedID(id); err != nil {
		return err
	}
	if err := s.db.Available(); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, "DELETE FROM businesses WHERE id = $1", id)
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

func scanBusiness(rows *sql.Rows) (*leadbook.Business, error) {
	var b leadbook.Business
	var websites, demos, source string
	var lat, lng sql.NullFloat64

	if err := rows.Scan(&b.ID, &b.ExternalID, &b.Name, &b.Category, &b.Address, &b.City, &b.State,
		&b.Phone, &b.Email, &websites, &demos, &lat, &lng, &b.OpeningHours, &source,
		&b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}

	b.Source = leadbook.Source(source)
	b.CreatedAt = b.CreatedAt.UTC()
	b.UpdatedAt = b.UpdatedAt.UTC()
	if lat.Valid {
		b.Latitude = &lat.Float64
	}
	if lng.Valid {
		b.Longitude = &lng.Float64
	}

	var err error
	if b.Websites, err = leadbook.NormalizeURLs(json.RawMessage(websites)); err != nil {
		return nil, fmt.Errorf("parse websites: %w", err)
	}
	if b.Demos, err = leadbook.NormalizeURLs(json.RawMessage(demos)); err != nil {
		return nil, fmt.Errorf("parse demos: %w", err)
	}
	return &b, nil
}

func encodeURLs(b *leadbook.Business) (websites, demos string, err error) {
	w := b.Websites
	if w == nil {
		w = leadbook.URLList{}
	}
	d := b.Demos
	if d == nil {
		d = leadbook.URLList{}
	}
	wb, err := json.Marshal([]string(w))
	if err != nil {
		return "", "", err
	}
	dj, err := json.Marshal([]string(d))
	if err != nil {
		return "", "", err
	}
	return string(wb), string(dj), nil
}
