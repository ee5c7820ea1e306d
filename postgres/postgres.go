// Package postgres provides Postgres-based storage implementations for
// leadbook services. It uses pgx through database/sql.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/fwojciec/leadbook"
	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib" // register pgx as a database/sql driver
)

// Postgres error codes mapped onto application errors.
const (
	codeForeignKeyViolation = "23503"
	codeUniqueViolation     = "23505"
)

// DB represents a Postgres connection pool.
type DB struct {
	db  *sql.DB
	dsn string

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewDB creates a new DB instance for the given DSN.
func NewDB(dsn string) *DB {
	return &DB{dsn: dsn, Now: time.Now}
}

// Open connects to the database and creates the schema if needed.
func (db *DB) Open(ctx context.Context) error {
	conn, err := sql.Open("pgx", db.dsn)
	if err != nil {
		return fmt.Errorf("open postgres: %w", err)
	}
	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return fmt.Errorf("ping postgres: %w", err)
	}

	db.db = conn

	if err := db.createSchema(ctx); err != nil {
		conn.Close()
		db.db = nil
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	if db.db != nil {
		return db.db.Close()
	}
	return nil
}

// Available returns EUNAVAILABLE if the database has not been opened.
func (db *DB) Available() error {
	if db.db == nil {
		return leadbook.Errorf(leadbook.EUNAVAILABLE, "postgres is not connected")
	}
	return nil
}

// QueryContext executes a query that returns rows.
func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	rows, err := db.db.QueryContext(ctx, query, args...)
	return rows, storeError(err)
}

// ExecContext executes a statement that doesn't return rows.
func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	result, err := db.db.ExecContext(ctx, query, args...)
	return result, storeError(err)
}

// now returns the current time in UTC at the microsecond precision
// Postgres stores.
func (db *DB) now() time.Time {
	return db.Now().UTC().Truncate(time.Microsecond)
}

func (db *DB) createSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS businesses (
			seq BIGSERIAL,
			id TEXT PRIMARY KEY,
			external_id TEXT UNIQUE,
			name TEXT NOT NULL,
			category TEXT NOT NULL DEFAULT '',
			address TEXT NOT NULL DEFAULT '',
			city TEXT NOT NULL DEFAULT '',
			state TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			websites JSONB NOT NULL DEFAULT '[]',
			demos JSONB NOT NULL DEFAULT '[]',
			latitude DOUBLE PRECISION,
			longitude DOUBLE PRECISION,
			opening_hours TEXT NOT NULL DEFAULT '',
			source TEXT NOT NULL,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_businesses_created_at ON businesses(created_at)`,
		`CREATE TABLE IF NOT EXISTS tracking (
			id TEXT PRIMARY KEY,
			business_id TEXT NOT NULL UNIQUE REFERENCES businesses(id) ON DELETE CASCADE,
			status TEXT NOT NULL DEFAULT 'none',
			notes TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
	}
	for _, stmt := range statements {
		if _, err := db.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("execute ddl: %w", err)
		}
	}
	return nil
}

// storeError maps driver errors onto application error codes.
func storeError(err error) error {
	if err == nil {
		return nil
	}

	var connectErr *pgconn.ConnectError
	if errors.Is(err, sql.ErrConnDone) || errors.As(err, &connectErr) {
		return &leadbook.Error{Code: leadbook.EUNAVAILABLE, Message: err.Error()}
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case codeUniqueViolation:
			return leadbook.Errorf(leadbook.ECONFLICT, "business with this external ID already exists")
		case codeForeignKeyViolation:
			return leadbook.Errorf(leadbook.ENOTFOUND, "business not found")
		}
	}
	return err
}
