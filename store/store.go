// Package store is the PostgreSQL persistence layer: products, categories,
// carts, orders and users.
package store

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"
)

//go:embed schema.sql
var schemaSQL string

// DBTX is satisfied by both *sql.DB and *sql.Tx, so every repository can run
// inside or outside a transaction.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type Store struct {
	db *sql.DB

	Products   *ProductRepo
	Categories *CategoryRepo
	Carts      *CartRepo
	Orders     *OrderRepo
	Users      *UserRepo
}

// Tx exposes the repositories bound to one open transaction.
type Tx struct {
	Products   *ProductRepo
	Categories *CategoryRepo
	Carts      *CartRepo
	Orders     *OrderRepo
	Users      *UserRepo
}

func New(db *sql.DB) *Store {
	return &Store{
		db:         db,
		Products:   &ProductRepo{db: db},
		Categories: &CategoryRepo{db: db},
		Carts:      &CartRepo{db: db},
		Orders:     &OrderRepo{db: db},
		Users:      &UserRepo{db: db},
	}
}

// Open connects to PostgreSQL and verifies the connection.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return db, nil
}

// Migrate creates any missing tables and indexes.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// InTx runs fn in a single transaction. The transaction commits only when fn
// returns nil; any error or panic rolls it back.
func (s *Store) InTx(ctx context.Context, fn func(*Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Tx{
		Products:   &ProductRepo{db: tx},
		Categories: &CategoryRepo{db: tx},
		Carts:      &CartRepo{db: tx},
		Orders:     &OrderRepo{db: tx},
		Users:      &UserRepo{db: tx},
	}); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

func pqCode(err error) string {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code.Name()
	}
	return ""
}

func isForeignKeyViolation(err error) bool { return pqCode(err) == "foreign_key_violation" }

func isUniqueViolation(err error) bool { return pqCode(err) == "unique_violation" }
