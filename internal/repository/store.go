// Package repository implements the reservation engine's storage
// contract on top of MySQL.  All timestamps are stored and compared in
// UTC.  Transactions are carried in the context: WithTx opens one and
// every method joins it when present, falling back to the plain
// connection pool otherwise.
package repository

import (
	"context"
	"database/sql"
)

// Store is the MySQL-backed implementation of reservation.Store.
type Store struct {
	db *sql.DB
}

// NewStore returns a Store bound to the provided database handle.
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

type txKey struct{}

// WithTx runs fn inside a transaction.  A nested call joins the
// transaction already carried by ctx instead of opening a second one.
// An error from fn rolls everything back.
func (s *Store) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// querier is the common surface of *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// q returns the transaction carried by ctx when present, otherwise
// the plain pool.
func (s *Store) q(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return s.db
}

// inTx reports whether ctx carries a transaction, which decides
// whether row-locking clauses may be appended to a SELECT.
func (s *Store) inTx(ctx context.Context) bool {
	return txFromContext(ctx) != nil
}
