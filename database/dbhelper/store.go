package dbhelper

import (
	"context"
	"database/sql"
	"errors"

	"github.com/ray-remotestate/fastfood/database"
	"github.com/ray-remotestate/fastfood/utils"
)

// SQLExecutor is satisfied by both *sql.DB and *sql.Tx.
type SQLExecutor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type scanner interface {
	Scan(dest ...any) error
}

// Store implements every persistence operation on top of one connection pool.
type Store struct {
	DB *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{DB: db}
}

func (s *Store) tx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	return database.Tx(ctx, s.DB, fn)
}

// notFound turns sql.ErrNoRows into a NotFound error carrying msg.
func notFound(err error, msg string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return utils.NotFound("%s", msg)
	}
	return err
}

// duplicate turns a unique violation into a DuplicateKey error carrying msg.
func duplicate(err error, msg string) error {
	if utils.IsUniqueViolation(err) {
		return utils.DuplicateKey("%s", msg)
	}
	return err
}

func mustAffect(res sql.Result, msg string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return utils.NotFound("%s", msg)
	}
	return nil
}

// orEmpty keeps NOT NULL array columns from receiving NULL.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
