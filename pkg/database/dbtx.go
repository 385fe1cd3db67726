package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is the minimal query interface shared by *pgxpool.Pool, pgx.Tx, and
// the pgxmock pool used in tests. Repositories depend on this interface so
// they can run against a live pool, inside a transaction, or under a mock.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row

	// Begin starts a transaction. Implementations backed by an existing
	// transaction may return a nested transaction (savepoint).
	Begin(ctx context.Context) (pgx.Tx, error)
}
