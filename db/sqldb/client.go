package sqldb

import (
	"context"
)

type Client interface {
	Init(ctx context.Context) error
	Close() error
	Handle // promoted: queries run on the pool
	Conf() *Conf
	Ping(ctx context.Context) error
	BeginTx(ctx context.Context) (Tx, error)
	// PlaceholderPrefix is the static placeholder prefix of the dialect
	PlaceholderPrefix() byte
}

// Handle is what both a pool and a transaction can run statements on
type Handle interface {
	// Exec executes SQL statement like INSERT, UPDATE, DELETE.
	Exec(ctx context.Context, query string, args ...any) (Result, error)

	QueryRows(ctx context.Context, query string, args ...any) (Rows, error) // Eager. Fail upfront on statement execution
	QueryRow(ctx context.Context, query string, args ...any) Row            // Lazy. only fails at Scan()
}
