package sqldb

import "errors"

// ErrNoRows is returned by Row.Scan of every implementation when nothing matched
var ErrNoRows = errors.New("sqldb: no rows in result set")

type Rows interface {
	Next() bool
	Scan(dest ...any) error
	Close() error
	Err() error
}

type Row interface {
	Scan(dest ...any) error
}

type Result interface {
	RowsAffected() (int64, error)
}
