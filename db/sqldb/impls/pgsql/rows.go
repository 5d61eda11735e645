package pgsql

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zeptools/gw-invoice/db/sqldb"
)

type Rows struct {
	rows pgx.Rows
}

// Ensure pgsql.Rows implements sqldb.Rows
var _ sqldb.Rows = (*Rows)(nil)

func (r *Rows) Next() bool {
	return r.rows.Next()
}

func (r *Rows) Scan(dest ...any) error {
	return r.rows.Scan(dest...)
}

// Close never fails for pgx; errors surface through Err
func (r *Rows) Close() error {
	r.rows.Close()
	return nil
}

func (r *Rows) Err() error {
	return r.rows.Err()
}

type Row struct {
	row pgx.Row
}

// Ensure pgsql.Row implements sqldb.Row interface
var _ sqldb.Row = (*Row)(nil)

func (r *Row) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, pgx.ErrNoRows) {
		return sqldb.ErrNoRows
	}
	return err
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type Result struct {
	tag pgconn.CommandTag
}

// Ensure pgsql.Result implements sqldb.Result
var _ sqldb.Result = (*Result)(nil)

func (r *Result) RowsAffected() (int64, error) {
	return r.tag.RowsAffected(), nil
}
