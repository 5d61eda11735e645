package sqldb

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

type fieldsToScanProvider interface {
	FieldsToScan() []any
}

type Scannable[T any] interface {
	~*T                  // Type Constraint: Underlying Type(~) = *T
	fieldsToScanProvider // must implement fieldsToScanProvider
}

func QueryItem[
	M any, // Model struct
	MP Scannable[M], // *Model Implementing Scannable[M]
](
	ctx context.Context,
	h Handle,
	rawSQLStmt string,
	args ...any, // variadic
) (*M, error) { // Returns the Pointer to the Newly Created Item
	return RowToItem[M, MP](h.QueryRow(ctx, rawSQLStmt, args...))
}

func RowToItem[
	M any, // Model struct
	MP Scannable[M], // *Model Implementing Scannable[M]
](row Row) (*M, error) {
	var item M     // struct with zero values for the fields
	p := MP(&item) // p is *M, which satisfies fieldsToScanProvider interface
	if err := row.Scan(p.FieldsToScan()...); err != nil {
		return nil, err
	}
	return &item, nil
}

func QueryItems[
	M any, // Model struct
	MP Scannable[M], // *Model Implementing Scannable[M]
](
	ctx context.Context,
	h Handle,
	log *zap.Logger,
	rawSQLStmt string,
	args ...any, // variadic
) ([]*M, error) { // Returns a Slice of Model-Pointers
	rows, err := h.QueryRows(ctx, rawSQLStmt, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Warn("sqldb: rows close failed", zap.Error(err))
		}
	}()
	return RowsToItems[M, MP](rows)
}

func RowsToItems[
	M any, // Model struct
	MP Scannable[M], // *Model Implementing Scannable[M]
](rows Rows) ([]*M, error) {
	itemptrs := []*M{}
	for rows.Next() {
		var item M
		p := MP(&item)
		if err := rows.Scan(p.FieldsToScan()...); err != nil {
			return nil, fmt.Errorf("scan failed: %w", err)
		}
		itemptrs = append(itemptrs, &item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error during iterating rows: %w", err)
	}
	return itemptrs, nil
}

// QueryInt64 scans a single integer, e.g. a COUNT(*)
func QueryInt64(ctx context.Context, h Handle, rawSQLStmt string, args ...any) (int64, error) {
	var n int64
	if err := h.QueryRow(ctx, rawSQLStmt, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
