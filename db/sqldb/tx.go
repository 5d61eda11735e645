package sqldb

import (
	"context"
	"errors"
	"fmt"
)

// Tx Transaction
type Tx interface {
	Handle
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// WithTx runs fn in a transaction. fn's error rolls back, otherwise commits.
func WithTx(ctx context.Context, c Client, fn func(tx Tx) error) error {
	tx, err := c.BeginTx(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
		return err
	}
	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
