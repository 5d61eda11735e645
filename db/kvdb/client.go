package kvdb

import (
	"context"
	"errors"
	"time"
)

type Client interface {
	Init(ctx context.Context) error
	Close() error
	Conf() *Conf

	//---- Key Ops ----

	Exists(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, keys ...string) (int64, error)
	// Expire sets/updates expiration for a key
	Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) // found & updated, err

	//---- Single-value Ops ----

	// Set with expiration 0 keeps the key forever
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// SetNX sets only when the key is absent; reports whether it did
	SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string) (string, bool, error) // val, found, err
	// GetDel returns and removes the value in one step
	GetDel(ctx context.Context, key string) (string, bool, error)
}

var ErrNotSupported = errors.New("kvdb: operation not supported")
