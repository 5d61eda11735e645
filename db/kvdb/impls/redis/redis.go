package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	lowimpl "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/kvdb"
)

const DBType = "redis"

type Client struct {
	conf *kvdb.Conf
	log  *zap.Logger

	// implementation details, not exported
	internal *lowimpl.Client
}

// Ensure redis.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func New(conf *kvdb.Conf, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	return &Client{conf: conf, log: log}
}

// Options is the go-redis configuration derived from Conf
func (c *Client) Options() *lowimpl.Options {
	return &lowimpl.Options{
		Addr:     fmt.Sprintf("%s:%d", c.conf.Host, c.conf.Port),
		Password: c.conf.PW,
		DB:       c.conf.DB,
	}
}

func (c *Client) Init(ctx context.Context) error {
	c.internal = lowimpl.NewClient(c.Options())
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := c.internal.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	c.log.Info("redis client initialized", zap.String("addr", c.Options().Addr), zap.Int("db", c.conf.DB))
	return nil
}

func (c *Client) Close() error {
	if c.internal == nil {
		return nil
	}
	return c.internal.Close()
}

func (c *Client) Conf() *kvdb.Conf {
	return c.conf
}

//--- Key Ops ----

func (c *Client) Exists(ctx context.Context, key string) (bool, error) {
	n, err := c.internal.Exists(ctx, key).Result()
	return n > 0, err
}

func (c *Client) Delete(ctx context.Context, keys ...string) (int64, error) {
	return c.internal.Del(ctx, keys...).Result()
}

func (c *Client) Expire(ctx context.Context, key string, expiration time.Duration) (bool, error) {
	// Redis EXPIRE returns true if key existed and TTL was set, false if key does not exist
	return c.internal.Expire(ctx, key, expiration).Result()
}

//---- Single-value Ops ----

func (c *Client) Get(ctx context.Context, key string) (string, bool, error) {
	return found(c.internal.Get(ctx, key).Result())
}

func (c *Client) GetDel(ctx context.Context, key string) (string, bool, error) {
	return found(c.internal.GetDel(ctx, key).Result())
}

func (c *Client) Set(ctx context.Context, key string, value string, expiration time.Duration) error {
	return c.internal.Set(ctx, key, value, expiration).Err()
}

func (c *Client) SetNX(ctx context.Context, key string, value string, expiration time.Duration) (bool, error) {
	return c.internal.SetNX(ctx, key, value, expiration).Result()
}

// redis.Nil -> found: false, err: nil
func found(val string, err error) (string, bool, error) {
	if errors.Is(err, lowimpl.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}
