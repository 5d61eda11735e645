// Package memkv is an in-process kvdb.Client with expiring keys.
// It backs local runs without redis and the tests of KV users.
package memkv

import (
	"context"
	"sync"
	"time"

	"github.com/zeptools/gw-invoice/db/kvdb"
)

const DBType = "memory"

type entry struct {
	value     string
	expiresAt time.Time // zero = never
}

type Client struct {
	conf *kvdb.Conf
	now  func() time.Time

	mu   sync.Mutex
	data map[string]entry
}

// Ensure memkv.Client implements kvdb.Client interface
var _ kvdb.Client = (*Client)(nil)

func New() *Client {
	return NewWithClock(time.Now)
}

func NewWithClock(now func() time.Time) *Client {
	return &Client{conf: &kvdb.Conf{Type: DBType}, now: now, data: make(map[string]entry)}
}

func (c *Client) Init(context.Context) error { return nil }
func (c *Client) Close() error               { return nil }
func (c *Client) Conf() *kvdb.Conf           { return c.conf }

// get must be called with mu held; drops the key when expired
func (c *Client) get(key string) (entry, bool) {
	e, ok := c.data[key]
	if !ok {
		return entry{}, false
	}
	if !e.expiresAt.IsZero() && !c.now().Before(e.expiresAt) {
		delete(c.data, key)
		return entry{}, false
	}
	return e, true
}

func (c *Client) deadline(expiration time.Duration) time.Time {
	if expiration <= 0 {
		return time.Time{}
	}
	return c.now().Add(expiration)
}

func (c *Client) Exists(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.get(key)
	return ok, nil
}

func (c *Client) Delete(_ context.Context, keys ...string) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	var n int64
	for _, k := range keys {
		if _, ok := c.get(k); ok {
			delete(c.data, k)
			n++
		}
	}
	return n, nil
}

func (c *Client) Expire(_ context.Context, key string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.get(key)
	if !ok {
		return false, nil
	}
	if expiration <= 0 {
		delete(c.data, key)
		return true, nil
	}
	e.expiresAt = c.deadline(expiration)
	c.data[key] = e
	return true, nil
}

func (c *Client) Set(_ context.Context, key string, value string, expiration time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = entry{value: value, expiresAt: c.deadline(expiration)}
	return nil
}

func (c *Client) SetNX(_ context.Context, key string, value string, expiration time.Duration) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.get(key); ok {
		return false, nil
	}
	c.data[key] = entry{value: value, expiresAt: c.deadline(expiration)}
	return true, nil
}

func (c *Client) Get(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.get(key)
	return e.value, ok, nil
}

func (c *Client) GetDel(_ context.Context, key string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.get(key)
	if ok {
		delete(c.data, key)
	}
	return e.value, ok, nil
}
