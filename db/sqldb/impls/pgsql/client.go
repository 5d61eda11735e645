package pgsql

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/sqldb"
)

const DBType = "pgsql"

// Register makes sqldb.New build pgsql clients
func Register() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf, log *zap.Logger) (sqldb.Client, error) {
		return &Client{conf: conf, log: log}, nil
	})
}

type Client struct {
	conf *sqldb.Conf
	log  *zap.Logger
	pool *pgxpool.Pool
}

// Ensure pgsql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func (c *Client) DSN() string {
	if c.conf.DSN != "" {
		return c.conf.DSN
	}
	// NOTE: sslmode=disable is often used for local dev, adjust as needed.
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=disable TimeZone=%s",
		c.conf.Host,
		c.conf.Port,
		c.conf.User,
		c.conf.PW,
		c.conf.DB,
		orDefault(c.conf.TZ, "UTC"),
	)
}

func (c *Client) Init(ctx context.Context) error {
	config, err := pgxpool.ParseConfig(c.DSN())
	if err != nil {
		return fmt.Errorf("failed to parse pgx config: %w", err)
	}
	config.MaxConns = 10
	if c.conf.MaxConns > 0 {
		config.MaxConns = int32(c.conf.MaxConns)
	}
	config.MinConns = 1
	config.MaxConnLifetime = 3 * time.Minute

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if c.pool, err = pgxpool.NewWithConfig(ctx, config); err != nil {
		return fmt.Errorf("failed to connect pgx pool: %w", err)
	}
	if err = c.Ping(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	c.log.Info("pgsql client initialized", zap.String("host", config.ConnConfig.Host), zap.String("db", config.ConnConfig.Database))
	return nil
}

func (c *Client) Conf() *sqldb.Conf {
	return c.conf
}

func (c *Client) PlaceholderPrefix() byte {
	return '$'
}

func (c *Client) Ping(ctx context.Context) error {
	if c.pool == nil {
		return errNotInitialized
	}
	return c.pool.Ping(ctx)
}

func (c *Client) Close() error {
	if c.pool == nil {
		return nil
	}
	c.pool.Close()
	c.log.Info("pgsql client closed")
	return nil
}

func (c *Client) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	if c.pool == nil {
		return nil, errNotInitialized
	}
	tag, err := c.pool.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (c *Client) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	if c.pool == nil {
		return nil, errNotInitialized
	}
	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (c *Client) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	if c.pool == nil {
		return errRow{errNotInitialized}
	}
	return &Row{row: c.pool.QueryRow(ctx, query, args...)}
}

func (c *Client) BeginTx(ctx context.Context) (sqldb.Tx, error) {
	if c.pool == nil {
		return nil, errNotInitialized
	}
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction failed: %w", err)
	}
	return &Tx{tx: tx}, nil
}

var errNotInitialized = errors.New("pgsql client not initialized")

// IsUniqueViolation reports a duplicate key error
func IsUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func orDefault(s string, def string) string {
	if s == "" {
		return def
	}
	return s
}

// Tx wraps pgx.Tx
type Tx struct {
	tx pgx.Tx
}

// Ensure pgsql.Tx implements sqldb.Tx
var _ sqldb.Tx = (*Tx)(nil)

func (t *Tx) Commit(ctx context.Context) error {
	return t.tx.Commit(ctx)
}

func (t *Tx) Rollback(ctx context.Context) error {
	return t.tx.Rollback(ctx)
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	tag, err := t.tx.Exec(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Result{tag: tag}, nil
}

func (t *Tx) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	rows, err := t.tx.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return &Rows{rows: rows}, nil
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return &Row{row: t.tx.QueryRow(ctx, query, args...)}
}
