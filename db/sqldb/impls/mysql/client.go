package mysql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	driver "github.com/go-sql-driver/mysql"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/sqldb"
)

const DBType = "mysql"

// Register makes sqldb.New build mysql clients
func Register() {
	sqldb.RegisterFactory(DBType, func(conf *sqldb.Conf, log *zap.Logger) (sqldb.Client, error) {
		return &Client{conf: conf, log: log}, nil
	})
}

type Client struct {
	conf *sqldb.Conf
	log  *zap.Logger

	// db fields are implementation details, not exported
	db *sql.DB
}

// Ensure mysql.Client implements sqldb.Client interface
var _ sqldb.Client = (*Client)(nil)

func (c *Client) DSN() string {
	if c.conf.DSN != "" {
		return c.conf.DSN
	}
	cfg := driver.NewConfig()
	cfg.User = c.conf.User
	cfg.Passwd = c.conf.PW
	cfg.Net = "tcp"
	cfg.Addr = fmt.Sprintf("%s:%d", c.conf.Host, c.conf.Port)
	cfg.DBName = c.conf.DB
	cfg.ParseTime = true
	// UPDATE reports matched rows, not changed rows
	cfg.ClientFoundRows = true
	if c.conf.TZ != "" {
		if loc, err := time.LoadLocation(c.conf.TZ); err == nil {
			cfg.Loc = loc
		}
	}
	cfg.Params = map[string]string{"sql_mode": "'ANSI_QUOTES'"}
	return cfg.FormatDSN()
}

func (c *Client) Init(ctx context.Context) error {
	var err error
	if c.db, err = sql.Open("mysql", c.DSN()); err != nil {
		return err
	}
	c.db.SetConnMaxLifetime(3 * time.Minute)
	maxConns := 10
	if c.conf.MaxConns > 0 {
		maxConns = c.conf.MaxConns
	}
	c.db.SetMaxOpenConns(maxConns)
	c.db.SetMaxIdleConns(maxConns)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = c.db.PingContext(ctx); err != nil {
		return fmt.Errorf("mysql ping failed: %w", err)
	}
	c.log.Info("mysql client initialized", zap.String("host", c.conf.Host), zap.String("db", c.conf.DB))
	return nil
}

func (c *Client) Conf() *sqldb.Conf {
	return c.conf
}

func (c *Client) PlaceholderPrefix() byte {
	return '?'
}

func (c *Client) Ping(ctx context.Context) error {
	if c.db == nil {
		return errNotInitialized
	}
	return c.db.PingContext(ctx)
}

func (c *Client) Close() error {
	if c.db == nil {
		return nil
	}
	if err := c.db.Close(); err != nil {
		return err
	}
	c.log.Info("mysql client closed")
	return nil
}

func (c *Client) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	if c.db == nil {
		return nil, errNotInitialized
	}
	return c.db.ExecContext(ctx, query, args...)
}

func (c *Client) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	if c.db == nil {
		return nil, errNotInitialized
	}
	return c.db.QueryContext(ctx, query, args...)
}

func (c *Client) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	if c.db == nil {
		return errRow{errNotInitialized}
	}
	return &Row{row: c.db.QueryRowContext(ctx, query, args...)}
}

func (c *Client) BeginTx(ctx context.Context) (sqldb.Tx, error) {
	if c.db == nil {
		return nil, errNotInitialized
	}
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &Tx{tx: tx}, nil
}

var errNotInitialized = errors.New("mysql client not initialized")

// IsUniqueViolation reports a duplicate key error (ER_DUP_ENTRY)
func IsUniqueViolation(err error) bool {
	var myErr *driver.MySQLError
	return errors.As(err, &myErr) && myErr.Number == 1062
}

type Row struct {
	row *sql.Row
}

// Ensure mysql.Row implements sqldb.Row interface
var _ sqldb.Row = (*Row)(nil)

func (r *Row) Scan(dest ...any) error {
	err := r.row.Scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return sqldb.ErrNoRows
	}
	return err
}

type errRow struct{ err error }

func (r errRow) Scan(...any) error { return r.err }

type Tx struct {
	tx *sql.Tx
}

// Ensure mysql.Tx implements sqldb.Tx interface
var _ sqldb.Tx = (*Tx)(nil)

func (t *Tx) Commit(_ context.Context) error {
	return t.tx.Commit()
}

func (t *Tx) Rollback(_ context.Context) error {
	return t.tx.Rollback()
}

func (t *Tx) Exec(ctx context.Context, query string, args ...any) (sqldb.Result, error) {
	return t.tx.ExecContext(ctx, query, args...)
}

func (t *Tx) QueryRows(ctx context.Context, query string, args ...any) (sqldb.Rows, error) {
	return t.tx.QueryContext(ctx, query, args...)
}

func (t *Tx) QueryRow(ctx context.Context, query string, args ...any) sqldb.Row {
	return &Row{row: t.tx.QueryRowContext(ctx, query, args...)}
}
