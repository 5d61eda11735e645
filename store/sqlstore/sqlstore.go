// Package sqlstore implements the store contracts on a sqldb.Client.
// Statements live in embedded sql/<group>/ files, one per statement.
package sqlstore

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/sqldb"
	"github.com/zeptools/gw-invoice/db/sqldb/impls/mysql"
	"github.com/zeptools/gw-invoice/db/sqldb/impls/pgsql"
	"github.com/zeptools/gw-invoice/store"
)

//go:embed sql
var sqlFS embed.FS

var groups = []string{"schema", "users", "invoices", "receipts", "templates"}

// DB holds the client, the loaded statements and the clock shared by the stores
type DB struct {
	client sqldb.Client
	stmts  *sqldb.RawSQLStore
	log    *zap.Logger
	now    func() time.Time
}

// Open loads the statements of the client's dialect
func Open(client sqldb.Client, log *zap.Logger) (*DB, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dbType := client.Conf().Type
	stmts := sqldb.NewRawStore(dbType)
	for _, group := range groups {
		n, err := stmts.LoadRawStmts(sqlFS, "sql/"+group, group)
		if err != nil {
			return nil, fmt.Errorf("load %s statements: %w", group, err)
		}
		log.Debug("sql statements loaded", zap.String("group", group), zap.String("db_type", dbType), zap.Int("count", n))
	}
	if _, ok := stmts.Get("schema.schema"); !ok {
		return nil, fmt.Errorf("no schema for db type %q", dbType)
	}
	return &DB{client: client, stmts: stmts, log: log, now: time.Now}, nil
}

// SetClock replaces time.Now for created_at stamps
func (db *DB) SetClock(now func() time.Time) {
	db.now = now
}

// Store wires the four SQL stores over db
func (db *DB) Store() *store.Store {
	return &store.Store{
		Users:     &Users{db: db},
		Invoices:  &Invoices{db: db},
		Receipts:  &Receipts{db: db},
		Templates: &Templates{db: db},
	}
}

// Migrate runs the schema statements; every table is created if missing
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range SplitStatements(db.stmts.MustGet("schema.schema")) {
		if _, err := db.client.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	db.log.Info("schema migrated", zap.String("db_type", db.client.Conf().Type))
	return nil
}

// SplitStatements splits a script on `;` and drops empty pieces
func SplitStatements(script string) []string {
	var out []string
	for _, s := range strings.Split(script, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func (db *DB) stmt(key string) string {
	return db.stmts.MustGet(key)
}

// stamp fills a fresh id and creation time when absent
func (db *DB) stamp(id *string, createdAt *time.Time) {
	if *id == "" {
		*id = uuid.NewString()
	}
	if createdAt.IsZero() {
		*createdAt = db.now().UTC()
	}
}

func notFound(err error) error {
	if errors.Is(err, sqldb.ErrNoRows) {
		return store.ErrNotFound
	}
	return err
}

func isDuplicate(err error) bool {
	return pgsql.IsUniqueViolation(err) || mysql.IsUniqueViolation(err)
}

// affectedOne maps zero affected rows to ErrNotFound
func affectedOne(res sqldb.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
