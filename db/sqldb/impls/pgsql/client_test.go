package pgsql

import (
	"context"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/sqldb"
)

func TestDSNFromConf(t *testing.T) {
	c := &Client{conf: &sqldb.Conf{Host: "db", Port: 5432, User: "app", PW: "secret", DB: "invoices"}}
	assert.Equal(t, "host=db port=5432 user=app password=secret dbname=invoices sslmode=disable TimeZone=UTC", c.DSN())
}

func TestRegisterAndUninitialized(t *testing.T) {
	Register()
	client, err := sqldb.New(&sqldb.Conf{Type: DBType}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, byte('$'), client.PlaceholderPrefix())

	_, err = client.QueryRows(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, errNotInitialized)
	assert.ErrorIs(t, client.Ping(context.Background()), errNotInitialized)
	assert.NoError(t, client.Close())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505"})))
	assert.False(t, IsUniqueViolation(&pgconn.PgError{Code: "23503"}))
}
