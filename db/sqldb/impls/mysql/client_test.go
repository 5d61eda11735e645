package mysql

import (
	"context"
	"errors"
	"testing"

	driver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/zeptools/gw-invoice/db/sqldb"
)

func TestDSNFromConf(t *testing.T) {
	c := &Client{conf: &sqldb.Conf{Host: "db", Port: 3306, User: "app", PW: "secret", DB: "invoices", TZ: "UTC"}}
	cfg, err := driver.ParseDSN(c.DSN())
	require.NoError(t, err)
	assert.Equal(t, "db:3306", cfg.Addr)
	assert.Equal(t, "invoices", cfg.DBName)
	assert.True(t, cfg.ParseTime)
	assert.True(t, cfg.ClientFoundRows)
	assert.Equal(t, "'ANSI_QUOTES'", cfg.Params["sql_mode"])

	c.conf.DSN = "custom"
	assert.Equal(t, "custom", c.DSN())
}

func TestRegisterAndUninitialized(t *testing.T) {
	Register()
	client, err := sqldb.New(&sqldb.Conf{Type: DBType}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, byte('?'), client.PlaceholderPrefix())

	_, err = client.Exec(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, errNotInitialized)
	assert.ErrorIs(t, client.QueryRow(context.Background(), "SELECT 1").Scan(), errNotInitialized)
	assert.NoError(t, client.Close())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, IsUniqueViolation(&driver.MySQLError{Number: 1062}))
	assert.False(t, IsUniqueViolation(errors.New("x")))
}
