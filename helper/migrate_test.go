package helper

import (
	"hotel/config"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConnectionString(t *testing.T) {
	cfg := &config.Config{}
	cfg.DB.Postgres.Write.Username = "hotel"
	cfg.DB.Postgres.Write.Password = "p@ss/word"
	cfg.DB.Postgres.Write.Host = "localhost"
	cfg.DB.Postgres.Write.Port = "5432"
	cfg.DB.Postgres.Write.Name = "hotel"
	cfg.DB.Postgres.Write.SSLMode = "disable"
	cfg.DB.Postgres.MigrationTable = "schema_migrations"
	cfg.DB.Postgres.Prefix = "dev_"

	dsn, err := url.Parse(connectionString(cfg))
	require.NoError(t, err)

	password, _ := dsn.User.Password()

	assert.Equal(t, "postgres", dsn.Scheme)
	assert.Equal(t, "p@ss/word", password)
	assert.Equal(t, "localhost:5432", dsn.Host)
	assert.Equal(t, "/dev_hotel", dsn.Path)
	assert.Equal(t, "disable", dsn.Query().Get("sslmode"))
	assert.Equal(t, "schema_migrations", dsn.Query().Get("x-migrations-table"))
}

func TestGetDBName(t *testing.T) {
	cfg := &config.Config{}

	assert.Equal(t, "hotel", getDBName(cfg, "hotel"))

	cfg.DB.Postgres.Prefix = "test_"
	assert.Equal(t, "test_hotel", getDBName(cfg, "hotel"))
}
