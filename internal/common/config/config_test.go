package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearPGEnv(t *testing.T) {
	for _, key := range []string{"PGHOST", "PGPORT", "PGDATABASE", "PGUSER", "PGPASSWORD"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "localhost", cfg.Database.Postgres.Host)
	assert.Equal(t, 5432, cfg.Database.Postgres.Port)
	assert.Equal(t, "autograb", cfg.Database.Postgres.Database)
	assert.Equal(t, "autograb_user", cfg.Database.Postgres.User)
	assert.Equal(t, "autograb_password", cfg.Database.Postgres.Password)
	assert.False(t, cfg.Database.Redis.Enabled)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.NoError(t, validateConfig(cfg))
}

func TestPostgresConfig_GetDSN(t *testing.T) {
	pg := PostgresConfig{
		Host:     "db",
		Port:     6543,
		Database: "cars",
		User:     "u",
		Password: "p",
		SSLMode:  "require",
	}
	assert.Equal(t, "host=db port=6543 user=u password=p dbname=cars sslmode=require", pg.GetDSN())
}

func TestLoadFromFile(t *testing.T) {
	clearPGEnv(t)
	t.Setenv("TEST_PG_PASSWORD", "s3cret")

	path := writeConfig(t, `
database:
  postgres:
    host: pg.internal
    port: 5433
    database: catalog
    user: matcher
    password: ${TEST_PG_PASSWORD}
  redis:
    enabled: true
    address: cache:6379
    cache_ttl: 60
matcher:
  alias_file: configs/aliases.json
  query_timeout: 2500
logging:
  level: debug
  format: json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "pg.internal", cfg.Database.Postgres.Host)
	assert.Equal(t, 5433, cfg.Database.Postgres.Port)
	assert.Equal(t, "catalog", cfg.Database.Postgres.Database)
	assert.Equal(t, "matcher", cfg.Database.Postgres.User)
	assert.Equal(t, "s3cret", cfg.Database.Postgres.Password)
	assert.Equal(t, "disable", cfg.Database.Postgres.SSLMode)
	assert.True(t, cfg.Database.Redis.Enabled)
	assert.Equal(t, "cache:6379", cfg.Database.Redis.Address)
	assert.Equal(t, int64(60), int64(cfg.Database.Redis.TTL().Seconds()))
	assert.Equal(t, "configs/aliases.json", cfg.Matcher.AliasFile)
	assert.Equal(t, 2500, cfg.Matcher.QueryTimeout)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "json", cfg.Logging.Format)
}

func TestLoadFromFile_PGEnvFillsEmptyFields(t *testing.T) {
	clearPGEnv(t)
	t.Setenv("PGHOST", "env-host")
	t.Setenv("PGPORT", "7777")
	t.Setenv("PGUSER", "env-user")

	path := writeConfig(t, `
database:
  postgres:
    database: from_file
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "env-host", cfg.Database.Postgres.Host)
	assert.Equal(t, 7777, cfg.Database.Postgres.Port)
	assert.Equal(t, "env-user", cfg.Database.Postgres.User)
	assert.Equal(t, "from_file", cfg.Database.Postgres.Database)
	assert.Equal(t, DefaultPostgresPassword, cfg.Database.Postgres.Password)
}

func TestLoadFromFile_Errors(t *testing.T) {
	clearPGEnv(t)

	tests := []struct {
		name          string
		body          string
		errorContains string
	}{
		{
			name: "port out of range",
			body: `
database:
  postgres:
    port: 70000
`,
			errorContains: "port out of range",
		},
		{
			name: "negative query timeout",
			body: `
matcher:
  query_timeout: -1
`,
			errorContains: "query_timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})
}
