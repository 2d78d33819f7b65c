package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("missing file yields defaults", func(t *testing.T) {
		cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
		require.NoError(t, err)
		assert.Equal(t, Default(), cfg)
	})

	t.Run("file values override defaults", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geoshell.yaml")
		writeFile(t, path, `
database:
  host: db.internal
  name: geo
  tx_timeout: 2s
  isolation: serializable
guest:
  query_limit: 25
`)
		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "db.internal", cfg.Database.Host)
		assert.Equal(t, "geo", cfg.Database.Name)
		assert.Equal(t, 2*time.Second, cfg.Database.TxTimeout)
		assert.Equal(t, "serializable", cfg.Database.Isolation)
		assert.Equal(t, 25, cfg.Guest.QueryLimit)
		assert.Equal(t, 5432, cfg.Database.Port)
	})

	t.Run("environment overrides the file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "geoshell.yaml")
		writeFile(t, path, "database:\n  host: from-file\n")
		t.Setenv("GEOSHELL_DB_HOST", "from-env")
		t.Setenv("GEOSHELL_LOG_LEVEL", "debug")

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "from-env", cfg.Database.Host)
		assert.Equal(t, "debug", cfg.Log.Level)
	})

	t.Run("invalid driver is rejected", func(t *testing.T) {
		t.Setenv("GEOSHELL_DB_DRIVER", "oracle")
		_, err := Load("")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("malformed yaml is reported", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		writeFile(t, path, "database: [")
		_, err := Load(path)
		require.Error(t, err)
	})
}

func TestDSN(t *testing.T) {
	t.Run("discrete fields", func(t *testing.T) {
		db := Default().Database
		db.Password = "it's secret"
		assert.Equal(t,
			`host=localhost port=5432 dbname=mondial user=postgres sslmode=disable password='it\'s secret'`,
			db.DSN())
	})

	t.Run("explicit url wins", func(t *testing.T) {
		db := Default().Database
		db.URL = "postgres://u:p@h:1/d"
		assert.Equal(t, "postgres://u:p@h:1/d", db.DSN())
	})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}
