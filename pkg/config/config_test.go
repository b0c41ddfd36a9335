package config_test

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/stockdoc-api/pkg/config"
)

// chdir cambia el directorio de trabajo durante el test y lo restaura al
// terminar (equivalente a t.Chdir, disponible solo desde Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(prev) })
}

func TestLoad_Defaults(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverPostgres, cfg.DB.Driver)
	assert.Equal(t, config.AnalyzerAzure, cfg.Analyzer.Provider)
	assert.Equal(t, "prebuilt-document", cfg.Analyzer.AzureModel)
	assert.Equal(t, 60*time.Second, cfg.Analyzer.Timeout)
	assert.True(t, cfg.Inventory.AllowNegativeNewItem)
	assert.Equal(t, 100, cfg.Inventory.LogDefaultLimit)
	assert.Equal(t, "0.0.0.0:8080", cfg.HTTP.Addr())
}

func TestLoad_EnvSobrescribe(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "Memory")
	t.Setenv("DOCUMENT_ANALYZER", "anthropic")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("ALLOW_NEGATIVE_NEW_ITEM", "false")
	t.Setenv("CACHE_TTL_SECONDS", "30")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, config.StoreDriverMemory, cfg.DB.Driver)
	assert.Equal(t, config.AnalyzerAnthropic, cfg.Analyzer.Provider)
	assert.Equal(t, 9090, cfg.HTTP.Port)
	assert.False(t, cfg.Inventory.AllowNegativeNewItem)
	assert.Equal(t, 30*time.Second, cfg.Cache.TTL)
}

func TestLoad_DriverInvalido(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := config.Load()
	assert.ErrorContains(t, err, "STORE_DRIVER")
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w", DBName: "stock", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw@db:5432/stock?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgres://x@y/z"
	assert.Equal(t, "postgres://x@y/z", c.ConnectionString())
}
