package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toko-storefront/internal/config"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(config.New())
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.AppPort)
	assert.Equal(t, "http://188.227.35.6:8080/api", cfg.BackendBaseURL)
	assert.Equal(t, 10*time.Second, cfg.BackendTimeout)
	assert.Equal(t, config.StoreMemory, cfg.SessionStore)
	assert.Equal(t, 24*time.Hour, cfg.SessionTTL)
	assert.Equal(t, "storefront_session", cfg.SessionCookie)
	assert.Equal(t, "none", cfg.TracingExporter)
	assert.Empty(t, cfg.RabbitMQURL)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("BACKEND_BASE_URL", "https://market.example/api")
	t.Setenv("BACKEND_TIMEOUT", "3s")
	t.Setenv("SESSION_STORE", "Redis")
	t.Setenv("SESSION_TTL", "90m")

	cfg, err := config.LoadFrom(config.New())
	require.NoError(t, err)

	assert.Equal(t, "https://market.example/api", cfg.BackendBaseURL)
	assert.Equal(t, 3*time.Second, cfg.BackendTimeout)
	assert.Equal(t, config.StoreRedis, cfg.SessionStore)
	assert.Equal(t, 90*time.Minute, cfg.SessionTTL)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "storefront.yaml")
	require.NoError(t, os.WriteFile(file, []byte("SESSION_COOKIE: sf\nSTATIC_DIR: ./web\n"), 0o600))
	t.Setenv("CONFIG_FILE", file)

	cfg, err := config.LoadFrom(config.New())
	require.NoError(t, err)
	assert.Equal(t, "sf", cfg.SessionCookie)
	assert.Equal(t, "./web", cfg.StaticDir)
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown store", "SESSION_STORE", "mongo"},
		{"bad url", "BACKEND_BASE_URL", "not a url"},
		{"unknown exporter", "TRACING_EXPORTER", "zipkin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := config.LoadFrom(config.New())
			assert.Error(t, err)
		})
	}
}

func TestLoadRequiresDSNForSQLStores(t *testing.T) {
	t.Setenv("SESSION_STORE", "postgres")
	_, err := config.LoadFrom(config.New())
	assert.Error(t, err)

	t.Setenv("DATABASE_DSN", "host=localhost user=app dbname=storefront")
	cfg, err := config.LoadFrom(config.New())
	require.NoError(t, err)
	assert.Equal(t, config.StorePostgres, cfg.SessionStore)
}
