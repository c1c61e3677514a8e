package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestFromViper_Defaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"DB_DSN":         "postgres://localhost/leases",
		"SESSION_SECRET": "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Environment)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, "0.0.0.0", cfg.HTTP.Host)
	assert.Equal(t, 8080, cfg.HTTP.Port)
	assert.Equal(t, 12*time.Hour, cfg.Session.TTL)
	assert.Equal(t, defaultPageSize, cfg.UI.PageSize)
	assert.Equal(t, "es-VE", cfg.UI.CurrencyLocale)
	assert.Empty(t, cfg.Redis.Addr)
}

func TestFromViper_Overrides(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{
		"APP_ENV":              "production",
		"DB_DSN":               "postgres://db/leases",
		"SESSION_SECRET":       "secret",
		"SESSION_TTL":          "30m",
		"HTTP_PORT":            9000,
		"PAGE_SIZE":            1000,
		"CORS_ALLOWED_ORIGINS": " https://a.example , ,https://b.example",
		"REDIS_ADDR":           "localhost:6379",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, 9000, cfg.HTTP.Port)
	assert.Equal(t, 30*time.Minute, cfg.Session.TTL)
	assert.Equal(t, maxPageSize, cfg.UI.PageSize)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.HTTP.AllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestFromViper_RequiredKeys(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		_, err := fromViper(newViper(map[string]any{"SESSION_SECRET": "s"}))
		assert.EqualError(t, err, "DB_DSN is required")
	})

	t.Run("missing session secret", func(t *testing.T) {
		_, err := fromViper(newViper(map[string]any{"DB_DSN": "x"}))
		assert.EqualError(t, err, "SESSION_SECRET is required")
	})

	t.Run("bad ttl", func(t *testing.T) {
		_, err := fromViper(newViper(map[string]any{
			"DB_DSN":         "x",
			"SESSION_SECRET": "s",
			"SESSION_TTL":    "soon",
		}))
		assert.Error(t, err)
	})

	t.Run("bad conn lifetime", func(t *testing.T) {
		_, err := fromViper(newViper(map[string]any{
			"DB_DSN":               "x",
			"SESSION_SECRET":       "s",
			"DB_CONN_MAX_LIFETIME": "forever",
		}))
		assert.Error(t, err)
	})
}
