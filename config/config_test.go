package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequired(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/tracker?sslmode=disable")
	t.Setenv("APP_PROXY_SECRET", "secret")
}

func TestLoadDefaults(t *testing.T) {
	setRequired(t)
	for _, key := range []string{"SERVER_PORT", "RATE_LIMIT", "EXPOSE_ERROR_DETAILS", "LIVE_TOKEN_SECRET", "LIVE_TOKEN_TTL", "CORS_ALLOWED_ORIGINS", "NATS_URL"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, 120, cfg.RateLimit)
	assert.False(t, cfg.ExposeErrorDetails)
	assert.Equal(t, 15*time.Minute, cfg.LiveTokenTTL)
	assert.False(t, cfg.LiveUpdatesEnabled())
	assert.Empty(t, cfg.AllowedOrigins)
}

func TestLoadOverrides(t *testing.T) {
	setRequired(t)
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("RATE_LIMIT", "0")
	t.Setenv("EXPOSE_ERROR_DETAILS", "true")
	t.Setenv("LIVE_TOKEN_SECRET", "live")
	t.Setenv("LIVE_TOKEN_TTL", "2m")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, ,https://b.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 9090, cfg.ServerPort)
	assert.Zero(t, cfg.RateLimit)
	assert.True(t, cfg.ExposeErrorDetails)
	assert.True(t, cfg.LiveUpdatesEnabled())
	assert.Equal(t, 2*time.Minute, cfg.LiveTokenTTL)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.AllowedOrigins)
}

func TestLoadErrors(t *testing.T) {
	cases := []struct {
		name string
		env  map[string]string
	}{
		{"missing secret", map[string]string{"APP_PROXY_SECRET": ""}},
		{"missing database", map[string]string{"DATABASE_URL": ""}},
		{"bad port", map[string]string{"SERVER_PORT": "http"}},
		{"port out of range", map[string]string{"SERVER_PORT": "70000"}},
		{"negative rate", map[string]string{"RATE_LIMIT": "-1"}},
		{"bad bool", map[string]string{"EXPOSE_ERROR_DETAILS": "maybe"}},
		{"bad ttl", map[string]string{"LIVE_TOKEN_TTL": "soon"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			setRequired(t)
			for k, v := range tc.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
