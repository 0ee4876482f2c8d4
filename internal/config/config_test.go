package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportStdio, cfg.Transport)
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Empty(t, cfg.Server.APIKey)
	assert.Equal(t, "https://www.kleinanzeigen.de", cfg.Scraper.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.Browser.Timeout)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, "de-DE", cfg.Browser.Locale)
	assert.Empty(t, cfg.Cache.RedisAddr)

	require.NoError(t, cfg.Validate())
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("TRANSPORT_MODE", "sse")
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("API_KEY", "secret-key")
	t.Setenv("BROWSER_TIMEOUT", "45s")
	t.Setenv("BROWSER_HEADLESS", "false")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("CACHE_TTL", "10m")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, TransportSSE, cfg.Transport)
	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "secret-key", cfg.Server.APIKey)
	assert.Equal(t, 45*time.Second, cfg.Browser.Timeout)
	assert.False(t, cfg.Browser.Headless)
	assert.Equal(t, "localhost:6379", cfg.Cache.RedisAddr)
	assert.Equal(t, 10*time.Minute, cfg.Cache.TTL)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad transport",
			mutate:  func(c *Config) { c.Transport = "websocket" },
			wantErr: "TRANSPORT_MODE",
		},
		{
			name:    "zero max pages",
			mutate:  func(c *Config) { c.Scraper.MaxPages = 0 },
			wantErr: "SCRAPER_MAX_PAGES",
		},
		{
			name: "inverted rate limits",
			mutate: func(c *Config) {
				c.Scraper.RateLimitMin = 10 * time.Second
				c.Scraper.RateLimitMax = 1 * time.Second
			},
			wantErr: "SCRAPER_RATE_LIMIT_MIN",
		},
		{
			name:    "zero browser timeout",
			mutate:  func(c *Config) { c.Browser.Timeout = 0 },
			wantErr: "BROWSER_TIMEOUT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load()
			require.NoError(t, err)

			tt.mutate(cfg)

			err = cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
