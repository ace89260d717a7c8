package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("YOUTUBE_API_KEY", "primary")
	t.Setenv("YOUTUBE_API_KEY_FALLBACK", "backup")
	t.Setenv("QUOTA_BUDGET", "500")
	t.Setenv("CACHE_TTL", "10m")
	t.Setenv("RETRY_MAX", "0")

	c := ConfigFromEnv()
	assert.Equal(t, "primary", c.YouTubeAPIKey)
	assert.Equal(t, "backup", c.YouTubeAPIKeyFallback)
	assert.Equal(t, 500, c.QuotaBudget)
	assert.Equal(t, 10*time.Minute, c.CacheTTL)
	assert.Equal(t, 0, c.RetryMax)
	assert.Equal(t, 5.0, c.RequestsPerSecond)
	assert.NotNil(t, c.HTTPClient)
}

func TestInitDefaults(t *testing.T) {
	Init(Config{})
	t.Cleanup(func() { Init(Config{}) })

	assert.Equal(t, time.Hour, Cfg.CacheTTL)
	assert.Equal(t, 15*time.Second, Cfg.FetchTimeout)
	if assert.NotNil(t, Cfg.HTTPClient) {
		assert.Equal(t, 15*time.Second, Cfg.HTTPClient.Timeout)
	}
	assert.Zero(t, Cfg.QuotaBudget)
}
