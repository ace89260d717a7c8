package engine

import (
	"net/http"
	"time"

	"github.com/anatolykoptev/go-kit/env"
	"github.com/redis/go-redis/v9"
)

// Config holds all engine configuration, injected from main.
type Config struct {
	YouTubeAPIKey         string
	YouTubeAPIKeyFallback string
	YouTubeAPIBase        string
	RequestsPerSecond     float64 // upstream pacing; 0 = unlimited
	FetchTimeout          time.Duration
	RetryMax              int // dial-level retries per call
	QuotaBudget           int // default per-run budget in cost units; 0 = unlimited
	CacheTTL              time.Duration
	CacheMaxEntries       int
	RedisURL              string        // empty = L1 only
	Redis                 *redis.Client // shared L2, opened from RedisURL; nil = L1 only
	RosterPath            string
	HTTPClient            *http.Client
}

var cfg Config

// Cfg exposes the engine configuration for sub-packages (scout, sources).
// Always points to the current cfg value.
var Cfg = &cfg

// Init initializes the engine with the given configuration.
func Init(c Config) {
	if c.FetchTimeout <= 0 {
		c.FetchTimeout = 15 * time.Second
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: c.FetchTimeout}
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = time.Hour
	}
	cfg = c
	Cfg = &cfg
}

// ConfigFromEnv reads the configuration from the process environment.
// Load .env files before calling it.
func ConfigFromEnv() Config {
	timeout := env.Duration("FETCH_TIMEOUT", 15*time.Second)
	return Config{
		YouTubeAPIKey:         env.Str("YOUTUBE_API_KEY", ""),
		YouTubeAPIKeyFallback: env.Str("YOUTUBE_API_KEY_FALLBACK", ""),
		YouTubeAPIBase:        env.Str("YOUTUBE_API_BASE", ""),
		RequestsPerSecond:     env.Float("YOUTUBE_RPS", 5),
		FetchTimeout:          timeout,
		RetryMax:              env.Int("RETRY_MAX", DefaultRetryConfig.MaxRetries),
		QuotaBudget:           env.Int("QUOTA_BUDGET", 3000),
		CacheTTL:              env.Duration("CACHE_TTL", time.Hour),
		CacheMaxEntries:       env.Int("CACHE_MAX_ENTRIES", 2000),
		RedisURL:              env.Str("REDIS_URL", ""),
		RosterPath:            env.Str("ROSTER_PATH", ""),
		HTTPClient: &http.Client{
			Timeout: timeout,
			Transport: &http.Transport{
				MaxIdleConns:        20,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     60 * time.Second,
			},
		},
	}
}
