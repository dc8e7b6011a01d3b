package config

import (
	"os"
	"strconv"
	"time"
)

type ConfigStruct struct {
	Options    Options
	Spotify    SpotifyConfig
	Youtube    YoutubeConfig
	Deezer     DeezerConfig
	AppleMusic AppleMusicConfig
	Cache      CacheConfig
	Sentry     SentryConfig
}

type Options struct {
	Port              string
	LogLevel          string
	ClientConcurrency int
	UpstreamTimeout   time.Duration
}

type SpotifyConfig struct {
	ClientID     string
	ClientSecret string
}

type YoutubeConfig struct {
	APIKey string
}

type DeezerConfig struct {
	RequestsPerSecond int
}

type AppleMusicConfig struct {
	Country string
}

type CacheConfig struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxItems      int
	// DBPath enables cache snapshots across restarts when set.
	DBPath string
}

type SentryConfig struct {
	DSN     string
	Release string
}

func (s *SpotifyConfig) Enabled() bool {
	return s.ClientID != "" && s.ClientSecret != ""
}

func (c *CacheConfig) SnapshotEnabled() bool {
	return c.DBPath != ""
}

func NewConfig() *ConfigStruct {
	return &ConfigStruct{
		Options: Options{
			Port:              getString("PORT", "8080"),
			LogLevel:          getString("LOG_LEVEL", "info"),
			ClientConcurrency: getClientConcurrency(),
			UpstreamTimeout:   time.Duration(getUpstreamTimeoutSeconds()) * time.Second,
		},
		Spotify: SpotifyConfig{
			ClientID:     os.Getenv("SPOTIFY_CLIENT_ID"),
			ClientSecret: os.Getenv("SPOTIFY_CLIENT_SECRET"),
		},
		Youtube: YoutubeConfig{
			APIKey: os.Getenv("YOUTUBE_API_KEY"),
		},
		Deezer: DeezerConfig{
			RequestsPerSecond: getDeezerRequestsPerSecond(),
		},
		AppleMusic: AppleMusicConfig{
			Country: getString("APPLE_MUSIC_COUNTRY", "us"),
		},
		Cache: CacheConfig{
			TTL:           time.Duration(getPositiveInt("CACHE_TTL_MINUTES", 60)) * time.Minute,
			SweepInterval: time.Duration(getPositiveInt("CACHE_SWEEP_MINUTES", 10)) * time.Minute,
			MaxItems:      getCacheMaxItems(),
			DBPath:        os.Getenv("CACHE_DB_PATH"),
		},
		Sentry: SentryConfig{
			DSN:     os.Getenv("SENTRY_DSN"),
			Release: os.Getenv("RELEASE"),
		},
	}
}

func getString(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getPositiveInt(key string, fallback int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return fallback
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil || value <= 0 {
		return fallback
	}
	return value
}

func getClientConcurrency() int {
	limit := getPositiveInt("CLIENT_CONCURRENCY", 10)
	if limit > 100 {
		return 100
	}
	return limit
}

func getUpstreamTimeoutSeconds() int {
	timeout := getPositiveInt("UPSTREAM_TIMEOUT_SECONDS", 5)
	if timeout > 60 {
		return 60
	}
	return timeout
}

func getDeezerRequestsPerSecond() int {
	rps := getPositiveInt("DEEZER_REQUESTS_PER_SECOND", 10)
	if rps > 50 {
		return 50 // Deezer allows 50 requests per 5 seconds per IP
	}
	return rps
}

func getCacheMaxItems() int {
	maxItems := getPositiveInt("CACHE_MAX_ITEMS", 16384)
	if maxItems < 16 {
		return 16
	}
	if maxItems > 1_000_000 {
		return 1_000_000
	}
	return maxItems
}
