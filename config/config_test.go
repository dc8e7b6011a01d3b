package config

import (
	"testing"
	"time"
)

func TestGetClientConcurrency(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 10},
		{"invalid", "abc", 10},
		{"zero", "0", 10},
		{"negative", "-1", 10},
		{"min", "1", 1},
		{"mid", "25", 25},
		{"max", "100", 100},
		{"over", "101", 100},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CLIENT_CONCURRENCY", tt.env)
			if got := getClientConcurrency(); got != tt.want {
				t.Errorf("getClientConcurrency() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetUpstreamTimeoutSeconds(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 5},
		{"invalid", "soon", 5},
		{"zero", "0", 5},
		{"valid", "12", 12},
		{"over", "120", 60},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("UPSTREAM_TIMEOUT_SECONDS", tt.env)
			if got := getUpstreamTimeoutSeconds(); got != tt.want {
				t.Errorf("getUpstreamTimeoutSeconds() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetDeezerRequestsPerSecond(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 10},
		{"negative", "-5", 10},
		{"valid", "20", 20},
		{"over", "51", 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DEEZER_REQUESTS_PER_SECOND", tt.env)
			if got := getDeezerRequestsPerSecond(); got != tt.want {
				t.Errorf("getDeezerRequestsPerSecond() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestGetCacheMaxItems(t *testing.T) {
	tests := []struct {
		name string
		env  string
		want int
	}{
		{"empty", "", 16384},
		{"invalid", "lots", 16384},
		{"under", "4", 16},
		{"valid", "500", 500},
		{"over", "2000000", 1000000},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("CACHE_MAX_ITEMS", tt.env)
			if got := getCacheMaxItems(); got != tt.want {
				t.Errorf("getCacheMaxItems() = %d; want %d", got, tt.want)
			}
		})
	}
}

func TestNewConfig(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("SPOTIFY_CLIENT_ID", "id")
	t.Setenv("SPOTIFY_CLIENT_SECRET", "")
	t.Setenv("CACHE_TTL_MINUTES", "30")
	t.Setenv("CACHE_SWEEP_MINUTES", "")
	t.Setenv("CACHE_DB_PATH", "/tmp/muc.db")
	t.Setenv("APPLE_MUSIC_COUNTRY", "gb")

	cfg := NewConfig()

	if cfg.Options.Port != "8080" {
		t.Errorf("Port = %q; want 8080", cfg.Options.Port)
	}
	if cfg.Spotify.Enabled() {
		t.Error("Spotify.Enabled() = true; want false without a secret")
	}
	if cfg.Cache.TTL != 30*time.Minute {
		t.Errorf("Cache.TTL = %v; want 30m", cfg.Cache.TTL)
	}
	if cfg.Cache.SweepInterval != 10*time.Minute {
		t.Errorf("Cache.SweepInterval = %v; want 10m", cfg.Cache.SweepInterval)
	}
	if !cfg.Cache.SnapshotEnabled() {
		t.Error("Cache.SnapshotEnabled() = false; want true")
	}
	if cfg.AppleMusic.Country != "gb" {
		t.Errorf("AppleMusic.Country = %q; want gb", cfg.AppleMusic.Country)
	}
}
