// Package service wires the platform pipelines together and owns the
// process-wide state: the shared cache and the in-flight request registry.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"muc/applemusic"
	"muc/cache"
	"muc/config"
	"muc/database"
	"muc/deezer"
	"muc/limiter"
	"muc/models"
	"muc/platform"
	"muc/resolver"
	"muc/spotify"
	"muc/timed"
	"muc/youtube"
)

type trackResolver interface {
	Resolve(ctx context.Context, uri string) (models.Track, error)
	ResolveAndSearch(ctx context.Context, uri string) (*resolver.SearchResult, error)
	FetchFrom(ctx context.Context, p platform.Platform, uri string) (models.Track, error)
	SearchOn(ctx context.Context, p platform.Platform, query string) (*models.Track, error)
}

type Service struct {
	resolver  trackResolver
	store     *cache.Store[cache.Value]
	snapshots *database.Database
	inflight  singleflight.Group
	logger    *log.Entry
}

// New builds every platform client from cfg and wraps each one as
// cache(limit(timed(client))). Call Close on shutdown.
func New(ctx context.Context, cfg *config.ConfigStruct) (*Service, error) {
	store := cache.NewStore[cache.Value](cache.Options{
		TTL:           cfg.Cache.TTL,
		SweepInterval: cfg.Cache.SweepInterval,
		MaxItems:      cfg.Cache.MaxItems,
	})

	clients := make([]models.PlatformClient, 0, len(platform.All))
	for _, raw := range NewPlatformClients(ctx, cfg) {
		clients = append(clients, cache.Wrap(limiter.Wrap(timed.Wrap(raw), cfg.Options.ClientConcurrency), store))
	}

	s := newService(resolver.New(clients...))
	s.store = store

	if cfg.Cache.SnapshotEnabled() {
		db, err := database.New(cfg.Cache.DBPath)
		if err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to open cache snapshot: %w", err)
		}
		s.snapshots = db
		s.restoreSnapshot()
	}
	return s, nil
}

// NewPlatformClients builds the raw, undecorated client for every platform.
func NewPlatformClients(ctx context.Context, cfg *config.ConfigStruct) []models.PlatformClient {
	timeout := cfg.Options.UpstreamTimeout
	return []models.PlatformClient{
		spotify.New(spotify.Options{
			ClientID:     cfg.Spotify.ClientID,
			ClientSecret: cfg.Spotify.ClientSecret,
			Timeout:      timeout,
		}),
		youtube.New(ctx, youtube.Options{APIKey: cfg.Youtube.APIKey, Timeout: timeout}),
		deezer.New(deezer.Options{RequestsPerSecond: cfg.Deezer.RequestsPerSecond, Timeout: timeout}),
		applemusic.New(applemusic.Options{Country: cfg.AppleMusic.Country, Timeout: timeout}),
	}
}

func newService(r trackResolver) *Service {
	return &Service{
		resolver: r,
		logger:   log.WithFields(log.Fields{"module": "service"}),
	}
}

// Search resolves uri and searches every other platform. Concurrent calls
// for the same trimmed uri share one resolution.
func (s *Service) Search(ctx context.Context, uri string) (*resolver.SearchResult, error) {
	uri = strings.TrimSpace(uri)
	result, err := s.coalesce(ctx, "search:"+uri, func(ctx context.Context) (any, error) {
		return s.resolver.ResolveAndSearch(ctx, uri)
	})
	if err != nil {
		return nil, err
	}
	return result.(*resolver.SearchResult), nil
}

// Track resolves uri on its own platform only.
func (s *Service) Track(ctx context.Context, uri string) (models.Track, error) {
	uri = strings.TrimSpace(uri)
	result, err := s.coalesce(ctx, "track:"+uri, func(ctx context.Context) (any, error) {
		return s.resolver.Resolve(ctx, uri)
	})
	if err != nil {
		return models.Track{}, err
	}
	return result.(models.Track), nil
}

// PlatformTrack fetches uri from platform p through its cached, limited client.
func (s *Service) PlatformTrack(ctx context.Context, p platform.Platform, uri string) (models.Track, error) {
	uri = strings.TrimSpace(uri)
	result, err := s.coalesce(ctx, cache.Key(p, "track", uri), func(ctx context.Context) (any, error) {
		return s.resolver.FetchFrom(ctx, p, uri)
	})
	if err != nil {
		return models.Track{}, err
	}
	return result.(models.Track), nil
}

// PlatformSearch runs query on platform p only. A nil track means no match.
func (s *Service) PlatformSearch(ctx context.Context, p platform.Platform, query string) (*models.Track, error) {
	query = strings.TrimSpace(query)
	result, err := s.coalesce(ctx, cache.Key(p, "search", query), func(ctx context.Context) (any, error) {
		return s.resolver.SearchOn(ctx, p, query)
	})
	if err != nil {
		return nil, err
	}
	return result.(*models.Track), nil
}

// coalesce runs fn once per key among concurrent callers. The shared work is
// detached from any single caller's cancellation; each caller still stops
// waiting when its own ctx ends. The key is released as soon as fn returns.
func (s *Service) coalesce(ctx context.Context, key string, fn func(context.Context) (any, error)) (any, error) {
	ch := s.inflight.DoChan(key, func() (any, error) {
		return fn(context.WithoutCancel(ctx))
	})

	select {
	case res := <-ch:
		if res.Shared {
			s.logger.Tracef("Shared in-flight result for %s", key)
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Close stops the cache sweeper and writes the cache snapshot, if enabled.
func (s *Service) Close() error {
	if s.store == nil {
		return nil
	}
	defer s.store.Close()

	if s.snapshots == nil {
		return nil
	}
	defer s.snapshots.Close()
	return s.saveSnapshot()
}

func (s *Service) saveSnapshot() error {
	entries := s.store.Entries()
	records := make([]database.CacheRecord, 0, len(entries))
	for _, entry := range entries {
		payload, err := json.Marshal(entry.Value)
		if err != nil {
			return fmt.Errorf("failed to encode cache entry %s: %w", entry.Key, err)
		}
		records = append(records, database.CacheRecord{Key: entry.Key, Payload: payload, ExpireAt: entry.ExpireAt})
	}

	if err := s.snapshots.SaveCacheSnapshot(records); err != nil {
		return err
	}
	s.logger.Infof("Saved %d cache entries", len(records))
	return nil
}

func (s *Service) restoreSnapshot() {
	records, err := s.snapshots.LoadCacheSnapshot(time.Now())
	if err != nil {
		s.logger.Errorf("Failed to load cache snapshot: %v", err)
		return
	}

	entries := make([]cache.Entry[cache.Value], 0, len(records))
	for _, r := range records {
		var value cache.Value
		if err := json.Unmarshal(r.Payload, &value); err != nil {
			s.logger.Warnf("Skipping unreadable cache entry %s: %v", r.Key, err)
			continue
		}
		entries = append(entries, cache.Entry[cache.Value]{Key: r.Key, Value: value, ExpireAt: r.ExpireAt})
	}
	s.logger.Infof("Restored %d cache entries", s.store.Restore(entries))
}
