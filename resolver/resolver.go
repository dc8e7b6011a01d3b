// Package resolver turns one track URI into the matching tracks on every
// supported platform.
package resolver

import (
	"context"
	"fmt"
	"strings"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"muc/models"
	"muc/platform"
	"muc/sentryhelper"
)

type Resolver struct {
	clients map[platform.Platform]models.PlatformClient
	logger  *log.Entry
}

// SearchResult is the outcome of ResolveAndSearch.
type SearchResult struct {
	Source  models.TrackIdentifier `json:"sourceTrack"`
	Results []Match                `json:"results"`
}

func New(clients ...models.PlatformClient) *Resolver {
	r := &Resolver{
		clients: make(map[platform.Platform]models.PlatformClient, len(clients)),
		logger:  log.WithFields(log.Fields{"module": "resolver"}),
	}
	for _, client := range clients {
		r.clients[client.Platform()] = client
	}
	return r
}

// Resolve classifies uri and fetches the track from its platform. Client
// failures are returned unchanged.
func (r *Resolver) Resolve(ctx context.Context, uri string) (models.Track, error) {
	uri = strings.TrimSpace(uri)
	p, ok := platform.Classify(uri)
	if !ok {
		return models.Track{}, fmt.Errorf("%w: %q", models.ErrUnrecognizedURI, uri)
	}

	client, err := r.client(p)
	if err != nil {
		return models.Track{}, err
	}

	r.logger.Tracef("Resolving %s track: %s", p, uri)
	return client.FetchByID(ctx, uri)
}

// FetchFrom fetches uri from platform p without classifying it first.
func (r *Resolver) FetchFrom(ctx context.Context, p platform.Platform, uri string) (models.Track, error) {
	client, err := r.client(p)
	if err != nil {
		return models.Track{}, err
	}
	return client.FetchByID(ctx, strings.TrimSpace(uri))
}

// SearchOn runs query against platform p only. A nil track means no match.
func (r *Resolver) SearchOn(ctx context.Context, p platform.Platform, query string) (*models.Track, error) {
	client, err := r.client(p)
	if err != nil {
		return nil, err
	}
	return client.Search(ctx, strings.TrimSpace(query))
}

func (r *Resolver) client(p platform.Platform) (models.PlatformClient, error) {
	client, ok := r.clients[p]
	if !ok {
		return nil, fmt.Errorf("%w: no %s client configured", models.ErrUpstreamUnavailable, p)
	}
	return client, nil
}

// CrossSearch looks for source on every other platform at once. A platform
// that fails or has no match is left out; CrossSearch itself never fails.
func (r *Resolver) CrossSearch(ctx context.Context, source models.Track) []models.Track {
	query := BuildQuery(source)
	logger := r.logger.WithFields(log.Fields{"source": source.UniqueID, "query": query})

	found := make([]*models.Track, len(platform.All))
	var g errgroup.Group
	for i, p := range platform.All {
		if p == source.Platform {
			continue
		}
		client, ok := r.clients[p]
		if !ok {
			continue
		}
		g.Go(func() error {
			track, err := client.Search(ctx, query)
			if err != nil {
				logger.Warnf("Search on %s failed: %v", p, err)
				sentryhelper.AddBreadcrumb(ctx, &sentry.Breadcrumb{
					Category: "cross-search",
					Message:  fmt.Sprintf("%s search failed", p.DisplayName()),
					Level:    sentry.LevelWarning,
					Data:     map[string]any{"query": query, "error": err.Error()},
				})
				return nil
			}
			found[i] = track
			return nil
		})
	}
	_ = g.Wait()

	tracks := make([]models.Track, 0, len(found))
	for _, track := range found {
		if track != nil {
			tracks = append(tracks, *track)
		}
	}
	logger.Debugf("Cross-search found %d tracks", len(tracks))
	return tracks
}

// ResolveAndSearch resolves uri, searches the other platforms for it and
// returns the de-duplicated, ordered result list with the source first.
func (r *Resolver) ResolveAndSearch(ctx context.Context, uri string) (*SearchResult, error) {
	source, err := r.Resolve(ctx, uri)
	if err != nil {
		return nil, err
	}

	matches := []Match{{Track: source, IsSource: true}}
	for _, track := range r.CrossSearch(ctx, source) {
		matches = append(matches, Match{Track: track})
	}

	results := DeduplicateTracks(matches)
	SortResults(results)
	return &SearchResult{Source: source.Identifier(), Results: results}, nil
}
