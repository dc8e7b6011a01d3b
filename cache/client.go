package cache

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"

	"muc/models"
	"muc/platform"
)

const (
	opTrack  = "track"
	opSearch = "search"
)

// Value is what the decorator stores: either a track or a negative marker
// recording that the platform had nothing for the key.
type Value struct {
	Track    *models.Track `json:"track,omitempty"`
	Negative bool          `json:"negative,omitempty"`
}

type Lookup int

const (
	Miss Lookup = iota
	Hit
	NegativeHit
)

func (l Lookup) String() string {
	switch l {
	case Hit:
		return "hit"
	case NegativeHit:
		return "negative-hit"
	}
	return "miss"
}

// Key builds the store key for one platform operation.
func Key(p platform.Platform, op, key string) string {
	return fmt.Sprintf("%s:%s:%s", p, op, key)
}

// Client memoizes FetchByID and Search results of the wrapped client in a
// Store shared by all platforms.
type Client struct {
	next   models.PlatformClient
	store  *Store[Value]
	logger *log.Entry
}

func Wrap(next models.PlatformClient, store *Store[Value]) *Client {
	return &Client{
		next:   next,
		store:  store,
		logger: log.WithFields(log.Fields{"module": "cache", "platform": next.Platform()}),
	}
}

func (c *Client) Platform() platform.Platform {
	return c.next.Platform()
}

// FetchByID serves cached tracks and cached not-found markers. Confirmed
// not-found results are memoized; transport failures are not.
func (c *Client) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	id, ok := platform.ParseID(c.Platform(), uri)
	if !ok {
		return models.Track{}, fmt.Errorf("%w: %s", models.ErrInvalidURI, uri)
	}
	key := Key(c.Platform(), opTrack, id)

	switch lookup, value := c.lookup(key); lookup {
	case Hit:
		return *value.Track, nil
	case NegativeHit:
		return models.Track{}, fmt.Errorf("%w: %s (cached)", models.ErrNotFound, key)
	}

	track, err := c.next.FetchByID(ctx, uri)
	switch {
	case err == nil && !track.IsZero():
		c.store.Set(key, Value{Track: &track})
		return track, nil
	case err == nil, errors.Is(err, models.ErrNotFound):
		c.store.Set(key, Value{Negative: true})
		return models.Track{}, fmt.Errorf("%w: %s", models.ErrNotFound, key)
	}
	return models.Track{}, err
}

// Search memoizes both found tracks and empty results.
func (c *Client) Search(ctx context.Context, query string) (*models.Track, error) {
	key := Key(c.Platform(), opSearch, query)

	switch lookup, value := c.lookup(key); lookup {
	case Hit:
		track := *value.Track
		return &track, nil
	case NegativeHit:
		return nil, nil
	}

	track, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if track == nil {
		c.store.Set(key, Value{Negative: true})
		return nil, nil
	}
	stored := *track
	c.store.Set(key, Value{Track: &stored})
	return track, nil
}

func (c *Client) lookup(key string) (Lookup, Value) {
	value, ok := c.store.Get(key)
	lookup := Miss
	switch {
	case !ok:
	case value.Negative || value.Track == nil:
		lookup = NegativeHit
	default:
		lookup = Hit
	}
	c.logger.Tracef("cache %s for %s", lookup, key)
	return lookup, value
}
