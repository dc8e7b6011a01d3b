package spotify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	spotifyclient "github.com/zmb3/spotify/v2"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"muc/models"
	"muc/platform"
)

// Tokens are refreshed this long before Spotify says they expire.
const tokenRefreshBuffer = 5 * time.Minute

type Options struct {
	ClientID     string
	ClientSecret string
	// TokenURL and BaseURL default to the public Spotify endpoints.
	TokenURL   string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
}

type Client struct {
	api     *spotifyclient.Client
	tokens  oauth2.TokenSource
	timeout time.Duration
	logger  *log.Entry
}

// credentialsSource fetches a fresh token on every call; caching is left to
// the ReuseTokenSourceWithExpiry wrapper so the refresh buffer applies.
type credentialsSource struct {
	ctx    context.Context
	config *clientcredentials.Config
}

func (s credentialsSource) Token() (*oauth2.Token, error) {
	return s.config.Token(s.ctx)
}

// New builds a Spotify client. Missing credentials do not fail construction;
// the returned client reports every call as upstream unavailable instead.
func New(opts Options) *Client {
	logger := log.WithFields(log.Fields{"module": "spotify", "platform": platform.Spotify})
	client := &Client{timeout: opts.Timeout, logger: logger}
	if client.timeout <= 0 {
		client.timeout = 5 * time.Second
	}

	if opts.ClientID == "" || opts.ClientSecret == "" {
		logger.Warn("Spotify credentials not configured, Spotify lookups are disabled")
		return client
	}

	tokenURL := opts.TokenURL
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: client.timeout}
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, httpClient)
	config := &clientcredentials.Config{
		ClientID:     opts.ClientID,
		ClientSecret: opts.ClientSecret,
		TokenURL:     tokenURL,
	}
	client.tokens = oauth2.ReuseTokenSourceWithExpiry(nil, credentialsSource{ctx: ctx, config: config}, tokenRefreshBuffer)

	clientOpts := []spotifyclient.ClientOption{}
	if opts.BaseURL != "" {
		clientOpts = append(clientOpts, spotifyclient.WithBaseURL(opts.BaseURL))
	}
	client.api = spotifyclient.New(oauth2.NewClient(ctx, client.tokens), clientOpts...)
	return client
}

func (c *Client) Platform() platform.Platform {
	return platform.Spotify
}

func (c *Client) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	if err := c.ready(); err != nil {
		return models.Track{}, err
	}

	id, ok := platform.ParseID(platform.Spotify, uri)
	if !ok {
		return models.Track{}, fmt.Errorf("%w: %s", models.ErrInvalidURI, uri)
	}

	c.logger.Tracef("Fetching track from Spotify API: %s", id)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	track, err := c.api.GetTrack(ctx, spotifyclient.ID(id))
	if err != nil {
		return models.Track{}, c.classifyError("get track "+id, err)
	}

	// Track objects may omit the id; the requested one is authoritative.
	if track.ID == "" {
		track.ID = spotifyclient.ID(id)
	}
	normalized, err := NormalizeTrack(track)
	if err != nil {
		return models.Track{}, fmt.Errorf("%w: spotify track %s: %w", models.ErrUpstreamUnavailable, id, err)
	}
	c.logger.Debugf("Fetched Spotify track: '%s' by %s", normalized.Title, normalized.ArtistName)
	return normalized, nil
}

func (c *Client) Search(ctx context.Context, query string) (*models.Track, error) {
	if err := c.ready(); err != nil {
		return nil, err
	}

	c.logger.Tracef("Searching Spotify for: %s", query)
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	results, err := c.api.Search(ctx, query, spotifyclient.SearchTypeTrack, spotifyclient.Limit(1))
	if err != nil {
		return nil, c.classifyError("search", err)
	}
	if results.Tracks == nil || len(results.Tracks.Tracks) == 0 {
		c.logger.Debugf("No Spotify results for: %s", query)
		return nil, nil
	}

	normalized, err := NormalizeTrack(&results.Tracks.Tracks[0])
	if err != nil {
		return nil, fmt.Errorf("%w: spotify search: %w", models.ErrUpstreamUnavailable, err)
	}
	return &normalized, nil
}

// ready makes sure a usable access token exists before a request is sent.
func (c *Client) ready() error {
	if c.api == nil {
		return fmt.Errorf("%w: spotify credentials not configured", models.ErrUpstreamUnavailable)
	}
	if _, err := c.tokens.Token(); err != nil {
		c.logger.Errorf("Failed to obtain Spotify access token: %v", err)
		return fmt.Errorf("%w: spotify client unavailable: %w", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (c *Client) classifyError(op string, err error) error {
	var apiErr spotifyclient.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusNotFound, http.StatusBadRequest:
			return fmt.Errorf("%w: spotify %s: %w", models.ErrNotFound, op, err)
		}
	}
	c.logger.Errorf("Spotify %s failed: %v", op, err)
	return fmt.Errorf("%w: spotify %s: %w", models.ErrUpstreamUnavailable, op, err)
}
