package applemusic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"muc/models"
	"muc/platform"
)

const (
	defaultLookupBaseURL = "https://itunes.apple.com"
	defaultPageBaseURL   = "https://music.apple.com"
	defaultCountry       = "us"
)

type Options struct {
	// LookupBaseURL serves the iTunes lookup and search endpoints.
	LookupBaseURL string
	// PageBaseURL serves the music.apple.com pages used as a fallback.
	PageBaseURL string
	Country     string
	Timeout     time.Duration
	HTTPClient  *http.Client
}

type Client struct {
	lookupBaseURL string
	pageBaseURL   string
	country       string
	timeout       time.Duration
	httpClient    *http.Client
	logger        *log.Entry
}

func New(opts Options) *Client {
	c := &Client{
		lookupBaseURL: opts.LookupBaseURL,
		pageBaseURL:   opts.PageBaseURL,
		country:       opts.Country,
		timeout:       opts.Timeout,
		httpClient:    opts.HTTPClient,
		logger:        log.WithFields(log.Fields{"module": "applemusic", "platform": platform.AppleMusic}),
	}
	if c.lookupBaseURL == "" {
		c.lookupBaseURL = defaultLookupBaseURL
	}
	if c.pageBaseURL == "" {
		c.pageBaseURL = defaultPageBaseURL
	}
	if c.country == "" {
		c.country = defaultCountry
	}
	if c.timeout <= 0 {
		c.timeout = 5 * time.Second
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

func (c *Client) Platform() platform.Platform {
	return platform.AppleMusic
}

// FetchByID looks the track up through the iTunes lookup API. If that API
// cannot be reached and the link names an album, the track page is scraped.
func (c *Client) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	request, err := ParseAppleMusicURL(uri)
	if err != nil {
		return models.Track{}, fmt.Errorf("%w: %s", models.ErrInvalidURI, uri)
	}
	country := request.Country
	if country == "" {
		country = c.country
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("id", request.TrackID)
	params.Set("country", country)
	params.Set("entity", "song")

	var response lookupResponse
	err = c.get(ctx, "/lookup", params, &response)
	if errors.Is(err, models.ErrUpstreamUnavailable) && request.AlbumID != "" {
		c.logger.Warnf("iTunes lookup unavailable (%v), falling back to page metadata", err)
		info, scrapeErr := c.scrapeTrackInfo(ctx, country, request.AlbumID, request.TrackID)
		if scrapeErr != nil {
			c.logger.Errorf("Failed to fetch Apple Music track page: %v", scrapeErr)
			return models.Track{}, err
		}
		track, normErr := normalizeScraped(request.AlbumID, request.TrackID, info)
		if normErr != nil {
			return models.Track{}, fmt.Errorf("%w: itunes page %s: %w", models.ErrUpstreamUnavailable, request.TrackID, normErr)
		}
		return track, nil
	}
	if err != nil {
		return models.Track{}, err
	}

	for _, result := range response.Results {
		if strconv.FormatInt(result.TrackID, 10) == request.TrackID {
			track, err := NormalizeTrack(result)
			if err != nil {
				return models.Track{}, fmt.Errorf("%w: itunes track %s: %w", models.ErrUpstreamUnavailable, request.TrackID, err)
			}
			return track, nil
		}
	}
	return models.Track{}, fmt.Errorf("%w: itunes track %s", models.ErrNotFound, request.TrackID)
}

func (c *Client) Search(ctx context.Context, query string) (*models.Track, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("term", query)
	params.Set("limit", "1")
	params.Set("media", "music")
	params.Set("entity", "song")
	params.Set("country", c.country)

	var response lookupResponse
	if err := c.get(ctx, "/search", params, &response); err != nil {
		return nil, err
	}
	if response.ResultCount < 1 || len(response.Results) == 0 {
		c.logger.Debugf("No iTunes results for: %s", query)
		return nil, nil
	}

	track, err := NormalizeTrack(response.Results[0])
	if err != nil {
		return nil, fmt.Errorf("%w: itunes search: %w", models.ErrUpstreamUnavailable, err)
	}
	return &track, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out *lookupResponse) error {
	endpoint := c.lookupBaseURL + path + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("applemusic: build request: %w", err)
	}

	c.logger.Tracef("GET %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: itunes request: %w", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: itunes HTTP %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: itunes decode: %w", models.ErrUpstreamUnavailable, err)
	}
	return nil
}
