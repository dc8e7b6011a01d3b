package deezer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"muc/models"
	"muc/platform"
)

const defaultBaseURL = "https://api.deezer.com"

type Options struct {
	BaseURL           string
	Timeout           time.Duration
	RequestsPerSecond int
	HTTPClient        *http.Client
}

// Client talks to the public Deezer API, which needs no credentials but
// enforces a per-IP quota, so outgoing requests are paced.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	timeout    time.Duration
	logger     *log.Entry
}

func New(opts Options) *Client {
	c := &Client{
		baseURL:    opts.BaseURL,
		httpClient: opts.HTTPClient,
		timeout:    opts.Timeout,
		logger:     log.WithFields(log.Fields{"module": "deezer", "platform": platform.Deezer}),
	}
	if c.baseURL == "" {
		c.baseURL = defaultBaseURL
	}
	if c.timeout <= 0 {
		c.timeout = 5 * time.Second
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: c.timeout}
	}

	rps := opts.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}
	c.limiter = rate.NewLimiter(rate.Limit(rps), rps)
	return c
}

func (c *Client) Platform() platform.Platform {
	return platform.Deezer
}

func (c *Client) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	id, ok := platform.ParseID(platform.Deezer, uri)
	if !ok {
		return models.Track{}, fmt.Errorf("%w: %s", models.ErrInvalidURI, uri)
	}

	var response trackResponse
	if err := c.get(ctx, "/track/"+url.PathEscape(id), nil, &response); err != nil {
		return models.Track{}, err
	}
	if err := c.checkError(response.Error, "track "+id); err != nil {
		return models.Track{}, err
	}
	if response.ID == 0 {
		return models.Track{}, fmt.Errorf("%w: deezer track %s", models.ErrNotFound, id)
	}
	track, err := NormalizeTrack(response.Track)
	if err != nil {
		return models.Track{}, fmt.Errorf("%w: deezer track %s: %w", models.ErrUpstreamUnavailable, id, err)
	}
	return track, nil
}

func (c *Client) Search(ctx context.Context, query string) (*models.Track, error) {
	params := url.Values{}
	params.Set("q", query)
	params.Set("limit", "1")

	var response searchResponse
	if err := c.get(ctx, "/search/track", params, &response); err != nil {
		return nil, err
	}
	if err := c.checkError(response.Error, "search"); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if len(response.Data) == 0 {
		c.logger.Debugf("No Deezer results for: %s", query)
		return nil, nil
	}

	track, err := NormalizeTrack(response.Data[0])
	if err != nil {
		return nil, fmt.Errorf("%w: deezer search: %w", models.ErrUpstreamUnavailable, err)
	}
	return &track, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: deezer rate limit wait: %w", models.ErrUpstreamUnavailable, err)
	}

	endpoint := c.baseURL + path
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("deezer: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	c.logger.Tracef("GET %s", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Errorf("Deezer request failed: %v", err)
		return fmt.Errorf("%w: deezer request: %w", models.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return fmt.Errorf("%w: deezer %s", models.ErrNotFound, path)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: deezer HTTP %d", models.ErrUpstreamUnavailable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: deezer decode: %w", models.ErrUpstreamUnavailable, err)
	}
	return nil
}

func (c *Client) checkError(apiErr *apiError, op string) error {
	if apiErr == nil {
		return nil
	}
	if apiErr.Code == codeDataNotFound {
		return fmt.Errorf("%w: deezer %s: %s", models.ErrNotFound, op, apiErr.Message)
	}
	c.logger.Errorf("Deezer %s returned %s (%d): %s", op, apiErr.Type, apiErr.Code, apiErr.Message)
	return fmt.Errorf("%w: deezer %s: %s", models.ErrUpstreamUnavailable, op, apiErr.Message)
}
