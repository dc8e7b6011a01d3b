package youtube

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	ytapi "google.golang.org/api/youtube/v3"

	"muc/models"
	"muc/platform"
)

type Options struct {
	APIKey string
	// Endpoint overrides the YouTube Data API base URL.
	Endpoint string
	Timeout  time.Duration
}

type Client struct {
	service *ytapi.Service
	timeout time.Duration
	logger  *log.Entry
}

// New builds a YouTube Data API client. Without an API key, or if the
// service cannot be created, every call fails as upstream unavailable.
func New(ctx context.Context, opts Options) *Client {
	logger := log.WithFields(log.Fields{"module": "youtube", "platform": platform.YouTube})
	client := &Client{timeout: opts.Timeout, logger: logger}
	if client.timeout <= 0 {
		client.timeout = 5 * time.Second
	}

	if opts.APIKey == "" {
		logger.Warn("YouTube API key not configured, YouTube lookups are disabled")
		return client
	}

	clientOpts := []option.ClientOption{option.WithAPIKey(opts.APIKey)}
	if opts.Endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(opts.Endpoint))
	}

	service, err := ytapi.NewService(ctx, clientOpts...)
	if err != nil {
		logger.Errorf("error creating YouTube client: %v", err)
		return client
	}
	client.service = service
	return client
}

func (c *Client) Platform() platform.Platform {
	return platform.YouTube
}

func (c *Client) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	if c.service == nil {
		return models.Track{}, fmt.Errorf("%w: youtube api key not configured", models.ErrUpstreamUnavailable)
	}

	videoID, ok := platform.ParseID(platform.YouTube, uri)
	if !ok {
		return models.Track{}, fmt.Errorf("%w: %s", models.ErrInvalidURI, uri)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.service.Videos.List([]string{"snippet"}).Id(videoID).Context(ctx).Do()
	if err != nil {
		return models.Track{}, c.classifyError("videos.list "+videoID, err)
	}
	if len(response.Items) == 0 {
		return models.Track{}, fmt.Errorf("%w: youtube video %s", models.ErrNotFound, videoID)
	}

	c.logger.Tracef("video found: %v", response.Items[0].Snippet)
	track, err := NormalizeVideo(response.Items[0])
	if err != nil {
		return models.Track{}, fmt.Errorf("%w: youtube video %s: %w", models.ErrUpstreamUnavailable, videoID, err)
	}
	return track, nil
}

func (c *Client) Search(ctx context.Context, query string) (*models.Track, error) {
	if c.service == nil {
		return nil, fmt.Errorf("%w: youtube api key not configured", models.ErrUpstreamUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	response, err := c.service.Search.List([]string{"snippet"}).
		Q(query).
		Type("video").
		MaxResults(1).
		Context(ctx).
		Do()
	if err != nil {
		return nil, c.classifyError("search.list", err)
	}

	for _, item := range response.Items {
		if item.Id == nil || item.Id.VideoId == "" {
			continue
		}
		track, err := NormalizeVideo(item)
		if err != nil {
			return nil, fmt.Errorf("%w: youtube search: %w", models.ErrUpstreamUnavailable, err)
		}
		return &track, nil
	}

	c.logger.Debugf("No YouTube results for: %s", query)
	return nil, nil
}

func (c *Client) classifyError(op string, err error) error {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound {
		return fmt.Errorf("%w: youtube %s: %w", models.ErrNotFound, op, err)
	}
	c.logger.Errorf("error querying YouTube (%s): %v", op, err)
	return fmt.Errorf("%w: youtube %s: %w", models.ErrUpstreamUnavailable, op, err)
}
