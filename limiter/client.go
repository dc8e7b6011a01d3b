package limiter

import (
	"context"

	"muc/models"
	"muc/platform"
)

// Client routes every call of the wrapped client through one Limiter.
type Client struct {
	next    models.PlatformClient
	limiter *Limiter
}

func Wrap(next models.PlatformClient, limit int) *Client {
	return &Client{next: next, limiter: New(limit)}
}

func (c *Client) Platform() platform.Platform {
	return c.next.Platform()
}

func (c *Client) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	return Run(ctx, c.limiter, func(ctx context.Context) (models.Track, error) {
		return c.next.FetchByID(ctx, uri)
	})
}

func (c *Client) Search(ctx context.Context, query string) (*models.Track, error) {
	return Run(ctx, c.limiter, func(ctx context.Context) (*models.Track, error) {
		return c.next.Search(ctx, query)
	})
}
