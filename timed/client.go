// Package timed wraps a platform client to log the duration of every
// upstream call and record it as a Sentry span.
package timed

import (
	"context"
	"errors"
	"strings"
	"time"

	sentry "github.com/getsentry/sentry-go"
	log "github.com/sirupsen/logrus"

	"muc/models"
	"muc/platform"
	"muc/sentryhelper"
)

type Client struct {
	next   models.PlatformClient
	logger *log.Entry
}

func Wrap(next models.PlatformClient) *Client {
	return &Client{
		next:   next,
		logger: log.WithFields(log.Fields{"module": "timed", "platform": next.Platform()}),
	}
}

func (c *Client) Platform() platform.Platform {
	return c.next.Platform()
}

func (c *Client) FetchByID(ctx context.Context, uri string) (models.Track, error) {
	span, finish := c.start(ctx, "fetch_by_id", "FetchByID")
	span.SetData("uri", uri)
	track, err := c.next.FetchByID(span.Context(), uri)
	finish(err)
	return track, err
}

func (c *Client) Search(ctx context.Context, query string) (*models.Track, error) {
	span, finish := c.start(ctx, "search", "Search")
	span.SetData("query", query)
	track, err := c.next.Search(span.Context(), query)
	if err == nil {
		span.SetData("found", track != nil)
	}
	finish(err)
	return track, err
}

func (c *Client) start(ctx context.Context, op, method string) (*sentry.Span, func(error)) {
	p := c.next.Platform()
	span := sentryhelper.StartSpan(ctx, p.String()+"."+op)
	span.Description = p.DisplayName() + "." + method
	span.SetTag("platform", p.String())
	started := time.Now()

	return span, func(err error) {
		elapsed := time.Since(started)
		c.logger.Debugf("↳ %s.%s: %dms", p.DisplayName(), method, elapsed.Milliseconds())

		span.Status = spanStatus(err)
		if err != nil && !errors.Is(err, models.ErrNotFound) && !errors.Is(err, models.ErrInvalidURI) {
			sentryhelper.CaptureException(ctx, err)
		}
		span.Finish()
	}
}

func spanStatus(err error) sentry.SpanStatus {
	switch {
	case err == nil:
		return sentry.SpanStatusOK
	case errors.Is(err, models.ErrNotFound):
		return sentry.SpanStatusNotFound
	case errors.Is(err, models.ErrInvalidURI):
		return sentry.SpanStatusInvalidArgument
	case errors.Is(err, context.DeadlineExceeded), strings.Contains(err.Error(), "timeout"):
		return sentry.SpanStatusDeadlineExceeded
	case errors.Is(err, models.ErrUpstreamUnavailable):
		return sentry.SpanStatusUnavailable
	}
	return sentry.SpanStatusInternalError
}
