// Package sentryhelper keeps Sentry scope and breadcrumbs isolated per
// HTTP request and attaches upstream spans to the request transaction.
package sentryhelper

import (
	"context"
	"fmt"

	sentry "github.com/getsentry/sentry-go"
)

type contextKey string

const hubContextKey contextKey = "sentry_hub"

// StartRequestTransaction clones the current hub, binds it to ctx and starts a
// transaction for one API request.
func StartRequestTransaction(ctx context.Context, route string, uri string) (context.Context, *sentry.Span) {
	hub := sentry.CurrentHub().Clone()
	ctx = context.WithValue(ctx, hubContextKey, hub)
	ctx = sentry.SetHubOnContext(ctx, hub)

	transaction := sentry.StartTransaction(ctx, fmt.Sprintf("api.%s", route),
		sentry.WithOpName("http.server"),
		sentry.WithTransactionSource(sentry.SourceRoute),
	)
	transaction.SetTag("route", route)
	transaction.SetData("uri", uri)

	hub.Scope().SetSpan(transaction)
	return transaction.Context(), transaction
}

// HubFromContext returns the request hub, or the current hub outside a request.
func HubFromContext(ctx context.Context) *sentry.Hub {
	if ctx == nil {
		return sentry.CurrentHub()
	}
	if hub, ok := ctx.Value(hubContextKey).(*sentry.Hub); ok && hub != nil {
		return hub
	}
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		return hub
	}
	return sentry.CurrentHub()
}

// AddBreadcrumb records a breadcrumb on the request hub in ctx.
func AddBreadcrumb(ctx context.Context, breadcrumb *sentry.Breadcrumb) {
	HubFromContext(ctx).AddBreadcrumb(breadcrumb, nil)
}

func CaptureException(ctx context.Context, err error) *sentry.EventID {
	return HubFromContext(ctx).CaptureException(err)
}

// StartSpan starts a child span of the transaction in ctx, if any.
func StartSpan(ctx context.Context, operation string) *sentry.Span {
	return sentry.StartSpan(ctx, operation)
}
