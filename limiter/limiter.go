// Package limiter bounds how many upstream calls run at once.
package limiter

import (
	"context"

	"golang.org/x/sync/semaphore"
)

const DefaultLimit = 10

// Limiter admits at most its limit of concurrent tasks. Waiters are admitted
// in arrival order.
type Limiter struct {
	sem   *semaphore.Weighted
	limit int64
}

func New(limit int) *Limiter {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Limiter{sem: semaphore.NewWeighted(int64(limit)), limit: int64(limit)}
}

func (l *Limiter) Limit() int {
	return int(l.limit)
}

// Run waits for a slot, runs fn and releases the slot whatever fn returns.
// If ctx ends while waiting, fn is not run and the context error is returned.
func Run[T any](ctx context.Context, l *Limiter, fn func(context.Context) (T, error)) (T, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		var zero T
		return zero, err
	}
	defer l.sem.Release(1)
	return fn(ctx)
}
