package limiter

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunWithLimitOne(t *testing.T) {
	l := New(1)
	release := make(chan struct{})
	firstStarted := make(chan struct{})
	var secondStarted atomic.Bool

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		_, _ = Run(context.Background(), l, func(context.Context) (int, error) {
			close(firstStarted)
			<-release
			return 1, nil
		})
	}()

	<-firstStarted
	go func() {
		defer wg.Done()
		_, _ = Run(context.Background(), l, func(context.Context) (int, error) {
			secondStarted.Store(true)
			return 2, nil
		})
	}()

	time.Sleep(50 * time.Millisecond)
	assert.False(t, secondStarted.Load(), "second task started before the first settled")

	close(release)
	wg.Wait()
	assert.True(t, secondStarted.Load())
}

func TestRunNeverExceedsLimit(t *testing.T) {
	l := New(3)
	var running, peak atomic.Int32

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = Run(context.Background(), l, func(context.Context) (struct{}, error) {
				n := running.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(5 * time.Millisecond)
				running.Add(-1)
				return struct{}{}, nil
			})
		}()
	}
	wg.Wait()

	assert.LessOrEqual(t, peak.Load(), int32(3))
}

func TestRunPassesOutcomeThrough(t *testing.T) {
	l := New(1)
	boom := errors.New("boom")

	_, err := Run(context.Background(), l, func(context.Context) (string, error) {
		return "", boom
	})
	require.ErrorIs(t, err, boom)

	// The failed task released its slot.
	got, err := Run(context.Background(), l, func(context.Context) (string, error) {
		return "ok", nil
	})
	require.NoError(t, err)
	assert.Equal(t, "ok", got)
}

func TestRunCancelledWhileQueued(t *testing.T) {
	l := New(1)
	release := make(chan struct{})
	started := make(chan struct{})
	go func() {
		_, _ = Run(context.Background(), l, func(context.Context) (int, error) {
			close(started)
			<-release
			return 0, nil
		})
	}()
	<-started
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ran := false
	_, err := Run(ctx, l, func(context.Context) (int, error) {
		ran = true
		return 0, nil
	})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, ran)
}

func TestNewDefaultsLimit(t *testing.T) {
	assert.Equal(t, DefaultLimit, New(0).Limit())
	assert.Equal(t, 4, New(4).Limit())
}
