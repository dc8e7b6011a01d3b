// Package cache memoizes platform lookups with a TTL and LRU-bounded store.
package cache

import (
	"container/list"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL           = time.Hour
	DefaultSweepInterval = 10 * time.Minute
	DefaultMaxItems      = 16384
)

type Options struct {
	TTL           time.Duration
	SweepInterval time.Duration
	MaxItems      int
	// Now replaces time.Now in tests.
	Now func() time.Time
}

// Entry is an exported view of a stored value, used for snapshots.
type Entry[V any] struct {
	Key      string
	Value    V
	ExpireAt time.Time
}

type element[V any] struct {
	key      string
	value    V
	expireAt time.Time
}

// Store is a concurrency-safe map whose entries expire after a TTL. The
// list is kept in recency order: Set and a successful Get move an entry to
// the back, and eviction removes from the front.
type Store[V any] struct {
	mu       sync.Mutex
	items    map[string]*list.Element
	order    *list.List
	ttl      time.Duration
	maxItems int
	now      func() time.Time

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}
	logger   *log.Entry
}

// NewStore starts the background sweeper; call Close to stop it.
func NewStore[V any](opts Options) *Store[V] {
	s := &Store[V]{
		items:    make(map[string]*list.Element),
		order:    list.New(),
		ttl:      opts.TTL,
		maxItems: opts.MaxItems,
		now:      opts.Now,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		logger:   log.WithFields(log.Fields{"module": "cache"}),
	}
	if s.ttl <= 0 {
		s.ttl = DefaultTTL
	}
	if s.maxItems <= 0 {
		s.maxItems = DefaultMaxItems
	}
	if s.now == nil {
		s.now = time.Now
	}

	interval := opts.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	go s.sweepLoop(interval)
	return s
}

// Get returns the value for key. An expired entry is returned one last time
// and removed.
func (s *Store[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	el, ok := s.items[key]
	if !ok {
		var zero V
		return zero, false
	}
	item := el.Value.(*element[V])
	if !s.now().Before(item.expireAt) {
		s.remove(el)
		return item.value, true
	}
	s.order.MoveToBack(el)
	return item.value, true
}

// Set stores value under key with a fresh expiry. If the store grows past
// its limit the least recently used entries are dropped.
func (s *Store[V]) Set(key string, value V) {
	s.setWithExpiry(key, value, s.now().Add(s.ttl))
}

// Restore inserts an entry with an explicit expiry, skipping expired ones.
func (s *Store[V]) Restore(entries []Entry[V]) int {
	restored := 0
	now := s.now()
	for _, entry := range entries {
		if !now.Before(entry.ExpireAt) {
			continue
		}
		s.setWithExpiry(entry.Key, entry.Value, entry.ExpireAt)
		restored++
	}
	return restored
}

func (s *Store[V]) setWithExpiry(key string, value V, expireAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		item := el.Value.(*element[V])
		item.value = value
		item.expireAt = expireAt
		s.order.MoveToBack(el)
	} else {
		s.items[key] = s.order.PushBack(&element[V]{key: key, value: value, expireAt: expireAt})
	}

	for s.order.Len() > s.maxItems {
		s.remove(s.order.Front())
	}
}

func (s *Store[V]) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if el, ok := s.items[key]; ok {
		s.remove(el)
	}
}

func (s *Store[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Entries returns the live entries, least recently used first.
func (s *Store[V]) Entries() []Entry[V] {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	entries := make([]Entry[V], 0, s.order.Len())
	for el := s.order.Front(); el != nil; el = el.Next() {
		item := el.Value.(*element[V])
		if !now.Before(item.expireAt) {
			continue
		}
		entries = append(entries, Entry[V]{Key: item.key, Value: item.value, ExpireAt: item.expireAt})
	}
	return entries
}

// Sweep drops every expired entry and any entries over the size limit,
// oldest first, and reports how many were removed.
func (s *Store[V]) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for el := s.order.Front(); el != nil; {
		next := el.Next()
		if !now.Before(el.Value.(*element[V]).expireAt) {
			s.remove(el)
			removed++
		}
		el = next
	}
	for s.order.Len() > s.maxItems {
		s.remove(s.order.Front())
		removed++
	}
	return removed
}

// Close stops the sweeper. It is safe to call more than once.
func (s *Store[V]) Close() {
	s.stopOnce.Do(func() {
		close(s.stop)
		<-s.done
	})
}

func (s *Store[V]) sweepLoop(interval time.Duration) {
	defer close(s.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if removed := s.Sweep(); removed > 0 {
				s.logger.Debugf("Evicted %d cache entries", removed)
			}
		case <-s.stop:
			return
		}
	}
}

// remove must be called with mu held.
func (s *Store[V]) remove(el *list.Element) {
	s.order.Remove(el)
	delete(s.items, el.Value.(*element[V]).key)
}
