package querycache

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"jobtracker/internal/logging"
)

const (
	DefaultStaleTime  = 5 * time.Minute
	DefaultGCTime     = 5 * time.Minute
	DefaultRetry      = 1
	DefaultRetryDelay = time.Second
)

type Fetcher[T any] func(ctx context.Context) (T, error)

type Options struct {
	// StaleTime is how long a fetched value is served without a new request.
	StaleTime time.Duration
	// GCTime is how long an unobserved entry survives Sweep.
	GCTime time.Duration
	// Retry is the number of automatic retries of a failed fetch.
	Retry      int
	RetryDelay time.Duration

	Now    func() time.Time
	Logger *slog.Logger
}

func DefaultOptions() Options {
	return Options{
		StaleTime:  DefaultStaleTime,
		GCTime:     DefaultGCTime,
		Retry:      DefaultRetry,
		RetryDelay: DefaultRetryDelay,
	}
}

type entry[T any] struct {
	data      T
	fetchedAt time.Time
}

type subscription struct {
	key Key
	fn  func(Event)
}

// Cache stores the last fetched value per Key for the lifetime of a
// session. Reads of one key share a single in-flight fetch; mutations
// invalidate a whole resource.
type Cache[T any] struct {
	opts Options
	log  *slog.Logger

	mu      sync.Mutex
	entries map[Key]*entry[T]
	// gens is bumped per resource on Invalidate; a fetch started under an
	// older generation is returned to its callers but never stored.
	gens    map[string]uint64
	subs    map[uint64]subscription
	nextSub uint64

	group singleflight.Group
	bg    sync.WaitGroup
}

func New[T any](opts Options) *Cache[T] {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Retry < 0 {
		opts.Retry = 0
	}
	if opts.GCTime <= 0 {
		opts.GCTime = DefaultGCTime
	}
	l := opts.Logger
	if l == nil {
		l = logging.New("querycache")
	}
	return &Cache[T]{
		opts:    opts,
		log:     l,
		entries: make(map[Key]*entry[T]),
		gens:    make(map[string]uint64),
		subs:    make(map[uint64]subscription),
	}
}

// Read returns the value for key. A fresh entry is returned as is. A stale
// entry is returned as is and a background refetch is started. A miss waits
// for fetch, retried once by default, and stores the result.
func (c *Cache[T]) Read(ctx context.Context, key Key, fetch Fetcher[T]) (T, error) {
	if key.Filter == "" {
		key.Filter = FilterAll
	}

	c.mu.Lock()
	e, ok := c.entries[key]
	gen := c.gens[key.Resource]
	var fresh bool
	if ok {
		fresh = c.opts.Now().Sub(e.fetchedAt) < c.opts.StaleTime
	}
	c.mu.Unlock()

	if ok {
		if !fresh {
			c.refetch(key, gen, fetch)
		}
		return e.data, nil
	}
	return c.fetch(ctx, key, gen, fetch)
}

// Lookup reports what Read would find for key without fetching.
func (c *Cache[T]) Lookup(key Key) (T, Freshness) {
	if key.Filter == "" {
		key.Filter = FilterAll
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		var zero T
		return zero, Missing
	}
	if c.opts.Now().Sub(e.fetchedAt) < c.opts.StaleTime {
		return e.data, Fresh
	}
	return e.data, Stale
}

// Invalidate drops every entry of resource, whatever its filter, and
// returns how many were dropped. Subscribers of the resource are notified
// even when nothing was cached for their key.
func (c *Cache[T]) Invalidate(resource string) int {
	c.mu.Lock()
	c.gens[resource]++
	n := 0
	for k := range c.entries {
		if k.Resource == resource {
			delete(c.entries, k)
			n++
		}
	}
	var notify []subscription
	for _, s := range c.subs {
		if s.key.Resource == resource {
			notify = append(notify, s)
		}
	}
	c.mu.Unlock()

	c.log.Debug("invalidate", "resource", resource, "dropped", n)
	for _, s := range notify {
		s.fn(Event{Key: s.key, Kind: Invalidated})
	}
	return n
}

// Subscribe registers fn for events on key. A key with an empty filter
// receives events for every filter of the resource. fn runs on the
// goroutine that caused the event and must not block.
func (c *Cache[T]) Subscribe(key Key, fn func(Event)) (unsubscribe func()) {
	c.mu.Lock()
	c.nextSub++
	id := c.nextSub
	c.subs[id] = subscription{key: key, fn: fn}
	c.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.subs, id)
			c.mu.Unlock()
		})
	}
}

// Sweep removes entries nobody subscribes to that were fetched more than
// GCTime ago.
func (c *Cache[T]) Sweep() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.opts.Now()
	n := 0
	for k, e := range c.entries {
		if now.Sub(e.fetchedAt) < c.opts.GCTime || c.observedLocked(k) {
			continue
		}
		delete(c.entries, k)
		n++
	}
	return n
}

func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Wait blocks until background refetches started so far have finished.
func (c *Cache[T]) Wait() {
	c.bg.Wait()
}

func (c *Cache[T]) observedLocked(k Key) bool {
	for _, s := range c.subs {
		if s.key.Covers(k) {
			return true
		}
	}
	return false
}

func (c *Cache[T]) refetch(key Key, gen uint64, fetch Fetcher[T]) {
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		if _, err := c.fetch(context.Background(), key, gen, fetch); err != nil {
			c.log.Warn("background refetch failed", "key", key.String(), "err", err)
		}
	}()
}

func (c *Cache[T]) fetch(ctx context.Context, key Key, gen uint64, fetch Fetcher[T]) (T, error) {
	// The shared fetch outlives any single caller; each caller can still
	// stop waiting through its own context.
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan(fmt.Sprintf("%s#%d", key, gen), func() (any, error) {
		return c.load(shared, key, gen, fetch)
	})

	select {
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			var zero T
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

func (c *Cache[T]) load(ctx context.Context, key Key, gen uint64, fetch Fetcher[T]) (T, error) {
	var (
		v   T
		err error
	)
	for attempt := 0; attempt <= c.opts.Retry; attempt++ {
		if attempt > 0 {
			c.log.Debug("retrying fetch", "key", key.String(), "attempt", attempt, "err", err)
			if werr := sleep(ctx, c.opts.RetryDelay); werr != nil {
				break
			}
		}
		v, err = fetch(ctx)
		if err == nil {
			break
		}
	}
	if err != nil {
		var zero T
		return zero, err
	}

	c.mu.Lock()
	stored := c.gens[key.Resource] == gen
	var notify []subscription
	if stored {
		c.entries[key] = &entry[T]{data: v, fetchedAt: c.opts.Now()}
		for _, s := range c.subs {
			if s.key.Covers(key) {
				notify = append(notify, s)
			}
		}
	}
	c.mu.Unlock()

	if !stored {
		c.log.Debug("dropping result of invalidated fetch", "key", key.String())
	}
	for _, s := range notify {
		s.fn(Event{Key: key, Kind: Updated})
	}
	return v, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
