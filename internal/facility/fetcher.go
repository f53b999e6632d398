package facility

import (
	"context"
	"fmt"
	"sync"
	"time"

	"backend-yatra/internal/shared/geo"
)

const (
	MinMoveM       = 500.0
	MinInterval    = 5 * time.Second
	RequestTimeout = 10 * time.Second
)

// Fetcher owns the facility set of one map view and decides when a position
// change is worth a network request.
type Fetcher struct {
	client  Querier
	cache   *Cache
	now     func() time.Time
	timeout time.Duration

	mu          sync.Mutex
	facilities  []Facility
	inFlight    bool
	hasLast     bool
	lastLat     float64
	lastLng     float64
	lastRequest time.Time
	generation  uint64
	cancel      context.CancelFunc
}

type FetcherOption func(*Fetcher)

func WithClock(now func() time.Time) FetcherOption {
	return func(f *Fetcher) { f.now = now }
}

func WithTimeout(d time.Duration) FetcherOption {
	return func(f *Fetcher) { f.timeout = d }
}

func WithCache(c *Cache) FetcherOption {
	return func(f *Fetcher) { f.cache = c }
}

func NewFetcher(client Querier, opts ...FetcherOption) *Fetcher {
	f := &Fetcher{
		client:  client,
		cache:   NewCache(CacheCapacity, CacheTTL),
		now:     time.Now,
		timeout: RequestTimeout,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch applies the policy in order: a running request wins, then small
// moves and request spacing are skipped, then the grid cache is consulted,
// and only then the backend is asked. Skipped calls leave all state as is.
// On failure the previous facility set is kept.
func (f *Fetcher) Fetch(ctx context.Context, lat, lng float64, force bool) (Result, error) {
	f.mu.Lock()
	if f.inFlight {
		defer f.mu.Unlock()
		return f.resultLocked(OutcomeInFlight), nil
	}
	if !force && f.hasLast && geo.PlanarDistanceM(f.lastLat, f.lastLng, lat, lng) < MinMoveM {
		defer f.mu.Unlock()
		return f.resultLocked(OutcomeNearby), nil
	}
	now := f.now()
	if !f.lastRequest.IsZero() && now.Sub(f.lastRequest) < MinInterval {
		defer f.mu.Unlock()
		return f.resultLocked(OutcomeRateLimited), nil
	}

	key := geo.GridKey(lat, lng)
	if cached, ok := f.cache.Get(key, now); ok {
		defer f.mu.Unlock()
		f.facilities = cached
		f.markLocked(lat, lng)
		return f.resultLocked(OutcomeCacheHit), nil
	}

	f.inFlight = true
	f.lastRequest = now
	gen := f.generation
	reqCtx, cancel := context.WithTimeout(ctx, f.timeout)
	f.cancel = cancel
	f.mu.Unlock()

	found, err := f.client.Query(reqCtx, lat, lng)
	cancel()

	f.mu.Lock()
	defer f.mu.Unlock()
	if gen != f.generation {
		return Result{Outcome: OutcomeFailed}, fmt.Errorf("facility fetch: %w", context.Canceled)
	}
	f.inFlight = false
	f.cancel = nil
	if err != nil {
		return f.resultLocked(OutcomeFailed), err
	}

	if found == nil {
		found = []Facility{}
	}
	f.facilities = found
	f.cache.Put(key, found, f.now())
	f.markLocked(lat, lng)
	return f.resultLocked(OutcomeFetched), nil
}

// Detach drops interest in any running request. Its response, when it
// arrives, no longer touches this fetcher.
func (f *Fetcher) Detach() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.generation++
	if f.cancel != nil {
		f.cancel()
		f.cancel = nil
	}
	f.inFlight = false
}

func (f *Fetcher) Facilities() []Facility {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Facility(nil), f.facilities...)
}

func (f *Fetcher) InFlight() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.inFlight
}

func (f *Fetcher) CacheLen() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.cache.Len()
}

func (f *Fetcher) markLocked(lat, lng float64) {
	f.hasLast = true
	f.lastLat = lat
	f.lastLng = lng
}

func (f *Fetcher) resultLocked(o Outcome) Result {
	return Result{Outcome: o, Facilities: append([]Facility(nil), f.facilities...)}
}
