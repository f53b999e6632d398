package location

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"backend-yatra/internal/apperr"
)

// Feed is the position source of one device. Devices push fixes through
// Publish; watchers receive them in publish order.
type Feed struct {
	perms *Permissions

	mu     sync.Mutex
	latest *Sample
	subs   map[*Subscription]struct{}

	// serializes delivery so watchers see fixes in publish order
	deliver sync.Mutex
}

func NewFeed(perms *Permissions) *Feed {
	return &Feed{perms: perms, subs: map[*Subscription]struct{}{}}
}

func (f *Feed) Permissions() *Permissions {
	return f.perms
}

// CurrentPosition returns the most recent fix.
func (f *Feed) CurrentPosition(_ context.Context) (Sample, error) {
	if err := f.perms.Require(Foreground); err != nil {
		return Sample{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return Sample{}, fmt.Errorf("no position fix yet: %w", apperr.ErrUnavailable)
	}
	return *f.latest, nil
}

// Watch registers fn for every subsequent fix.
func (f *Feed) Watch(fn func(Sample)) (*Subscription, error) {
	if err := f.perms.Require(Foreground); err != nil {
		return nil, err
	}
	sub := &Subscription{feed: f, fn: fn}
	f.mu.Lock()
	f.subs[sub] = struct{}{}
	f.mu.Unlock()
	return sub, nil
}

func (f *Feed) Publish(s Sample) {
	f.deliver.Lock()
	defer f.deliver.Unlock()

	f.mu.Lock()
	f.latest = &s
	subs := make([]*Subscription, 0, len(f.subs))
	for sub := range f.subs {
		subs = append(subs, sub)
	}
	f.mu.Unlock()

	for _, sub := range subs {
		sub.call(s)
	}
}

func (f *Feed) Watchers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.subs)
}

func (f *Feed) remove(sub *Subscription) {
	f.mu.Lock()
	delete(f.subs, sub)
	f.mu.Unlock()
}

// Subscription is returned by Watch. Dispose waits for a callback that is
// already running, so it must not be called from inside that callback.
type Subscription struct {
	feed     *Feed
	fn       func(Sample)
	mu       sync.Mutex
	disposed atomic.Bool
}

func (s *Subscription) call(sample Sample) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed.Load() {
		return
	}
	s.fn(sample)
}

// Dispose stops delivery. No callback starts after it returns.
func (s *Subscription) Dispose() {
	if s.disposed.Swap(true) {
		return
	}
	s.feed.remove(s)
	// wait out a callback that is mid-flight
	s.mu.Lock()
	defer s.mu.Unlock()
}

// Registry hands out one Feed per device id.
type Registry struct {
	mu    sync.Mutex
	feeds map[string]*Feed
}

func NewRegistry() *Registry {
	return &Registry{feeds: map[string]*Feed{}}
}

// Lookup returns the device's feed without creating one. Read paths use it so
// that only writes (permission grants, fixes) add devices to the registry.
func (r *Registry) Lookup(deviceID string) (*Feed, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feeds[deviceID]
	return f, ok
}

// Len is the number of devices with a feed.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.feeds)
}

// Feed returns the device's feed, creating it on first use.
func (r *Registry) Feed(deviceID string) *Feed {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.feeds[deviceID]
	if !ok {
		f = NewFeed(NewPermissions())
		r.feeds[deviceID] = f
	}
	return f
}
