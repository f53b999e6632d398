package tracking

import (
	"context"
	"log/slog"
	"sync"

	"backend-yatra/internal/kv"
	"backend-yatra/internal/location"
)

// Recorder keeps the breadcrumb trail of one device and mirrors it to the
// key-value store after every change. The stored value is always the whole
// trail, never an append log.
type Recorder struct {
	store kv.Store
	key   string

	mu           sync.Mutex
	path         []location.Sample
	hasLast      bool
	lastRecorded int64
}

func NewRecorder(store kv.Store, key string) *Recorder {
	return &Recorder{store: store, key: key}
}

// Load replaces the in-memory trail with the stored one. A missing or
// unreadable value leaves an empty trail.
func (r *Recorder) Load(ctx context.Context) {
	var stored []location.Sample
	ok, err := kv.GetJSON(ctx, r.store, r.key, &stored)
	if err != nil {
		slog.Warn("load path failed", "key", r.key, "err", err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = nil
	r.hasLast = false
	if !ok || err != nil {
		return
	}
	r.path = truncate(stored)
	if n := len(r.path); n > 0 {
		r.hasLast = true
		r.lastRecorded = r.path[n-1].Timestamp
	}
}

// Record appends s when at least MinRecordInterval has passed since the last
// recorded sample, and reports whether it did. Faster samples are dropped.
func (r *Recorder) Record(ctx context.Context, s location.Sample) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.hasLast && s.Timestamp-r.lastRecorded < MinRecordInterval.Milliseconds() {
		return false
	}
	r.appendLocked(s)
	r.persistLocked(ctx)
	return true
}

// Append adds samples without the interval check. Used for background batches.
func (r *Recorder) Append(ctx context.Context, samples ...location.Sample) {
	if len(samples) == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range samples {
		r.appendLocked(s)
	}
	r.persistLocked(ctx)
}

// Clear empties the trail and removes the stored value.
func (r *Recorder) Clear(ctx context.Context) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.path = nil
	r.hasLast = false
	if err := r.store.Delete(ctx, r.key); err != nil {
		slog.Warn("remove path failed", "key", r.key, "err", err)
	}
}

func (r *Recorder) Path() []location.Sample {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]location.Sample{}, r.path...)
}

func (r *Recorder) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.path)
}

func (r *Recorder) appendLocked(s location.Sample) {
	r.path = truncate(append(r.path, s))
	r.hasLast = true
	r.lastRecorded = s.Timestamp
}

// persistLocked writes the trail; a failed write is logged and dropped.
func (r *Recorder) persistLocked(ctx context.Context) {
	if err := kv.SetJSON(ctx, r.store, r.key, r.path); err != nil {
		slog.Warn("persist path failed", "key", r.key, "err", err)
	}
}

func truncate(path []location.Sample) []location.Sample {
	if len(path) <= MaxPathSamples {
		return path
	}
	return append([]location.Sample(nil), path[len(path)-MaxPathSamples:]...)
}
