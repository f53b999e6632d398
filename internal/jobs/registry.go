// Package jobs is a process-wide registry of named background jobs, the
// server-side home of tasks a device hands off while the app is not in the
// foreground.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"backend-yatra/internal/apperr"
)

type Handler func(ctx context.Context, payload json.RawMessage) error

type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
}

func NewRegistry() *Registry {
	return &Registry{handlers: map[string]Handler{}}
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry shared by the whole process.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// Register binds h to name. Registering a name twice is a no-op: the first
// handler stays and Register reports false.
func (r *Registry) Register(name string, h Handler) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; ok {
		slog.Debug("job already registered", "job", name)
		return false
	}
	r.handlers[name] = h
	return true
}

func (r *Registry) Registered(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.handlers[name]
	return ok
}

func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.handlers))
	for n := range r.handlers {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Dispatch runs the named job synchronously.
func (r *Registry) Dispatch(ctx context.Context, name string, payload json.RawMessage) error {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return fmt.Errorf("job %q: %w", name, apperr.ErrNotFound)
	}
	if err := h(ctx, payload); err != nil {
		slog.Error("background job failed", "job", name, "error", err)
		return err
	}
	return nil
}
