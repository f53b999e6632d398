// Package reactive runs an action whenever a set of observed values changes.
package reactive

import (
	"context"
	"reflect"
	"sync"
)

// Effect runs its action at most once per change-set. Observations that
// arrive while the action is running collapse into a single follow-up run
// with the newest values; observing the values already applied does nothing.
type Effect struct {
	ctx context.Context
	run func(ctx context.Context, deps []any)

	mu      sync.Mutex
	applied []any
	pending []any
	dirty   bool
	running bool
	wg      sync.WaitGroup
}

func NewEffect(ctx context.Context, run func(ctx context.Context, deps []any)) *Effect {
	return &Effect{ctx: ctx, run: run}
}

// Observe reports the current values of the effect's dependencies.
func (e *Effect) Observe(deps ...any) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ctx.Err() != nil {
		return
	}
	baseline := e.applied
	if e.dirty {
		baseline = e.pending
	}
	if baseline != nil && reflect.DeepEqual(baseline, deps) {
		return
	}
	e.pending = deps
	e.dirty = true
	if e.running {
		return
	}
	e.running = true
	e.wg.Add(1)
	go e.loop()
}

func (e *Effect) loop() {
	defer e.wg.Done()
	for {
		e.mu.Lock()
		if !e.dirty || e.ctx.Err() != nil {
			e.running = false
			e.mu.Unlock()
			return
		}
		deps := e.pending
		e.applied = deps
		e.pending = nil
		e.dirty = false
		e.mu.Unlock()

		e.run(e.ctx, deps)
	}
}

// Wait blocks until no run is scheduled or in progress.
func (e *Effect) Wait() {
	e.wg.Wait()
}
