package location

import (
	"fmt"
	"sync"

	"backend-yatra/internal/apperr"
)

// Permissions records which capabilities a device granted. Background is
// requested separately and is optional.
type Permissions struct {
	mu      sync.RWMutex
	granted map[Capability]bool
}

func NewPermissions() *Permissions {
	return &Permissions{granted: map[Capability]bool{}}
}

func (p *Permissions) Set(state PermissionState) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.granted[Foreground] = state.Foreground
	p.granted[Background] = state.Background
}

func (p *Permissions) State() PermissionState {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return PermissionState{Foreground: p.granted[Foreground], Background: p.granted[Background]}
}

// Require returns ErrPermissionDenied when the capability is not granted.
// Callers surface it to the user; nothing here re-prompts.
func (p *Permissions) Require(c Capability) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if !p.granted[c] {
		return fmt.Errorf("%s location: %w", c, apperr.ErrPermissionDenied)
	}
	return nil
}
