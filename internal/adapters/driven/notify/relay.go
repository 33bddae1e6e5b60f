package notify

import (
	"sync"

	"github.com/custodia-labs/confadmin/internal/core/ports/driven"
)

// Ensure Relay implements the interface.
var _ driven.Notifier = (*Relay)(nil)

// Relay forwards to a target that can be swapped at runtime, so services
// built once can report to the CLI or to the TUI.
type Relay struct {
	mu     sync.RWMutex
	target driven.Notifier
}

// NewRelay creates a relay forwarding to target. A nil target discards.
func NewRelay(target driven.Notifier) *Relay {
	return &Relay{target: target}
}

// Use replaces the target and returns the previous one.
func (r *Relay) Use(target driven.Notifier) driven.Notifier {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.target
	r.target = target
	return prev
}

func (r *Relay) current() driven.Notifier {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.target
}

// Success forwards a success message.
func (r *Relay) Success(msg string) {
	if t := r.current(); t != nil {
		t.Success(msg)
	}
}

// Info forwards an informational message.
func (r *Relay) Info(msg string) {
	if t := r.current(); t != nil {
		t.Info(msg)
	}
}

// Error forwards an error message.
func (r *Relay) Error(msg string) {
	if t := r.current(); t != nil {
		t.Error(msg)
	}
}
