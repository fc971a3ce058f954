// Package repository defines the activity registry store interface and errors.
package repository

import (
	"context"
	"sync"

	"github.com/mergington/rollcall/internal/domain/model"
	"github.com/mergington/rollcall/pkg/metrics"
)

// Default trail configuration constants.
const (
	defaultTrailSize = 1000
)

// Trail is a bounded in-memory log of roster change events. When full, the
// oldest events fall off. Safe for concurrent use.
type Trail struct {
	mu     sync.RWMutex
	events []model.ChangeEvent // oldest first
	max    int
}

// NewTrail creates a trail bounded to max events. max <= 0 uses the default.
func NewTrail(max int) *Trail {
	if max <= 0 {
		max = defaultTrailSize
	}
	return &Trail{max: max}
}

// Append records a change event, evicting the oldest entry when full.
func (t *Trail) Append(_ context.Context, ev model.ChangeEvent) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(t.events) >= t.max {
		t.events = t.events[1:]
	}
	t.events = append(t.events, ev)
	metrics.UpdateAuditTrailSize(len(t.events))
}

// Recent returns up to n events, newest first.
func (t *Trail) Recent(_ context.Context, n int) []model.ChangeEvent {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if n <= 0 {
		return nil
	}
	if n > len(t.events) {
		n = len(t.events)
	}
	out := make([]model.ChangeEvent, n)
	for i := 0; i < n; i++ {
		out[i] = t.events[len(t.events)-1-i]
	}
	return out
}

// Len returns the number of events currently held.
func (t *Trail) Len(_ context.Context) int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.events)
}
