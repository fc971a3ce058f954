// Package repository defines the activity registry store interface and errors.
package repository

import (
	"context"
	"slices"
	"sync"

	"github.com/mergington/rollcall/internal/domain/model"
	"github.com/mergington/rollcall/internal/domain/policy"
	"github.com/mergington/rollcall/pkg/metrics"
)

// Mutex-guarded, in-memory Registry implementation.
//
// Ordering: a names slice carries the seed insertion order; the map carries
// the records. net/http dispatches handlers on separate goroutines, so every
// read-modify-write is serialized behind the RWMutex.

// MemRegistry implements Registry backed by an ordered in-memory map.
type MemRegistry struct {
	mu        sync.RWMutex
	names     []string
	byName    map[string]*model.Activity
	admission *policy.Admission
}

// NewMemRegistry creates a registry seeded with the given activities.
// Duplicate names in the seed keep the first occurrence.
func NewMemRegistry(seed []model.NamedActivity, opts ...Option) *MemRegistry {
	r := &MemRegistry{
		byName:    make(map[string]*model.Activity, len(seed)),
		admission: policy.New(),
	}

	// Apply all options
	for _, opt := range opts {
		opt(r)
	}

	for _, na := range seed {
		if _, exists := r.byName[na.Name]; exists {
			continue
		}
		a := na.Activity.Clone()
		if a.Participants == nil {
			a.Participants = []string{}
		}
		r.names = append(r.names, na.Name)
		r.byName[na.Name] = &a
	}

	metrics.UpdateActivityCount(len(r.names))
	metrics.UpdateParticipantCount(r.participantCountLocked())
	return r
}

// Snapshot returns a deep copy of all activities in seed insertion order.
func (r *MemRegistry) Snapshot(_ context.Context) []model.NamedActivity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.NamedActivity, 0, len(r.names))
	for _, name := range r.names {
		out = append(out, model.NamedActivity{Name: name, Activity: r.byName[name].Clone()})
	}
	return out
}

// Get returns a deep copy of one activity.
func (r *MemRegistry) Get(_ context.Context, name string) (model.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	a, ok := r.byName[name]
	if !ok {
		return model.Activity{}, ErrActivityNotFound
	}
	return a.Clone(), nil
}

// Signup appends email to the named activity's participant list.
func (r *MemRegistry) Signup(_ context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byName[name]
	if !ok {
		return ErrActivityNotFound
	}
	if slices.Contains(a.Participants, email) {
		return ErrAlreadySignedUp
	}
	if err := r.admission.AdmitSignup(len(a.Participants), a.MaxParticipants); err != nil {
		return err
	}

	a.Participants = append(a.Participants, email)
	metrics.UpdateParticipantCount(r.participantCountLocked())
	return nil
}

// Unregister removes email from the named activity's participant list.
func (r *MemRegistry) Unregister(_ context.Context, name, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	a, ok := r.byName[name]
	if !ok {
		return ErrActivityNotFound
	}
	i := slices.Index(a.Participants, email)
	if i < 0 {
		return ErrNotRegistered
	}

	a.Participants = append(a.Participants[:i], a.Participants[i+1:]...)
	metrics.UpdateParticipantCount(r.participantCountLocked())
	return nil
}

// Count returns the number of activities in the registry.
func (r *MemRegistry) Count(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.names)
}

// ParticipantCount returns the total registrations across all activities.
func (r *MemRegistry) ParticipantCount(_ context.Context) int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.participantCountLocked()
}

// participantCountLocked sums roster sizes. Caller holds r.mu.
func (r *MemRegistry) participantCountLocked() int {
	total := 0
	for _, a := range r.byName {
		total += len(a.Participants)
	}
	return total
}
