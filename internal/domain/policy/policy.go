// Package policy holds admission rules consulted on the registry write path.
//
// The reference behavior stores max_participants but never checks it during
// signup. That gap is preserved by default; capacity enforcement is opt-in
// so deployments can close it without changing handler code.
package policy

import (
	"errors"
)

// Sentinel kinds for admission failures.
var (
	ErrAtCapacity = errors.New("activity at capacity")
)

// Admission evaluates whether a signup may proceed.
type Admission struct {
	enforceCapacity bool
}

// New creates an Admission policy with configuration options.
func New(opts ...Option) *Admission {
	p := &Admission{
		enforceCapacity: false, // matches the reference behavior
	}

	// Apply all options
	for _, opt := range opts {
		opt(p)
	}

	return p
}

// AdmitSignup reports whether an activity with the given roster size and
// declared capacity may accept one more participant. An activity counts as
// full when the roster has reached max_participants.
func (p *Admission) AdmitSignup(current, max int) error {
	if !p.enforceCapacity {
		return nil
	}
	if current >= max {
		return ErrAtCapacity
	}
	return nil
}

// EnforcesCapacity reports whether the capacity check is active.
func (p *Admission) EnforcesCapacity() bool {
	return p.enforceCapacity
}
