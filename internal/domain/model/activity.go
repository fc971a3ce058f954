// Package model contains domain models passed between layers.
package model

import "time"

// Activity describes one extracurricular offering. The activity name is the
// registry key and lives outside the record.
type Activity struct {
	Description     string   `json:"description" yaml:"description"`
	Schedule        string   `json:"schedule" yaml:"schedule"`
	MaxParticipants int      `json:"max_participants" yaml:"max_participants"`
	Participants    []string `json:"participants" yaml:"participants"`
}

// Clone returns a deep copy so callers cannot mutate registry state through
// a returned snapshot.
func (a Activity) Clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

// NamedActivity pairs an activity with its registry key. Slices of
// NamedActivity preserve seed insertion order, which a plain map cannot.
type NamedActivity struct {
	Name     string   `yaml:"name"`
	Activity Activity `yaml:",inline"`
}

// ChangeKind labels the type of roster mutation captured by a ChangeEvent.
type ChangeKind string

// Change kinds.
const (
	KindSignup     ChangeKind = "signup"
	KindUnregister ChangeKind = "unregister"
)

// ChangeEvent is the audit record of one roster mutation.
type ChangeEvent struct {
	EventID  string     // unique id for idempotency
	Activity string     // registry key the mutation applied to
	Email    string     // participant email
	Kind     ChangeKind // signup or unregister
	TS       time.Time  // when the mutation was applied
}
