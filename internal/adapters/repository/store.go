// Package repository defines the activity registry store interface and errors.
package repository

import (
	"context"

	"github.com/mergington/rollcall/internal/domain/model"
)

// Registry provides read/write access to the activity roster state.
//
// The activity set is fixed at construction; only the participant lists
// mutate. Every method is safe for concurrent use.
type Registry interface {
	// Snapshot returns a deep copy of all activities in seed insertion order.
	Snapshot(ctx context.Context) []model.NamedActivity

	// Get returns a deep copy of one activity.
	// Returns ErrActivityNotFound if the name is unknown.
	Get(ctx context.Context, name string) (model.Activity, error)

	// Signup appends email to the named activity's participant list.
	// Returns ErrActivityNotFound for an unknown name,
	// ErrAlreadySignedUp if the email is already on the list, and
	// policy.ErrAtCapacity when enforcement is enabled and the roster is full.
	Signup(ctx context.Context, name, email string) error

	// Unregister removes email from the named activity's participant list.
	// Returns ErrActivityNotFound for an unknown name and
	// ErrNotRegistered if the email is not on the list.
	Unregister(ctx context.Context, name, email string) error

	// Count returns the number of activities in the registry.
	Count(ctx context.Context) int

	// ParticipantCount returns the total registrations across all activities.
	ParticipantCount(ctx context.Context) int
}
