// Package repository defines the activity registry store interface and errors.
package repository

import (
	"github.com/mergington/rollcall/internal/domain/policy"
)

// Option applies a configuration option to the MemRegistry.
type Option func(*MemRegistry)

// WithAdmission sets the admission policy consulted on signup.
func WithAdmission(p *policy.Admission) Option {
	return func(r *MemRegistry) {
		if p != nil {
			r.admission = p
		}
	}
}
