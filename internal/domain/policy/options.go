// Package policy holds admission rules consulted on the registry write path.
package policy

// Option applies a configuration option to the Admission policy.
type Option func(*Admission)

// WithCapacityEnforcement toggles the max_participants check on signup.
func WithCapacityEnforcement(enabled bool) Option {
	return func(p *Admission) {
		p.enforceCapacity = enabled
	}
}
