// Package types contains common types used across the application
package types

// Change represents one roster mutation as exposed by the changes feed.
type Change struct {
	EventID  string `json:"event_id"`
	Activity string `json:"activity"`
	Email    string `json:"email"`
	Kind     string `json:"kind"`
	TS       string `json:"ts"`
}
