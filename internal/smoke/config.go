package smoke

import "time"

// Config holds configuration for the signup smoke run.
type Config struct {
	BaseURL     string        // Base URL of the service
	NumStudents int           // Number of synthetic students to enroll
	Unregister  int           // How many of them to unregister afterwards
	Workers     int           // Number of concurrent workers
	Timeout     time.Duration // HTTP request timeout
	ChangesN    int           // How many audit records to fetch at the end
	LogFile     string        // Log file for run output
	Verbose     bool          // Enable verbose logging
}

// Activity mirrors the wire shape of one activity record.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Enrollment pairs a synthetic student with the activity it targets.
type Enrollment struct {
	Activity string
	Email    string
}

// MessageResponse represents a mutation confirmation.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse represents the error payload of a rejected mutation.
type ErrorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

// Change represents one record of the audit feed.
type Change struct {
	EventID  string `json:"event_id"`
	Activity string `json:"activity"`
	Email    string `json:"email"`
	Kind     string `json:"kind"`
	TS       string `json:"ts"`
}

// Stats holds smoke run statistics.
type Stats struct {
	StudentsGenerated     int
	SignupsSubmitted      int
	SignupsSuccessful     int
	SignupsRejected       int
	SignupsFailed         int
	UnregistersSubmitted  int
	UnregistersSuccessful int
	UnregistersFailed     int
	ChangesRetrieved      int
	StartTime             time.Time
	EndTime               time.Time
	Duration              time.Duration
}
