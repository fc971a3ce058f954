// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strings"

	"github.com/mergington/rollcall/internal/domain/model"
)

// RosterDependencies defines the interface for roster mutations and lookups.
type RosterDependencies interface {
	Activity(ctx context.Context, name string) (model.Activity, error)
	Signup(ctx context.Context, name, email string) error
	Unregister(ctx context.Context, name, email string) error
}

// RosterHandler handles requests under /activities/{name}/...
type RosterHandler struct {
	deps RosterDependencies
}

// NewRosterHandler creates a new roster handler.
func NewRosterHandler(deps RosterDependencies) *RosterHandler {
	return &RosterHandler{deps: deps}
}

// HandleRoster dispatches /activities/{name}, /activities/{name}/signup,
// and /activities/{name}/unregister. Activity names may contain spaces, so
// the name is everything before the final known action segment. Matching
// against stored keys is case-sensitive.
func (h *RosterHandler) HandleRoster(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/activities/")
	if rest == "" {
		http.NotFound(w, r)
		return
	}

	name, action := splitAction(rest)
	switch action {
	case "signup":
		h.handleSignup(w, r, name)
	case "unregister":
		h.handleUnregister(w, r, name)
	case "":
		h.handleGet(w, r, name)
	default:
		http.NotFound(w, r)
	}
}

// splitAction peels a trailing /signup or /unregister segment off the path.
// Anything else is treated as part of the activity name.
func splitAction(rest string) (name, action string) {
	i := strings.LastIndex(rest, "/")
	if i < 0 {
		return rest, ""
	}
	switch rest[i+1:] {
	case "signup", "unregister":
		return rest[:i], rest[i+1:]
	}
	return rest, "unknown"
}

// handleGet handles GET /activities/{name} requests.
func (h *RosterHandler) handleGet(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	activity, err := h.deps.Activity(r.Context(), name)
	if err != nil {
		writeMutationError(w, err, name, "")
		return
	}
	writeJSON(w, http.StatusOK, activity)
}

// handleSignup handles POST /activities/{name}/signup?email= requests.
// The email is accepted as an opaque string; empty is allowed.
func (h *RosterHandler) handleSignup(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	email := r.URL.Query().Get("email")
	if err := h.deps.Signup(r.Context(), name, email); err != nil {
		writeMutationError(w, err, name, email)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Signed up " + email + " for " + name,
	})
}

// handleUnregister handles DELETE /activities/{name}/unregister?email= requests.
func (h *RosterHandler) handleUnregister(w http.ResponseWriter, r *http.Request, name string) {
	if r.Method != http.MethodDelete {
		http.NotFound(w, r)
		return
	}
	email := r.URL.Query().Get("email")
	if err := h.deps.Unregister(r.Context(), name, email); err != nil {
		writeMutationError(w, err, name, email)
		return
	}
	writeJSON(w, http.StatusOK, messageResponse{
		Message: "Unregistered " + email + " from " + name,
	})
}
