// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mergington/rollcall/internal/adapters/repository"
	"github.com/mergington/rollcall/internal/domain/model"
	"github.com/mergington/rollcall/internal/domain/policy"
	"github.com/mergington/rollcall/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Activities returns a snapshot of all activities in seed order.
	Activities(ctx context.Context) []model.NamedActivity

	// Activity returns one activity record.
	Activity(ctx context.Context, name string) (model.Activity, error)

	// Signup adds a participant to an activity's roster.
	Signup(ctx context.Context, name, email string) error

	// Unregister removes a participant from an activity's roster.
	Unregister(ctx context.Context, name, email string) error

	// RecentChanges exposes the audit trail, newest first.
	RecentChanges(ctx context.Context, n int) ([]Change, error)
}

// Change mirrors the read shape returned by the changes feed.
type Change = types.Change

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	rosterHandler     *RosterHandler
	changesHandler    *ChangesHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxChangesLimit int) *Server {
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		activitiesHandler: NewActivitiesHandler(deps),
		rosterHandler:     NewRosterHandler(deps),
		changesHandler:    NewChangesHandler(deps, maxChangesLimit),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/changes", MetricsMiddleware(s.changesHandler.HandleGetChanges, "changes"))
	mux.HandleFunc("/activities", MetricsMiddleware(s.activitiesHandler.HandleGetActivities, "activities"))
	mux.HandleFunc("/activities/", MetricsMiddleware(s.rosterHandler.HandleRoster, "roster"))
}

type messageResponse struct {
	Message string `json:"message"`
}

// errorResponse carries a machine-readable code plus the human-readable
// detail string clients display.
type errorResponse struct {
	Code   string `json:"code"`
	Detail string `json:"detail"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	if detail == "" {
		detail = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Code: code, Detail: detail})
}

// writeMutationError translates registry errors into the HTTP surface.
func writeMutationError(w http.ResponseWriter, err error, name, email string) {
	switch {
	case errors.Is(err, repository.ErrActivityNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Activity not found")
	case errors.Is(err, repository.ErrAlreadySignedUp):
		writeError(w, http.StatusBadRequest, "already_signed_up",
			email+" is already signed up for "+name)
	case errors.Is(err, repository.ErrNotRegistered):
		writeError(w, http.StatusBadRequest, "not_registered",
			email+" is not registered for "+name)
	case errors.Is(err, policy.ErrAtCapacity):
		writeError(w, http.StatusBadRequest, "at_capacity",
			name+" is already at capacity")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
	}
}
