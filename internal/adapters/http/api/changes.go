// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
)

// ChangesDependencies defines the interface for the changes feed.
type ChangesDependencies interface {
	RecentChanges(ctx context.Context, n int) ([]Change, error)
}

// ChangesHandler handles audit feed requests.
type ChangesHandler struct {
	deps     ChangesDependencies
	maxLimit int
}

// NewChangesHandler creates a new changes handler.
func NewChangesHandler(deps ChangesDependencies, maxLimit int) *ChangesHandler {
	return &ChangesHandler{
		deps:     deps,
		maxLimit: maxLimit,
	}
}

// HandleGetChanges handles GET /changes?limit=N requests.
func (h *ChangesHandler) HandleGetChanges(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limitStr := r.URL.Query().Get("limit")
	n, err := strconv.Atoi(limitStr)
	if err != nil || n < 1 {
		writeError(w, http.StatusBadRequest, "bad_request", "limit must be a positive integer")
		return
	}
	if n > h.maxLimit {
		writeError(w, http.StatusBadRequest, "limit_exceeded",
			"limit must not exceed "+strconv.Itoa(h.maxLimit))
		return
	}
	changes, err := h.deps.RecentChanges(r.Context(), n)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if changes == nil {
		changes = []Change{}
	}
	writeJSON(w, http.StatusOK, changes)
}
