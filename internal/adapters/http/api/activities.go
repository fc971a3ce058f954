// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"

	"github.com/mergington/rollcall/internal/domain/model"
)

// ActivitiesDependencies defines the interface for the listing operation.
type ActivitiesDependencies interface {
	Activities(ctx context.Context) []model.NamedActivity
}

// ActivitiesHandler handles activity listing requests.
type ActivitiesHandler struct {
	deps ActivitiesDependencies
}

// NewActivitiesHandler creates a new activities handler.
func NewActivitiesHandler(deps ActivitiesDependencies) *ActivitiesHandler {
	return &ActivitiesHandler{deps: deps}
}

// HandleGetActivities handles GET /activities requests. The response is a
// JSON object keyed by activity name, keys in seed insertion order.
func (h *ActivitiesHandler) HandleGetActivities(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}

	snapshot := h.deps.Activities(r.Context())

	body, err := encodeOrderedActivities(snapshot)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(body)
}

// encodeOrderedActivities renders the name -> activity object by hand:
// encoding/json writes map keys sorted, which would scramble seed order.
func encodeOrderedActivities(snapshot []model.NamedActivity) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, na := range snapshot {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(na.Name)
		if err != nil {
			return nil, err
		}
		record, err := json.Marshal(na.Activity)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(record)
	}
	buf.WriteByte('}')
	buf.WriteByte('\n')
	return buf.Bytes(), nil
}
