package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourline/internal/domain"
	"labourline/internal/httpapi"
	"labourline/internal/microservices/tracker/service"
)

type TrackerHandler struct {
	service service.TrackerServiceInterface
}

func NewTrackerHandler(s service.TrackerServiceInterface) *TrackerHandler {
	return &TrackerHandler{service: s}
}

// IngestLocation accepts a position sample from the authenticated worker's
// device. The worker's active work item is looked up server-side; the device
// never says which work it is reporting for.
func (th *TrackerHandler) IngestLocation(w http.ResponseWriter, r *http.Request) {
	var req service.IngestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	caller := httpapi.CallerIdentity(r)
	result, err := th.service.Ingest(r.Context(), caller.UserID, req)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, result)
}

func (th *TrackerHandler) WorkerLocation(w http.ResponseWriter, r *http.Request) {
	sample, err := th.service.LastKnown(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, sample)
}

// WorkDistance answers the employer's distance poll. An unknown distance is
// a normal answer, not a failure: {"distance_km": null, "distance_known": false}.
func (th *TrackerHandler) WorkDistance(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "id")
	dist, err := th.service.CurrentDistance(r.Context(), workID)
	if errors.Is(err, domain.ErrUnknownDistance) {
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{
			"work_id": workID, "distance_km": nil, "distance_known": false,
		})
		return
	}
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{
		"work_id": workID, "distance_km": dist, "distance_known": true,
	})
}

func (th *TrackerHandler) WorkArrived(w http.ResponseWriter, r *http.Request) {
	workID := chi.URLParam(r, "id")
	arrived, err := th.service.HasArrived(r.Context(), workID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"work_id": workID, "arrived": arrived})
}

func (th *TrackerHandler) WorkTrackingStatus(w http.ResponseWriter, r *http.Request) {
	snap, err := th.service.StatusSnapshot(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, snap)
}
