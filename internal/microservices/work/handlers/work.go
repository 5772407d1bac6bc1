package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"labourline/internal/httpapi"
	"labourline/internal/microservices/work/service"
	"labourline/internal/pricing"
)

type WorkHandler struct {
	service service.WorkServiceInterface
}

func NewWorkHandler(s service.WorkServiceInterface) *WorkHandler {
	return &WorkHandler{service: s}
}

func (wh *WorkHandler) CreateWork(w http.ResponseWriter, r *http.Request) {
	var req service.CreateWorkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	caller := httpapi.CallerIdentity(r)
	work, err := wh.service.Create(r.Context(), caller.UserID, req)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, work)
}

func (wh *WorkHandler) GetWork(w http.ResponseWriter, r *http.Request) {
	work, err := wh.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, work)
}

// ListOpen supports ?category=, and optional proximity narrowing via
// ?lat=&lon=&max_distance_km=.
func (wh *WorkHandler) ListOpen(w http.ResponseWriter, r *http.Request) {
	f := service.OpenWorkFilter{Category: r.URL.Query().Get("category")}
	f.CallerLat = parseFloatParam(r, "lat")
	f.CallerLon = parseFloatParam(r, "lon")
	f.MaxDistanceKm = parseFloatParam(r, "max_distance_km")

	items, err := wh.service.ListOpen(r.Context(), f)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, items)
}

func (wh *WorkHandler) EmployerWorks(w http.ResponseWriter, r *http.Request) {
	works, err := wh.service.ListByEmployer(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, works)
}

func (wh *WorkHandler) ActiveWork(w http.ResponseWriter, r *http.Request) {
	work, ok, err := wh.service.ActiveForWorker(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	if !ok {
		httpapi.WriteJSON(w, http.StatusOK, map[string]any{"active": false})
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, map[string]any{"active": true, "work": work})
}

func (wh *WorkHandler) AcceptWork(w http.ResponseWriter, r *http.Request) {
	caller := httpapi.CallerIdentity(r)
	work, err := wh.service.AcceptDirect(r.Context(), chi.URLParam(r, "id"), caller.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, work)
}

func (wh *WorkHandler) StartWork(w http.ResponseWriter, r *http.Request) {
	caller := httpapi.CallerIdentity(r)
	work, err := wh.service.Start(r.Context(), chi.URLParam(r, "id"), caller.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, work)
}

func (wh *WorkHandler) CompleteWork(w http.ResponseWriter, r *http.Request) {
	caller := httpapi.CallerIdentity(r)
	work, err := wh.service.Complete(r.Context(), chi.URLParam(r, "id"), caller.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, work)
}

func (wh *WorkHandler) CancelWork(w http.ResponseWriter, r *http.Request) {
	caller := httpapi.CallerIdentity(r)
	work, err := wh.service.Cancel(r.Context(), chi.URLParam(r, "id"), caller.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, work)
}

type quoteRequest struct {
	Category string        `json:"category"`
	Input    pricing.Input `json:"input"`
}

// Quote prices an input against the category spec without persisting
// anything, so clients can preview the amount while composing a posting.
func (wh *WorkHandler) Quote(w http.ResponseWriter, r *http.Request) {
	var req quoteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	quote, err := wh.service.Quote(r.Context(), req.Category, req.Input)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, quote)
}

func parseFloatParam(r *http.Request, name string) *float64 {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
