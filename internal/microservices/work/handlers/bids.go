package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"labourline/internal/httpapi"
	"labourline/internal/microservices/work/service"
)

type BidHandler struct {
	service service.BidServiceInterface
}

func NewBidHandler(s service.BidServiceInterface) *BidHandler {
	return &BidHandler{service: s}
}

func (bh *BidHandler) SubmitBid(w http.ResponseWriter, r *http.Request) {
	var req service.SubmitBidRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httpapi.WriteProblem(w, http.StatusBadRequest, "bad_json", "invalid JSON body")
		return
	}

	caller := httpapi.CallerIdentity(r)
	bid, err := bh.service.Submit(r.Context(), chi.URLParam(r, "id"), caller.UserID, req)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusCreated, bid)
}

func (bh *BidHandler) ListBids(w http.ResponseWriter, r *http.Request) {
	caller := httpapi.CallerIdentity(r)
	bids, err := bh.service.ListForWork(r.Context(), chi.URLParam(r, "id"), caller.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, bids)
}

// ResolveBid accepts the chosen bid and rejects its siblings in one shot.
// Losing a race against another resolve comes back as a 409.
func (bh *BidHandler) ResolveBid(w http.ResponseWriter, r *http.Request) {
	caller := httpapi.CallerIdentity(r)
	work, err := bh.service.Resolve(r.Context(), chi.URLParam(r, "id"), caller.UserID)
	if err != nil {
		httpapi.WriteError(w, err)
		return
	}
	httpapi.WriteJSON(w, http.StatusOK, work)
}
