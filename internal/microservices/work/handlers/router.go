package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"labourline/internal/httpapi"
)

// Router mounts the work-service routes behind bearer auth. Health and the
// quote preview stay open so load balancers and unauthenticated clients
// can reach them.
func Router(h *Handler, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post("/pricing/quote", h.WorkHandler.Quote)

	r.Group(func(r chi.Router) {
		r.Use(httpapi.RequireAuth(jwtSecret))

		r.Post("/works", h.WorkHandler.CreateWork)
		r.Get("/works/open", h.WorkHandler.ListOpen)
		r.Get("/employers/{id}/works", h.WorkHandler.EmployerWorks)
		r.Get("/workers/{id}/active-work", h.WorkHandler.ActiveWork)
		r.Get("/works/{id}", h.WorkHandler.GetWork)

		r.Post("/works/{id}/accept", h.WorkHandler.AcceptWork)
		r.Post("/works/{id}/start", h.WorkHandler.StartWork)
		r.Post("/works/{id}/complete", h.WorkHandler.CompleteWork)
		r.Post("/works/{id}/cancel", h.WorkHandler.CancelWork)

		r.Post("/works/{id}/bids", h.BidHandler.SubmitBid)
		r.Get("/works/{id}/bids", h.BidHandler.ListBids)
		r.Post("/bids/{id}/resolve", h.BidHandler.ResolveBid)
	})

	return r
}
