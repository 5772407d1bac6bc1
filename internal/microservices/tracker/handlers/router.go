package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"labourline/internal/httpapi"
)

func Router(h *Handler, jwtSecret string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httpapi.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Group(func(r chi.Router) {
		r.Use(httpapi.RequireAuth(jwtSecret))

		r.Post("/locations", h.TrackerHandler.IngestLocation)
		r.Get("/workers/{id}/location", h.TrackerHandler.WorkerLocation)
		r.Get("/works/{id}/distance", h.TrackerHandler.WorkDistance)
		r.Get("/works/{id}/arrived", h.TrackerHandler.WorkArrived)
		r.Get("/works/{id}/status", h.TrackerHandler.WorkTrackingStatus)
	})

	return r
}
