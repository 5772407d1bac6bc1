package handlers

import "labourline/internal/microservices/tracker/service"

type Handler struct {
	TrackerHandler *TrackerHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		TrackerHandler: NewTrackerHandler(s.TrackerService),
	}
}
