package handlers

import "labourline/internal/microservices/work/service"

type Handler struct {
	WorkHandler *WorkHandler
	BidHandler  *BidHandler
}

func New(s *service.Service) *Handler {
	return &Handler{
		WorkHandler: NewWorkHandler(s.WorkService),
		BidHandler:  NewBidHandler(s.BidService),
	}
}
