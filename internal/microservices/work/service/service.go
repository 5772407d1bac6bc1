package service

import (
	"context"

	"github.com/rs/zerolog"

	"labourline/internal/domain"
	"labourline/internal/microservices/work/repository"
	"labourline/internal/pricing"
)

// EventPublisher is the seam to the message broker. The rabbitmq client
// satisfies it; tests supply a fake.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev domain.WorkEvent) error
}

type Service struct {
	WorkService WorkServiceInterface
	BidService  BidServiceInterface
}

func New(repo *repository.Repository, catalog pricing.Catalog, pub EventPublisher, log zerolog.Logger) *Service {
	return &Service{
		WorkService: NewWorkService(repo.WorkRepo, catalog, pub, log),
		BidService:  NewBidService(repo.BidRepo, repo.WorkRepo, pub, log),
	}
}
