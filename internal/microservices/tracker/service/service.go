// Package service implements proximity tracking: the last-known location
// cache, distance queries against the work site and the one-shot arrival
// latch.
package service

import (
	"context"

	"github.com/rs/zerolog"

	"labourline/internal/domain"
	"labourline/internal/microservices/tracker/repository"
)

// EventPublisher is the slice of the message broker the tracker needs.
type EventPublisher interface {
	PublishEvent(ctx context.Context, ev domain.WorkEvent) error
}

type Service struct {
	TrackerService TrackerServiceInterface
}

func New(repo *repository.Repository, pub EventPublisher, log zerolog.Logger) *Service {
	return &Service{
		TrackerService: NewTrackerService(repo.Locations, repo.Works, pub, log),
	}
}
