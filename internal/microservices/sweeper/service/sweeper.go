// Package service implements the periodic expiry sweep: abandoned OPEN
// postings are cancelled and stale PENDING bids rejected.
package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"labourline/internal/config"
	"labourline/internal/domain"
	"labourline/internal/microservices/sweeper/repository"
)

type EventPublisher interface {
	PublishEvent(ctx context.Context, ev domain.WorkEvent) error
}

type Sweeper struct {
	repo      repository.SweepRepositoryInterface
	publisher EventPublisher
	expiry    config.ExpiryConfig
	log       zerolog.Logger
}

func New(repo repository.SweepRepositoryInterface, pub EventPublisher, expiry config.ExpiryConfig, log zerolog.Logger) *Sweeper {
	return &Sweeper{repo: repo, publisher: pub, expiry: expiry, log: log}
}

// Sweep runs one pass. Expiry events go out best-effort after the database
// commit; a publish failure leaves the work cancelled and only the
// notification lost.
func (s *Sweeper) Sweep(ctx context.Context) error {
	now := time.Now().UTC()

	expired, err := s.repo.ExpireOpenWorks(ctx, now.Add(-s.expiry.OpenWorkTTL))
	if err != nil {
		return err
	}
	for _, w := range expired {
		ev := domain.WorkEvent{
			Type:       domain.EventWorkExpired,
			WorkID:     w.ID,
			EmployerID: w.EmployerID,
			Title:      w.Title,
			Budget:     w.Budget,
			OldStatus:  string(domain.StatusOpen),
			NewStatus:  string(domain.StatusCancelled),
			OccurredAt: now,
		}
		if err := s.publisher.PublishEvent(ctx, ev); err != nil {
			s.log.Warn().Err(err).Str("work_id", w.ID).Msg("failed to publish expiry event")
		}
	}

	rejected, err := s.repo.RejectStaleBids(ctx, now.Add(-s.expiry.PendingBidTTL))
	if err != nil {
		return err
	}

	s.log.Info().
		Int("works_expired", len(expired)).
		Int64("bids_rejected", rejected).
		Msg("expiry sweep finished")
	return nil
}
