package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"labourline/internal/domain"
	"labourline/internal/microservices/work/repository"
)

type BidServiceInterface interface {
	Submit(ctx context.Context, workID, workerID string, req SubmitBidRequest) (domain.Bid, error)
	ListForWork(ctx context.Context, workID, employerID string) ([]domain.Bid, error)
	Resolve(ctx context.Context, bidID, employerID string) (domain.Work, error)
}

type BidService struct {
	bids  repository.BidRepositoryInterface
	works repository.WorkRepositoryInterface
	pub   EventPublisher
	log   zerolog.Logger
}

func NewBidService(bids repository.BidRepositoryInterface, works repository.WorkRepositoryInterface, pub EventPublisher, log zerolog.Logger) BidServiceInterface {
	return &BidService{
		bids:  bids,
		works: works,
		pub:   pub,
		log:   log.With().Str("component", "bid-service").Logger(),
	}
}

func (s *BidService) Submit(ctx context.Context, workID, workerID string, req SubmitBidRequest) (domain.Bid, error) {
	if req.Amount <= 0 {
		return domain.Bid{}, domain.Validationf("bid amount must be positive")
	}

	work, err := s.works.GetByID(ctx, workID)
	if err != nil {
		return domain.Bid{}, err
	}
	if !work.BiddingAllowed {
		return domain.Bid{}, domain.Validationf("this work is fixed price; accept it directly")
	}
	if work.Status != domain.StatusOpen {
		return domain.Bid{}, domain.ErrConflict
	}

	bid, err := s.bids.Upsert(ctx, domain.Bid{
		ID:       uuid.NewString(),
		WorkID:   workID,
		WorkerID: workerID,
		Amount:   req.Amount,
		Comment:  req.Comment,
		Status:   domain.BidPending,
	})
	if err != nil {
		return domain.Bid{}, err
	}
	s.log.Debug().Str("work_id", workID).Str("worker_id", workerID).Int64("amount", bid.Amount).Msg("bid submitted")
	return bid, nil
}

func (s *BidService) ListForWork(ctx context.Context, workID, employerID string) ([]domain.Bid, error) {
	work, err := s.works.GetByID(ctx, workID)
	if err != nil {
		return nil, err
	}
	if work.EmployerID != employerID {
		return nil, domain.ErrNotFound
	}
	return s.bids.ListForWork(ctx, workID)
}

// Resolve picks the single winning bid. Atomicity lives in the repository
// transaction; here we only relay the outcome and announce the winner.
func (s *BidService) Resolve(ctx context.Context, bidID, employerID string) (domain.Work, error) {
	work, winner, err := s.bids.ResolveTx(ctx, bidID, employerID)
	if err != nil {
		return domain.Work{}, err
	}

	if pubErr := s.pub.PublishEvent(ctx, domain.WorkEvent{
		Type:       domain.EventWorkAccepted,
		WorkID:     work.ID,
		EmployerID: work.EmployerID,
		WorkerID:   winner.WorkerID,
		Title:      work.Title,
		Budget:     winner.Amount,
		OldStatus:  string(domain.StatusOpen),
		NewStatus:  string(work.Status),
		OccurredAt: time.Now().UTC(),
	}); pubErr != nil {
		s.log.Warn().Err(pubErr).Str("work_id", work.ID).Msg("event publish failed")
	}
	return work, nil
}
