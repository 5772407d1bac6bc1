package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"labourline/internal/domain"
	"labourline/internal/geo"
	"labourline/internal/microservices/work/repository"
	"labourline/internal/pricing"
)

type WorkServiceInterface interface {
	Create(ctx context.Context, employerID string, req CreateWorkRequest) (domain.Work, error)
	Get(ctx context.Context, workID string) (domain.Work, error)
	ListOpen(ctx context.Context, f OpenWorkFilter) ([]OpenWorkItem, error)
	ListByEmployer(ctx context.Context, employerID string) ([]domain.Work, error)
	ActiveForWorker(ctx context.Context, workerID string) (domain.Work, bool, error)
	Quote(ctx context.Context, category string, input pricing.Input) (pricing.Quote, error)

	AcceptDirect(ctx context.Context, workID, workerID string) (domain.Work, error)
	Start(ctx context.Context, workID, workerID string) (domain.Work, error)
	Complete(ctx context.Context, workID, employerID string) (domain.Work, error)
	Cancel(ctx context.Context, workID, employerID string) (domain.Work, error)
}

type WorkService struct {
	repo    repository.WorkRepositoryInterface
	catalog pricing.Catalog
	pub     EventPublisher
	log     zerolog.Logger
}

func NewWorkService(repo repository.WorkRepositoryInterface, catalog pricing.Catalog, pub EventPublisher, log zerolog.Logger) WorkServiceInterface {
	return &WorkService{
		repo:    repo,
		catalog: catalog,
		pub:     pub,
		log:     log.With().Str("component", "work-service").Logger(),
	}
}

// specFor resolves the category's pricing rule set. Categories outside the
// catalog take fixed pricing.
func (s *WorkService) specFor(category string) pricing.Spec {
	if spec, ok := s.catalog.SpecFor(category); ok {
		return spec
	}
	return pricing.Spec{Model: domain.PricingFixed}
}

func (s *WorkService) Quote(ctx context.Context, category string, input pricing.Input) (pricing.Quote, error) {
	return pricing.Compute(s.specFor(category), input)
}

func (s *WorkService) Create(ctx context.Context, employerID string, req CreateWorkRequest) (domain.Work, error) {
	if strings.TrimSpace(req.Title) == "" {
		return domain.Work{}, domain.Validationf("title is required")
	}
	if strings.TrimSpace(req.Category) == "" {
		return domain.Work{}, domain.Validationf("category is required")
	}
	hasCoords := req.Latitude != nil && req.Longitude != nil
	if !hasCoords && strings.TrimSpace(req.Address) == "" {
		return domain.Work{}, domain.Validationf("a location or address is required")
	}

	quote, err := pricing.Compute(s.specFor(req.Category), req.Pricing)
	if err != nil {
		return domain.Work{}, err
	}
	if quote.Amount <= 0 {
		return domain.Work{}, domain.Validationf("budget must be positive")
	}

	w := domain.Work{
		ID:             uuid.NewString(),
		EmployerID:     employerID,
		Title:          strings.TrimSpace(req.Title),
		Description:    req.Description,
		Category:       req.Category,
		PricingModel:   req.Pricing.Model,
		Budget:         quote.Amount,
		BudgetLabel:    quote.Label,
		BiddingAllowed: req.BiddingAllowed,
		Status:         domain.StatusOpen,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		Address:        req.Address,
		ImageURL:       req.ImageURL,
		AudioURL:       req.AudioURL,
	}

	created, err := s.repo.Create(ctx, w)
	if err != nil {
		return domain.Work{}, err
	}
	s.publish(ctx, domain.WorkEvent{
		Type:       domain.EventWorkCreated,
		WorkID:     created.ID,
		EmployerID: created.EmployerID,
		Title:      created.Title,
		Budget:     created.Budget,
		NewStatus:  string(created.Status),
		OccurredAt: time.Now().UTC(),
	})
	return created, nil
}

func (s *WorkService) Get(ctx context.Context, workID string) (domain.Work, error) {
	return s.repo.GetByID(ctx, workID)
}

func (s *WorkService) ListOpen(ctx context.Context, f OpenWorkFilter) ([]OpenWorkItem, error) {
	if f.MaxDistanceKm != nil && (f.CallerLat == nil || f.CallerLon == nil) {
		return nil, domain.Validationf("distance filter needs caller coordinates")
	}

	works, err := s.repo.ListOpen(ctx, f.Category)
	if err != nil {
		return nil, err
	}

	out := make([]OpenWorkItem, 0, len(works))
	for _, w := range works {
		item := OpenWorkItem{Work: w}
		if f.CallerLat != nil && f.CallerLon != nil {
			d := workDistance(w, *f.CallerLat, *f.CallerLon)
			if geo.IsUnknown(d) {
				// Items without coordinates never match a distance filter.
				if f.MaxDistanceKm != nil {
					continue
				}
			} else {
				if f.MaxDistanceKm != nil && d > *f.MaxDistanceKm {
					continue
				}
				dd := d
				item.DistanceKm = &dd
			}
		}
		out = append(out, item)
	}
	return out, nil
}

func (s *WorkService) ListByEmployer(ctx context.Context, employerID string) ([]domain.Work, error) {
	return s.repo.ListByEmployer(ctx, employerID)
}

func (s *WorkService) ActiveForWorker(ctx context.Context, workerID string) (domain.Work, bool, error) {
	return s.repo.ActiveForWorker(ctx, workerID)
}

func (s *WorkService) AcceptDirect(ctx context.Context, workID, workerID string) (domain.Work, error) {
	w, err := s.repo.AcceptDirectTx(ctx, workID, workerID)
	if err != nil {
		return domain.Work{}, err
	}
	s.publishTransition(ctx, domain.EventWorkAccepted, w, domain.StatusOpen)
	return w, nil
}

func (s *WorkService) Start(ctx context.Context, workID, workerID string) (domain.Work, error) {
	w, err := s.repo.StartTx(ctx, workID, workerID)
	if err != nil {
		return domain.Work{}, err
	}
	s.publishTransition(ctx, domain.EventWorkInProgress, w, domain.StatusAccepted)
	return w, nil
}

func (s *WorkService) Complete(ctx context.Context, workID, employerID string) (domain.Work, error) {
	w, err := s.repo.CompleteTx(ctx, workID, employerID)
	if err != nil {
		return domain.Work{}, err
	}
	s.publishTransition(ctx, domain.EventWorkCompleted, w, domain.StatusInProgress)
	return w, nil
}

func (s *WorkService) Cancel(ctx context.Context, workID, employerID string) (domain.Work, error) {
	w, err := s.repo.CancelTx(ctx, workID, employerID, "cancelled by employer")
	if err != nil {
		return domain.Work{}, err
	}
	s.publishTransition(ctx, domain.EventWorkCancelled, w, domain.StatusOpen)
	return w, nil
}

// publish delivers an event to the broker. Delivery is best-effort: the
// state change already committed, so a broker hiccup must not fail the call.
func (s *WorkService) publish(ctx context.Context, ev domain.WorkEvent) {
	if err := s.pub.PublishEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("event", ev.Type).Str("work_id", ev.WorkID).Msg("event publish failed")
	}
}

func (s *WorkService) publishTransition(ctx context.Context, eventType string, w domain.Work, from domain.WorkStatus) {
	s.publish(ctx, domain.WorkEvent{
		Type:       eventType,
		WorkID:     w.ID,
		EmployerID: w.EmployerID,
		WorkerID:   w.AssignedWorker,
		Title:      w.Title,
		Budget:     w.Budget,
		OldStatus:  string(from),
		NewStatus:  string(w.Status),
		OccurredAt: time.Now().UTC(),
	})
}

func workDistance(w domain.Work, callerLat, callerLon float64) float64 {
	lat, lon := geo.Unknown, geo.Unknown
	if w.Latitude != nil {
		lat = *w.Latitude
	}
	if w.Longitude != nil {
		lon = *w.Longitude
	}
	return geo.DistanceKm(callerLat, callerLon, lat, lon)
}
