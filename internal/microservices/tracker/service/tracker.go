package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"labourline/internal/domain"
	"labourline/internal/geo"
	"labourline/internal/microservices/tracker/repository"
)

type IngestRequest struct {
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	RecordedAt time.Time `json:"recorded_at,omitempty"`
}

// IngestResult tells the client what the sample did. Dropped samples (stale
// timestamps) are acknowledged without side effects so a device replaying a
// buffered backlog does not rewind the cache.
type IngestResult struct {
	WorkID     string               `json:"work_id"`
	State      domain.TrackingState `json:"state"`
	DistanceKm *float64             `json:"distance_km,omitempty"`
	Arrived    bool                 `json:"arrived"`
	Dropped    bool                 `json:"dropped,omitempty"`
}

// TrackingSnapshot is the employer-facing view of one work item's tracking.
type TrackingSnapshot struct {
	WorkID     string               `json:"work_id"`
	WorkStatus domain.WorkStatus    `json:"work_status"`
	State      domain.TrackingState `json:"state"`
	DistanceKm *float64             `json:"distance_km,omitempty"`
	Arrived    bool                 `json:"arrived"`
}

type TrackerServiceInterface interface {
	Ingest(ctx context.Context, workerID string, req IngestRequest) (IngestResult, error)
	LastKnown(ctx context.Context, workerID string) (domain.LocationSample, error)
	CurrentDistance(ctx context.Context, workID string) (float64, error)
	HasArrived(ctx context.Context, workID string) (bool, error)
	StatusSnapshot(ctx context.Context, workID string) (TrackingSnapshot, error)
}

type TrackerService struct {
	locations repository.LocationStoreInterface
	works     repository.WorkReaderInterface
	publisher EventPublisher
	log       zerolog.Logger
}

func NewTrackerService(locations repository.LocationStoreInterface, works repository.WorkReaderInterface, pub EventPublisher, log zerolog.Logger) TrackerServiceInterface {
	return &TrackerService{locations: locations, works: works, publisher: pub, log: log}
}

// Ingest records a worker's position sample against their active work item.
// Samples arriving with no active assignment, or after tracking stopped,
// return ErrInactive. The arrival latch fires at most once per work item.
func (s *TrackerService) Ingest(ctx context.Context, workerID string, req IngestRequest) (IngestResult, error) {
	if req.Latitude < -90 || req.Latitude > 90 {
		return IngestResult{}, domain.Validationf("latitude out of range")
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		return IngestResult{}, domain.Validationf("longitude out of range")
	}
	if req.RecordedAt.IsZero() {
		req.RecordedAt = time.Now().UTC()
	}

	work, ok, err := s.works.ActiveForWorker(ctx, workerID)
	if err != nil {
		return IngestResult{}, err
	}
	if !ok {
		return IngestResult{}, domain.ErrInactive
	}

	state, err := s.locations.GetTrackingState(ctx, work.ID)
	if err != nil {
		return IngestResult{}, err
	}
	if state == domain.TrackingStopped {
		return IngestResult{}, domain.ErrInactive
	}

	// Stale samples are dropped, not an error. A device flushing an old
	// buffer must never move the last-known position backwards.
	prev, err := s.locations.GetLastKnown(ctx, workerID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return IngestResult{}, err
	}
	if err == nil && req.RecordedAt.Before(prev.RecordedAt) {
		return IngestResult{WorkID: work.ID, State: state, Dropped: true}, nil
	}

	sample := domain.LocationSample{
		WorkerID:   workerID,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		RecordedAt: req.RecordedAt,
	}
	if err := s.locations.SetLastKnown(ctx, sample); err != nil {
		return IngestResult{}, err
	}

	if state == domain.TrackingInactive {
		state = domain.TrackingActive
		if err := s.locations.SetTrackingState(ctx, work.ID, state); err != nil {
			return IngestResult{}, err
		}
	}

	result := IngestResult{WorkID: work.ID, State: state}

	dist := s.workDistance(work, sample)
	if !geo.IsUnknown(dist) {
		result.DistanceKm = &dist
	}

	if state != domain.TrackingArrived && geo.IsWithinArrival(dist) {
		state = domain.TrackingArrived
		if err := s.locations.SetTrackingState(ctx, work.ID, state); err != nil {
			return IngestResult{}, err
		}
		s.publishArrived(ctx, work)
	}

	result.State = state
	result.Arrived = state == domain.TrackingArrived
	return result, nil
}

func (s *TrackerService) LastKnown(ctx context.Context, workerID string) (domain.LocationSample, error) {
	return s.locations.GetLastKnown(ctx, workerID)
}

// CurrentDistance returns the crow-flies distance in kilometres between the
// assigned worker's last-known position and the work site. ErrUnknownDistance
// covers every hole: no assignment, no sample yet, or a work item posted
// without coordinates.
func (s *TrackerService) CurrentDistance(ctx context.Context, workID string) (float64, error) {
	work, err := s.works.GetByID(ctx, workID)
	if err != nil {
		return geo.Unknown, err
	}
	if work.AssignedWorker == "" {
		return geo.Unknown, domain.ErrUnknownDistance
	}

	sample, err := s.locations.GetLastKnown(ctx, work.AssignedWorker)
	if errors.Is(err, domain.ErrNotFound) {
		return geo.Unknown, domain.ErrUnknownDistance
	}
	if err != nil {
		return geo.Unknown, err
	}

	dist := s.workDistance(work, sample)
	if geo.IsUnknown(dist) {
		return geo.Unknown, domain.ErrUnknownDistance
	}
	return dist, nil
}

func (s *TrackerService) HasArrived(ctx context.Context, workID string) (bool, error) {
	if _, err := s.works.GetByID(ctx, workID); err != nil {
		return false, err
	}
	state, err := s.locations.GetTrackingState(ctx, workID)
	if err != nil {
		return false, err
	}
	return state == domain.TrackingArrived, nil
}

func (s *TrackerService) StatusSnapshot(ctx context.Context, workID string) (TrackingSnapshot, error) {
	work, err := s.works.GetByID(ctx, workID)
	if err != nil {
		return TrackingSnapshot{}, err
	}

	state, err := s.locations.GetTrackingState(ctx, workID)
	if err != nil {
		return TrackingSnapshot{}, err
	}

	// Tracking winds down lazily: the first snapshot taken after the work
	// item reaches a terminal status flips the state to STOPPED.
	if domain.IsTerminal(work.Status) && (state == domain.TrackingActive || state == domain.TrackingArrived) {
		state = domain.TrackingStopped
		if err := s.locations.SetTrackingState(ctx, workID, state); err != nil {
			return TrackingSnapshot{}, err
		}
	}

	snap := TrackingSnapshot{
		WorkID:     workID,
		WorkStatus: work.Status,
		State:      state,
		Arrived:    state == domain.TrackingArrived,
	}

	if work.AssignedWorker != "" {
		if sample, err := s.locations.GetLastKnown(ctx, work.AssignedWorker); err == nil {
			if dist := s.workDistance(work, sample); !geo.IsUnknown(dist) {
				snap.DistanceKm = &dist
			}
		}
	}
	return snap, nil
}

func (s *TrackerService) workDistance(work domain.Work, sample domain.LocationSample) float64 {
	if work.Latitude == nil || work.Longitude == nil {
		return geo.Unknown
	}
	return geo.DistanceKm(sample.Latitude, sample.Longitude, *work.Latitude, *work.Longitude)
}

func (s *TrackerService) publishArrived(ctx context.Context, work domain.Work) {
	ev := domain.WorkEvent{
		Type:       domain.EventWorkerArrived,
		WorkID:     work.ID,
		EmployerID: work.EmployerID,
		WorkerID:   work.AssignedWorker,
		Title:      work.Title,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishEvent(ctx, ev); err != nil {
		s.log.Warn().Err(err).Str("work_id", work.ID).Msg("failed to publish arrival event")
	}
}
