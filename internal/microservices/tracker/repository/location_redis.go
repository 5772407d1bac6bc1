package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"labourline/internal/domain"
)

const (
	locationKeyPrefix = "labour:loc:"
	trackingKeyPrefix = "work:tracking:"
)

type LocationStoreInterface interface {
	SetLastKnown(ctx context.Context, s domain.LocationSample) error
	GetLastKnown(ctx context.Context, workerID string) (domain.LocationSample, error)
	GetTrackingState(ctx context.Context, workID string) (domain.TrackingState, error)
	SetTrackingState(ctx context.Context, workID string, state domain.TrackingState) error
}

// LocationStore keeps one last-known sample per worker and one tracking
// state per work item in Redis. Neither is persisted: a restart means the
// worker's position is unknown until the next sample lands.
type LocationStore struct {
	rdb *redis.Client
}

func NewLocationStore(rdb *redis.Client) *LocationStore {
	return &LocationStore{rdb: rdb}
}

func (ls *LocationStore) SetLastKnown(ctx context.Context, s domain.LocationSample) error {
	return ls.rdb.HSet(ctx, locationKeyPrefix+s.WorkerID, map[string]any{
		"lat": s.Latitude,
		"lon": s.Longitude,
		"ts":  s.RecordedAt.UTC().Format(time.RFC3339Nano),
	}).Err()
}

func (ls *LocationStore) GetLastKnown(ctx context.Context, workerID string) (domain.LocationSample, error) {
	fields, err := ls.rdb.HGetAll(ctx, locationKeyPrefix+workerID).Result()
	if err != nil {
		return domain.LocationSample{}, err
	}
	if len(fields) == 0 {
		return domain.LocationSample{}, domain.ErrNotFound
	}

	s := domain.LocationSample{WorkerID: workerID}
	if s.Latitude, err = strconv.ParseFloat(fields["lat"], 64); err != nil {
		return domain.LocationSample{}, fmt.Errorf("corrupt location for %s: %w", workerID, err)
	}
	if s.Longitude, err = strconv.ParseFloat(fields["lon"], 64); err != nil {
		return domain.LocationSample{}, fmt.Errorf("corrupt location for %s: %w", workerID, err)
	}
	if s.RecordedAt, err = time.Parse(time.RFC3339Nano, fields["ts"]); err != nil {
		return domain.LocationSample{}, fmt.Errorf("corrupt location for %s: %w", workerID, err)
	}
	return s, nil
}

// GetTrackingState returns INACTIVE for work items that have never had a
// sample, so callers never see a missing key.
func (ls *LocationStore) GetTrackingState(ctx context.Context, workID string) (domain.TrackingState, error) {
	raw, err := ls.rdb.Get(ctx, trackingKeyPrefix+workID).Result()
	if errors.Is(err, redis.Nil) {
		return domain.TrackingInactive, nil
	}
	if err != nil {
		return "", err
	}
	return domain.TrackingState(raw), nil
}

func (ls *LocationStore) SetTrackingState(ctx context.Context, workID string, state domain.TrackingState) error {
	return ls.rdb.Set(ctx, trackingKeyPrefix+workID, string(state), 0).Err()
}
