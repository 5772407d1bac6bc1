package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labourline/internal/domain"
)

type fakeLocationStore struct {
	mu      sync.Mutex
	samples map[string]domain.LocationSample
	states  map[string]domain.TrackingState
}

func newFakeLocationStore() *fakeLocationStore {
	return &fakeLocationStore{
		samples: make(map[string]domain.LocationSample),
		states:  make(map[string]domain.TrackingState),
	}
}

func (f *fakeLocationStore) SetLastKnown(_ context.Context, s domain.LocationSample) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.samples[s.WorkerID] = s
	return nil
}

func (f *fakeLocationStore) GetLastKnown(_ context.Context, workerID string) (domain.LocationSample, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.samples[workerID]
	if !ok {
		return domain.LocationSample{}, domain.ErrNotFound
	}
	return s, nil
}

func (f *fakeLocationStore) GetTrackingState(_ context.Context, workID string) (domain.TrackingState, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if st, ok := f.states[workID]; ok {
		return st, nil
	}
	return domain.TrackingInactive, nil
}

func (f *fakeLocationStore) SetTrackingState(_ context.Context, workID string, state domain.TrackingState) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.states[workID] = state
	return nil
}

type fakeWorkReader struct {
	mu    sync.Mutex
	works map[string]domain.Work
}

func newFakeWorkReader() *fakeWorkReader {
	return &fakeWorkReader{works: make(map[string]domain.Work)}
}

func (f *fakeWorkReader) GetByID(_ context.Context, workID string) (domain.Work, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	w, ok := f.works[workID]
	if !ok {
		return domain.Work{}, domain.ErrNotFound
	}
	return w, nil
}

func (f *fakeWorkReader) ActiveForWorker(_ context.Context, workerID string) (domain.Work, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, w := range f.works {
		if w.AssignedWorker == workerID && (w.Status == domain.StatusAccepted || w.Status == domain.StatusInProgress) {
			return w, true, nil
		}
	}
	return domain.Work{}, false, nil
}

func (f *fakeWorkReader) set(w domain.Work) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.works[w.ID] = w
}

type capturePublisher struct {
	mu     sync.Mutex
	events []domain.WorkEvent
}

func (c *capturePublisher) PublishEvent(_ context.Context, ev domain.WorkEvent) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, ev)
	return nil
}

func (c *capturePublisher) arrivals() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ev := range c.events {
		if ev.Type == domain.EventWorkerArrived {
			n++
		}
	}
	return n
}

func ptr(v float64) *float64 { return &v }

// Work site in central Pune. 0.0017 deg of latitude is roughly 190 m,
// inside the 200 m arrival radius; 0.0027 deg (~300 m) is outside it.
const (
	siteLat = 18.5204
	siteLon = 73.8567
)

func newTracker(works *fakeWorkReader, locs *fakeLocationStore, pub *capturePublisher) TrackerServiceInterface {
	return NewTrackerService(locs, works, pub, zerolog.Nop())
}

func activeWork(id, workerID string) domain.Work {
	return domain.Work{
		ID:             id,
		EmployerID:     "emp-1",
		Title:          "Repair compound wall",
		Status:         domain.StatusInProgress,
		AssignedWorker: workerID,
		Latitude:       ptr(siteLat),
		Longitude:      ptr(siteLon),
	}
}

func TestIngestRejectsBadCoordinates(t *testing.T) {
	svc := newTracker(newFakeWorkReader(), newFakeLocationStore(), &capturePublisher{})

	_, err := svc.Ingest(context.Background(), "worker-1", IngestRequest{Latitude: 91, Longitude: 0})
	assert.True(t, domain.IsValidation(err))

	_, err = svc.Ingest(context.Background(), "worker-1", IngestRequest{Latitude: 0, Longitude: -181})
	assert.True(t, domain.IsValidation(err))
}

func TestIngestWithoutActiveWorkIsInactive(t *testing.T) {
	svc := newTracker(newFakeWorkReader(), newFakeLocationStore(), &capturePublisher{})

	_, err := svc.Ingest(context.Background(), "worker-1", IngestRequest{Latitude: siteLat, Longitude: siteLon})
	assert.ErrorIs(t, err, domain.ErrInactive)
}

func TestIngestActivatesTracking(t *testing.T) {
	works := newFakeWorkReader()
	locs := newFakeLocationStore()
	svc := newTracker(works, locs, &capturePublisher{})
	works.set(activeWork("work-1", "worker-1"))

	// 5 km out: tracking turns ACTIVE, no arrival.
	res, err := svc.Ingest(context.Background(), "worker-1", IngestRequest{Latitude: siteLat + 0.045, Longitude: siteLon})
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingActive, res.State)
	assert.False(t, res.Arrived)
	require.NotNil(t, res.DistanceKm)
	assert.InDelta(t, 5.0, *res.DistanceKm, 0.1)
}

func TestIngestDropsStaleSamples(t *testing.T) {
	works := newFakeWorkReader()
	locs := newFakeLocationStore()
	svc := newTracker(works, locs, &capturePublisher{})
	works.set(activeWork("work-1", "worker-1"))

	now := time.Now().UTC()
	_, err := svc.Ingest(context.Background(), "worker-1", IngestRequest{
		Latitude: siteLat + 0.045, Longitude: siteLon, RecordedAt: now,
	})
	require.NoError(t, err)

	// A buffered sample from a minute ago must not rewind the cache.
	res, err := svc.Ingest(context.Background(), "worker-1", IngestRequest{
		Latitude: siteLat + 0.09, Longitude: siteLon, RecordedAt: now.Add(-time.Minute),
	})
	require.NoError(t, err)
	assert.True(t, res.Dropped)

	sample, err := svc.LastKnown(context.Background(), "worker-1")
	require.NoError(t, err)
	assert.InDelta(t, siteLat+0.045, sample.Latitude, 1e-9)
}

func TestArrivalLatchFiresOnce(t *testing.T) {
	works := newFakeWorkReader()
	locs := newFakeLocationStore()
	pub := &capturePublisher{}
	svc := newTracker(works, locs, pub)
	works.set(activeWork("work-1", "worker-1"))
	ctx := context.Background()

	base := time.Now().UTC()

	// Just outside the radius: no arrival yet.
	res, err := svc.Ingest(ctx, "worker-1", IngestRequest{
		Latitude: siteLat + 0.0027, Longitude: siteLon, RecordedAt: base,
	})
	require.NoError(t, err)
	assert.False(t, res.Arrived)
	assert.Zero(t, pub.arrivals())

	// Inside the radius: ARRIVED and one event.
	res, err = svc.Ingest(ctx, "worker-1", IngestRequest{
		Latitude: siteLat + 0.0017, Longitude: siteLon, RecordedAt: base.Add(5 * time.Second),
	})
	require.NoError(t, err)
	assert.True(t, res.Arrived)
	assert.Equal(t, domain.TrackingArrived, res.State)
	assert.Equal(t, 1, pub.arrivals())

	// Wandering back out does not revert the latch or re-fire the event.
	res, err = svc.Ingest(ctx, "worker-1", IngestRequest{
		Latitude: siteLat + 0.01, Longitude: siteLon, RecordedAt: base.Add(10 * time.Second),
	})
	require.NoError(t, err)
	assert.True(t, res.Arrived)
	assert.Equal(t, 1, pub.arrivals())

	res, err = svc.Ingest(ctx, "worker-1", IngestRequest{
		Latitude: siteLat + 0.0010, Longitude: siteLon, RecordedAt: base.Add(15 * time.Second),
	})
	require.NoError(t, err)
	assert.True(t, res.Arrived)
	assert.Equal(t, 1, pub.arrivals())
}

func TestIngestAfterTrackingStopped(t *testing.T) {
	works := newFakeWorkReader()
	locs := newFakeLocationStore()
	svc := newTracker(works, locs, &capturePublisher{})
	works.set(activeWork("work-1", "worker-1"))

	require.NoError(t, locs.SetTrackingState(context.Background(), "work-1", domain.TrackingStopped))

	_, err := svc.Ingest(context.Background(), "worker-1", IngestRequest{Latitude: siteLat, Longitude: siteLon})
	assert.ErrorIs(t, err, domain.ErrInactive)
}

func TestCurrentDistance(t *testing.T) {
	works := newFakeWorkReader()
	locs := newFakeLocationStore()
	svc := newTracker(works, locs, &capturePublisher{})
	ctx := context.Background()

	t.Run("unknown work", func(t *testing.T) {
		_, err := svc.CurrentDistance(ctx, "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	works.set(activeWork("work-1", "worker-1"))

	t.Run("no sample yet", func(t *testing.T) {
		_, err := svc.CurrentDistance(ctx, "work-1")
		assert.ErrorIs(t, err, domain.ErrUnknownDistance)
	})

	t.Run("known distance", func(t *testing.T) {
		_, err := svc.Ingest(ctx, "worker-1", IngestRequest{Latitude: siteLat + 0.045, Longitude: siteLon})
		require.NoError(t, err)

		d, err := svc.CurrentDistance(ctx, "work-1")
		require.NoError(t, err)
		assert.InDelta(t, 5.0, d, 0.1)
	})

	t.Run("work without coordinates", func(t *testing.T) {
		w := activeWork("work-2", "worker-2")
		w.Latitude, w.Longitude = nil, nil
		works.set(w)
		require.NoError(t, locs.SetLastKnown(ctx, domain.LocationSample{
			WorkerID: "worker-2", Latitude: siteLat, Longitude: siteLon, RecordedAt: time.Now().UTC(),
		}))

		_, err := svc.CurrentDistance(ctx, "work-2")
		assert.ErrorIs(t, err, domain.ErrUnknownDistance)
	})

	t.Run("unassigned work", func(t *testing.T) {
		w := activeWork("work-3", "")
		w.Status = domain.StatusOpen
		works.set(w)

		_, err := svc.CurrentDistance(ctx, "work-3")
		assert.ErrorIs(t, err, domain.ErrUnknownDistance)
	})
}

func TestStatusSnapshotStopsTerminalWork(t *testing.T) {
	works := newFakeWorkReader()
	locs := newFakeLocationStore()
	svc := newTracker(works, locs, &capturePublisher{})
	ctx := context.Background()

	w := activeWork("work-1", "worker-1")
	works.set(w)

	_, err := svc.Ingest(ctx, "worker-1", IngestRequest{Latitude: siteLat + 0.0017, Longitude: siteLon})
	require.NoError(t, err)

	snap, err := svc.StatusSnapshot(ctx, "work-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingArrived, snap.State)
	assert.True(t, snap.Arrived)
	require.NotNil(t, snap.DistanceKm)

	// Work finishes; the next snapshot winds tracking down.
	w.Status = domain.StatusCompleted
	works.set(w)

	snap, err = svc.StatusSnapshot(ctx, "work-1")
	require.NoError(t, err)
	assert.Equal(t, domain.TrackingStopped, snap.State)
	assert.False(t, snap.Arrived)

	arrived, err := svc.HasArrived(ctx, "work-1")
	require.NoError(t, err)
	assert.False(t, arrived)

	// Late samples after the wind-down are dropped.
	_, err = svc.Ingest(ctx, "worker-1", IngestRequest{Latitude: siteLat, Longitude: siteLon})
	assert.ErrorIs(t, err, domain.ErrInactive)
}
