package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/geocode"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRecordStore is a mock implementation of ports.RecordStore
type MockRecordStore struct {
	mock.Mock
}

func (m *MockRecordStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *MockRecordStore) FindByID(ctx context.Context, trackingID string) (*domain.TrackingRecord, error) {
	args := m.Called(ctx, trackingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackingRecord), args.Error(1)
}

func (m *MockRecordStore) AppendHistory(ctx context.Context, trackingID string, entry domain.HistoryEntry) (*domain.TrackingRecord, error) {
	args := m.Called(ctx, trackingID, entry)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.TrackingRecord), args.Error(1)
}

func (m *MockRecordStore) List(ctx context.Context) ([]domain.TrackingRecord, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.TrackingRecord), args.Error(1)
}

func (m *MockRecordStore) Delete(ctx context.Context, trackingID string) error {
	args := m.Called(ctx, trackingID)
	return args.Error(0)
}

func (m *MockRecordStore) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockRecordStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// stubSearcher answers from a fixed table and fails everything else.
type stubSearcher struct {
	places  map[string]ports.Place
	queries []string
}

func (s *stubSearcher) Search(_ context.Context, query string) ([]ports.Place, error) {
	s.queries = append(s.queries, query)
	if p, ok := s.places[query]; ok {
		return []ports.Place{p}, nil
	}
	return nil, domain.ErrGeocodeUnavailable
}

var fixedNow = time.Date(2024, 5, 10, 12, 0, 0, 0, time.UTC)

func newTestService(store ports.RecordStore, searcher ports.PlaceSearcher, opts ...Option) *TrackingService {
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return NewTrackingService(store, searcher, geocode.Options{Qualifier: "USA", AttemptTimeout: time.Second}, opts...)
}

func TestGenerateTrackingID(t *testing.T) {
	id := GenerateTrackingID()

	assert.Len(t, id, 12)
	assert.True(t, strings.HasPrefix(id, "TRK"))
	assert.Equal(t, strings.ToUpper(id), id)
	assert.NotEqual(t, id, GenerateTrackingID())
}

func TestTrackingService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario A", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("Create", ctx, mock.AnythingOfType("*domain.TrackingRecord")).Return(nil).Once()

		record, err := svc.Create(ctx, domain.NewTracking{
			TrackingID:  "TRK123",
			Origin:      "Chicago, IL",
			Destination: "Boston, MA",
			Status:      domain.StatusPackageReceived,
			Location:    "Chicago, IL",
		})

		require.NoError(t, err)
		assert.Equal(t, "TRK123", record.TrackingID)
		assert.Equal(t, 0, record.Progress)
		require.Len(t, record.History, 1)
		assert.Equal(t, fixedNow, record.History[0].Date)
		assert.Equal(t, domain.ColorGray, domain.ColorOf(string(record.Status)))
		assert.Equal(t, domain.StageReceived, domain.StageOf(string(record.Status)))
		store.AssertExpectations(t)
	})

	t.Run("location defaults to origin", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("Create", ctx, mock.AnythingOfType("*domain.TrackingRecord")).Return(nil).Once()

		record, err := svc.Create(ctx, domain.NewTracking{
			TrackingID: "TRK1", Origin: "Dallas, TX", Destination: "Miami, FL", Status: domain.StatusProcessing,
		})

		require.NoError(t, err)
		assert.Equal(t, "Dallas, TX", record.Location)
		assert.Equal(t, 20, record.Progress)
	})

	t.Run("generates an id when none is given", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("Create", ctx, mock.AnythingOfType("*domain.TrackingRecord")).Return(nil).Once()

		record, err := svc.Create(ctx, domain.NewTracking{
			Origin: "A", Destination: "B", Status: domain.StatusPackageReceived,
		})

		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(record.TrackingID, TrackingIDPrefix))
	})

	t.Run("regenerates a colliding generated id", func(t *testing.T) {
		store := new(MockRecordStore)
		ids := []string{"TRKAAAAAAAAA", "TRKBBBBBBBBB"}
		svc := newTestService(store, nil, WithIDGenerator(func() string {
			id := ids[0]
			ids = ids[1:]
			return id
		}))
		store.On("Create", ctx, mock.MatchedBy(func(r *domain.TrackingRecord) bool {
			return r.TrackingID == "TRKAAAAAAAAA"
		})).Return(fmt.Errorf("sqlite: %w", domain.ErrConflict)).Once()
		store.On("Create", ctx, mock.MatchedBy(func(r *domain.TrackingRecord) bool {
			return r.TrackingID == "TRKBBBBBBBBB"
		})).Return(nil).Once()

		record, err := svc.Create(ctx, domain.NewTracking{
			Origin: "A", Destination: "B", Status: domain.StatusPackageReceived,
		})

		require.NoError(t, err)
		assert.Equal(t, "TRKBBBBBBBBB", record.TrackingID)
		store.AssertExpectations(t)
	})

	t.Run("gives up after repeated collisions", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil, WithIDGenerator(func() string { return "TRKSAMESAME0" }))
		store.On("Create", ctx, mock.Anything).Return(domain.ErrConflict)

		_, err := svc.Create(ctx, domain.NewTracking{
			Origin: "A", Destination: "B", Status: domain.StatusPackageReceived,
		})

		assert.ErrorIs(t, err, domain.ErrConflict)
		store.AssertNumberOfCalls(t, "Create", maxIDAttempts)
	})

	t.Run("caller supplied id conflicts once", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("Create", ctx, mock.Anything).Return(domain.ErrConflict).Once()

		_, err := svc.Create(ctx, domain.NewTracking{
			TrackingID: "TAKEN", Origin: "A", Destination: "B", Status: domain.StatusPackageReceived,
		})

		assert.ErrorIs(t, err, domain.ErrConflict)
		store.AssertNumberOfCalls(t, "Create", 1)
	})

	t.Run("validation lists every missing field", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)

		_, err := svc.Create(ctx, domain.NewTracking{TrackingID: "TRK1", Status: "Lost at sea"})

		var verr *domain.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, []string{"origin", "destination", "location"}, verr.Missing)
		assert.Equal(t, []string{"status"}, verr.Invalid)
		store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("store failure is wrapped", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("Create", ctx, mock.Anything).Return(domain.ErrTransientStore).Once()

		_, err := svc.Create(ctx, domain.NewTracking{
			TrackingID: "TRK1", Origin: "A", Destination: "B", Status: domain.StatusPackageReceived,
		})

		assert.ErrorIs(t, err, domain.ErrTransientStore)
	})
}

func TestTrackingService_Update(t *testing.T) {
	ctx := context.Background()

	t.Run("scenario B", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)

		record, err := domain.NewTrackingRecord("TRK1", "Chicago, IL", "Boston, MA",
			domain.StatusPackageReceived, "Chicago, IL", fixedNow.Add(-48*time.Hour))
		require.NoError(t, err)

		expected := domain.HistoryEntry{Date: fixedNow, Status: domain.StatusDelivered, Location: "Boston, MA"}
		store.On("AppendHistory", ctx, "TRK1", expected).
			Run(func(mock.Arguments) { record.Append(expected) }).
			Return(record, nil).Once()

		updated, err := svc.Update(ctx, "TRK1", domain.StatusDelivered, "  Boston, MA ")

		require.NoError(t, err)
		assert.Equal(t, domain.StatusDelivered, updated.Status)
		assert.Equal(t, 100, updated.Progress)
		require.Len(t, updated.History, 2)

		_, chronological, ok := domain.Normalize(updated.History)
		require.True(t, ok)
		assert.Equal(t, "Chicago, IL", chronological[0].Location)
		assert.Equal(t, "Boston, MA", chronological[1].Location)
		store.AssertExpectations(t)
	})

	t.Run("invalid status never reaches the store", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)

		_, err := svc.Update(ctx, "TRK1", "Teleported", "Mars")

		assert.ErrorIs(t, err, domain.ErrValidation)
		store.AssertNotCalled(t, "AppendHistory", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("AppendHistory", ctx, "NOPE", mock.Anything).Return(nil, domain.ErrNotFound).Once()

		_, err := svc.Update(ctx, "NOPE", domain.StatusInTransit, "Denver, CO")

		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("blank id", func(t *testing.T) {
		svc := newTestService(new(MockRecordStore), nil)

		_, err := svc.Update(ctx, "  ", domain.StatusInTransit, "Denver, CO")

		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestTrackingService_GetAndList(t *testing.T) {
	ctx := context.Background()
	store := new(MockRecordStore)
	svc := newTestService(store, nil)

	record := &domain.TrackingRecord{TrackingID: "TRK1"}
	store.On("FindByID", ctx, "TRK1").Return(record, nil).Once()
	store.On("FindByID", ctx, "trk1").Return(nil, domain.ErrNotFound).Once()
	store.On("List", ctx).Return(nil, nil).Once()

	got, err := svc.Get(ctx, "TRK1")
	require.NoError(t, err)
	assert.Same(t, record, got)

	_, err = svc.Get(ctx, "trk1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	records, err := svc.List(ctx)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)

	store.AssertExpectations(t)
}

func TestTrackingService_View(t *testing.T) {
	ctx := context.Background()
	day := func(n int) time.Time { return fixedNow.Add(time.Duration(n) * 24 * time.Hour) }

	t.Run("orders history and resolves waypoints", func(t *testing.T) {
		store := new(MockRecordStore)
		searcher := &stubSearcher{places: map[string]ports.Place{
			"Chicago, IL, USA": {Lat: 41.88, Lon: -87.62},
			"Boston, MA":       {Lat: 42.36, Lon: -71.06},
		}}
		svc := newTestService(store, searcher)

		record := &domain.TrackingRecord{
			TrackingID: "TRK1", Origin: "Chicago, IL", Destination: "Boston, MA",
			Status: domain.StatusDelivered, Location: "Boston, MA", Progress: 100,
			History: []domain.HistoryEntry{
				{Date: day(2), Status: domain.StatusDelivered, Location: "Boston, MA"},
				{Date: day(0), Status: domain.StatusPackageReceived, Location: "Chicago, IL"},
				{Date: day(1), Status: domain.StatusInTransit, Location: "Nowhereville, Atlantis"},
			},
		}
		store.On("FindByID", ctx, "TRK1").Return(record, nil)

		view, err := svc.View(ctx, "TRK1")
		require.NoError(t, err)

		assert.Equal(t, domain.StatusDelivered, view.Status)
		assert.Equal(t, 100, view.Progress)
		assert.Equal(t, domain.StageDelivered, view.Stage)
		assert.Equal(t, domain.ColorGreen, view.Color)
		assert.Equal(t, "#22c55e", view.ColorHex)
		assert.Equal(t, domain.IconDelivered, view.Icon)

		require.Len(t, view.Chronological, 3)
		assert.Equal(t, "Chicago, IL", view.Chronological[0].Location)
		assert.Equal(t, "Boston, MA", view.Current.Location)

		require.Len(t, view.Timeline, 3)
		assert.Equal(t, "Boston, MA", view.Timeline[0].Location)
		assert.Equal(t, domain.ColorGray, view.Timeline[2].Color)

		require.Len(t, view.Waypoints, 3)
		assert.Equal(t, 1, view.Waypoints[0].Index)
		assert.InDelta(t, 41.88, view.Waypoints[0].Lat, 1e-9)
		assert.False(t, view.Waypoints[0].Synthetic)

		// scenario D
		fallback := geocode.Synthetic("Nowhereville, Atlantis")
		assert.True(t, view.Waypoints[1].Synthetic)
		assert.Equal(t, fallback.Lat, view.Waypoints[1].Lat)
		assert.Equal(t, fallback.Lon, view.Waypoints[1].Lon)

		assert.InDelta(t, -71.06, view.Waypoints[2].Lon, 1e-9)
		assert.Equal(t, domain.StageDelivered, view.Waypoints[2].Stage)
		assert.Contains(t, searcher.queries, "Boston, MA, USA")
	})

	t.Run("scenario C", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("FindByID", ctx, "TRK2").Return(&domain.TrackingRecord{
			TrackingID: "TRK2",
			History: []domain.HistoryEntry{
				{Date: day(0), Status: "Exception - Weather Delay", Location: "Denver, CO"},
			},
		}, nil)

		view, err := svc.View(ctx, "TRK2")
		require.NoError(t, err)

		assert.Equal(t, 0, view.Progress)
		assert.Equal(t, domain.StageReceived, view.Stage)
		assert.Equal(t, domain.ColorRed, view.Color)
		assert.Equal(t, domain.IconAlert, view.Icon)
	})

	t.Run("scenario E", func(t *testing.T) {
		store := new(MockRecordStore)
		searcher := &stubSearcher{places: map[string]ports.Place{"Memphis, TN, USA": {Lat: 35.15, Lon: -90.05}}}
		svc := newTestService(store, searcher)
		store.On("FindByID", ctx, "TRK3").Return(&domain.TrackingRecord{
			TrackingID: "TRK3",
			History: []domain.HistoryEntry{
				{Date: day(0), Status: domain.StatusInTransit, Location: "Memphis, TN"},
				{Date: day(1), Status: domain.StatusProcessing, Location: "Atlanta, GA"},
				{Date: day(2), Status: domain.StatusInTransit, Location: "Memphis, TN"},
			},
		}, nil)

		view, err := svc.View(ctx, "TRK3")
		require.NoError(t, err)

		require.Len(t, view.Waypoints, 3)
		assert.Equal(t, "Memphis, TN", view.Waypoints[0].Location)
		assert.Equal(t, "Memphis, TN", view.Waypoints[2].Location)
		assert.Equal(t, 3, view.Waypoints[2].Index)
		assert.Equal(t, view.Waypoints[0].Lat, view.Waypoints[2].Lat)

		memphisLookups := 0
		for _, q := range searcher.queries {
			if q == "Memphis, TN, USA" {
				memphisLookups++
			}
		}
		assert.Equal(t, 1, memphisLookups)
	})

	t.Run("empty history falls back to the record", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("FindByID", ctx, "TRK4").Return(&domain.TrackingRecord{
			TrackingID: "TRK4", Status: domain.StatusOutForDelivery, Location: "Reno, NV", UpdatedAt: day(0),
		}, nil)

		view, err := svc.View(ctx, "TRK4")
		require.NoError(t, err)

		assert.Equal(t, domain.StatusOutForDelivery, view.Current.Status)
		assert.Equal(t, "Reno, NV", view.Location)
		assert.Equal(t, 80, view.Progress)
		assert.Empty(t, view.Chronological)
		assert.Empty(t, view.Waypoints)
		assert.Empty(t, view.Timeline)
	})

	t.Run("repeated views are identical", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, &stubSearcher{})
		store.On("FindByID", ctx, "TRK5").Return(&domain.TrackingRecord{
			TrackingID: "TRK5",
			History: []domain.HistoryEntry{
				{Date: day(0), Status: domain.StatusPackageReceived, Location: "Omaha, NE"},
				{Date: day(0), Status: domain.StatusProcessing, Location: "Omaha, NE"},
			},
		}, nil)

		first, err := svc.View(ctx, "TRK5")
		require.NoError(t, err)
		second, err := svc.View(ctx, "TRK5")
		require.NoError(t, err)

		assert.Equal(t, first, second)
		// equal dates keep insertion order
		assert.Equal(t, domain.StatusProcessing, first.Current.Status)
	})

	t.Run("unknown id", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("FindByID", ctx, "NOPE").Return(nil, domain.ErrNotFound)

		_, err := svc.View(ctx, "NOPE")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestTrackingService_Diagnose(t *testing.T) {
	ctx := context.Background()
	testID := fmt.Sprintf("TEST%d", fixedNow.UnixMilli())

	t.Run("full round trip", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		updated := &domain.TrackingRecord{TrackingID: testID, Status: domain.StatusInTransit, Location: "New Test Location"}

		store.On("Create", ctx, mock.MatchedBy(func(r *domain.TrackingRecord) bool {
			return r.TrackingID == testID && r.EstimatedDelivery != nil
		})).Return(nil).Once()
		store.On("FindByID", ctx, testID).Return(updated, nil).Once()
		store.On("AppendHistory", ctx, testID, mock.MatchedBy(func(e domain.HistoryEntry) bool {
			return e.Status == domain.StatusInTransit && e.Location == "New Test Location"
		})).Return(updated, nil).Once()
		store.On("Delete", mock.Anything, testID).Return(nil).Once()

		report, err := svc.Diagnose(ctx)

		require.NoError(t, err)
		assert.True(t, report.OK)
		assert.Equal(t, testID, report.TrackingID)
		assert.Same(t, updated, report.Record)
		require.Len(t, report.Steps, 4)
		assert.Equal(t, "delete", report.Steps[3].Name)
		store.AssertExpectations(t)
	})

	t.Run("cleans up after a failed step", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)

		store.On("Create", ctx, mock.Anything).Return(nil).Once()
		store.On("FindByID", ctx, testID).Return(nil, errors.New("read failed")).Once()
		store.On("Delete", mock.Anything, testID).Return(nil).Once()

		report, err := svc.Diagnose(ctx)

		require.Error(t, err)
		assert.False(t, report.OK)
		require.Len(t, report.Steps, 3)
		assert.Equal(t, "read failed", report.Steps[1].Error)
		store.AssertExpectations(t)
	})

	t.Run("create failure leaves nothing to clean", func(t *testing.T) {
		store := new(MockRecordStore)
		svc := newTestService(store, nil)
		store.On("Create", ctx, mock.Anything).Return(domain.ErrTransientStore).Once()

		report, err := svc.Diagnose(ctx)

		assert.ErrorIs(t, err, domain.ErrTransientStore)
		require.Len(t, report.Steps, 1)
		store.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}
