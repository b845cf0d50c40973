package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/geocode"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// TrackingIDPrefix starts every generated tracking id.
	TrackingIDPrefix = "TRK"
	trackingIDSuffix = 9
	// maxIDAttempts bounds regeneration when a generated id collides.
	maxIDAttempts = 3
)

// TrackingService implements ports.TrackingService on top of a RecordStore.
type TrackingService struct {
	store    ports.RecordStore
	searcher ports.PlaceSearcher
	geocode  geocode.Options
	now      func() time.Time
	newID    func() string
	logger   *zap.Logger
}

// Option customizes a TrackingService.
type Option func(*TrackingService)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(s *TrackingService) { s.now = now }
}

// WithIDGenerator replaces the tracking id generator.
func WithIDGenerator(newID func() string) Option {
	return func(s *TrackingService) { s.newID = newID }
}

// NewTrackingService creates a TrackingService. searcher may be nil, in which
// case map coordinates are always synthetic.
func NewTrackingService(store ports.RecordStore, searcher ports.PlaceSearcher, geo geocode.Options, opts ...Option) *TrackingService {
	s := &TrackingService{
		store:    store,
		searcher: searcher,
		geocode:  geo,
		now:      time.Now,
		newID:    GenerateTrackingID,
		logger:   logger.Named("tracking_service"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GenerateTrackingID returns "TRK" followed by 9 upper-case hex characters.
func GenerateTrackingID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return TrackingIDPrefix + strings.ToUpper(raw[:trackingIDSuffix])
}

// Create stores a new record. Generated ids are regenerated on conflict;
// caller supplied ids fail with domain.ErrConflict.
func (s *TrackingService) Create(ctx context.Context, input domain.NewTracking) (*domain.TrackingRecord, error) {
	generated := strings.TrimSpace(input.TrackingID) == ""

	for attempt := 1; attempt <= maxIDAttempts; attempt++ {
		id := input.TrackingID
		if generated {
			id = s.newID()
		}

		record, err := domain.NewTrackingRecord(id, input.Origin, input.Destination, input.Status, input.Location, s.now())
		if err != nil {
			return nil, err
		}
		record.EstimatedDelivery = input.EstimatedDelivery

		err = s.store.Create(ctx, record)
		if err == nil {
			s.logger.Info("Tracking created",
				zap.String("tracking_id", record.TrackingID),
				zap.String("status", record.Status.String()),
			)
			return record, nil
		}

		if generated && errors.Is(err, domain.ErrConflict) {
			s.logger.Warn("Generated tracking id already exists",
				zap.String("tracking_id", record.TrackingID),
				zap.Int("attempt", attempt),
			)
			continue
		}
		return nil, fmt.Errorf("service: failed to create tracking: %w", err)
	}

	return nil, fmt.Errorf("service: failed to generate a unique tracking id after %d attempts: %w", maxIDAttempts, domain.ErrConflict)
}

// Get returns the record for trackingID exactly as stored.
func (s *TrackingService) Get(ctx context.Context, trackingID string) (*domain.TrackingRecord, error) {
	if strings.TrimSpace(trackingID) == "" {
		return nil, domain.NewMissingFieldsError("trackingId")
	}

	record, err := s.store.FindByID(ctx, trackingID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to get tracking %q: %w", trackingID, err)
	}
	return record, nil
}

// Update appends a history entry stamped with the current time.
func (s *TrackingService) Update(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.TrackingRecord, error) {
	if strings.TrimSpace(trackingID) == "" {
		return nil, domain.NewMissingFieldsError("trackingId")
	}

	entry, err := domain.NewHistoryEntry(status, location, s.now())
	if err != nil {
		return nil, err
	}

	record, err := s.store.AppendHistory(ctx, trackingID, entry)
	if err != nil {
		return nil, fmt.Errorf("service: failed to update tracking %q: %w", trackingID, err)
	}

	s.logger.Info("Tracking updated",
		zap.String("tracking_id", trackingID),
		zap.String("status", entry.Status.String()),
		zap.Int("progress", record.Progress),
	)
	return record, nil
}

// List returns every stored record.
func (s *TrackingService) List(ctx context.Context) ([]domain.TrackingRecord, error) {
	records, err := s.store.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list trackings: %w", err)
	}
	if records == nil {
		records = []domain.TrackingRecord{}
	}
	return records, nil
}

// View loads a record and derives everything a tracking page renders.
func (s *TrackingService) View(ctx context.Context, trackingID string) (*domain.TrackingView, error) {
	record, err := s.Get(ctx, trackingID)
	if err != nil {
		return nil, err
	}

	resolver := geocode.NewResolver(s.searcher, s.geocode)
	view := BuildView(ctx, record, resolver)
	return &view, nil
}

// Ping checks the store.
func (s *TrackingService) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}
