package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/cache"
	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"

	"go.uber.org/zap"
)

const (
	redisRecordKeyPrefix = "tracking:record:"
	redisIndexKey        = "tracking:ids"
)

// RedisStore implements ports.RecordStore on a key-value cache.
// Each record is one JSON document; a set indexes the known ids.
type RedisStore struct {
	cache  cache.Cache
	logger *zap.Logger
}

// NewRedisStore creates a RedisStore backed by c.
func NewRedisStore(c cache.Cache) *RedisStore {
	return &RedisStore{cache: c, logger: logger.Named("redis_store")}
}

// redisRecord is the stored document. Dates are kept as text and parsed on read.
type redisRecord struct {
	TrackingID        string         `json:"trackingId"`
	Origin            string         `json:"origin"`
	Destination       string         `json:"destination"`
	Status            string         `json:"status"`
	Location          string         `json:"location"`
	Progress          int            `json:"progress"`
	History           []redisHistory `json:"history"`
	EstimatedDelivery string         `json:"estimatedDelivery,omitempty"`
	CreatedAt         string         `json:"createdAt"`
	UpdatedAt         string         `json:"updatedAt"`
}

type redisHistory struct {
	Date     string `json:"date"`
	Status   string `json:"status"`
	Location string `json:"location"`
}

func recordKey(trackingID string) string {
	return redisRecordKeyPrefix + trackingID
}

func (s *RedisStore) Create(ctx context.Context, record *domain.TrackingRecord) error {
	data, err := encodeRedisRecord(record)
	if err != nil {
		return err
	}

	// The index entry goes first: adding to a set is idempotent and List
	// skips ids whose document was never written.
	if err := s.cache.AddToSet(ctx, redisIndexKey, record.TrackingID); err != nil {
		return classifyCacheError("index", err)
	}

	created, err := s.cache.SetIfAbsent(ctx, recordKey(record.TrackingID), data, 0)
	if err != nil {
		return classifyCacheError("create", err)
	}
	if !created {
		// A replayed create finds its own document.
		existing, err := s.cache.Get(ctx, recordKey(record.TrackingID))
		if err == nil && bytes.Equal(existing, data) {
			return nil
		}
		return fmt.Errorf("redis: create %q: %w", record.TrackingID, domain.ErrConflict)
	}
	return nil
}

func (s *RedisStore) FindByID(ctx context.Context, trackingID string) (*domain.TrackingRecord, error) {
	data, err := s.cache.Get(ctx, recordKey(trackingID))
	if err != nil {
		return nil, classifyCacheError("get", err)
	}
	return decodeRedisRecord(data)
}

func (s *RedisStore) AppendHistory(ctx context.Context, trackingID string, entry domain.HistoryEntry) (*domain.TrackingRecord, error) {
	record, err := s.FindByID(ctx, trackingID)
	if err != nil {
		return nil, err
	}
	record.Append(entry)

	data, err := encodeRedisRecord(record)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, recordKey(trackingID), data, 0); err != nil {
		return nil, classifyCacheError("set", err)
	}
	return record, nil
}

func (s *RedisStore) List(ctx context.Context) ([]domain.TrackingRecord, error) {
	ids, err := s.cache.SetMembers(ctx, redisIndexKey)
	if err != nil {
		return nil, classifyCacheError("list", err)
	}
	slices.Sort(ids)

	records := make([]domain.TrackingRecord, 0, len(ids))
	for _, id := range ids {
		record, err := s.FindByID(ctx, id)
		if errors.Is(err, domain.ErrNotFound) {
			s.logger.Warn("Index references missing record", zap.String("tracking_id", id))
			continue
		}
		if err != nil {
			return nil, err
		}
		records = append(records, *record)
	}

	slices.SortStableFunc(records, func(a, b domain.TrackingRecord) int {
		return a.CreatedAt.Compare(b.CreatedAt)
	})
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, trackingID string) error {
	if _, err := s.cache.Get(ctx, recordKey(trackingID)); err != nil {
		return classifyCacheError("delete", err)
	}
	if err := s.cache.RemoveFromSet(ctx, redisIndexKey, trackingID); err != nil {
		return classifyCacheError("unindex", err)
	}
	if err := s.cache.Delete(ctx, recordKey(trackingID)); err != nil {
		return classifyCacheError("delete", err)
	}
	return nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.cache.Ping(ctx); err != nil {
		return classifyCacheError("ping", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.cache.Close()
}

func encodeRedisRecord(record *domain.TrackingRecord) ([]byte, error) {
	doc := redisRecord{
		TrackingID:  record.TrackingID,
		Origin:      record.Origin,
		Destination: record.Destination,
		Status:      string(record.Status),
		Location:    record.Location,
		Progress:    record.Progress,
		History:     make([]redisHistory, 0, len(record.History)),
		CreatedAt:   formatTime(record.CreatedAt),
		UpdatedAt:   formatTime(record.UpdatedAt),
	}
	if record.EstimatedDelivery != nil {
		doc.EstimatedDelivery = formatTime(*record.EstimatedDelivery)
	}
	for _, e := range record.History {
		doc.History = append(doc.History, redisHistory{
			Date:     formatTime(e.Date),
			Status:   string(e.Status),
			Location: e.Location,
		})
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("redis: encode %q: %w", record.TrackingID, err)
	}
	return data, nil
}

func decodeRedisRecord(data []byte) (*domain.TrackingRecord, error) {
	var doc redisRecord
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("redis: %w: %v", domain.ErrDataQuality, err)
	}

	record := &domain.TrackingRecord{
		TrackingID:  doc.TrackingID,
		Origin:      doc.Origin,
		Destination: doc.Destination,
		Status:      domain.Status(doc.Status),
		Location:    doc.Location,
		Progress:    doc.Progress,
		History:     make([]domain.HistoryEntry, 0, len(doc.History)),
	}

	var err error
	if record.CreatedAt, err = domain.ParseTimestamp(doc.CreatedAt); err != nil {
		return nil, fmt.Errorf("redis: tracking %q createdAt: %w", doc.TrackingID, err)
	}
	if record.UpdatedAt, err = domain.ParseTimestamp(doc.UpdatedAt); err != nil {
		return nil, fmt.Errorf("redis: tracking %q updatedAt: %w", doc.TrackingID, err)
	}
	if doc.EstimatedDelivery != "" {
		var t time.Time
		if t, err = domain.ParseTimestamp(doc.EstimatedDelivery); err != nil {
			return nil, fmt.Errorf("redis: tracking %q estimatedDelivery: %w", doc.TrackingID, err)
		}
		record.EstimatedDelivery = &t
	}

	for _, h := range doc.History {
		date, err := domain.ParseTimestamp(h.Date)
		if err != nil {
			return nil, fmt.Errorf("redis: history of %q: %w", doc.TrackingID, err)
		}
		record.History = append(record.History, domain.HistoryEntry{
			Date:     date,
			Status:   domain.Status(h.Status),
			Location: h.Location,
		})
	}

	return record, nil
}

func classifyCacheError(op string, err error) error {
	switch {
	case errors.Is(err, cache.ErrKeyNotFound):
		return fmt.Errorf("redis: %s: %w", op, domain.ErrNotFound)
	case errors.Is(err, cache.ErrUnavailable):
		return fmt.Errorf("redis: %s: %w: %v", op, domain.ErrTransientStore, err)
	default:
		return fmt.Errorf("redis: %s: %w", op, err)
	}
}
