package ports

import (
	"context"

	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
)

// RecordStore persists tracking records.
// This is a Secondary Port (Driven Port).
type RecordStore interface {
	// Create stores a new record. It fails with domain.ErrConflict if the id exists.
	Create(ctx context.Context, record *domain.TrackingRecord) error
	// FindByID returns the record or domain.ErrNotFound.
	FindByID(ctx context.Context, trackingID string) (*domain.TrackingRecord, error)
	// AppendHistory appends an entry, mirrors it onto the record and returns the result.
	// It fails with domain.ErrNotFound for an unknown id.
	AppendHistory(ctx context.Context, trackingID string, entry domain.HistoryEntry) (*domain.TrackingRecord, error)
	// List returns every record.
	List(ctx context.Context) ([]domain.TrackingRecord, error)
	// Delete removes a record. Only maintenance paths call it.
	Delete(ctx context.Context, trackingID string) error
	// Ping checks that the backing database is reachable.
	Ping(ctx context.Context) error
	// Close releases connections.
	Close() error
}
