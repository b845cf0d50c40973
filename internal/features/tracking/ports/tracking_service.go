package ports

import (
	"context"

	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
)

// TrackingService defines the primary port for tracking operations.
type TrackingService interface {
	Create(ctx context.Context, input domain.NewTracking) (*domain.TrackingRecord, error)
	Get(ctx context.Context, trackingID string) (*domain.TrackingRecord, error)
	Update(ctx context.Context, trackingID string, status domain.Status, location string) (*domain.TrackingRecord, error)
	List(ctx context.Context) ([]domain.TrackingRecord, error)
	View(ctx context.Context, trackingID string) (*domain.TrackingView, error)
	Diagnose(ctx context.Context) (*domain.DiagnosticReport, error)
	Ping(ctx context.Context) error
}
