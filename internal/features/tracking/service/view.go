package service

import (
	"context"

	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/geocode"
)

// BuildView derives the page state for record. An empty history falls back
// to the record's own status and location.
func BuildView(ctx context.Context, record *domain.TrackingRecord, resolver *geocode.Resolver) domain.TrackingView {
	current, chronological, ok := domain.Normalize(record.History)
	if !ok {
		current = domain.HistoryEntry{
			Date:     record.UpdatedAt,
			Status:   record.Status,
			Location: record.Location,
		}
	}

	status := string(current.Status)
	color := domain.ColorOf(status)

	return domain.TrackingView{
		TrackingID:        record.TrackingID,
		Origin:            record.Origin,
		Destination:       record.Destination,
		Status:            current.Status,
		Location:          current.Location,
		Progress:          domain.ProgressOf(status),
		Stage:             domain.StageOf(status),
		Color:             color,
		ColorHex:          color.Hex(),
		Icon:              domain.IconOf(status),
		EstimatedDelivery: record.EstimatedDelivery,
		Current:           current,
		Chronological:     chronological,
		Timeline:          buildTimeline(chronological),
		Waypoints:         AssembleWaypoints(ctx, chronological, resolver),
	}
}

// AssembleWaypoints places every history entry on the map in date order.
// Entries sharing a location stay separate waypoints.
func AssembleWaypoints(ctx context.Context, entries []domain.HistoryEntry, resolver *geocode.Resolver) []domain.Waypoint {
	_, chronological, _ := domain.Normalize(entries)

	waypoints := make([]domain.Waypoint, 0, len(chronological))
	for i, entry := range chronological {
		coords := resolver.Resolve(ctx, entry.Location)
		status := string(entry.Status)
		color := domain.ColorOf(status)

		waypoints = append(waypoints, domain.Waypoint{
			Index:     i + 1,
			Date:      entry.Date,
			Status:    entry.Status,
			Location:  entry.Location,
			Lat:       coords.Lat,
			Lon:       coords.Lon,
			Synthetic: coords.Synthetic,
			Stage:     domain.StageOf(status),
			Color:     color,
			ColorHex:  color.Hex(),
			Icon:      domain.IconOf(status),
		})
	}
	return waypoints
}

func buildTimeline(chronological []domain.HistoryEntry) []domain.TimelineItem {
	newest := domain.NewestFirst(chronological)
	items := make([]domain.TimelineItem, 0, len(newest))
	for _, entry := range newest {
		status := string(entry.Status)
		color := domain.ColorOf(status)
		items = append(items, domain.TimelineItem{
			Date:     entry.Date,
			Status:   entry.Status,
			Location: entry.Location,
			Color:    color,
			ColorHex: color.Hex(),
			Icon:     domain.IconOf(status),
		})
	}
	return items
}
