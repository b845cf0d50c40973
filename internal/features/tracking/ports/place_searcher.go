package ports

import "context"

// Place is one result of a place search.
type Place struct {
	Lat         float64
	Lon         float64
	DisplayName string
}

// PlaceSearcher looks up coordinates for free-text locations.
type PlaceSearcher interface {
	// Search returns matching places, best match first. An empty slice means no match.
	Search(ctx context.Context, query string) ([]Place, error)
}
