// Package geocode turns free-text locations into map coordinates.
package geocode

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"

	"go.uber.org/zap"
)

// DefaultAttemptTimeout bounds each place search.
const DefaultAttemptTimeout = 5 * time.Second

// Options tune a Resolver.
type Options struct {
	// Qualifier is appended to the first query, e.g. "USA".
	Qualifier string
	// AttemptTimeout bounds each place search. Zero means DefaultAttemptTimeout.
	AttemptTimeout time.Duration
}

// Resolver resolves locations for a single rendering pass. Results are cached
// per exact location string for the lifetime of the Resolver, so build a new
// one for every request. It is not safe for concurrent use.
type Resolver struct {
	searcher ports.PlaceSearcher
	opts     Options
	cache    map[string]domain.Coordinates
	logger   *zap.Logger
}

// NewResolver creates a request-scoped Resolver. A nil searcher always yields
// synthetic coordinates.
func NewResolver(searcher ports.PlaceSearcher, opts Options) *Resolver {
	if opts.AttemptTimeout <= 0 {
		opts.AttemptTimeout = DefaultAttemptTimeout
	}
	return &Resolver{
		searcher: searcher,
		opts:     opts,
		cache:    make(map[string]domain.Coordinates),
		logger:   logger.Named("geocode"),
	}
}

// Resolve returns coordinates for location. It never fails: place search is
// tried with the qualified query, then the raw text, then the hash fallback.
func (r *Resolver) Resolve(ctx context.Context, location string) domain.Coordinates {
	if coords, ok := r.cache[location]; ok {
		return coords
	}

	coords := r.resolve(ctx, location)
	r.cache[location] = coords
	return coords
}

func (r *Resolver) resolve(ctx context.Context, location string) domain.Coordinates {
	text := strings.TrimSpace(location)
	if r.searcher == nil || text == "" {
		return Synthetic(location)
	}

	for _, query := range r.queries(text) {
		if coords, ok := r.search(ctx, query); ok {
			return coords
		}
	}

	r.logger.Debug("Falling back to synthetic coordinates", zap.String("location", location))
	return Synthetic(location)
}

func (r *Resolver) queries(text string) []string {
	qualifier := strings.TrimSpace(r.opts.Qualifier)
	if qualifier == "" || strings.HasSuffix(strings.ToLower(text), strings.ToLower(qualifier)) {
		return []string{text}
	}
	return []string{text + ", " + qualifier, text}
}

func (r *Resolver) search(ctx context.Context, query string) (domain.Coordinates, bool) {
	if ctx.Err() != nil {
		return domain.Coordinates{}, false
	}

	attemptCtx, cancel := context.WithTimeout(ctx, r.opts.AttemptTimeout)
	defer cancel()

	places, err := r.searcher.Search(attemptCtx, query)
	if err != nil {
		fields := []zap.Field{zap.String("query", query), zap.Error(err)}
		if errors.Is(err, context.DeadlineExceeded) {
			fields = append(fields, zap.Duration("timeout", r.opts.AttemptTimeout))
		}
		r.logger.Debug("Place search failed", fields...)
		return domain.Coordinates{}, false
	}
	if len(places) == 0 {
		return domain.Coordinates{}, false
	}

	return domain.Coordinates{Lat: places[0].Lat, Lon: places[0].Lon}, true
}
