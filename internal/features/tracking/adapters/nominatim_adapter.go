package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/okaniie/trackingstuff/internal/core/logger"
	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
	"github.com/okaniie/trackingstuff/internal/features/tracking/ports"

	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// NominatimAdapter implements ports.PlaceSearcher against a Nominatim-compatible search API.
type NominatimAdapter struct {
	baseURL string
	client  *http.Client
	limiter *rate.Limiter
	logger  *zap.Logger
}

// NewNominatimAdapter creates a NominatimAdapter. requestsPerSecond <= 0 disables throttling.
func NewNominatimAdapter(baseURL string, client *http.Client, requestsPerSecond float64) *NominatimAdapter {
	limit := rate.Inf
	if requestsPerSecond > 0 {
		limit = rate.Limit(requestsPerSecond)
	}

	return &NominatimAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		limiter: rate.NewLimiter(limit, 1),
		logger:  logger.Named("nominatim"),
	}
}

// nominatimPlace is one element of the search response. Coordinates arrive as strings.
type nominatimPlace struct {
	Lat         string `json:"lat"`
	Lon         string `json:"lon"`
	DisplayName string `json:"display_name"`
}

// Search queries /search and returns places with parsable coordinates.
func (a *NominatimAdapter) Search(ctx context.Context, query string) ([]ports.Place, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("nominatim: rate limit wait: %w", err)
	}

	params := url.Values{}
	params.Set("format", "json")
	params.Set("limit", "1")
	params.Set("q", query)
	endpoint := fmt.Sprintf("%s/search?%s", a.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("nominatim: failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim: failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: nominatim returned status %d", domain.ErrGeocodeUnavailable, resp.StatusCode)
	}

	var results []nominatimPlace
	if err := json.NewDecoder(resp.Body).Decode(&results); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", domain.ErrGeocodeUnavailable, err)
	}

	places := make([]ports.Place, 0, len(results))
	for _, r := range results {
		lat, latErr := strconv.ParseFloat(r.Lat, 64)
		lon, lonErr := strconv.ParseFloat(r.Lon, 64)
		if latErr != nil || lonErr != nil {
			a.logger.Debug("Skipping place with invalid coordinates",
				zap.String("query", query),
				zap.String("lat", r.Lat),
				zap.String("lon", r.Lon),
			)
			continue
		}
		places = append(places, ports.Place{Lat: lat, Lon: lon, DisplayName: r.DisplayName})
	}

	return places, nil
}
