package geocode

import (
	"unicode/utf16"

	"github.com/okaniie/trackingstuff/internal/features/tracking/domain"
)

// Reference point for synthetic coordinates: geographic center of the contiguous US.
const (
	BaseLat = 39.8283
	BaseLon = -98.5795

	syntheticModulus = 1000
)

// locationHash is the 32-bit polynomial string hash h = c + ((h << 5) - h)
// over UTF-16 code units, wrapping on overflow.
func locationHash(location string) int32 {
	var h int32
	for _, c := range utf16.Encode([]rune(location)) {
		h = int32(c) + ((h << 5) - h)
	}
	return h
}

// Synthetic derives a stable point from the location text alone. The offset
// keeps the sign of the hash, so points fall within one degree of the base.
func Synthetic(location string) domain.Coordinates {
	offset := float64(locationHash(location)%syntheticModulus) / 1000
	return domain.Coordinates{
		Lat:       BaseLat + offset,
		Lon:       BaseLon + offset,
		Synthetic: true,
	}
}
