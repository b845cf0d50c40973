package domain

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// HistoryEntry is one status observation appended to a record.
type HistoryEntry struct {
	// Date is when the entry was recorded. It is assigned server-side.
	Date time.Time `json:"date"`
	// Status is the shipment status at that moment.
	Status Status `json:"status"`
	// Location is free text such as "Chicago, IL".
	Location string `json:"location"`
}

// timestampLayouts are accepted when reading dates from storage or imports.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses a stored date. Unparsable input fails with ErrDataQuality.
func ParseTimestamp(raw string) (time.Time, error) {
	value := strings.TrimSpace(raw)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable date %q", ErrDataQuality, raw)
}

// Normalize sorts entries by date ascending. Equal dates keep insertion order,
// so the later append is the current entry. ok is false for an empty history,
// in which case callers fall back to the record's own status and location.
func Normalize(entries []HistoryEntry) (current HistoryEntry, chronological []HistoryEntry, ok bool) {
	chronological = slices.Clone(entries)
	slices.SortStableFunc(chronological, func(a, b HistoryEntry) int {
		return a.Date.Compare(b.Date)
	})
	if len(chronological) == 0 {
		return HistoryEntry{}, chronological, false
	}
	return chronological[len(chronological)-1], chronological, true
}

// NewestFirst reverses a chronological history for display.
func NewestFirst(chronological []HistoryEntry) []HistoryEntry {
	reversed := slices.Clone(chronological)
	slices.Reverse(reversed)
	return reversed
}
