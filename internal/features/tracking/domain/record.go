package domain

import (
	"strings"
	"time"
)

// TrackingRecord is one shipment and its status history.
type TrackingRecord struct {
	// TrackingID is the case-sensitive public identifier.
	TrackingID string `json:"trackingId"`
	// Origin is where the shipment started.
	Origin string `json:"origin"`
	// Destination is where the shipment is headed.
	Destination string `json:"destination"`
	// Status mirrors the last appended history entry.
	Status Status `json:"status"`
	// Location mirrors the last appended history entry.
	Location string `json:"location"`
	// Progress is ProgressOf(Status).
	Progress int `json:"progress"`
	// History is append-only.
	History []HistoryEntry `json:"history"`
	// EstimatedDelivery is optional.
	EstimatedDelivery *time.Time `json:"estimatedDelivery,omitempty"`
	CreatedAt         time.Time  `json:"createdAt"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}

// NewTrackingRecord builds a record whose history holds the creation event.
// An empty location defaults to the origin.
func NewTrackingRecord(trackingID, origin, destination string, status Status, location string, at time.Time) (*TrackingRecord, error) {
	trackingID = strings.TrimSpace(trackingID)
	origin = strings.TrimSpace(origin)
	destination = strings.TrimSpace(destination)
	location = strings.TrimSpace(location)
	if location == "" {
		location = origin
	}

	verr := &ValidationError{}
	if trackingID == "" {
		verr.Missing = append(verr.Missing, "trackingId")
	}
	if origin == "" {
		verr.Missing = append(verr.Missing, "origin")
	}
	if destination == "" {
		verr.Missing = append(verr.Missing, "destination")
	}
	if status == "" {
		verr.Missing = append(verr.Missing, "status")
	} else if !status.IsValid() {
		verr.Invalid = append(verr.Invalid, "status")
	}
	if location == "" {
		verr.Missing = append(verr.Missing, "location")
	}
	if !verr.Empty() {
		return nil, verr
	}

	first := HistoryEntry{Date: at, Status: status, Location: location}
	return &TrackingRecord{
		TrackingID:  trackingID,
		Origin:      origin,
		Destination: destination,
		Status:      status,
		Location:    location,
		Progress:    ProgressOf(string(status)),
		History:     []HistoryEntry{first},
		CreatedAt:   at,
		UpdatedAt:   at,
	}, nil
}

// NewHistoryEntry validates an update before it is appended.
func NewHistoryEntry(status Status, location string, at time.Time) (HistoryEntry, error) {
	location = strings.TrimSpace(location)
	verr := &ValidationError{}
	if status == "" {
		verr.Missing = append(verr.Missing, "status")
	} else if !status.IsValid() {
		verr.Invalid = append(verr.Invalid, "status")
	}
	if location == "" {
		verr.Missing = append(verr.Missing, "location")
	}
	if !verr.Empty() {
		return HistoryEntry{}, verr
	}
	return HistoryEntry{Date: at, Status: status, Location: location}, nil
}

// Append records a new history entry and mirrors it onto the record.
func (r *TrackingRecord) Append(entry HistoryEntry) {
	r.History = append(r.History, entry)
	r.Status = entry.Status
	r.Location = entry.Location
	r.Progress = ProgressOf(string(entry.Status))
	r.UpdatedAt = entry.Date
}

// NewTracking is the input for creating a record. An empty TrackingID asks
// the service to generate one.
type NewTracking struct {
	TrackingID        string
	Origin            string
	Destination       string
	Status            Status
	Location          string
	EstimatedDelivery *time.Time
}
