package domain

import "time"

// DiagnosticStep is one stage of a store round trip.
type DiagnosticStep struct {
	Name     string        `json:"name"`
	OK       bool          `json:"ok"`
	Duration time.Duration `json:"durationNs"`
	Error    string        `json:"error,omitempty"`
}

// DiagnosticReport summarises a create, read, update and delete cycle against the store.
type DiagnosticReport struct {
	TrackingID string           `json:"trackingId"`
	OK         bool             `json:"ok"`
	Steps      []DiagnosticStep `json:"steps"`
	// Record is the record as it looked after the update step.
	Record *TrackingRecord `json:"record,omitempty"`
}
