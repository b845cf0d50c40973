package domain

import "time"

// Coordinates is a resolved point on the map.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
	// Synthetic is true when the point came from the hash fallback.
	Synthetic bool `json:"synthetic"`
}

// Waypoint is a history entry placed on the map.
type Waypoint struct {
	// Index is the 1-based position along the path.
	Index     int       `json:"index"`
	Date      time.Time `json:"date"`
	Status    Status    `json:"status"`
	Location  string    `json:"location"`
	Lat       float64   `json:"lat"`
	Lon       float64   `json:"lon"`
	Synthetic bool      `json:"synthetic"`
	Stage     int       `json:"stage"`
	Color     Color     `json:"color"`
	ColorHex  string    `json:"colorHex"`
	Icon      Icon      `json:"icon"`
}

// TimelineItem is one row of the newest-first timeline.
type TimelineItem struct {
	Date     time.Time `json:"date"`
	Status   Status    `json:"status"`
	Location string    `json:"location"`
	Color    Color     `json:"color"`
	ColorHex string    `json:"colorHex"`
	Icon     Icon      `json:"icon"`
}

// TrackingView is the derived state a page needs to render one record.
type TrackingView struct {
	TrackingID        string         `json:"trackingId"`
	Origin            string         `json:"origin"`
	Destination       string         `json:"destination"`
	Status            Status         `json:"status"`
	Location          string         `json:"location"`
	Progress          int            `json:"progress"`
	Stage             int            `json:"stage"`
	Color             Color          `json:"color"`
	ColorHex          string         `json:"colorHex"`
	Icon              Icon           `json:"icon"`
	EstimatedDelivery *time.Time     `json:"estimatedDelivery,omitempty"`
	Current           HistoryEntry   `json:"current"`
	Chronological     []HistoryEntry `json:"chronologicalHistory"`
	Timeline          []TimelineItem `json:"timeline"`
	Waypoints         []Waypoint     `json:"waypoints"`
}
