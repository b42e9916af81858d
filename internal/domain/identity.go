package domain

import "time"

// Worker workers table
type Worker struct {
	ID        int64     `json:"id"`
	WorkerID  string    `json:"worker_id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// Workstation workstations table.
// Type is an open category; StationTypeLabel is only used for display.
type Workstation struct {
	ID        int64     `json:"id"`
	StationID string    `json:"station_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

// RecommendedStationTypes known station categories and their display labels
var RecommendedStationTypes = map[string]string{
	"assembly":   "Assembly",
	"inspection": "Inspection",
	"packaging":  "Packaging",
	"machining":  "Machining",
	"welding":    "Welding",
}

// StationTypeLabel returns the display label for a station type, or the raw value for unknown types
func StationTypeLabel(t string) string {
	if label, ok := RecommendedStationTypes[t]; ok {
		return label
	}
	if t == "" {
		return "-"
	}
	return t
}
