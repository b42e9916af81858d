package domain

import "time"

// EventType activity state reported for one interval
type EventType string

const (
	EventTypeWorking      EventType = "working"
	EventTypeIdle         EventType = "idle"
	EventTypeAbsent       EventType = "absent"
	EventTypeProductCount EventType = "product_count"
)

// EventTypeAll query sentinel meaning "no event_type constraint"
const EventTypeAll = "all"

// EventTypes the closed set accepted at ingestion, in display order
var EventTypes = []EventType{
	EventTypeWorking,
	EventTypeIdle,
	EventTypeAbsent,
	EventTypeProductCount,
}

// Valid reports whether t is one of EventTypes
func (t EventType) Valid() bool {
	switch t {
	case EventTypeWorking, EventTypeIdle, EventTypeAbsent, EventTypeProductCount:
		return true
	}
	return false
}

// Event one observation covering a single fixed-length interval (events table).
// (Timestamp, WorkerID, WorkstationID, EventType) is the natural key.
type Event struct {
	ID            int64     `json:"id"`
	Timestamp     time.Time `json:"timestamp"`
	WorkerID      string    `json:"worker_id"`
	WorkstationID string    `json:"workstation_id"`
	EventType     EventType `json:"event_type"`
	Confidence    float64   `json:"confidence"`
	Count         int       `json:"count"` // units produced; only meaningful for product_count
	CreatedAt     time.Time `json:"created_at"`
}

// Key returns the natural key of e
func (e *Event) Key() EventKey {
	return EventKey{
		Timestamp:     e.Timestamp.UTC(),
		WorkerID:      e.WorkerID,
		WorkstationID: e.WorkstationID,
		EventType:     e.EventType,
	}
}

// EventKey natural key of an event
type EventKey struct {
	Timestamp     time.Time
	WorkerID      string
	WorkstationID string
	EventType     EventType
}

// EventRecord event enriched with identity display names (left join: names are nil for orphans)
type EventRecord struct {
	Event
	WorkerName      *string `json:"worker_name,omitempty"`
	WorkstationName *string `json:"workstation_name,omitempty"`
}
