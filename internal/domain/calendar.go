package domain

import "time"

// Event is the assistant's view of an existing backend calendar event, used
// as disambiguation and conflict context for the resolver and as the wire
// shape of the events endpoints.
type Event struct {
	ID          string        `json:"id"`
	Summary     string        `json:"summary"`
	Description string        `json:"description,omitempty"`
	Location    string        `json:"location,omitempty"`
	Status      string        `json:"status,omitempty"`
	Start       EventDateTime `json:"start"`
	End         EventDateTime `json:"end"`
}

// EventWindow bounds a calendar read. Zero values leave the corresponding
// side unbounded.
type EventWindow struct {
	TimeMin time.Time
	TimeMax time.Time
}
