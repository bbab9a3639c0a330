package types

import (
	"time"

	"github.com/google/uuid"
)

// Attraction is one point of interest extracted from a source document.
// Identity is by name; duplicates across source documents are possible and
// are not deduplicated.
type Attraction struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// AttractionCollection is the ordered set of attractions for one city. It is
// built once, persisted, and treated as read-only afterwards.
type AttractionCollection struct {
	ID          uuid.UUID    `json:"id"`
	City        string       `json:"city"`
	Attractions []Attraction `json:"attractions"`
	BuiltAt     time.Time    `json:"built_at"`
}

// ItineraryStop is one scheduled activity in a generated itinerary.
// ArrivalTime and EndTime are HH:MM, 24-hour.
type ItineraryStop struct {
	ArrivalTime string `json:"arrival_time"`
	EndTime     string `json:"end_time"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TripRequest carries the parameters of one planning request. It lives for a
// single request/response cycle and is never persisted.
type TripRequest struct {
	City         string `json:"city"`
	AudienceType string `json:"audience_type"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
}

type SourceKind string

const (
	SourceWiki SourceKind = "wiki"
	SourceWeb  SourceKind = "web"
)

// SourceRef names one source document: a Wikipedia article title or a web URL.
type SourceRef struct {
	Kind SourceKind `json:"kind"`
	Ref  string     `json:"ref"`
}
