package types

import "time"

// Pace controls how many stops get packed into a single day of the
// default timeline layout.
type Pace string

const (
	PaceSlow   Pace = "slow"
	PaceNormal Pace = "normal"
	PaceFast   Pace = "fast"
)

// Multiplier returns the stops-per-day scaling factor for the pace.
// Unknown values behave like PaceNormal.
func (p Pace) Multiplier() float64 {
	switch p {
	case PaceSlow:
		return 0.7
	case PaceFast:
		return 1.4
	default:
		return 1.0
	}
}

// Stop is a place added to the working itinerary. The ID is generated
// locally when the stop is added and is distinct from the backend place ID.
type Stop struct {
	ID            string    `json:"id"`
	PlaceID       string    `json:"place_id,omitempty"`
	Name          string    `json:"name"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Address       string    `json:"address,omitempty"`
	Category      string    `json:"category,omitempty"`
	Rating        float64   `json:"rating,omitempty"`
	PhotoRef      string    `json:"photo_ref,omitempty"`
	DurationHours float64   `json:"duration_hours"`
	AddedAt       time.Time `json:"added_at"`
}

// ItinerarySettings holds the trip-level knobs the day layout derives from.
type ItinerarySettings struct {
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	PartySize int        `json:"party_size"`
	Pace      Pace       `json:"pace"`
}

// ItineraryState is the full working state of one trip plan. It is what
// gets persisted locally between runs and what the UI reads back.
type ItineraryState struct {
	Settings ItinerarySettings `json:"settings"`
	Stops    []Stop            `json:"stops"`
}

// DayGroup is a derived bucket of stops assigned to one day of the trip.
// It is recomputed on every read and never persisted.
type DayGroup struct {
	Day        int     `json:"day"` // 1-based
	Stops      []Stop  `json:"stops"`
	TotalHours float64 `json:"total_hours"`
}

// AddStopRequest mirrors the loosely-typed place object the UI sends when
// a search result is added to the trip. Everything besides the name may
// be absent.
type AddStopRequest struct {
	PlaceID   string   `json:"place_id,omitempty"`
	Name      string   `json:"name"`
	Latitude  float64  `json:"latitude,omitempty"`
	Longitude float64  `json:"longitude,omitempty"`
	Address   string   `json:"address,omitempty"`
	Category  string   `json:"category,omitempty"`
	Types     []string `json:"types,omitempty"`
	Rating    float64  `json:"rating,omitempty"`
	PhotoRef  string   `json:"photo_ref,omitempty"`
}

type SetDatesRequest struct {
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type UpdateSettingsRequest struct {
	PartySize *int  `json:"party_size,omitempty"`
	Pace      *Pace `json:"pace,omitempty"`
}

type ReorderStopsRequest struct {
	FromIndex int `json:"from_index"`
	ToIndex   int `json:"to_index"`
}

type UpdateStopDurationRequest struct {
	DurationHours float64 `json:"duration_hours"`
}

// SaveItineraryRequest is the payload posted to the remote backend when the
// working plan is persisted server-side.
type SaveItineraryRequest struct {
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	PartySize int        `json:"party_size"`
	Pace      Pace       `json:"pace"`
	Items     []Stop     `json:"items"`
}

// SavedItinerary is a trip plan as the backend returns it.
type SavedItinerary struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"start_date,omitempty"`
	EndDate   *time.Time `json:"end_date,omitempty"`
	PartySize int        `json:"party_size"`
	Pace      Pace       `json:"pace"`
	Items     []Stop     `json:"items"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
