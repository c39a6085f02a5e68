package types

// Types for the commercial places API, used only when an API key is
// configured. Field layout follows the wire format of the Places
// text-search endpoint.

type PlacesSearchResponse struct {
	Results []PlaceResult `json:"results"`
	Status  string        `json:"status"`
}

type PlaceResult struct {
	PlaceID      string        `json:"place_id"`
	Name         string        `json:"name"`
	Geometry     Geometry      `json:"geometry"`
	Vicinity     *string       `json:"vicinity,omitempty"`
	Types        []string      `json:"types"`
	Rating       *float64      `json:"rating,omitempty"`
	PriceLevel   *int          `json:"price_level,omitempty"`
	OpeningHours *OpeningHours `json:"opening_hours,omitempty"`
	Photos       []PlacePhoto  `json:"photos,omitempty"`
}

type Geometry struct {
	Location Location `json:"location"`
}

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type OpeningHours struct {
	OpenNow bool `json:"open_now"`
}

type PlacePhoto struct {
	PhotoReference string `json:"photo_reference"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
}
