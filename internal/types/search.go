package types

// SortMode selects the ordering applied to filtered search results.
type SortMode string

const (
	SortRelevance SortMode = "relevance" // backend order, untouched
	SortRating    SortMode = "rating"    // descending
	SortDistance  SortMode = "distance"  // ascending, missing distance last
)

// SearchResult is one place hit from a destination search. Distance is
// only set when the query carried a location to measure from.
type SearchResult struct {
	PlaceID    string   `json:"place_id"`
	Name       string   `json:"name"`
	Latitude   float64  `json:"latitude"`
	Longitude  float64  `json:"longitude"`
	Address    string   `json:"address,omitempty"`
	Category   string   `json:"category,omitempty"`
	Types      []string `json:"types,omitempty"`
	Rating     *float64 `json:"rating,omitempty"`
	PriceLevel *int     `json:"price_level,omitempty"`
	OpenNow    *bool    `json:"open_now,omitempty"`
	Distance   *float64 `json:"distance,omitempty"` // km
	PhotoRef   string   `json:"photo_ref,omitempty"`
}

// SearchFilters are the active result filters. Zero values mean "not set"
// for category and min rating; price level and open-now use pointers so an
// explicit zero still filters.
type SearchFilters struct {
	Category   string  `json:"category,omitempty"`
	MinRating  float64 `json:"min_rating,omitempty"`
	PriceLevel *int    `json:"price_level,omitempty"`
	OpenNow    *bool   `json:"open_now,omitempty"`
}

// UpdateFiltersRequest carries a partial filter update. Nil fields leave
// the current value untouched.
type UpdateFiltersRequest struct {
	Category   *string  `json:"category,omitempty"`
	MinRating  *float64 `json:"min_rating,omitempty"`
	PriceLevel *int     `json:"price_level,omitempty"`
	OpenNow    *bool    `json:"open_now,omitempty"`
}

type SetSortRequest struct {
	SortBy SortMode `json:"sort_by"`
}

type SetPageRequest struct {
	Page int `json:"page"`
}

type RunSearchRequest struct {
	Query    string `json:"query"`
	Location string `json:"location,omitempty"` // "lat,lng"
}

// PaginatedSearchResponse is one page of the filtered/sorted view plus
// enough bookkeeping for the UI pager.
type PaginatedSearchResponse struct {
	Query        string         `json:"query"`
	Results      []SearchResult `json:"results"`
	Page         int            `json:"page"`
	PageSize     int            `json:"page_size"`
	TotalPages   int            `json:"total_pages"`
	TotalResults int            `json:"total_results"`
	SortBy       SortMode       `json:"sort_by"`
	Filters      SearchFilters  `json:"filters"`
}
