package types

import "time"

// Tour is a joinable group tour listed by the backend.
type Tour struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	Destination  string    `json:"destination"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"`
	PricePerHead float64   `json:"price_per_head"`
	Capacity     int       `json:"capacity"`
	JoinedCount  int       `json:"joined_count"`
	GuideID      string    `json:"guide_id,omitempty"`
	ImageURL     string    `json:"image_url,omitempty"`
}

// TourBooking is the confirmation the backend returns for a join request.
type TourBooking struct {
	ID        string    `json:"id"`
	TourID    string    `json:"tour_id"`
	UserID    string    `json:"user_id"`
	Seats     int       `json:"seats"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

type JoinTourRequest struct {
	Seats int `json:"seats"`
}

// LocalGuide is a browsable guide profile.
type LocalGuide struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	City        string   `json:"city"`
	Bio         string   `json:"bio,omitempty"`
	Languages   []string `json:"languages,omitempty"`
	Rating      float64  `json:"rating"`
	PricePerDay float64  `json:"price_per_day,omitempty"`
}
