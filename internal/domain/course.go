package domain

import "time"

// Course is a saved travel course: an ordered list of spots per day.
type Course struct {
	ID        int64
	UserID    int64
	Name      string
	Spots     []Spot
	CreatedAt time.Time
}

// Spot is one stop of a course.
type Spot struct {
	Day       int     `json:"day"`
	Order     int     `json:"order"`
	Name      string  `json:"name"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude,omitempty"`
	Longitude float64 `json:"longitude,omitempty"`
}

// Coordinate is a geocoded address position.
type Coordinate struct {
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	FetchedAt time.Time `json:"fetched_at"`
}
