package models

import "time"

// MovieType encodes whose watch-list a movie belongs to. Like wishes, the tag
// expresses the intended viewer, not who created the record.
type MovieType string

const (
	MovieTypeMine    MovieType = "my_movies"
	MovieTypePartner MovieType = "partner_movies"
)

// Movie represents a watch-list entry with optional post-watch metadata.
type Movie struct {
	ID          int64      `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Type        MovieType  `json:"movie_type" db:"movie_type"`
	CreatedBy   int64      `json:"created_by" db:"created_by"`
	Rating      *int       `json:"rating" db:"rating"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	Watched     bool       `json:"watched" db:"watched"`
	WatchDate   *time.Time `json:"watch_date" db:"watch_date"`
	Review      string     `json:"review" db:"review"`
}

// IsRated returns true if a rating has been set.
func (m *Movie) IsRated() bool {
	return m.Rating != nil
}

// MovieStats holds aggregate watch-list statistics for one user's view.
type MovieStats struct {
	Total     int     `json:"total"`
	Watched   int     `json:"watched"`
	AvgRating float64 `json:"avg_rating"`
}
