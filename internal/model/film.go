package model

import "time"

// Film is a catalog entry for a motion picture.  The reference URL (a
// letterboxd/IMDb style link) is the natural external key and is unique
// across the whole catalog.  Films never depend on events; they are shared
// by event lineups and feature requests.
type Film struct {
	ID           uint64    `json:"id"`                      // films.id
	Title        string    `json:"title"`                   // films.title
	ReferenceURL string    `json:"reference_url"`           // films.reference_url (unique)
	Synopsis     *string   `json:"synopsis,omitempty"`      // films.synopsis (nullable)
	RuntimeMin   *int      `json:"runtime_min,omitempty"`   // films.runtime_min (nullable)
	ReleaseYear  *int      `json:"release_year,omitempty"`  // films.release_year (nullable)
	PosterURL    *string   `json:"poster_url,omitempty"`    // films.poster_url (nullable)
	Director     *string   `json:"director,omitempty"`      // films.director (nullable)
	CreatedAt    time.Time `json:"created_at"`              // films.created_at
	UpdatedAt    time.Time `json:"updated_at"`              // films.updated_at
}
