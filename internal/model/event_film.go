package model

import "time"

// EventFilm assigns one film to one event's lineup with an ordering slot.
// A film appears in an event at most once (unique (event_id, film_id)).
// SlotOrder carries no uniqueness constraint; display order is
// (slot_order, created_at, id) so collisions still render deterministically.
type EventFilm struct {
	ID        uint64    `json:"id"`             // event_films.id
	EventID   uint64    `json:"event_id"`       // event_films.event_id -> events.id
	FilmID    uint64    `json:"film_id"`        // event_films.film_id -> films.id
	SlotOrder int       `json:"slot_order"`     // event_films.slot_order
	Note      *string   `json:"note,omitempty"` // event_films.note (nullable)
	CreatedAt time.Time `json:"created_at"`     // event_films.created_at
}

// LineupEntry is an EventFilm joined with its film, as returned by list
// endpoints so callers do not need a second lookup per slot.
type LineupEntry struct {
	EventFilm
	Film Film `json:"film"`
}
