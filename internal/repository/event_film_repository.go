// Lineup persistence: the event_films join assigns films to an event with
// an ordering slot.  The unique (event_id, film_id) index keeps a film
// from appearing twice in one lineup; the append-at-end slot computation
// runs inside the insert transaction so concurrent adds cannot both read
// the same max.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/filmnight/screening-rsvp/internal/model"
)

type EventFilmRepo struct{ DB *sql.DB }

func NewEventFilmRepo(db *sql.DB) *EventFilmRepo { return &EventFilmRepo{DB: db} }

// Add schedules a film into an event's lineup.  When slotOrder is nil the
// film is appended after the current last slot (0 for an empty lineup).
// A film already in the lineup yields ErrConflict; unknown event or film
// IDs yield their not-found sentinels.
func (r *EventFilmRepo) Add(ctx context.Context, eventID, filmID uint64, slotOrder *int, note *string) (ef *model.EventFilm, err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	var one int
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM events WHERE id=?", eventID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrEventNotFound
		}
		return nil, err
	}
	if err = tx.QueryRowContext(ctx, "SELECT 1 FROM films WHERE id=?", filmID).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			err = ErrFilmNotFound
		}
		return nil, err
	}

	slot := 0
	if slotOrder != nil {
		slot = *slotOrder
	} else {
		// Append at end: max existing slot + 1, still inside the tx.
		err = tx.QueryRowContext(ctx,
			"SELECT COALESCE(MAX(slot_order)+1, 0) FROM event_films WHERE event_id=?", eventID).Scan(&slot)
		if err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()
	res, err := tx.ExecContext(ctx,
		"INSERT INTO event_films (event_id, film_id, slot_order, note, created_at) VALUES (?,?,?,?,?)",
		eventID, filmID, slot, note, now)
	if err != nil {
		if isDuplicateKey(err) {
			err = fmt.Errorf("%w: film already in lineup", ErrConflict)
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &model.EventFilm{
		ID:        uint64(id),
		EventID:   eventID,
		FilmID:    filmID,
		SlotOrder: slot,
		Note:      note,
		CreatedAt: now,
	}, nil
}

// Reorder moves a lineup entry to a new slot.  Setting the same slot again
// is a no-op, not an error.
func (r *EventFilmRepo) Reorder(ctx context.Context, eventID, filmID uint64, newSlot int) (*model.EventFilm, error) {
	var ef model.EventFilm
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, event_id, film_id, slot_order, note, created_at FROM event_films WHERE event_id=? AND film_id=?",
		eventID, filmID).Scan(&ef.ID, &ef.EventID, &ef.FilmID, &ef.SlotOrder, &ef.Note, &ef.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLineupEntryNotFound
	}
	if err != nil {
		return nil, err
	}
	if ef.SlotOrder != newSlot {
		if _, err := r.DB.ExecContext(ctx,
			"UPDATE event_films SET slot_order=? WHERE id=?", newSlot, ef.ID); err != nil {
			return nil, err
		}
		ef.SlotOrder = newSlot
	}
	return &ef, nil
}

// Remove deletes a lineup entry.  Remaining slots are not renumbered.
func (r *EventFilmRepo) Remove(ctx context.Context, eventID, filmID uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"DELETE FROM event_films WHERE event_id=? AND film_id=?", eventID, filmID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrLineupEntryNotFound
	}
	return nil
}

// ListByEvent returns the lineup joined with film details, ordered by
// (slot_order, created_at, id) so slot collisions still display
// deterministically.
func (r *EventFilmRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.LineupEntry, error) {
	const q = `SELECT ef.id, ef.event_id, ef.film_id, ef.slot_order, ef.note, ef.created_at,
	                  f.id, f.title, f.reference_url, f.synopsis, f.runtime_min, f.release_year, f.poster_url, f.director, f.created_at, f.updated_at
	           FROM event_films ef
	           JOIN films f ON f.id = ef.film_id
	           WHERE ef.event_id = ?
	           ORDER BY ef.slot_order ASC, ef.created_at ASC, ef.id ASC`
	rows, err := r.DB.QueryContext(ctx, q, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var lineup []model.LineupEntry
	for rows.Next() {
		var le model.LineupEntry
		if err := rows.Scan(
			&le.ID, &le.EventID, &le.FilmID, &le.SlotOrder, &le.Note, &le.CreatedAt,
			&le.Film.ID, &le.Film.Title, &le.Film.ReferenceURL, &le.Film.Synopsis, &le.Film.RuntimeMin,
			&le.Film.ReleaseYear, &le.Film.PosterURL, &le.Film.Director, &le.Film.CreatedAt, &le.Film.UpdatedAt,
		); err != nil {
			return nil, err
		}
		lineup = append(lineup, le)
	}
	return lineup, rows.Err()
}
