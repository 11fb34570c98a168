// Event registry persistence.  An event's slug is its public identifier
// and is immutable after creation, as is the creator reference.  The
// is_published and is_archived flags are independent; archived events are
// fenced off from scheduling/invitation writes by the handler layer.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/filmnight/screening-rsvp/internal/model"
)

type EventRepo struct{ DB *sql.DB }

func NewEventRepo(db *sql.DB) *EventRepo { return &EventRepo{DB: db} }

const eventCols = "id, slug, title, description, scheduled_at, door_time, location, hero_image, is_published, is_archived, created_by_id, created_at, updated_at"

func scanEvent(row interface{ Scan(...any) error }, e *model.Event) error {
	return row.Scan(&e.ID, &e.Slug, &e.Title, &e.Description, &e.ScheduledAt, &e.DoorTime,
		&e.Location, &e.HeroImage, &e.IsPublished, &e.IsArchived, &e.CreatedByID, &e.CreatedAt, &e.UpdatedAt)
}

// EventPatch carries the mutable event fields for Update.  Slug and
// creator are deliberately absent: both are immutable after creation.
type EventPatch struct {
	Title       *string
	Description *string
	ScheduledAt *time.Time
	DoorTime    *time.Time
	Location    *string
	HeroImage   *string
}

// Create inserts an event.  A taken slug yields ErrConflict; a creator ID
// that does not reference an existing user yields ErrConstraint.
func (r *EventRepo) Create(ctx context.Context, e *model.Event) error {
	e.Slug = strings.ToLower(strings.TrimSpace(e.Slug))
	e.Title = strings.TrimSpace(e.Title)
	if e.Slug == "" || e.Title == "" {
		return fmt.Errorf("%w: slug and title are required", ErrValidation)
	}
	if e.ScheduledAt.IsZero() {
		return fmt.Errorf("%w: scheduled_at is required", ErrValidation)
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO events (slug, title, description, scheduled_at, door_time, location, hero_image, is_published, is_archived, created_by_id, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?,?)`,
		e.Slug, e.Title, e.Description, e.ScheduledAt.UTC(), e.DoorTime, e.Location, e.HeroImage,
		e.IsPublished, e.IsArchived, e.CreatedByID, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: slug already taken", ErrConflict)
		}
		if isFKViolation(err) {
			return fmt.Errorf("%w: created_by_id references no user", ErrConstraint)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	e.ID = uint64(id)
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// GetByID returns an event or ErrEventNotFound.
func (r *EventRepo) GetByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := scanEvent(r.DB.QueryRowContext(ctx, "SELECT "+eventCols+" FROM events WHERE id=?", id), &e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// GetBySlug returns an event by its public slug or ErrEventNotFound.
func (r *EventRepo) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	var e model.Event
	err := scanEvent(r.DB.QueryRowContext(ctx,
		"SELECT "+eventCols+" FROM events WHERE slug=?", strings.ToLower(strings.TrimSpace(slug))), &e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// List returns events ordered by schedule.  publishedOnly restricts the
// result to published, non-archived events for the public browse surface.
func (r *EventRepo) List(ctx context.Context, publishedOnly bool) ([]model.Event, error) {
	q := "SELECT " + eventCols + " FROM events"
	if publishedOnly {
		q += " WHERE is_published=? AND is_archived=?"
	}
	q += " ORDER BY scheduled_at ASC"
	var (
		rows *sql.Rows
		err  error
	)
	if publishedOnly {
		rows, err = r.DB.QueryContext(ctx, q, true, false)
	} else {
		rows, err = r.DB.QueryContext(ctx, q)
	}
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := scanEvent(rows, &e); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// Update applies a patch to mutable fields and returns the fresh row.
// Read and write share one transaction so two concurrent patches cannot
// interleave and drop each other's fields.
func (r *EventRepo) Update(ctx context.Context, id uint64, p EventPatch) (e *model.Event, err error) {
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

	e = &model.Event{}
	err = scanEvent(tx.QueryRowContext(ctx, "SELECT "+eventCols+" FROM events WHERE id=?", id), e)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, err
	}
	if p.Title != nil {
		e.Title = strings.TrimSpace(*p.Title)
		if e.Title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrValidation)
		}
	}
	if p.Description != nil {
		e.Description = p.Description
	}
	if p.ScheduledAt != nil {
		if p.ScheduledAt.IsZero() {
			return nil, fmt.Errorf("%w: scheduled_at must not be zero", ErrValidation)
		}
		e.ScheduledAt = p.ScheduledAt.UTC()
	}
	if p.DoorTime != nil {
		e.DoorTime = p.DoorTime
	}
	if p.Location != nil {
		e.Location = p.Location
	}
	if p.HeroImage != nil {
		e.HeroImage = p.HeroImage
	}
	e.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE events SET title=?, description=?, scheduled_at=?, door_time=?, location=?, hero_image=?, updated_at=?
		 WHERE id=?`,
		e.Title, e.Description, e.ScheduledAt, e.DoorTime, e.Location, e.HeroImage, e.UpdatedAt, e.ID)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// SetPublished flips the publication flag.
func (r *EventRepo) SetPublished(ctx context.Context, id uint64, published bool) (*model.Event, error) {
	return r.setFlag(ctx, id, "is_published", published)
}

// SetArchived flips the archival flag.  Archiving does not unpublish: an
// archived event may remain publicly visible, read-only.
func (r *EventRepo) SetArchived(ctx context.Context, id uint64, archived bool) (*model.Event, error) {
	return r.setFlag(ctx, id, "is_archived", archived)
}

func (r *EventRepo) setFlag(ctx context.Context, id uint64, col string, v bool) (*model.Event, error) {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE events SET "+col+"=?, updated_at=? WHERE id=?", v, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// Either missing or already in the requested state; disambiguate.
		if _, err := r.GetByID(ctx, id); err != nil {
			return nil, err
		}
	}
	return r.GetByID(ctx, id)
}

// Delete removes an event and cascades to its lineup and invitations.
// Feature requests pointing at the event keep the suggestion and lose only
// the link.  The cleanup runs in one transaction so a failure leaves
// everything in place.
func (r *EventRepo) Delete(ctx context.Context, id uint64) (err error) {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	if _, err = tx.ExecContext(ctx, "DELETE FROM invitations WHERE event_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM event_films WHERE event_id=?", id); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, "UPDATE feature_requests SET event_id=NULL WHERE event_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM events WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrEventNotFound
	}
	return nil
}
