package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/filmnight/screening-rsvp/internal/model"
)

func TestEventCreateAndGet(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewEventRepo(db)
	admin := createTestUser(t, db, "admin@example.com")

	t.Run("create assigns id and timestamps", func(t *testing.T) {
		e := &model.Event{
			Slug:        "Halloween-Night",
			Title:       "Halloween Night",
			ScheduledAt: time.Date(2026, 10, 31, 20, 0, 0, 0, time.UTC),
			CreatedByID: admin,
		}
		if err := repo.Create(ctx, e); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		if e.ID == 0 {
			t.Error("Create() did not assign an ID")
		}
		if e.Slug != "halloween-night" {
			t.Errorf("slug got = %q, want lowercased %q", e.Slug, "halloween-night")
		}
		if e.CreatedAt.IsZero() || e.UpdatedAt.IsZero() {
			t.Error("Create() did not assign timestamps")
		}
	})

	t.Run("get by slug is case insensitive", func(t *testing.T) {
		e, err := repo.GetBySlug(ctx, "  HALLOWEEN-NIGHT ")
		if err != nil {
			t.Fatalf("GetBySlug() error = %v", err)
		}
		if e.Title != "Halloween Night" {
			t.Errorf("title got = %q, want %q", e.Title, "Halloween Night")
		}
	})

	t.Run("duplicate slug is a conflict", func(t *testing.T) {
		dup := &model.Event{
			Slug:        "halloween-night",
			Title:       "Another",
			ScheduledAt: time.Now().Add(time.Hour),
			CreatedByID: admin,
		}
		if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
			t.Errorf("Create() with taken slug error = %v, want ErrConflict", err)
		}
	})

	t.Run("missing required fields", func(t *testing.T) {
		if err := repo.Create(ctx, &model.Event{Slug: "x", CreatedByID: admin}); !errors.Is(err, ErrValidation) {
			t.Errorf("Create() without title error = %v, want ErrValidation", err)
		}
		if err := repo.Create(ctx, &model.Event{Slug: "y", Title: "No date", CreatedByID: admin}); !errors.Is(err, ErrValidation) {
			t.Errorf("Create() without scheduled_at error = %v, want ErrValidation", err)
		}
	})

	t.Run("unknown creator is a constraint violation", func(t *testing.T) {
		e := &model.Event{
			Slug:        "orphan",
			Title:       "Orphan",
			ScheduledAt: time.Now().Add(time.Hour),
			CreatedByID: 9999,
		}
		if err := repo.Create(ctx, e); !errors.Is(err, ErrConstraint) {
			t.Errorf("Create() with unknown creator error = %v, want ErrConstraint", err)
		}
	})

	t.Run("get missing event", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, ErrEventNotFound) {
			t.Errorf("GetByID() error = %v, want ErrEventNotFound", err)
		}
	})
}

func TestEventUpdateKeepsSlug(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewEventRepo(db)
	admin := createTestUser(t, db, "admin@example.com")
	e := createTestEvent(t, db, admin, "movie-monday")

	title := "Movie Monday, Rescheduled"
	loc := "Back garden"
	when := time.Date(2026, 11, 2, 19, 30, 0, 0, time.UTC)
	got, err := repo.Update(ctx, e.ID, EventPatch{Title: &title, Location: &loc, ScheduledAt: &when})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.Title != title {
		t.Errorf("title got = %q, want %q", got.Title, title)
	}
	if got.Location == nil || *got.Location != loc {
		t.Errorf("location got = %v, want %q", got.Location, loc)
	}
	if got.Slug != "movie-monday" {
		t.Errorf("slug changed to %q; it must be immutable", got.Slug)
	}

	empty := "  "
	if _, err := repo.Update(ctx, e.ID, EventPatch{Title: &empty}); !errors.Is(err, ErrValidation) {
		t.Errorf("Update() with blank title error = %v, want ErrValidation", err)
	}

	// A rejected patch leaves the row untouched.
	kept, err := repo.GetByID(ctx, e.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if kept.Title != title {
		t.Errorf("title after failed patch got = %q, want %q", kept.Title, title)
	}

	if _, err := repo.Update(ctx, 9999, EventPatch{Title: &title}); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Update() missing event error = %v, want ErrEventNotFound", err)
	}
}

func TestEventPublishArchiveFlags(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewEventRepo(db)
	admin := createTestUser(t, db, "admin@example.com")
	e := createTestEvent(t, db, admin, "spring-fete")

	got, err := repo.SetPublished(ctx, e.ID, true)
	if err != nil {
		t.Fatalf("SetPublished() error = %v", err)
	}
	if !got.IsPublished {
		t.Error("event not published after SetPublished(true)")
	}

	// Archiving does not unpublish.
	got, err = repo.SetArchived(ctx, e.ID, true)
	if err != nil {
		t.Fatalf("SetArchived() error = %v", err)
	}
	if !got.IsArchived || !got.IsPublished {
		t.Errorf("flags got published=%v archived=%v, want both true", got.IsPublished, got.IsArchived)
	}

	// Setting the same state again is not an error.
	if _, err := repo.SetArchived(ctx, e.ID, true); err != nil {
		t.Errorf("SetArchived() repeated error = %v", err)
	}

	if _, err := repo.SetPublished(ctx, 9999, true); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("SetPublished() on missing event error = %v, want ErrEventNotFound", err)
	}
}

func TestEventListPublishedOnly(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewEventRepo(db)
	admin := createTestUser(t, db, "admin@example.com")

	draft := createTestEvent(t, db, admin, "draft-night")
	pub := createTestEvent(t, db, admin, "public-night")
	archived := createTestEvent(t, db, admin, "old-night")
	for _, id := range []uint64{pub.ID, archived.ID} {
		if _, err := repo.SetPublished(ctx, id, true); err != nil {
			t.Fatalf("SetPublished() error = %v", err)
		}
	}
	if _, err := repo.SetArchived(ctx, archived.ID, true); err != nil {
		t.Fatalf("SetArchived() error = %v", err)
	}

	public, err := repo.List(ctx, true)
	if err != nil {
		t.Fatalf("List(publishedOnly) error = %v", err)
	}
	if len(public) != 1 || public[0].ID != pub.ID {
		t.Errorf("List(publishedOnly) = %d events, want only %q", len(public), pub.Slug)
	}

	all, err := repo.List(ctx, false)
	if err != nil {
		t.Fatalf("List(all) error = %v", err)
	}
	if len(all) != 3 {
		t.Errorf("List(all) = %d events, want 3", len(all))
	}
	_ = draft
}

func TestEventDeleteCascades(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewEventRepo(db)
	admin := createTestUser(t, db, "admin@example.com")
	e := createTestEvent(t, db, admin, "farewell-show")
	film := createTestFilm(t, db, "The Third Man", "https://letterboxd.com/film/the-third-man/")

	if _, err := NewEventFilmRepo(db).Add(ctx, e.ID, film.ID, nil, nil); err != nil {
		t.Fatalf("Add() lineup error = %v", err)
	}
	if _, err := NewInvitationRepo(db).Create(ctx, e.ID, "guest@example.com", nil, 0, nil); err != nil {
		t.Fatalf("Create() invitation error = %v", err)
	}
	fr := &model.FeatureRequest{EventID: &e.ID, SubmittedEmail: "guest@example.com", FilmTitle: "M"}
	if err := NewFeatureRequestRepo(db).Create(ctx, fr); err != nil {
		t.Fatalf("Create() feature request error = %v", err)
	}

	if err := repo.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var n int
	if err := db.QueryRow("SELECT COUNT(*) FROM invitations WHERE event_id=?", e.ID).Scan(&n); err != nil || n != 0 {
		t.Errorf("invitations left after delete: n=%d err=%v", n, err)
	}
	if err := db.QueryRow("SELECT COUNT(*) FROM event_films WHERE event_id=?", e.ID).Scan(&n); err != nil || n != 0 {
		t.Errorf("lineup entries left after delete: n=%d err=%v", n, err)
	}
	// The suggestion survives with its event link cleared.
	kept, err := NewFeatureRequestRepo(db).GetByID(ctx, fr.ID)
	if err != nil {
		t.Fatalf("GetByID() feature request error = %v", err)
	}
	if kept.EventID != nil {
		t.Errorf("feature request event link got = %v, want nil", *kept.EventID)
	}

	if err := repo.Delete(ctx, e.ID); !errors.Is(err, ErrEventNotFound) {
		t.Errorf("Delete() twice error = %v, want ErrEventNotFound", err)
	}
}
