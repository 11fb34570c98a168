package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/filmnight/screening-rsvp/internal/model"
)

func TestFilmCreateAndLookup(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewFilmRepo(db)

	t.Run("create and get", func(t *testing.T) {
		director := "Wong Kar-wai"
		runtime := 98
		f := &model.Film{
			Title:        "In the Mood for Love",
			ReferenceURL: "https://letterboxd.com/film/in-the-mood-for-love/",
			Director:     &director,
			RuntimeMin:   &runtime,
		}
		if err := repo.Create(ctx, f); err != nil {
			t.Fatalf("Create() error = %v", err)
		}
		got, err := repo.GetByReferenceURL(ctx, f.ReferenceURL)
		if err != nil {
			t.Fatalf("GetByReferenceURL() error = %v", err)
		}
		if got.Title != f.Title {
			t.Errorf("title got = %q, want %q", got.Title, f.Title)
		}
		if got.Director == nil || *got.Director != director {
			t.Errorf("director got = %v, want %q", got.Director, director)
		}
	})

	t.Run("duplicate reference url is a conflict", func(t *testing.T) {
		dup := &model.Film{Title: "Duplicate", ReferenceURL: "https://letterboxd.com/film/in-the-mood-for-love/"}
		if err := repo.Create(ctx, dup); !errors.Is(err, ErrConflict) {
			t.Errorf("Create() duplicate error = %v, want ErrConflict", err)
		}
	})

	t.Run("required fields", func(t *testing.T) {
		if err := repo.Create(ctx, &model.Film{Title: "No URL"}); !errors.Is(err, ErrValidation) {
			t.Errorf("Create() without reference_url error = %v, want ErrValidation", err)
		}
	})

	t.Run("missing film", func(t *testing.T) {
		if _, err := repo.GetByID(ctx, 9999); !errors.Is(err, ErrFilmNotFound) {
			t.Errorf("GetByID() error = %v, want ErrFilmNotFound", err)
		}
	})
}

func TestFilmUpdate(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewFilmRepo(db)
	f := createTestFilm(t, db, "Stalker", "https://letterboxd.com/film/stalker/")
	other := createTestFilm(t, db, "Solaris", "https://letterboxd.com/film/solaris/")

	year := 1979
	synopsis := "A guide leads two men into the Zone."
	got, err := repo.Update(ctx, f.ID, nil, nil, &synopsis, nil, nil, nil, &year)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.ReleaseYear == nil || *got.ReleaseYear != year {
		t.Errorf("release year got = %v, want %d", got.ReleaseYear, year)
	}
	if got.Synopsis == nil || *got.Synopsis != synopsis {
		t.Errorf("synopsis got = %v, want %q", got.Synopsis, synopsis)
	}
	if got.Title != "Stalker" {
		t.Errorf("title got = %q, want unchanged", got.Title)
	}

	// Moving onto another film's URL is a conflict, and the failed patch
	// leaves the row untouched.
	taken := other.ReferenceURL
	if _, err := repo.Update(ctx, f.ID, nil, &taken, nil, nil, nil, nil, nil); !errors.Is(err, ErrConflict) {
		t.Errorf("Update() with taken reference_url error = %v, want ErrConflict", err)
	}
	kept, err := repo.GetByID(ctx, f.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if kept.ReferenceURL != "https://letterboxd.com/film/stalker/" {
		t.Errorf("reference_url after failed patch got = %q", kept.ReferenceURL)
	}

	if _, err := repo.Update(ctx, 9999, nil, nil, &synopsis, nil, nil, nil, nil); !errors.Is(err, ErrFilmNotFound) {
		t.Errorf("Update() missing film error = %v, want ErrFilmNotFound", err)
	}
}

func TestFilmDeleteRules(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()
	repo := NewFilmRepo(db)
	admin := createTestUser(t, db, "admin@example.com")
	e := createTestEvent(t, db, admin, "noir-night")
	scheduled := createTestFilm(t, db, "Touch of Evil", "https://letterboxd.com/film/touch-of-evil/")
	loose := createTestFilm(t, db, "Detour", "https://letterboxd.com/film/detour/")

	if _, err := NewEventFilmRepo(db).Add(ctx, e.ID, scheduled.ID, nil, nil); err != nil {
		t.Fatalf("Add() lineup error = %v", err)
	}

	t.Run("scheduled film cannot be deleted", func(t *testing.T) {
		if err := repo.Delete(ctx, scheduled.ID); !errors.Is(err, ErrConstraint) {
			t.Errorf("Delete() scheduled film error = %v, want ErrConstraint", err)
		}
	})

	t.Run("delete clears feature request links", func(t *testing.T) {
		fr := &model.FeatureRequest{FilmID: &loose.ID, SubmittedEmail: "guest@example.com", FilmTitle: "Detour"}
		if err := NewFeatureRequestRepo(db).Create(ctx, fr); err != nil {
			t.Fatalf("Create() feature request error = %v", err)
		}
		if err := repo.Delete(ctx, loose.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		kept, err := NewFeatureRequestRepo(db).GetByID(ctx, fr.ID)
		if err != nil {
			t.Fatalf("GetByID() error = %v", err)
		}
		if kept.FilmID != nil {
			t.Errorf("feature request film link got = %v, want nil", *kept.FilmID)
		}
	})

	t.Run("delete missing film", func(t *testing.T) {
		if err := repo.Delete(ctx, 9999); !errors.Is(err, ErrFilmNotFound) {
			t.Errorf("Delete() missing film error = %v, want ErrFilmNotFound", err)
		}
	})
}
