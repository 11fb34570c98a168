package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/filmnight/screening-rsvp/internal/model"
)

// The tests run against an in-memory SQLite database with the same tables,
// unique indexes and foreign keys as the MySQL schema in migrations/.  The
// repositories only use portable SQL (? placeholders, Go-side timestamps)
// so the same code paths are exercised.
const testSchema = `
CREATE TABLE users (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	name              TEXT,
	email             TEXT NOT NULL,
	email_verified_at DATETIME,
	password_hash     TEXT NOT NULL,
	role              TEXT NOT NULL DEFAULT 'GUEST',
	created_at        DATETIME NOT NULL,
	updated_at        DATETIME NOT NULL
);
CREATE UNIQUE INDEX uq_users_email ON users (email);

CREATE TABLE refresh_tokens (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	user_id    INTEGER NOT NULL REFERENCES users (id) ON DELETE CASCADE,
	token_hash TEXT NOT NULL,
	expires_at DATETIME NOT NULL,
	revoked_at DATETIME,
	created_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX uq_refresh_tokens_hash ON refresh_tokens (token_hash);

CREATE TABLE films (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	title         TEXT NOT NULL,
	reference_url TEXT NOT NULL,
	synopsis      TEXT,
	runtime_min   INTEGER,
	release_year  INTEGER,
	poster_url    TEXT,
	director      TEXT,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);
CREATE UNIQUE INDEX uq_films_reference_url ON films (reference_url);

CREATE TABLE events (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	slug          TEXT NOT NULL,
	title         TEXT NOT NULL,
	description   TEXT,
	scheduled_at  DATETIME NOT NULL,
	door_time     DATETIME,
	location      TEXT,
	hero_image    TEXT,
	is_published  BOOLEAN NOT NULL DEFAULT 0,
	is_archived   BOOLEAN NOT NULL DEFAULT 0,
	created_by_id INTEGER NOT NULL REFERENCES users (id) ON DELETE RESTRICT,
	created_at    DATETIME NOT NULL,
	updated_at    DATETIME NOT NULL
);
CREATE UNIQUE INDEX uq_events_slug ON events (slug);

CREATE TABLE event_films (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id   INTEGER NOT NULL REFERENCES events (id) ON DELETE CASCADE,
	film_id    INTEGER NOT NULL REFERENCES films (id) ON DELETE RESTRICT,
	slot_order INTEGER NOT NULL DEFAULT 0,
	note       TEXT,
	created_at DATETIME NOT NULL
);
CREATE UNIQUE INDEX uq_event_films_pair ON event_films (event_id, film_id);

CREATE TABLE invitations (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id     INTEGER NOT NULL REFERENCES events (id) ON DELETE CASCADE,
	user_id      INTEGER REFERENCES users (id) ON DELETE SET NULL,
	invitee_name TEXT,
	email        TEXT NOT NULL,
	status       TEXT NOT NULL DEFAULT 'PENDING',
	rsvp_at      DATETIME,
	note         TEXT,
	token        TEXT NOT NULL,
	plus_ones    INTEGER NOT NULL DEFAULT 0,
	created_at   DATETIME NOT NULL,
	updated_at   DATETIME NOT NULL
);
CREATE UNIQUE INDEX uq_invitations_event_email ON invitations (event_id, email);
CREATE UNIQUE INDEX uq_invitations_token ON invitations (token);

CREATE TABLE feature_requests (
	id              INTEGER PRIMARY KEY AUTOINCREMENT,
	event_id        INTEGER REFERENCES events (id) ON DELETE SET NULL,
	film_id         INTEGER REFERENCES films (id) ON DELETE SET NULL,
	submitted_by_id INTEGER REFERENCES users (id) ON DELETE SET NULL,
	submitted_email TEXT NOT NULL,
	submitter_name  TEXT,
	film_title      TEXT NOT NULL,
	letterboxd_url  TEXT,
	notes           TEXT,
	status          TEXT NOT NULL DEFAULT 'PENDING',
	created_at      DATETIME NOT NULL,
	updated_at      DATETIME NOT NULL
);
CREATE INDEX idx_feature_requests_status ON feature_requests (status);
`

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite3", "file::memory:?_fk=1")
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	// In-memory SQLite gives every connection its own database; pin the
	// pool to one connection so all queries see the same state.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(testSchema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("close test database: %v", err)
		}
	})
	return db
}

func createTestUser(t *testing.T, db *sql.DB, email string) uint64 {
	t.Helper()
	id, err := NewUserRepo(db).Create(context.Background(), nil, email, "secret-pw", model.RoleGuest, 4)
	if err != nil {
		t.Fatalf("create test user %s: %v", email, err)
	}
	return id
}

func createTestEvent(t *testing.T, db *sql.DB, creatorID uint64, slug string) *model.Event {
	t.Helper()
	e := &model.Event{
		Slug:        slug,
		Title:       "Screening " + slug,
		ScheduledAt: time.Now().Add(72 * time.Hour).UTC(),
		CreatedByID: creatorID,
	}
	if err := NewEventRepo(db).Create(context.Background(), e); err != nil {
		t.Fatalf("create test event %s: %v", slug, err)
	}
	return e
}

func createTestFilm(t *testing.T, db *sql.DB, title, referenceURL string) *model.Film {
	t.Helper()
	f := &model.Film{Title: title, ReferenceURL: referenceURL}
	if err := NewFilmRepo(db).Create(context.Background(), f); err != nil {
		t.Fatalf("create test film %s: %v", title, err)
	}
	return f
}
