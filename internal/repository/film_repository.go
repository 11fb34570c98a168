// Film catalog persistence.  Films are leaf records shared by event
// lineups and feature requests; the reference URL is the natural external
// key and carries the unique index that backs conflict detection.
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

type FilmRepo struct{ DB *sql.DB }

func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{DB: db} }

const filmCols = "id, title, reference_url, synopsis, runtime_min, release_year, poster_url, director, created_at, updated_at"

func scanFilm(row interface{ Scan(...any) error }, f *model.Film) error {
	return row.Scan(&f.ID, &f.Title, &f.ReferenceURL, &f.Synopsis, &f.RuntimeMin,
		&f.ReleaseYear, &f.PosterURL, &f.Director, &f.CreatedAt, &f.UpdatedAt)
}

// Create inserts a catalog entry and assigns the generated ID and
// timestamps back onto f.  A duplicate reference URL yields ErrConflict;
// the unique index is the only uniqueness check so concurrent inserts
// cannot race past it.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
	f.Title = strings.TrimSpace(f.Title)
	f.ReferenceURL = strings.TrimSpace(f.ReferenceURL)
	if f.Title == "" || f.ReferenceURL == "" {
		return fmt.Errorf("%w: title and reference_url are required", ErrValidation)
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO films (title, reference_url, synopsis, runtime_min, release_year, poster_url, director, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		f.Title, f.ReferenceURL, f.Synopsis, f.RuntimeMin, f.ReleaseYear, f.PosterURL, f.Director, now, now)
	if err != nil {
		if isDuplicateKey(err) {
			return fmt.Errorf("%w: reference_url already in catalog", ErrConflict)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	f.CreatedAt = now
	f.UpdatedAt = now
	return nil
}

// GetByID returns a film or ErrFilmNotFound.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (*model.Film, error) {
	var f model.Film
	err := scanFilm(r.DB.QueryRowContext(ctx,
		"SELECT "+filmCols+" FROM films WHERE id=?", id), &f)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFilmNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// GetByReferenceURL returns a film by its external key or ErrFilmNotFound.
func (r *FilmRepo) GetByReferenceURL(ctx context.Context, url string) (*model.Film, error) {
	var f model.Film
	err := scanFilm(r.DB.QueryRowContext(ctx,
		"SELECT "+filmCols+" FROM films WHERE reference_url=?", strings.TrimSpace(url)), &f)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFilmNotFound
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// List returns the whole catalog ordered by title.
func (r *FilmRepo) List(ctx context.Context) ([]model.Film, error) {
	rows, err := r.DB.QueryContext(ctx, "SELECT "+filmCols+" FROM films ORDER BY title ASC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var films []model.Film
	for rows.Next() {
		var f model.Film
		if err := scanFilm(rows, &f); err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}

// Update patches mutable film fields.  Nil pointers leave the column
// untouched; the reference URL can change but stays unique.  Read and
// write share one transaction so concurrent patches cannot drop each
// other's fields.
func (r *FilmRepo) Update(ctx context.Context, id uint64, title, referenceURL, synopsis, posterURL, director *string, runtimeMin, releaseYear *int) (f *model.Film, err error) {
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

	f = &model.Film{}
	err = scanFilm(tx.QueryRowContext(ctx, "SELECT "+filmCols+" FROM films WHERE id=?", id), f)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFilmNotFound
	}
	if err != nil {
		return nil, err
	}
	if title != nil {
		f.Title = strings.TrimSpace(*title)
	}
	if referenceURL != nil {
		f.ReferenceURL = strings.TrimSpace(*referenceURL)
	}
	if f.Title == "" || f.ReferenceURL == "" {
		return nil, fmt.Errorf("%w: title and reference_url must not be empty", ErrValidation)
	}
	if synopsis != nil {
		f.Synopsis = synopsis
	}
	if posterURL != nil {
		f.PosterURL = posterURL
	}
	if director != nil {
		f.Director = director
	}
	if runtimeMin != nil {
		f.RuntimeMin = runtimeMin
	}
	if releaseYear != nil {
		f.ReleaseYear = releaseYear
	}
	f.UpdatedAt = time.Now().UTC()
	_, err = tx.ExecContext(ctx,
		`UPDATE films SET title=?, reference_url=?, synopsis=?, runtime_min=?, release_year=?, poster_url=?, director=?, updated_at=?
		 WHERE id=?`,
		f.Title, f.ReferenceURL, f.Synopsis, f.RuntimeMin, f.ReleaseYear, f.PosterURL, f.Director, f.UpdatedAt, f.ID)
	if err != nil {
		if isDuplicateKey(err) {
			err = fmt.Errorf("%w: reference_url already in catalog", ErrConflict)
		}
		return nil, err
	}
	return f, nil
}

// Delete removes a film.  Films scheduled in any event lineup cannot be
// deleted (ErrConstraint); feature requests pointing at the film keep the
// suggestion and lose only the link.
func (r *FilmRepo) Delete(ctx context.Context, id uint64) (err error) {
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

	var scheduled int
	if err = tx.QueryRowContext(ctx, "SELECT COUNT(*) FROM event_films WHERE film_id=?", id).Scan(&scheduled); err != nil {
		return err
	}
	if scheduled > 0 {
		return fmt.Errorf("%w: film is scheduled in %d event(s)", ErrConstraint, scheduled)
	}
	if _, err = tx.ExecContext(ctx, "UPDATE feature_requests SET film_id=NULL WHERE film_id=?", id); err != nil {
		return err
	}
	res, err := tx.ExecContext(ctx, "DELETE FROM films WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrFilmNotFound
	}
	return nil
}
