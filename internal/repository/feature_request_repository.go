// Feature request persistence.  Suggestions are weakly linked (event,
// film and submitter references all optional) and carry no uniqueness
// constraint: duplicates are a moderation concern, not a data-integrity
// one.  Moderation inside a transaction re-reads the current status so two
// concurrent moderators cannot both move the same request.
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

type FeatureRequestRepo struct{ DB *sql.DB }

func NewFeatureRequestRepo(db *sql.DB) *FeatureRequestRepo { return &FeatureRequestRepo{DB: db} }

const featureRequestCols = "id, event_id, film_id, submitted_by_id, submitted_email, submitter_name, film_title, letterboxd_url, notes, status, created_at, updated_at"

func scanFeatureRequest(row interface{ Scan(...any) error }, fr *model.FeatureRequest) error {
	var status string
	if err := row.Scan(&fr.ID, &fr.EventID, &fr.FilmID, &fr.SubmittedByID, &fr.SubmittedEmail,
		&fr.SubmitterName, &fr.FilmTitle, &fr.LetterboxdURL, &fr.Notes, &status, &fr.CreatedAt, &fr.UpdatedAt); err != nil {
		return err
	}
	fr.Status = model.FeatureRequestStatus(status)
	return nil
}

// Create stores a PENDING suggestion.  Dangling event/film/user references
// are rejected by the foreign keys and reported as not-found.
func (r *FeatureRequestRepo) Create(ctx context.Context, fr *model.FeatureRequest) error {
	fr.FilmTitle = strings.TrimSpace(fr.FilmTitle)
	fr.SubmittedEmail = strings.ToLower(strings.TrimSpace(fr.SubmittedEmail))
	if fr.FilmTitle == "" || fr.SubmittedEmail == "" {
		return fmt.Errorf("%w: film_title and submitted_email are required", ErrValidation)
	}
	now := time.Now().UTC()
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO feature_requests (event_id, film_id, submitted_by_id, submitted_email, submitter_name, film_title, letterboxd_url, notes, status, created_at, updated_at)
		 VALUES (?,?,?,?,?,?,?,?,?,?,?)`,
		fr.EventID, fr.FilmID, fr.SubmittedByID, fr.SubmittedEmail, fr.SubmitterName,
		fr.FilmTitle, fr.LetterboxdURL, fr.Notes, string(model.FeatureRequestPending), now, now)
	if err != nil {
		if isFKViolation(err) {
			return fmt.Errorf("%w: referenced event, film or user does not exist", ErrConstraint)
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	fr.ID = uint64(id)
	fr.Status = model.FeatureRequestPending
	fr.CreatedAt = now
	fr.UpdatedAt = now
	return nil
}

// GetByID returns a feature request or ErrFeatureRequestNotFound.
func (r *FeatureRequestRepo) GetByID(ctx context.Context, id uint64) (*model.FeatureRequest, error) {
	var fr model.FeatureRequest
	err := scanFeatureRequest(r.DB.QueryRowContext(ctx,
		"SELECT "+featureRequestCols+" FROM feature_requests WHERE id=?", id), &fr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeatureRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	return &fr, nil
}

// List returns suggestions, newest first, optionally filtered by status.
func (r *FeatureRequestRepo) List(ctx context.Context, status *model.FeatureRequestStatus) ([]model.FeatureRequest, error) {
	q := "SELECT " + featureRequestCols + " FROM feature_requests"
	var args []any
	if status != nil {
		q += " WHERE status=?"
		args = append(args, string(*status))
	}
	q += " ORDER BY created_at DESC, id DESC"
	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []model.FeatureRequest
	for rows.Next() {
		var fr model.FeatureRequest
		if err := scanFeatureRequest(rows, &fr); err != nil {
			return nil, err
		}
		out = append(out, fr)
	}
	return out, rows.Err()
}

// Moderate applies a one-way status transition: PENDING may move to
// APPROVED or REJECTED, either of those may move to ARCHIVED, and ARCHIVED
// is terminal.  Anything else fails with ErrInvalidTransition.
func (r *FeatureRequestRepo) Moderate(ctx context.Context, id uint64, next model.FeatureRequestStatus) (fr *model.FeatureRequest, err error) {
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

	fr = &model.FeatureRequest{}
	err = scanFeatureRequest(tx.QueryRowContext(ctx,
		"SELECT "+featureRequestCols+" FROM feature_requests WHERE id=?", id), fr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeatureRequestNotFound
	}
	if err != nil {
		return nil, err
	}
	if !fr.Status.CanModerateTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, fr.Status, next)
	}
	now := time.Now().UTC()
	if _, err = tx.ExecContext(ctx,
		"UPDATE feature_requests SET status=?, updated_at=? WHERE id=?", string(next), now, id); err != nil {
		return nil, err
	}
	fr.Status = next
	fr.UpdatedAt = now
	return fr, nil
}
