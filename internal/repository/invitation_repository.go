// Invitation/RSVP persistence.  Two unique indexes govern this table:
// (event_id, email), one invitation per address per event, and token,
// the secret in unauthenticated RSVP links.  Token collisions are
// vanishingly unlikely but the insert retries with a fresh token rather
// than assuming the probability is zero.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/filmnight/screening-rsvp/internal/model"
	"github.com/filmnight/screening-rsvp/internal/utils"
)

type InvitationRepo struct{ DB *sql.DB }

func NewInvitationRepo(db *sql.DB) *InvitationRepo { return &InvitationRepo{DB: db} }

// ErrInviteExists is returned when the (event, email) pair already has an
// invitation.  Callers should fetch and resend the existing token instead.
var ErrInviteExists = errors.New("email already invited to this event")

const invitationCols = "id, event_id, user_id, invitee_name, email, status, rsvp_at, note, token, plus_ones, created_at, updated_at"

func scanInvitation(row interface{ Scan(...any) error }, inv *model.Invitation) error {
	var status string
	if err := row.Scan(&inv.ID, &inv.EventID, &inv.UserID, &inv.InviteeName, &inv.Email, &status,
		&inv.RSVPAt, &inv.Note, &inv.Token, &inv.PlusOnes, &inv.CreatedAt, &inv.UpdatedAt); err != nil {
		return err
	}
	inv.Status = model.InvitationStatus(status)
	return nil
}

// Create issues a PENDING invitation with a fresh unique token.  userID is
// the pre-resolved account matching the email, if any.
func (r *InvitationRepo) Create(ctx context.Context, eventID uint64, email string, inviteeName *string, plusOnes int, userID *uint64) (*model.Invitation, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email is required", ErrValidation)
	}
	if plusOnes < 0 {
		return nil, fmt.Errorf("%w: plus_ones must be >= 0", ErrValidation)
	}

	now := time.Now().UTC()
	// Retry only on a token collision; a duplicate (event, email) is a real
	// conflict and surfaces immediately.
	for attempt := 0; attempt < 5; attempt++ {
		token, err := utils.NewInviteToken()
		if err != nil {
			return nil, err
		}
		res, err := r.DB.ExecContext(ctx,
			`INSERT INTO invitations (event_id, user_id, invitee_name, email, status, token, plus_ones, created_at, updated_at)
			 VALUES (?,?,?,?,?,?,?,?,?)`,
			eventID, userID, inviteeName, email, string(model.InvitationPending), token, plusOnes, now, now)
		if err != nil {
			if isDuplicateOn(err, "token") {
				continue
			}
			if isDuplicateKey(err) {
				return nil, fmt.Errorf("%w: %s", ErrConflict, ErrInviteExists)
			}
			if isFKViolation(err) {
				return nil, ErrEventNotFound
			}
			return nil, err
		}
		id, err := res.LastInsertId()
		if err != nil {
			return nil, err
		}
		return &model.Invitation{
			ID:          uint64(id),
			EventID:     eventID,
			UserID:      userID,
			InviteeName: inviteeName,
			Email:       email,
			Status:      model.InvitationPending,
			Token:       token,
			PlusOnes:    plusOnes,
			CreatedAt:   now,
			UpdatedAt:   now,
		}, nil
	}
	return nil, errors.New("could not generate a unique invitation token")
}

// GetByToken resolves an invitation from its RSVP-link token.
func (r *InvitationRepo) GetByToken(ctx context.Context, token string) (*model.Invitation, error) {
	var inv model.Invitation
	err := scanInvitation(r.DB.QueryRowContext(ctx,
		"SELECT "+invitationCols+" FROM invitations WHERE token=?", token), &inv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// GetByEventAndEmail fetches the existing invitation for an address, the
// companion to the ErrInviteExists conflict (fetch-and-resend).
func (r *InvitationRepo) GetByEventAndEmail(ctx context.Context, eventID uint64, email string) (*model.Invitation, error) {
	var inv model.Invitation
	err := scanInvitation(r.DB.QueryRowContext(ctx,
		"SELECT "+invitationCols+" FROM invitations WHERE event_id=? AND email=?",
		eventID, strings.ToLower(strings.TrimSpace(email))), &inv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListByEvent returns all invitations for an event, responses first.
func (r *InvitationRepo) ListByEvent(ctx context.Context, eventID uint64) ([]model.Invitation, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+invitationCols+" FROM invitations WHERE event_id=? ORDER BY rsvp_at IS NULL, updated_at DESC", eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var invs []model.Invitation
	for rows.Next() {
		var inv model.Invitation
		if err := scanInvitation(rows, &inv); err != nil {
			return nil, err
		}
		invs = append(invs, inv)
	}
	return invs, rows.Err()
}

// RSVPByToken records a guest's decision via the link token.  The target
// status must be one of ACCEPTED/DECLINED/MAYBE; PENDING is never
// re-entered.  Repeating the same decision is idempotent in effect but
// still refreshes rsvp_at and updated_at.  Only the latest decision is
// kept, there is no response history.
func (r *InvitationRepo) RSVPByToken(ctx context.Context, token string, status model.InvitationStatus, plusOnes *int, note *string) (*model.Invitation, error) {
	inv, err := r.GetByToken(ctx, token)
	if err != nil {
		return nil, err
	}
	return r.applyRSVP(ctx, inv, status, plusOnes, note, nil)
}

// RSVPByEventAndUser is the authenticated path: it bypasses the token and
// resolves the invitation by the caller's linked account or email, linking
// the account to the invitation on first use.  When a linked invitation
// and an email-matched one are different rows (the account's email changed
// since the invite) the linked one wins.
func (r *InvitationRepo) RSVPByEventAndUser(ctx context.Context, eventID, userID uint64, email string, status model.InvitationStatus, plusOnes *int, note *string) (*model.Invitation, error) {
	var inv model.Invitation
	err := scanInvitation(r.DB.QueryRowContext(ctx,
		`SELECT `+invitationCols+` FROM invitations
		 WHERE event_id=? AND (user_id=? OR email=?)
		 ORDER BY CASE WHEN user_id=? THEN 1 ELSE 0 END DESC, id ASC
		 LIMIT 1`,
		eventID, userID, strings.ToLower(strings.TrimSpace(email)), userID), &inv)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInvitationNotFound
	}
	if err != nil {
		return nil, err
	}
	return r.applyRSVP(ctx, &inv, status, plusOnes, note, &userID)
}

func (r *InvitationRepo) applyRSVP(ctx context.Context, inv *model.Invitation, status model.InvitationStatus, plusOnes *int, note *string, linkUserID *uint64) (*model.Invitation, error) {
	if !status.IsRSVPTarget() {
		return nil, fmt.Errorf("%w: cannot set status %q", ErrInvalidTransition, status)
	}
	if plusOnes != nil {
		if *plusOnes < 0 {
			return nil, fmt.Errorf("%w: plus_ones must be >= 0", ErrValidation)
		}
		inv.PlusOnes = *plusOnes
	}
	if note != nil {
		inv.Note = note
	}
	if linkUserID != nil && inv.UserID == nil {
		inv.UserID = linkUserID
	}
	now := time.Now().UTC()
	inv.Status = status
	inv.RSVPAt = &now
	inv.UpdatedAt = now
	_, err := r.DB.ExecContext(ctx,
		"UPDATE invitations SET user_id=?, status=?, rsvp_at=?, note=?, plus_ones=?, updated_at=? WHERE id=?",
		inv.UserID, string(inv.Status), inv.RSVPAt, inv.Note, inv.PlusOnes, inv.UpdatedAt, inv.ID)
	if err != nil {
		return nil, err
	}
	return inv, nil
}
