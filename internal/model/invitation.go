package model

import "time"

// InvitationStatus is the closed set of RSVP states.  The string values are
// part of the wire contract and are stored as-is.
type InvitationStatus string

const (
	InvitationPending  InvitationStatus = "PENDING"
	InvitationAccepted InvitationStatus = "ACCEPTED"
	InvitationDeclined InvitationStatus = "DECLINED"
	InvitationMaybe    InvitationStatus = "MAYBE"
)

// ParseInvitationStatus validates a raw status string.  The second return
// is false for anything outside the closed set.
func ParseInvitationStatus(s string) (InvitationStatus, bool) {
	switch InvitationStatus(s) {
	case InvitationPending, InvitationAccepted, InvitationDeclined, InvitationMaybe:
		return InvitationStatus(s), true
	}
	return "", false
}

// IsRSVPTarget reports whether a status may be set by an RSVP action.
// PENDING is only ever an initial state: guests move freely between
// ACCEPTED, DECLINED and MAYBE but can never return to PENDING.
func (s InvitationStatus) IsRSVPTarget() bool {
	switch s {
	case InvitationAccepted, InvitationDeclined, InvitationMaybe:
		return true
	}
	return false
}

// Invitation is one guest's RSVP record for one event.  The invitee is
// addressed by email whether or not a matching User row exists; UserID is
// filled in once an authenticated user is matched.  Token is the opaque
// secret embedded in unauthenticated RSVP links; it is unique and immutable
// after creation.  At most one invitation exists per (event, email).
//
// Fields:
//  RSVPAt   – set on the first transition away from PENDING and refreshed
//             on every later RSVP; only the latest decision is retained.
//  PlusOnes – extra guests the invitee is bringing, never negative.
type Invitation struct {
	ID          uint64           `json:"id"`                     // invitations.id
	EventID     uint64           `json:"event_id"`               // invitations.event_id -> events.id
	UserID      *uint64          `json:"user_id,omitempty"`      // invitations.user_id (nullable) -> users.id
	InviteeName *string          `json:"invitee_name,omitempty"` // invitations.invitee_name (nullable)
	Email       string           `json:"email"`                  // invitations.email
	Status      InvitationStatus `json:"status"`                 // invitations.status
	RSVPAt      *time.Time       `json:"rsvp_at,omitempty"`      // invitations.rsvp_at (nullable)
	Note        *string          `json:"note,omitempty"`         // invitations.note (nullable)
	Token       string           `json:"token"`                  // invitations.token (unique)
	PlusOnes    int              `json:"plus_ones"`              // invitations.plus_ones
	CreatedAt   time.Time        `json:"created_at"`             // invitations.created_at
	UpdatedAt   time.Time        `json:"updated_at"`             // invitations.updated_at
}
