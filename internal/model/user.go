package model

import "time"

// Role is the closed set of user roles.  The string values are part of the
// wire contract and must not change.
type Role string

const (
	RoleAdmin Role = "ADMIN" // organizing team, may manage events and moderate requests
	RoleGuest Role = "GUEST" // ordinary invitee
)

// ParseRole normalizes a raw role string.  Unknown values fall back to
// GUEST so that a malformed registration never grants elevated rights.
func ParseRole(s string) Role {
	if Role(s) == RoleAdmin {
		return RoleAdmin
	}
	return RoleGuest
}

// User is the identity anchor for the service.  Credentials and sessions
// live in the users/refresh_tokens tables; everything else references a
// user only through its ID.
//
// Fields:
//  ID              – primary key identifier.
//  Name            – optional display name.
//  Email           – unique login email.
//  EmailVerifiedAt – when the address was confirmed, if ever.
//  Role            – ADMIN or GUEST.
type User struct {
	ID              uint64     `json:"id"`                 // users.id
	Name            *string    `json:"name,omitempty"`     // users.name (nullable)
	Email           string     `json:"email"`              // users.email
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"` // users.email_verified_at (nullable)
	Role            Role       `json:"role"`               // users.role
	CreatedAt       time.Time  `json:"created_at"`         // users.created_at
	UpdatedAt       time.Time  `json:"updated_at"`         // users.updated_at
}
