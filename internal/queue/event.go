// Package queue defines the message payloads exchanged over the broker.
// Each payload carries enough context for a downstream mailer or analytics
// consumer to act without querying the primary database.
package queue

// InvitationCreatedEvent is published when an admin issues an invitation.
// The token lets the notification consumer build the RSVP link.
type InvitationCreatedEvent struct {
	InvitationID uint64 `json:"invitation_id"`
	EventID      uint64 `json:"event_id"`
	EventSlug    string `json:"event_slug"`
	EventTitle   string `json:"event_title"`
	ScheduledAt  string `json:"scheduled_at"`
	Email        string `json:"email"`
	InviteeName  string `json:"invitee_name,omitempty"`
	Token        string `json:"token"`
	CreatedAt    string `json:"created_at"`
}

// RSVPRecordedEvent is published whenever a guest records or changes a
// decision, including repeat RSVPs with the same status.
type RSVPRecordedEvent struct {
	InvitationID uint64 `json:"invitation_id"`
	EventID      uint64 `json:"event_id"`
	EventSlug    string `json:"event_slug"`
	Email        string `json:"email"`
	Status       string `json:"status"`
	PlusOnes     int    `json:"plus_ones"`
	RSVPAt       string `json:"rsvp_at"`
}
