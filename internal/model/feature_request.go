package model

import "time"

// FeatureRequestStatus is the closed set of moderation states for a film
// suggestion.  Values are stored and served as-is.
type FeatureRequestStatus string

const (
	FeatureRequestPending  FeatureRequestStatus = "PENDING"
	FeatureRequestApproved FeatureRequestStatus = "APPROVED"
	FeatureRequestRejected FeatureRequestStatus = "REJECTED"
	FeatureRequestArchived FeatureRequestStatus = "ARCHIVED"
)

// ParseFeatureRequestStatus validates a raw status string.
func ParseFeatureRequestStatus(s string) (FeatureRequestStatus, bool) {
	switch FeatureRequestStatus(s) {
	case FeatureRequestPending, FeatureRequestApproved, FeatureRequestRejected, FeatureRequestArchived:
		return FeatureRequestStatus(s), true
	}
	return "", false
}

// CanModerateTo encodes the one-way moderation table:
// PENDING -> APPROVED|REJECTED, APPROVED|REJECTED -> ARCHIVED.
// ARCHIVED is terminal.  Everything else is an invalid transition.
func (s FeatureRequestStatus) CanModerateTo(next FeatureRequestStatus) bool {
	switch s {
	case FeatureRequestPending:
		return next == FeatureRequestApproved || next == FeatureRequestRejected
	case FeatureRequestApproved, FeatureRequestRejected:
		return next == FeatureRequestArchived
	}
	return false
}

// FeatureRequest is a moderated film suggestion.  Its links to an event, a
// catalog film and a submitting user are all optional: suggestions arrive
// from anonymous guests and may name films not yet in the catalog.  The
// submitter email is always captured so moderators can follow up.
// Duplicate suggestions are expected and left to moderation; there is no
// uniqueness constraint across submissions.
type FeatureRequest struct {
	ID            uint64               `json:"id"`                       // feature_requests.id
	EventID       *uint64              `json:"event_id,omitempty"`       // feature_requests.event_id (nullable)
	FilmID        *uint64              `json:"film_id,omitempty"`        // feature_requests.film_id (nullable)
	SubmittedByID *uint64              `json:"submitted_by_id,omitempty"` // feature_requests.submitted_by_id (nullable)
	SubmittedEmail string              `json:"submitted_email"`          // feature_requests.submitted_email
	SubmitterName *string              `json:"submitter_name,omitempty"` // feature_requests.submitter_name (nullable)
	FilmTitle     string               `json:"film_title"`               // feature_requests.film_title
	LetterboxdURL *string              `json:"letterboxd_url,omitempty"` // feature_requests.letterboxd_url (nullable)
	Notes         *string              `json:"notes,omitempty"`          // feature_requests.notes (nullable)
	Status        FeatureRequestStatus `json:"status"`                   // feature_requests.status
	CreatedAt     time.Time            `json:"created_at"`               // feature_requests.created_at
	UpdatedAt     time.Time            `json:"updated_at"`               // feature_requests.updated_at
}
