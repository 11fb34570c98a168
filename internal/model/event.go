package model

import "time"

// Event is a scheduled screening occasion.  The slug is the public-facing
// identifier used in URLs and invitation mails; it is unique and immutable
// once created.  IsPublished and IsArchived are independent flags: an
// archived event may still be published for read-only display, but archived
// events accept no new scheduling or invitation mutations.
//
// Fields:
//  ID          – primary key identifier.
//  Slug        – unique public identifier.
//  Title       – display title of the screening.
//  Description – optional long-form description.
//  ScheduledAt – when the screening starts (required).
//  DoorTime    – optional doors-open time.
//  Location    – optional venue text.
//  HeroImage   – optional header image URL.
//  CreatedByID – user who created the event (immutable).
type Event struct {
	ID          uint64     `json:"id"`                    // events.id
	Slug        string     `json:"slug"`                  // events.slug (unique)
	Title       string     `json:"title"`                 // events.title
	Description *string    `json:"description,omitempty"` // events.description (nullable)
	ScheduledAt time.Time  `json:"scheduled_at"`          // events.scheduled_at
	DoorTime    *time.Time `json:"door_time,omitempty"`   // events.door_time (nullable)
	Location    *string    `json:"location,omitempty"`    // events.location (nullable)
	HeroImage   *string    `json:"hero_image,omitempty"`  // events.hero_image (nullable)
	IsPublished bool       `json:"is_published"`          // events.is_published
	IsArchived  bool       `json:"is_archived"`           // events.is_archived
	CreatedByID uint64     `json:"created_by_id"`         // events.created_by_id -> users.id
	CreatedAt   time.Time  `json:"created_at"`            // events.created_at
	UpdatedAt   time.Time  `json:"updated_at"`            // events.updated_at
}
