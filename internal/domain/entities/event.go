package entities

import "time"

// Event is a dinner owned by its host. EndTime is zero when not set.
type Event struct {
	ID            string    `json:"id"`
	HostUserID    string    `json:"host_user_id"`
	Title         string    `json:"title"`
	Description   string    `json:"description,omitempty"`
	StartTime     time.Time `json:"start_time"`
	BellTime      time.Time `json:"bell_time"`
	EndTime       time.Time `json:"end_time,omitzero"`
	Timezone      string    `json:"timezone"`
	AddressLine1  string    `json:"address_line1,omitempty"`
	AddressLine2  string    `json:"address_line2,omitempty"`
	City          string    `json:"city,omitempty"`
	State         string    `json:"state,omitempty"`
	PostalCode    string    `json:"postal_code,omitempty"`
	InviteToken   string    `json:"invite_token,omitempty"`
	IsCancelled   bool      `json:"is_cancelled"`
	IsPublic      bool      `json:"is_public"`
	Capacity      int       `json:"capacity,omitempty"`
	CoverImageURL string    `json:"cover_image_url,omitempty"`
	CoverPublicID string    `json:"-"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// IsPast reports whether the event is over at now: its end time, or its bell
// time when no end time is set, lies before now.
func (e *Event) IsPast(now time.Time) bool {
	ref := e.EndTime
	if ref.IsZero() {
		ref = e.BellTime
	}
	return ref.Before(now)
}

// CoHost is a secondary user with read access to the full event.
type CoHost struct {
	EventID   string    `json:"event_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// ScheduleBlock is a free-form agenda entry; StartsAt is zero when untimed.
type ScheduleBlock struct {
	ID        string    `json:"id"`
	EventID   string    `json:"event_id"`
	Title     string    `json:"title"`
	StartsAt  time.Time `json:"starts_at,omitzero"`
	Notes     string    `json:"notes,omitempty"`
	SortOrder int       `json:"sort_order"`
}
