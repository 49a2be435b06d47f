package entities

import (
	"time"

	"dinnerbell/internal/domain"
)

// EventGuest joins an anonymous invite flow and, once linked, a user account.
type EventGuest struct {
	ID             string            `json:"id"`
	EventID        string            `json:"event_id"`
	UserID         string            `json:"user_id,omitempty"`
	GuestName      string            `json:"guest_name"`
	GuestContact   string            `json:"guest_contact,omitempty"`
	RSVPStatus     domain.RSVPStatus `json:"rsvp_status"`
	WantsReminders bool              `json:"wants_reminders"`
	ArrivedAt      time.Time         `json:"arrived_at,omitzero"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// WantsNotification reports whether reminders should reach this guest.
func (g *EventGuest) WantsNotification() bool {
	switch g.RSVPStatus {
	case domain.RSVPGoing:
		return true
	case domain.RSVPMaybe:
		return g.WantsReminders
	}
	return false
}

// GuestGroup is a host-owned reusable contact list.
type GuestGroup struct {
	ID          string             `json:"id"`
	OwnerUserID string             `json:"owner_user_id"`
	Name        string             `json:"name"`
	Members     []GuestGroupMember `json:"members"`
	CreatedAt   time.Time          `json:"created_at"`
}

type GuestGroupMember struct {
	ID      string `json:"id"`
	GroupID string `json:"group_id"`
	Name    string `json:"name"`
	Contact string `json:"contact"`
}

// Profile belongs to a user; ID equals the user id.
type Profile struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Phone     string    `json:"phone,omitempty"`
	AvatarURL string    `json:"avatar_url,omitempty"`
	PushToken string    `json:"-"`
	Locale    string    `json:"locale,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}
