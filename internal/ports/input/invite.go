package input

import (
	"context"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
)

type InviteUseCase interface {
	Resolve(ctx context.Context, eventID, token string, withGuests bool) (*entities.InviteSnapshot, error)
	Authorize(ctx context.Context, eventID, token string) (*entities.Event, error)
	QRCode(ctx context.Context, userID, eventID string, size int) ([]byte, error)
}

// RSVPRequest is what a guest submits from an invite link. UserID is set
// when the guest is signed in.
type RSVPRequest struct {
	EventID        string            `json:"-"`
	Token          string            `json:"token"`
	UserID         string            `json:"-"`
	Name           string            `json:"name"`
	Contact        string            `json:"contact"`
	Status         domain.RSVPStatus `json:"rsvp_status"`
	WantsReminders bool              `json:"wants_reminders"`
}

type RSVPUseCase interface {
	Submit(ctx context.Context, req RSVPRequest) (string, error)
	MarkArrived(ctx context.Context, userID, guestID string) error
}

// InviteDeliveryUseCase sends invite links out on behalf of a host.
type InviteDeliveryUseCase interface {
	SendEmail(ctx context.Context, userID, eventID, to string) error
	SendSMS(ctx context.Context, userID, eventID, to string) error
	SendPush(ctx context.Context, userID, eventID, targetUserID string) error
}
