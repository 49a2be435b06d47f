package output

import (
	"context"
	"time"

	"dinnerbell/internal/domain/entities"
)

type GuestRepository interface {
	// Upsert creates the guest or updates the row with the same event and
	// contact. guest.ID holds the stored id afterwards.
	Upsert(ctx context.Context, guest *entities.EventGuest) error
	FindByID(ctx context.Context, id string) (*entities.EventGuest, error)
	FindByEventID(ctx context.Context, eventID string) ([]entities.EventGuest, error)
	FindByEventIDAndUserID(ctx context.Context, eventID, userID string) (*entities.EventGuest, error)
	MarkArrived(ctx context.Context, id string, at time.Time) error
}
