package output

import (
	"context"

	"dinnerbell/internal/domain/entities"
)

type BringItemRepository interface {
	Create(ctx context.Context, item *entities.BringItem) error
	FindByID(ctx context.Context, id string) (*entities.BringItem, error)
	FindByEventID(ctx context.Context, eventID string) ([]entities.BringItem, error)
	// Claim moves an unclaimed, claimable item to claimed in a single
	// conditional write. It reports false when the item was no longer
	// unclaimed at write time.
	Claim(ctx context.Context, itemID, guestID, quantity string) (bool, error)
	// MarkProvided moves a claimed item to provided; false when it was not
	// claimed.
	MarkProvided(ctx context.Context, itemID string) (bool, error)
}
