package input

import (
	"context"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
)

// ClaimRequest asks to reserve a bring item for a guest. Quantity defaults
// to the item's requested quantity.
type ClaimRequest struct {
	ItemID   string `json:"-"`
	GuestID  string `json:"guest_id"`
	Quantity string `json:"quantity"`
	Message  string `json:"message"`
}

type BringItemDraft struct {
	Name        string               `json:"name" yaml:"name"`
	Quantity    string               `json:"quantity" yaml:"quantity"`
	Category    domain.BringCategory `json:"category" yaml:"category"`
	IsRequired  bool                 `json:"is_required" yaml:"is_required"`
	IsClaimable *bool                `json:"is_claimable" yaml:"is_claimable"`
	Notes       string               `json:"notes" yaml:"notes"`
	SortOrder   int                  `json:"sort_order" yaml:"sort_order"`
}

type ClaimUseCase interface {
	// Claim reports false, with a nil error, when another guest got there
	// first.
	Claim(ctx context.Context, req ClaimRequest) (bool, error)
	MarkProvided(ctx context.Context, userID, itemID string) (*entities.BringItem, error)
	AddItem(ctx context.Context, userID, eventID string, draft BringItemDraft) (*entities.BringItem, error)
}

type BellUseCase interface {
	Ring(ctx context.Context, userID, eventID, message string) (int, error)
}
