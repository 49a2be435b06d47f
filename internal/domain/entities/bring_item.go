package entities

import (
	"time"

	"dinnerbell/internal/domain"
)

// BringItem is something a guest can commit to bringing.
// ClaimedByGuestID is set if and only if Status is not unclaimed.
type BringItem struct {
	ID               string               `json:"id"`
	EventID          string               `json:"event_id"`
	Name             string               `json:"name"`
	Quantity         string               `json:"quantity,omitempty"`
	Category         domain.BringCategory `json:"category"`
	IsRequired       bool                 `json:"is_required"`
	IsClaimable      bool                 `json:"is_claimable"`
	Status           domain.BringStatus   `json:"status"`
	ClaimedByGuestID string               `json:"claimed_by_guest_id,omitempty"`
	ClaimedQuantity  string               `json:"claimed_quantity,omitempty"`
	Notes            string               `json:"notes,omitempty"`
	SortOrder        int                  `json:"sort_order"`
	UpdatedAt        time.Time            `json:"updated_at"`
}

// CanBeClaimed is the advisory client-side check; storage decides.
func (b *BringItem) CanBeClaimed() bool {
	return b.IsClaimable && b.Status == domain.BringUnclaimed
}
