package application

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/input"
	"dinnerbell/internal/ports/output"
)

type ClaimService struct {
	bringItemRepo output.BringItemRepository
	guestRepo     output.GuestRepository
	eventRepo     output.EventRepository
	feed          output.ChangeFeed
	notices       *HostNoticeService
	log           zerolog.Logger
	now           func() time.Time
}

func NewClaimService(
	bringItemRepo output.BringItemRepository,
	guestRepo output.GuestRepository,
	eventRepo output.EventRepository,
	feed output.ChangeFeed,
	notices *HostNoticeService,
	log zerolog.Logger,
	now func() time.Time,
) *ClaimService {
	return &ClaimService{
		bringItemRepo: bringItemRepo,
		guestRepo:     guestRepo,
		eventRepo:     eventRepo,
		feed:          feed,
		notices:       notices,
		log:           log.With().Str("component", "claim").Logger(),
		now:           now,
	}
}

// Claim reserves a bring item for a guest. At most one guest wins an item;
// losing is reported as (false, nil) and is final. Items of a cancelled
// event cannot be claimed; that fails like a stale invite.
func (s *ClaimService) Claim(ctx context.Context, req input.ClaimRequest) (bool, error) {
	if strings.TrimSpace(req.GuestID) == "" {
		return false, fmt.Errorf("%w: guest id is required", domain.ErrValidation)
	}
	item, err := s.bringItemRepo.FindByID(ctx, req.ItemID)
	if err != nil {
		return false, err
	}
	guest, err := s.guestRepo.FindByID(ctx, req.GuestID)
	if err != nil {
		return false, err
	}
	if guest.EventID != item.EventID {
		return false, domain.ErrForbidden
	}
	event, err := s.eventRepo.FindByID(ctx, item.EventID)
	if err != nil {
		return false, err
	}
	if event.IsCancelled {
		return false, domain.ErrInviteInvalid
	}
	if !item.IsClaimable {
		return false, domain.ErrItemNotClaimable
	}
	if item.Status != domain.BringUnclaimed {
		return false, nil
	}

	quantity := strings.TrimSpace(req.Quantity)
	if quantity == "" {
		quantity = item.Quantity
	}
	claimed, err := s.bringItemRepo.Claim(ctx, item.ID, guest.ID, quantity)
	if err != nil {
		return false, fmt.Errorf("claim item: %w", err)
	}
	if !claimed {
		s.log.Debug().Str("item_id", item.ID).Str("guest_id", guest.ID).Msg("claim lost")
		return false, nil
	}

	item.Status = domain.BringClaimed
	item.ClaimedByGuestID = guest.ID
	item.ClaimedQuantity = quantity
	item.UpdatedAt = s.now()
	s.feed.Publish(item.EventID, output.BringItemChange{Kind: output.ChangeUpdate, Item: *item})
	s.notices.ItemClaimed(ctx, *event, *item, *guest, strings.TrimSpace(req.Message))
	return true, nil
}

// MarkProvided moves a claimed item to provided. Host only.
func (s *ClaimService) MarkProvided(ctx context.Context, userID, itemID string) (*entities.BringItem, error) {
	item, err := s.bringItemRepo.FindByID(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if _, err := hostedEvent(ctx, s.eventRepo, userID, item.EventID); err != nil {
		return nil, err
	}
	ok, err := s.bringItemRepo.MarkProvided(ctx, item.ID)
	if err != nil {
		return nil, fmt.Errorf("mark provided: %w", err)
	}
	if !ok {
		return nil, domain.ErrInvalidTransition
	}
	item.Status = domain.BringProvided
	item.UpdatedAt = s.now()
	s.feed.Publish(item.EventID, output.BringItemChange{Kind: output.ChangeUpdate, Item: *item})
	return item, nil
}

// AddItem appends a bring item to a hosted event.
func (s *ClaimService) AddItem(ctx context.Context, userID, eventID string, draft input.BringItemDraft) (*entities.BringItem, error) {
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return nil, err
	}
	item, err := newBringItem(event.ID, draft, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.bringItemRepo.Create(ctx, item); err != nil {
		return nil, fmt.Errorf("add bring item: %w", err)
	}
	s.feed.Publish(event.ID, output.BringItemChange{Kind: output.ChangeInsert, Item: *item})
	return item, nil
}

func newBringItem(eventID string, draft input.BringItemDraft, now time.Time) (*entities.BringItem, error) {
	name := strings.TrimSpace(draft.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: bring item name is required", domain.ErrValidation)
	}
	category := draft.Category
	if category == "" {
		category = domain.CategoryOther
	}
	if !category.Valid() {
		return nil, fmt.Errorf("%w: unknown category %q", domain.ErrValidation, draft.Category)
	}
	claimable := true
	if draft.IsClaimable != nil {
		claimable = *draft.IsClaimable
	}
	return &entities.BringItem{
		ID:          uuid.Must(uuid.NewV7()).String(),
		EventID:     eventID,
		Name:        name,
		Quantity:    strings.TrimSpace(draft.Quantity),
		Category:    category,
		IsRequired:  draft.IsRequired,
		IsClaimable: claimable,
		Status:      domain.BringUnclaimed,
		Notes:       draft.Notes,
		SortOrder:   draft.SortOrder,
		UpdatedAt:   now,
	}, nil
}
