package application

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
	"dinnerbell/pkg/invite"
)

type InviteService struct {
	eventRepo     output.EventRepository
	bringItemRepo output.BringItemRepository
	guestRepo     output.GuestRepository
	publicBaseURL string
}

func NewInviteService(
	eventRepo output.EventRepository,
	bringItemRepo output.BringItemRepository,
	guestRepo output.GuestRepository,
	publicBaseURL string,
) *InviteService {
	return &InviteService{
		eventRepo:     eventRepo,
		bringItemRepo: bringItemRepo,
		guestRepo:     guestRepo,
		publicBaseURL: publicBaseURL,
	}
}

// Authorize checks an (event id, token) pair. Unknown events, cancelled
// events and wrong tokens all yield ErrInviteInvalid.
func (s *InviteService) Authorize(ctx context.Context, eventID, token string) (*entities.Event, error) {
	event, err := s.eventRepo.FindByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrInviteInvalid
		}
		return nil, err
	}
	if event.IsCancelled || !invite.TokenMatches(event.InviteToken, token) {
		return nil, domain.ErrInviteInvalid
	}
	return event, nil
}

// Resolve returns the read-only snapshot behind an invite link. The full
// variant adds the guest list without contact details.
func (s *InviteService) Resolve(ctx context.Context, eventID, token string, withGuests bool) (*entities.InviteSnapshot, error) {
	event, err := s.Authorize(ctx, eventID, token)
	if err != nil {
		return nil, err
	}

	var (
		sections []entities.MenuSection
		items    []entities.MenuItem
		bring    []entities.BringItem
		guests   []entities.EventGuest
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sections, items, err = s.eventRepo.FindMenu(gctx, event.ID)
		return err
	})
	g.Go(func() error {
		var err error
		bring, err = s.bringItemRepo.FindByEventID(gctx, event.ID)
		return err
	})
	if withGuests {
		g.Go(func() error {
			var err error
			guests, err = s.guestRepo.FindByEventID(gctx, event.ID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("resolve invite: %w", err)
	}

	snapshot := &entities.InviteSnapshot{
		Event:      *event,
		Menu:       entities.AssembleMenu(sections, items),
		BringItems: bring,
	}
	snapshot.Event.InviteToken = ""
	if snapshot.BringItems == nil {
		snapshot.BringItems = []entities.BringItem{}
	}
	if withGuests {
		snapshot.Guests = make([]entities.EventGuest, 0, len(guests))
		for _, g := range guests {
			g.GuestContact = ""
			g.UserID = ""
			snapshot.Guests = append(snapshot.Guests, g)
		}
	}
	return snapshot, nil
}

// Link returns the public invite link of an event.
func (s *InviteService) Link(event *entities.Event) string {
	return invite.Link(s.publicBaseURL, event.ID, event.InviteToken)
}

// QRCode renders the invite link of a hosted event as a PNG.
func (s *InviteService) QRCode(ctx context.Context, userID, eventID string, size int) ([]byte, error) {
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return nil, err
	}
	return invite.QRCode(s.Link(event), size)
}
