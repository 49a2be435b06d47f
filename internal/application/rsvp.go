package application

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/input"
	"dinnerbell/internal/ports/output"
)

const minPhoneDigits = 7

type RSVPService struct {
	invites   *InviteService
	guestRepo output.GuestRepository
	eventRepo output.EventRepository
	notices   *HostNoticeService
	now       func() time.Time
}

func NewRSVPService(
	invites *InviteService,
	guestRepo output.GuestRepository,
	eventRepo output.EventRepository,
	notices *HostNoticeService,
	now func() time.Time,
) *RSVPService {
	return &RSVPService{
		invites:   invites,
		guestRepo: guestRepo,
		eventRepo: eventRepo,
		notices:   notices,
		now:       now,
	}
}

// Submit records an RSVP from an invite link and returns the guest id.
// Re-submitting with the same contact updates the existing guest.
func (s *RSVPService) Submit(ctx context.Context, req input.RSVPRequest) (string, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	contact, err := NormalizeContact(req.Contact)
	if err != nil {
		return "", err
	}
	if !req.Status.Valid() {
		return "", fmt.Errorf("%w: unknown rsvp status %q", domain.ErrValidation, req.Status)
	}

	event, err := s.invites.Authorize(ctx, req.EventID, req.Token)
	if err != nil {
		return "", err
	}

	now := s.now()
	guest := &entities.EventGuest{
		ID:             uuid.Must(uuid.NewV7()).String(),
		EventID:        event.ID,
		UserID:         req.UserID,
		GuestName:      name,
		GuestContact:   contact,
		RSVPStatus:     req.Status,
		WantsReminders: req.WantsReminders,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.guestRepo.Upsert(ctx, guest); err != nil {
		return "", fmt.Errorf("record rsvp: %w", err)
	}

	s.notices.RSVPReceived(ctx, *event, *guest)
	return guest.ID, nil
}

// MarkArrived records a guest's arrival; host or co-host only.
func (s *RSVPService) MarkArrived(ctx context.Context, userID, guestID string) error {
	guest, err := s.guestRepo.FindByID(ctx, guestID)
	if err != nil {
		return err
	}
	if _, err := staffedEvent(ctx, s.eventRepo, userID, guest.EventID); err != nil {
		return err
	}
	return s.guestRepo.MarkArrived(ctx, guest.ID, s.now())
}

// NormalizeContact trims and lower-cases emails and strips formatting from
// phone numbers. Phone numbers need at least seven digits.
func NormalizeContact(raw string) (string, error) {
	contact := strings.TrimSpace(raw)
	if contact == "" {
		return "", fmt.Errorf("%w: contact is required", domain.ErrValidation)
	}
	if strings.Contains(contact, "@") {
		return strings.ToLower(contact), nil
	}
	var b strings.Builder
	digits := 0
	for i, r := range contact {
		switch {
		case unicode.IsDigit(r):
			b.WriteRune(r)
			digits++
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
		default:
			return "", fmt.Errorf("%w: contact must be a phone number or an email", domain.ErrValidation)
		}
	}
	if digits < minPhoneDigits {
		return "", fmt.Errorf("%w: phone number is too short", domain.ErrValidation)
	}
	return b.String(), nil
}
