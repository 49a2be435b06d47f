package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
	"dinnerbell/pkg/invite"
)

type BellService struct {
	eventRepo   output.EventRepository
	guestRepo   output.GuestRepository
	profileRepo output.ProfileRepository
	push        output.PushSender
	translator  output.Translator
	log         zerolog.Logger
}

func NewBellService(
	eventRepo output.EventRepository,
	guestRepo output.GuestRepository,
	profileRepo output.ProfileRepository,
	push output.PushSender,
	translator output.Translator,
	log zerolog.Logger,
) *BellService {
	return &BellService{
		eventRepo:   eventRepo,
		guestRepo:   guestRepo,
		profileRepo: profileRepo,
		push:        push,
		translator:  translator,
		log:         log.With().Str("component", "bell").Logger(),
	}
}

// Ring pushes "dinner is ready" to every going guest and returns how many
// devices the push provider accepted. userID must be the verified caller.
func (s *BellService) Ring(ctx context.Context, userID, eventID, message string) (int, error) {
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return 0, err
	}
	if event.IsCancelled {
		return 0, domain.ErrEventNotFound
	}

	recipients, err := pushRecipients(ctx, s.guestRepo, s.profileRepo, event.ID, func(g *entities.EventGuest) bool {
		return g.RSVPStatus == domain.RSVPGoing
	})
	if err != nil {
		return 0, fmt.Errorf("ring bell: %w", err)
	}
	if len(recipients) == 0 {
		s.log.Info().Str("event_id", event.ID).Msg("bell rung with no reachable guests")
		return 0, nil
	}

	message = strings.TrimSpace(message)
	msgs := make([]output.PushMessage, 0, len(recipients))
	for _, r := range recipients {
		locale := localeOf(r.Profile, s.translator)
		body := message
		if body == "" {
			body = s.translator.T(locale, "push.bell.body", map[string]any{"Event": event.Title})
		}
		msgs = append(msgs, output.PushMessage{
			To:    r.Profile.PushToken,
			Title: s.translator.T(locale, "push.bell.title", map[string]any{"Event": event.Title}),
			Body:  body,
			Sound: domain.BellSound,
			Data: output.PushData{
				Type:    domain.PushBellRing,
				EventID: event.ID,
				Message: message,
				URL:     invite.BellDeepLink(event.ID),
			},
		})
	}
	sent, err := s.push.Send(ctx, msgs)
	if err != nil {
		return sent, fmt.Errorf("ring bell: %w", err)
	}
	s.log.Info().Str("event_id", event.ID).Int("sent", sent).Msg("bell rung")
	return sent, nil
}
