package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
	"dinnerbell/pkg/invite"
)

// HostNoticeService tells hosts about RSVPs and claims: a push to the host's
// device and, when configured, an extra channel such as a chat webhook.
type HostNoticeService struct {
	profileRepo output.ProfileRepository
	push        output.PushSender
	extra       output.HostNotifier
	translator  output.Translator
	effects     *Effects
	log         zerolog.Logger
}

// NewHostNoticeService builds the notice fan-out. extra may be nil.
func NewHostNoticeService(
	profileRepo output.ProfileRepository,
	push output.PushSender,
	extra output.HostNotifier,
	translator output.Translator,
	effects *Effects,
	log zerolog.Logger,
) *HostNoticeService {
	return &HostNoticeService{
		profileRepo: profileRepo,
		push:        push,
		extra:       extra,
		translator:  translator,
		effects:     effects,
		log:         log.With().Str("component", "host_notice").Logger(),
	}
}

// RSVPReceived queues a notice for a new or changed RSVP.
func (s *HostNoticeService) RSVPReceived(ctx context.Context, event entities.Event, guest entities.EventGuest) {
	data := map[string]any{
		"Guest":  guest.GuestName,
		"Status": string(guest.RSVPStatus),
		"Event":  event.Title,
	}
	s.effects.Go(ctx, "notify_host_rsvp", func(ctx context.Context) error {
		return s.deliver(ctx, event, "notice.rsvp.title", "notice.rsvp."+string(guest.RSVPStatus), data)
	})
}

// ItemClaimed queues a notice for a successful claim.
func (s *HostNoticeService) ItemClaimed(ctx context.Context, event entities.Event, item entities.BringItem, guest entities.EventGuest, message string) {
	data := map[string]any{
		"Guest":    guest.GuestName,
		"Item":     item.Name,
		"Quantity": item.ClaimedQuantity,
		"Message":  message,
		"Event":    event.Title,
	}
	bodyKey := "notice.claim.body"
	if message != "" {
		bodyKey = "notice.claim.body_message"
	}
	s.effects.Go(ctx, "notify_host_claim", func(ctx context.Context) error {
		return s.deliver(ctx, event, "notice.claim.title", bodyKey, data)
	})
}

func (s *HostNoticeService) deliver(ctx context.Context, event entities.Event, titleKey, bodyKey string, data map[string]any) error {
	locale := s.translator.DefaultLocale()
	profile, err := s.profileRepo.FindByID(ctx, event.HostUserID)
	if err != nil && !errors.Is(err, domain.ErrProfileNotFound) {
		return fmt.Errorf("find host profile: %w", err)
	}
	if profile != nil && profile.Locale != "" {
		locale = profile.Locale
	}
	notice := output.HostNotice{
		Event: event,
		Title: s.translator.T(locale, titleKey, data),
		Body:  s.translator.T(locale, bodyKey, data),
	}

	var errs []error
	if profile != nil && profile.PushToken != "" {
		_, err := s.push.Send(ctx, []output.PushMessage{{
			To:    profile.PushToken,
			Title: notice.Title,
			Body:  notice.Body,
			Data:  output.PushData{Type: domain.PushReminder, EventID: event.ID, URL: invite.EventDeepLink(event.ID)},
		}})
		if err != nil {
			errs = append(errs, fmt.Errorf("push host: %w", err))
		}
	} else {
		s.log.Debug().Str("event_id", event.ID).Msg("host has no push token")
	}
	if s.extra != nil {
		if err := s.extra.NotifyHost(ctx, notice); err != nil {
			errs = append(errs, fmt.Errorf("extra channel: %w", err))
		}
	}
	return errors.Join(errs...)
}
