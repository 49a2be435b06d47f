package application

import (
	"context"
	"errors"
	"fmt"
	"html"
	"strings"

	"github.com/rs/zerolog"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
	"dinnerbell/pkg/invite"
	"dinnerbell/pkg/tz"
)

// InviteDeliveryService sends a hosted event's invite link by email, SMS
// or push. Channels left unconfigured answer ErrChannelUnavailable.
type InviteDeliveryService struct {
	invites     *InviteService
	eventRepo   output.EventRepository
	profileRepo output.ProfileRepository
	mailer      output.Mailer
	sms         output.SMSSender
	push        output.PushSender
	translator  output.Translator
	log         zerolog.Logger
}

func NewInviteDeliveryService(
	invites *InviteService,
	eventRepo output.EventRepository,
	profileRepo output.ProfileRepository,
	mailer output.Mailer,
	sms output.SMSSender,
	push output.PushSender,
	translator output.Translator,
	log zerolog.Logger,
) *InviteDeliveryService {
	return &InviteDeliveryService{
		invites:     invites,
		eventRepo:   eventRepo,
		profileRepo: profileRepo,
		mailer:      mailer,
		sms:         sms,
		push:        push,
		translator:  translator,
		log:         log.With().Str("component", "invite_delivery").Logger(),
	}
}

func (s *InviteDeliveryService) SendEmail(ctx context.Context, userID, eventID, to string) error {
	if s.mailer == nil {
		return domain.ErrChannelUnavailable
	}
	event, locale, err := s.load(ctx, userID, eventID)
	if err != nil {
		return err
	}
	to = strings.ToLower(strings.TrimSpace(to))
	if !strings.Contains(to, "@") {
		return fmt.Errorf("%w: email address is invalid", domain.ErrValidation)
	}
	link := s.invites.Link(event)
	data := s.templateData(event, link)
	htmlData := make(map[string]any, len(data))
	for k, v := range data {
		htmlData[k] = html.EscapeString(fmt.Sprint(v))
	}
	mail := output.InviteEmail{
		To:         to,
		Subject:    s.translator.T(locale, "invite.email.subject", data),
		HTMLBody:   s.translator.T(locale, "invite.email.body", htmlData),
		InviteLink: link,
	}
	if err := s.mailer.SendInvite(ctx, mail); err != nil {
		return fmt.Errorf("send invite email: %w", err)
	}
	s.log.Info().Str("event_id", event.ID).Msg("invite emailed")
	return nil
}

func (s *InviteDeliveryService) SendSMS(ctx context.Context, userID, eventID, to string) error {
	if s.sms == nil {
		return domain.ErrChannelUnavailable
	}
	event, locale, err := s.load(ctx, userID, eventID)
	if err != nil {
		return err
	}
	phone, err := NormalizeContact(to)
	if err != nil {
		return err
	}
	if strings.Contains(phone, "@") {
		return fmt.Errorf("%w: phone number is invalid", domain.ErrValidation)
	}
	body := s.translator.T(locale, "invite.sms.body", s.templateData(event, s.invites.Link(event)))
	if err := s.sms.Send(ctx, phone, body); err != nil {
		return fmt.Errorf("send invite sms: %w", err)
	}
	s.log.Info().Str("event_id", event.ID).Msg("invite texted")
	return nil
}

// SendPush notifies another user of the app about the invite. The target
// must have registered a device.
func (s *InviteDeliveryService) SendPush(ctx context.Context, userID, eventID, targetUserID string) error {
	event, _, err := s.load(ctx, userID, eventID)
	if err != nil {
		return err
	}
	target, err := s.profileRepo.FindByID(ctx, strings.TrimSpace(targetUserID))
	if err != nil {
		return err
	}
	if target.PushToken == "" {
		return domain.ErrChannelUnavailable
	}
	locale := localeOf(*target, s.translator)
	data := s.templateData(event, s.invites.Link(event))
	_, err = s.push.Send(ctx, []output.PushMessage{{
		To:    target.PushToken,
		Title: s.translator.T(locale, "push.invite.title", data),
		Body:  s.translator.T(locale, "push.invite.body", data),
		Data: output.PushData{
			Type:    domain.PushInviteReceived,
			EventID: event.ID,
			URL:     invite.DeepLink(event.ID, event.InviteToken),
		},
	}})
	if err != nil {
		return fmt.Errorf("send invite push: %w", err)
	}
	return nil
}

// load returns a hosted, live event and the host's locale.
func (s *InviteDeliveryService) load(ctx context.Context, userID, eventID string) (*entities.Event, string, error) {
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return nil, "", err
	}
	if event.IsCancelled {
		return nil, "", domain.ErrEventCancelled
	}
	locale := s.translator.DefaultLocale()
	host, err := s.profileRepo.FindByID(ctx, userID)
	switch {
	case err == nil:
		locale = localeOf(*host, s.translator)
	case !errors.Is(err, domain.ErrProfileNotFound):
		return nil, "", err
	}
	return event, locale, nil
}

func (s *InviteDeliveryService) templateData(event *entities.Event, link string) map[string]any {
	return map[string]any{
		"Event": event.Title,
		"When":  tz.Format(event.BellTime, event.Timezone, "Mon Jan 2, 15:04 MST"),
		"Link":  link,
	}
}
