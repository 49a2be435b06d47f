package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
	"dinnerbell/pkg/invite"
)

const sweepBatchSize = 100

// SweepReport summarizes one sweep tick.
type SweepReport struct {
	Due       int
	Consumed  int
	Skipped   int
	Delivered int
}

// SweepService delivers due notification rows. Each row is marked sent
// before delivery so concurrent sweepers never deliver it twice.
type SweepService struct {
	notificationRepo output.NotificationRepository
	eventRepo        output.EventRepository
	guestRepo        output.GuestRepository
	profileRepo      output.ProfileRepository
	push             output.PushSender
	translator       output.Translator
	log              zerolog.Logger
	now              func() time.Time
}

func NewSweepService(
	notificationRepo output.NotificationRepository,
	eventRepo output.EventRepository,
	guestRepo output.GuestRepository,
	profileRepo output.ProfileRepository,
	push output.PushSender,
	translator output.Translator,
	log zerolog.Logger,
	now func() time.Time,
) *SweepService {
	return &SweepService{
		notificationRepo: notificationRepo,
		eventRepo:        eventRepo,
		guestRepo:        guestRepo,
		profileRepo:      profileRepo,
		push:             push,
		translator:       translator,
		log:              log.With().Str("component", "sweep").Logger(),
		now:              now,
	}
}

// Run processes every row due at the time of the call.
func (s *SweepService) Run(ctx context.Context) (SweepReport, error) {
	var report SweepReport
	now := s.now()
	for {
		due, err := s.notificationRepo.FindDue(ctx, now, sweepBatchSize)
		if err != nil {
			return report, fmt.Errorf("sweep: find due: %w", err)
		}
		report.Due += len(due)
		for _, row := range due {
			won, err := s.notificationRepo.MarkSent(ctx, row.ID, now)
			if err != nil {
				return report, fmt.Errorf("sweep: mark sent: %w", err)
			}
			if !won {
				report.Skipped++
				continue
			}
			report.Consumed++
			n, err := s.deliver(ctx, row)
			if err != nil {
				s.log.Error().Err(err).Str("notification_id", row.ID).Str("event_id", row.EventID).Msg("delivery failed")
				continue
			}
			report.Delivered += n
		}
		if len(due) < sweepBatchSize {
			return report, nil
		}
	}
}

func (s *SweepService) deliver(ctx context.Context, row entities.NotificationSchedule) (int, error) {
	event, err := s.eventRepo.FindByID(ctx, row.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return 0, nil
		}
		return 0, err
	}
	if event.IsCancelled {
		return 0, nil
	}
	recipients, err := pushRecipients(ctx, s.guestRepo, s.profileRepo, event.ID, (*entities.EventGuest).WantsNotification)
	if err != nil {
		return 0, err
	}
	if len(recipients) == 0 {
		return 0, nil
	}

	pushType := domain.PushReminder
	sound := ""
	link := invite.EventDeepLink(event.ID)
	if row.Type == domain.NotifyBell {
		pushType = domain.PushBellRing
		sound = domain.BellSound
		link = invite.BellDeepLink(event.ID)
	}
	data := map[string]any{"Event": event.Title}
	msgs := make([]output.PushMessage, 0, len(recipients))
	for _, r := range recipients {
		locale := localeOf(r.Profile, s.translator)
		msgs = append(msgs, output.PushMessage{
			To:    r.Profile.PushToken,
			Title: s.translator.T(locale, "push."+string(row.Type)+".title", data),
			Body:  s.translator.T(locale, "push."+string(row.Type)+".body", data),
			Sound: sound,
			Data:  output.PushData{Type: pushType, EventID: event.ID, URL: link},
		})
	}
	return s.push.Send(ctx, msgs)
}

// Loop runs a sweep every interval until ctx is done.
func (s *SweepService) Loop(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			report, err := s.Run(ctx)
			if err != nil {
				s.log.Error().Err(err).Msg("sweep failed")
				continue
			}
			if report.Due > 0 {
				s.log.Info().
					Int("due", report.Due).
					Int("consumed", report.Consumed).
					Int("skipped", report.Skipped).
					Int("delivered", report.Delivered).
					Msg("sweep done")
			}
		}
	}
}
