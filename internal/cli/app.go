package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"dinnerbell/internal/adapters/discord"
	"dinnerbell/internal/application"
	"dinnerbell/internal/config"
	"dinnerbell/internal/infrastructure/analytics"
	"dinnerbell/internal/infrastructure/database"
	"dinnerbell/internal/infrastructure/i18n"
	"dinnerbell/internal/infrastructure/mail"
	"dinnerbell/internal/infrastructure/media"
	"dinnerbell/internal/infrastructure/push"
	"dinnerbell/internal/infrastructure/realtime"
	"dinnerbell/internal/infrastructure/sms"
	"dinnerbell/internal/infrastructure/sqlite"
	"dinnerbell/internal/ports/output"
	"dinnerbell/pkg/invite"
)

type repositories struct {
	events        output.EventRepository
	bringItems    output.BringItemRepository
	guests        output.GuestRepository
	notifications output.NotificationRepository
	groups        output.GroupRepository
	profiles      output.ProfileRepository
	close         func()
}

// openRepositories connects to the store named by DATABASE_URL.
func openRepositories(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*repositories, error) {
	if cfg.IsSQLite() {
		store, err := sqlite.Open(cfg.SQLitePath())
		if err != nil {
			return nil, err
		}
		log.Info().Str("path", cfg.SQLitePath()).Msg("using sqlite store")
		return &repositories{
			events:        store.Events(),
			bringItems:    store.BringItems(),
			guests:        store.Guests(),
			notifications: store.Notifications(),
			groups:        store.Groups(),
			profiles:      store.Profiles(),
			close: func() {
				if err := store.Close(); err != nil {
					log.Warn().Err(err).Msg("close sqlite store")
				}
			},
		}, nil
	}

	pool, err := database.NewPool(ctx, cfg.DatabaseURL, log)
	if err != nil {
		return nil, err
	}
	return &repositories{
		events:        database.NewEventRepository(pool),
		bringItems:    database.NewBringItemRepository(pool),
		guests:        database.NewGuestRepository(pool),
		notifications: database.NewNotificationRepository(pool),
		groups:        database.NewGroupRepository(pool),
		profiles:      database.NewProfileRepository(pool),
		close:         pool.Close,
	}, nil
}

// app is the fully wired service graph.
type app struct {
	repos      *repositories
	translator *i18n.Translator
	hub        *realtime.Hub
	effects    *application.Effects
	analytics  output.AnalyticsForwarder

	events   *application.EventService
	invites  *application.InviteService
	rsvp     *application.RSVPService
	claims   *application.ClaimService
	bell     *application.BellService
	delivery *application.InviteDeliveryService
	groups   *application.GroupService
	profiles *application.ProfileService
	sweep    *application.SweepService
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*app, error) {
	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return nil, err
	}
	now := time.Now
	translator := i18n.NewTranslator(cfg.DefaultLocale, log)
	hub := realtime.NewHub(log)
	effects := application.NewEffects(log)
	pushSender := push.NewExpoClient(cfg.ExpoPushURL, cfg.ExpoAccessToken, log)

	// optional channels stay untyped nil when not configured
	var (
		hostNotifier output.HostNotifier
		mailer       output.Mailer
		smsSender    output.SMSSender
		mediaStore   output.MediaStore
		forwarder    output.AnalyticsForwarder = analytics.Discard{}
	)
	if cfg.DiscordEnabled() {
		notifier, err := discord.NewWebhookNotifier(cfg.DiscordWebhookURL, log)
		if err != nil {
			repos.close()
			return nil, fmt.Errorf("discord webhook: %w", err)
		}
		hostNotifier = notifier
	}
	if cfg.MailEnabled() {
		mailer = mail.NewSMTPMailer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword, cfg.MailFrom)
	}
	if cfg.SMSEnabled() {
		smsSender = sms.NewGateway(cfg.SMSGatewayURL, cfg.SMSGatewayToken, cfg.SMSFrom)
	}
	if cfg.MediaEnabled() {
		store, err := media.NewCloudinaryStore(cfg.CloudinaryURL)
		if err != nil {
			repos.close()
			return nil, err
		}
		mediaStore = store
	}
	if cfg.AnalyticsEnabled() {
		forwarder = analytics.NewHTTPForwarder(cfg.AnalyticsURL)
	}

	notices := application.NewHostNoticeService(repos.profiles, pushSender, hostNotifier, translator, effects, log)
	scheduler := application.NewNotificationScheduler(repos.notifications, now)
	invites := application.NewInviteService(repos.events, repos.bringItems, repos.guests, cfg.PublicBaseURL)

	return &app{
		repos:      repos,
		translator: translator,
		hub:        hub,
		effects:    effects,
		analytics:  forwarder,
		events:     application.NewEventService(repos.events, repos.bringItems, repos.guests, scheduler, mediaStore, invite.NewToken, log, now),
		invites:    invites,
		rsvp:       application.NewRSVPService(invites, repos.guests, repos.events, notices, now),
		claims:     application.NewClaimService(repos.bringItems, repos.guests, repos.events, hub, notices, log, now),
		bell:       application.NewBellService(repos.events, repos.guests, repos.profiles, pushSender, translator, log),
		delivery:   application.NewInviteDeliveryService(invites, repos.events, repos.profiles, mailer, smsSender, pushSender, translator, log),
		groups:     application.NewGroupService(repos.groups, log, now),
		profiles:   application.NewProfileService(repos.profiles, now),
		sweep:      application.NewSweepService(repos.notifications, repos.events, repos.guests, repos.profiles, pushSender, translator, log, now),
	}, nil
}

// Close waits for pending side effects, then releases the store.
func (a *app) Close() {
	a.effects.Wait()
	a.repos.close()
}
