package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/input"
	"dinnerbell/internal/ports/output"
	"dinnerbell/pkg/tz"
)

type EventService struct {
	eventRepo     output.EventRepository
	bringItemRepo output.BringItemRepository
	guestRepo     output.GuestRepository
	scheduler     *NotificationScheduler
	media         output.MediaStore
	newToken      func() (string, error)
	log           zerolog.Logger
	now           func() time.Time
}

// NewEventService wires the event use cases. media may be nil when cover
// uploads are not configured.
func NewEventService(
	eventRepo output.EventRepository,
	bringItemRepo output.BringItemRepository,
	guestRepo output.GuestRepository,
	scheduler *NotificationScheduler,
	media output.MediaStore,
	newToken func() (string, error),
	log zerolog.Logger,
	now func() time.Time,
) *EventService {
	return &EventService{
		eventRepo:     eventRepo,
		bringItemRepo: bringItemRepo,
		guestRepo:     guestRepo,
		scheduler:     scheduler,
		media:         media,
		newToken:      newToken,
		log:           log.With().Str("component", "event").Logger(),
		now:           now,
	}
}

// Create stores a new event with its menu, bring list and agenda, then plans
// its notifications.
func (s *EventService) Create(ctx context.Context, userID string, draft input.EventDraft) (*entities.EventView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	now := s.now()
	event := entities.Event{
		ID:           uuid.Must(uuid.NewV7()).String(),
		HostUserID:   userID,
		Title:        strings.TrimSpace(draft.Title),
		Description:  strings.TrimSpace(draft.Description),
		StartTime:    draft.StartTime,
		BellTime:     draft.BellTime,
		EndTime:      draft.EndTime,
		Timezone:     draft.Timezone,
		AddressLine1: draft.AddressLine1,
		AddressLine2: draft.AddressLine2,
		City:         draft.City,
		State:        draft.State,
		PostalCode:   draft.PostalCode,
		IsPublic:     draft.IsPublic,
		Capacity:     draft.Capacity,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if event.Timezone == "" {
		event.Timezone = tz.Default
	}
	if err := validateEvent(&event); err != nil {
		return nil, err
	}
	if !event.BellTime.After(now) {
		return nil, domain.ErrDateTimeInPast
	}
	token, err := s.newToken()
	if err != nil {
		return nil, err
	}
	event.InviteToken = token

	rows := &entities.EventRows{Event: event}
	for si, sd := range draft.Menu {
		section := entities.MenuSection{
			ID:        uuid.Must(uuid.NewV7()).String(),
			EventID:   event.ID,
			Title:     strings.TrimSpace(sd.Title),
			SortOrder: si,
		}
		if section.Title == "" {
			return nil, fmt.Errorf("%w: menu section title is required", domain.ErrValidation)
		}
		rows.Sections = append(rows.Sections, section)
		for ii, id := range sd.Items {
			name := strings.TrimSpace(id.Name)
			if name == "" {
				return nil, fmt.Errorf("%w: menu item name is required", domain.ErrValidation)
			}
			rows.Items = append(rows.Items, entities.MenuItem{
				ID:          uuid.Must(uuid.NewV7()).String(),
				SectionID:   section.ID,
				Name:        name,
				Description: strings.TrimSpace(id.Description),
				DietaryTags: id.DietaryTags,
				SortOrder:   ii,
			})
		}
	}
	for i, bd := range draft.BringItems {
		if bd.SortOrder == 0 {
			bd.SortOrder = i
		}
		item, err := newBringItem(event.ID, bd, now)
		if err != nil {
			return nil, err
		}
		rows.BringItems = append(rows.BringItems, *item)
	}
	for i, sb := range draft.Schedule {
		title := strings.TrimSpace(sb.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: schedule title is required", domain.ErrValidation)
		}
		rows.Schedule = append(rows.Schedule, entities.ScheduleBlock{
			ID:        uuid.Must(uuid.NewV7()).String(),
			EventID:   event.ID,
			Title:     title,
			StartsAt:  sb.StartsAt,
			Notes:     sb.Notes,
			SortOrder: i,
		})
	}

	if err := s.eventRepo.Create(ctx, rows); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	if _, err := s.scheduler.Schedule(ctx, &rows.Event); err != nil {
		return nil, err
	}
	s.log.Info().Str("event_id", event.ID).Str("host", userID).Msg("event created")
	return rows.Assemble(), nil
}

// Update applies the host's edits. A changed bell time regenerates the
// pending notifications.
func (s *EventService) Update(ctx context.Context, userID, eventID string, patch input.EventPatch) (*entities.Event, error) {
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return nil, err
	}
	if event.IsCancelled {
		return nil, domain.ErrEventCancelled
	}
	bellBefore := event.BellTime
	applyPatch(event, patch)
	if err := validateEvent(event); err != nil {
		return nil, err
	}
	event.UpdatedAt = s.now()
	if err := s.eventRepo.Update(ctx, event); err != nil {
		return nil, fmt.Errorf("update event: %w", err)
	}
	if !event.BellTime.Equal(bellBefore) {
		if _, err := s.scheduler.Schedule(ctx, event); err != nil {
			return nil, err
		}
	}
	return event, nil
}

func applyPatch(e *entities.Event, p input.EventPatch) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&e.Title, p.Title)
	set(&e.Description, p.Description)
	set(&e.Timezone, p.Timezone)
	set(&e.AddressLine1, p.AddressLine1)
	set(&e.AddressLine2, p.AddressLine2)
	set(&e.City, p.City)
	set(&e.State, p.State)
	set(&e.PostalCode, p.PostalCode)
	if p.StartTime != nil {
		e.StartTime = *p.StartTime
	}
	if p.BellTime != nil {
		e.BellTime = *p.BellTime
	}
	if p.EndTime != nil {
		e.EndTime = *p.EndTime
	}
	if p.IsPublic != nil {
		e.IsPublic = *p.IsPublic
	}
	if p.Capacity != nil {
		e.Capacity = *p.Capacity
	}
}

func validateEvent(e *entities.Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if e.BellTime.IsZero() {
		return fmt.Errorf("%w: bell time is required", domain.ErrValidation)
	}
	if e.StartTime.IsZero() {
		e.StartTime = e.BellTime
	}
	if !e.EndTime.IsZero() && e.EndTime.Before(e.BellTime) {
		return fmt.Errorf("%w: end time is before bell time", domain.ErrValidation)
	}
	if e.Capacity < 0 {
		return fmt.Errorf("%w: capacity cannot be negative", domain.ErrValidation)
	}
	if _, err := tz.Load(e.Timezone); err != nil {
		return fmt.Errorf("%w: unknown timezone %q", domain.ErrValidation, e.Timezone)
	}
	return nil
}

// Cancel marks the event cancelled and drops its pending notifications.
func (s *EventService) Cancel(ctx context.Context, userID, eventID string) error {
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return err
	}
	if event.IsCancelled {
		return nil
	}
	if err := s.eventRepo.Cancel(ctx, event.ID); err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	return s.scheduler.Clear(ctx, event.ID)
}

// Get assembles the full view for a signed-in host, co-host or guest. The
// independent reads run concurrently and are joined before assembly.
func (s *EventService) Get(ctx context.Context, userID, eventID string) (*entities.EventView, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	rows := entities.EventRows{}
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		event, err := s.eventRepo.FindByID(gctx, eventID)
		if err != nil {
			return err
		}
		rows.Event = *event
		return nil
	})
	g.Go(func() error {
		var err error
		rows.Sections, rows.Items, err = s.eventRepo.FindMenu(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		rows.BringItems, err = s.bringItemRepo.FindByEventID(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		rows.Schedule, err = s.eventRepo.FindSchedule(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		rows.Guests, err = s.guestRepo.FindByEventID(gctx, eventID)
		return err
	})
	g.Go(func() error {
		var err error
		rows.CoHosts, err = s.eventRepo.FindCoHosts(gctx, eventID)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if !canView(&rows, userID) {
		return nil, domain.ErrEventNotFound
	}
	return rows.Assemble(), nil
}

func canView(rows *entities.EventRows, userID string) bool {
	if rows.Event.HostUserID == userID {
		return true
	}
	for _, c := range rows.CoHosts {
		if c.UserID == userID {
			return true
		}
	}
	for _, g := range rows.Guests {
		if g.UserID == userID {
			return true
		}
	}
	return false
}

// GetForGuest assembles the view for a guest without a session, keyed by
// the guest id handed out at RSVP time.
func (s *EventService) GetForGuest(ctx context.Context, guestID string) (*entities.EventView, error) {
	rows, err := s.eventRepo.LoadByGuestID(ctx, guestID)
	if err != nil {
		if errors.Is(err, domain.ErrGuestNotFound) || errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event for guest: %w", err)
	}
	if rows.Event.IsCancelled {
		return nil, domain.ErrEventNotFound
	}
	view := rows.Assemble()
	view.Event.InviteToken = ""
	for i := range view.Guests {
		if view.Guests[i].ID != guestID {
			view.Guests[i].GuestContact = ""
		}
	}
	return view, nil
}

// List returns the events a user hosts or attends (going or maybe), each
// once. Upcoming events come soonest first, past events latest first.
func (s *EventService) List(ctx context.Context, userID string) (*entities.EventList, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, domain.ErrUnauthenticated
	}
	var hosted, attending []entities.Event
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		hosted, err = s.eventRepo.FindByHostUserID(gctx, userID)
		return err
	})
	g.Go(func() error {
		var err error
		attending, err = s.eventRepo.FindAttendingByUserID(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return SplitEvents(append(hosted, attending...), s.now()), nil
}

// SplitEvents de-duplicates events by id and splits them around now.
func SplitEvents(events []entities.Event, now time.Time) *entities.EventList {
	list := &entities.EventList{Upcoming: []entities.Event{}, Past: []entities.Event{}}
	seen := make(map[string]bool, len(events))
	for _, e := range events {
		if seen[e.ID] {
			continue
		}
		seen[e.ID] = true
		if e.IsPast(now) {
			list.Past = append(list.Past, e)
		} else {
			list.Upcoming = append(list.Upcoming, e)
		}
	}
	sort.SliceStable(list.Upcoming, func(i, j int) bool {
		return list.Upcoming[i].BellTime.Before(list.Upcoming[j].BellTime)
	})
	sort.SliceStable(list.Past, func(i, j int) bool {
		return list.Past[i].BellTime.After(list.Past[j].BellTime)
	})
	return list
}

// AddCoHost grants another user read access to the full event. Host only.
func (s *EventService) AddCoHost(ctx context.Context, userID, eventID, cohostUserID string) error {
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return err
	}
	cohostUserID = strings.TrimSpace(cohostUserID)
	if cohostUserID == "" || cohostUserID == event.HostUserID {
		return fmt.Errorf("%w: invalid co-host", domain.ErrValidation)
	}
	return s.eventRepo.AddCoHost(ctx, &entities.CoHost{
		EventID:   event.ID,
		UserID:    cohostUserID,
		CreatedAt: s.now(),
	})
}

// SetCover uploads a new cover image and removes the previous one.
func (s *EventService) SetCover(ctx context.Context, userID, eventID string, file io.Reader) (*entities.Event, error) {
	if s.media == nil {
		return nil, domain.ErrChannelUnavailable
	}
	event, err := hostedEvent(ctx, s.eventRepo, userID, eventID)
	if err != nil {
		return nil, err
	}
	url, publicID, err := s.media.UploadCover(ctx, event.ID, file)
	if err != nil {
		return nil, fmt.Errorf("upload cover: %w", err)
	}
	if err := s.eventRepo.SetCover(ctx, event.ID, url, publicID); err != nil {
		return nil, fmt.Errorf("set cover: %w", err)
	}
	if old := event.CoverPublicID; old != "" && old != publicID {
		if err := s.media.Delete(ctx, old); err != nil {
			s.log.Warn().Err(err).Str("public_id", old).Msg("old cover not deleted")
		}
	}
	event.CoverImageURL = url
	event.CoverPublicID = publicID
	return event, nil
}
