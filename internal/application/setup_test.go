package application

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/infrastructure/i18n"
	"dinnerbell/internal/infrastructure/sqlite"
	"dinnerbell/internal/ports/input"
	"dinnerbell/internal/ports/output"
)

var startOfTest = time.Date(2030, 6, 1, 12, 0, 0, 0, time.UTC)

type recordingPush struct {
	mu       sync.Mutex
	messages []output.PushMessage
}

func (p *recordingPush) Send(_ context.Context, msgs []output.PushMessage) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, msgs...)
	return len(msgs), nil
}

func (p *recordingPush) sent() []output.PushMessage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]output.PushMessage(nil), p.messages...)
}

type recordingNotifier struct {
	mu      sync.Mutex
	notices []output.HostNotice
}

func (n *recordingNotifier) NotifyHost(_ context.Context, notice output.HostNotice) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
	return nil
}

type recordingFeed struct {
	mu      sync.Mutex
	changes []output.BringItemChange
}

func (f *recordingFeed) Publish(_ string, change output.BringItemChange) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.changes = append(f.changes, change)
}

// testEnv wires every service against a fresh SQLite store and a clock the
// test can move.
type testEnv struct {
	store    *sqlite.Store
	now      time.Time
	push     *recordingPush
	notifier *recordingNotifier
	feed     *recordingFeed
	effects  *Effects

	events   *EventService
	invites  *InviteService
	rsvp     *RSVPService
	claims   *ClaimService
	bell     *BellService
	sweep    *SweepService
	groups   *GroupService
	profiles *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	store, err := sqlite.Open(filepath.Join(t.TempDir(), "app.db"))
	require.NoError(t, err)

	env := &testEnv{
		store:    store,
		now:      startOfTest,
		push:     &recordingPush{},
		notifier: &recordingNotifier{},
		feed:     &recordingFeed{},
	}
	clock := func() time.Time { return env.now }
	log := zerolog.Nop()
	translator := i18n.NewTranslator("en", log)
	env.effects = NewEffects(log)
	t.Cleanup(func() {
		env.effects.Wait()
		store.Close()
	})

	tokens := 0
	newToken := func() (string, error) {
		tokens++
		return fmt.Sprintf("token-%d", tokens), nil
	}

	notices := NewHostNoticeService(store.Profiles(), env.push, env.notifier, translator, env.effects, log)
	scheduler := NewNotificationScheduler(store.Notifications(), clock)
	env.invites = NewInviteService(store.Events(), store.BringItems(), store.Guests(), "https://dinnerbell.test")
	env.events = NewEventService(store.Events(), store.BringItems(), store.Guests(), scheduler, nil, newToken, log, clock)
	env.rsvp = NewRSVPService(env.invites, store.Guests(), store.Events(), notices, clock)
	env.claims = NewClaimService(store.BringItems(), store.Guests(), store.Events(), env.feed, notices, log, clock)
	env.bell = NewBellService(store.Events(), store.Guests(), store.Profiles(), env.push, translator, log)
	env.sweep = NewSweepService(store.Notifications(), store.Events(), store.Guests(), store.Profiles(), env.push, translator, log, clock)
	env.groups = NewGroupService(store.Groups(), log, clock)
	env.profiles = NewProfileService(store.Profiles(), clock)
	return env
}

func (e *testEnv) advance(d time.Duration) {
	e.now = e.now.Add(d)
}

func draftAt(title string, bell time.Time) input.EventDraft {
	claimable := false
	return input.EventDraft{
		Title:    title,
		BellTime: bell,
		Timezone: "Europe/Paris",
		Menu: []input.MenuSectionDraft{
			{Title: "Mains", Items: []input.MenuItemDraft{{Name: "Roast"}, {Name: "Salad", DietaryTags: []string{"vegan"}}}},
		},
		BringItems: []input.BringItemDraft{
			{Name: "Red wine", Quantity: "2 bottles", Category: domain.CategoryDrink},
			{Name: "Chairs", Category: domain.CategorySupplies, IsClaimable: &claimable},
		},
		Schedule: []input.ScheduleBlockDraft{{Title: "Aperitif"}},
	}
}

func (e *testEnv) createEvent(t *testing.T, host, title string, bellIn time.Duration) *entities.EventView {
	t.Helper()
	view, err := e.events.Create(context.Background(), host, draftAt(title, e.now.Add(bellIn)))
	require.NoError(t, err)
	return view
}

// rsvpAs submits an RSVP and, when userID is set, gives that user a push
// token.
func (e *testEnv) rsvpAs(t *testing.T, event *entities.Event, userID, contact string, status domain.RSVPStatus) string {
	t.Helper()
	ctx := context.Background()
	guestID, err := e.rsvp.Submit(ctx, input.RSVPRequest{
		EventID: event.ID, Token: event.InviteToken, UserID: userID,
		Name: contact, Contact: contact, Status: status,
	})
	require.NoError(t, err)
	if userID != "" {
		require.NoError(t, e.profiles.RegisterPushToken(ctx, userID, "ExponentPushToken["+userID+"]"))
	}
	return guestID
}

func bringItemNamed(t *testing.T, view *entities.EventView, name string) entities.BringItem {
	t.Helper()
	for _, b := range view.BringItems {
		if b.Name == name {
			return b
		}
	}
	t.Fatalf("no bring item %q", name)
	return entities.BringItem{}
}
