package sqlite

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
)

var testBell = time.Date(2030, 6, 1, 19, 0, 0, 0, time.UTC)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func seedEvent(t *testing.T, store *Store, id string) *entities.EventRows {
	t.Helper()
	created := time.Date(2030, 5, 1, 10, 0, 0, 0, time.UTC)
	rows := &entities.EventRows{
		Event: entities.Event{
			ID: id, HostUserID: "host-1", Title: "Supper " + id,
			StartTime: testBell.Add(-time.Hour), BellTime: testBell, Timezone: "Europe/Paris",
			InviteToken: "tok-" + id, CreatedAt: created, UpdatedAt: created,
		},
		Sections: []entities.MenuSection{{ID: id + "-s1", EventID: id, Title: "Mains"}},
		Items: []entities.MenuItem{
			{ID: id + "-m1", SectionID: id + "-s1", Name: "Roast", DietaryTags: []string{"gluten-free"}},
		},
		BringItems: []entities.BringItem{
			{ID: id + "-b1", EventID: id, Name: "Wine", Quantity: "2", Category: domain.CategoryDrink,
				IsClaimable: true, Status: domain.BringUnclaimed, UpdatedAt: created},
			{ID: id + "-b2", EventID: id, Name: "Chairs", Category: domain.CategorySupplies,
				IsClaimable: false, Status: domain.BringUnclaimed, UpdatedAt: created},
		},
		Schedule: []entities.ScheduleBlock{{ID: id + "-sch1", EventID: id, Title: "Aperitif"}},
	}
	require.NoError(t, store.Events().Create(context.Background(), rows))
	return rows
}

func seedGuest(t *testing.T, store *Store, eventID, contact string) *entities.EventGuest {
	t.Helper()
	now := time.Date(2030, 5, 2, 10, 0, 0, 0, time.UTC)
	g := &entities.EventGuest{
		ID: "guest-" + contact, EventID: eventID, GuestName: contact, GuestContact: contact,
		RSVPStatus: domain.RSVPGoing, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, store.Guests().Upsert(context.Background(), g))
	return g
}

func TestOpen_Idempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")
	first, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, first.Close())

	second, err := Open(path)
	require.NoError(t, err)
	defer second.Close()

	var version int
	require.NoError(t, second.DB().QueryRow("PRAGMA user_version").Scan(&version))
	assert.Equal(t, currentSchemaVersion, version)
}

func TestEventRepository_CreateAndFind(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")

	got, err := store.Events().FindByID(ctx, "ev1")
	require.NoError(t, err)
	assert.Equal(t, "Supper ev1", got.Title)
	assert.True(t, got.BellTime.Equal(testBell))
	assert.True(t, got.EndTime.IsZero())

	sections, items, err := store.Events().FindMenu(ctx, "ev1")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	require.Len(t, items, 1)
	assert.Equal(t, []string{"gluten-free"}, items[0].DietaryTags)

	_, err = store.Events().FindByID(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestEventRepository_CancelUnknown(t *testing.T) {
	store := openTestStore(t)
	err := store.Events().Cancel(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)
}

func TestGuestRepository_UpsertKeepsID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")
	first := seedGuest(t, store, "ev1", "ann@example.com")

	later := time.Date(2030, 5, 3, 10, 0, 0, 0, time.UTC)
	again := &entities.EventGuest{
		ID: "another-id", EventID: "ev1", UserID: "user-ann", GuestName: "Ann B.",
		GuestContact: "ann@example.com", RSVPStatus: domain.RSVPMaybe, WantsReminders: true,
		CreatedAt: later, UpdatedAt: later,
	}
	require.NoError(t, store.Guests().Upsert(ctx, again))
	assert.Equal(t, first.ID, again.ID)
	assert.Equal(t, domain.RSVPMaybe, again.RSVPStatus)
	assert.Equal(t, "user-ann", again.UserID)

	// an anonymous resubmit keeps the linked user
	anon := &entities.EventGuest{
		ID: "third-id", EventID: "ev1", GuestName: "Ann", GuestContact: "ann@example.com",
		RSVPStatus: domain.RSVPGoing, CreatedAt: later, UpdatedAt: later,
	}
	require.NoError(t, store.Guests().Upsert(ctx, anon))
	assert.Equal(t, "user-ann", anon.UserID)

	guests, err := store.Guests().FindByEventID(ctx, "ev1")
	require.NoError(t, err)
	assert.Len(t, guests, 1)
}

func TestGuestRepository_UpsertRefusesOtherUser(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")
	now := time.Date(2030, 5, 3, 10, 0, 0, 0, time.UTC)
	guest := func(id, userID string, status domain.RSVPStatus) *entities.EventGuest {
		return &entities.EventGuest{
			ID: id, EventID: "ev1", UserID: userID, GuestName: "Ann",
			GuestContact: "ann@example.com", RSVPStatus: status, CreatedAt: now, UpdatedAt: now,
		}
	}

	first := guest("id-a", "user-a", domain.RSVPGoing)
	require.NoError(t, store.Guests().Upsert(ctx, first))

	err := store.Guests().Upsert(ctx, guest("id-b", "user-b", domain.RSVPCant))
	assert.ErrorIs(t, err, domain.ErrForbidden)

	stored, err := store.Guests().FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-a", stored.UserID)
	assert.Equal(t, domain.RSVPGoing, stored.RSVPStatus)

	same := guest("id-c", "user-a", domain.RSVPMaybe)
	require.NoError(t, store.Guests().Upsert(ctx, same))
	assert.Equal(t, first.ID, same.ID)
	assert.Equal(t, domain.RSVPMaybe, same.RSVPStatus)
}

func TestBringItemRepository_ConcurrentClaimSingleWinner(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")

	const contenders = 8
	guests := make([]*entities.EventGuest, contenders)
	for i := range guests {
		guests[i] = seedGuest(t, store, "ev1", fmt.Sprintf("g%d@example.com", i))
	}

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins []string
	)
	for _, g := range guests {
		wg.Add(1)
		go func(guestID string) {
			defer wg.Done()
			ok, err := store.BringItems().Claim(ctx, "ev1-b1", guestID, "2")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins = append(wins, guestID)
				mu.Unlock()
			}
		}(g.ID)
	}
	wg.Wait()

	require.Len(t, wins, 1)
	item, err := store.BringItems().FindByID(ctx, "ev1-b1")
	require.NoError(t, err)
	assert.Equal(t, domain.BringClaimed, item.Status)
	assert.Equal(t, wins[0], item.ClaimedByGuestID)
}

func TestBringItemRepository_ClaimRules(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")
	g := seedGuest(t, store, "ev1", "ann@example.com")

	ok, err := store.BringItems().Claim(ctx, "ev1-b2", g.ID, "")
	require.NoError(t, err)
	assert.False(t, ok, "non-claimable item")

	ok, err = store.BringItems().MarkProvided(ctx, "ev1-b1")
	require.NoError(t, err)
	assert.False(t, ok, "provided before claimed")

	ok, err = store.BringItems().Claim(ctx, "ev1-b1", g.ID, "2")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = store.BringItems().Claim(ctx, "ev1-b1", g.ID, "2")
	require.NoError(t, err)
	assert.False(t, ok, "repeat claim")

	ok, err = store.BringItems().MarkProvided(ctx, "ev1-b1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestBringItemRepository_ClaimCancelledEvent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")
	g := seedGuest(t, store, "ev1", "ann@example.com")
	require.NoError(t, store.Events().Cancel(ctx, "ev1"))

	ok, err := store.BringItems().Claim(ctx, "ev1-b1", g.ID, "2")
	require.NoError(t, err)
	assert.False(t, ok)

	item, err := store.BringItems().FindByID(ctx, "ev1-b1")
	require.NoError(t, err)
	assert.Equal(t, domain.BringUnclaimed, item.Status)
}

func TestNotificationRepository_DueAndMarkSent(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")
	repo := store.Notifications()

	rows := []entities.NotificationSchedule{
		{ID: "n-bell", Type: domain.NotifyBell, ScheduledAt: testBell},
		{ID: "n-30", Type: domain.NotifyReminder30m, ScheduledAt: testBell.Add(-30 * time.Minute)},
	}
	require.NoError(t, repo.ReplaceUnsent(ctx, "ev1", rows))

	due, err := repo.FindDue(ctx, testBell.Add(-10*time.Minute), 10)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, "n-30", due[0].ID)

	ok, err := repo.MarkSent(ctx, "n-30", testBell.Add(-10*time.Minute))
	require.NoError(t, err)
	assert.True(t, ok)
	ok, err = repo.MarkSent(ctx, "n-30", testBell.Add(-9*time.Minute))
	require.NoError(t, err)
	assert.False(t, ok, "second sweeper loses")

	// sent rows survive a replace
	require.NoError(t, repo.ReplaceUnsent(ctx, "ev1", nil))
	all, err := repo.FindByEventID(ctx, "ev1")
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "n-30", all[0].ID)
	assert.False(t, all[0].SentAt.IsZero())
}

func TestEventRepository_LoadByGuestID(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")
	seedEvent(t, store, "ev2")
	g := seedGuest(t, store, "ev2", "ann@example.com")

	rows, err := store.Events().LoadByGuestID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, "ev2", rows.Event.ID)
	assert.Len(t, rows.BringItems, 2)
	assert.Len(t, rows.Guests, 1)

	_, err = store.Events().LoadByGuestID(ctx, "nobody")
	assert.ErrorIs(t, err, domain.ErrGuestNotFound)
}

func TestEventRepository_FindAttending(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	seedEvent(t, store, "ev1")
	seedEvent(t, store, "ev2")

	now := time.Date(2030, 5, 2, 10, 0, 0, 0, time.UTC)
	for _, g := range []*entities.EventGuest{
		{ID: "g1", EventID: "ev1", UserID: "u1", GuestName: "U", GuestContact: "u@x.io", RSVPStatus: domain.RSVPGoing},
		{ID: "g2", EventID: "ev2", UserID: "u1", GuestName: "U", GuestContact: "u@x.io", RSVPStatus: domain.RSVPCant},
	} {
		g.CreatedAt, g.UpdatedAt = now, now
		require.NoError(t, store.Guests().Upsert(ctx, g))
	}

	events, err := store.Events().FindAttendingByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "ev1", events[0].ID)
}

func TestProfileRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := store.Profiles()
	now := time.Date(2030, 5, 2, 10, 0, 0, 0, time.UTC)

	_, err := repo.FindByID(ctx, "u1")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
	assert.ErrorIs(t, repo.SetPushToken(ctx, "u1", "tok"), domain.ErrProfileNotFound)

	require.NoError(t, repo.Upsert(ctx, &entities.Profile{ID: "u1", Name: "Ann", UpdatedAt: now}))
	require.NoError(t, repo.SetPushToken(ctx, "u1", "ExponentPushToken[abc]"))
	require.NoError(t, repo.Upsert(ctx, &entities.Profile{ID: "u1", Name: "Ann B.", UpdatedAt: now}))

	got, err := repo.FindByID(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", got.Name)
	assert.Equal(t, "ExponentPushToken[abc]", got.PushToken)

	many, err := repo.FindByIDs(ctx, []string{"u1", "u2"})
	require.NoError(t, err)
	assert.Len(t, many, 1)
}

func TestGroupRepository(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()
	repo := store.Groups()
	now := time.Date(2030, 5, 2, 10, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Create(ctx, &entities.GuestGroup{ID: "grp1", OwnerUserID: "u1", Name: "Family", CreatedAt: now}))
	require.NoError(t, repo.AddMember(ctx, &entities.GuestGroupMember{ID: "m1", GroupID: "grp1", Name: "Bo", Contact: "bo@x.io"}))

	groups, err := repo.FindByOwner(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, groups, 1)
	require.Len(t, groups[0].Members, 1)
	assert.Equal(t, "Bo", groups[0].Members[0].Name)

	require.NoError(t, repo.Delete(ctx, "grp1"))
	assert.ErrorIs(t, repo.Delete(ctx, "grp1"), domain.ErrGroupNotFound)
	_, err = repo.FindByID(ctx, "grp1")
	assert.ErrorIs(t, err, domain.ErrGroupNotFound)
}
