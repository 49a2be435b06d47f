//go:build integration

package database

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
)

// Run with: DINNERBELL_TEST_DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/database/
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DINNERBELL_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("DINNERBELL_TEST_DATABASE_URL not set")
	}
	require.NoError(t, RunMigrations(dsn, migrationsDir, zerolog.Nop()))
	pool, err := NewPool(context.Background(), dsn, zerolog.Nop())
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func newID() string { return uuid.Must(uuid.NewV7()).String() }

func createTestEvent(t *testing.T, pool *pgxpool.Pool) *entities.EventRows {
	t.Helper()
	id := newID()
	now := time.Now().UTC().Truncate(time.Microsecond)
	bell := now.Add(48 * time.Hour)
	sectionID := newID()
	rows := &entities.EventRows{
		Event: entities.Event{
			ID: id, HostUserID: "host-" + id, Title: "Supper", StartTime: bell.Add(-time.Hour),
			BellTime: bell, Timezone: "Europe/Paris", InviteToken: "tok-" + id, CreatedAt: now, UpdatedAt: now,
		},
		Sections: []entities.MenuSection{{ID: sectionID, EventID: id, Title: "Mains"}},
		Items: []entities.MenuItem{
			{ID: newID(), SectionID: sectionID, Name: "Roast", DietaryTags: []string{"gluten-free"}},
		},
		BringItems: []entities.BringItem{
			{ID: newID(), EventID: id, Name: "Wine", Quantity: "2", Category: domain.CategoryDrink,
				IsClaimable: true, Status: domain.BringUnclaimed, UpdatedAt: now},
		},
		Schedule: []entities.ScheduleBlock{{ID: newID(), EventID: id, Title: "Aperitif"}},
	}
	require.NoError(t, NewEventRepository(pool).Create(context.Background(), rows))
	return rows
}

func createTestGuest(t *testing.T, pool *pgxpool.Pool, eventID, userID, contact string) *entities.EventGuest {
	t.Helper()
	now := time.Now().UTC()
	g := &entities.EventGuest{
		ID: newID(), EventID: eventID, UserID: userID, GuestName: contact, GuestContact: contact,
		RSVPStatus: domain.RSVPGoing, CreatedAt: now, UpdatedAt: now,
	}
	require.NoError(t, NewGuestRepository(pool).Upsert(context.Background(), g))
	return g
}

func TestPostgresClaim_SingleWinner(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	rows := createTestEvent(t, pool)
	itemID := rows.BringItems[0].ID
	repo := NewBringItemRepository(pool)

	const contenders = 8
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		wins int
	)
	for i := 0; i < contenders; i++ {
		g := createTestGuest(t, pool, rows.Event.ID, "", newID()+"@example.com")
		wg.Add(1)
		go func(guestID string) {
			defer wg.Done()
			ok, err := repo.Claim(ctx, itemID, guestID, "2")
			assert.NoError(t, err)
			if ok {
				mu.Lock()
				wins++
				mu.Unlock()
			}
		}(g.ID)
	}
	wg.Wait()
	assert.Equal(t, 1, wins)
}

func TestPostgresClaim_CancelledEvent(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	rows := createTestEvent(t, pool)
	g := createTestGuest(t, pool, rows.Event.ID, "", "ann@example.com")
	require.NoError(t, NewEventRepository(pool).Cancel(ctx, rows.Event.ID))

	ok, err := NewBringItemRepository(pool).Claim(ctx, rows.BringItems[0].ID, g.ID, "2")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPostgresGuestUpsert_KeepsLinkedUser(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	rows := createTestEvent(t, pool)
	first := createTestGuest(t, pool, rows.Event.ID, "user-a", "ann@example.com")

	now := time.Now().UTC()
	other := &entities.EventGuest{
		ID: newID(), EventID: rows.Event.ID, UserID: "user-b", GuestName: "Ann",
		GuestContact: "ann@example.com", RSVPStatus: domain.RSVPCant, CreatedAt: now, UpdatedAt: now,
	}
	assert.ErrorIs(t, NewGuestRepository(pool).Upsert(ctx, other), domain.ErrForbidden)

	stored, err := NewGuestRepository(pool).FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "user-a", stored.UserID)
	assert.Equal(t, domain.RSVPGoing, stored.RSVPStatus)
}

func TestPostgresLoadByGuestID(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	rows := createTestEvent(t, pool)
	g := createTestGuest(t, pool, rows.Event.ID, "", "ann@example.com")

	loaded, err := NewEventRepository(pool).LoadByGuestID(ctx, g.ID)
	require.NoError(t, err)
	assert.Equal(t, rows.Event.ID, loaded.Event.ID)
	assert.Len(t, loaded.Sections, 1)
	require.Len(t, loaded.Items, 1)
	assert.Equal(t, []string{"gluten-free"}, loaded.Items[0].DietaryTags)
	assert.Len(t, loaded.BringItems, 1)
	assert.Len(t, loaded.Schedule, 1)
	require.Len(t, loaded.Guests, 1)
	assert.Equal(t, g.ID, loaded.Guests[0].ID)

	_, err = NewEventRepository(pool).LoadByGuestID(ctx, "no-such-guest")
	assert.ErrorIs(t, err, domain.ErrGuestNotFound)
}
