package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/domain"
)

func TestBellRing_GoingGuestsWithTokens(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := env.createEvent(t, "host-1", "Dinner", 3*time.Hour)

	env.rsvpAs(t, &view.Event, "u-going", "a@example.com", domain.RSVPGoing)
	env.rsvpAs(t, &view.Event, "u-going-2", "b@example.com", domain.RSVPGoing)
	env.rsvpAs(t, &view.Event, "u-maybe", "c@example.com", domain.RSVPMaybe)
	env.rsvpAs(t, &view.Event, "", "d@example.com", domain.RSVPGoing)
	env.effects.Wait()
	before := len(env.push.sent())

	sent, err := env.bell.Ring(ctx, "host-1", view.Event.ID, " Come now ")
	require.NoError(t, err)
	assert.Equal(t, 2, sent)

	msgs := env.push.sent()[before:]
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, "Come now", m.Body)
		assert.Equal(t, domain.BellSound, m.Sound)
		assert.Equal(t, domain.PushBellRing, m.Data.Type)
		assert.Equal(t, view.Event.ID, m.Data.EventID)
		assert.Equal(t, "Come now", m.Data.Message)
		assert.Equal(t, "event/"+view.Event.ID+"/bell", m.Data.URL)
	}
}

func TestBellRing_Rules(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := env.createEvent(t, "host-1", "Dinner", 3*time.Hour)

	_, err := env.bell.Ring(ctx, "guest", view.Event.ID, "")
	assert.ErrorIs(t, err, domain.ErrEventNotFound)

	_, err = env.bell.Ring(ctx, "", view.Event.ID, "")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	sent, err := env.bell.Ring(ctx, "host-1", view.Event.ID, "")
	require.NoError(t, err)
	assert.Zero(t, sent, "no reachable guests")
}

func TestBellRing_DefaultBodyIsLocalized(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := env.createEvent(t, "host-1", "Cassoulet", 3*time.Hour)
	env.rsvpAs(t, &view.Event, "u-fr", "fr@example.com", domain.RSVPGoing)
	locale := "fr"
	_, err := env.profiles.Update(ctx, "u-fr", profilePatch(nil, &locale))
	require.NoError(t, err)
	env.effects.Wait()
	before := len(env.push.sent())

	_, err = env.bell.Ring(ctx, "host-1", view.Event.ID, "")
	require.NoError(t, err)

	msgs := env.push.sent()[before:]
	require.Len(t, msgs, 1)
	assert.Contains(t, msgs[0].Body, "Cassoulet")
	assert.Empty(t, msgs[0].Data.Message)
}
