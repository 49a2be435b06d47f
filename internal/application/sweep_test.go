package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dinnerbell/internal/domain"
)

func TestSweep_DeliversOnce(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := env.createEvent(t, "host-1", "Supper", 3*time.Hour)
	env.rsvpAs(t, &view.Event, "u-going", "a@example.com", domain.RSVPGoing)
	env.rsvpAs(t, &view.Event, "u-maybe", "b@example.com", domain.RSVPMaybe)
	env.effects.Wait()
	before := len(env.push.sent())

	env.advance(2*time.Hour + 45*time.Minute)
	report, err := env.sweep.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Due: 2, Consumed: 2, Delivered: 2}, report)

	msgs := env.push.sent()[before:]
	require.Len(t, msgs, 2)
	for _, m := range msgs {
		assert.Equal(t, "ExponentPushToken[u-going]", m.To)
		assert.Equal(t, domain.PushReminder, m.Data.Type)
	}

	report, err = env.sweep.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Due, "sent rows are not due again")

	env.advance(time.Hour)
	report, err = env.sweep.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Due: 1, Consumed: 1, Delivered: 1}, report)
	last := env.push.sent()
	assert.Equal(t, domain.PushBellRing, last[len(last)-1].Data.Type)
	assert.Equal(t, domain.BellSound, last[len(last)-1].Sound)
}

func TestSweep_CancelledEventConsumedSilently(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := env.createEvent(t, "host-1", "Cancelled", time.Hour)
	env.rsvpAs(t, &view.Event, "u-going", "a@example.com", domain.RSVPGoing)
	env.effects.Wait()
	before := len(env.push.sent())

	// cancel in storage only, so the rows stay behind
	require.NoError(t, env.store.Events().Cancel(ctx, view.Event.ID))

	env.advance(2 * time.Hour)
	report, err := env.sweep.Run(ctx)
	require.NoError(t, err)
	assert.Equal(t, SweepReport{Due: 2, Consumed: 2}, report)
	assert.Len(t, env.push.sent(), before)

	report, err = env.sweep.Run(ctx)
	require.NoError(t, err)
	assert.Zero(t, report.Due)
}

func TestSweep_ConcurrentSweepersShareRows(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	view := env.createEvent(t, "host-1", "Race", 3*time.Hour)
	env.rsvpAs(t, &view.Event, "u-going", "a@example.com", domain.RSVPGoing)
	env.effects.Wait()
	env.advance(4 * time.Hour)

	reports := make(chan SweepReport, 2)
	for range 2 {
		go func() {
			r, err := env.sweep.Run(ctx)
			assert.NoError(t, err)
			reports <- r
		}()
	}
	total := (<-reports).Consumed + (<-reports).Consumed
	assert.Equal(t, 3, total, "each row consumed by exactly one sweeper")
}
