package domain

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanNotifications(t *testing.T) {
	bell := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		now  time.Time
		want []NotificationType
	}{
		{"all ahead", bell.Add(-3 * time.Hour), []NotificationType{NotifyBell, NotifyReminder30m, NotifyReminder2h}},
		{"2h reminder passed", bell.Add(-time.Hour), []NotificationType{NotifyBell, NotifyReminder30m}},
		{"exactly at 2h mark", bell.Add(-2 * time.Hour), []NotificationType{NotifyBell, NotifyReminder30m}},
		{"only bell left", bell.Add(-10 * time.Minute), []NotificationType{NotifyBell}},
		{"bell passed", bell.Add(time.Minute), []NotificationType{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlanNotifications(bell, tt.now)
			types := make([]NotificationType, 0, len(got))
			for _, p := range got {
				types = append(types, p.Type)
			}
			assert.Equal(t, tt.want, types)
		})
	}
}

func TestPlanNotifications_Offsets(t *testing.T) {
	bell := time.Date(2026, 6, 1, 19, 0, 0, 0, time.UTC)
	got := PlanNotifications(bell, bell.Add(-24*time.Hour))
	require.Len(t, got, 3)

	at := map[NotificationType]time.Time{}
	for _, p := range got {
		at[p.Type] = p.ScheduledAt
	}
	assert.Equal(t, bell, at[NotifyBell])
	assert.Equal(t, bell.Add(-30*time.Minute), at[NotifyReminder30m])
	assert.Equal(t, bell.Add(-2*time.Hour), at[NotifyReminder2h])
}

func TestCode(t *testing.T) {
	assert.Equal(t, "", Code(nil))
	assert.Equal(t, "", Code(fmt.Errorf("boom")))
	assert.Equal(t, "invite_invalid", Code(ErrInviteInvalid))
	assert.Equal(t, "validation", Code(fmt.Errorf("%w: title is required", ErrValidation)))
	assert.Equal(t, "item_not_claimable", Code(fmt.Errorf("claim: %w", fmt.Errorf("load: %w", ErrItemNotClaimable))))
}

func TestCode_TwoSentinelsIsStable(t *testing.T) {
	both := fmt.Errorf("%w: %w", ErrForbidden, ErrEventNotFound)
	for i := 0; i < 50; i++ {
		require.Equal(t, "event_not_found", Code(both))
	}
	assert.Equal(t, "validation", Code(fmt.Errorf("%w: %w", ErrChannelUnavailable, ErrValidation)))
}

func TestStatusValid(t *testing.T) {
	assert.True(t, RSVPGoing.Valid())
	assert.False(t, RSVPStatus("yes").Valid())
	assert.True(t, CategorySupplies.Valid())
	assert.False(t, BringCategory("food").Valid())
}
