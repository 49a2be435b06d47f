package domain

import "time"

// PlannedNotification is a notification row to be inserted for an event.
type PlannedNotification struct {
	Type        NotificationType
	ScheduledAt time.Time
}

var notificationOffsets = []struct {
	typ    NotificationType
	before time.Duration
}{
	{NotifyBell, 0},
	{NotifyReminder30m, 30 * time.Minute},
	{NotifyReminder2h, 2 * time.Hour},
}

// PlanNotifications returns the bell, 30 minute and 2 hour reminders for a
// bell time. Rows whose fire time is not after now are left out, on create
// and on edit alike.
func PlanNotifications(bell, now time.Time) []PlannedNotification {
	out := make([]PlannedNotification, 0, len(notificationOffsets))
	for _, o := range notificationOffsets {
		at := bell.Add(-o.before)
		if !at.After(now) {
			continue
		}
		out = append(out, PlannedNotification{Type: o.typ, ScheduledAt: at})
	}
	return out
}
