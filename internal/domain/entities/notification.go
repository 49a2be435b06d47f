package entities

import (
	"time"

	"dinnerbell/internal/domain"
)

// NotificationSchedule is pending while SentAt is zero.
type NotificationSchedule struct {
	ID          string                  `json:"id"`
	EventID     string                  `json:"event_id"`
	Type        domain.NotificationType `json:"type"`
	ScheduledAt time.Time               `json:"scheduled_at"`
	SentAt      time.Time               `json:"sent_at,omitzero"`
}
