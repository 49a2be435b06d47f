package output

import (
	"context"
	"time"

	"dinnerbell/internal/domain/entities"
)

type NotificationRepository interface {
	// ReplaceUnsent deletes the event's unsent rows and inserts rows, in one
	// transaction.
	ReplaceUnsent(ctx context.Context, eventID string, rows []entities.NotificationSchedule) error
	DeleteUnsent(ctx context.Context, eventID string) error
	FindByEventID(ctx context.Context, eventID string) ([]entities.NotificationSchedule, error)
	// FindDue returns unsent rows with scheduled_at <= now, oldest first.
	FindDue(ctx context.Context, now time.Time, limit int) ([]entities.NotificationSchedule, error)
	// MarkSent sets sent_at if still unset; false when another sweep won.
	MarkSent(ctx context.Context, id string, at time.Time) (bool, error)
}
