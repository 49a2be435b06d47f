package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

// NotificationScheduler keeps an event's pending reminder rows in line with
// its bell time.
type NotificationScheduler struct {
	notificationRepo output.NotificationRepository
	now              func() time.Time
}

func NewNotificationScheduler(notificationRepo output.NotificationRepository, now func() time.Time) *NotificationScheduler {
	return &NotificationScheduler{notificationRepo: notificationRepo, now: now}
}

// Schedule replaces the event's unsent rows with a fresh plan. Sent rows
// are kept as history.
func (s *NotificationScheduler) Schedule(ctx context.Context, event *entities.Event) ([]entities.NotificationSchedule, error) {
	plan := domain.PlanNotifications(event.BellTime, s.now())
	rows := make([]entities.NotificationSchedule, 0, len(plan))
	for _, p := range plan {
		rows = append(rows, entities.NotificationSchedule{
			ID:          uuid.Must(uuid.NewV7()).String(),
			EventID:     event.ID,
			Type:        p.Type,
			ScheduledAt: p.ScheduledAt,
		})
	}
	if err := s.notificationRepo.ReplaceUnsent(ctx, event.ID, rows); err != nil {
		return nil, fmt.Errorf("schedule notifications: %w", err)
	}
	return rows, nil
}

// Clear drops the event's unsent rows.
func (s *NotificationScheduler) Clear(ctx context.Context, eventID string) error {
	if err := s.notificationRepo.DeleteUnsent(ctx, eventID); err != nil {
		return fmt.Errorf("clear notifications: %w", err)
	}
	return nil
}
