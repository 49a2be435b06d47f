package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

var _ output.NotificationRepository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	db *sql.DB
}

const (
	notificationColumns = `id, event_id, type, scheduled_at, sent_at`
	deleteUnsentSQL     = `DELETE FROM notification_schedules WHERE event_id = ? AND sent_at IS NULL`
)

func (r *NotificationRepository) ReplaceUnsent(ctx context.Context, eventID string, rows []entities.NotificationSchedule) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, deleteUnsentSQL, eventID); err != nil {
			return fmt.Errorf("delete unsent notifications: %w", err)
		}
		for _, n := range rows {
			if _, err := tx.ExecContext(ctx, `INSERT INTO notification_schedules (id, event_id, type, scheduled_at)
				VALUES (?, ?, ?, ?)`, n.ID, eventID, n.Type, utc(n.ScheduledAt)); err != nil {
				return fmt.Errorf("insert notification: %w", err)
			}
		}
		return nil
	})
}

func (r *NotificationRepository) DeleteUnsent(ctx context.Context, eventID string) error {
	if _, err := r.db.ExecContext(ctx, deleteUnsentSQL, eventID); err != nil {
		return fmt.Errorf("delete unsent notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.NotificationSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+notificationColumns+` FROM notification_schedules
		WHERE event_id = ? ORDER BY scheduled_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

func (r *NotificationRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]entities.NotificationSchedule, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+notificationColumns+` FROM notification_schedules
		WHERE sent_at IS NULL AND scheduled_at <= ?
		ORDER BY scheduled_at
		LIMIT ?`, utc(now), limit)
	if err != nil {
		return nil, fmt.Errorf("find due notifications: %w", err)
	}
	return collect(rows, scanNotification)
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE notification_schedules SET sent_at = ? WHERE id = ? AND sent_at IS NULL`,
		utc(at), id)
	if err != nil {
		return false, fmt.Errorf("mark notification sent: %w", err)
	}
	n, err := affected(res)
	return n == 1, err
}
