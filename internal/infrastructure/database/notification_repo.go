package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

var _ output.NotificationRepository = (*NotificationRepository)(nil)

type NotificationRepository struct {
	pool *pgxpool.Pool
}

func NewNotificationRepository(pool *pgxpool.Pool) *NotificationRepository {
	return &NotificationRepository{pool: pool}
}

const deleteUnsentSQL = `DELETE FROM notification_schedules WHERE event_id = $1 AND sent_at IS NULL`

func (r *NotificationRepository) ReplaceUnsent(ctx context.Context, eventID string, rows []entities.NotificationSchedule) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, deleteUnsentSQL, eventID); err != nil {
			return fmt.Errorf("delete unsent notifications: %w", err)
		}
		for _, n := range rows {
			if _, err := tx.Exec(ctx, `INSERT INTO notification_schedules (id, event_id, type, scheduled_at)
				VALUES ($1, $2, $3, $4)`, n.ID, eventID, n.Type, n.ScheduledAt); err != nil {
				return fmt.Errorf("insert notification: %w", err)
			}
		}
		return nil
	})
}

func (r *NotificationRepository) DeleteUnsent(ctx context.Context, eventID string) error {
	if _, err := r.pool.Exec(ctx, deleteUnsentSQL, eventID); err != nil {
		return fmt.Errorf("delete unsent notifications: %w", err)
	}
	return nil
}

func (r *NotificationRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.NotificationSchedule, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, event_id, type, scheduled_at, sent_at
		FROM notification_schedules WHERE event_id = $1 ORDER BY scheduled_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get notifications: %w", err)
	}
	return collectNotifications(rows)
}

func (r *NotificationRepository) FindDue(ctx context.Context, now time.Time, limit int) ([]entities.NotificationSchedule, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, event_id, type, scheduled_at, sent_at
		FROM notification_schedules
		WHERE sent_at IS NULL AND scheduled_at <= $1
		ORDER BY scheduled_at
		LIMIT $2`, now, limit)
	if err != nil {
		return nil, fmt.Errorf("find due notifications: %w", err)
	}
	return collectNotifications(rows)
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id string, at time.Time) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE notification_schedules SET sent_at = $2 WHERE id = $1 AND sent_at IS NULL`, id, at)
	if err != nil {
		return false, fmt.Errorf("mark notification sent: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func collectNotifications(rows pgx.Rows) ([]entities.NotificationSchedule, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.NotificationSchedule, error) {
		var (
			n    entities.NotificationSchedule
			sent pgtype.Timestamptz
		)
		err := row.Scan(&n.ID, &n.EventID, &n.Type, &n.ScheduledAt, &sent)
		n.SentAt = pgtypeTimestamptzToTime(sent)
		return n, err
	})
}
