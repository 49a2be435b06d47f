package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

var _ output.GuestRepository = (*GuestRepository)(nil)

type GuestRepository struct {
	db *sql.DB
}

// Upsert keys on (event_id, guest_contact) and keeps the id of the first
// row. A user already linked is never unlinked; a different user
// resubmitting the row gets ErrForbidden and changes nothing.
func (r *GuestRepository) Upsert(ctx context.Context, g *entities.EventGuest) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `INSERT INTO event_guests
				(id, event_id, user_id, guest_name, guest_contact, rsvp_status, wants_reminders, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
			ON CONFLICT (event_id, guest_contact) DO UPDATE SET
				guest_name = excluded.guest_name,
				rsvp_status = excluded.rsvp_status,
				wants_reminders = excluded.wants_reminders,
				user_id = COALESCE(event_guests.user_id, excluded.user_id),
				updated_at = excluded.updated_at
			WHERE event_guests.user_id IS NULL OR excluded.user_id IS NULL
				OR event_guests.user_id = excluded.user_id`,
			g.ID, g.EventID, nullString(g.UserID), g.GuestName, g.GuestContact, g.RSVPStatus, g.WantsReminders,
			utc(g.CreatedAt), utc(g.UpdatedAt))
		if err != nil {
			return fmt.Errorf("upsert guest: %w", err)
		}
		stored, err := scanGuest(tx.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM event_guests
			WHERE event_id = ? AND guest_contact = ?`, g.EventID, g.GuestContact))
		if err != nil {
			return fmt.Errorf("read upserted guest: %w", err)
		}
		if g.UserID != "" && stored.UserID != g.UserID {
			return fmt.Errorf("guest %s is linked to another user: %w", stored.ID, domain.ErrForbidden)
		}
		*g = stored
		return nil
	})
}

func (r *GuestRepository) FindByID(ctx context.Context, id string) (*entities.EventGuest, error) {
	g, err := scanGuest(r.db.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM event_guests WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guest %s: %w", id, domain.ErrGuestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return &g, nil
}

func (r *GuestRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.EventGuest, error) {
	return findGuests(ctx, r.db, eventID)
}

func findGuests(ctx context.Context, q queryer, eventID string) ([]entities.EventGuest, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+guestColumns+` FROM event_guests
		WHERE event_id = ? ORDER BY created_at, id`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get guests: %w", err)
	}
	return collect(rows, scanGuest)
}

func (r *GuestRepository) FindByEventIDAndUserID(ctx context.Context, eventID, userID string) (*entities.EventGuest, error) {
	g, err := scanGuest(r.db.QueryRowContext(ctx, `SELECT `+guestColumns+` FROM event_guests
		WHERE event_id = ? AND user_id = ? ORDER BY created_at LIMIT 1`, eventID, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("guest for user %s: %w", userID, domain.ErrGuestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get guest by user: %w", err)
	}
	return &g, nil
}

func (r *GuestRepository) MarkArrived(ctx context.Context, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE event_guests SET arrived_at = ?, updated_at = ? WHERE id = ?`,
		utc(at), utc(at), id)
	if err != nil {
		return fmt.Errorf("mark guest arrived: %w", err)
	}
	return expectOne(res, fmt.Errorf("guest %s: %w", id, domain.ErrGuestNotFound))
}
