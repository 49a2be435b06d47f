package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

var _ output.GuestRepository = (*GuestRepository)(nil)

type GuestRepository struct {
	pool *pgxpool.Pool
}

func NewGuestRepository(pool *pgxpool.Pool) *GuestRepository {
	return &GuestRepository{pool: pool}
}

// Upsert keys on (event_id, guest_contact). A repeat RSVP keeps the first
// row's id and never unlinks a user already attached to it. A different
// user resubmitting the row matches nothing and gets ErrForbidden.
func (r *GuestRepository) Upsert(ctx context.Context, g *entities.EventGuest) error {
	var userID pgtype.Text
	err := r.pool.QueryRow(ctx, `INSERT INTO event_guests
			(id, event_id, user_id, guest_name, guest_contact, rsvp_status, wants_reminders, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (event_id, guest_contact) DO UPDATE SET
			guest_name = EXCLUDED.guest_name,
			rsvp_status = EXCLUDED.rsvp_status,
			wants_reminders = EXCLUDED.wants_reminders,
			user_id = COALESCE(event_guests.user_id, EXCLUDED.user_id),
			updated_at = EXCLUDED.updated_at
		WHERE event_guests.user_id IS NULL OR EXCLUDED.user_id IS NULL
			OR event_guests.user_id = EXCLUDED.user_id
		RETURNING id, user_id, created_at`,
		g.ID, g.EventID, textToPgtype(g.UserID), g.GuestName, g.GuestContact, g.RSVPStatus, g.WantsReminders, g.UpdatedAt,
	).Scan(&g.ID, &userID, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("guest %s/%s is linked to another user: %w", g.EventID, g.GuestContact, domain.ErrForbidden)
	}
	if err != nil {
		return fmt.Errorf("upsert guest: %w", err)
	}
	g.UserID = userID.String
	return nil
}

func (r *GuestRepository) FindByID(ctx context.Context, id string) (*entities.EventGuest, error) {
	g, err := scanGuest(r.pool.QueryRow(ctx, `SELECT `+guestColumns+` FROM event_guests WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("guest %s: %w", id, domain.ErrGuestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get guest: %w", err)
	}
	return &g, nil
}

func (r *GuestRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.EventGuest, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+guestColumns+` FROM event_guests WHERE event_id = $1 ORDER BY created_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get guests: %w", err)
	}
	return collectGuests(rows)
}

func (r *GuestRepository) FindByEventIDAndUserID(ctx context.Context, eventID, userID string) (*entities.EventGuest, error) {
	g, err := scanGuest(r.pool.QueryRow(ctx, `SELECT `+guestColumns+` FROM event_guests
		WHERE event_id = $1 AND user_id = $2 ORDER BY created_at LIMIT 1`, eventID, userID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("guest for user %s: %w", userID, domain.ErrGuestNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get guest by user: %w", err)
	}
	return &g, nil
}

func (r *GuestRepository) MarkArrived(ctx context.Context, id string, at time.Time) error {
	tag, err := r.pool.Exec(ctx, `UPDATE event_guests SET arrived_at = $2, updated_at = $2 WHERE id = $1`, id, at)
	if err != nil {
		return fmt.Errorf("mark guest arrived: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("guest %s: %w", id, domain.ErrGuestNotFound)
	}
	return nil
}
