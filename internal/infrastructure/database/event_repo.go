package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	pool *pgxpool.Pool
}

func NewEventRepository(pool *pgxpool.Pool) *EventRepository {
	return &EventRepository{pool: pool}
}

func (r *EventRepository) Create(ctx context.Context, rows *entities.EventRows) error {
	return pgx.BeginFunc(ctx, r.pool, func(tx pgx.Tx) error {
		e := rows.Event
		_, err := tx.Exec(ctx, `INSERT INTO events (`+eventColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)`,
			e.ID, e.HostUserID, e.Title, e.Description, e.StartTime, e.BellTime, timeToPgtype(e.EndTime),
			e.Timezone, e.AddressLine1, e.AddressLine2, e.City, e.State, e.PostalCode, e.InviteToken,
			e.IsCancelled, e.IsPublic, e.Capacity, e.CoverImageURL, e.CoverPublicID, e.CreatedAt, e.UpdatedAt)
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}

		batch := &pgx.Batch{}
		for _, s := range rows.Sections {
			batch.Queue(`INSERT INTO menu_sections (id, event_id, title, sort_order) VALUES ($1, $2, $3, $4)`,
				s.ID, s.EventID, s.Title, s.SortOrder)
		}
		for _, it := range rows.Items {
			tags := it.DietaryTags
			if tags == nil {
				tags = []string{}
			}
			batch.Queue(`INSERT INTO menu_items (id, section_id, name, description, dietary_tags, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				it.ID, it.SectionID, it.Name, it.Description, tags, it.SortOrder)
		}
		for _, b := range rows.BringItems {
			queueBringItemInsert(batch, &b)
		}
		for _, b := range rows.Schedule {
			batch.Queue(`INSERT INTO schedule_blocks (id, event_id, title, starts_at, notes, sort_order)
				VALUES ($1, $2, $3, $4, $5, $6)`,
				b.ID, b.EventID, b.Title, timeToPgtype(b.StartsAt), b.Notes, b.SortOrder)
		}
		if batch.Len() == 0 {
			return nil
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert event children: %w", err)
		}
		return nil
	})
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	e, err := scanEvent(r.pool.QueryRow(ctx, `SELECT `+eventColumns+` FROM events WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event by id: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) FindByHostUserID(ctx context.Context, userID string) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events WHERE host_user_id = $1 ORDER BY bell_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("get events by host: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) FindAttendingByUserID(ctx context.Context, userID string) ([]entities.Event, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+eventColumns+` FROM events
		WHERE id IN (
			SELECT event_id FROM event_guests
			WHERE user_id = $1 AND rsvp_status IN ('going', 'maybe')
		)
		ORDER BY bell_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("get attending events: %w", err)
	}
	return collectEvents(rows)
}

func (r *EventRepository) Update(ctx context.Context, e *entities.Event) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET
			title = $2, description = $3, start_time = $4, bell_time = $5, end_time = $6, timezone = $7,
			address_line1 = $8, address_line2 = $9, city = $10, state = $11, postal_code = $12,
			is_public = $13, capacity = $14, updated_at = $15
		WHERE id = $1`,
		e.ID, e.Title, e.Description, e.StartTime, e.BellTime, timeToPgtype(e.EndTime), e.Timezone,
		e.AddressLine1, e.AddressLine2, e.City, e.State, e.PostalCode,
		e.IsPublic, e.Capacity, e.UpdatedAt)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", e.ID, domain.ErrEventNotFound)
	}
	return nil
}

func (r *EventRepository) Cancel(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET is_cancelled = TRUE, updated_at = NOW() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound)
	}
	return nil
}

func (r *EventRepository) SetCover(ctx context.Context, id, url, publicID string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE events SET cover_image_url = $2, cover_public_id = $3, updated_at = NOW()
		WHERE id = $1`, id, url, publicID)
	if err != nil {
		return fmt.Errorf("set cover: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound)
	}
	return nil
}

const (
	sectionsByEventSQL = `SELECT id, event_id, title, sort_order FROM menu_sections WHERE event_id = $1 ORDER BY sort_order`
	itemsByEventSQL    = `SELECT i.id, i.section_id, i.name, i.description, i.dietary_tags, i.sort_order
		FROM menu_items i JOIN menu_sections s ON s.id = i.section_id
		WHERE s.event_id = $1 ORDER BY i.sort_order`
	scheduleByEventSQL = `SELECT id, event_id, title, starts_at, notes, sort_order
		FROM schedule_blocks WHERE event_id = $1 ORDER BY sort_order`
	cohostsByEventSQL = `SELECT event_id, user_id, created_at FROM event_cohosts WHERE event_id = $1 ORDER BY created_at`
)

func (r *EventRepository) FindMenu(ctx context.Context, eventID string) ([]entities.MenuSection, []entities.MenuItem, error) {
	rows, err := r.pool.Query(ctx, sectionsByEventSQL, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("get menu sections: %w", err)
	}
	sections, err := collectSections(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("scan menu sections: %w", err)
	}
	rows, err = r.pool.Query(ctx, itemsByEventSQL, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("get menu items: %w", err)
	}
	items, err := collectMenuItems(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("scan menu items: %w", err)
	}
	return sections, items, nil
}

func (r *EventRepository) FindSchedule(ctx context.Context, eventID string) ([]entities.ScheduleBlock, error) {
	rows, err := r.pool.Query(ctx, scheduleByEventSQL, eventID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return collectSchedule(rows)
}

func (r *EventRepository) AddCoHost(ctx context.Context, c *entities.CoHost) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO event_cohosts (event_id, user_id, created_at) VALUES ($1, $2, $3)
		ON CONFLICT (event_id, user_id) DO NOTHING`, c.EventID, c.UserID, c.CreatedAt)
	if err != nil {
		return fmt.Errorf("add cohost: %w", err)
	}
	return nil
}

func (r *EventRepository) FindCoHosts(ctx context.Context, eventID string) ([]entities.CoHost, error) {
	rows, err := r.pool.Query(ctx, cohostsByEventSQL, eventID)
	if err != nil {
		return nil, fmt.Errorf("get cohosts: %w", err)
	}
	return collectCoHosts(rows)
}

// LoadByGuestID sends every read of the guest view in one batch.
func (r *EventRepository) LoadByGuestID(ctx context.Context, guestID string) (*entities.EventRows, error) {
	const eventIDOf = `(SELECT event_id FROM event_guests WHERE id = $1)`
	batch := &pgx.Batch{}
	out := &entities.EventRows{}

	batch.Queue(`SELECT `+eventColumns+` FROM events WHERE id = `+eventIDOf, guestID).QueryRow(func(row pgx.Row) error {
		e, err := scanEvent(row)
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("guest %s: %w", guestID, domain.ErrGuestNotFound)
		}
		out.Event = e
		return err
	})
	batch.Queue(`SELECT id, event_id, title, sort_order FROM menu_sections WHERE event_id = `+eventIDOf+` ORDER BY sort_order`, guestID).
		Query(func(rows pgx.Rows) error {
			var err error
			out.Sections, err = collectSections(rows)
			return err
		})
	batch.Queue(`SELECT i.id, i.section_id, i.name, i.description, i.dietary_tags, i.sort_order
		FROM menu_items i JOIN menu_sections s ON s.id = i.section_id
		WHERE s.event_id = `+eventIDOf+` ORDER BY i.sort_order`, guestID).
		Query(func(rows pgx.Rows) error {
			var err error
			out.Items, err = collectMenuItems(rows)
			return err
		})
	batch.Queue(`SELECT `+bringItemColumns+` FROM bring_items WHERE event_id = `+eventIDOf+` ORDER BY sort_order`, guestID).
		Query(func(rows pgx.Rows) error {
			var err error
			out.BringItems, err = collectBringItems(rows)
			return err
		})
	batch.Queue(`SELECT id, event_id, title, starts_at, notes, sort_order
		FROM schedule_blocks WHERE event_id = `+eventIDOf+` ORDER BY sort_order`, guestID).
		Query(func(rows pgx.Rows) error {
			var err error
			out.Schedule, err = collectSchedule(rows)
			return err
		})
	batch.Queue(`SELECT `+guestColumns+` FROM event_guests WHERE event_id = `+eventIDOf+` ORDER BY created_at`, guestID).
		Query(func(rows pgx.Rows) error {
			var err error
			out.Guests, err = collectGuests(rows)
			return err
		})
	batch.Queue(`SELECT event_id, user_id, created_at FROM event_cohosts WHERE event_id = `+eventIDOf+` ORDER BY created_at`, guestID).
		Query(func(rows pgx.Rows) error {
			var err error
			out.CoHosts, err = collectCoHosts(rows)
			return err
		})

	if err := r.pool.SendBatch(ctx, batch).Close(); err != nil {
		if errors.Is(err, domain.ErrGuestNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("load guest view: %w", err)
	}
	return out, nil
}
