package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

var _ output.EventRepository = (*EventRepository)(nil)

type EventRepository struct {
	db *sql.DB
}

func (r *EventRepository) Create(ctx context.Context, rows *entities.EventRows) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		e := rows.Event
		_, err := tx.ExecContext(ctx, `INSERT INTO events (`+eventColumns+`)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			e.ID, e.HostUserID, e.Title, e.Description, utc(e.StartTime), utc(e.BellTime), nullTime(e.EndTime),
			e.Timezone, e.AddressLine1, e.AddressLine2, e.City, e.State, e.PostalCode, e.InviteToken,
			e.IsCancelled, e.IsPublic, e.Capacity, e.CoverImageURL, e.CoverPublicID, utc(e.CreatedAt), utc(e.UpdatedAt))
		if err != nil {
			return fmt.Errorf("insert event: %w", err)
		}
		for _, s := range rows.Sections {
			if _, err := tx.ExecContext(ctx, `INSERT INTO menu_sections (id, event_id, title, sort_order)
				VALUES (?, ?, ?, ?)`, s.ID, s.EventID, s.Title, s.SortOrder); err != nil {
				return fmt.Errorf("insert menu section: %w", err)
			}
		}
		for _, it := range rows.Items {
			tags, err := encodeTags(it.DietaryTags)
			if err != nil {
				return err
			}
			if _, err := tx.ExecContext(ctx, `INSERT INTO menu_items (id, section_id, name, description, dietary_tags, sort_order)
				VALUES (?, ?, ?, ?, ?, ?)`, it.ID, it.SectionID, it.Name, it.Description, tags, it.SortOrder); err != nil {
				return fmt.Errorf("insert menu item: %w", err)
			}
		}
		for i := range rows.BringItems {
			if err := insertBringItem(ctx, tx, &rows.BringItems[i]); err != nil {
				return err
			}
		}
		for _, b := range rows.Schedule {
			if _, err := tx.ExecContext(ctx, `INSERT INTO schedule_blocks (id, event_id, title, starts_at, notes, sort_order)
				VALUES (?, ?, ?, ?, ?, ?)`, b.ID, b.EventID, b.Title, nullTime(b.StartsAt), b.Notes, b.SortOrder); err != nil {
				return fmt.Errorf("insert schedule block: %w", err)
			}
		}
		return nil
	})
}

func (r *EventRepository) FindByID(ctx context.Context, id string) (*entities.Event, error) {
	return findEvent(ctx, r.db, `SELECT `+eventColumns+` FROM events WHERE id = ?`, id)
}

func findEvent(ctx context.Context, q queryer, query, id string) (*entities.Event, error) {
	e, err := scanEvent(q.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	return &e, nil
}

func (r *EventRepository) FindByHostUserID(ctx context.Context, userID string) ([]entities.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events WHERE host_user_id = ? ORDER BY bell_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("get events by host: %w", err)
	}
	return collect(rows, scanEvent)
}

func (r *EventRepository) FindAttendingByUserID(ctx context.Context, userID string) ([]entities.Event, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+eventColumns+` FROM events
		WHERE id IN (
			SELECT event_id FROM event_guests
			WHERE user_id = ? AND rsvp_status IN ('going', 'maybe')
		)
		ORDER BY bell_time`, userID)
	if err != nil {
		return nil, fmt.Errorf("get attending events: %w", err)
	}
	return collect(rows, scanEvent)
}

func (r *EventRepository) Update(ctx context.Context, e *entities.Event) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET
			title = ?, description = ?, start_time = ?, bell_time = ?, end_time = ?, timezone = ?,
			address_line1 = ?, address_line2 = ?, city = ?, state = ?, postal_code = ?,
			is_public = ?, capacity = ?, updated_at = ?
		WHERE id = ?`,
		e.Title, e.Description, utc(e.StartTime), utc(e.BellTime), nullTime(e.EndTime), e.Timezone,
		e.AddressLine1, e.AddressLine2, e.City, e.State, e.PostalCode,
		e.IsPublic, e.Capacity, utc(e.UpdatedAt), e.ID)
	if err != nil {
		return fmt.Errorf("update event: %w", err)
	}
	return expectOne(res, fmt.Errorf("event %s: %w", e.ID, domain.ErrEventNotFound))
}

func (r *EventRepository) Cancel(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET is_cancelled = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("cancel event: %w", err)
	}
	return expectOne(res, fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound))
}

func (r *EventRepository) SetCover(ctx context.Context, id, url, publicID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE events SET cover_image_url = ?, cover_public_id = ? WHERE id = ?`,
		url, publicID, id)
	if err != nil {
		return fmt.Errorf("set cover: %w", err)
	}
	return expectOne(res, fmt.Errorf("event %s: %w", id, domain.ErrEventNotFound))
}

func expectOne(res sql.Result, notFound error) error {
	n, err := affected(res)
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}

func (r *EventRepository) FindMenu(ctx context.Context, eventID string) ([]entities.MenuSection, []entities.MenuItem, error) {
	return findMenu(ctx, r.db, eventID)
}

func findMenu(ctx context.Context, q queryer, eventID string) ([]entities.MenuSection, []entities.MenuItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, event_id, title, sort_order FROM menu_sections
		WHERE event_id = ? ORDER BY sort_order`, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("get menu sections: %w", err)
	}
	sections, err := collect(rows, scanSection)
	if err != nil {
		return nil, nil, fmt.Errorf("scan menu sections: %w", err)
	}
	rows, err = q.QueryContext(ctx, `SELECT i.id, i.section_id, i.name, i.description, i.dietary_tags, i.sort_order
		FROM menu_items i JOIN menu_sections s ON s.id = i.section_id
		WHERE s.event_id = ? ORDER BY i.sort_order`, eventID)
	if err != nil {
		return nil, nil, fmt.Errorf("get menu items: %w", err)
	}
	items, err := collect(rows, scanMenuItem)
	if err != nil {
		return nil, nil, fmt.Errorf("scan menu items: %w", err)
	}
	return sections, items, nil
}

func (r *EventRepository) FindSchedule(ctx context.Context, eventID string) ([]entities.ScheduleBlock, error) {
	return findSchedule(ctx, r.db, eventID)
}

func findSchedule(ctx context.Context, q queryer, eventID string) ([]entities.ScheduleBlock, error) {
	rows, err := q.QueryContext(ctx, `SELECT id, event_id, title, starts_at, notes, sort_order
		FROM schedule_blocks WHERE event_id = ? ORDER BY sort_order`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get schedule: %w", err)
	}
	return collect(rows, scanScheduleBlock)
}

func (r *EventRepository) AddCoHost(ctx context.Context, c *entities.CoHost) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO event_cohosts (event_id, user_id, created_at) VALUES (?, ?, ?)
		ON CONFLICT (event_id, user_id) DO NOTHING`, c.EventID, c.UserID, utc(c.CreatedAt))
	if err != nil {
		return fmt.Errorf("add cohost: %w", err)
	}
	return nil
}

func (r *EventRepository) FindCoHosts(ctx context.Context, eventID string) ([]entities.CoHost, error) {
	return findCoHosts(ctx, r.db, eventID)
}

func findCoHosts(ctx context.Context, q queryer, eventID string) ([]entities.CoHost, error) {
	rows, err := q.QueryContext(ctx, `SELECT event_id, user_id, created_at FROM event_cohosts
		WHERE event_id = ? ORDER BY created_at`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get cohosts: %w", err)
	}
	return collect(rows, scanCoHost)
}

// LoadByGuestID reads the guest view inside one transaction so every part
// comes from the same snapshot.
func (r *EventRepository) LoadByGuestID(ctx context.Context, guestID string) (*entities.EventRows, error) {
	out := &entities.EventRows{}
	err := withTx(ctx, r.db, func(tx *sql.Tx) error {
		var eventID string
		err := tx.QueryRowContext(ctx, `SELECT event_id FROM event_guests WHERE id = ?`, guestID).Scan(&eventID)
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("guest %s: %w", guestID, domain.ErrGuestNotFound)
		}
		if err != nil {
			return fmt.Errorf("get guest: %w", err)
		}
		event, err := findEvent(ctx, tx, `SELECT `+eventColumns+` FROM events WHERE id = ?`, eventID)
		if err != nil {
			return err
		}
		out.Event = *event
		if out.Sections, out.Items, err = findMenu(ctx, tx, eventID); err != nil {
			return err
		}
		if out.BringItems, err = findBringItems(ctx, tx, eventID); err != nil {
			return err
		}
		if out.Schedule, err = findSchedule(ctx, tx, eventID); err != nil {
			return err
		}
		if out.Guests, err = findGuests(ctx, tx, eventID); err != nil {
			return err
		}
		out.CoHosts, err = findCoHosts(ctx, tx, eventID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
