package database

import (
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"dinnerbell/internal/domain/entities"
)

// pgtypeTimestamptzToTime returns t.Time when Valid, else zero time.
func pgtypeTimestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time
}

// timeToPgtype maps the zero time to NULL.
func timeToPgtype(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

func textToPgtype(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

const eventColumns = `id, host_user_id, title, description, start_time, bell_time, end_time,
	timezone, address_line1, address_line2, city, state, postal_code, invite_token,
	is_cancelled, is_public, capacity, cover_image_url, cover_public_id, created_at, updated_at`

func scanEvent(row pgx.Row) (entities.Event, error) {
	var (
		e   entities.Event
		end pgtype.Timestamptz
	)
	err := row.Scan(&e.ID, &e.HostUserID, &e.Title, &e.Description, &e.StartTime, &e.BellTime, &end,
		&e.Timezone, &e.AddressLine1, &e.AddressLine2, &e.City, &e.State, &e.PostalCode, &e.InviteToken,
		&e.IsCancelled, &e.IsPublic, &e.Capacity, &e.CoverImageURL, &e.CoverPublicID, &e.CreatedAt, &e.UpdatedAt)
	e.EndTime = pgtypeTimestamptzToTime(end)
	return e, err
}

func collectEvents(rows pgx.Rows) ([]entities.Event, error) {
	defer rows.Close()
	out := []entities.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

const bringItemColumns = `id, event_id, name, quantity, category, is_required, is_claimable, status,
	claimed_by_guest_id, claimed_quantity, notes, sort_order, updated_at`

func scanBringItem(row pgx.Row) (entities.BringItem, error) {
	var (
		b       entities.BringItem
		claimer pgtype.Text
	)
	err := row.Scan(&b.ID, &b.EventID, &b.Name, &b.Quantity, &b.Category, &b.IsRequired, &b.IsClaimable, &b.Status,
		&claimer, &b.ClaimedQuantity, &b.Notes, &b.SortOrder, &b.UpdatedAt)
	b.ClaimedByGuestID = claimer.String
	return b, err
}

func collectBringItems(rows pgx.Rows) ([]entities.BringItem, error) {
	defer rows.Close()
	out := []entities.BringItem{}
	for rows.Next() {
		b, err := scanBringItem(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

const guestColumns = `id, event_id, user_id, guest_name, guest_contact, rsvp_status, wants_reminders,
	arrived_at, created_at, updated_at`

func scanGuest(row pgx.Row) (entities.EventGuest, error) {
	var (
		g       entities.EventGuest
		userID  pgtype.Text
		arrived pgtype.Timestamptz
	)
	err := row.Scan(&g.ID, &g.EventID, &userID, &g.GuestName, &g.GuestContact, &g.RSVPStatus, &g.WantsReminders,
		&arrived, &g.CreatedAt, &g.UpdatedAt)
	g.UserID = userID.String
	g.ArrivedAt = pgtypeTimestamptzToTime(arrived)
	return g, err
}

func collectGuests(rows pgx.Rows) ([]entities.EventGuest, error) {
	defer rows.Close()
	out := []entities.EventGuest{}
	for rows.Next() {
		g, err := scanGuest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func collectSections(rows pgx.Rows) ([]entities.MenuSection, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.MenuSection, error) {
		var s entities.MenuSection
		err := row.Scan(&s.ID, &s.EventID, &s.Title, &s.SortOrder)
		return s, err
	})
}

func collectMenuItems(rows pgx.Rows) ([]entities.MenuItem, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.MenuItem, error) {
		var it entities.MenuItem
		err := row.Scan(&it.ID, &it.SectionID, &it.Name, &it.Description, &it.DietaryTags, &it.SortOrder)
		return it, err
	})
}

func collectSchedule(rows pgx.Rows) ([]entities.ScheduleBlock, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.ScheduleBlock, error) {
		var (
			b      entities.ScheduleBlock
			starts pgtype.Timestamptz
		)
		err := row.Scan(&b.ID, &b.EventID, &b.Title, &starts, &b.Notes, &b.SortOrder)
		b.StartsAt = pgtypeTimestamptzToTime(starts)
		return b, err
	})
}

func collectCoHosts(rows pgx.Rows) ([]entities.CoHost, error) {
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.CoHost, error) {
		var c entities.CoHost
		err := row.Scan(&c.EventID, &c.UserID, &c.CreatedAt)
		return c, err
	})
}
