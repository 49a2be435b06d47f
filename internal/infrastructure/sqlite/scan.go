package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"dinnerbell/internal/domain/entities"
)

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func collect[T any](rows *sql.Rows, scan func(scanner) (T, error)) ([]T, error) {
	defer rows.Close()
	out := []T{}
	for rows.Next() {
		v, err := scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

const eventColumns = `id, host_user_id, title, description, start_time, bell_time, end_time,
	timezone, address_line1, address_line2, city, state, postal_code, invite_token,
	is_cancelled, is_public, capacity, cover_image_url, cover_public_id, created_at, updated_at`

func scanEvent(row scanner) (entities.Event, error) {
	var (
		e   entities.Event
		end sql.NullTime
	)
	err := row.Scan(&e.ID, &e.HostUserID, &e.Title, &e.Description, &e.StartTime, &e.BellTime, &end,
		&e.Timezone, &e.AddressLine1, &e.AddressLine2, &e.City, &e.State, &e.PostalCode, &e.InviteToken,
		&e.IsCancelled, &e.IsPublic, &e.Capacity, &e.CoverImageURL, &e.CoverPublicID, &e.CreatedAt, &e.UpdatedAt)
	e.EndTime = fromNullTime(end)
	return e, err
}

const bringItemColumns = `id, event_id, name, quantity, category, is_required, is_claimable, status,
	claimed_by_guest_id, claimed_quantity, notes, sort_order, updated_at`

func scanBringItem(row scanner) (entities.BringItem, error) {
	var (
		b       entities.BringItem
		claimer sql.NullString
	)
	err := row.Scan(&b.ID, &b.EventID, &b.Name, &b.Quantity, &b.Category, &b.IsRequired, &b.IsClaimable, &b.Status,
		&claimer, &b.ClaimedQuantity, &b.Notes, &b.SortOrder, &b.UpdatedAt)
	b.ClaimedByGuestID = claimer.String
	return b, err
}

const guestColumns = `id, event_id, user_id, guest_name, guest_contact, rsvp_status, wants_reminders,
	arrived_at, created_at, updated_at`

func scanGuest(row scanner) (entities.EventGuest, error) {
	var (
		g       entities.EventGuest
		userID  sql.NullString
		arrived sql.NullTime
	)
	err := row.Scan(&g.ID, &g.EventID, &userID, &g.GuestName, &g.GuestContact, &g.RSVPStatus, &g.WantsReminders,
		&arrived, &g.CreatedAt, &g.UpdatedAt)
	g.UserID = userID.String
	g.ArrivedAt = fromNullTime(arrived)
	return g, err
}

func scanSection(row scanner) (entities.MenuSection, error) {
	var s entities.MenuSection
	err := row.Scan(&s.ID, &s.EventID, &s.Title, &s.SortOrder)
	return s, err
}

func scanMenuItem(row scanner) (entities.MenuItem, error) {
	var (
		it   entities.MenuItem
		tags string
	)
	if err := row.Scan(&it.ID, &it.SectionID, &it.Name, &it.Description, &tags, &it.SortOrder); err != nil {
		return it, err
	}
	if err := json.Unmarshal([]byte(tags), &it.DietaryTags); err != nil {
		return it, fmt.Errorf("decode dietary tags of %s: %w", it.ID, err)
	}
	return it, nil
}

func encodeTags(tags []string) (string, error) {
	if tags == nil {
		tags = []string{}
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("encode dietary tags: %w", err)
	}
	return string(b), nil
}

func scanScheduleBlock(row scanner) (entities.ScheduleBlock, error) {
	var (
		b      entities.ScheduleBlock
		starts sql.NullTime
	)
	err := row.Scan(&b.ID, &b.EventID, &b.Title, &starts, &b.Notes, &b.SortOrder)
	b.StartsAt = fromNullTime(starts)
	return b, err
}

func scanCoHost(row scanner) (entities.CoHost, error) {
	var c entities.CoHost
	err := row.Scan(&c.EventID, &c.UserID, &c.CreatedAt)
	return c, err
}

func scanNotification(row scanner) (entities.NotificationSchedule, error) {
	var (
		n    entities.NotificationSchedule
		sent sql.NullTime
	)
	err := row.Scan(&n.ID, &n.EventID, &n.Type, &n.ScheduledAt, &sent)
	n.SentAt = fromNullTime(sent)
	return n, err
}

const profileColumns = `id, name, phone, avatar_url, push_token, locale, updated_at`

func scanProfile(row scanner) (entities.Profile, error) {
	var p entities.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.AvatarURL, &p.PushToken, &p.Locale, &p.UpdatedAt)
	return p, err
}
