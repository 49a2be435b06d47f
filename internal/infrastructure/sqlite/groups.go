package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"dinnerbell/internal/domain"
	"dinnerbell/internal/domain/entities"
	"dinnerbell/internal/ports/output"
)

var (
	_ output.GroupRepository   = (*GroupRepository)(nil)
	_ output.ProfileRepository = (*ProfileRepository)(nil)
)

type GroupRepository struct {
	db *sql.DB
}

func (r *GroupRepository) Create(ctx context.Context, g *entities.GuestGroup) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO guest_groups (id, owner_user_id, name, created_at) VALUES (?, ?, ?, ?)`,
		g.ID, g.OwnerUserID, g.Name, utc(g.CreatedAt))
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*entities.GuestGroup, error) {
	var g entities.GuestGroup
	err := r.db.QueryRowContext(ctx, `SELECT id, owner_user_id, name, created_at FROM guest_groups WHERE id = ?`, id).
		Scan(&g.ID, &g.OwnerUserID, &g.Name, &g.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, domain.ErrGroupNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

func (r *GroupRepository) FindByOwner(ctx context.Context, ownerUserID string) ([]entities.GuestGroup, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, owner_user_id, name, created_at FROM guest_groups
		WHERE owner_user_id = ? ORDER BY created_at`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("get groups: %w", err)
	}
	groups, err := collect(rows, func(row scanner) (entities.GuestGroup, error) {
		g := entities.GuestGroup{Members: []entities.GuestGroupMember{}}
		err := row.Scan(&g.ID, &g.OwnerUserID, &g.Name, &g.CreatedAt)
		return g, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan groups: %w", err)
	}
	if len(groups) == 0 {
		return groups, nil
	}

	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[g.ID] = i
	}
	rows, err = r.db.QueryContext(ctx, `SELECT m.id, m.group_id, m.name, m.contact
		FROM guest_group_members m JOIN guest_groups g ON g.id = m.group_id
		WHERE g.owner_user_id = ? ORDER BY m.name`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("get group members: %w", err)
	}
	members, err := collect(rows, func(row scanner) (entities.GuestGroupMember, error) {
		var m entities.GuestGroupMember
		err := row.Scan(&m.ID, &m.GroupID, &m.Name, &m.Contact)
		return m, err
	})
	if err != nil {
		return nil, fmt.Errorf("scan group members: %w", err)
	}
	for _, m := range members {
		if i, ok := index[m.GroupID]; ok {
			groups[i].Members = append(groups[i].Members, m)
		}
	}
	return groups, nil
}

func (r *GroupRepository) AddMember(ctx context.Context, m *entities.GuestGroupMember) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO guest_group_members (id, group_id, name, contact) VALUES (?, ?, ?, ?)`,
		m.ID, m.GroupID, m.Name, m.Contact)
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM guest_groups WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	return expectOne(res, fmt.Errorf("group %s: %w", id, domain.ErrGroupNotFound))
}

type ProfileRepository struct {
	db *sql.DB
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entities.Profile, error) {
	p, err := scanProfile(r.db.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("profile %s: %w", id, domain.ErrProfileNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get profile: %w", err)
	}
	return &p, nil
}

func (r *ProfileRepository) FindByIDs(ctx context.Context, ids []string) ([]entities.Profile, error) {
	if len(ids) == 0 {
		return []entities.Profile{}, nil
	}
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	rows, err := r.db.QueryContext(ctx, `SELECT `+profileColumns+` FROM profiles
		WHERE id IN (`+placeholders+`) ORDER BY id`, args...)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	return collect(rows, scanProfile)
}

// Upsert writes the editable fields. The push token is only changed by
// SetPushToken.
func (r *ProfileRepository) Upsert(ctx context.Context, p *entities.Profile) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO profiles (id, name, phone, avatar_url, locale, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			name = excluded.name,
			phone = excluded.phone,
			avatar_url = excluded.avatar_url,
			locale = excluded.locale,
			updated_at = excluded.updated_at`,
		p.ID, p.Name, p.Phone, p.AvatarURL, p.Locale, utc(p.UpdatedAt))
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetPushToken(ctx context.Context, id, token string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE profiles SET push_token = ? WHERE id = ?`, token, id)
	if err != nil {
		return fmt.Errorf("set push token: %w", err)
	}
	return expectOne(res, fmt.Errorf("profile %s: %w", id, domain.ErrProfileNotFound))
}
