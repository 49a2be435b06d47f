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

var (
	_ output.GroupRepository   = (*GroupRepository)(nil)
	_ output.ProfileRepository = (*ProfileRepository)(nil)
)

type GroupRepository struct {
	pool *pgxpool.Pool
}

func NewGroupRepository(pool *pgxpool.Pool) *GroupRepository {
	return &GroupRepository{pool: pool}
}

func (r *GroupRepository) Create(ctx context.Context, g *entities.GuestGroup) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO guest_groups (id, owner_user_id, name, created_at) VALUES ($1, $2, $3, $4)`,
		g.ID, g.OwnerUserID, g.Name, g.CreatedAt)
	if err != nil {
		return fmt.Errorf("create group: %w", err)
	}
	return nil
}

func (r *GroupRepository) FindByID(ctx context.Context, id string) (*entities.GuestGroup, error) {
	var g entities.GuestGroup
	err := r.pool.QueryRow(ctx, `SELECT id, owner_user_id, name, created_at FROM guest_groups WHERE id = $1`, id).
		Scan(&g.ID, &g.OwnerUserID, &g.Name, &g.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", id, domain.ErrGroupNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get group: %w", err)
	}
	return &g, nil
}

func (r *GroupRepository) FindByOwner(ctx context.Context, ownerUserID string) ([]entities.GuestGroup, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, owner_user_id, name, created_at FROM guest_groups
		WHERE owner_user_id = $1 ORDER BY created_at`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("get groups: %w", err)
	}
	groups, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.GuestGroup, error) {
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
	rows, err = r.pool.Query(ctx, `SELECT m.id, m.group_id, m.name, m.contact
		FROM guest_group_members m JOIN guest_groups g ON g.id = m.group_id
		WHERE g.owner_user_id = $1 ORDER BY m.name`, ownerUserID)
	if err != nil {
		return nil, fmt.Errorf("get group members: %w", err)
	}
	members, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.GuestGroupMember, error) {
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
	_, err := r.pool.Exec(ctx, `INSERT INTO guest_group_members (id, group_id, name, contact) VALUES ($1, $2, $3, $4)`,
		m.ID, m.GroupID, m.Name, m.Contact)
	if err != nil {
		return fmt.Errorf("add group member: %w", err)
	}
	return nil
}

func (r *GroupRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM guest_groups WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete group: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("group %s: %w", id, domain.ErrGroupNotFound)
	}
	return nil
}

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

const profileColumns = `id, name, phone, avatar_url, push_token, locale, updated_at`

func scanProfile(row pgx.Row) (entities.Profile, error) {
	var p entities.Profile
	err := row.Scan(&p.ID, &p.Name, &p.Phone, &p.AvatarURL, &p.PushToken, &p.Locale, &p.UpdatedAt)
	return p, err
}

func (r *ProfileRepository) FindByID(ctx context.Context, id string) (*entities.Profile, error) {
	p, err := scanProfile(r.pool.QueryRow(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
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
	rows, err := r.pool.Query(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1) ORDER BY id`, ids)
	if err != nil {
		return nil, fmt.Errorf("get profiles: %w", err)
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.Profile, error) {
		return scanProfile(row)
	})
}

// Upsert writes the editable fields. The push token is only changed by
// SetPushToken.
func (r *ProfileRepository) Upsert(ctx context.Context, p *entities.Profile) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO profiles (id, name, phone, avatar_url, locale, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			phone = EXCLUDED.phone,
			avatar_url = EXCLUDED.avatar_url,
			locale = EXCLUDED.locale,
			updated_at = EXCLUDED.updated_at`,
		p.ID, p.Name, p.Phone, p.AvatarURL, p.Locale, p.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert profile: %w", err)
	}
	return nil
}

func (r *ProfileRepository) SetPushToken(ctx context.Context, id, token string) error {
	tag, err := r.pool.Exec(ctx, `UPDATE profiles SET push_token = $2, updated_at = NOW() WHERE id = $1`, id, token)
	if err != nil {
		return fmt.Errorf("set push token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("profile %s: %w", id, domain.ErrProfileNotFound)
	}
	return nil
}
