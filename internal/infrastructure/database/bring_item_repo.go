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

var _ output.BringItemRepository = (*BringItemRepository)(nil)

type BringItemRepository struct {
	pool *pgxpool.Pool
}

func NewBringItemRepository(pool *pgxpool.Pool) *BringItemRepository {
	return &BringItemRepository{pool: pool}
}

const insertBringItemSQL = `INSERT INTO bring_items (` + bringItemColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`

func bringItemArgs(b *entities.BringItem) []any {
	return []any{b.ID, b.EventID, b.Name, b.Quantity, b.Category, b.IsRequired, b.IsClaimable, b.Status,
		textToPgtype(b.ClaimedByGuestID), b.ClaimedQuantity, b.Notes, b.SortOrder, b.UpdatedAt}
}

func queueBringItemInsert(batch *pgx.Batch, b *entities.BringItem) {
	batch.Queue(insertBringItemSQL, bringItemArgs(b)...)
}

func insertBringItem(ctx context.Context, q querier, b *entities.BringItem) error {
	if _, err := q.Exec(ctx, insertBringItemSQL, bringItemArgs(b)...); err != nil {
		return fmt.Errorf("insert bring item: %w", err)
	}
	return nil
}

func (r *BringItemRepository) Create(ctx context.Context, item *entities.BringItem) error {
	return insertBringItem(ctx, r.pool, item)
}

func (r *BringItemRepository) FindByID(ctx context.Context, id string) (*entities.BringItem, error) {
	b, err := scanBringItem(r.pool.QueryRow(ctx, `SELECT `+bringItemColumns+` FROM bring_items WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("bring item %s: %w", id, domain.ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bring item: %w", err)
	}
	return &b, nil
}

func (r *BringItemRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.BringItem, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bringItemColumns+` FROM bring_items WHERE event_id = $1 ORDER BY sort_order`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get bring items: %w", err)
	}
	return collectBringItems(rows)
}

// Claim is the only path from unclaimed to claimed. The row lock taken by
// the UPDATE serializes concurrent claimers; losers match zero rows, as do
// items of cancelled events.
func (r *BringItemRepository) Claim(ctx context.Context, itemID, guestID, quantity string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE bring_items
		SET status = 'claimed', claimed_by_guest_id = $2, claimed_quantity = $3, updated_at = NOW()
		WHERE id = $1 AND status = 'unclaimed' AND is_claimable
			AND NOT EXISTS (SELECT 1 FROM events e WHERE e.id = bring_items.event_id AND e.is_cancelled)`, itemID, guestID, quantity)
	if err != nil {
		return false, fmt.Errorf("claim bring item: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (r *BringItemRepository) MarkProvided(ctx context.Context, itemID string) (bool, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE bring_items SET status = 'provided', updated_at = NOW()
		WHERE id = $1 AND status = 'claimed'`, itemID)
	if err != nil {
		return false, fmt.Errorf("mark bring item provided: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}
