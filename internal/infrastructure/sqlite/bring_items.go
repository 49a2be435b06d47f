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

var _ output.BringItemRepository = (*BringItemRepository)(nil)

type BringItemRepository struct {
	db *sql.DB
}

func insertBringItem(ctx context.Context, q queryer, b *entities.BringItem) error {
	_, err := q.ExecContext(ctx, `INSERT INTO bring_items (`+bringItemColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.EventID, b.Name, b.Quantity, b.Category, b.IsRequired, b.IsClaimable, b.Status,
		nullString(b.ClaimedByGuestID), b.ClaimedQuantity, b.Notes, b.SortOrder, utc(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert bring item: %w", err)
	}
	return nil
}

func (r *BringItemRepository) Create(ctx context.Context, item *entities.BringItem) error {
	return insertBringItem(ctx, r.db, item)
}

func (r *BringItemRepository) FindByID(ctx context.Context, id string) (*entities.BringItem, error) {
	b, err := scanBringItem(r.db.QueryRowContext(ctx, `SELECT `+bringItemColumns+` FROM bring_items WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("bring item %s: %w", id, domain.ErrItemNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get bring item: %w", err)
	}
	return &b, nil
}

func (r *BringItemRepository) FindByEventID(ctx context.Context, eventID string) ([]entities.BringItem, error) {
	return findBringItems(ctx, r.db, eventID)
}

func findBringItems(ctx context.Context, q queryer, eventID string) ([]entities.BringItem, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+bringItemColumns+` FROM bring_items
		WHERE event_id = ? ORDER BY sort_order`, eventID)
	if err != nil {
		return nil, fmt.Errorf("get bring items: %w", err)
	}
	return collect(rows, scanBringItem)
}

// Claim succeeds for exactly one caller: the status guard is evaluated by
// the single writer at write time. Items of cancelled events never match.
func (r *BringItemRepository) Claim(ctx context.Context, itemID, guestID, quantity string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE bring_items
		SET status = 'claimed', claimed_by_guest_id = ?, claimed_quantity = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'unclaimed' AND is_claimable = 1
			AND NOT EXISTS (SELECT 1 FROM events e WHERE e.id = bring_items.event_id AND e.is_cancelled = 1)`, guestID, quantity, itemID)
	if err != nil {
		return false, fmt.Errorf("claim bring item: %w", err)
	}
	n, err := affected(res)
	return n == 1, err
}

func (r *BringItemRepository) MarkProvided(ctx context.Context, itemID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `UPDATE bring_items SET status = 'provided', updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND status = 'claimed'`, itemID)
	if err != nil {
		return false, fmt.Errorf("mark bring item provided: %w", err)
	}
	n, err := affected(res)
	return n == 1, err
}
