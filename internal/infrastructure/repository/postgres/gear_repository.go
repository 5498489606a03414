package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/gear"
)

type gearItemTableModel struct {
	ID       string `db:"id"`
	Category string `db:"category"`
}

type GearRepository struct {
	db *sqlx.DB
}

func NewGearRepository(db *sqlx.DB) *GearRepository {
	return &GearRepository{db: db}
}

func (r *GearRepository) ListItems(ctx context.Context) ([]gear.Item, error) {
	const query = `SELECT * FROM gear_items ORDER BY id`

	var rows []gearItemTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select gear items: %w", err)
	}

	out := make([]gear.Item, 0, len(rows))
	for _, row := range rows {
		out = append(out, gear.Item{ID: row.ID, Category: row.Category})
	}

	return out, nil
}

func (r *GearRepository) ListUnlocked(ctx context.Context, userID string) ([]string, error) {
	const query = `
		SELECT item_id FROM gear_unlocks
		WHERE user_id = $1
		ORDER BY item_id`

	var out []string
	if err := r.db.SelectContext(ctx, &out, query, userID); err != nil {
		return nil, fmt.Errorf("select unlocked gear: %w", err)
	}

	return out, nil
}

func (r *GearRepository) Unlock(ctx context.Context, item gear.Unlock) error {
	const query = `
		INSERT INTO gear_unlocks (user_id, item_id, is_equipped)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id, item_id) DO NOTHING`

	if _, err := r.db.ExecContext(ctx, query, item.UserID, item.ItemID, item.IsEquipped); err != nil {
		return fmt.Errorf("insert gear unlock: %w", err)
	}

	return nil
}

func (r *GearRepository) SetEquipped(ctx context.Context, userID, itemID string, equipped bool) (bool, error) {
	const query = `
		UPDATE gear_unlocks
		SET is_equipped = $3
		WHERE user_id = $1 AND item_id = $2`

	res, err := r.db.ExecContext(ctx, query, userID, itemID, equipped)
	if err != nil {
		return false, fmt.Errorf("set gear equipped: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set gear equipped rows affected: %w", err)
	}

	return affected > 0, nil
}
