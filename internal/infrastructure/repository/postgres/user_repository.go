package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/user"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func toUser(row userTableModel) user.User {
	return user.User{
		ID:          row.PublicID,
		DisplayName: row.DisplayName,
		SearchName:  row.SearchName,
		Coins:       row.Coins,
		LootBoxes:   row.LootBoxes,
	}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	const query = `SELECT * FROM users WHERE public_id = $1`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("get user by id: %w", err)
	}

	return toUser(row), true, nil
}

func (r *UserRepository) List(ctx context.Context) ([]user.User, error) {
	const query = `SELECT * FROM users ORDER BY id`

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select users: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, toUser(row))
	}

	return out, nil
}

func (r *UserRepository) SearchByNamePrefix(ctx context.Context, prefix string, limit int) ([]user.User, error) {
	const query = `
		SELECT * FROM users
		WHERE search_name LIKE $1 || '%' ESCAPE '\'
		ORDER BY search_name
		LIMIT $2`

	var rows []userTableModel
	if err := r.db.SelectContext(ctx, &rows, query, escapeLikePattern(prefix), limit); err != nil {
		return nil, fmt.Errorf("search users by prefix: %w", err)
	}

	out := make([]user.User, 0, len(rows))
	for _, row := range rows {
		out = append(out, toUser(row))
	}

	return out, nil
}

// AddCoins applies the delta in a single statement so concurrent payouts for
// the same user serialize on the row. The balance floors at zero.
func (r *UserRepository) AddCoins(ctx context.Context, userID string, delta int) (int, bool, error) {
	const query = `
		WITH prev AS (
			SELECT id, coins FROM users WHERE public_id = $1 FOR UPDATE
		)
		UPDATE users u
		SET coins = GREATEST(prev.coins + $2, 0), updated_at = NOW()
		FROM prev
		WHERE u.id = prev.id
		RETURNING u.coins AS new_coins, prev.coins AS old_coins`

	var row struct {
		NewCoins int `db:"new_coins"`
		OldCoins int `db:"old_coins"`
	}
	if err := r.db.GetContext(ctx, &row, query, userID, delta); err != nil {
		if isNotFound(err) {
			return 0, false, fmt.Errorf("add coins: user %s not found", userID)
		}
		return 0, false, fmt.Errorf("add coins: %w", err)
	}

	return row.NewCoins, row.OldCoins+delta < 0, nil
}

func (r *UserRepository) PurchaseLootBox(ctx context.Context, userID string, price int) (user.User, bool, error) {
	const query = `
		UPDATE users
		SET coins = coins - $2, loot_boxes = loot_boxes + 1, updated_at = NOW()
		WHERE public_id = $1 AND coins >= $2
		RETURNING *`

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, userID, price); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("purchase loot box: %w", err)
	}

	return toUser(row), true, nil
}

func (r *UserRepository) ConsumeLootBox(ctx context.Context, userID string) (int, bool, error) {
	const query = `
		UPDATE users
		SET loot_boxes = loot_boxes - 1, updated_at = NOW()
		WHERE public_id = $1 AND loot_boxes > 0
		RETURNING loot_boxes`

	var remaining int
	if err := r.db.GetContext(ctx, &remaining, query, userID); err != nil {
		if isNotFound(err) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("consume loot box: %w", err)
	}

	return remaining, true, nil
}
