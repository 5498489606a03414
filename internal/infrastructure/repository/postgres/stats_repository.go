package postgres

import (
	"context"
	"fmt"

	sonic "github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/stats"
)

type userStatsTableModel struct {
	UserID             string  `db:"user_id"`
	PlayerName         string  `db:"player_name"`
	TotalCasts         int     `db:"total_casts"`
	TotalCatches       int     `db:"total_catches"`
	TotalOunces        float64 `db:"total_ounces"`
	BiggestCatchName   string  `db:"biggest_catch_name"`
	BiggestCatchOunces float64 `db:"biggest_catch_ounces"`
	CatchesByFish      string  `db:"catches_by_fish"`
}

type StatsRepository struct {
	db *sqlx.DB
}

func NewStatsRepository(db *sqlx.DB) *StatsRepository {
	return &StatsRepository{db: db}
}

func toUserStats(row userStatsTableModel) stats.UserStats {
	out := stats.UserStats{
		UserID:       row.UserID,
		PlayerName:   row.PlayerName,
		TotalCasts:   row.TotalCasts,
		TotalCatches: row.TotalCatches,
		TotalOunces:  row.TotalOunces,
		BiggestCatch: stats.CaughtFish{Name: row.BiggestCatchName, Ounces: row.BiggestCatchOunces},
	}
	if row.CatchesByFish != "" && row.CatchesByFish != "{}" {
		tallies := make(map[string]stats.FishTally)
		if err := sonic.Unmarshal([]byte(row.CatchesByFish), &tallies); err == nil {
			out.CatchesByFish = tallies
		}
	}
	return out
}

func encodeCatchesByFish(value map[string]stats.FishTally) string {
	if len(value) == 0 {
		return "{}"
	}
	encoded, err := sonic.Marshal(value)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func (r *StatsRepository) Get(ctx context.Context, userID string) (stats.UserStats, bool, error) {
	const query = `SELECT * FROM user_stats WHERE user_id = $1`

	var row userStatsTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return stats.UserStats{}, false, nil
		}
		return stats.UserStats{}, false, fmt.Errorf("get user stats: %w", err)
	}

	return toUserStats(row), true, nil
}

func (r *StatsRepository) Save(ctx context.Context, item stats.UserStats) error {
	const query = `
		INSERT INTO user_stats (user_id, player_name, total_casts, total_catches, total_ounces, biggest_catch_name, biggest_catch_ounces, catches_by_fish)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (user_id)
		DO UPDATE SET
			player_name = EXCLUDED.player_name,
			total_casts = EXCLUDED.total_casts,
			total_catches = EXCLUDED.total_catches,
			total_ounces = EXCLUDED.total_ounces,
			biggest_catch_name = EXCLUDED.biggest_catch_name,
			biggest_catch_ounces = EXCLUDED.biggest_catch_ounces,
			catches_by_fish = EXCLUDED.catches_by_fish`

	_, err := r.db.ExecContext(ctx, query,
		item.UserID,
		item.PlayerName,
		item.TotalCasts,
		item.TotalCatches,
		item.TotalOunces,
		item.BiggestCatch.Name,
		item.BiggestCatch.Ounces,
		encodeCatchesByFish(item.CatchesByFish),
	)
	if err != nil {
		return fmt.Errorf("upsert user stats: %w", err)
	}

	return nil
}

func (r *StatsRepository) ListTopByOunces(ctx context.Context, limit int) ([]stats.UserStats, error) {
	const query = `
		SELECT * FROM user_stats
		ORDER BY total_ounces DESC, user_id
		LIMIT $1`

	var rows []userStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("select top user stats: %w", err)
	}

	out := make([]stats.UserStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, toUserStats(row))
	}

	return out, nil
}
