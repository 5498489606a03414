package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/leaderboard"
)

type leaderboardEntryTableModel struct {
	Rank       int     `db:"rank"`
	PlayerID   string  `db:"player_id"`
	PlayerName string  `db:"player_name"`
	Ounces     float64 `db:"ounces"`
}

type LeaderboardRepository struct {
	db *sqlx.DB
}

func NewLeaderboardRepository(db *sqlx.DB) *LeaderboardRepository {
	return &LeaderboardRepository{db: db}
}

func (r *LeaderboardRepository) Replace(ctx context.Context, entries []leaderboard.Entry) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace leaderboard tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM leaderboard_entries`); err != nil {
		return fmt.Errorf("clear leaderboard: %w", err)
	}
	const insertQuery = `
		INSERT INTO leaderboard_entries (rank, player_id, player_name, ounces)
		VALUES ($1, $2, $3, $4)`
	for _, entry := range entries {
		if _, err := tx.ExecContext(ctx, insertQuery, entry.Rank, entry.PlayerID, entry.PlayerName, entry.Ounces); err != nil {
			return fmt.Errorf("insert leaderboard entry: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace leaderboard tx: %w", err)
	}

	return nil
}

func (r *LeaderboardRepository) List(ctx context.Context) ([]leaderboard.Entry, error) {
	const query = `SELECT * FROM leaderboard_entries ORDER BY rank`

	var rows []leaderboardEntryTableModel
	if err := r.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, fmt.Errorf("select leaderboard: %w", err)
	}

	out := make([]leaderboard.Entry, 0, len(rows))
	for _, row := range rows {
		out = append(out, leaderboard.Entry{
			Rank:       row.Rank,
			PlayerID:   row.PlayerID,
			PlayerName: row.PlayerName,
			Ounces:     row.Ounces,
		})
	}

	return out, nil
}
