package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
)

type ScoreRepository struct {
	db *sqlx.DB
}

func NewScoreRepository(db *sqlx.DB) *ScoreRepository {
	return &ScoreRepository{db: db}
}

func toScore(row challengeScoreTableModel) challenge.Score {
	out := challenge.Score{
		ChallengeID: row.ChallengeID,
		PlayerID:    row.PlayerID,
		PlayerName:  row.PlayerName,
		FishCaught:  row.FishCaught,
		TotalWeight: row.TotalWeight,
		Date:        row.SubmittedAt,
	}
	if row.Coins.Valid {
		coins := int(row.Coins.Int64)
		out.Coins = &coins
	}
	return out
}

func (r *ScoreRepository) Get(ctx context.Context, ns challenge.Namespace, challengeID, playerID string) (challenge.Score, bool, error) {
	const query = `
		SELECT * FROM challenge_scores
		WHERE namespace = $1 AND challenge_id = $2 AND player_id = $3`

	var row challengeScoreTableModel
	if err := r.db.GetContext(ctx, &row, query, string(ns), challengeID, playerID); err != nil {
		if isNotFound(err) {
			return challenge.Score{}, false, nil
		}
		return challenge.Score{}, false, fmt.Errorf("get score: %w", err)
	}

	return toScore(row), true, nil
}

func (r *ScoreRepository) List(ctx context.Context, ns challenge.Namespace, challengeID string) ([]challenge.Score, error) {
	const query = `
		SELECT * FROM challenge_scores
		WHERE namespace = $1 AND challenge_id = $2
		ORDER BY id`

	var rows []challengeScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, string(ns), challengeID); err != nil {
		return nil, fmt.Errorf("select scores: %w", err)
	}

	out := make([]challenge.Score, 0, len(rows))
	for _, row := range rows {
		out = append(out, toScore(row))
	}

	return out, nil
}

func (r *ScoreRepository) Insert(ctx context.Context, ns challenge.Namespace, score challenge.Score) error {
	const query = `
		INSERT INTO challenge_scores (namespace, challenge_id, player_id, player_name, fish_caught, total_weight, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		string(ns),
		score.ChallengeID,
		score.PlayerID,
		score.PlayerName,
		score.FishCaught,
		score.TotalWeight,
		score.Date,
	)
	if err != nil {
		return fmt.Errorf("insert score: %w", err)
	}

	return nil
}

func (r *ScoreRepository) SetCoins(ctx context.Context, ns challenge.Namespace, challengeID, playerID string, coins int) error {
	const query = `
		UPDATE challenge_scores
		SET coins = $4
		WHERE namespace = $1 AND challenge_id = $2 AND player_id = $3`

	if _, err := r.db.ExecContext(ctx, query, string(ns), challengeID, playerID, coins); err != nil {
		return fmt.Errorf("set score coins: %w", err)
	}

	return nil
}
