package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
)

type ChallengeRepository struct {
	db *sqlx.DB
}

func NewChallengeRepository(db *sqlx.DB) *ChallengeRepository {
	return &ChallengeRepository{db: db}
}

func toChallenge(row challengeTableModel) challenge.Challenge {
	return challenge.Challenge{
		ID:         row.PublicID,
		Namespace:  challenge.Namespace(row.Namespace),
		Goal:       challenge.Goal(row.Goal),
		Location:   row.Location,
		Duration:   row.DurationSeconds,
		StartDate:  row.StartDate,
		EndDate:    row.EndDate,
		MaxReward:  row.MaxReward,
		Completed:  row.Completed,
		CustomText: row.CustomText,
	}
}

func (r *ChallengeRepository) Create(ctx context.Context, item challenge.Challenge) error {
	const query = `
		INSERT INTO challenges (public_id, namespace, goal, location, duration_seconds, start_date, end_date, max_reward, completed, custom_text)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		string(item.Namespace),
		string(item.Goal),
		item.Location,
		item.Duration,
		item.StartDate,
		item.EndDate,
		item.MaxReward,
		item.Completed,
		item.CustomText,
	)
	if err != nil {
		return fmt.Errorf("insert challenge: %w", err)
	}

	return nil
}

func (r *ChallengeRepository) GetByID(ctx context.Context, ns challenge.Namespace, challengeID string) (challenge.Challenge, bool, error) {
	const query = `SELECT * FROM challenges WHERE namespace = $1 AND public_id = $2`

	var row challengeTableModel
	if err := r.db.GetContext(ctx, &row, query, string(ns), challengeID); err != nil {
		if isNotFound(err) {
			return challenge.Challenge{}, false, nil
		}
		return challenge.Challenge{}, false, fmt.Errorf("get challenge by id: %w", err)
	}

	return toChallenge(row), true, nil
}

func (r *ChallengeRepository) ListActive(ctx context.Context, ns challenge.Namespace, now time.Time) ([]challenge.Challenge, error) {
	const query = `
		SELECT * FROM challenges
		WHERE namespace = $1 AND end_date >= $2
		ORDER BY id`

	var rows []challengeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, string(ns), now); err != nil {
		return nil, fmt.Errorf("select active challenges: %w", err)
	}

	out := make([]challenge.Challenge, 0, len(rows))
	for _, row := range rows {
		out = append(out, toChallenge(row))
	}

	return out, nil
}

func (r *ChallengeRepository) ListIncomplete(ctx context.Context, ns challenge.Namespace) ([]challenge.Challenge, error) {
	const query = `
		SELECT * FROM challenges
		WHERE namespace = $1 AND NOT completed
		ORDER BY id`

	var rows []challengeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, string(ns)); err != nil {
		return nil, fmt.Errorf("select incomplete challenges: %w", err)
	}

	out := make([]challenge.Challenge, 0, len(rows))
	for _, row := range rows {
		out = append(out, toChallenge(row))
	}

	return out, nil
}

func (r *ChallengeRepository) MarkCompleted(ctx context.Context, ns challenge.Namespace, challengeID string) error {
	const query = `
		UPDATE challenges
		SET completed = TRUE, updated_at = NOW()
		WHERE namespace = $1 AND public_id = $2`

	if _, err := r.db.ExecContext(ctx, query, string(ns), challengeID); err != nil {
		return fmt.Errorf("mark challenge completed: %w", err)
	}

	return nil
}
