package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
	"github.com/melechlapson/CastNCatch/internal/domain/friendchallenge"
)

type FriendChallengeRepository struct {
	db *sqlx.DB
}

func NewFriendChallengeRepository(db *sqlx.DB) *FriendChallengeRepository {
	return &FriendChallengeRepository{db: db}
}

func toFriendChallenge(row friendChallengeTableModel, scores []friendChallengeScoreTableModel) friendchallenge.FriendChallenge {
	out := friendchallenge.FriendChallenge{
		ID:         row.PublicID,
		Challenger: row.ChallengerID,
		Recipient:  row.RecipientID,
		Goal:       challenge.Goal(row.Goal),
		Location:   row.Location,
		Duration:   row.DurationSeconds,
		StartDate:  row.StartDate,
		Wager:      row.Wager,
		Deduct:     row.Deduct,
		Accepted:   row.Accepted,
		Completed:  row.Completed,
	}
	for _, s := range scores {
		out.Scores = append(out.Scores, friendchallenge.Score{
			PlayerID:    s.PlayerID,
			PlayerName:  s.PlayerName,
			FishCaught:  s.FishCaught,
			TotalWeight: s.TotalWeight,
			Date:        s.SubmittedAt,
		})
	}
	return out
}

func (r *FriendChallengeRepository) Create(ctx context.Context, item friendchallenge.FriendChallenge) error {
	const query = `
		INSERT INTO friend_challenges (public_id, challenger_id, recipient_id, goal, location, duration_seconds, start_date, wager, deduct, accepted, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.Challenger,
		item.Recipient,
		string(item.Goal),
		item.Location,
		item.Duration,
		item.StartDate,
		item.Wager,
		item.Deduct,
		item.Accepted,
		item.Completed,
	)
	if err != nil {
		return fmt.Errorf("insert friend challenge: %w", err)
	}

	return nil
}

func (r *FriendChallengeRepository) GetByID(ctx context.Context, challengeID string) (friendchallenge.FriendChallenge, bool, error) {
	const query = `SELECT * FROM friend_challenges WHERE public_id = $1`

	var row friendChallengeTableModel
	if err := r.db.GetContext(ctx, &row, query, challengeID); err != nil {
		if isNotFound(err) {
			return friendchallenge.FriendChallenge{}, false, nil
		}
		return friendchallenge.FriendChallenge{}, false, fmt.Errorf("get friend challenge: %w", err)
	}

	scores, err := r.listScores(ctx, challengeID)
	if err != nil {
		return friendchallenge.FriendChallenge{}, false, err
	}

	return toFriendChallenge(row, scores), true, nil
}

func (r *FriendChallengeRepository) listScores(ctx context.Context, challengeID string) ([]friendChallengeScoreTableModel, error) {
	const query = `
		SELECT * FROM friend_challenge_scores
		WHERE challenge_id = $1
		ORDER BY id`

	var rows []friendChallengeScoreTableModel
	if err := r.db.SelectContext(ctx, &rows, query, challengeID); err != nil {
		return nil, fmt.Errorf("select friend challenge scores: %w", err)
	}

	return rows, nil
}

func (r *FriendChallengeRepository) HasActive(ctx context.Context, challengerID, recipientID string) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM friend_challenges
			WHERE challenger_id = $1 AND recipient_id = $2 AND NOT completed
		)`

	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, challengerID, recipientID); err != nil {
		return false, fmt.Errorf("check active friend challenge: %w", err)
	}

	return exists, nil
}

func (r *FriendChallengeRepository) ListActiveByChallenger(ctx context.Context, userID string) ([]friendchallenge.FriendChallenge, error) {
	const query = `
		SELECT * FROM friend_challenges
		WHERE challenger_id = $1 AND NOT completed
		ORDER BY id`

	return r.listWithScores(ctx, query, userID)
}

func (r *FriendChallengeRepository) ListActiveByRecipient(ctx context.Context, userID string) ([]friendchallenge.FriendChallenge, error) {
	const query = `
		SELECT * FROM friend_challenges
		WHERE recipient_id = $1 AND NOT completed
		ORDER BY id`

	return r.listWithScores(ctx, query, userID)
}

func (r *FriendChallengeRepository) listWithScores(ctx context.Context, query, userID string) ([]friendchallenge.FriendChallenge, error) {
	var rows []friendChallengeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, fmt.Errorf("select friend challenges: %w", err)
	}

	out := make([]friendchallenge.FriendChallenge, 0, len(rows))
	for _, row := range rows {
		scores, err := r.listScores(ctx, row.PublicID)
		if err != nil {
			return nil, err
		}
		out = append(out, toFriendChallenge(row, scores))
	}

	return out, nil
}

func (r *FriendChallengeRepository) SetAccepted(ctx context.Context, challengeID string) error {
	const query = `
		UPDATE friend_challenges
		SET accepted = TRUE, updated_at = NOW()
		WHERE public_id = $1`

	if _, err := r.db.ExecContext(ctx, query, challengeID); err != nil {
		return fmt.Errorf("set friend challenge accepted: %w", err)
	}

	return nil
}

func (r *FriendChallengeRepository) AppendScore(ctx context.Context, challengeID string, score friendchallenge.Score, completed bool) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin append score tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	const insertQuery = `
		INSERT INTO friend_challenge_scores (challenge_id, player_id, player_name, fish_caught, total_weight, submitted_at)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := tx.ExecContext(ctx, insertQuery,
		challengeID,
		score.PlayerID,
		score.PlayerName,
		score.FishCaught,
		score.TotalWeight,
		score.Date,
	); err != nil {
		return fmt.Errorf("insert friend challenge score: %w", err)
	}

	const updateQuery = `
		UPDATE friend_challenges
		SET completed = $2, updated_at = NOW()
		WHERE public_id = $1`
	if _, err := tx.ExecContext(ctx, updateQuery, challengeID, completed); err != nil {
		return fmt.Errorf("update friend challenge completion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit append score tx: %w", err)
	}

	return nil
}

func (r *FriendChallengeRepository) Delete(ctx context.Context, challengeID string) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete tx: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM friend_challenge_scores WHERE challenge_id = $1`, challengeID); err != nil {
		return fmt.Errorf("delete friend challenge scores: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM friend_challenges WHERE public_id = $1`, challengeID); err != nil {
		return fmt.Errorf("delete friend challenge: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete tx: %w", err)
	}

	return nil
}
