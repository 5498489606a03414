package postgres

import "time"

type friendChallengeTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	ChallengerID    string    `db:"challenger_id"`
	RecipientID     string    `db:"recipient_id"`
	Goal            string    `db:"goal"`
	Location        string    `db:"location"`
	DurationSeconds int       `db:"duration_seconds"`
	StartDate       time.Time `db:"start_date"`
	Wager           int       `db:"wager"`
	Deduct          bool      `db:"deduct"`
	Accepted        bool      `db:"accepted"`
	Completed       bool      `db:"completed"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type friendChallengeScoreTableModel struct {
	ID          int64     `db:"id"`
	ChallengeID string    `db:"challenge_id"`
	PlayerID    string    `db:"player_id"`
	PlayerName  string    `db:"player_name"`
	FishCaught  int       `db:"fish_caught"`
	TotalWeight float64   `db:"total_weight"`
	SubmittedAt time.Time `db:"submitted_at"`
}
