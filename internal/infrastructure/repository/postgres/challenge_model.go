package postgres

import (
	"database/sql"
	"time"
)

type challengeTableModel struct {
	ID              int64     `db:"id"`
	PublicID        string    `db:"public_id"`
	Namespace       string    `db:"namespace"`
	Goal            string    `db:"goal"`
	Location        string    `db:"location"`
	DurationSeconds int       `db:"duration_seconds"`
	StartDate       time.Time `db:"start_date"`
	EndDate         time.Time `db:"end_date"`
	MaxReward       int       `db:"max_reward"`
	Completed       bool      `db:"completed"`
	CustomText      string    `db:"custom_text"`
	CreatedAt       time.Time `db:"created_at"`
	UpdatedAt       time.Time `db:"updated_at"`
}

type challengeScoreTableModel struct {
	ID          int64         `db:"id"`
	Namespace   string        `db:"namespace"`
	ChallengeID string        `db:"challenge_id"`
	PlayerID    string        `db:"player_id"`
	PlayerName  string        `db:"player_name"`
	FishCaught  int           `db:"fish_caught"`
	TotalWeight float64       `db:"total_weight"`
	Coins       sql.NullInt64 `db:"coins"`
	SubmittedAt time.Time     `db:"submitted_at"`
}
