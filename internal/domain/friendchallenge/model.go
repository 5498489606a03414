package friendchallenge

import (
	"time"

	"github.com/melechlapson/CastNCatch/internal/domain/challenge"
)

type FriendChallenge struct {
	ID         string
	Challenger string
	Recipient  string
	Goal       challenge.Goal
	Location   string
	Duration   int // gameplay duration in seconds
	StartDate  time.Time
	Wager      int
	// Deduct marks the escrow variant: the wager is debited from each
	// participant up front and paid back out at settlement.
	Deduct    bool
	Accepted  bool
	Completed bool
	// Scores is append-only; settlement triggers at exactly two entries.
	Scores []Score
}

type Score struct {
	PlayerID    string
	PlayerName  string
	FishCaught  int
	TotalWeight float64
	Date        time.Time
}

func (f FriendChallenge) Participant(userID string) bool {
	return f.Challenger == userID || f.Recipient == userID
}

func (f FriendChallenge) HasScoreFrom(userID string) bool {
	for _, s := range f.Scores {
		if s.PlayerID == userID {
			return true
		}
	}
	return false
}

// RankingValue returns the score metric selected by the challenge goal.
func (f FriendChallenge) RankingValue(s Score) float64 {
	if f.Goal == challenge.GoalFish {
		return float64(s.FishCaught)
	}
	return s.TotalWeight
}
