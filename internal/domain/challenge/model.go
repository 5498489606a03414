package challenge

import "time"

// Goal selects the metric used to rank score submissions.
type Goal string

const (
	GoalFish   Goal = "Fish"
	GoalWeight Goal = "Weight"
)

// Namespace separates otherwise identical challenge categories in storage.
type Namespace string

const (
	NamespaceHourly        Namespace = "hourly"
	NamespaceProTournament Namespace = "proTournament"
)

type Challenge struct {
	ID         string
	Namespace  Namespace
	Goal       Goal
	Location   string
	Duration   int // gameplay duration in seconds
	StartDate  time.Time
	EndDate    time.Time
	MaxReward  int
	Completed  bool
	CustomText string
}

func (c Challenge) Expired(now time.Time) bool {
	return now.After(c.EndDate)
}

type Score struct {
	ChallengeID string
	PlayerID    string
	PlayerName  string
	FishCaught  int
	TotalWeight float64
	Date        time.Time
	// Coins is assigned once at settlement and stays nil until then.
	Coins *int
}

// RankingValue returns the score metric selected by the challenge goal.
func (c Challenge) RankingValue(s Score) float64 {
	if c.Goal == GoalFish {
		return float64(s.FishCaught)
	}
	return s.TotalWeight
}
