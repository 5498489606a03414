package leaderboard

// Entry is one published leaderboard row. Rank starts at 1.
type Entry struct {
	Rank       int
	PlayerID   string
	PlayerName string
	Ounces     float64
}

// Size is how many rows the published leaderboard holds.
const Size = 10
