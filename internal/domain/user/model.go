package user

type User struct {
	ID          string
	DisplayName string
	// SearchName is the lowercase display name used for prefix search.
	SearchName string
	Coins      int
	LootBoxes  int
}

// Principal identifies the authenticated caller of a request.
type Principal struct {
	UserID string
	Email  string
}

// CoinStats summarizes the coin economy across all users.
type CoinStats struct {
	UserCount     int
	HighestUserID string
	HighestCoins  int
	AverageCoins  float64
	Over10000     int
	Over50000     int
}
