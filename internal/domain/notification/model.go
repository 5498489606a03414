package notification

import "time"

type Notification struct {
	ID        string
	UserID    string
	Category  string
	Message   string
	Date      time.Time
	Dismissed bool
	// Data carries an optional payload the client uses for deep linking.
	Data map[string]string
}

const (
	CategoryChallengeRequests      = "challengeRequests"
	CategoryChallengeResults       = "challengeResults"
	CategoryFriendChallengeResults = "friendChallengeResults"
	CategoryFriendRequests         = "friendRequests"
)

// MaxDeviceTokens caps how many push targets a user keeps registered.
// Registering past the cap evicts the oldest token.
const MaxDeviceTokens = 5
