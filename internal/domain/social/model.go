package social

import "time"

type FriendRequest struct {
	RecipientID string
	SenderID    string
	SenderName  string
	Date        time.Time
	Dismissed   bool
}
