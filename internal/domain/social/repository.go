package social

import "context"

type RequestRepository interface {
	Get(ctx context.Context, recipientID, senderID string) (FriendRequest, bool, error)
	Upsert(ctx context.Context, item FriendRequest) error
	ListByRecipient(ctx context.Context, recipientID string) ([]FriendRequest, error)
	// Dismiss marks the request handled and reports whether it existed.
	Dismiss(ctx context.Context, recipientID, senderID string) (bool, error)
}

type FriendRepository interface {
	ListFriends(ctx context.Context, userID string) ([]string, error)
	// AddFriend links friendID to userID one way and reports whether the
	// link was newly created.
	AddFriend(ctx context.Context, userID, friendID string) (bool, error)
}
