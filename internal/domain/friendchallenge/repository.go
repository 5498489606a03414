package friendchallenge

import "context"

type Repository interface {
	Create(ctx context.Context, item FriendChallenge) error
	GetByID(ctx context.Context, challengeID string) (FriendChallenge, bool, error)
	// HasActive reports whether an uncompleted challenge exists for the
	// ordered (challenger, recipient) pair.
	HasActive(ctx context.Context, challengerID, recipientID string) (bool, error)
	ListActiveByChallenger(ctx context.Context, userID string) ([]FriendChallenge, error)
	ListActiveByRecipient(ctx context.Context, userID string) ([]FriendChallenge, error)
	SetAccepted(ctx context.Context, challengeID string) error
	// AppendScore appends the score and updates the completed flag in one write.
	AppendScore(ctx context.Context, challengeID string, score Score, completed bool) error
	Delete(ctx context.Context, challengeID string) error
}
