package challenge

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, item Challenge) error
	GetByID(ctx context.Context, ns Namespace, challengeID string) (Challenge, bool, error)
	ListActive(ctx context.Context, ns Namespace, now time.Time) ([]Challenge, error)
	ListIncomplete(ctx context.Context, ns Namespace) ([]Challenge, error)
	MarkCompleted(ctx context.Context, ns Namespace, challengeID string) error
}

type ScoreRepository interface {
	Get(ctx context.Context, ns Namespace, challengeID, playerID string) (Score, bool, error)
	List(ctx context.Context, ns Namespace, challengeID string) ([]Score, error)
	Insert(ctx context.Context, ns Namespace, score Score) error
	SetCoins(ctx context.Context, ns Namespace, challengeID, playerID string, coins int) error
}

// LocationRepository lists the known fishing location keys, in catalog order.
type LocationRepository interface {
	ListKeys(ctx context.Context) ([]string, error)
}
